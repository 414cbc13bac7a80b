package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/contenthub/contenthub/internal/modules/model"
	"github.com/contenthub/contenthub/internal/modules/serializer"
	"github.com/contenthub/contenthub/internal/modules/service"
)

type AssetHandler struct {
	svc service.AssetService
}

func NewAssetHandler(s service.AssetService) *AssetHandler {
	return &AssetHandler{svc: s}
}

type UploadAssetReq struct {
	Title          string   `form:"title" json:"title" example:"Spring campaign hero"`
	Description    string   `form:"description" json:"description"`
	Department     string   `form:"department" json:"department" example:"Marketing"`
	Usage          string   `form:"usage" json:"usage" enums:"internal,public" example:"internal"`
	ProductionYear *int     `form:"production_year" json:"production_year" binding:"omitempty,min=1900,max=2200" example:"2025"`
	Tags           []string `form:"tags" json:"tags"`
	Width          *int     `form:"width" json:"width" binding:"omitempty,min=0"`
	Height         *int     `form:"height" json:"height" binding:"omitempty,min=0"`
	Duration       *float64 `form:"duration_seconds" json:"duration_seconds" binding:"omitempty,min=0"`
}

// UploadAsset godoc
//
//	@Summary		Upload asset
//	@Description	Upload a file and create its asset record. Tags may be repeated or comma separated.
//	@Tags			asset
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file				formData	file	true	"Asset file"
//	@Param			title				formData	string	false	"Title, defaults to the file name"
//	@Param			description			formData	string	false	"Description"
//	@Param			department			formData	string	false	"Owning department"
//	@Param			usage				formData	string	false	"internal or public"
//	@Param			production_year		formData	integer	false	"Production year"
//	@Param			tags				formData	string	false	"Tags"
//	@Param			width				formData	integer	false	"Width in pixels"
//	@Param			height				formData	integer	false	"Height in pixels"
//	@Param			duration_seconds	formData	number	false	"Duration in seconds"
//	@Security		BearerAuth
//	@Success		201	{object}	serializer.Response{data=model.Asset}
//	@Failure		400	{object}	serializer.Response
//	@Failure		503	{object}	serializer.Response
//	@Router			/assets [post]
func (h *AssetHandler) UploadAsset(c *gin.Context) {
	req := UploadAssetReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("file is required", err))
		return
	}

	var tags []string
	for _, t := range req.Tags {
		tags = append(tags, strings.Split(t, ",")...)
	}

	a, err := h.svc.Upload(c.Request.Context(), currentUser(c), service.UploadAssetInput{
		File:           fh,
		Title:          req.Title,
		Description:    req.Description,
		Department:     req.Department,
		Usage:          model.AssetUsage(strings.ToLower(req.Usage)),
		ProductionYear: req.ProductionYear,
		Tags:           tags,
		Width:          req.Width,
		Height:         req.Height,
		Duration:       req.Duration,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, serializer.Response{Data: a})
}

// GetAsset godoc
//
//	@Summary		Get asset
//	@Description	Get an asset with a short-lived download URL
//	@Tags			asset
//	@Produce		json
//	@Param			id	path	string	true	"Asset ID"	format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=service.AssetDetail}
//	@Failure		404	{object}	serializer.Response
//	@Router			/assets/{id} [get]
func (h *AssetHandler) GetAsset(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	out, err := h.svc.Get(c.Request.Context(), currentUser(c), id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

type UpdateAssetReq struct {
	Title          *string   `json:"title"`
	Description    *string   `json:"description"`
	Department     *string   `json:"department"`
	Usage          *string   `json:"usage" enums:"internal,public"`
	ProductionYear *int      `json:"production_year" binding:"omitempty,min=1900,max=2200"`
	Tags           *[]string `json:"tags"`
}

// UpdateAsset godoc
//
//	@Summary		Update asset metadata
//	@Description	Patch asset metadata. Only the uploader may edit, and not while the asset is under review.
//	@Tags			asset
//	@Accept			json
//	@Produce		json
//	@Param			id		path	string					true	"Asset ID"	format(uuid)
//	@Param			payload	body	handler.UpdateAssetReq	true	"Fields to change"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.Asset}
//	@Failure		400	{object}	serializer.Response
//	@Failure		403	{object}	serializer.Response
//	@Failure		404	{object}	serializer.Response
//	@Failure		409	{object}	serializer.Response
//	@Router			/assets/{id} [patch]
func (h *AssetHandler) UpdateAsset(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	req := UpdateAssetReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	in := service.UpdateAssetInput{
		Title:          req.Title,
		Description:    req.Description,
		Department:     req.Department,
		ProductionYear: req.ProductionYear,
		Tags:           req.Tags,
	}
	if req.Usage != nil {
		u := model.AssetUsage(strings.ToLower(*req.Usage))
		in.Usage = &u
	}

	a, err := h.svc.Update(c.Request.Context(), currentUser(c), id, in)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: a})
}

// TrackView godoc
//
//	@Summary		Track asset view
//	@Tags			asset
//	@Produce		json
//	@Param			id	path	string	true	"Asset ID"	format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response
//	@Failure		404	{object}	serializer.Response
//	@Router			/assets/{id}/view [post]
func (h *AssetHandler) TrackView(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.TrackView(c.Request.Context(), currentUser(c), id); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{})
}

// TrackDownload godoc
//
//	@Summary		Download asset
//	@Description	Count a download and return a short-lived attachment URL
//	@Tags			asset
//	@Produce		json
//	@Param			id	path	string	true	"Asset ID"	format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=map[string]string}
//	@Failure		404	{object}	serializer.Response
//	@Router			/assets/{id}/download [post]
func (h *AssetHandler) TrackDownload(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	url, err := h.svc.TrackDownload(c.Request.Context(), currentUser(c), id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: gin.H{"download_url": url}})
}
