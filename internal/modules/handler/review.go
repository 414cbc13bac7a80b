package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/contenthub/contenthub/internal/modules/model"
	"github.com/contenthub/contenthub/internal/modules/serializer"
	"github.com/contenthub/contenthub/internal/modules/service"
)

type ReviewHandler struct {
	svc service.ReviewService
}

func NewReviewHandler(s service.ReviewService) *ReviewHandler {
	return &ReviewHandler{svc: s}
}

type SubmitReviewReq struct {
	Notes string `json:"notes" example:"Final cut, please check the logo placement"`
}

// SubmitForReview godoc
//
//	@Summary		Submit asset for review
//	@Description	Open a review for a completed asset. Only the uploader may submit, and an asset can have one open review at a time.
//	@Tags			review
//	@Accept			json
//	@Produce		json
//	@Param			id		path	string					true	"Asset ID"	format(uuid)
//	@Param			payload	body	handler.SubmitReviewReq	false	"Submission notes"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.Review}
//	@Failure		403	{object}	serializer.Response
//	@Failure		404	{object}	serializer.Response
//	@Failure		409	{object}	serializer.Response
//	@Router			/assets/{id}/submit-review [post]
func (h *ReviewHandler) SubmitForReview(c *gin.Context) {
	assetID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	req := SubmitReviewReq{}
	if !bindOptionalJSON(c, &req) {
		return
	}

	rv, err := h.svc.SubmitForReview(c.Request.Context(), currentUser(c), assetID, req.Notes)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: rv})
}

type ListPendingReq struct {
	Page   int    `form:"page,default=1" json:"page" binding:"min=1,max=100000" example:"1"`
	Limit  int    `form:"limit,default=20" json:"limit" binding:"min=1,max=100" example:"20"`
	Status string `form:"status" json:"status" example:"PENDING,IN_PROGRESS"`
	Cursor string `form:"cursor" json:"cursor"`
}

// ListPending godoc
//
//	@Summary		List review queue
//	@Description	List reviews oldest first (submitted_at, then id). Use page/limit, or the cursor from the previous response.
//	@Tags			review
//	@Produce		json
//	@Param			page	query	integer	false	"Page number, default 1"
//	@Param			limit	query	integer	false	"Page size, default 20. Max 100."
//	@Param			status	query	string	false	"Comma separated statuses, default PENDING,IN_PROGRESS"
//	@Param			cursor	query	string	false	"Cursor for keyset pagination; takes precedence over page"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=service.ListPendingOutput}
//	@Failure		403	{object}	serializer.Response
//	@Router			/reviews/pending [get]
func (h *ReviewHandler) ListPending(c *gin.Context) {
	req := ListPendingReq{}
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	var statuses []model.ReviewStatus
	for _, s := range strings.Split(req.Status, ",") {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			statuses = append(statuses, model.ReviewStatus(s))
		}
	}

	out, err := h.svc.ListPending(c.Request.Context(), currentUser(c), service.ListPendingInput{
		Statuses: statuses,
		Page:     req.Page,
		PageSize: req.Limit,
		Cursor:   req.Cursor,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

// GetReview godoc
//
//	@Summary		Get review
//	@Description	Get a review with its asset and a short-lived preview URL
//	@Tags			review
//	@Produce		json
//	@Param			id	path	string	true	"Review ID"	format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=service.ReviewDetail}
//	@Failure		403	{object}	serializer.Response
//	@Failure		404	{object}	serializer.Response
//	@Router			/reviews/{id} [get]
func (h *ReviewHandler) GetReview(c *gin.Context) {
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

type ApproveReq struct {
	Notes string `json:"notes" example:"Approved for the spring campaign"`
}

// Approve godoc
//
//	@Summary		Approve review
//	@Description	Approve a pending or in-progress review; the asset becomes ready for publishing
//	@Tags			review
//	@Accept			json
//	@Produce		json
//	@Param			id		path	string				true	"Review ID"	format(uuid)
//	@Param			payload	body	handler.ApproveReq	false	"Reviewer notes"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.Review}
//	@Failure		403	{object}	serializer.Response
//	@Failure		404	{object}	serializer.Response
//	@Failure		409	{object}	serializer.Response
//	@Router			/reviews/{id}/approve [post]
func (h *ReviewHandler) Approve(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	req := ApproveReq{}
	if !bindOptionalJSON(c, &req) {
		return
	}

	rv, err := h.svc.Approve(c.Request.Context(), currentUser(c), id, req.Notes)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: rv})
}

type RejectReq struct {
	Reasons  []string `json:"reasons" example:"Off-brand colors,Low resolution"`
	Comments string   `json:"comments"`
}

// Reject godoc
//
//	@Summary		Reject review
//	@Description	Reject a pending or in-progress review. At least one reason is required.
//	@Tags			review
//	@Accept			json
//	@Produce		json
//	@Param			id		path	string				true	"Review ID"	format(uuid)
//	@Param			payload	body	handler.RejectReq	true	"Rejection reasons"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.Review}
//	@Failure		400	{object}	serializer.Response
//	@Failure		403	{object}	serializer.Response
//	@Failure		404	{object}	serializer.Response
//	@Failure		409	{object}	serializer.Response
//	@Router			/reviews/{id}/reject [post]
func (h *ReviewHandler) Reject(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	req := RejectReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	rv, err := h.svc.Reject(c.Request.Context(), currentUser(c), id, req.Reasons, req.Comments)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: rv})
}

type RequestChangesReq struct {
	RequiredChanges []string `json:"requiredChanges" example:"Crop to 16:9"`
	// RequiredChangesSnake is the snake_case alias of RequiredChanges.
	RequiredChangesSnake []string `json:"required_changes" swaggerignore:"true"`
	Comments             string   `json:"comments"`
}

// changes merges both spellings, camelCase first.
func (r RequestChangesReq) changes() []string {
	if len(r.RequiredChangesSnake) == 0 {
		return r.RequiredChanges
	}
	return append(append([]string{}, r.RequiredChanges...), r.RequiredChangesSnake...)
}

// RequestChanges godoc
//
//	@Summary		Request changes
//	@Description	Send a pending or in-progress review back to the uploader. At least one required change is needed.
//	@Tags			review
//	@Accept			json
//	@Produce		json
//	@Param			id		path	string						true	"Review ID"	format(uuid)
//	@Param			payload	body	handler.RequestChangesReq	true	"Required changes"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.Review}
//	@Failure		400	{object}	serializer.Response
//	@Failure		403	{object}	serializer.Response
//	@Failure		404	{object}	serializer.Response
//	@Failure		409	{object}	serializer.Response
//	@Router			/reviews/{id}/request-changes [post]
func (h *ReviewHandler) RequestChanges(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	req := RequestChangesReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	rv, err := h.svc.RequestChanges(c.Request.Context(), currentUser(c), id, req.changes(), req.Comments)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: rv})
}

// StartReview godoc
//
//	@Summary		Start review
//	@Description	Claim a pending review; it moves to IN_PROGRESS with the caller as reviewer
//	@Tags			review
//	@Produce		json
//	@Param			id	path	string	true	"Review ID"	format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.Review}
//	@Failure		403	{object}	serializer.Response
//	@Failure		404	{object}	serializer.Response
//	@Failure		409	{object}	serializer.Response
//	@Router			/reviews/{id}/start [post]
func (h *ReviewHandler) StartReview(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	rv, err := h.svc.Start(c.Request.Context(), currentUser(c), id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: rv})
}

// Resubmit godoc
//
//	@Summary		Resubmit review
//	@Description	Put a review with requested changes back into the queue. Only the uploader may resubmit.
//	@Tags			review
//	@Accept			json
//	@Produce		json
//	@Param			id		path	string					true	"Review ID"	format(uuid)
//	@Param			payload	body	handler.SubmitReviewReq	false	"Notes about the changes"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.Review}
//	@Failure		403	{object}	serializer.Response
//	@Failure		404	{object}	serializer.Response
//	@Failure		409	{object}	serializer.Response
//	@Router			/reviews/{id}/resubmit [post]
func (h *ReviewHandler) Resubmit(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	req := SubmitReviewReq{}
	if !bindOptionalJSON(c, &req) {
		return
	}

	rv, err := h.svc.Resubmit(c.Request.Context(), currentUser(c), id, req.Notes)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: rv})
}

// ListAssetReviews godoc
//
//	@Summary		List asset reviews
//	@Description	Review history of an asset, newest first. Visible to the uploader and reviewers.
//	@Tags			review
//	@Produce		json
//	@Param			id	path	string	true	"Asset ID"	format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=[]model.Review}
//	@Failure		403	{object}	serializer.Response
//	@Failure		404	{object}	serializer.Response
//	@Router			/assets/{id}/reviews [get]
func (h *ReviewHandler) ListAssetReviews(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	items, err := h.svc.ListForAsset(c.Request.Context(), currentUser(c), id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: items})
}
