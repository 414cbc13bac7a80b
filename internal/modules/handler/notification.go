package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/contenthub/contenthub/internal/modules/serializer"
	"github.com/contenthub/contenthub/internal/modules/service"
)

type NotificationHandler struct {
	svc service.NotificationService
}

func NewNotificationHandler(s service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: s}
}

type ListNotificationsReq struct {
	Limit  int    `form:"limit,default=20" json:"limit" binding:"min=1,max=100" example:"20"`
	Cursor string `form:"cursor" json:"cursor"`
}

// ListNotifications godoc
//
//	@Summary		List notifications
//	@Description	The caller's notifications, newest first
//	@Tags			notification
//	@Produce		json
//	@Param			limit	query	integer	false	"Limit, default 20. Max 100."
//	@Param			cursor	query	string	false	"Cursor from the previous response"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=service.ListNotificationsOutput}
//	@Router			/notifications [get]
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	req := ListNotificationsReq{}
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	out, err := h.svc.List(c.Request.Context(), currentUser(c), service.ListNotificationsInput{
		Limit:  req.Limit,
		Cursor: req.Cursor,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

// MarkRead godoc
//
//	@Summary		Mark notification read
//	@Tags			notification
//	@Produce		json
//	@Param			id	path	string	true	"Notification ID"	format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.Notification}
//	@Failure		404	{object}	serializer.Response
//	@Router			/notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	n, err := h.svc.MarkRead(c.Request.Context(), currentUser(c), id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: n})
}
