package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/contenthub/contenthub/internal/modules/serializer"
	"github.com/contenthub/contenthub/internal/modules/service"
)

type UserHandler struct {
	svc service.UserService
}

func NewUserHandler(s service.UserService) *UserHandler {
	return &UserHandler{svc: s}
}

// Me godoc
//
//	@Summary		Current user
//	@Description	The caller and what the console should let them do
//	@Tags			user
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=service.MeOutput}
//	@Router			/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	out, err := h.svc.Me(c.Request.Context(), currentUser(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: out})
}
