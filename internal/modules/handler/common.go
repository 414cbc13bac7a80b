package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/contenthub/contenthub/internal/modules/model"
	"github.com/contenthub/contenthub/internal/modules/serializer"
)

// currentUser returns the caller set by the auth middleware, or nil.
func currentUser(c *gin.Context) *model.User {
	v, ok := c.Get("user")
	if !ok {
		return nil
	}
	u, _ := v.(*model.User)
	return u
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid "+name, err))
		return uuid.Nil, false
	}
	return id, true
}

// bindOptionalJSON binds a JSON body when one was sent; an empty body leaves
// req at its zero value.
func bindOptionalJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return false
	}
	return true
}

func abortWithError(c *gin.Context, err error) {
	c.JSON(serializer.FromError(err))
}
