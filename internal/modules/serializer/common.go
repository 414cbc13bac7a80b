package serializer

import (
	"fmt"
	"net/http"

	"github.com/contenthub/contenthub/internal/pkg/apperr"
	"github.com/gin-gonic/gin"
)

// Response
type Response struct {
	Code  int         `json:"code"`
	Data  interface{} `json:"data,omitempty"`
	Msg   string      `json:"msg"`
	Error string      `json:"error,omitempty"`
}

// Err
func Err(errCode int, msg string, err error) Response {
	res := Response{
		Code: errCode,
		Msg:  msg,
	}
	// development mode, show error detail
	if err != nil && gin.Mode() != gin.ReleaseMode {
		res.Error = fmt.Sprintf("%+v", err)
	}
	return res
}

// ParamErr
func ParamErr(msg string, err error) Response {
	if msg == "" {
		msg = "parameter error"
	}
	return Err(http.StatusBadRequest, msg, err)
}

// AuthErr
func AuthErr(msg string) Response {
	if msg == "" {
		msg = "authentication error"
	}
	return Err(http.StatusUnauthorized, msg, nil)
}

// FromError maps a service error to its HTTP status and envelope. Not found,
// conflict and validation errors carry the service's own message; the other
// kinds get a fixed one.
func FromError(err error) (int, Response) {
	switch apperr.KindOf(err) {
	case apperr.KindUnauthenticated:
		return http.StatusUnauthorized, Err(http.StatusUnauthorized, "Please sign in to continue", err)
	case apperr.KindForbidden:
		return http.StatusForbidden, Err(http.StatusForbidden, "You don't have permission to perform this action", err)
	case apperr.KindNotFound:
		return http.StatusNotFound, Err(http.StatusNotFound, apperr.MessageOf(err), err)
	case apperr.KindConflict:
		return http.StatusConflict, Err(http.StatusConflict, apperr.MessageOf(err), err)
	case apperr.KindValidation:
		return http.StatusBadRequest, Err(http.StatusBadRequest, apperr.MessageOf(err), err)
	case apperr.KindUnavailable:
		return http.StatusServiceUnavailable, Err(http.StatusServiceUnavailable, "Service temporarily unavailable, please try again", err)
	default:
		return http.StatusInternalServerError, Err(http.StatusInternalServerError, "internal error", err)
	}
}
