package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/contenthub/contenthub/internal/config"
	"github.com/contenthub/contenthub/internal/modules/model"
	"github.com/contenthub/contenthub/internal/modules/serializer"
	"github.com/contenthub/contenthub/internal/pkg/apperr"
	"github.com/contenthub/contenthub/internal/pkg/tokens"
)

// UserResolver loads the user a token was issued for.
type UserResolver interface {
	Resolve(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// UserAuth returns a middleware that authenticates requests using HS256 bearer tokens.
// It validates the token, loads the user and sets it in the context under "user".
// It also sets the user_id attribute on the current span for telemetry filtering.
func UserAuth(cfg *config.Config, users UserResolver) gin.HandlerFunc {
	secret := []byte(cfg.Auth.JWTSecret)

	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("Unauthorized"))
			return
		}
		raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))

		userID, err := tokens.ParseUserID(raw, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("Unauthorized"))
			return
		}

		user, err := users.Resolve(c.Request.Context(), userID)
		if err != nil {
			if apperr.KindOf(err) == apperr.KindNotFound {
				c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("Unauthorized"))
				return
			}
			c.AbortWithStatusJSON(serializer.FromError(err))
			return
		}

		// Set user_id attribute on the current span for telemetry filtering
		span := trace.SpanFromContext(c.Request.Context())
		if span.SpanContext().IsValid() {
			span.SetAttributes(attribute.String("user_id", user.ID.String()))
		}

		c.Set("user", user)
		c.Next()
	}
}
