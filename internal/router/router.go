package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/contenthub/contenthub/docs"
	"github.com/contenthub/contenthub/internal/config"
	"github.com/contenthub/contenthub/internal/middleware"
	"github.com/contenthub/contenthub/internal/modules/handler"
	"github.com/contenthub/contenthub/internal/modules/serializer"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	Config              *config.Config
	Log                 *zap.Logger
	Users               middleware.UserResolver
	AssetHandler        *handler.AssetHandler
	ReviewHandler       *handler.ReviewHandler
	UserHandler         *handler.UserHandler
	NotificationHandler *handler.NotificationHandler
}

func NewRouter(d RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	if d.Config.Telemetry.Enabled && d.Config.Telemetry.OtlpEndpoint != "" {
		r.Use(middleware.OtelTracing(d.Config.App.Name))
		r.Use(middleware.TraceID())
	}

	r.Use(middleware.ZapLogger(d.Log))

	// health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, serializer.Response{Msg: "ok"}) })

	// swagger
	r.GET("/swagger", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		v1.Use(middleware.UserAuth(d.Config, d.Users))

		v1.GET("/me", d.UserHandler.Me)

		asset := v1.Group("/assets")
		{
			asset.POST("", d.AssetHandler.UploadAsset)
			asset.GET("/:id", d.AssetHandler.GetAsset)
			asset.PATCH("/:id", d.AssetHandler.UpdateAsset)

			asset.POST("/:id/view", d.AssetHandler.TrackView)
			asset.POST("/:id/download", d.AssetHandler.TrackDownload)

			asset.POST("/:id/submit-review", d.ReviewHandler.SubmitForReview)
			asset.GET("/:id/reviews", d.ReviewHandler.ListAssetReviews)
		}

		review := v1.Group("/reviews")
		{
			review.GET("/pending", d.ReviewHandler.ListPending)
			review.GET("/:id", d.ReviewHandler.GetReview)

			review.POST("/:id/start", d.ReviewHandler.StartReview)
			review.POST("/:id/approve", d.ReviewHandler.Approve)
			review.POST("/:id/reject", d.ReviewHandler.Reject)
			review.POST("/:id/request-changes", d.ReviewHandler.RequestChanges)
			review.POST("/:id/resubmit", d.ReviewHandler.Resubmit)
		}

		notification := v1.Group("/notifications")
		{
			notification.GET("", d.NotificationHandler.ListNotifications)
			notification.POST("/:id/read", d.NotificationHandler.MarkRead)
		}
	}
	return r
}
