package main

//	@title			Content Hub API
//	@version		1.0
//	@description	Review and approval workflow for the Content Hub asset library.
//	@schemes		http https
//	@BasePath		/api/v1

//  Bearer at user level
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				User Bearer token (e.g., "Bearer eyJhbGciOi...")

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/contenthub/contenthub/internal/bootstrap"
	"github.com/contenthub/contenthub/internal/config"
	"github.com/contenthub/contenthub/internal/infra/cache"
	dbpkg "github.com/contenthub/contenthub/internal/infra/db"
	"github.com/contenthub/contenthub/internal/infra/queue"
	"github.com/contenthub/contenthub/internal/modules/handler"
	"github.com/contenthub/contenthub/internal/modules/service"
	"github.com/contenthub/contenthub/internal/pkg/tokens"
	"github.com/contenthub/contenthub/internal/router"
	"github.com/contenthub/contenthub/internal/telemetry"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	// build dependency injection container
	inj := bootstrap.BuildContainer()

	cfg := do.MustInvoke[*config.Config](inj)
	log := do.MustInvoke[*zap.Logger](inj)
	defer func() { _ = log.Sync() }()

	// Setup OpenTelemetry tracing before the clients are instrumented
	tp, err := telemetry.SetupTracing(cfg)
	if err != nil {
		log.Sugar().Warnw("failed to setup tracing, continuing without tracing", "err", err)
	}

	db := do.MustInvoke[*gorm.DB](inj)
	rdb := do.MustInvoke[*redis.Client](inj)

	if tp != nil {
		log.Sugar().Infow("OpenTelemetry tracing enabled", "endpoint", cfg.Telemetry.OtlpEndpoint)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := telemetry.Shutdown(ctx); err != nil {
				log.Sugar().Errorw("failed to shutdown tracer", "err", err)
			}
		}()

		if err := dbpkg.RegisterOpenTelemetryPlugin(db); err != nil {
			log.Sugar().Warnw("failed to register GORM OpenTelemetry plugin, continuing without database tracing", "err", err)
		}
		if err := cache.RegisterOpenTelemetryPlugin(rdb); err != nil {
			log.Sugar().Warnw("failed to register Redis OpenTelemetry plugin, continuing without Redis tracing", "err", err)
		}
	}

	// init gin
	gin.SetMode(cfg.App.Env)

	users := do.MustInvoke[service.UserService](inj)
	seedAdmin(cfg, log, users)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// notification worker
	if conn := do.MustInvoke[*amqp.Connection](inj); conn != nil {
		defer conn.Close()
		if cfg.Notify.Consumer {
			worker := do.MustInvoke[*service.NotificationWorker](inj)
			consumer := queue.NewConsumer(conn, cfg.RabbitMQ.Queue, cfg.RabbitMQ.Prefetch, log)
			go func() {
				log.Sugar().Infow("starting notification consumer", "queue", cfg.RabbitMQ.Queue)
				if err := consumer.Run(ctx, worker.Handle); err != nil && !errors.Is(err, context.Canceled) {
					log.Sugar().Errorw("notification consumer stopped", "err", err)
				}
			}()
		}
	}

	engine := router.NewRouter(router.RouterDeps{
		Config:              cfg,
		Log:                 log,
		Users:               users,
		AssetHandler:        do.MustInvoke[*handler.AssetHandler](inj),
		ReviewHandler:       do.MustInvoke[*handler.ReviewHandler](inj),
		UserHandler:         do.MustInvoke[*handler.UserHandler](inj),
		NotificationHandler: do.MustInvoke[*handler.NotificationHandler](inj),
	})

	addr := fmt.Sprintf("%s:%d", cfg.App.Host, cfg.App.Port)
	srv := &http.Server{Addr: addr, Handler: engine}

	go func() {
		log.Sugar().Infow("starting http server", "addr", addr)
		log.Sugar().Infow("swagger url", "url", addr+"/swagger/index.html")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Sugar().Fatalw("listen error", "err", err)
		}
	}()

	// graceful shutdown
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Sugar().Errorw("server shutdown", "err", err)
	}
	log.Sugar().Info("server exited")
}

// seedAdmin makes sure the configured admin exists. Outside release mode it also
// logs a bearer token for that account.
func seedAdmin(cfg *config.Config, log *zap.Logger, users service.UserService) {
	if cfg.Root.AdminEmail == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	admin, err := users.EnsureAdmin(ctx, cfg.Root.AdminEmail, cfg.Root.AdminName)
	if err != nil {
		log.Sugar().Fatalw("seed admin", "email", cfg.Root.AdminEmail, "err", err)
	}
	if gin.Mode() == gin.ReleaseMode {
		return
	}
	token, err := tokens.GenerateToken(admin.ID, []byte(cfg.Auth.JWTSecret), cfg.TokenTTL())
	if err != nil {
		log.Sugar().Warnw("issue admin token", "err", err)
		return
	}
	log.Sugar().Infow("admin bearer token", "email", admin.Email, "token", "Bearer "+token)
}
