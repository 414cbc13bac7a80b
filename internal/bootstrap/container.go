package bootstrap

import (
	"context"
	"time"

	"github.com/contenthub/contenthub/internal/config"
	"github.com/contenthub/contenthub/internal/infra/blob"
	"github.com/contenthub/contenthub/internal/infra/cache"
	"github.com/contenthub/contenthub/internal/infra/db"
	"github.com/contenthub/contenthub/internal/infra/logger"
	"github.com/contenthub/contenthub/internal/infra/mailer"
	"github.com/contenthub/contenthub/internal/infra/queue"
	"github.com/contenthub/contenthub/internal/modules/handler"
	"github.com/contenthub/contenthub/internal/modules/repo"
	"github.com/contenthub/contenthub/internal/modules/service"
	"github.com/contenthub/contenthub/internal/pkg/utils"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func BuildContainer() *do.Injector {
	inj := do.New()

	// config
	do.Provide(inj, func(i *do.Injector) (*config.Config, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		// tokens from a generated secret do not survive a restart
		if cfg.Auth.JWTSecret == "" {
			key, err := utils.GenerateKey("dev-")
			if err != nil {
				return nil, err
			}
			cfg.Auth.JWTSecret = key
		}
		return cfg, nil
	})

	// logger
	do.Provide(inj, func(i *do.Injector) (*zap.Logger, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return logger.New(cfg.Log.Level)
	})

	// DB
	do.Provide(inj, func(i *do.Injector) (*gorm.DB, error) {
		cfg := do.MustInvoke[*config.Config](i)
		d, err := db.New(cfg, do.MustInvoke[*zap.Logger](i))
		if err != nil {
			return nil, err
		}
		// [optional] auto migrate
		if cfg.Database.AutoMigrate {
			if err := db.Migrate(d); err != nil {
				return nil, err
			}
		}
		return d, nil
	})

	// Redis
	do.Provide(inj, func(i *do.Injector) (*redis.Client, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return cache.New(cfg), nil
	})
	do.Provide(inj, func(i *do.Injector) (*cache.ReviewStats, error) {
		cfg := do.MustInvoke[*config.Config](i)
		ttl := time.Duration(cfg.Review.StatsTTLSec) * time.Second
		return cache.NewReviewStats(do.MustInvoke[*redis.Client](i), ttl), nil
	})

	// RabbitMQ Connection, nil when no broker is configured
	do.Provide(inj, func(i *do.Injector) (*amqp.Connection, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if cfg.RabbitMQ.URL == "" {
			return nil, nil
		}
		return amqp.Dial(cfg.RabbitMQ.URL)
	})

	// S3
	do.Provide(inj, func(i *do.Injector) (*blob.S3Deps, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return blob.NewS3(context.Background(), cfg)
	})

	// Mailer
	do.Provide(inj, func(i *do.Injector) (mailer.Mailer, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if !cfg.Email.Enabled {
			return mailer.NewLog(do.MustInvoke[*zap.Logger](i)), nil
		}
		return mailer.NewSES(context.Background(), cfg)
	})

	// Notification dispatch
	do.Provide(inj, func(i *do.Injector) (service.Dispatcher, error) {
		cfg := do.MustInvoke[*config.Config](i)
		log := do.MustInvoke[*zap.Logger](i)
		conn := do.MustInvoke[*amqp.Connection](i)
		if conn == nil {
			log.Sugar().Warnw("no broker configured, notifications are logged only")
			return service.NewLogDispatcher(log), nil
		}
		pub, err := queue.NewPublisher(conn, cfg.RabbitMQ.Queue, log)
		if err != nil {
			return nil, err
		}
		return service.NewQueueDispatcher(pub), nil
	})

	// Repo
	do.Provide(inj, func(i *do.Injector) (repo.UserRepo, error) {
		return repo.NewUserRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.AssetRepo, error) {
		return repo.NewAssetRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.ReviewRepo, error) {
		return repo.NewReviewRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.NotificationRepo, error) {
		return repo.NewNotificationRepo(do.MustInvoke[*gorm.DB](i)), nil
	})

	// Service
	do.Provide(inj, func(i *do.Injector) (service.UserService, error) {
		return service.NewUserService(do.MustInvoke[repo.UserRepo](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.AssetService, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return service.NewAssetService(
			do.MustInvoke[repo.AssetRepo](i),
			do.MustInvoke[*blob.S3Deps](i),
			cfg.PresignExpire(),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.ReviewService, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return service.NewReviewService(
			do.MustInvoke[repo.ReviewRepo](i),
			do.MustInvoke[repo.AssetRepo](i),
			do.MustInvoke[service.Dispatcher](i),
			do.MustInvoke[*cache.ReviewStats](i),
			do.MustInvoke[*blob.S3Deps](i),
			do.MustInvoke[*zap.Logger](i),
			service.ReviewOptions{
				PublicURL:     cfg.App.PublicURL,
				MaxPageSize:   cfg.Review.MaxPageSize,
				PresignExpire: cfg.PresignExpire(),
			},
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.NotificationService, error) {
		return service.NewNotificationService(do.MustInvoke[repo.NotificationRepo](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*service.NotificationWorker, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return service.NewNotificationWorker(
			do.MustInvoke[repo.NotificationRepo](i),
			do.MustInvoke[repo.UserRepo](i),
			do.MustInvoke[mailer.Mailer](i),
			service.RetryPolicy{
				MaxAttempts:    cfg.Notify.MaxAttempts,
				InitialBackoff: time.Duration(cfg.Notify.InitialBackoffMs) * time.Millisecond,
				MaxBackoff:     time.Duration(cfg.Notify.MaxBackoffMs) * time.Millisecond,
			},
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	// Handler
	do.Provide(inj, func(i *do.Injector) (*handler.UserHandler, error) {
		return handler.NewUserHandler(do.MustInvoke[service.UserService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.AssetHandler, error) {
		return handler.NewAssetHandler(do.MustInvoke[service.AssetService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.ReviewHandler, error) {
		return handler.NewReviewHandler(do.MustInvoke[service.ReviewService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.NotificationHandler, error) {
		return handler.NewNotificationHandler(do.MustInvoke[service.NotificationService](i)), nil
	})

	return inj
}
