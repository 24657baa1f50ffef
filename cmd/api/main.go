package main

import (
	"context"
	"log"
	"time"

	"messenger-fixtures/config"
	"messenger-fixtures/internal/handler"
	"messenger-fixtures/internal/notification"
	"messenger-fixtures/internal/onboarding"
	"messenger-fixtures/internal/redis"
	"messenger-fixtures/internal/repository"
	"messenger-fixtures/internal/server"
	"messenger-fixtures/internal/services"
	"messenger-fixtures/internal/storage"
	"messenger-fixtures/internal/websocket"
	"messenger-fixtures/pkg/database"
	"messenger-fixtures/pkg/events"
	"messenger-fixtures/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()

	l := logger.New(cfg.LogMode)
	logger.SetGlobalLogger(l)
	defer l.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deps := services.FixtureDeps{
		Bridge: notification.NewBridge(),
		Logger: l,
	}
	checks := map[string]server.HealthCheck{}

	// Redis backs the fixture cache, settings, notification fan-out and rate limiting.
	redis.Initialize(redis.ConfigFrom(cfg))
	rdb := redis.GetClient()
	redisUp := true
	pingCtx, pingCancel := context.WithTimeout(ctx, 3*time.Second)
	if err := redis.Ping(pingCtx, rdb); err != nil {
		l.Logger.Warn("redis unavailable, running without cache and fan-out", zap.Error(err))
		redisUp = false
	}
	pingCancel()

	var settings onboarding.SettingsStore
	var limiter *redis.RateLimiter
	var broker *events.RedisBroker
	if redisUp {
		broker = events.NewRedisBroker(rdb, l)
		deps.Cache = redis.NewFixtureCache(rdb, cfg.FixtureCacheTTL)
		publisher := redis.NewPublisher(broker)
		deps.Publisher = publisher
		deps.Events = publisher
		settings = redis.NewSettingsStore(rdb)
		limiter = redis.NewRateLimiter(rdb, redis.DefaultRateLimitConfig())
		checks["redis"] = func(ctx context.Context) error { return redis.Ping(ctx, rdb) }
	} else {
		settings = onboarding.NewMemoryStore()
	}

	if db, err := database.Connect(cfg); err != nil {
		l.Logger.Warn("database unavailable, persistence disabled", zap.Error(err))
	} else {
		if err := repository.InitSchema(db); err != nil {
			log.Fatalf("Failed to apply GORM migrations: %v", err)
		}
		deps.Repo = repository.NewFixtureRepository(db)
		checks["postgres"] = database.Ping
		defer database.Close()
	}

	if cfg.S3Enabled() {
		s3Client, err := storage.NewClient(ctx, storage.ConfigFrom(cfg))
		if err != nil {
			l.Logger.Warn("object storage disabled", zap.Error(err))
		} else {
			deps.Snapshots = s3Client
		}
	}

	fixtures := services.NewFixtureService(deps)

	hub := websocket.NewHub(l)
	go hub.Run(ctx)
	if redisUp {
		// Every instance receives notifications through Redis, including its own.
		if err := websocket.NewRedisBridge(redis.NewSubscriber(broker), hub).Run(ctx); err != nil {
			log.Fatalf("Failed to subscribe to notifications: %v", err)
		}
	} else {
		fixtures.Bridge().AddListener(hub.Listener())
	}

	authorizer := websocket.NewChannelAuthorizer(func() notification.Store {
		batch, _, ok := fixtures.Current()
		if !ok {
			return nil
		}
		return batch
	})

	srv := server.New(cfg, l)
	srv.SetupRoutes(&server.Handlers{
		Fixture: handler.NewFixtureHandler(fixtures, handler.GenerateDefaults{
			Contacts:    cfg.FixtureContacts,
			MultiMember: cfg.FixtureMultiMember,
			Messages:    cfg.FixtureMessages,
			Seed:        cfg.FixtureSeed,
		}),
		Notification: handler.NewNotificationHandler(fixtures),
		Account:      handler.NewAccountHandler(onboarding.NewService(settings, l)),
		WebSocket:    websocket.NewHandler(hub, authorizer),
	}, limiter, checks)

	if err := srv.Start(); err != nil {
		log.Fatalf("Server stopped with error: %v", err)
	}
}
