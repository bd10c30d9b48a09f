package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/guildkit/guild-api/internal/api/http"
	"github.com/guildkit/guild-api/internal/api/http/handlers"
	"github.com/guildkit/guild-api/internal/auth"
	"github.com/guildkit/guild-api/internal/config"
	"github.com/guildkit/guild-api/internal/events"
	"github.com/guildkit/guild-api/internal/observability"
	"github.com/guildkit/guild-api/internal/persistence"
	"github.com/guildkit/guild-api/internal/repository"
	"github.com/guildkit/guild-api/internal/service"
	"github.com/guildkit/guild-api/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	// Shared for the process lifetime; created here, passed by reference.
	httpClient := persistence.NewHTTPClient()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	roleRepo := repository.NewRoleRepository(pool)
	configRepo := repository.NewGuildConfigRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	notifier := service.NewNotificationService(dispatcher, logger, cfg.Notify, httpClient)
	worker.StartNotificationWorker(notifier)

	discord := service.NewDiscordProvider(cfg.Discord, httpClient)
	authService := service.NewAuthService(cfg.Auth, discord, userRepo, redis)
	configService := service.NewGuildConfigService(configRepo, dispatcher)
	authMiddleware := auth.NewMiddleware(authService.TokenManager())

	metrics := observability.NewMetrics()
	errorHandlers := httptransport.NewErrorHandlers()

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	httptransport.RegisterMiddlewares(app, logger, metrics, errorHandlers, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(userRepo, roleRepo),
		Roles:          handlers.NewRolesHandler(roleRepo),
		GuildConfigs:   handlers.NewGuildConfigHandler(configService),
		AuthMiddleware: authMiddleware,
		Errors:         errorHandlers,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
