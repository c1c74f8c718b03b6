package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/mentorme/internal/config"
	"github.com/deppfellow/mentorme/internal/database"
	"github.com/deppfellow/mentorme/internal/handler"
	"github.com/deppfellow/mentorme/internal/logger"
	"github.com/deppfellow/mentorme/internal/repository"
	"github.com/deppfellow/mentorme/internal/router"
	"github.com/deppfellow/mentorme/internal/server"
	"github.com/deppfellow/mentorme/internal/service"
)

const (
	DefaultContextTimeout = 30
	migrationTimeout      = time.Minute
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	loggerService := logger.NewLoggerService(cfg.Observability)
	defer loggerService.Shutdown()

	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	if cfg.Primary.Env != "local" {
		ctx, cancel := context.WithTimeout(context.Background(), migrationTimeout)
		err := database.Migrate(ctx, &log, cfg)
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to migrate database")
		}
	}

	srv, err := server.New(cfg, &log, loggerService)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize server")
	}

	repos := repository.NewRepositories(srv)

	services, err := service.NewService(srv, repos)
	if err != nil {
		log.Fatal().Err(err).Msg("could not create services")
	}

	handlers, err := handler.NewHandlers(srv, services)
	if err != nil {
		log.Fatal().Err(err).Msg("handler configuration check failed")
	}

	r := router.NewRouter(srv, handlers)
	srv.SetupHTTPServer(r)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), DefaultContextTimeout*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
