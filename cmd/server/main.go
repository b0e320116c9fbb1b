package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/messagely/messaging-system/internal/api"
	"github.com/messagely/messaging-system/internal/api/metrics"
	"github.com/messagely/messaging-system/internal/core/service"
	"github.com/messagely/messaging-system/internal/infrastructure/queue"
	"github.com/messagely/messaging-system/internal/infrastructure/token"
	"github.com/messagely/messaging-system/internal/pkg/config"
	"github.com/messagely/messaging-system/pkg/logger"
)

// @title        messagely API
// @version      1.0
// @description  User-to-user messaging with token-based identity.
// @BasePath     /
func main() {
	cfg := config.Load()
	logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "messagely",
	})

	if err := run(cfg); err != nil {
		log := logger.Get()
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.Config) error {
	log := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer store.close()

	users := service.NewUserService(store.users, log)

	recorder := queue.NewLoginRecorder(cfg.LoginWorkers, users, log)
	recorderCtx, cancelRecorder := context.WithCancel(context.Background())
	defer cancelRecorder()
	recorder.Start(recorderCtx)

	tokens := token.NewService(cfg.JWTSecret, cfg.TokenTTL)
	auth := service.NewAuthService(store.users, tokens, recorder, metrics.Recorder{}, cfg.BcryptWorkFactor, log)
	messages := service.NewMessageService(store.messages, store.users, metrics.Recorder{}, log)

	e := api.NewRouter(api.Dependencies{
		Auth:      auth,
		Users:     users,
		Messages:  messages,
		Readiness: store.readiness,
		Logger:    log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return e.Shutdown(shutCtx)
}
