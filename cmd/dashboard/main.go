// Package main запускает HTTP-сервер дашборда платежей.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mqasim30/Committrr-Firebase-Dashboard/internal/config"
	"github.com/mqasim30/Committrr-Firebase-Dashboard/internal/handler"
	"github.com/mqasim30/Committrr-Firebase-Dashboard/internal/repository"
	"github.com/mqasim30/Committrr-Firebase-Dashboard/internal/service"
)

func main() {
	// Локальный .env, если он есть; в остальных окружениях
	// конфигурация приходит из переменных окружения.
	_ = godotenv.Load()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	credentials, err := repository.LoadCredentials(cfg.FirebaseCertPath, cfg.FirebaseCertJSON)
	if err != nil {
		sugar.Fatalw("credentials error", "error", err.Error())
	}

	// Клиент базы создаётся один раз на процесс и переиспользуется
	// всеми операциями чтения.
	repo, err := repository.NewFirebaseRepository(context.Background(), cfg.FirebaseDBURL, credentials)
	if err != nil {
		sugar.Fatalw("database initialization error", "error", err.Error())
	}

	svc := service.NewService(repo, logger)
	defer svc.Close()

	h := handler.NewHandler(svc, logger)

	r := h.SetupRouter()

	server := &http.Server{
		Addr:    cfg.RunAddress,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Запуск HTTP-сервера
	g.Go(func() error {
		sugar.Infow("starting dashboard server",
			"addr", cfg.RunAddress,
			"database", cfg.FirebaseDBURL,
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown при отмене контекста (сигнал или ошибка в другой горутине)
	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}
