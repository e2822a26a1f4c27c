package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-notes-nosql/internal/config"
	"github.com/go-notes-nosql/internal/infrastructure/dynamo"
	jwtinfra "github.com/go-notes-nosql/internal/infrastructure/jwt"
	s3infra "github.com/go-notes-nosql/internal/infrastructure/s3"
	"github.com/go-notes-nosql/internal/pkg/logging"
	transporthttp "github.com/go-notes-nosql/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	slog.SetDefault(logging.New(os.Stdout, cfg.LogLevel))
	if envErr != nil {
		slog.Info("no .env file found, reading from environment")
	}

	if err := run(cfg); err != nil {
		slog.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	codec, err := jwtinfra.NewCodec(cfg.JWTSecret, cfg.AccessTokenExpiry)
	if err != nil {
		return fmt.Errorf("token codec: %w", err)
	}

	dynamoClient, err := dynamo.NewClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("dynamodb client: %w", err)
	}
	s3Client, err := s3infra.NewClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("s3 client: %w", err)
	}
	objects := s3infra.NewStore(s3Client, cfg.S3BucketName)

	if cfg.AutoBootstrap {
		// Missing tables or bucket surface later as 503s; startup continues.
		if err := dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables); err != nil {
			slog.Warn("dynamodb bootstrap failed", "err", err)
		}
		if err := objects.EnsureBucket(ctx); err != nil {
			slog.Warn("s3 bucket bootstrap failed", "bucket", objects.Bucket(), "err", err)
		}
	}

	deps := &transporthttp.Deps{
		Users:   dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users),
		Notes:   dynamo.NewNoteRepo(dynamoClient, cfg.DynamoTables.Notes),
		Objects: objects,
		Tokens:  codec,
		Health:  dynamo.NewHealthCheck(dynamoClient, cfg.DynamoTables),
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      transporthttp.NewRouter(ctx, cfg, deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.AppPort, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	slog.Info("server stopped")
	return nil
}
