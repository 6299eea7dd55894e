package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ilyakaznacheev/cleanenv"

	"github.com/tendant/simple-social/pkg/simplesocial/api"
	"github.com/tendant/simple-social/pkg/simplesocial/config"
	s3storage "github.com/tendant/simple-social/pkg/simplesocial/storage/s3"
)

// envConfig binds the server configuration to environment variables
type envConfig struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"`

	RepositoryType string `env:"REPOSITORY_TYPE" env-default:"memory"`
	DatabaseURL    string `env:"DATABASE_URL"`

	RateLimiterType string `env:"RATE_LIMITER_TYPE" env-default:"memory"`
	RedisAddr       string `env:"REDIS_ADDR"`
	RedisPassword   string `env:"REDIS_PASSWORD"`
	RateLimitPerMin int    `env:"RATE_LIMIT_PER_MINUTE" env-default:"10"`

	MediaStoreType    string `env:"MEDIA_STORE_TYPE" env-default:"memory"`
	S3Region          string `env:"S3_REGION"`
	S3Bucket          string `env:"S3_BUCKET"`
	S3AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`
	S3Endpoint        string `env:"S3_ENDPOINT"`

	GeneratorAPIKey         string `env:"GENERATOR_API_KEY"`
	GeneratorAPIURL         string `env:"GENERATOR_API_URL"`
	GeneratorModel          string `env:"GENERATOR_MODEL"`
	GeneratorTimeoutSeconds int    `env:"GENERATOR_TIMEOUT_SECONDS" env-default:"10"`

	ScheduleWindowDays int  `env:"SCHEDULE_WINDOW_DAYS" env-default:"7"`
	PostsPerDay        int  `env:"POSTS_PER_DAY" env-default:"2"`
	AvoidWeekends      bool `env:"AVOID_WEEKENDS" env-default:"false"`
}

func main() {
	var env envConfig
	if err := cleanenv.ReadEnv(&env); err != nil {
		slog.Error("Failed to read configuration", "err", err)
		os.Exit(1)
	}

	serverConfig, err := config.Load(func(c *config.ServerConfig) error {
		c.Port = env.Port
		c.Environment = env.Environment
		c.RepositoryType = env.RepositoryType
		c.DatabaseURL = env.DatabaseURL
		c.RateLimiterType = env.RateLimiterType
		c.RedisAddr = env.RedisAddr
		c.RedisPassword = env.RedisPassword
		c.RateLimit = env.RateLimitPerMin
		c.MediaStoreType = env.MediaStoreType
		c.S3 = s3storage.Config{
			Region:          env.S3Region,
			Bucket:          env.S3Bucket,
			AccessKeyID:     env.S3AccessKeyID,
			SecretAccessKey: env.S3SecretAccessKey,
			Endpoint:        env.S3Endpoint,
		}
		c.GeneratorAPIKey = env.GeneratorAPIKey
		c.GeneratorAPIURL = env.GeneratorAPIURL
		c.GeneratorModel = env.GeneratorModel
		c.GeneratorTimeout = time.Duration(env.GeneratorTimeoutSeconds) * time.Second
		c.WindowDays = env.ScheduleWindowDays
		c.PostsPerDay = env.PostsPerDay
		c.AvoidWeekends = env.AvoidWeekends
		return nil
	})
	if err != nil {
		slog.Error("Failed to load server configuration", "err", err)
		os.Exit(1)
	}

	svc, err := serverConfig.BuildService(context.Background())
	if err != nil {
		slog.Error("Failed to build service", "err", err)
		os.Exit(1)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Mount("/api/v1", api.NewHandler(svc).Routes())

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", serverConfig.Port),
		Handler: r,
	}

	go func() {
		slog.Info("Simple Social Server starting",
			"port", serverConfig.Port,
			"env", serverConfig.Environment,
			"repository", serverConfig.RepositoryType,
			"rate_limiter", serverConfig.RateLimiterType)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "err", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "err", err)
		os.Exit(1)
	}

	slog.Info("Server exiting")
}
