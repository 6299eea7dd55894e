package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/tendant/simple-social/pkg/simplesocial"
	"github.com/tendant/simple-social/pkg/simplesocial/generator/openai"
	memorylimiter "github.com/tendant/simple-social/pkg/simplesocial/ratelimit/memory"
	redislimiter "github.com/tendant/simple-social/pkg/simplesocial/ratelimit/redis"
	memoryrepo "github.com/tendant/simple-social/pkg/simplesocial/repo/memory"
	postgresrepo "github.com/tendant/simple-social/pkg/simplesocial/repo/postgres"
	memorystorage "github.com/tendant/simple-social/pkg/simplesocial/storage/memory"
	s3storage "github.com/tendant/simple-social/pkg/simplesocial/storage/s3"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of
// library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:             "8080",
		Environment:      "development",
		RepositoryType:   "memory",
		RateLimiterType:  "memory",
		RateLimit:        10,
		RateWindow:       time.Minute,
		MediaStoreType:   "memory",
		WindowDays:       7,
		PostsPerDay:      2,
		GeneratorTimeout: 10 * time.Second,
	}
}

// ServerConfig represents server configuration for the simple-social service
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Repository configuration
	RepositoryType string // "memory", "postgres"
	DatabaseURL    string

	// Rate limiter configuration
	RateLimiterType string // "memory", "redis"
	RedisAddr       string
	RedisPassword   string
	RateLimit       int
	RateWindow      time.Duration

	// Media store configuration
	MediaStoreType string // "memory", "s3"
	S3             s3storage.Config

	// Generator configuration; empty APIKey disables the primary generator
	// and the service runs on fallback templates only.
	GeneratorAPIKey  string
	GeneratorAPIURL  string
	GeneratorModel   string
	GeneratorTimeout time.Duration

	// Scheduling defaults
	WindowDays    int
	PostsPerDay   int
	AvoidWeekends bool
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}
	if c.RepositoryType != "memory" && c.RepositoryType != "postgres" {
		return errors.New("repository_type must be 'memory' or 'postgres'")
	}
	if c.RepositoryType == "postgres" && c.DatabaseURL == "" {
		return errors.New("database_url is required when using postgres")
	}
	if c.RateLimiterType != "memory" && c.RateLimiterType != "redis" {
		return errors.New("rate_limiter_type must be 'memory' or 'redis'")
	}
	if c.RateLimiterType == "redis" && c.RedisAddr == "" {
		return errors.New("redis_addr is required when using the redis rate limiter")
	}
	if c.MediaStoreType != "memory" && c.MediaStoreType != "s3" {
		return errors.New("media_store_type must be 'memory' or 's3'")
	}
	if c.RateLimit < 1 {
		return errors.New("rate_limit must be positive")
	}
	if c.WindowDays < 1 || c.PostsPerDay < 1 {
		return errors.New("window_days and posts_per_day must be positive")
	}
	return nil
}

// BuildService constructs a simplesocial.Service from the configuration.
func (c *ServerConfig) BuildService(ctx context.Context) (simplesocial.Service, error) {
	options := []simplesocial.Option{
		simplesocial.WithScheduleDefaults(simplesocial.ScheduleDefaults{
			WindowDays:    c.WindowDays,
			PostsPerDay:   c.PostsPerDay,
			AvoidWeekends: c.AvoidWeekends,
		}),
	}

	repo, err := c.buildRepository(ctx)
	if err != nil {
		return nil, err
	}
	options = append(options, simplesocial.WithRepository(repo))

	limiter, err := c.buildRateLimiter()
	if err != nil {
		return nil, err
	}
	options = append(options, simplesocial.WithRateLimiter(limiter))

	media, err := c.buildMediaStore()
	if err != nil {
		return nil, err
	}
	options = append(options, simplesocial.WithMediaStore(media))

	if c.GeneratorAPIKey != "" {
		client := openai.New(openai.Config{
			APIKey:  c.GeneratorAPIKey,
			APIURL:  c.GeneratorAPIURL,
			Model:   c.GeneratorModel,
			Timeout: c.GeneratorTimeout,
		})
		options = append(options,
			simplesocial.WithCaptionGenerator(client),
			simplesocial.WithTimeAdvisor(client),
		)
	}

	return simplesocial.New(options...)
}

func (c *ServerConfig) buildRepository(ctx context.Context) (simplesocial.Repository, error) {
	switch c.RepositoryType {
	case "postgres":
		pool, err := pgxpool.New(ctx, c.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create database pool: %w", err)
		}
		return postgresrepo.NewWithPool(pool), nil
	default:
		return memoryrepo.New(), nil
	}
}

func (c *ServerConfig) buildRateLimiter() (simplesocial.RateLimiter, error) {
	switch c.RateLimiterType {
	case "redis":
		client := goredis.NewClient(&goredis.Options{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
		})
		return redislimiter.New(client,
			redislimiter.WithLimit(c.RateLimit),
			redislimiter.WithWindow(c.RateWindow),
		), nil
	default:
		return memorylimiter.New(
			memorylimiter.WithLimit(c.RateLimit),
			memorylimiter.WithWindow(c.RateWindow),
		), nil
	}
}

func (c *ServerConfig) buildMediaStore() (simplesocial.MediaStore, error) {
	switch c.MediaStoreType {
	case "s3":
		store, err := s3storage.New(c.S3)
		if err != nil {
			return nil, fmt.Errorf("failed to create s3 media store: %w", err)
		}
		return store, nil
	default:
		return memorystorage.New(), nil
	}
}
