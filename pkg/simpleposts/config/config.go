package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-posts/pkg/simpleposts"
	"github.com/tendant/simple-posts/pkg/simpleposts/repo/memory"
	repopg "github.com/tendant/simple-posts/pkg/simpleposts/repo/postgres"
	fsstorage "github.com/tendant/simple-posts/pkg/simpleposts/storage/fs"
	ipfsstorage "github.com/tendant/simple-posts/pkg/simpleposts/storage/ipfs"
	memorystorage "github.com/tendant/simple-posts/pkg/simpleposts/storage/memory"
	s3storage "github.com/tendant/simple-posts/pkg/simpleposts/storage/s3"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of library defaults.
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
		Port:         "8080",
		Environment:  "development",
		DatabaseType: "memory",
		ImageStore: ImageStoreConfig{
			Type:   "memory",
			Config: map[string]interface{}{},
		},
		ResolveTimeout:     10 * time.Second,
		EnableEventLogging: true,
	}
}

// ServerConfig represents server configuration for the simple-posts service
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Database configuration
	DatabaseURL  string
	DatabaseType string // "memory", "postgres"

	// Image store configuration
	ImageStore     ImageStoreConfig
	ResolveTimeout time.Duration

	// Server options
	EnableEventLogging bool
}

// ImageStoreConfig represents configuration for the content-addressed image store
type ImageStoreConfig struct {
	Type   string // "memory", "fs", "ipfs", "s3"
	Config map[string]interface{}
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	if c.DatabaseType != "memory" && c.DatabaseType != "postgres" {
		return errors.New("database_type must be 'memory' or 'postgres'")
	}

	if c.DatabaseType == "postgres" && c.DatabaseURL == "" {
		return errors.New("database_url is required when using postgres")
	}

	switch c.ImageStore.Type {
	case "memory", "fs", "ipfs", "s3":
	default:
		return fmt.Errorf("unsupported image store type: %s", c.ImageStore.Type)
	}

	return nil
}

// BuildService creates a Service instance from the server configuration
func (c *ServerConfig) BuildService() (simpleposts.Service, error) {
	var options []simpleposts.Option

	repo, err := c.buildRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to build repository: %w", err)
	}
	options = append(options, simpleposts.WithRepository(repo))

	store, err := c.buildImageStore()
	if err != nil {
		return nil, fmt.Errorf("failed to build image store: %w", err)
	}
	options = append(options,
		simpleposts.WithImageResolver(simpleposts.NewImageResolver(store,
			simpleposts.WithResolveTimeout(c.ResolveTimeout))))

	options = append(options, simpleposts.WithIdentityProvider(simpleposts.NewContextIdentity()))
	options = append(options, simpleposts.WithTransferrer(simpleposts.NewSlogTransferrer(slog.Default())))

	if c.EnableEventLogging {
		options = append(options, simpleposts.WithEventSink(simpleposts.NewSlogEventSink(slog.Default())))
	} else {
		options = append(options, simpleposts.WithEventSink(simpleposts.NewNoopEventSink()))
	}

	return simpleposts.New(options...)
}

// buildRepository creates a Repository based on the configuration
func (c *ServerConfig) buildRepository() (simpleposts.Repository, error) {
	switch c.DatabaseType {
	case "memory":
		return memory.New(), nil
	case "postgres":
		if c.DatabaseURL == "" {
			return nil, errors.New("database_url is required for postgres")
		}
		pool, err := pgxpool.New(context.Background(), c.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create pgx pool: %w", err)
		}
		return repopg.NewWithPool(pool), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
}

// buildImageStore creates a BlobStore based on the image store configuration
func (c *ServerConfig) buildImageStore() (simpleposts.BlobStore, error) {
	switch c.ImageStore.Type {
	case "memory":
		return memorystorage.New(), nil

	case "fs":
		return fsstorage.New(fsstorage.Config{
			BaseDir: getString(c.ImageStore.Config, "base_dir", "./data/images"),
		})

	case "ipfs":
		return ipfsstorage.New(ipfsstorage.Config{
			APIURL: getString(c.ImageStore.Config, "api_url", "http://127.0.0.1:5001"),
			Pin:    getBool(c.ImageStore.Config, "pin", true),
		})

	case "s3":
		return s3storage.New(s3storage.Config{
			Region:                 getString(c.ImageStore.Config, "region", "us-east-1"),
			Bucket:                 getString(c.ImageStore.Config, "bucket", ""),
			AccessKeyID:            getString(c.ImageStore.Config, "access_key_id", ""),
			SecretAccessKey:        getString(c.ImageStore.Config, "secret_access_key", ""),
			Endpoint:               getString(c.ImageStore.Config, "endpoint", ""),
			UsePathStyle:           getBool(c.ImageStore.Config, "use_path_style", false),
			KeyPrefix:              getString(c.ImageStore.Config, "key_prefix", ""),
			CreateBucketIfNotExist: getBool(c.ImageStore.Config, "create_bucket_if_not_exist", false),
		})

	default:
		return nil, fmt.Errorf("unsupported image store type: %s", c.ImageStore.Type)
	}
}

func getString(config map[string]interface{}, key string, defaultValue string) string {
	if value, exists := config[key]; exists {
		if str, ok := value.(string); ok {
			return str
		}
	}
	return defaultValue
}

func getBool(config map[string]interface{}, key string, defaultValue bool) bool {
	if value, exists := config[key]; exists {
		if b, ok := value.(bool); ok {
			return b
		}
	}
	return defaultValue
}
