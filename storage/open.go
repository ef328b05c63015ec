package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/kendall-kelly/design-orders-panel/config"
)

// RedisKeyPrefix namespaces the panel's keys in a shared redis database
const RedisKeyPrefix = "design-orders:"

// Open builds the Store selected by cfg.StoreDSN
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	dsn := strings.TrimSpace(cfg.StoreDSN)
	if dsn == "" {
		return nil, fmt.Errorf("store DSN is empty")
	}
	parsed, err := url.Parse(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid store DSN: %w", err)
	}

	switch scheme := strings.ToLower(parsed.Scheme); scheme {
	case "memory", "mem", "inmem":
		return NewMemoryStore(), nil
	case "sqlite", "postgres", "postgresql":
		db, err := config.ConnectDatabase(dsn)
		if err != nil {
			return nil, err
		}
		return NewSQLStore(db)
	case "redis", "rediss":
		return NewRedisStoreFromURL(ctx, dsn, RedisKeyPrefix)
	case "s3":
		if parsed.Host == "" {
			return nil, fmt.Errorf("s3 DSN %q has no bucket", dsn)
		}
		return NewS3StoreFromConfig(ctx, parsed.Host, parsed.Path, S3Options{
			Region:          cfg.AWSRegion,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		})
	default:
		return nil, fmt.Errorf("unsupported store scheme: %q", scheme)
	}
}
