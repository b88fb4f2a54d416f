package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultScanBatchSize = 500

// Storage is a byte key-value store over a Redis client, used as the shared
// decision-cache backend. A missing key reads as nil without error.
type Storage struct {
	db            redis.UniversalClient
	scanBatchSize int64
}

// NewStorage wraps a client with the default scan batch size.
func NewStorage(client redis.UniversalClient) *Storage {
	return &Storage{
		db:            client,
		scanBatchSize: defaultScanBatchSize,
	}
}

// NewStorageWithConfig wraps a client using cfg.ScanBatchSize.
func NewStorageWithConfig(client redis.UniversalClient, cfg Config) *Storage {
	s := NewStorage(client)
	if cfg.ScanBatchSize > 0 {
		s.scanBatchSize = int64(cfg.ScanBatchSize)
	}
	return s
}

// Get returns nil for empty keys and missing values (redis.Nil becomes nil).
func (s *Storage) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}
	val, err := s.db.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Join(ErrCommandFailed, err)
	}
	return val, nil
}

// Set stores key-value with expiration. Zero duration means no expiration.
func (s *Storage) Set(ctx context.Context, key string, val []byte, exp time.Duration) error {
	if key == "" {
		return nil
	}
	if err := s.db.Set(ctx, key, val, exp).Err(); err != nil {
		return errors.Join(ErrCommandFailed, err)
	}
	return nil
}

// Delete removes a key. Empty keys are ignored.
func (s *Storage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	if err := s.db.Del(ctx, key).Err(); err != nil {
		return errors.Join(ErrCommandFailed, err)
	}
	return nil
}

// DeletePrefix removes every key starting with prefix. It walks the keyspace
// with SCAN and UNLINKs each page, so it never blocks the server. Keys written
// concurrently with the walk may survive it.
func (s *Storage) DeletePrefix(ctx context.Context, prefix string) error {
	if prefix == "" {
		return ErrEmptyPrefix
	}

	pattern := escapeGlob(prefix) + "*"
	var cursor uint64
	for {
		keys, next, err := s.db.Scan(ctx, cursor, pattern, s.scanBatchSize).Result()
		if err != nil {
			return errors.Join(ErrCommandFailed, err)
		}
		if len(keys) > 0 {
			if err := s.db.Unlink(ctx, keys...).Err(); err != nil {
				return errors.Join(ErrCommandFailed, err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

// Close terminates the Redis connection.
func (s *Storage) Close() error {
	return s.db.Close()
}

// Conn returns the underlying Redis client for advanced operations.
func (s *Storage) Conn() redis.UniversalClient {
	return s.db
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

func escapeGlob(s string) string {
	return globEscaper.Replace(s)
}
