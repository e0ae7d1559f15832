// Package cache stores the result of a previously parsed RTF document (for
// /v1/parse, its JSON-encoded response body) keyed by a content hash, so
// identical uploads to /v1/parse are a cache hit instead of a re-parse.
package cache

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/blake2b"
)

// ErrMiss is returned by Get when the key is absent.
type ErrMiss struct{ Key string }

func (e ErrMiss) Error() string { return fmt.Sprintf("rtfstream/cache: miss for key %q", e.Key) }

// Cache is a content-addressed store for parsed-document results, held as
// strings.
type Cache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// New wraps an existing Redis client. prefix namespaces every key (e.g.
// "rtfstream:parse:"); ttl is applied to every Set.
func New(client *redis.Client, prefix string, ttl time.Duration) *Cache {
	return &Cache{client: client, prefix: prefix, ttl: ttl}
}

// HashKey returns the content-addressed key for a document's raw bytes: a
// hex-encoded blake2b-256 digest. Two documents with identical bytes always
// produce the same key; differing bytes essentially never collide.
func HashKey(doc []byte) string {
	sum := blake2b.Sum256(doc)
	return hex.EncodeToString(sum[:])
}

// Get returns the cached text for key, or ErrMiss if absent.
func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	v, err := c.client.Get(ctx, c.prefix+key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", ErrMiss{Key: key}
		}
		return "", fmt.Errorf("rtfstream/cache: get %q: %w", key, err)
	}
	return v, nil
}

// Set stores text under key with the cache's configured TTL.
func (c *Cache) Set(ctx context.Context, key, text string) error {
	if err := c.client.Set(ctx, c.prefix+key, text, c.ttl).Err(); err != nil {
		return fmt.Errorf("rtfstream/cache: set %q: %w", key, err)
	}
	return nil
}
