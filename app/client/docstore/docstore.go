package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gracebot/app/config"

	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
)

// ErrNotFound is returned when a document does not exist in a collection.
var ErrNotFound = errors.New("document not found")

const opTimeout = 5 * time.Second

// Client is a thin document-oriented wrapper over redis. Documents are JSON
// blobs addressed by (collection, docID).
type Client struct {
	rdb *redis.Client
}

var _ do.Shutdownable = (*Client)(nil)

func NewClient(di *do.Injector) (*Client, error) {
	cfg := do.MustInvoke[*config.Config](di)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	return &Client{rdb: rdb}, nil
}

func key(collection, docID string) string {
	return collection + ":" + docID
}

// Ping probes store availability. Callers treat a failed probe as a hint to
// degrade, not as a fatal condition.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}

	return nil
}

// Get returns the raw JSON document or ErrNotFound.
func (c *Client) Get(ctx context.Context, collection, docID string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	val, err := c.rdb.Get(ctx, key(collection, docID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s/%s: %w", collection, docID, err)
	}

	return val, nil
}

// Set stores the raw JSON document. Documents never expire on the store side,
// session staleness is a caller policy.
func (c *Client) Set(ctx context.Context, collection, docID string, raw []byte) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := c.rdb.Set(ctx, key(collection, docID), raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s/%s: %w", collection, docID, err)
	}

	return nil
}

func (c *Client) Shutdown() error {
	return c.rdb.Close()
}
