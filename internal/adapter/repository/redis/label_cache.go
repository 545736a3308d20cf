package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/ressKim-io/NewsMind/api-service/internal/domain/entity"
	"github.com/ressKim-io/NewsMind/api-service/internal/domain/repository"
)

const keyPrefix = "newsmind:label:"

type labelCache struct {
	client *goredis.Client
	prefix string
}

// NewLabelCache creates a Redis-backed label cache. Entries are scoped to
// modelKey so labels from one model are never served for another.
func NewLabelCache(client *goredis.Client, modelKey string) repository.LabelCache {
	return &labelCache{client: client, prefix: keyPrefix + modelKey + ":"}
}

func (c *labelCache) key(fingerprint string) string {
	return c.prefix + fingerprint
}

func (c *labelCache) Get(ctx context.Context, fingerprint string) (entity.Label, bool, error) {
	value, err := c.client.Get(ctx, c.key(fingerprint)).Result()
	if errors.Is(err, goredis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	index, err := strconv.Atoi(value)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt cached label %q: %w", value, err)
	}
	label, err := entity.LabelFromIndex(index)
	if err != nil {
		return 0, false, err
	}
	return label, true, nil
}

func (c *labelCache) Set(ctx context.Context, fingerprint string, label entity.Label, ttl time.Duration) error {
	return c.client.Set(ctx, c.key(fingerprint), strconv.Itoa(int(label)), ttl).Err()
}
