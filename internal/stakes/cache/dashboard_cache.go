package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache guarda a projeção do dashboard no Redis por um TTL curto.
// Qualquer transição de stake invalida a chave.
type Cache struct{ R *redis.Client }

func New(r *redis.Client) *Cache { return &Cache{R: r} }

const keyDashboard = "stakes:dashboard"

func (c *Cache) GetDashboard(ctx context.Context, dst any) (bool, error) {
	b, err := c.R.Get(ctx, keyDashboard).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(b, dst)
}

func (c *Cache) SetDashboard(ctx context.Context, v any, ttl time.Duration) error {
	b, _ := json.Marshal(v)
	return c.R.Set(ctx, keyDashboard, b, ttl).Err()
}

// Invalidate remove a projeção cacheada após qualquer mutação
func (c *Cache) Invalidate(ctx context.Context) error {
	return c.R.Del(ctx, keyDashboard).Err()
}
