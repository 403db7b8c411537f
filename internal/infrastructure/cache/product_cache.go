package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"go.uber.org/zap"
)

const productKeyPrefix = "storefront:product:"

// cachedProduct is the JSON form of a product kept in Redis
type cachedProduct struct {
	ID          uuid.UUID       `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	IsActive    bool            `json:"is_active"`
	CategoryID  *uuid.UUID      `json:"category_id,omitempty"`
	Version     int             `json:"version"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func encodeProduct(p *catalog.Product) ([]byte, error) {
	return json.Marshal(cachedProduct{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		IsActive:    p.IsActive,
		CategoryID:  p.CategoryID,
		Version:     p.Version,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	})
}

func decodeProduct(data []byte) (*catalog.Product, error) {
	var c cachedProduct
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	p := &catalog.Product{
		Title:       c.Title,
		Description: c.Description,
		Price:       c.Price,
		Stock:       c.Stock,
		IsActive:    c.IsActive,
		CategoryID:  c.CategoryID,
	}
	p.ID = c.ID
	p.Version = c.Version
	p.CreatedAt = c.CreatedAt
	p.UpdatedAt = c.UpdatedAt
	return p, nil
}

// RedisProductCache caches product reads as JSON strings with a TTL.
// Cache failures degrade to misses and are only logged.
type RedisProductCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisProductCache creates a product cache over client
func NewRedisProductCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisProductCache {
	return &RedisProductCache{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached product, if any
func (c *RedisProductCache) Get(ctx context.Context, id uuid.UUID) (*catalog.Product, bool) {
	data, err := c.client.Get(ctx, productKeyPrefix+id.String()).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("product cache read failed", zap.String("product_id", id.String()), zap.Error(err))
		}
		return nil, false
	}
	p, err := decodeProduct(data)
	if err != nil {
		c.logger.Warn("product cache entry corrupt", zap.String("product_id", id.String()), zap.Error(err))
		return nil, false
	}
	return p, true
}

// Set stores the product
func (c *RedisProductCache) Set(ctx context.Context, p *catalog.Product) {
	data, err := encodeProduct(p)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, productKeyPrefix+p.ID.String(), data, c.ttl).Err(); err != nil {
		c.logger.Warn("product cache write failed", zap.String("product_id", p.ID.String()), zap.Error(err))
	}
}

// Invalidate drops the cached product
func (c *RedisProductCache) Invalidate(ctx context.Context, id uuid.UUID) {
	if err := c.client.Del(ctx, productKeyPrefix+id.String()).Err(); err != nil {
		c.logger.Warn("product cache invalidation failed", zap.String("product_id", id.String()), zap.Error(err))
	}
}

// NoopProductCache never caches
type NoopProductCache struct{}

func (NoopProductCache) Get(context.Context, uuid.UUID) (*catalog.Product, bool) { return nil, false }
func (NoopProductCache) Set(context.Context, *catalog.Product)                  {}
func (NoopProductCache) Invalidate(context.Context, uuid.UUID)                  {}

var (
	_ catalog.ProductCache = (*RedisProductCache)(nil)
	_ catalog.ProductCache = NoopProductCache{}
)
