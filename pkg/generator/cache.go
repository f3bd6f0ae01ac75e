package generator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shouni/go-pudding-kit/pkg/domain"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

const (
	cacheCleanupInterval = 10 * time.Minute
	redisKeyPrefix       = "pudding:image:"
)

// cacheKey は長いプロンプトをそのままキーにしないよう、ハッシュ化するのだ。
func cacheKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}

// MemoryCache は go-cache を使ったプロセス内キャッシュなのだ。
type MemoryCache struct {
	store *cache.Cache
}

// NewMemoryCache は ttl で期限切れになる MemoryCache を作るのだ。
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{store: cache.New(ttl, cacheCleanupInterval)}
}

func (m *MemoryCache) Get(_ context.Context, prompt string) (*domain.Image, bool) {
	v, ok := m.store.Get(cacheKey(prompt))
	if !ok {
		return nil, false
	}
	img, ok := v.(*domain.Image)
	return img, ok
}

func (m *MemoryCache) Set(_ context.Context, prompt string, img *domain.Image) {
	m.store.Set(cacheKey(prompt), img, cache.DefaultExpiration)
}

// RedisCache は複数プロセスで生成結果を共有するための Redis キャッシュなのだ。
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache は redis://... 形式の URL から RedisCache を作り、疎通を確認するのだ。
func NewRedisCache(ctx context.Context, url string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("REDIS_URL の解析に失敗しました: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("Redis への接続に失敗しました: %w", err)
	}
	return &RedisCache{client: client, ttl: ttl}, nil
}

type cachedImage struct {
	Data     []byte `json:"data"`
	MIMEType string `json:"mime_type"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

func (r *RedisCache) Get(ctx context.Context, prompt string) (*domain.Image, bool) {
	raw, err := r.client.Get(ctx, redisKeyPrefix+cacheKey(prompt)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.WarnContext(ctx, "Redis cache get failed", "error", err)
		}
		return nil, false
	}

	var ci cachedImage
	if err := json.Unmarshal(raw, &ci); err != nil {
		slog.WarnContext(ctx, "Redis cache entry is broken", "error", err)
		return nil, false
	}
	return &domain.Image{Data: ci.Data, MIMEType: ci.MIMEType, Width: ci.Width, Height: ci.Height}, true
}

func (r *RedisCache) Set(ctx context.Context, prompt string, img *domain.Image) {
	raw, err := json.Marshal(cachedImage{Data: img.Data, MIMEType: img.MIMEType, Width: img.Width, Height: img.Height})
	if err != nil {
		slog.WarnContext(ctx, "Redis cache encode failed", "error", err)
		return
	}
	if err := r.client.Set(ctx, redisKeyPrefix+cacheKey(prompt), raw, r.ttl).Err(); err != nil {
		slog.WarnContext(ctx, "Redis cache set failed", "error", err)
	}
}

// Close は Redis 接続を閉じるのだ。
func (r *RedisCache) Close() error {
	return r.client.Close()
}
