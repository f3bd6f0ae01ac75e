package generator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shouni/go-pudding-kit/pkg/domain"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// Composer は ImageGenerator の前段で、キャッシュ・同一プロンプトの集約・レート制限をまとめて行うのだ。
type Composer struct {
	generator   ImageGenerator
	cache       ImageCache
	rateLimiter *rate.Limiter
	timeout     time.Duration
	group       singleflight.Group
}

// NewComposer は Composer を初期化するのだ。cache と limiter は nil でもよいのだ。
// timeout は共有される生成処理そのものの上限で、0 以下なら上限なしなのだ。
func NewComposer(generator ImageGenerator, cache ImageCache, limiter *rate.Limiter, timeout time.Duration) *Composer {
	return &Composer{
		generator:   generator,
		cache:       cache,
		rateLimiter: limiter,
		timeout:     timeout,
	}
}

// NewRateLimiter は interval ごとに1回、バースト2の制限を作るのだ。interval が 0 以下なら nil なのだ。
func NewRateLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(interval), 2)
}

// Generate はキャッシュを確認し、なければ同じプロンプトの呼び出しを1回にまとめて生成するのだ。
func (c *Composer) Generate(ctx context.Context, prompt string) (*domain.Image, error) {
	if img, ok := c.lookup(ctx, prompt); ok {
		slog.DebugContext(ctx, "Image cache hit")
		return img, nil
	}

	// 生成処理は複数のリクエストで共有されるので、呼び出し元のキャンセルは引き継がないのだ。
	// 各呼び出し元は自分の ctx が終わった時点で待つのをやめるだけなのだ。
	ch := c.group.DoChan(prompt, func() (interface{}, error) {
		workCtx := context.WithoutCancel(ctx)
		if c.timeout > 0 {
			var cancel context.CancelFunc
			workCtx, cancel = context.WithTimeout(workCtx, c.timeout)
			defer cancel()
		}
		return c.generate(workCtx, prompt)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if res.Err != nil {
		return nil, res.Err
	}
	val, shared := res.Val, res.Shared

	img, ok := val.(*domain.Image)
	if !ok {
		return nil, fmt.Errorf("unexpected return type from singleflight: %T", val)
	}
	if shared {
		slog.DebugContext(ctx, "Image generation shared with concurrent request")
	}
	return img, nil
}

// generate は singleflight の内側で1回だけ実行される生成処理なのだ。
func (c *Composer) generate(ctx context.Context, prompt string) (*domain.Image, error) {
	// 待機中に別のゴルーチンが生成を終えている可能性があるので、もう一度確認するのだ
	if img, ok := c.lookup(ctx, prompt); ok {
		return img, nil
	}

	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("レートリミッターの待機に失敗しました: %w", err)
		}
	}

	img, err := c.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	if c.cache != nil && img != nil {
		c.cache.Set(ctx, prompt, img)
	}
	return img, nil
}

func (c *Composer) lookup(ctx context.Context, prompt string) (*domain.Image, bool) {
	if c.cache == nil {
		return nil, false
	}
	return c.cache.Get(ctx, prompt)
}
