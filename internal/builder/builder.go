package builder

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/shouni/go-pudding-kit/internal/config"
	"github.com/shouni/go-pudding-kit/internal/server"
	"github.com/shouni/go-pudding-kit/pkg/generator"
	"github.com/shouni/go-pudding-kit/pkg/prompts"
)

// newImagenGenerator はテストで差し替えられるようにしてあるのだ。
var newImagenGenerator = func(ctx context.Context, apiKey, model string) (generator.ImageGenerator, error) {
	return generator.NewImagenGenerator(ctx, apiKey, model)
}

// BuildAppContext は設定から AppContext を組み立てます。
// APIキーがない・クライアント初期化に失敗した場合でもエラーにはせず、ダミーモードで起動します。
func BuildAppContext(ctx context.Context, cfg *config.Config) *AppContext {
	pb := prompts.NewPromptBuilder(cfg.ImagePromptSuffix)

	imgGen, err := newImagenGenerator(ctx, cfg.GeminiAPIKey, cfg.ImageModel)
	if err != nil {
		slog.WarnContext(ctx, "Gemini の初期化に失敗したのでダミーモードで動くのだ", "error", err)
		return NewAppContext(cfg, pb, generator.NewDummyFetcher(err))
	}

	imgCache, closer := InitializeCache(ctx, cfg)
	composer := generator.NewComposer(imgGen, imgCache, generator.NewRateLimiter(cfg.RateInterval), cfg.RequestTimeout)

	var closers []io.Closer
	if closer != nil {
		closers = append(closers, closer)
	}

	slog.InfoContext(ctx, "Gemini API の初期化に成功したのだ", "image_model", cfg.ImageModel)
	return NewAppContext(cfg, pb, generator.NewFetcher(composer, cfg.RequestTimeout), closers...)
}

// InitializeCache は REDIS_URL があれば Redis、なければメモリのキャッシュを返します。
// Redis に繋がらないときはメモリキャッシュに切り替えます。
func InitializeCache(ctx context.Context, cfg *config.Config) (generator.ImageCache, io.Closer) {
	if cfg.RedisURL == "" {
		return generator.NewMemoryCache(cfg.CacheTTL), nil
	}

	rc, err := generator.NewRedisCache(ctx, cfg.RedisURL, cfg.CacheTTL)
	if err != nil {
		slog.WarnContext(ctx, "Redis キャッシュを使えないのでメモリキャッシュにするのだ", "error", err)
		return generator.NewMemoryCache(cfg.CacheTTL), nil
	}
	return rc, rc
}

// BuildServer は HTTP サーバーを構築します。
func BuildServer(appCtx *AppContext) (*server.Server, error) {
	srv, err := server.New(appCtx.Fetcher, appCtx.PromptBuilder, appCtx.Config.ImageModel)
	if err != nil {
		return nil, fmt.Errorf("HTTPサーバーの初期化に失敗しました: %w", err)
	}
	return srv, nil
}
