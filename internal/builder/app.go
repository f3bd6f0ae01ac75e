package builder

import (
	"io"
	"log/slog"

	"github.com/shouni/go-pudding-kit/internal/config"
	"github.com/shouni/go-pudding-kit/pkg/generator"
	"github.com/shouni/go-pudding-kit/pkg/prompts"
)

// AppContext は、アプリケーション実行に必要な共通コンテキストを保持する
// これを各Build関数に渡すことで、依存関係の注入を簡素化します。
type AppContext struct {
	Config        *config.Config         // Configは、環境変数とフラグから組み立てた設定です。
	PromptBuilder *prompts.PromptBuilder // PromptBuilderは、回答からプロンプトを組み立てます。
	Fetcher       *generator.Fetcher     // Fetcherは、画像生成APIとの境界です（ダミーモードの場合あり）。
	closers       []io.Closer
}

// NewAppContext は AppContext の新しいインスタンスを生成する
func NewAppContext(cfg *config.Config, pb *prompts.PromptBuilder, fetcher *generator.Fetcher, closers ...io.Closer) *AppContext {
	return &AppContext{
		Config:        cfg,
		PromptBuilder: pb,
		Fetcher:       fetcher,
		closers:       closers,
	}
}

// Close は保持しているリソース（Redis 接続など）を解放する
func (a *AppContext) Close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			slog.Warn("リソースの解放に失敗しました", "error", err)
		}
	}
}
