package generator

import (
	"context"

	"github.com/shouni/go-pudding-kit/pkg/domain"
)

// ImageGenerator は、プロンプトから1枚の画像を生成する契約なのだ。
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) (*domain.Image, error)
}

// ImageCache は生成済み画像をプロンプト単位で保持するキャッシュなのだ。
// 取得・保存の失敗はキャッシュミスとして扱い、呼び出し側にはエラーを返さないのだ。
type ImageCache interface {
	Get(ctx context.Context, prompt string) (*domain.Image, bool)
	Set(ctx context.Context, prompt string, img *domain.Image)
}
