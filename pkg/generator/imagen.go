package generator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"time"

	"github.com/shouni/go-pudding-kit/pkg/domain"

	"google.golang.org/genai"
)

const (
	// ImageAspectRatio は生成画像のアスペクト比なのだ。キャラクターは常に正方形。
	ImageAspectRatio = "1:1"
	numberOfImages   = 1
)

// ErrMissingAPIKey は GEMINI_API_KEY が未設定のときに返すのだ。
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY가 설정되지 않았습니다")

// imagesAPI は genai.Models のうち画像生成で使う部分だけを切り出したものなのだ。
type imagesAPI interface {
	GenerateImages(ctx context.Context, model string, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error)
}

// ImagenGenerator は Gemini API の Imagen モデルで画像を生成するのだ。
type ImagenGenerator struct {
	models imagesAPI
	model  string
}

// NewImagenGenerator は genai クライアントを初期化して ImagenGenerator を返すのだ。
func NewImagenGenerator(ctx context.Context, apiKey, model string) (*ImagenGenerator, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("genai クライアントの初期化に失敗しました: %w", err)
	}

	return newImagenGenerator(client.Models, model), nil
}

func newImagenGenerator(models imagesAPI, model string) *ImagenGenerator {
	return &ImagenGenerator{models: models, model: model}
}

// Model は使用中のモデル名を返すのだ。
func (g *ImagenGenerator) Model() string {
	return g.model
}

// Generate はプロンプトから正方形の画像を1枚生成し、表示可能な画像として返すのだ。
func (g *ImagenGenerator) Generate(ctx context.Context, prompt string) (*domain.Image, error) {
	startTime := time.Now()
	resp, err := g.models.GenerateImages(ctx, g.model, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: numberOfImages,
		AspectRatio:    ImageAspectRatio,
	})
	if err != nil {
		return nil, fmt.Errorf("画像生成リクエストに失敗しました (model: %s): %w", g.model, err)
	}

	if resp == nil || len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0] == nil {
		return nil, fmt.Errorf("画像生成レスポンスに画像が含まれていません (model: %s)", g.model)
	}

	generated := resp.GeneratedImages[0]
	if generated.Image == nil || len(generated.Image.ImageBytes) == 0 {
		if generated.RAIFilteredReason != "" {
			return nil, fmt.Errorf("画像が安全フィルタで除外されました: %s", generated.RAIFilteredReason)
		}
		return nil, fmt.Errorf("画像データが空です (model: %s)", g.model)
	}

	img, err := decodeImage(generated.Image.ImageBytes, generated.Image.MIMEType)
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "Imagen generation completed",
		"model", g.model,
		"bytes", len(img.Data),
		"duration", time.Since(startTime).Round(time.Millisecond))
	return img, nil
}

// decodeImage は画像バイト列をデコードして形式とサイズを確かめるのだ。
func decodeImage(data []byte, mimeType string) (*domain.Image, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("画像データのデコードに失敗しました: %w", err)
	}
	if mimeType == "" {
		mimeType = "image/" + format
	}
	return &domain.Image{
		Data:     data,
		MIMEType: mimeType,
		Width:    cfg.Width,
		Height:   cfg.Height,
	}, nil
}
