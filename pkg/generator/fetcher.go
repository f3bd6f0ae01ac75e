package generator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shouni/go-pudding-kit/pkg/domain"
)

// StatusSuccess は画像生成に成功したときのステータスなのだ。
const StatusSuccess = "이미지 생성 성공!"

// Outcome は1回の取得処理の結果区分なのだ。メトリクスのラベルにも使うのだ。
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeError   Outcome = "error"
	OutcomeDummy   Outcome = "dummy"
)

// InitFailureStatus はクライアント初期化に失敗したときのステータス文字列を返すのだ。
func InitFailureStatus(err error) string {
	return fmt.Sprintf("Gemini API 오류: %v", err)
}

// APIErrorStatus は画像生成呼び出しが失敗したときのステータス文字列を返すのだ。
func APIErrorStatus(err error) string {
	return fmt.Sprintf("API 오류: %v", err)
}

// Result は画面に表示する (画像, ステータス) の組なのだ。
type Result struct {
	Image   domain.Image
	Status  string
	Outcome Outcome
}

// Fetcher は外部画像生成 API との境界なのだ。どんな失敗も代替画像とステータスに変換し、エラーを外に出さないのだ。
type Fetcher struct {
	generator  ImageGenerator
	initStatus string
	timeout    time.Duration
}

// NewFetcher は generator を使う Fetcher を作るのだ。timeout が 0 以下ならタイムアウトしないのだ。
func NewFetcher(generator ImageGenerator, timeout time.Duration) *Fetcher {
	return &Fetcher{generator: generator, timeout: timeout}
}

// NewDummyFetcher は API が使えないときの Fetcher を作るのだ。常に灰色の代替画像を返すのだ。
func NewDummyFetcher(initErr error) *Fetcher {
	return &Fetcher{initStatus: InitFailureStatus(initErr)}
}

// IsDummy はダミーモードかどうかを返すのだ。
func (f *Fetcher) IsDummy() bool {
	return f.generator == nil
}

// Fetch はプロンプトから画像を取得するのだ。
func (f *Fetcher) Fetch(ctx context.Context, prompt string) (res Result) {
	if f.generator == nil {
		return Result{Image: Placeholder(ColorGray), Status: f.initStatus, Outcome: OutcomeDummy}
	}

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("画像生成中に panic が発生しました: %v", r)
			slog.ErrorContext(ctx, "Image generation panicked", "error", err)
			res = failure(err)
		}
	}()

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	img, err := f.generator.Generate(ctx, prompt)
	if err == nil && img == nil {
		err = fmt.Errorf("画像生成結果が空です")
	}
	if err != nil {
		slog.ErrorContext(ctx, "Image generation failed", "error", err)
		return failure(err)
	}

	return Result{Image: *img, Status: StatusSuccess, Outcome: OutcomeSuccess}
}

func failure(err error) Result {
	return Result{Image: Placeholder(ColorRed), Status: APIErrorStatus(err), Outcome: OutcomeError}
}
