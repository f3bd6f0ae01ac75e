package generator

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shouni/go-pudding-kit/pkg/domain"
)

// blockingGenerator は release が閉じられるまで生成を止めておくのだ。
type blockingGenerator struct {
	calls   atomic.Int32
	release chan struct{}
}

func (b *blockingGenerator) Generate(ctx context.Context, prompt string) (*domain.Image, error) {
	b.calls.Add(1)
	<-b.release
	img := Placeholder(ColorGray)
	return &img, nil
}

func TestComposer_DeduplicatesConcurrentPrompts(t *testing.T) {
	gen := &blockingGenerator{release: make(chan struct{})}
	c := NewComposer(gen, NewMemoryCache(time.Minute), nil, 0)

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Generate(context.Background(), "same prompt"); err != nil {
				errs <- err
			}
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(gen.release)
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("予期しないエラー: %v", err)
	}
	if got := gen.calls.Load(); got != 1 {
		t.Errorf("上流の呼び出し回数: 期待値 1, 実際の値 %d", got)
	}
}

// ctxBoundGenerator は ctx が終わるか release が閉じられるまで待つのだ。
type ctxBoundGenerator struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
}

func (g *ctxBoundGenerator) Generate(ctx context.Context, prompt string) (*domain.Image, error) {
	if g.calls.Add(1) == 1 {
		close(g.started)
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-g.release:
		img := Placeholder(ColorGray)
		return &img, nil
	}
}

func TestComposer_CallerCancelDoesNotFailOthers(t *testing.T) {
	gen := &ctxBoundGenerator{started: make(chan struct{}), release: make(chan struct{})}
	c := NewComposer(gen, NewMemoryCache(time.Minute), nil, 0)

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := c.Generate(ctxA, "shared prompt")
		errA <- err
	}()
	<-gen.started

	errB := make(chan error, 1)
	go func() {
		_, err := c.Generate(context.Background(), "shared prompt")
		errB <- err
	}()
	time.Sleep(20 * time.Millisecond)

	cancelA()
	if err := <-errA; !errors.Is(err, context.Canceled) {
		t.Errorf("キャンセルした呼び出し元は context.Canceled を受け取るはずです: %v", err)
	}

	close(gen.release)
	select {
	case err := <-errB:
		if err != nil {
			t.Errorf("キャンセルしていない呼び出し元がエラーになりました: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("キャンセルしていない呼び出し元が戻ってきません")
	}
	if got := gen.calls.Load(); got != 1 {
		t.Errorf("上流の呼び出し回数: 期待値 1, 実際の値 %d", got)
	}

	// 全員が待つのをやめても、生成結果はキャッシュに残るのだ
	if _, err := c.Generate(context.Background(), "shared prompt"); err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if got := gen.calls.Load(); got != 1 {
		t.Errorf("キャッシュが使われていません: 呼び出し回数 %d", got)
	}
}

func TestComposer_SharedWorkTimeout(t *testing.T) {
	gen := &ctxBoundGenerator{started: make(chan struct{}), release: make(chan struct{})}
	c := NewComposer(gen, nil, nil, 20*time.Millisecond)

	_, err := c.Generate(context.Background(), "slow prompt")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("期待値 context.DeadlineExceeded, 実際の値 %v", err)
	}
}

// flakyGenerator は最初の呼び出しだけ失敗するのだ。
type flakyGenerator struct {
	calls int
}

func (f *flakyGenerator) Generate(ctx context.Context, prompt string) (*domain.Image, error) {
	f.calls++
	if f.calls == 1 {
		return nil, errors.New("temporary failure")
	}
	img := Placeholder(ColorGray)
	return &img, nil
}

func TestComposer_CachesOnlySuccess(t *testing.T) {
	gen := &flakyGenerator{}
	c := NewComposer(gen, NewMemoryCache(time.Minute), NewRateLimiter(time.Millisecond), 0)
	ctx := context.Background()

	if _, err := c.Generate(ctx, "p"); err == nil {
		t.Fatal("1回目はエラーになるはずです")
	}
	if _, err := c.Generate(ctx, "p"); err != nil {
		t.Fatalf("2回目で予期しないエラー: %v", err)
	}
	if _, err := c.Generate(ctx, "p"); err != nil {
		t.Fatalf("3回目で予期しないエラー: %v", err)
	}
	if gen.calls != 2 {
		t.Errorf("上流の呼び出し回数: 期待値 2, 実際の値 %d", gen.calls)
	}
}

func TestComposer_WithoutCache(t *testing.T) {
	img := Placeholder(ColorRed)
	stub := &stubGenerator{img: &img}
	c := NewComposer(stub, nil, nil, 0)

	for i := 0; i < 3; i++ {
		if _, err := c.Generate(context.Background(), "p"); err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
	}
	if stub.calls != 3 {
		t.Errorf("キャッシュなしでは毎回呼ばれるべきです: %d", stub.calls)
	}
}

func TestNewRateLimiter(t *testing.T) {
	if NewRateLimiter(0) != nil {
		t.Error("interval 0 では nil になるべきです")
	}
	if NewRateLimiter(time.Second) == nil {
		t.Error("interval が正ならリミッターが作られるべきです")
	}
}
