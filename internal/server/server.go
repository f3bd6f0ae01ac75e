package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/shouni/go-pudding-kit/pkg/generator"
	"github.com/shouni/go-pudding-kit/pkg/prompts"

	"github.com/gin-gonic/gin"
	"github.com/yuin/goldmark"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

//go:embed templates/*.html
var templatesFS embed.FS

// ImageFetcher はハンドラーから見た画像取得の境界なのだ。失敗も (画像, ステータス) で返ってくるのだ。
type ImageFetcher interface {
	Fetch(ctx context.Context, prompt string) generator.Result
	IsDummy() bool
}

// Server はフォーム画面と JSON API を提供する HTTP サーバーなのだ。
type Server struct {
	fetcher  ImageFetcher
	builder  *prompts.PromptBuilder
	model    string
	metrics  *Metrics
	markdown goldmark.Markdown
	engine   *gin.Engine
}

// New は依存関係を注入して Server を組み立て、ルーティングまで済ませるのだ。
func New(fetcher ImageFetcher, builder *prompts.PromptBuilder, model string) (*Server, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("fetcher は必須です")
	}
	if builder == nil {
		builder = prompts.NewPromptBuilder("")
	}

	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("テンプレートの読み込みに失敗しました: %w", err)
	}

	s := &Server{
		fetcher:  fetcher,
		builder:  builder,
		model:    model,
		metrics:  NewMetrics(),
		markdown: goldmark.New(),
		engine:   gin.New(),
	}
	s.engine.Use(gin.Recovery(), requestLogger())
	s.engine.SetHTMLTemplate(tmpl)
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.engine.GET("/", s.IndexHandler)
	s.engine.POST("/generate", s.GenerateFormHandler)
	s.engine.GET("/healthz", s.HealthHandler)
	s.engine.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	api := s.engine.Group("/api")
	{
		api.GET("/options", s.OptionsHandler)
		api.GET("/prompt", s.PromptHandler)
		api.POST("/generate", s.GenerateAPIHandler)
	}
}

// Handler は http.Handler として Server を返すのだ。テストでも使うのだ。
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run は addr で待ち受け、ctx がキャンセルされたら穏やかに停止するのだ。
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		slog.Info("HTTPサーバーを起動するのだ", "addr", addr, "dummy_mode", s.fetcher.IsDummy(), "model", s.model)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTPサーバーの起動に失敗しました: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		<-egCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		slog.Info("HTTPサーバーを停止するのだ")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("HTTPサーバーの停止に失敗しました: %w", err)
		}
		return nil
	})
	return eg.Wait()
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).Round(time.Millisecond))
	}
}
