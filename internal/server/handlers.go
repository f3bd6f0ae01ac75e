package server

import (
	"bytes"
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/shouni/go-pudding-kit/pkg/domain"
	"github.com/shouni/go-pudding-kit/pkg/generator"

	"github.com/gin-gonic/gin"
)

// PromptResponse はプロンプトだけを返す API のレスポンスなのだ。
type PromptResponse struct {
	Prompt  string `json:"prompt"`
	Summary string `json:"summary"`
}

// GenerateResponse は画像生成 API のレスポンスなのだ。image は base64 エンコード済み。
type GenerateResponse struct {
	Image    string `json:"image"`
	MIMEType string `json:"mime_type"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Summary  string `json:"summary"`
	Status   string `json:"status"`
	Prompt   string `json:"prompt"`
}

type questionView struct {
	domain.Question
	Selected string
}

type resultView struct {
	ImageURI    template.URL
	SummaryHTML template.HTML
	Status      string
	Prompt      string
}

type pageView struct {
	Questions []questionView
	Result    *resultView
}

// outcome は1リクエスト分の生成結果なのだ。
type outcome struct {
	prompt  string
	summary string
	result  generator.Result
}

// run はプロンプトを組み立てて画像を取得し、メトリクスを記録するのだ。
func (s *Server) run(ctx context.Context, answers domain.AnswerSet) outcome {
	prompt, summary := s.builder.Build(answers)

	start := time.Now()
	res := s.fetcher.Fetch(ctx, prompt)
	elapsed := time.Since(start)
	s.metrics.Observe(res.Outcome, elapsed)

	slog.InfoContext(ctx, "Pudding generation finished",
		"answers", answers.String(),
		"outcome", res.Outcome,
		"duration", elapsed.Round(time.Millisecond))
	return outcome{prompt: prompt, summary: summary, result: res}
}

// IndexHandler は初期状態のフォーム画面を表示するのだ。
func (s *Server) IndexHandler(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", pageView{Questions: questionViews(domain.DefaultAnswerSet())})
}

// GenerateFormHandler はフォーム送信を受けて、結果付きの画面を表示するのだ。
func (s *Server) GenerateFormHandler(c *gin.Context) {
	var answers domain.AnswerSet
	if err := c.ShouldBind(&answers); err != nil {
		slog.WarnContext(c.Request.Context(), "フォームの解析に失敗しました", "error", err)
		c.HTML(http.StatusBadRequest, "index.html", pageView{
			Questions: questionViews(domain.DefaultAnswerSet()),
			Result:    &resultView{Status: "요청 오류: " + err.Error()},
		})
		return
	}

	out := s.run(c.Request.Context(), answers)
	c.HTML(http.StatusOK, "index.html", pageView{
		Questions: questionViews(answers),
		Result: &resultView{
			ImageURI:    template.URL(out.result.Image.DataURI()),
			SummaryHTML: s.renderMarkdown(out.summary),
			Status:      out.result.Status,
			Prompt:      out.prompt,
		},
	})
}

// GenerateAPIHandler は JSON の回答セットを受けて、画像とステータスを JSON で返すのだ。
func (s *Server) GenerateAPIHandler(c *gin.Context) {
	var answers domain.AnswerSet
	if err := c.ShouldBindJSON(&answers); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	out := s.run(c.Request.Context(), answers)
	img := out.result.Image
	c.JSON(http.StatusOK, GenerateResponse{
		Image:    img.Base64(),
		MIMEType: img.MIMEType,
		Width:    img.Width,
		Height:   img.Height,
		Summary:  out.summary,
		Status:   out.result.Status,
		Prompt:   out.prompt,
	})
}

// PromptHandler は画像を生成せず、プロンプトと要約だけを返すのだ。
func (s *Server) PromptHandler(c *gin.Context) {
	var answers domain.AnswerSet
	if err := c.ShouldBindQuery(&answers); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	prompt, summary := s.builder.Build(answers)
	c.JSON(http.StatusOK, PromptResponse{Prompt: prompt, Summary: summary})
}

// OptionsHandler は設問と選択肢を返すのだ。
func (s *Server) OptionsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"questions": domain.Choices()})
}

// HealthHandler は稼働状態と動作モードを返すのだ。
func (s *Server) HealthHandler(c *gin.Context) {
	mode := "gemini"
	if s.fetcher.IsDummy() {
		mode = "dummy"
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "mode": mode, "model": s.model})
}

// renderMarkdown は要約の Markdown を HTML に変換するのだ。生の HTML は goldmark の既定で除去されるのだ。
func (s *Server) renderMarkdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(src), &buf); err != nil {
		slog.Warn("要約の Markdown 変換に失敗しました", "error", err)
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}

func questionViews(selected domain.AnswerSet) []questionView {
	picked := map[string]string{
		"energy_type": selected.EnergyType,
		"mood":        selected.Mood,
		"value":       selected.Value,
	}
	qs := domain.Choices()
	views := make([]questionView, 0, len(qs))
	for _, q := range qs {
		sel := picked[q.Field]
		if sel == "" {
			sel = q.Default
		}
		views = append(views, questionView{Question: q, Selected: sel})
	}
	return views
}
