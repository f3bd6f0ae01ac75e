package cmd

import (
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/shouni/go-pudding-kit/internal/builder"

	"github.com/spf13/cobra"
)

// serveCmd は、フォーム画面と API を提供する Web サーバーを起動するのだ。
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Web フォームと API のサーバーを起動するのだ。",
	Long: `3つの質問に答えるフォームを提供し、送信されたらプリンキャラクターの画像を生成して表示するのだ。
GEMINI_API_KEY がない場合はダミーモードで起動し、灰色の画像を返すのだよ。`,
	RunE: serveCommand,
}

func serveCommand(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. 環境変数から基本設定をロードし、フラグを反映
	cfg := loadConfig()

	// 2. 依存関係の構築（APIキーがなければダミーモード）
	appCtx := builder.BuildAppContext(ctx, cfg)
	defer appCtx.Close()

	srv, err := builder.BuildServer(appCtx)
	if err != nil {
		return err
	}

	slog.Info("プリンキャラクター生成サーバーを起動するのだ！",
		"addr", cfg.Addr(),
		"image_model", cfg.ImageModel,
		"dummy_mode", appCtx.Fetcher.IsDummy())

	// 3. 実行
	if err := srv.Run(ctx, cfg.Addr()); err != nil {
		return fmt.Errorf("サーバー実行中にエラーが発生したのだ: %w", err)
	}
	return nil
}
