package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shouni/go-pudding-kit/internal/builder"
	"github.com/shouni/go-pudding-kit/internal/config"

	"github.com/spf13/cobra"
)

// generateCmd は、回答からプリンキャラクターを1枚生成してファイルに保存するのだ。
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "プリンキャラクターを生成して画像ファイルに保存するのだ。",
	Long: `--energy / --mood / --value の回答から画像を生成し、--output-file に書き出すのだ。
失敗したときも代替画像を保存し、ステータスを表示するのだよ。`,
	RunE: generateCommand,
}

func init() {
	generateCmd.Flags().StringVarP(&opts.OutputFile, "output-file", "o", config.DefaultOutputFile, "保存先の画像パスなのだ。")
}

func generateCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// 1. 設定のロード
	cfg := loadConfig()

	// 2. 依存関係の構築
	appCtx := builder.BuildAppContext(ctx, cfg)
	defer appCtx.Close()

	a := answers()
	prompt, _ := appCtx.PromptBuilder.Build(a)

	slog.Info("プリンキャラクターの生成を開始するのだ！",
		"answers", a.String(),
		"image_model", cfg.ImageModel,
		"output", opts.OutputFile)

	// 3. 実行（失敗しても代替画像が返ってくるのだ）
	res := appCtx.Fetcher.Fetch(ctx, prompt)

	if dir := filepath.Dir(opts.OutputFile); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("出力ディレクトリの作成に失敗しました (path: %s): %w", dir, err)
		}
	}
	if err := os.WriteFile(opts.OutputFile, res.Image.Data, 0o644); err != nil {
		return fmt.Errorf("画像の保存に失敗しました (path: %s): %w", opts.OutputFile, err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), res.Status)
	slog.Info("画像を保存したのだ", "path", opts.OutputFile, "outcome", res.Outcome)
	return nil
}
