package cmd

import (
	"log/slog"
	"os"

	"github.com/shouni/go-pudding-kit/internal/config"
	"github.com/shouni/go-pudding-kit/pkg/domain"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var opts config.GenerateOptions

// rootCmd は引数なしで起動したときに Web サーバーを立ち上げるのだ。
var rootCmd = &cobra.Command{
	Use:               "pudding",
	Short:             "3つの質問から性向プリンキャラクターを生成するのだ。",
	Long:              `エネルギー・デートの雰囲気・価値観の3つの回答からプロンプトを組み立て、Gemini(Imagen)でプリンキャラクターを描くのだ。`,
	PersistentPreRunE: preRunAppE,
	RunE:              serveCommand,
	SilenceUsage:      true,
}

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義するのだ。
func addAppFlags(rootCmd *cobra.Command) {
	d := domain.DefaultAnswerSet()

	// --- 回答 ---
	rootCmd.PersistentFlags().StringVar(&opts.EnergyType, "energy", d.EnergyType, "에너지 유형（외향 / 내향）なのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.Mood, "mood", d.Mood, "데이트 분위기なのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.Value, "value", d.Value, "가치관なのだ。")

	// --- AIモデル・挙動設定 ---
	rootCmd.PersistentFlags().StringVar(&opts.ImageModel, "image-model", "", "使用する Imagen モデル名なのだ（未指定なら IMAGE_MODEL）。")
	// --- サーバー ---
	rootCmd.PersistentFlags().StringVar(&opts.Host, "host", "", "待ち受けるホストなのだ（未指定なら HOST、既定は 0.0.0.0）。")
	rootCmd.PersistentFlags().IntVarP(&opts.Port, "port", "p", 0, "待ち受けるポートなのだ（未指定なら PORT、既定は 7860）。")

	rootCmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "デバッグログを出すのだ。")
}

// preRunAppE は、コマンド実行前に .env の読み込みとロガーの設定を行うのだ。
// APIキーがなくてもダミーモードで動くので、ここでは必須チェックをしないのだ。
func preRunAppE(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil {
		slog.Debug(".env が見つからないので環境変数だけを使うのだ")
	}

	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// loadConfig は環境変数の設定にコマンドライン引数を反映するのだ。
func loadConfig() *config.Config {
	cfg := config.LoadConfig()
	if opts.ImageModel != "" {
		cfg.ImageModel = opts.ImageModel
	}
	if opts.Host != "" {
		cfg.Host = opts.Host
	}
	if opts.Port > 0 {
		cfg.Port = opts.Port
	}
	cfg.Options = opts
	return cfg
}

func answers() domain.AnswerSet {
	return domain.AnswerSet{EnergyType: opts.EnergyType, Mood: opts.Mood, Value: opts.Value}
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
func Execute() {
	addAppFlags(rootCmd)
	rootCmd.AddCommand(serveCmd, promptCmd, generateCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
