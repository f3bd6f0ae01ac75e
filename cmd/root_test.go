package cmd

import (
	"testing"

	"github.com/shouni/go-pudding-kit/internal/config"

	"github.com/spf13/cobra"
)

func TestAddAppFlags_ServerFlagsOnRootAndSubcommands(t *testing.T) {
	t.Cleanup(func() { opts = config.GenerateOptions{} })

	t.Run("ルートコマンドで --host と --port が使えること", func(t *testing.T) {
		opts = config.GenerateOptions{}
		root := &cobra.Command{Use: "pudding"}
		addAppFlags(root)

		if err := root.ParseFlags([]string{"--port", "9000", "--host", "127.0.0.1"}); err != nil {
			t.Fatalf("フラグの解析に失敗しました: %v", err)
		}
		if opts.Port != 9000 || opts.Host != "127.0.0.1" {
			t.Errorf("想定外のフラグ値: host=%s port=%d", opts.Host, opts.Port)
		}
	})

	t.Run("サブコマンドにも引き継がれること", func(t *testing.T) {
		opts = config.GenerateOptions{}
		root := &cobra.Command{Use: "pudding"}
		addAppFlags(root)
		sub := &cobra.Command{Use: "serve"}
		root.AddCommand(sub)

		if err := sub.ParseFlags([]string{"-p", "8081"}); err != nil {
			t.Fatalf("フラグの解析に失敗しました: %v", err)
		}
		if opts.Port != 8081 {
			t.Errorf("期待値 8081, 実際の値 %d", opts.Port)
		}
		if cfg := loadConfig(); cfg.Port != 8081 {
			t.Errorf("設定にポートが反映されていません: %d", cfg.Port)
		}
	})
}
