package cmd

import (
	"fmt"

	"github.com/shouni/go-pudding-kit/pkg/prompts"

	"github.com/spf13/cobra"
)

// promptCmd は、画像生成をせずにプロンプトと要約だけを表示するのだ。
var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "回答からプロンプトと要約を組み立てて表示するのだ。",
	RunE:  promptCommand,
}

func promptCommand(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	prompt, summary := prompts.NewPromptBuilder(cfg.ImagePromptSuffix).Build(answers())

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, summary)
	fmt.Fprintln(out)
	fmt.Fprintln(out, prompt)
	return nil
}
