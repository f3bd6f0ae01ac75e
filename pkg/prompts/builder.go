package prompts

import (
	"fmt"
	"strings"

	"github.com/shouni/go-pudding-kit/pkg/domain"
)

// summaryTemplate は結果表示用の要約ブロックなのだ。回答ラベルをそのまま埋め込むだけで、API には送らないのだ。
const summaryTemplate = "### 🍮 성향 분석 결과\n" +
	"- **에너지 유형:** %s\n" +
	"- **데이트 분위기:** %s\n" +
	"- **중요 가치:** %s\n\n" +
	"➡ 이 성향을 바탕으로 푸딩 캐릭터가 생성되었습니다!"

// PromptBuilder は回答セットから画像生成プロンプトと要約テキストを組み立てるのだ。
type PromptBuilder struct {
	styleSuffix string
}

// NewPromptBuilder は新しい PromptBuilder を生成します。
// style が空の場合は BaseStyle を使うのだ。
func NewPromptBuilder(style string) *PromptBuilder {
	if strings.TrimSpace(style) == "" {
		style = BaseStyle
	}
	return &PromptBuilder{styleSuffix: style}
}

// Build は味 → 価値観 → 行動 → スタイルの順で ", " 区切りのプロンプトを返すのだ。
// 未知のラベルはそれぞれのデフォルトフレーズに置き換わるので、失敗することはないのだよ。
func (pb *PromptBuilder) Build(a domain.AnswerSet) (prompt string, summary string) {
	flavor := lookup(flavorPhrases, a.EnergyType, DefaultFlavor)
	value := lookup(valuePhrases, a.Value, DefaultValue)
	behavior := lookup(behaviorPhrases, a.Mood, DefaultBehavior)

	prompt = strings.Join([]string{flavor, value, behavior, pb.styleSuffix}, ", ")
	summary = fmt.Sprintf(summaryTemplate, a.EnergyType, a.Mood, a.Value)
	return prompt, summary
}

// Build はデフォルトスタイルの PromptBuilder で組み立てるショートカットなのだ。
func Build(a domain.AnswerSet) (string, string) {
	return defaultBuilder.Build(a)
}

var defaultBuilder = NewPromptBuilder(BaseStyle)
