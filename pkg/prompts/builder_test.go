package prompts

import (
	"strings"
	"testing"

	"github.com/shouni/go-pudding-kit/pkg/domain"
)

func TestBuild_KnownAnswers(t *testing.T) {
	prompt, _ := Build(domain.AnswerSet{EnergyType: "외향", Mood: "잔잔함", Value: "안정감"})

	expected := "bright strawberry red pudding, wearing a cozy scarf, reliable, " +
		"sitting peacefully by a window, reading softly, " +
		"cute anthropomorphic pudding character, thick black outline, 2D soft pastel sticker style, clean white background"
	if prompt != expected {
		t.Errorf("期待値 '%s',\n実際の値 '%s'", expected, prompt)
	}
}

func TestBuild_AllKnownCombinations(t *testing.T) {
	for _, energy := range domain.Choices()[0].Options {
		for _, mood := range domain.Choices()[1].Options {
			for _, value := range domain.Choices()[2].Options {
				a := domain.AnswerSet{EnergyType: energy, Mood: mood, Value: value}
				prompt, _ := Build(a)

				want := strings.Join([]string{
					flavorPhrases[energy],
					valuePhrases[value],
					behaviorPhrases[mood],
					BaseStyle,
				}, ", ")
				if prompt != want {
					t.Errorf("%s: 期待値 '%s', 実際の値 '%s'", a, want, prompt)
				}
			}
		}
	}
}

func TestBuild_Fallbacks(t *testing.T) {
	tests := []struct {
		name    string
		answers domain.AnswerSet
		prefix  string
	}{
		{
			name:    "未知のエネルギータイプはデフォルトの味になること",
			answers: domain.AnswerSet{EnergyType: "unknown", Mood: "잔잔함", Value: "안정감"},
			prefix:  DefaultFlavor + ", wearing a cozy scarf, reliable, sitting peacefully by a window, reading softly, ",
		},
		{
			name:    "未知の価値観はデフォルトの性格になること",
			answers: domain.AnswerSet{EnergyType: "내향", Mood: "활발함", Value: "???"},
			prefix:  "calming blueberry indigo pudding, " + DefaultValue + ", jumping with energy, cheerful expression, ",
		},
		{
			name:    "未知の雰囲気はデフォルトの行動になること",
			answers: domain.AnswerSet{EnergyType: "외향", Mood: "", Value: "유머"},
			prefix:  "bright strawberry red pudding, winking with a tiny comic hat, " + DefaultBehavior + ", ",
		},
		{
			name:    "すべて空でも整ったプロンプトになること",
			answers: domain.AnswerSet{},
			prefix:  DefaultFlavor + ", " + DefaultValue + ", " + DefaultBehavior + ", ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt, summary := Build(tt.answers)
			if prompt != tt.prefix+BaseStyle {
				t.Errorf("期待値 '%s', 実際の値 '%s'", tt.prefix+BaseStyle, prompt)
			}
			if summary == "" {
				t.Error("要約が空です")
			}
		})
	}
}

func TestBuild_Summary(t *testing.T) {
	_, summary := Build(domain.AnswerSet{EnergyType: "내향", Mood: "예술적", Value: "unknown"})

	for _, want := range []string{
		"- **에너지 유형:** 내향\n",
		"- **데이트 분위기:** 예술적\n",
		"- **중요 가치:** unknown\n",
	} {
		if !strings.Contains(summary, want) {
			t.Errorf("要約に '%s' が含まれていません:\n%s", want, summary)
		}
	}
	if strings.Contains(summary, "painting") {
		t.Error("要約にはフレーズではなくラベルを表示するべきです")
	}
}

func TestNewPromptBuilder_Style(t *testing.T) {
	t.Run("空のスタイルは BaseStyle になること", func(t *testing.T) {
		pb := NewPromptBuilder("  ")
		prompt, _ := pb.Build(domain.DefaultAnswerSet())
		if !strings.HasSuffix(prompt, ", "+BaseStyle) {
			t.Errorf("BaseStyle で終わっていません: %s", prompt)
		}
	})

	t.Run("指定したスタイルが末尾に付くこと", func(t *testing.T) {
		pb := NewPromptBuilder("watercolor")
		prompt, _ := pb.Build(domain.DefaultAnswerSet())
		if !strings.HasSuffix(prompt, ", reading softly, watercolor") {
			t.Errorf("想定外のプロンプト: %s", prompt)
		}
	})
}
