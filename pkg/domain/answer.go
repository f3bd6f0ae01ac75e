package domain

import "fmt"

// 回答ラベル。フォームに表示する文字列そのままがキーになるのだ。
const (
	EnergyExtrovert = "외향"
	EnergyIntrovert = "내향"

	MoodCalm     = "잔잔함"
	MoodLively   = "활발함"
	MoodActivity = "탐험·액티비티"
	MoodArtistic = "예술적"
	MoodEmotive  = "감성적"

	ValueStability = "안정감"
	ValueThrill    = "설렘"
	ValueGrowth    = "성장"
	ValueHumor     = "유머"
	ValueCare      = "배려"
)

// AnswerSet はユーザーが選んだ3つの回答なのだ。リクエストごとに作られて使い捨てられるのだ。
type AnswerSet struct {
	EnergyType string `json:"energy_type" form:"energy_type"`
	Mood       string `json:"mood" form:"mood"`
	Value      string `json:"value" form:"value"`
}

// DefaultAnswerSet はフォームの初期選択値を返すのだ。
func DefaultAnswerSet() AnswerSet {
	return AnswerSet{
		EnergyType: EnergyExtrovert,
		Mood:       MoodCalm,
		Value:      ValueStability,
	}
}

// String はログ出力用の表現を返すのだ。
func (a AnswerSet) String() string {
	return fmt.Sprintf("%s/%s/%s", a.EnergyType, a.Mood, a.Value)
}

// Question はフォーム上の1つの設問と、その選択肢（表示順）なのだ。
type Question struct {
	Field   string   `json:"field"`
	Label   string   `json:"label"`
	Options []string `json:"options"`
	Default string   `json:"default"`
}

// Choices は3つの設問を表示順で返すのだ。呼び出し側が書き換えても影響しないよう毎回新しく作るのだ。
func Choices() []Question {
	d := DefaultAnswerSet()
	return []Question{
		{
			Field:   "energy_type",
			Label:   "① 에너지 유형",
			Options: []string{EnergyExtrovert, EnergyIntrovert},
			Default: d.EnergyType,
		},
		{
			Field:   "mood",
			Label:   "② 데이트 분위기",
			Options: []string{MoodCalm, MoodLively, MoodActivity, MoodArtistic, MoodEmotive},
			Default: d.Mood,
		},
		{
			Field:   "value",
			Label:   "③ 가치관",
			Options: []string{ValueStability, ValueThrill, ValueGrowth, ValueHumor, ValueCare},
			Default: d.Value,
		},
	}
}
