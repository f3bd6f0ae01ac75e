package prompts

import "github.com/shouni/go-pudding-kit/pkg/domain"

const (
	// BaseStyle はすべてのプロンプトの末尾に付く共通スタイル指定なのだ。
	BaseStyle = "cute anthropomorphic pudding character, thick black outline, 2D soft pastel sticker style, clean white background"

	DefaultFlavor   = "caramel pudding"
	DefaultValue    = "gentle personality"
	DefaultBehavior = "smiling softly"
)

// 起動後は読み取り専用。
var (
	flavorPhrases = map[string]string{
		domain.EnergyExtrovert: "bright strawberry red pudding",
		domain.EnergyIntrovert: "calming blueberry indigo pudding",
	}

	behaviorPhrases = map[string]string{
		domain.MoodCalm:     "sitting peacefully by a window, reading softly",
		domain.MoodLively:   "jumping with energy, cheerful expression",
		domain.MoodActivity: "climbing a tiny mountain, adventurous look",
		domain.MoodArtistic: "painting on a small easel, artistic expression",
		domain.MoodEmotive:  "watching a sunset with emotional gaze",
	}

	valuePhrases = map[string]string{
		domain.ValueStability: "wearing a cozy scarf, reliable",
		domain.ValueThrill:    "sparkling eyes full of excitement",
		domain.ValueGrowth:    "holding a sprout of growth",
		domain.ValueHumor:     "winking with a tiny comic hat",
		domain.ValueCare:      "offering a flower gently",
	}
)

func lookup(table map[string]string, key, fallback string) string {
	if phrase, ok := table[key]; ok {
		return phrase
	}
	return fallback
}
