package mood

// Mood labels produced by the valence/arousal decision table
const (
	LabelHappyEnergetic        = "happy energetic"
	LabelRelaxedPositive       = "relaxed positive"
	LabelTenseOrAngry          = "tense or angry"
	LabelSadCalm               = "sad calm"
	LabelNeutralHappyEnergetic = "neutral-happy energetic"
	LabelNeutralHappy          = "neutral-happy"
	LabelNeutralTense          = "neutral-tense"
	LabelNeutralSad            = "neutral-sad"
	LabelNeutral               = "neutral"
)

// Labels lists every label MapMood can return
var Labels = []string{
	LabelHappyEnergetic,
	LabelRelaxedPositive,
	LabelTenseOrAngry,
	LabelSadCalm,
	LabelNeutralHappyEnergetic,
	LabelNeutralHappy,
	LabelNeutralTense,
	LabelNeutralSad,
	LabelNeutral,
}

// band is one row of the decision table
type band struct {
	match func(v, a float64) bool
	label string
}

// moodBands is evaluated in order, first match wins. The operator directions
// are part of the contract: boundary points are reachable from real regressor
// output, so e.g. (v=5.4, a=5.35) must fall through the hard tier into the
// neutral tier.
var moodBands = []band{
	// Hard tier: strong emotions
	{func(v, a float64) bool { return v > 5.4 && a > 5.35 }, LabelHappyEnergetic},
	{func(v, a float64) bool { return v > 5.4 && a < 5.1 }, LabelRelaxedPositive},
	{func(v, a float64) bool { return v < 4.7 && a > 5.35 }, LabelTenseOrAngry},
	{func(v, a float64) bool { return v < 4.7 && a < 5.1 }, LabelSadCalm},

	// Neutral tier
	{func(v, a float64) bool { return v > 5.15 && a > 5.15 }, LabelNeutralHappyEnergetic},
	{func(v, a float64) bool { return v > 5.15 && a <= 5.15 }, LabelNeutralHappy},
	{func(v, a float64) bool { return v < 5.0 && a > 5.15 }, LabelNeutralTense},
	{func(v, a float64) bool { return v < 5.0 && a <= 5.15 }, LabelNeutralSad},
}

// MapMood maps a (valence, arousal) pair to a mood label. Total on all of
// R²: anything no band claims is neutral.
func MapMood(v, a float64) string {
	for _, b := range moodBands {
		if b.match(v, a) {
			return b.label
		}
	}
	return LabelNeutral
}
