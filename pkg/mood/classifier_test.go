package mood

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapMood(t *testing.T) {
	tests := []struct {
		name     string
		valence  float64
		arousal  float64
		expected string
	}{
		{"happy energetic", 6.0, 6.0, LabelHappyEnergetic},
		{"relaxed positive", 6.0, 4.5, LabelRelaxedPositive},
		{"tense or angry", 4.0, 6.0, LabelTenseOrAngry},
		{"sad calm", 4.0, 4.5, LabelSadCalm},
		{"neutral-happy energetic", 5.2, 5.2, LabelNeutralHappyEnergetic},
		{"neutral-happy", 5.3, 5.0, LabelNeutralHappy},
		{"neutral-tense", 4.8, 5.3, LabelNeutralTense},
		{"neutral-sad", 4.9, 5.0, LabelNeutralSad},
		{"dead center is neutral", 5.1, 5.2, LabelNeutral},
		{"valence gap arousal low", 5.05, 4.0, LabelNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MapMood(tt.valence, tt.arousal))
		})
	}
}

// The hard tier uses strict comparisons, so sitting exactly on its corner
// must fall through to the neutral tier.
func TestMapMoodHardBoundaryFallsThrough(t *testing.T) {
	assert.Equal(t, LabelNeutralHappyEnergetic, MapMood(5.4, 5.35))
	assert.Equal(t, LabelNeutralHappy, MapMood(5.4, 5.1))
	assert.Equal(t, LabelNeutralTense, MapMood(4.7, 5.35))
	assert.Equal(t, LabelNeutralSad, MapMood(4.7, 5.1))
}

// MapMood must be total: every point on a dense grid yields a known label.
func TestMapMoodIsTotal(t *testing.T) {
	known := make(map[string]bool, len(Labels))
	for _, l := range Labels {
		known[l] = true
	}

	for v := 3.0; v <= 7.0; v += 0.05 {
		for a := 3.0; a <= 7.0; a += 0.05 {
			label := MapMood(v, a)
			if !known[label] {
				t.Fatalf("MapMood(%v, %v) produced unknown label %q", v, a, label)
			}
		}
	}
}
