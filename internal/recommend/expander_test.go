package recommend

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Regression fixture: this literal expansion is part of the supported
// contract.
func TestBuildQueriesHappyEnglishLofi(t *testing.T) {
	queries := BuildQueries(SearchHints{
		Mood:     "happy",
		Language: "en",
		Keywords: []string{"lofi"},
	})

	assert.Equal(t, []string{
		"lofi happy english",
		"lofi english",
		"happy english songs",
		"happy songs",
		"happy mix",
		"english happy",
		"english top hits",
		"top hits",
	}, queries)
}

func TestBuildQueriesNeverExceedsCap(t *testing.T) {
	queries := BuildQueries(SearchHints{
		Mood:     "sad",
		Language: "hi",
		Genres:   []string{"pop", "rock", "folk", "jazz"},
		Artists:  []string{"a1", "a2", "a3", "a4"},
		Tracks:   []string{"t1", "t2", "t3"},
		Keywords: []string{"k1", "k2", "k3", "k4", "k5", "k6"},
	})

	assert.LessOrEqual(t, len(queries), MaxQueries)
}

func TestBuildQueriesFallbackIsLastWhenRoomRemains(t *testing.T) {
	queries := BuildQueries(SearchHints{Mood: "happy"})
	assert.Equal(t, FallbackQuery, queries[len(queries)-1])
	assert.Contains(t, queries, "happy songs")
}

func TestBuildQueriesEmptyInputYieldsFallback(t *testing.T) {
	queries := BuildQueries(SearchHints{})
	assert.Equal(t, []string{FallbackQuery}, queries)
}

func TestBuildQueriesDeduplicatesRepeatedHints(t *testing.T) {
	queries := BuildQueries(SearchHints{
		Mood:    "chill",
		Artists: []string{"Ilaiyaraaja", "ilaiyaraaja"},
	})

	count := 0
	for _, q := range queries {
		if strings.EqualFold(q, "ilaiyaraaja chill") {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestBuildQueriesFiltersPlaceholder(t *testing.T) {
	queries := BuildQueries(SearchHints{
		Mood:    "",
		Artists: []string{"String"},
	})

	for _, q := range queries {
		assert.False(t, strings.EqualFold(placeholderValue, q), "placeholder leaked: %q", q)
	}
}

func TestBuildQueriesUnknownLanguageLeavesNoDoubleSpaces(t *testing.T) {
	queries := BuildQueries(SearchHints{
		Mood:     "happy",
		Language: "xx",
		Genres:   []string{"pop"},
	})

	assert.Contains(t, queries, "happy pop")
	assert.Contains(t, queries, "pop")
	for _, q := range queries {
		assert.NotContains(t, q, "  ")
	}
}

func TestLanguageWord(t *testing.T) {
	tests := []struct {
		code     string
		expected string
	}{
		{"ta", "tamil"},
		{"TA", "tamil"},
		{"ta-IN", "tamil"},
		{"hi", "hindi"},
		{"en", "english"},
		{"none", ""},
		{"", ""},
		{"zz-not-a-tag", ""},
		{"fr", ""}, // known tag, outside the supported table
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, LanguageWord(tt.code), "code %q", tt.code)
	}
}
