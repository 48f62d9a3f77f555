package recommend

import (
	"strings"

	"golang.org/x/text/language"
)

const (
	// MaxQueries caps the expanded query list, fallback included
	MaxQueries = 10

	// FallbackQuery is unconditionally appended when room remains
	FallbackQuery = "top hits"

	// placeholderValue guards against unfilled default form values leaking
	// into queries
	placeholderValue = "string"
)

// languageWords maps short language codes to the human-readable search word
// substituted into query templates. Unknown codes resolve to an empty word.
var languageWords = map[string]string{
	"ta": "tamil",
	"te": "telugu",
	"hi": "hindi",
	"ml": "malayalam",
	"kn": "kannada",
	"en": "english",
	"es": "spanish",
	"ko": "korean",
}

// LanguageWord resolves a language code to its search word. Tags are
// canonicalized first so "TA", "tam" and "ta-IN" all resolve to "tamil".
// "none", empty and unknown codes resolve to "".
func LanguageWord(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" || code == "none" {
		return ""
	}

	if word, ok := languageWords[code]; ok {
		return word
	}

	tag, err := language.Parse(code)
	if err != nil {
		return ""
	}
	base, _ := tag.Base()
	return languageWords[base.String()]
}

// BuildQueries expands mood, language and hints into an ordered,
// case-insensitively deduplicated list of at most MaxQueries search strings.
// The list is never empty: a fallback fires when no template produced
// anything, and FallbackQuery is always appended last when room remains.
func BuildQueries(hints SearchHints) []string {
	hints = hints.Normalized()
	mood := hints.Mood
	langWord := LanguageWord(hints.Language)

	var raw []string
	add := func(parts ...string) {
		q := joinQuery(parts)
		if q == "" || strings.EqualFold(q, placeholderValue) {
			return
		}
		raw = append(raw, q)
	}

	for _, artist := range hints.Artists {
		add(artist, mood)
		add(artist, langWord, mood)
	}

	for _, track := range hints.Tracks {
		add(track, mood)
		add(track, langWord, mood)
	}

	for _, genre := range hints.Genres {
		add(mood, genre, langWord)
		add(genre, langWord)
	}

	for _, keyword := range hints.Keywords {
		add(keyword, mood, langWord)
		add(keyword, langWord)
	}

	if mood != "" {
		add(mood, langWord, "songs")
		add(mood, "songs")
		add(mood, "mix")
	}

	if langWord != "" {
		add(langWord, mood)
		add(langWord, "top hits")
	}

	if len(raw) == 0 {
		if mood != "" {
			add(mood, "songs")
		} else {
			add(FallbackQuery)
		}
	}

	add(FallbackQuery)

	return dedupeQueries(raw, MaxQueries)
}

// joinQuery assembles template parts, dropping empty words and collapsing
// the double spaces they would otherwise leave behind
func joinQuery(parts []string) string {
	joined := strings.Join(parts, " ")
	return strings.Join(strings.Fields(joined), " ")
}

// dedupeQueries keeps the first occurrence of each query, compared
// case-insensitively, up to limit entries
func dedupeQueries(queries []string, limit int) []string {
	seen := make(map[string]struct{}, len(queries))
	out := make([]string, 0, limit)
	for _, q := range queries {
		key := strings.ToLower(q)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, q)
		if len(out) >= limit {
			break
		}
	}
	return out
}
