// Package recommend implements the mood-to-ranked-tracks half of the
// pipeline: query expansion from sparse hints, cross-query candidate
// aggregation and hybrid relevance scoring.
package recommend

import "strings"

// Hint list caps. They bound query fan-out, which in turn bounds the number
// of catalog round trips per request.
const (
	MaxArtistHints  = 3
	MaxTrackHints   = 3
	MaxGenreHints   = 3
	MaxKeywordHints = 5
)

// SearchHints is the optional, user-supplied side of a recommendation
// request. Every field may be empty.
type SearchHints struct {
	Mood     string   `json:"mood"`
	Language string   `json:"language"`
	Genres   []string `json:"genres"`
	Artists  []string `json:"artist_names"`
	Tracks   []string `json:"track_names"`
	Keywords []string `json:"keywords"`
}

// SuggestedKeywords is echoed to clients so the UI can offer quick refinements
var SuggestedKeywords = []string{
	"lofi", "romantic", "acoustic", "melancholic", "energetic",
	"chill", "workout", "party", "study", "sad remix", "instrumental",
}

// Normalized returns a copy with the mood lower-cased and trimmed and every
// hint list truncated to its cap
func (h SearchHints) Normalized() SearchHints {
	return SearchHints{
		Mood:     strings.ToLower(strings.TrimSpace(h.Mood)),
		Language: strings.ToLower(strings.TrimSpace(h.Language)),
		Genres:   capList(h.Genres, MaxGenreHints),
		Artists:  capList(h.Artists, MaxArtistHints),
		Tracks:   capList(h.Tracks, MaxTrackHints),
		Keywords: capList(h.Keywords, MaxKeywordHints),
	}
}

func capList(values []string, limit int) []string {
	if len(values) <= limit {
		return values
	}
	return values[:limit]
}
