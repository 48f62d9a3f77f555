package recommend

import (
	"math"
	"sort"
	"strings"

	"github.com/moodcast/moodcast/internal/catalog"
)

// Text-match bonuses. The text sub-score is clamped to 1.0 before the final
// weighted combination with popularity.
const (
	moodBonus    = 0.35
	langBonus    = 0.20
	genreBonus   = 0.15
	keywordBonus = 0.25

	textWeight       = 0.6
	popularityWeight = 0.4
)

// DefaultResultLimit is the ranked-list cap applied by callers
const DefaultResultLimit = 30

// ScoredTrack is one ranked result
type ScoredTrack struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Artist     string  `json:"artist,omitempty"`
	ImageURL   string  `json:"image,omitempty"`
	PreviewURL string  `json:"preview_url,omitempty"`
	Score      float64 `json:"score"`
	Popularity int     `json:"popularity"`
}

// Scorer computes the hybrid relevance score for aggregated candidates
type Scorer struct {
	mood     string
	langWord string
	genres   []string
	keywords []string
}

// NewScorer builds a scorer from the request's mood text, resolved language
// word and hint lists
func NewScorer(mood, langWord string, genres, keywords []string) *Scorer {
	return &Scorer{
		mood:     strings.ToLower(strings.TrimSpace(mood)),
		langWord: strings.ToLower(langWord),
		genres:   genres,
		keywords: keywords,
	}
}

// Score computes the hybrid score for one candidate. All substring matches
// are case-insensitive; the result is in [0, 1].
func (s *Scorer) Score(c catalog.Candidate) float64 {
	name := strings.ToLower(c.Name)
	artists := strings.ToLower(strings.Join(c.Artists, " "))

	text := 0.0
	if strings.Contains(name, s.mood) || strings.Contains(artists, s.mood) {
		text += moodBonus
	}
	if s.langWord != "" && strings.Contains(name, s.langWord) {
		text += langBonus
	}
	for _, g := range s.genres {
		if strings.Contains(name, strings.ToLower(g)) {
			text += genreBonus
		}
	}
	for _, kw := range s.keywords {
		lowered := strings.ToLower(kw)
		if strings.Contains(name, lowered) || strings.Contains(artists, lowered) {
			text += keywordBonus
		}
	}
	if text > 1 {
		text = 1
	}

	popScore := float64(c.Popularity) / 100.0
	return textWeight*text + popularityWeight*popScore
}

// Rank scores every candidate and returns them sorted by score descending.
// The sort is stable: ties keep the aggregation insertion order. Scores are
// rounded to four decimal places.
func (s *Scorer) Rank(set *CandidateSet) []ScoredTrack {
	candidates := set.Ordered()
	results := make([]ScoredTrack, len(candidates))
	for i, c := range candidates {
		results[i] = ScoredTrack{
			ID:         c.ID,
			Name:       c.Name,
			Artist:     c.PrimaryArtist(),
			ImageURL:   c.AlbumImageURL,
			PreviewURL: c.PreviewURL,
			Score:      math.Round(s.Score(c)*10000) / 10000,
			Popularity: c.Popularity,
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

// Truncate caps a ranked list at limit entries. limit <= 0 selects the
// default.
func Truncate(results []ScoredTrack, limit int) []ScoredTrack {
	if limit <= 0 {
		limit = DefaultResultLimit
	}
	if len(results) <= limit {
		return results
	}
	return results[:limit]
}
