package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/moodcast/moodcast/internal/catalog"
	"github.com/moodcast/moodcast/internal/language"
	"github.com/moodcast/moodcast/internal/recommend"
	"github.com/moodcast/moodcast/pkg/logging"
	"github.com/moodcast/moodcast/pkg/mood"
)

type fixedRegressor struct{ value float64 }

func (r fixedRegressor) Predict(features []float64) (float64, error) {
	return r.value, nil
}

type stubDetector struct {
	est language.Estimate
	err error
}

func (d stubDetector) Detect(ctx context.Context, audioPath string) (language.Estimate, error) {
	return d.est, d.err
}

type stubSearcher struct {
	byQuery map[string][]catalog.Candidate
}

func (s stubSearcher) SearchTracks(ctx context.Context, query string, limit int) []catalog.Candidate {
	return s.byQuery[query]
}

type stubTokens struct{ err error }

func (s stubTokens) Token() (*oauth2.Token, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &oauth2.Token{AccessToken: "token"}, nil
}

func stubModel(valence, arousal float64, dim int) *mood.Model {
	scaler := &mood.Scaler{Mean: make([]float64, dim), Std: make([]float64, dim)}
	for i := range dim {
		scaler.Std[i] = 1
	}
	return mood.NewModel(scaler, fixedRegressor{valence}, fixedRegressor{arousal}, logging.NewNopLogger())
}

func testVector(dim int) []float64 {
	v := make([]float64, dim)
	for i := range v {
		v[i] = float64(i) / 10
	}
	return v
}

func newTestPipeline(model *mood.Model, detector language.Detector, searcher recommend.TrackSearcher, tokens tokenChecker) *Pipeline {
	return New(DefaultConfig(), model, detector, searcher, tokens, logging.NewNopLogger())
}

func TestAnalyzeVectorHappyEnergetic(t *testing.T) {
	p := newTestPipeline(stubModel(6.0, 6.0, 68), stubDetector{est: language.Estimate{Code: "en", Confidence: 0.8}}, nil, nil)

	inf, err := p.AnalyzeVector(context.Background(), testVector(68), "clip.mp3")
	require.NoError(t, err)
	assert.Equal(t, "happy energetic", inf.Mood)
	assert.InDelta(t, 6.0, inf.Valence, 1e-9)
	assert.Equal(t, "en", inf.Language)
}

func TestAnalyzeVectorDetectorFailureDegrades(t *testing.T) {
	p := newTestPipeline(stubModel(6.0, 6.0, 68), stubDetector{err: errors.New("no server")}, nil, nil)

	inf, err := p.AnalyzeVector(context.Background(), testVector(68), "clip.mp3")
	require.NoError(t, err)
	assert.Equal(t, "happy energetic", inf.Mood)
	assert.Empty(t, inf.Language)
}

func TestAnalyzeVectorDimensionMismatchFatal(t *testing.T) {
	p := newTestPipeline(stubModel(6.0, 6.0, 68), nil, nil, nil)

	_, err := p.AnalyzeVector(context.Background(), testVector(10), "")
	assert.Error(t, err)
}

func TestRecommendReturnsRankedResults(t *testing.T) {
	searcher := stubSearcher{byQuery: map[string][]catalog.Candidate{
		"happy english songs": {
			{ID: "a", Name: "Happy English Song", Popularity: 40},
			{ID: "b", Name: "Unrelated", Popularity: 90},
		},
		"top hits": {
			{ID: "c", Name: "Chart Topper", Popularity: 100},
		},
	}}
	p := newTestPipeline(stubModel(5, 5, 68), nil, searcher, stubTokens{})

	rec, err := p.Recommend(context.Background(), recommend.SearchHints{Mood: "happy", Language: "en"}, 30)
	require.NoError(t, err)

	assert.Equal(t, "happy", rec.MoodUsed)
	assert.Contains(t, rec.QueriesUsed, "happy english songs")
	assert.Equal(t, "top hits", rec.QueriesUsed[len(rec.QueriesUsed)-1])
	assert.Equal(t, recommend.SuggestedKeywords, rec.SuggestedKeywords)

	require.Len(t, rec.Results, 3)
	// "Happy English Song" matches mood and language word; it outranks raw
	// popularity.
	assert.Equal(t, "a", rec.Results[0].ID)
}

func TestRecommendTokenUnavailableIsFatal(t *testing.T) {
	p := newTestPipeline(stubModel(5, 5, 68), nil, stubSearcher{}, stubTokens{err: errors.New("invalid_client")})

	_, err := p.Recommend(context.Background(), recommend.SearchHints{Mood: "happy"}, 30)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token unavailable")
}

func TestRecommendLimitTruncates(t *testing.T) {
	many := make([]catalog.Candidate, 20)
	for i := range many {
		many[i] = catalog.Candidate{ID: string(rune('a' + i)), Name: "x", Popularity: i}
	}
	p := newTestPipeline(stubModel(5, 5, 68), nil, stubSearcher{byQuery: map[string][]catalog.Candidate{"top hits": many}}, stubTokens{})

	rec, err := p.Recommend(context.Background(), recommend.SearchHints{}, 5)
	require.NoError(t, err)
	assert.Len(t, rec.Results, 5)
}
