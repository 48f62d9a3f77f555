// Package pipeline wires the end-to-end audio-to-ranked-tracks flow:
// decode -> feature extraction -> mood regression (+ language detection) ->
// query expansion -> catalog fan-out -> aggregation -> relevance ranking.
package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"

	"github.com/moodcast/moodcast/internal/language"
	"github.com/moodcast/moodcast/internal/recommend"
	"github.com/moodcast/moodcast/pkg/audio/decode"
	"github.com/moodcast/moodcast/pkg/audio/features"
	"github.com/moodcast/moodcast/pkg/logging"
	"github.com/moodcast/moodcast/pkg/mood"
)

// tokenChecker is the precondition probe for the search stage. The catalog
// TokenProvider satisfies it.
type tokenChecker interface {
	Token() (*oauth2.Token, error)
}

// Inference is the mood/language half of a pipeline run
type Inference struct {
	Valence            float64 `json:"valence"`
	Arousal            float64 `json:"arousal"`
	Mood               string  `json:"mood"`
	Language           string  `json:"language,omitempty"`
	LanguageConfidence float64 `json:"language_confidence,omitempty"`
}

// Recommendation is the ranked-tracks half of a pipeline run
type Recommendation struct {
	MoodUsed          string                  `json:"mood_used"`
	QueriesUsed       []string                `json:"queries_used"`
	SuggestedKeywords []string                `json:"suggested_keywords"`
	Results           []recommend.ScoredTrack `json:"results"`
}

// FullResult bundles both halves for the single-call audio-to-tracks flow
type FullResult struct {
	Inference
	Recommendation
}

// Config holds pipeline tuning knobs
type Config struct {
	Features      features.Config
	SearchWorkers int
	QueryLimit    int // per-query candidate cap
	ResultLimit   int // ranked list cap
}

// DefaultConfig returns the pipeline defaults
func DefaultConfig() Config {
	return Config{
		Features:      features.DefaultConfig(),
		SearchWorkers: recommend.DefaultSearchWorkers,
		QueryLimit:    0,
		ResultLimit:   recommend.DefaultResultLimit,
	}
}

// Pipeline executes mood inference and catalog recommendation. All state is
// request-scoped except the injected collaborators, which are immutable for
// the process lifetime.
type Pipeline struct {
	cfg       Config
	extractor *features.Extractor
	model     *mood.Model
	detector  language.Detector
	searcher  recommend.TrackSearcher
	tokens    tokenChecker
	logger    logging.Logger
}

// New creates a pipeline. detector may be nil (no language detection);
// searcher and tokens may be nil when only the inference half is used.
func New(cfg Config, model *mood.Model, detector language.Detector, searcher recommend.TrackSearcher, tokens tokenChecker, logger logging.Logger) *Pipeline {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	if detector == nil {
		detector = language.NoopDetector{}
	}
	return &Pipeline{
		cfg:       cfg,
		extractor: features.NewExtractor(cfg.Features, logger),
		model:     model,
		detector:  detector,
		searcher:  searcher,
		tokens:    tokens,
		logger:    logger.WithFields(logging.Fields{"component": "pipeline"}),
	}
}

// Analyze decodes an audio file and runs mood and language inference on it.
// Decode and regression failures are fatal; language detection failures
// degrade to an absent language.
func (p *Pipeline) Analyze(ctx context.Context, audioPath string) (Inference, error) {
	pcm, err := decode.DecodeFile(audioPath, p.cfg.Features.SampleRate)
	if err != nil {
		return Inference{}, err
	}

	vector, err := p.extractor.Extract(pcm)
	if err != nil {
		return Inference{}, err
	}

	return p.AnalyzeVector(ctx, vector, audioPath)
}

// AnalyzeVector runs inference on an already-extracted feature vector.
// audioPath is only used for language detection and may be empty to skip it.
func (p *Pipeline) AnalyzeVector(ctx context.Context, vector []float64, audioPath string) (Inference, error) {
	est, err := p.model.Estimate(vector)
	if err != nil {
		return Inference{}, err
	}

	inf := Inference{
		Valence: est.Valence,
		Arousal: est.Arousal,
		Mood:    est.Label,
	}

	if audioPath != "" {
		lang, err := p.detector.Detect(ctx, audioPath)
		if err != nil {
			// degraded signal, not a failure
			p.logger.Warn("Language detection failed", logging.Fields{
				"audio_path": audioPath,
				"error":      err.Error(),
			})
		} else {
			inf.Language = lang.Code
			inf.LanguageConfidence = lang.Confidence
		}
	}

	return inf, nil
}

// Recommend expands hints into queries, fans them out to the catalog and
// returns the ranked results. A missing token aborts the search stage.
func (p *Pipeline) Recommend(ctx context.Context, hints recommend.SearchHints, limit int) (*Recommendation, error) {
	if p.searcher == nil {
		return nil, fmt.Errorf("recommendation: no catalog search client configured")
	}
	if p.tokens != nil {
		if _, err := p.tokens.Token(); err != nil {
			return nil, fmt.Errorf("recommendation: catalog token unavailable: %w", err)
		}
	}

	hints = hints.Normalized()
	queries := recommend.BuildQueries(hints)

	p.logger.Debug("Expanded search queries", logging.Fields{
		"mood":     hints.Mood,
		"language": hints.Language,
		"queries":  len(queries),
	})

	aggregator := recommend.NewAggregator(p.searcher, p.cfg.SearchWorkers, p.cfg.QueryLimit, p.logger)
	set := aggregator.Collect(ctx, queries)

	scorer := recommend.NewScorer(hints.Mood, recommend.LanguageWord(hints.Language), hints.Genres, hints.Keywords)
	results := recommend.Truncate(scorer.Rank(set), limit)

	p.logger.Debug("Ranked candidates", logging.Fields{
		"candidates": set.Len(),
		"returned":   len(results),
	})

	return &Recommendation{
		MoodUsed:          hints.Mood,
		QueriesUsed:       queries,
		SuggestedKeywords: recommend.SuggestedKeywords,
		Results:           results,
	}, nil
}

// RecommendFromAudio is the single-call flow: infer mood and language from
// the clip, fold them into the hints (explicit hints win) and rank catalog
// candidates.
func (p *Pipeline) RecommendFromAudio(ctx context.Context, audioPath string, hints recommend.SearchHints, limit int) (*FullResult, error) {
	inf, err := p.Analyze(ctx, audioPath)
	if err != nil {
		return nil, err
	}

	if hints.Mood == "" {
		hints.Mood = inf.Mood
	}
	if hints.Language == "" || hints.Language == "none" {
		hints.Language = inf.Language
	}

	rec, err := p.Recommend(ctx, hints, limit)
	if err != nil {
		return nil, err
	}

	return &FullResult{Inference: inf, Recommendation: *rec}, nil
}
