package recommend

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/moodcast/moodcast/internal/catalog"
	"github.com/moodcast/moodcast/pkg/logging"
)

// DefaultSearchWorkers bounds the catalog query fan-out
const DefaultSearchWorkers = 4

// TrackSearcher is the catalog capability the aggregator consumes
type TrackSearcher interface {
	SearchTracks(ctx context.Context, query string, limit int) []catalog.Candidate
}

// CandidateSet is the identity-deduplicated merge of all query results.
// Insertion order is preserved so downstream ranking is deterministic.
// Once built it is read-only.
type CandidateSet struct {
	order []string
	byID  map[string]catalog.Candidate
}

// NewCandidateSet creates an empty set
func NewCandidateSet() *CandidateSet {
	return &CandidateSet{byID: make(map[string]catalog.Candidate)}
}

// Merge folds one query's results into the set. A duplicate id keeps its
// original position but takes the most recent payload, so later queries win
// on content while order stays stable.
func (s *CandidateSet) Merge(items []catalog.Candidate) {
	for _, item := range items {
		if _, ok := s.byID[item.ID]; !ok {
			s.order = append(s.order, item.ID)
		}
		s.byID[item.ID] = item
	}
}

// Len returns the number of distinct candidates
func (s *CandidateSet) Len() int {
	return len(s.order)
}

// Ordered returns candidates in insertion order
func (s *CandidateSet) Ordered() []catalog.Candidate {
	out := make([]catalog.Candidate, len(s.order))
	for i, id := range s.order {
		out[i] = s.byID[id]
	}
	return out
}

// Aggregator fans expanded queries out to the catalog with bounded
// concurrency and merges the results. A failing query contributes nothing;
// it never aborts the batch.
type Aggregator struct {
	searcher TrackSearcher
	workers  int
	limit    int
	logger   logging.Logger
}

// NewAggregator creates an aggregator. workers <= 0 selects the default
// fan-out bound, limit <= 0 the default per-query result cap.
func NewAggregator(searcher TrackSearcher, workers, limit int, logger logging.Logger) *Aggregator {
	if workers <= 0 {
		workers = DefaultSearchWorkers
	}
	if limit <= 0 {
		limit = catalog.DefaultQueryLimit
	}
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &Aggregator{
		searcher: searcher,
		workers:  workers,
		limit:    limit,
		logger:   logger.WithFields(logging.Fields{"component": "candidate_aggregator"}),
	}
}

// Collect runs every query and merges the results. Per-query results are
// gathered concurrently but merged sequentially in query order, preserving
// the later-queries-win contract.
func (a *Aggregator) Collect(ctx context.Context, queries []string) *CandidateSet {
	results := make([][]catalog.Candidate, len(queries))

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i, query := range queries {
		g.Go(func() error {
			results[i] = a.searcher.SearchTracks(groupCtx, query, a.limit)
			return nil
		})
	}
	// SearchTracks degrades failures to empty slices, so the group never errors
	_ = g.Wait()

	set := NewCandidateSet()
	for i, items := range results {
		set.Merge(items)
		a.logger.Debug("Merged query results", logging.Fields{
			"query":      queries[i],
			"candidates": len(items),
			"total":      set.Len(),
		})
	}
	return set
}
