package catalog

import (
	"context"
	"time"

	"github.com/zmb3/spotify/v2"

	"github.com/moodcast/moodcast/pkg/logging"
)

const (
	// searchTimeout bounds a single catalog round trip
	searchTimeout = 10 * time.Second

	// DefaultQueryLimit is the per-query result cap used by the pipeline
	DefaultQueryLimit = 25
)

// searchAPI is the slice of the Spotify client the search path uses.
// *spotify.Client satisfies it; tests substitute a stub.
type searchAPI interface {
	Search(ctx context.Context, query string, t spotify.SearchType, opts ...spotify.RequestOption) (*spotify.SearchResult, error)
}

// SearchClient issues catalog search requests. A failing or non-success
// query degrades to zero candidates instead of an error: redundancy across
// expanded queries absorbs individual losses.
type SearchClient struct {
	api    searchAPI
	logger logging.Logger
}

// NewSearchClient builds a client over a token-injecting provider
func NewSearchClient(provider *TokenProvider, logger logging.Logger) *SearchClient {
	httpClient := provider.HTTPClient(context.Background())
	httpClient.Timeout = searchTimeout
	return NewSearchClientWithAPI(spotify.New(httpClient), logger)
}

// NewSearchClientWithAPI builds a client over an existing API handle
func NewSearchClientWithAPI(api searchAPI, logger logging.Logger) *SearchClient {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &SearchClient{
		api:    api,
		logger: logger.WithFields(logging.Fields{"component": "catalog_search"}),
	}
}

// SearchTracks runs one track search. It never returns an error: failures
// and empty responses both yield an empty slice.
func (c *SearchClient) SearchTracks(ctx context.Context, query string, limit int) []Candidate {
	if limit <= 0 {
		limit = DefaultQueryLimit
	}

	searchCtx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()

	result, err := c.api.Search(searchCtx, query, spotify.SearchTypeTrack, spotify.Limit(limit))
	if err != nil {
		c.logger.Warn("Catalog query failed", logging.Fields{
			"query": query,
			"error": err.Error(),
		})
		return nil
	}
	if result == nil || result.Tracks == nil {
		return nil
	}

	candidates := make([]Candidate, 0, len(result.Tracks.Tracks))
	for _, t := range result.Tracks.Tracks {
		candidates = append(candidates, candidateFromTrack(t))
	}

	c.logger.Debug("Catalog query completed", logging.Fields{
		"query":      query,
		"candidates": len(candidates),
	})
	return candidates
}

// SearchArtists runs one artist search for the passthrough endpoint
func (c *SearchClient) SearchArtists(ctx context.Context, query string, limit int) []Artist {
	if limit <= 0 {
		limit = DefaultQueryLimit
	}

	searchCtx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()

	result, err := c.api.Search(searchCtx, query, spotify.SearchTypeArtist, spotify.Limit(limit))
	if err != nil {
		c.logger.Warn("Artist query failed", logging.Fields{
			"query": query,
			"error": err.Error(),
		})
		return nil
	}
	if result == nil || result.Artists == nil {
		return nil
	}

	artists := make([]Artist, 0, len(result.Artists.Artists))
	for _, a := range result.Artists.Artists {
		var image string
		if len(a.Images) > 0 {
			image = a.Images[0].URL
		}
		artists = append(artists, Artist{
			ID:       a.ID.String(),
			Name:     a.Name,
			ImageURL: image,
		})
	}
	return artists
}
