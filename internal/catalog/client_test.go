package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zmb3/spotify/v2"

	"github.com/moodcast/moodcast/pkg/logging"
)

type stubSearchAPI struct {
	result *spotify.SearchResult
	err    error
	calls  []string
}

func (s *stubSearchAPI) Search(ctx context.Context, query string, t spotify.SearchType, opts ...spotify.RequestOption) (*spotify.SearchResult, error) {
	s.calls = append(s.calls, query)
	return s.result, s.err
}

func fullTrack(id, name string, popularity int, artists ...string) spotify.FullTrack {
	simpleArtists := make([]spotify.SimpleArtist, len(artists))
	for i, a := range artists {
		simpleArtists[i] = spotify.SimpleArtist{Name: a}
	}
	return spotify.FullTrack{
		SimpleTrack: spotify.SimpleTrack{
			ID:         spotify.ID(id),
			Name:       name,
			Artists:    simpleArtists,
			PreviewURL: "https://p.scdn.co/" + id,
		},
		Album: spotify.SimpleAlbum{
			Images: []spotify.Image{{URL: "https://i.scdn.co/" + id}},
		},
		Popularity: spotify.Numeric(popularity),
	}
}

func TestSearchTracksMapsCandidates(t *testing.T) {
	api := &stubSearchAPI{
		result: &spotify.SearchResult{
			Tracks: &spotify.FullTrackPage{
				Tracks: []spotify.FullTrack{
					fullTrack("t1", "Monsoon Melody", 73, "Artist A", "Artist B"),
				},
			},
		},
	}
	client := NewSearchClientWithAPI(api, logging.NewNopLogger())

	candidates := client.SearchTracks(context.Background(), "tamil chill", 25)
	require.Len(t, candidates, 1)

	c := candidates[0]
	assert.Equal(t, "t1", c.ID)
	assert.Equal(t, "Monsoon Melody", c.Name)
	assert.Equal(t, []string{"Artist A", "Artist B"}, c.Artists)
	assert.Equal(t, "Artist A", c.PrimaryArtist())
	assert.Equal(t, "https://i.scdn.co/t1", c.AlbumImageURL)
	assert.Equal(t, "https://p.scdn.co/t1", c.PreviewURL)
	assert.Equal(t, 73, c.Popularity)
	assert.Equal(t, []string{"tamil chill"}, api.calls)
}

func TestSearchTracksFailureDegradesToEmpty(t *testing.T) {
	api := &stubSearchAPI{err: errors.New("upstream 503")}
	client := NewSearchClientWithAPI(api, logging.NewNopLogger())

	candidates := client.SearchTracks(context.Background(), "anything", 25)
	assert.Empty(t, candidates)
}

func TestSearchTracksNilPageDegradesToEmpty(t *testing.T) {
	api := &stubSearchAPI{result: &spotify.SearchResult{}}
	client := NewSearchClientWithAPI(api, logging.NewNopLogger())

	assert.Empty(t, client.SearchTracks(context.Background(), "anything", 25))
}

func TestPrimaryArtistEmpty(t *testing.T) {
	assert.Equal(t, "", Candidate{}.PrimaryArtist())
}

func TestNewClientCredentialsProviderRequiresCredentials(t *testing.T) {
	_, err := NewClientCredentialsProvider("", "secret")
	assert.ErrorIs(t, err, ErrMissingCredentials)

	_, err = NewClientCredentialsProvider("id", "")
	assert.ErrorIs(t, err, ErrMissingCredentials)
}
