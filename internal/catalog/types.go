// Package catalog wraps the Spotify Web API behind the narrow surface the
// recommendation pipeline needs: client-credentials tokens and track search.
package catalog

import (
	"github.com/zmb3/spotify/v2"
)

// Candidate is one catalog track record returned by a search query,
// keyed by its catalog id.
type Candidate struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Artists       []string `json:"-"` // all associated artists; scoring only
	AlbumImageURL string   `json:"image,omitempty"`
	PreviewURL    string   `json:"preview_url,omitempty"`
	Popularity    int      `json:"popularity"`
}

// PrimaryArtist returns the first associated artist, or empty when the
// catalog record carries none
func (c Candidate) PrimaryArtist() string {
	if len(c.Artists) == 0 {
		return ""
	}
	return c.Artists[0]
}

// Artist is a minimal artist record for the search passthrough endpoints
type Artist struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image,omitempty"`
}

// candidateFromTrack maps a Spotify track into a Candidate
func candidateFromTrack(t spotify.FullTrack) Candidate {
	artists := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		artists = append(artists, a.Name)
	}

	var image string
	if len(t.Album.Images) > 0 {
		image = t.Album.Images[0].URL
	}

	return Candidate{
		ID:            t.ID.String(),
		Name:          t.Name,
		Artists:       artists,
		AlbumImageURL: image,
		PreviewURL:    t.PreviewURL,
		Popularity:    int(t.Popularity),
	}
}
