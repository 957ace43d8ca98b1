package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Jonnymurillo288/TourCast/internal/limiter"
	"golang.org/x/oauth2"
)

const defaultBaseURL = "https://api.spotify.com/v1"

// ========================================================== //
// Types

// Track is the catalog metadata attached to a tallied song. The first hit
// of a track search is treated as authoritative.
type Track struct {
	Name        string
	ArtistName  string
	ImageURL    string
	AlbumName   string
	ReleaseDate string
	URI         string
}

type trackSearchResponse struct {
	Tracks struct {
		Items []struct {
			Name    string `json:"name"`
			URI     string `json:"uri"`
			Artists []struct {
				Name string `json:"name"`
			} `json:"artists"`
			Album struct {
				Name        string `json:"name"`
				ReleaseDate string `json:"release_date"`
				Images      []struct {
					URL string `json:"url"`
				} `json:"images"`
			} `json:"album"`
		} `json:"items"`
	} `json:"tracks"`
}

// ========================================================== //
// Client

type Client struct {
	http    *http.Client
	limiter *limiter.Limiter
	tokens  oauth2.TokenSource
	baseURL string
}

// NewClient builds a catalog client using a machine-credential token source.
// Every request is admitted through lim, the process-wide catalog throttle.
func NewClient(lim *limiter.Limiter, ts oauth2.TokenSource) *Client {
	return &Client{
		http:    &http.Client{Timeout: 15 * time.Second},
		limiter: lim,
		tokens:  ts,
		baseURL: defaultBaseURL,
	}
}

// NewClientWithBase points the client at a fake server for tests.
func NewClientWithBase(lim *limiter.Limiter, ts oauth2.TokenSource, base string) *Client {
	c := NewClient(lim, ts)
	c.baseURL = base
	return c
}

func (c *Client) get(ctx context.Context, endpoint string, query map[string]string, out interface{}) error {
	return c.limiter.Do(ctx, func(ctx context.Context) error {
		tok, err := c.tokens.Token()
		if err != nil {
			return fmt.Errorf("spotify token: %w", err)
		}

		u, err := url.Parse(c.baseURL + endpoint)
		if err != nil {
			return err
		}
		q := u.Query()
		for k, v := range query {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()

		req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		tok.SetAuthHeader(req)

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("spotify request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			io.Copy(io.Discard, resp.Body)
			return &limiter.StatusError{
				StatusCode: resp.StatusCode,
				Message:    fmt.Sprintf("spotify %s returned %d", endpoint, resp.StatusCode),
			}
		}

		return json.NewDecoder(resp.Body).Decode(out)
	})
}

// ========================================================== //
// Spotify API: search tracks

// SearchTrack looks up a track by exact track+artist query and returns the
// first hit's metadata, or nil when the catalog has no match. A miss is not
// an error; callers mark the song as absent from the catalog.
func (c *Client) SearchTrack(ctx context.Context, trackName, artist string) (*Track, error) {
	q := fmt.Sprintf(`track:%q artist:%q`, trackName, artist)

	var out trackSearchResponse
	err := c.get(ctx, "/search", map[string]string{
		"q":     q,
		"type":  "track",
		"limit": "1",
	}, &out)
	if err != nil {
		return nil, err
	}

	if len(out.Tracks.Items) == 0 {
		return nil, nil
	}

	item := out.Tracks.Items[0]
	tr := &Track{
		Name:        item.Name,
		URI:         item.URI,
		AlbumName:   item.Album.Name,
		ReleaseDate: item.Album.ReleaseDate,
	}
	if len(item.Artists) > 0 {
		tr.ArtistName = item.Artists[0].Name
	}
	if len(item.Album.Images) > 0 {
		tr.ImageURL = item.Album.Images[0].URL
	}
	return tr, nil
}
