package setlistfm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Jonnymurillo288/TourCast/internal/limiter"
)

const defaultBaseURL = "https://api.setlist.fm/rest/1.0"

// ========================================================== //
// Types

type CoverArtist struct {
	MBID string `json:"mbid"`
	Name string `json:"name"`
}

type Song struct {
	Name string `json:"name"`
	// Tape marks pre-show tape/intro audio; never tallied.
	Tape  bool         `json:"tape"`
	Cover *CoverArtist `json:"cover,omitempty"`
}

type Set struct {
	Name string `json:"name,omitempty"`
	Song []Song `json:"song"`
}

type Sets struct {
	Set []Set `json:"set"`
}

type Artist struct {
	MBID string `json:"mbid"`
	Name string `json:"name"`
}

type Tour struct {
	Name string `json:"name"`
}

// Setlist is one historical show as the archive records it.
type Setlist struct {
	ID        string `json:"id"`
	EventDate string `json:"eventDate"` // dd-MM-yyyy
	Artist    Artist `json:"artist"`
	Tour      *Tour  `json:"tour,omitempty"`
	Sets      Sets   `json:"sets"`
}

// SetlistsPage is the paginated response envelope every search returns.
type SetlistsPage struct {
	Type         string    `json:"type"`
	ItemsPerPage int       `json:"itemsPerPage"`
	Page         int       `json:"page"`
	Total        int       `json:"total"`
	Setlist      []Setlist `json:"setlist"`
}

// ========================================================== //
// Client

type Client struct {
	http    *http.Client
	limiter *limiter.Limiter
	apiKey  string
	baseURL string
}

// NewClient builds an archive client. Every request is admitted through lim,
// the process-wide archive throttle.
func NewClient(lim *limiter.Limiter, apiKey string) *Client {
	return &Client{
		http:    &http.Client{Timeout: 15 * time.Second},
		limiter: lim,
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
	}
}

// NewClientWithBase points the client at a fake server for tests.
func NewClientWithBase(lim *limiter.Limiter, apiKey, base string) *Client {
	c := NewClient(lim, apiKey)
	c.baseURL = base
	return c
}

func (c *Client) get(ctx context.Context, endpoint string, query map[string]string, out interface{}) error {
	return c.limiter.Do(ctx, func(ctx context.Context) error {
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
		req.Header.Set("x-api-key", c.apiKey)

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("setlist.fm request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			return &limiter.StatusError{
				StatusCode: resp.StatusCode,
				Message:    fmt.Sprintf("setlist.fm %s: %s", endpoint, firstLine(body)),
			}
		}

		return json.NewDecoder(resp.Body).Decode(out)
	})
}

func firstLine(b []byte) string {
	for i, c := range b {
		if c == '\n' {
			return string(b[:i])
		}
	}
	if len(b) > 200 {
		return string(b[:200])
	}
	return string(b)
}

// ========================================================== //
// Search API

// SearchByArtistName fetches one page of setlists matching an artist name.
// Name search can return same-named-but-different artists; callers
// disambiguate.
func (c *Client) SearchByArtistName(ctx context.Context, name string, page int) (*SetlistsPage, error) {
	var out SetlistsPage
	err := c.get(ctx, "/search/setlists", map[string]string{
		"artistName": name,
		"p":          strconv.Itoa(page),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchByArtistMBID fetches one page of setlists for an exact MusicBrainz
// artist identity.
func (c *Client) SearchByArtistMBID(ctx context.Context, mbid string, page int) (*SetlistsPage, error) {
	var out SetlistsPage
	err := c.get(ctx, "/search/setlists", map[string]string{
		"artistMbid": mbid,
		"p":          strconv.Itoa(page),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchByTour fetches one page of setlists for a named tour of an artist.
func (c *Client) SearchByTour(ctx context.Context, artistName, tourName string, page int) (*SetlistsPage, error) {
	var out SetlistsPage
	err := c.get(ctx, "/search/setlists", map[string]string{
		"artistName": artistName,
		"tourName":   tourName,
		"p":          strconv.Itoa(page),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ========================================================== //
// Lookup API

// GetSetlist fetches a single setlist by its archive ID.
func (c *Client) GetSetlist(ctx context.Context, id string) (*Setlist, error) {
	var out Setlist
	if err := c.get(ctx, "/setlist/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
