package musicbrainz

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://musicbrainz.org/ws/2"
const userAgent = "TourCast/1.0 (jonnymurillo288@gmail.com)"

// -------------------------------------------------------
// Core client
// -------------------------------------------------------

type Client struct {
	http     *http.Client
	baseURL  string
	throttle time.Duration
}

func NewClient() *Client {
	return &Client{
		http:    &http.Client{Timeout: 15 * time.Second},
		baseURL: defaultBaseURL,
		// MB polite usage: 1 request per second for anonymous clients.
		throttle: 1 * time.Second,
	}
}

// NewClientWithBase is used by tests to point the client at a fake server
// without the polite-usage sleep.
func NewClientWithBase(base string) *Client {
	return &Client{
		http:    &http.Client{Timeout: 15 * time.Second},
		baseURL: base,
	}
}

func (c *Client) get(ctx context.Context, u string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("musicbrainz returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return err
	}

	if c.throttle > 0 {
		time.Sleep(c.throttle)
	}
	return nil
}

//
// -------------------------------------------------------
// Reverse URL lookup
// -------------------------------------------------------

type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type urlSearchResponse struct {
	Count int `json:"count"`
	URLs  []struct {
		Resource     string `json:"resource"`
		RelationList []struct {
			Relations []struct {
				Type   string `json:"type"`
				Artist Artist `json:"artist"`
			} `json:"relations"`
		} `json:"relation-list"`
	} `json:"urls"`
}

// LookupArtistByURL resolves an external resource URL (a Spotify artist
// page) to the canonical MusicBrainz artist it is linked to. Returns
// nil when MB has no candidate for the URL; that is not an error.
func (c *Client) LookupArtistByURL(ctx context.Context, resource string) (*Artist, error) {
	q := url.QueryEscape(fmt.Sprintf(`url:%q`, resource))
	u := fmt.Sprintf("%s/url?query=%s&targettype=artist&inc=artist-rels&fmt=json", c.baseURL, q)

	var out urlSearchResponse
	if err := c.get(ctx, u, &out); err != nil {
		return nil, err
	}

	for _, hit := range out.URLs {
		for _, list := range hit.RelationList {
			for _, rel := range list.Relations {
				if rel.Artist.ID != "" {
					a := rel.Artist
					return &a, nil
				}
			}
		}
	}
	return nil, nil
}
