package auth

import (
	"context"
	"sync"

	"github.com/Jonnymurillo288/TourCast/internal/secret"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// TokenURL matches the Spotify accounts service token endpoint.
var TokenURL = "https://accounts.spotify.com/api/token"

var (
	mu     sync.Mutex
	source oauth2.TokenSource
)

// SpotifyTokenSource returns a process-wide client-credentials token source.
// The oauth2 package caches the machine token and refreshes it on expiry, so
// callers can Token() per batch without hammering the accounts service.
func SpotifyTokenSource(ctx context.Context) oauth2.TokenSource {
	mu.Lock()
	defer mu.Unlock()

	if source == nil {
		cfg := &clientcredentials.Config{
			ClientID:     secret.Config.SpotifyClientID,
			ClientSecret: secret.Config.SpotifyClientSecret,
			TokenURL:     TokenURL,
		}
		source = cfg.TokenSource(ctx)
	}
	return source
}

// Reset drops the cached token source. Used when credentials are reloaded.
func Reset() {
	mu.Lock()
	source = nil
	mu.Unlock()
}
