package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/Jonnymurillo288/TourCast/internal/limiter"
	"github.com/Jonnymurillo288/TourCast/internal/store"
	"github.com/Jonnymurillo288/TourCast/setlistfm"
)

// Wire stage names on update events.
const (
	StageStart          = "start"
	StageIdentity       = "musicbrainz"
	StageSetlistSearch  = "setlist_search"
	StageTourProcessing = "tour_processing"
	StageSetlistFetch   = "setlist_fetch"
	StageSongProcessing = "song_processing"
	StageEnrichment     = "spotify_search"
)

// Runner sequences one tour resolution end-to-end. Collaborators are
// injected once at process start; Run is safe for concurrent use across
// clients, the shared limiters inside the clients being the only
// cross-run state.
type Runner struct {
	Archive  ArchiveClient
	Catalog  CatalogClient
	Identity IdentityClient
	Store    store.MBIDStore // optional MBID cache
	Events   Publisher

	// BatchSize overrides the enrichment batch size; 0 means the default.
	BatchSize int
}

// Run drives the stage machine for one request and reports progress over
// the client's channel. Exactly one terminal event is published: complete
// with the full result, or error with a display-ready message and status.
// The returned error mirrors the published terminal error for callers that
// track run state.
func (r *Runner) Run(ctx context.Context, artist ArtistRef, clientID string) error {
	fail := func(err error) error {
		status, msg := statusFromError(err)
		log.Printf("pipeline: run for %q failed (%d): %v", artist.Name, status, err)
		r.Events.PublishError(clientID, msg, status)
		return err
	}

	r.Events.PublishUpdate(clientID, StageStart, fmt.Sprintf("Looking up %s", artist.Name), 5)

	// Identity resolution decides whether the archive search can use the
	// exact MBID or has to fall back to the ambiguous name search.
	match := r.resolveIdentity(ctx, artist)
	r.Events.PublishUpdate(clientID, StageIdentity, "Resolved artist identity", 15)

	firstPage, err := r.searchFirstPage(ctx, artist, match)
	if err != nil {
		return fail(err)
	}
	r.Events.PublishUpdate(clientID, StageSetlistSearch, "Found recent setlists", 30)

	tour, err := SelectTour(firstPage, artist.Name)
	if err != nil {
		return fail(err)
	}
	r.Events.PublishUpdate(clientID, StageTourProcessing,
		fmt.Sprintf("Selected tour: %s", tour.Name), 45)

	pages, err := r.aggregate(ctx, artist.Name, tour, firstPage)
	if err != nil {
		return fail(err)
	}
	r.Events.PublishUpdate(clientID, StageSetlistFetch,
		fmt.Sprintf("Fetched %d setlist pages", len(pages)), 55)

	tally := TallySongs(pages, artist.Name)
	if len(tally.Songs) == 0 {
		return fail(ErrNoSetlists)
	}
	r.Events.PublishUpdate(clientID, StageSongProcessing,
		fmt.Sprintf("Tallied %d songs across %d shows", len(tally.Songs), tally.TotalShowsWithData), 70)

	r.Events.PublishUpdate(clientID, StageEnrichment, "Matching songs against catalog", enrichBandStart)
	songs := r.enrich(ctx, tally.Songs, func(percent int) {
		r.Events.PublishUpdate(clientID, StageEnrichment, "Matching songs against catalog", percent)
	})

	showCount := tour.ShowCount
	if tour.Name != NoTourSentinel {
		showCount = 0
		for _, p := range pages {
			if p != nil {
				showCount += len(p.Setlist)
			}
		}
	}

	r.Events.PublishComplete(clientID, Result{
		Tour: TourData{
			Name:       tour.Name,
			ShowCount:  showCount,
			Years:      tour.Years,
			TotalShows: tally.TotalShowsWithData,
		},
		Songs: songs,
	})
	return nil
}

// searchFirstPage issues the single throttled archive query the selector
// works from, keyed by MBID when the identity matched, by name otherwise.
func (r *Runner) searchFirstPage(ctx context.Context, artist ArtistRef, match IdentityMatch) (*setlistfm.SetlistsPage, error) {
	if match.Matched {
		return r.Archive.SearchByArtistMBID(ctx, match.MBID, 1)
	}
	return r.Archive.SearchByArtistName(ctx, artist.Name, 1)
}

// statusFromError maps a stage failure to the client-facing status code and
// display message of the terminal error event.
func statusFromError(err error) (int, string) {
	if errors.Is(err, ErrNoSetlists) {
		return http.StatusNotFound, "No setlist information available for this artist"
	}

	var se *limiter.StatusError
	if errors.As(err, &se) {
		switch se.StatusCode {
		case http.StatusTooManyRequests:
			return http.StatusTooManyRequests, "Too many requests - try again later"
		case http.StatusNotFound:
			return http.StatusNotFound, "No setlist information available for this artist"
		case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return http.StatusGatewayTimeout, "Setlist service is unreachable - try again later"
		}
	}

	return http.StatusInternalServerError, "Something went wrong while building the setlist"
}
