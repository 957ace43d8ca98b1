package pipeline

import (
	"context"

	"github.com/Jonnymurillo288/TourCast/musicbrainz"
	"github.com/Jonnymurillo288/TourCast/setlistfm"
	"github.com/Jonnymurillo288/TourCast/spotify"
)

// ArtistRef is the caller-supplied catalog artist the pipeline resolves.
type ArtistRef struct {
	Name       string `json:"name"`
	CatalogID  string `json:"catalogId"`
	CatalogURL string `json:"catalogUrl"`
}

// IdentityMatch is the identity-graph resolution for one request. Matched
// is a routing decision, not a success flag: false routes the archive
// search by name instead of by MBID.
type IdentityMatch struct {
	MBID    string
	MBName  string
	Matched bool
}

// TourSummary is one named tour derived by grouping a page of setlists.
type TourSummary struct {
	Name      string   `json:"tourName"`
	ShowCount int      `json:"showCount"`
	Years     []string `json:"yearsSeen"` // 4-digit years, ascending
}

// SongTally is the play frequency of one song under its credited artist.
// The credited artist is the cover's original artist when the song is a
// cover, else the main resolved artist.
type SongTally struct {
	Artist string `json:"artistName"`
	Song   string `json:"songName"`
	Count  int    `json:"playCount"`
}

// EnrichedSong is a SongTally with optional catalog metadata attached.
// InCatalog false means the catalog had no match; the song stays in the
// ranked list with the catalog fields empty.
type EnrichedSong struct {
	SongTally
	InCatalog         bool   `json:"inCatalog"`
	CatalogSongName   string `json:"catalogSongName,omitempty"`
	CatalogArtistName string `json:"catalogArtistName,omitempty"`
	ImageURL          string `json:"imageUrl,omitempty"`
	AlbumName         string `json:"albumName,omitempty"`
	ReleaseDate       string `json:"releaseDate,omitempty"`
	PlayableURI       string `json:"playableUri,omitempty"`
}

// TourData is the tour block of the final payload.
type TourData struct {
	Name       string   `json:"tourName"`
	ShowCount  int      `json:"showCount"`
	Years      []string `json:"yearsSeen"`
	TotalShows int      `json:"totalShows"` // shows with at least one played song
}

// Result is the payload of the terminal complete event.
type Result struct {
	Tour  TourData       `json:"tourData"`
	Songs []EnrichedSong `json:"rankedSongs"`
}

// ========================================================== //
// Collaborator boundaries

// ArchiveClient is the setlist archive surface the pipeline consumes.
type ArchiveClient interface {
	SearchByArtistName(ctx context.Context, name string, page int) (*setlistfm.SetlistsPage, error)
	SearchByArtistMBID(ctx context.Context, mbid string, page int) (*setlistfm.SetlistsPage, error)
	SearchByTour(ctx context.Context, artistName, tourName string, page int) (*setlistfm.SetlistsPage, error)
}

// CatalogClient is the track-metadata surface the enrichment batcher
// consumes.
type CatalogClient interface {
	SearchTrack(ctx context.Context, trackName, artist string) (*spotify.Track, error)
}

// IdentityClient is the cross-reference lookup for catalog artist URLs.
type IdentityClient interface {
	LookupArtistByURL(ctx context.Context, resource string) (*musicbrainz.Artist, error)
}

// Publisher receives the pipeline's progress events. events.Hub satisfies
// it; tests substitute a recorder.
type Publisher interface {
	PublishUpdate(clientID, stage, message string, progress int)
	PublishComplete(clientID string, data interface{})
	PublishError(clientID, message string, statusCode int)
}
