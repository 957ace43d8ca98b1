package pipeline

import (
	"context"
	"sync"

	"github.com/Jonnymurillo288/TourCast/internal/limiter"
	"github.com/Jonnymurillo288/TourCast/musicbrainz"
	"github.com/Jonnymurillo288/TourCast/setlistfm"
	"github.com/Jonnymurillo288/TourCast/spotify"
)

// fakeArchive serves canned pages without touching the network.
type fakeArchive struct {
	mu sync.Mutex

	byName map[string]*setlistfm.SetlistsPage
	byMBID map[string]*setlistfm.SetlistsPage
	// byTour maps "artist|tour" to pages indexed by page number (1-based).
	byTour map[string][]*setlistfm.SetlistsPage

	err       error
	tourCalls int

	// tourErrPage fails SearchByTour with tourErr for that page number only.
	tourErrPage int
	tourErr     error
}

func keyTour(artist, tour string) string { return artist + "|" + tour }

func (f *fakeArchive) SearchByArtistName(_ context.Context, name string, _ int) (*setlistfm.SetlistsPage, error) {
	if f.err != nil {
		return nil, f.err
	}
	if p, ok := f.byName[name]; ok {
		return p, nil
	}
	return &setlistfm.SetlistsPage{}, nil
}

func (f *fakeArchive) SearchByArtistMBID(_ context.Context, mbid string, _ int) (*setlistfm.SetlistsPage, error) {
	if f.err != nil {
		return nil, f.err
	}
	if p, ok := f.byMBID[mbid]; ok {
		return p, nil
	}
	return &setlistfm.SetlistsPage{}, nil
}

func (f *fakeArchive) SearchByTour(_ context.Context, artist, tour string, page int) (*setlistfm.SetlistsPage, error) {
	f.mu.Lock()
	f.tourCalls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.tourErrPage != 0 && page == f.tourErrPage {
		return nil, f.tourErr
	}
	pages := f.byTour[keyTour(artist, tour)]
	if page < 1 || page > len(pages) {
		return nil, &limiter.StatusError{StatusCode: 404, Message: "no such page"}
	}
	return pages[page-1], nil
}

// fakeCatalog resolves tracks from a fixed table keyed by exact track name.
type fakeCatalog struct {
	mu     sync.Mutex
	tracks map[string]*spotify.Track
	err    error
	asked  []string
}

func (f *fakeCatalog) SearchTrack(_ context.Context, trackName, artist string) (*spotify.Track, error) {
	f.mu.Lock()
	f.asked = append(f.asked, trackName)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.tracks[trackName], nil
}

// fakeIdentity returns one canned candidate, or none.
type fakeIdentity struct {
	artist *musicbrainz.Artist
	err    error
}

func (f *fakeIdentity) LookupArtistByURL(_ context.Context, _ string) (*musicbrainz.Artist, error) {
	return f.artist, f.err
}

// recorder captures published events for assertions.
type recorded struct {
	Kind     string // update, complete, error
	Stage    string
	Message  string
	Progress int
	Data     interface{}
	Status   int
}

type recorder struct {
	mu     sync.Mutex
	events []recorded
}

func (r *recorder) PublishUpdate(_, stage, message string, progress int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recorded{Kind: "update", Stage: stage, Message: message, Progress: progress})
}

func (r *recorder) PublishComplete(_ string, data interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recorded{Kind: "complete", Data: data})
}

func (r *recorder) PublishError(_ string, message string, statusCode int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recorded{Kind: "error", Message: message, Status: statusCode})
}

func (r *recorder) all() []recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recorded(nil), r.events...)
}

func (r *recorder) last() recorded {
	evs := r.all()
	return evs[len(evs)-1]
}
