package pipeline

import (
	"context"
	"log"

	"github.com/Jonnymurillo288/TourCast/internal/store"
)

// resolveIdentity maps the catalog artist to a MusicBrainz identity via the
// URL-keyed reverse lookup, consulting the MBID store first. A missing or
// non-matching candidate is NOT an error; Matched false routes the archive
// search by name instead. Lookup failures degrade the same way: same-named
// artists get noisier results, the run still proceeds.
func (r *Runner) resolveIdentity(ctx context.Context, artist ArtistRef) IdentityMatch {
	if r.Store != nil {
		cached, err := r.Store.Get(ctx, artist.CatalogID)
		if err != nil {
			log.Printf("pipeline: mbid store get %q: %v", artist.CatalogID, err)
		} else if cached != nil {
			return IdentityMatch{MBID: cached.MBID, MBName: cached.Name, Matched: true}
		}
	}

	cand, err := r.Identity.LookupArtistByURL(ctx, artist.CatalogURL)
	if err != nil {
		log.Printf("pipeline: identity lookup for %q: %v", artist.Name, err)
		return IdentityMatch{}
	}
	if cand == nil || !NamesMatch(artist.Name, cand.Name) {
		return IdentityMatch{}
	}

	if r.Store != nil {
		if err := r.Store.Put(ctx, artist.CatalogID, store.ArtistID{MBID: cand.ID, Name: cand.Name}); err != nil {
			log.Printf("pipeline: mbid store put %q: %v", artist.CatalogID, err)
		}
	}

	return IdentityMatch{MBID: cand.ID, MBName: cand.Name, Matched: true}
}
