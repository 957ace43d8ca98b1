package pipeline

import (
	"context"
	"log"
	"strings"
	"sync"
)

// defaultBatchSize is how many catalog searches are submitted together; the
// catalog limiter spaces the actual requests.
const defaultBatchSize = 5

// Progress band reserved for enrichment within the overall pipeline sweep.
const (
	enrichBandStart = 85
	enrichBandEnd   = 100
)

// compoundVariants maps known stylistic spellings to their alternate form.
// When an exact search returns nothing the variant is tried once before the
// song is marked absent from the catalog.
var compoundVariants = map[string]string{
	"soundcheck": "sound check",
	"goodbye":    "good bye",
	"sunflower":  "sun flower",
	"firework":   "fire work",
}

func compoundVariant(name string) (string, bool) {
	l := strings.ToLower(name)
	for from, to := range compoundVariants {
		if strings.Contains(l, from) {
			return replaceFold(name, from, to), true
		}
		if strings.Contains(l, to) {
			return replaceFold(name, to, from), true
		}
	}
	return "", false
}

// replaceFold replaces old with repl case-insensitively, keeping the rest of
// the original casing.
func replaceFold(s, old, repl string) string {
	l := strings.ToLower(s)
	i := strings.Index(l, old)
	if i < 0 {
		return s
	}
	return s[:i] + repl + s[i+len(old):]
}

// enrich looks every tallied song up against the catalog in fixed-size
// concurrent batches. Misses and per-song errors never abort the run: the
// song keeps its slot with the catalog fields unset, so the ranked list
// length is always preserved. After each batch the progress callback gets a
// percent scaled across the enrichment band.
func (r *Runner) enrich(ctx context.Context, tally []SongTally, progress func(percent int)) []EnrichedSong {
	out := make([]EnrichedSong, len(tally))
	for i, t := range tally {
		out[i] = EnrichedSong{SongTally: t}
	}

	batchSize := r.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	totalBatches := (len(tally) + batchSize - 1) / batchSize
	for b := 0; b < totalBatches; b++ {
		start := b * batchSize
		end := start + batchSize
		if end > len(tally) {
			end = len(tally)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				r.enrichOne(ctx, &out[i])
			}(i)
		}
		wg.Wait()

		if progress != nil {
			done := b + 1
			progress(enrichBandStart + (enrichBandEnd-enrichBandStart)*done/totalBatches)
		}
	}

	return out
}

func (r *Runner) enrichOne(ctx context.Context, song *EnrichedSong) {
	track, err := r.Catalog.SearchTrack(ctx, song.Song, song.Artist)
	if err != nil {
		log.Printf("pipeline: catalog search %q by %q: %v", song.Song, song.Artist, err)
		return
	}

	if track == nil {
		variant, ok := compoundVariant(song.Song)
		if !ok {
			return
		}
		track, err = r.Catalog.SearchTrack(ctx, variant, song.Artist)
		if err != nil || track == nil {
			if err != nil {
				log.Printf("pipeline: catalog variant search %q by %q: %v", variant, song.Artist, err)
			}
			return
		}
	}

	song.InCatalog = true
	song.CatalogSongName = track.Name
	song.CatalogArtistName = track.ArtistName
	song.ImageURL = track.ImageURL
	song.AlbumName = track.AlbumName
	song.ReleaseDate = track.ReleaseDate
	song.PlayableURI = track.URI
}
