package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/Jonnymurillo288/TourCast/spotify"
	"github.com/stretchr/testify/require"
)

func TestEnrich_AttachesCatalogFields(t *testing.T) {
	cat := &fakeCatalog{tracks: map[string]*spotify.Track{
		"Anthem": {
			Name:        "Anthem",
			ArtistName:  "Aurora Test Band",
			ImageURL:    "https://img/anthem.jpg",
			AlbumName:   "First Light",
			ReleaseDate: "2024-03-01",
			URI:         "spotify:track:abc",
		},
	}}
	r := &Runner{Catalog: cat}

	tally := []SongTally{
		{Artist: "Aurora Test Band", Song: "Anthem", Count: 15},
		{Artist: "Aurora Test Band", Song: "Unreleased Jam", Count: 2},
	}

	out := r.enrich(context.Background(), tally, nil)
	require.Len(t, out, 2) // misses keep their slot

	require.True(t, out[0].InCatalog)
	require.Equal(t, "spotify:track:abc", out[0].PlayableURI)
	require.Equal(t, "First Light", out[0].AlbumName)
	require.Equal(t, 15, out[0].Count)

	require.False(t, out[1].InCatalog)
	require.Empty(t, out[1].PlayableURI)
	require.Equal(t, 2, out[1].Count)
}

// A zero-hit search for a known compound-word title retries once with the
// alternate spelling.
func TestEnrich_CompoundVariantFallback(t *testing.T) {
	cat := &fakeCatalog{tracks: map[string]*spotify.Track{
		"sun flower": {Name: "Sun Flower", URI: "spotify:track:sf"},
	}}
	r := &Runner{Catalog: cat}

	out := r.enrich(context.Background(), []SongTally{
		{Artist: "X", Song: "Sunflower", Count: 3},
	}, nil)

	require.True(t, out[0].InCatalog)
	require.Equal(t, "spotify:track:sf", out[0].PlayableURI)
	require.Equal(t, []string{"Sunflower", "sun flower"}, cat.asked)
	// the tally identity is untouched by the variant lookup
	require.Equal(t, "Sunflower", out[0].Song)
}

// Per-song catalog errors are absorbed; the run keeps the full ranked list.
func TestEnrich_SearchErrorIsAMiss(t *testing.T) {
	cat := &fakeCatalog{err: errors.New("catalog down")}
	r := &Runner{Catalog: cat}

	out := r.enrich(context.Background(), []SongTally{
		{Artist: "X", Song: "A", Count: 1},
		{Artist: "X", Song: "B", Count: 1},
	}, nil)

	require.Len(t, out, 2)
	require.False(t, out[0].InCatalog)
	require.False(t, out[1].InCatalog)
}

func TestEnrich_ProgressSweepsBandTo100(t *testing.T) {
	cat := &fakeCatalog{tracks: map[string]*spotify.Track{}}
	r := &Runner{Catalog: cat, BatchSize: 2}

	tally := make([]SongTally, 7) // 4 batches of <=2
	for i := range tally {
		tally[i] = SongTally{Artist: "X", Song: string(rune('A' + i)), Count: 1}
	}

	var percents []int
	r.enrich(context.Background(), tally, func(p int) { percents = append(percents, p) })

	require.Len(t, percents, 4)
	for i := 1; i < len(percents); i++ {
		require.GreaterOrEqual(t, percents[i], percents[i-1])
	}
	require.Greater(t, percents[0], enrichBandStart)
	require.Equal(t, 100, percents[len(percents)-1])
}

func TestCompoundVariant(t *testing.T) {
	v, ok := compoundVariant("Soundcheck Serenade")
	require.True(t, ok)
	require.Equal(t, "sound check Serenade", v)

	v, ok = compoundVariant("Good Bye Blue Sky")
	require.True(t, ok)
	require.Equal(t, "goodbye Blue Sky", v)

	_, ok = compoundVariant("Plain Song")
	require.False(t, ok)
}
