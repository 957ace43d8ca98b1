package pipeline

import (
	"testing"

	"github.com/Jonnymurillo288/TourCast/setlistfm"
	"github.com/stretchr/testify/require"
)

// show builds one setlist entry; date is dd-MM-yyyy like the archive emits.
func show(artist, tour, date string, songs ...string) setlistfm.Setlist {
	sl := setlistfm.Setlist{
		EventDate: date,
		Artist:    setlistfm.Artist{Name: artist},
	}
	if tour != "" {
		sl.Tour = &setlistfm.Tour{Name: tour}
	}
	var ss []setlistfm.Song
	for _, name := range songs {
		ss = append(ss, setlistfm.Song{Name: name})
	}
	sl.Sets = setlistfm.Sets{Set: []setlistfm.Set{{Song: ss}}}
	return sl
}

func pageOf(setlists ...setlistfm.Setlist) *setlistfm.SetlistsPage {
	return &setlistfm.SetlistsPage{
		ItemsPerPage: 20,
		Page:         1,
		Total:        len(setlists),
		Setlist:      setlists,
	}
}

func TestSelectTour_MostRecentNonExcluded(t *testing.T) {
	page := pageOf(
		show("X", "A Tour", "01-05-2019"),
		show("X", "A Tour", "02-05-2019"),
		show("X", "A Tour", "03-05-2019"),
		show("X", "B Tour", "01-06-2022"),
		show("X", "B Tour", "02-06-2022"),
		show("X", "B Tour", "03-06-2022"),
		show("X", "B Tour", "04-06-2022"),
		show("X", "B Tour", "05-06-2022"),
		show("X", "VIP Package", "01-01-2023"),
	)

	tour, err := SelectTour(page, "X")
	require.NoError(t, err)
	require.Equal(t, "B Tour", tour.Name)
	require.Equal(t, 5, tour.ShowCount)
	require.Equal(t, []string{"2022"}, tour.Years)
}

func TestSelectTour_SentinelOnly(t *testing.T) {
	page := pageOf(
		show("X", "", "01-05-2021"),
		show("X", "", "02-05-2021"),
		show("X", "", "03-05-2022"),
		show("X", "", "04-05-2022"),
	)

	tour, err := SelectTour(page, "X")
	require.NoError(t, err)
	require.Equal(t, NoTourSentinel, tour.Name)
	require.Equal(t, 4, tour.ShowCount)
	require.Equal(t, []string{"2021", "2022"}, tour.Years)
}

func TestSelectTour_PrefersRealTourOverSentinel(t *testing.T) {
	page := pageOf(
		show("X", "", "01-05-2023"),
		show("X", "World Tour", "01-05-2020"),
	)

	tour, err := SelectTour(page, "X")
	require.NoError(t, err)
	require.Equal(t, "World Tour", tour.Name)
}

// When exclusion would remove every remaining candidate the exclusion is
// skipped entirely for the request.
func TestSelectTour_ExclusionSkippedWhenItEmptiesCandidates(t *testing.T) {
	page := pageOf(
		show("X", "VIP Soundcheck Experience", "01-05-2023"),
		show("X", "V.I.P. Meet and Greet", "01-05-2022"),
	)

	tour, err := SelectTour(page, "X")
	require.NoError(t, err)
	require.Equal(t, "VIP Soundcheck Experience", tour.Name)
}

func TestSelectTour_DisambiguatesSameNamedArtists(t *testing.T) {
	page := pageOf(
		show("Kansas City Band", "Wrong Band Tour", "01-05-2023"),
		show("Aurora", "Right Tour", "01-05-2022"),
	)

	tour, err := SelectTour(page, "Aurora")
	require.NoError(t, err)
	require.Equal(t, "Right Tour", tour.Name)
}

func TestSelectTour_FirstGroupWhenNoneMatch(t *testing.T) {
	page := pageOf(
		show("Alpha", "Alpha Tour", "01-05-2023"),
		show("Beta", "Beta Tour", "01-05-2023"),
	)

	tour, err := SelectTour(page, "Gamma")
	require.NoError(t, err)
	require.Equal(t, "Alpha Tour", tour.Name)
}

func TestSelectTour_TieKeepsFirstEvaluated(t *testing.T) {
	page := pageOf(
		show("X", "First Tour", "01-05-2022"),
		show("X", "Second Tour", "02-06-2022"),
	)

	tour, err := SelectTour(page, "X")
	require.NoError(t, err)
	require.Equal(t, "First Tour", tour.Name)
}

func TestSelectTour_NoSetlists(t *testing.T) {
	_, err := SelectTour(pageOf(), "X")
	require.ErrorIs(t, err, ErrNoSetlists)

	_, err = SelectTour(nil, "X")
	require.ErrorIs(t, err, ErrNoSetlists)
}
