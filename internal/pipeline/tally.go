package pipeline

import (
	"sort"

	"github.com/Jonnymurillo288/TourCast/setlistfm"
)

// TallyResult is the frozen output of the tally stage; counts never change
// after this, enrichment only decorates.
type TallyResult struct {
	Songs []SongTally
	// TotalShowsWithData counts performances with at least one non-empty
	// set. It is the denominator for "played at N of M shows"; empty-set
	// shows are excluded from it but never error the run.
	TotalShowsWithData int
}

// TallySongs reduces the aggregated pages into a frequency-ranked song list.
// Pure: no suspension, no I/O. Tape/intro audio is skipped; a cover is
// credited to its original artist, everything else to mainArtist. Output is
// sorted by play count descending, ties keeping input order.
func TallySongs(pages []*setlistfm.SetlistsPage, mainArtist string) TallyResult {
	type key struct{ artist, song string }

	counts := make(map[key]int)
	var order []key
	shows := 0

	for _, page := range pages {
		if page == nil {
			continue
		}
		for _, sl := range page.Setlist {
			played := false
			for _, set := range sl.Sets.Set {
				for _, song := range set.Song {
					if song.Tape || song.Name == "" {
						continue
					}
					played = true

					credit := mainArtist
					if song.Cover != nil && song.Cover.Name != "" {
						credit = song.Cover.Name
					}

					k := key{artist: credit, song: song.Name}
					if _, seen := counts[k]; !seen {
						order = append(order, k)
					}
					counts[k]++
				}
			}
			if played {
				shows++
			}
		}
	}

	songs := make([]SongTally, 0, len(order))
	for _, k := range order {
		songs = append(songs, SongTally{Artist: k.artist, Song: k.song, Count: counts[k]})
	}
	sort.SliceStable(songs, func(i, j int) bool {
		return songs[i].Count > songs[j].Count
	})

	return TallyResult{Songs: songs, TotalShowsWithData: shows}
}
