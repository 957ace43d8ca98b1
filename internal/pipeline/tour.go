package pipeline

import (
	"errors"
	"sort"
	"strings"

	"github.com/Jonnymurillo288/TourCast/setlistfm"
)

// NoTourSentinel stands in for setlists the archive recorded without a tour.
// Selecting it means "aggregate the page as-is, no tour grouping applies".
const NoTourSentinel = "No Tour Info"

// ErrNoSetlists means the artist has zero performances on record. Callers
// surface it as "no setlist data", a 404, not a pipeline fault.
var ErrNoSetlists = errors.New("no setlists on record for artist")

// Tour names matching any of these are premium add-on sets, not real tours;
// they are skipped during selection unless nothing else remains.
var excludedTourKeywords = []string{
	"vip",
	"v.i.p.",
	"sound check",
	"soundcheck",
}

func tourExcluded(name string) bool {
	l := strings.ToLower(name)
	for _, kw := range excludedTourKeywords {
		if strings.Contains(l, kw) {
			return true
		}
	}
	return false
}

// artistGroup keeps the tours of one artistName in page order.
type artistGroup struct {
	name      string
	tourOrder []string
	tours     map[string]*TourSummary
}

// SelectTour decides which named tour a request should aggregate, from one
// page of recent setlists:
//
//  1. group by artistName then tourName, counting shows and collecting years
//  2. with several same-named artists on the page, keep the group whose name
//     matches the target; otherwise the first group in page order
//  3. one tour: take it, sentinel included. Several: prefer real tour names,
//     drop premium add-on sets unless that would drop everything, then take
//     the most recent by max year (ties keep the first evaluated)
func SelectTour(page *setlistfm.SetlistsPage, targetArtist string) (*TourSummary, error) {
	if page == nil || len(page.Setlist) == 0 {
		return nil, ErrNoSetlists
	}

	var groupOrder []string
	groups := make(map[string]*artistGroup)

	for _, sl := range page.Setlist {
		g, ok := groups[sl.Artist.Name]
		if !ok {
			g = &artistGroup{name: sl.Artist.Name, tours: make(map[string]*TourSummary)}
			groups[sl.Artist.Name] = g
			groupOrder = append(groupOrder, sl.Artist.Name)
		}

		tourName := NoTourSentinel
		if sl.Tour != nil && sl.Tour.Name != "" {
			tourName = sl.Tour.Name
		}

		ts, ok := g.tours[tourName]
		if !ok {
			ts = &TourSummary{Name: tourName}
			g.tours[tourName] = ts
			g.tourOrder = append(g.tourOrder, tourName)
		}
		ts.ShowCount++
		if y := eventYear(sl.EventDate); y != "" {
			ts.Years = insertYear(ts.Years, y)
		}
	}

	chosen := groups[groupOrder[0]]
	if len(groupOrder) > 1 {
		for _, name := range groupOrder {
			if NamesMatch(name, targetArtist) {
				chosen = groups[name]
				break
			}
		}
	}

	if len(chosen.tourOrder) == 1 {
		return chosen.tours[chosen.tourOrder[0]], nil
	}

	candidates := make([]string, 0, len(chosen.tourOrder))
	for _, name := range chosen.tourOrder {
		if name != NoTourSentinel {
			candidates = append(candidates, name)
		}
	}
	if len(candidates) == 0 {
		candidates = chosen.tourOrder
	}

	kept := make([]string, 0, len(candidates))
	for _, name := range candidates {
		if !tourExcluded(name) {
			kept = append(kept, name)
		}
	}
	if len(kept) == 0 {
		// exclusion would remove every candidate; skip it for this request
		kept = candidates
	}

	best := chosen.tours[kept[0]]
	for _, name := range kept[1:] {
		if maxYear(chosen.tours[name].Years) > maxYear(best.Years) {
			best = chosen.tours[name]
		}
	}
	return best, nil
}

// eventYear extracts the 4-digit year from the archive's dd-MM-yyyy dates.
func eventYear(eventDate string) string {
	if len(eventDate) < 4 {
		return ""
	}
	return eventDate[len(eventDate)-4:]
}

// insertYear keeps the year set sorted ascending and deduplicated.
func insertYear(years []string, y string) []string {
	i := sort.SearchStrings(years, y)
	if i < len(years) && years[i] == y {
		return years
	}
	years = append(years, "")
	copy(years[i+1:], years[i:])
	years[i] = y
	return years
}

func maxYear(years []string) string {
	if len(years) == 0 {
		return ""
	}
	return years[len(years)-1]
}
