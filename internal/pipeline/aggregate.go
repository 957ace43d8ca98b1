package pipeline

import (
	"context"
	"sync"

	"github.com/Jonnymurillo288/TourCast/setlistfm"
)

// aggregate fetches every page of the selected tour. The sentinel tour
// short-circuits: the page the selector already consumed IS the data set,
// no new query is issued. For a real tour the first page's envelope gives
// the page count and the remaining pages are fired into the archive
// limiter's queue together; the limiter serializes the actual requests.
// Pages come back in page-index order regardless of completion order.
func (r *Runner) aggregate(ctx context.Context, artistName string, tour *TourSummary, firstPage *setlistfm.SetlistsPage) ([]*setlistfm.SetlistsPage, error) {
	if tour.Name == NoTourSentinel {
		return []*setlistfm.SetlistsPage{firstPage}, nil
	}

	head, err := r.Archive.SearchByTour(ctx, artistName, tour.Name, 1)
	if err != nil {
		return nil, err
	}

	totalPages := 1
	if head.ItemsPerPage > 0 && head.Total > head.ItemsPerPage {
		totalPages = (head.Total + head.ItemsPerPage - 1) / head.ItemsPerPage
	}

	pages := make([]*setlistfm.SetlistsPage, totalPages)
	pages[0] = head
	if totalPages == 1 {
		return pages, nil
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for p := 2; p <= totalPages; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			page, err := r.Archive.SearchByTour(ctx, artistName, tour.Name, p)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			pages[p-1] = page
		}(p)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return pages, nil
}
