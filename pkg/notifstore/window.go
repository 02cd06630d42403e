package notifstore

const windowSize = 5

// PageWindow returns up to five page numbers centered on the current page.
// With five pages or fewer every page is shown. Near the edges the window
// sticks to the boundary so it always contains five pages when possible.
func PageWindow(page, totalPages int) []int {
	if totalPages <= 0 {
		return nil
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	if totalPages <= windowSize {
		pages := make([]int, totalPages)
		for i := range pages {
			pages[i] = i + 1
		}
		return pages
	}

	start := page - 2
	switch {
	case page <= 3:
		start = 1
	case page >= totalPages-2:
		start = totalPages - windowSize + 1
	}

	pages := make([]int, windowSize)
	for i := range pages {
		pages[i] = start + i
	}
	return pages
}
