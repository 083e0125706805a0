package services

import "sort"

// PageLink is one entry of the numbered pager: a page number or an ellipsis.
type PageLink struct {
	Page     int  `json:"page,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
	Active   bool `json:"active,omitempty"`
}

// PaginationWindow builds the compact pager. With three pages or fewer every
// page is listed. Otherwise it shows page 1, page 2 while current <= 3, the
// current page, and the last page, with an ellipsis wherever numbers are skipped.
func PaginationWindow(current, total int) []PageLink {
	if total < 1 {
		total = 1
	}
	current = clamp(current, 1, total)

	if total <= 3 {
		links := make([]PageLink, 0, total)
		for p := 1; p <= total; p++ {
			links = append(links, PageLink{Page: p, Active: p == current})
		}
		return links
	}

	pages := map[int]bool{1: true, total: true}
	if current <= 3 {
		pages[2] = true
	}
	if current > 1 && current < total {
		pages[current] = true
	}

	ordered := make([]int, 0, len(pages))
	for p := range pages {
		ordered = append(ordered, p)
	}
	sort.Ints(ordered)

	links := make([]PageLink, 0, len(ordered)*2)
	prev := 0
	for _, p := range ordered {
		if prev != 0 && p-prev > 1 {
			links = append(links, PageLink{Ellipsis: true})
		}
		links = append(links, PageLink{Page: p, Active: p == current})
		prev = p
	}
	return links
}

// PageAction is a relative pager control.
type PageAction string

const (
	PageFirst PageAction = "first"
	PagePrev  PageAction = "prev"
	PageNext  PageAction = "next"
	PageLast  PageAction = "last"
)

// ResolvePageAction returns the page an action leads to, within [1, total].
func ResolvePageAction(action PageAction, current, total int) int {
	if total < 1 {
		total = 1
	}
	switch action {
	case PageFirst:
		return 1
	case PagePrev:
		return clamp(current-1, 1, total)
	case PageNext:
		return clamp(current+1, 1, total)
	case PageLast:
		return total
	default:
		return clamp(current, 1, total)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
