// Package pagination computes page metadata and HATEOAS navigation links for
// paginated collection endpoints. It holds no state and touches no storage.
package pagination

import "fmt"

// Links carries the navigation URLs for one page of a collection. Previous and
// Next are nil at the respective boundaries and on out-of-range pages; Self,
// First and Last are always populated.
type Links struct {
	Self     string  `json:"self"`
	First    string  `json:"first"`
	Previous *string `json:"previous"`
	Next     *string `json:"next"`
	Last     string  `json:"last"`
}

// Metadata describes one page of a paginated collection.
type Metadata struct {
	ItemCount int   `json:"itemCount"`
	Limit     int   `json:"limit"`
	PageCount int   `json:"pageCount"`
	Page      int   `json:"page"`
	Links     Links `json:"links"`
}

// Paginate builds the metadata for the given page. Limit must be positive;
// pageIndex, maxPageIndex and itemCount must be non-negative. The boundary
// rules are load-bearing for API consumers: previous is nil when pageIndex is
// zero or beyond maxPageIndex, next is nil when pageIndex is at or beyond
// maxPageIndex, and an out-of-range page still links first and last.
func Paginate(baseURL string, pageIndex, limit, maxPageIndex, itemCount int) (Metadata, error) {
	if limit < 1 {
		return Metadata{}, fmt.Errorf("limit must be a positive integer, got %d", limit)
	}
	if pageIndex < 0 {
		return Metadata{}, fmt.Errorf("page index must be non-negative, got %d", pageIndex)
	}
	if maxPageIndex < 0 {
		return Metadata{}, fmt.Errorf("max page index must be non-negative, got %d", maxPageIndex)
	}
	if itemCount < 0 {
		return Metadata{}, fmt.Errorf("item count must be non-negative, got %d", itemCount)
	}

	links := Links{
		Self:  pageURL(baseURL, pageIndex, limit),
		First: pageURL(baseURL, 0, limit),
		Last:  pageURL(baseURL, maxPageIndex, limit),
	}

	if pageIndex > 0 && pageIndex <= maxPageIndex {
		previous := pageURL(baseURL, pageIndex-1, limit)
		links.Previous = &previous
	}

	if pageIndex < maxPageIndex {
		next := pageURL(baseURL, pageIndex+1, limit)
		links.Next = &next
	}

	return Metadata{
		ItemCount: itemCount,
		Limit:     limit,
		PageCount: ceilDiv(itemCount, limit),
		Page:      pageIndex,
		Links:     links,
	}, nil
}

// Slice returns the pageIndex-th page of items. Pages past the end yield an
// empty slice, never an error.
func Slice[T any](items []T, pageSize, pageIndex int) []T {
	if pageSize < 1 || pageIndex < 0 {
		return nil
	}

	start := pageIndex * pageSize
	if start >= len(items) {
		return []T{}
	}

	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func pageURL(baseURL string, page, limit int) string {
	return fmt.Sprintf("%s?page=%d&limit=%d", baseURL, page, limit)
}

func ceilDiv(count, limit int) int {
	return (count + limit - 1) / limit
}
