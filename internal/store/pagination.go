package store

import (
	"sort"
	"strings"
	"time"

	"github.com/notedownapp/notedown-server/internal/domain"
)

// PageSize is the fixed listing window.
const PageSize = 10

// Sort axis values accepted in ListParams.
const (
	NameAsc  = "asc"
	NameDesc = "desc"

	RecencyNewest = "newest"
	RecencyOldest = "oldest"
)

// ListParams contains the pagination and sorting request parameters.
//
// The two sort axes are independent. When a recency axis is requested it
// becomes the primary ordering key and the name axis (ascending unless
// requested otherwise) breaks ties; when no recency axis is requested the
// listing is ordered by name alone.
type ListParams struct {
	Page    int    // 1-based; non-positive coerces to 1
	Name    string // "", NameAsc, or NameDesc (default ascending)
	Recency string // "", RecencyNewest, or RecencyOldest (default newest)
}

// Pagination contains page metadata returned with every listing.
type Pagination struct {
	CurrentPage  int `json:"current_page"`
	ItemsPerPage int `json:"items_per_page"`
	TotalItems   int `json:"total_items"`
	TotalPages   int `json:"total_pages"`
}

// Page contains one window of items plus pagination metadata.
type Page[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// Paginate sorts items by the composite ordering key from params and cuts the
// requested window. A page beyond the last clamps to the last page, so any
// non-empty listing always yields items. TotalPages is zero when no items
// exist.
//
// name and createdAt project the sort keys out of an item.
func Paginate[T any](items []T, params ListParams, name func(T) string, createdAt func(T) time.Time) *Page[T] {
	sorted := make([]T, len(items))
	copy(sorted, items)

	byName := func(a, b T) int {
		c := strings.Compare(name(a), name(b))
		if params.Name == NameDesc {
			return -c
		}
		return c
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if params.Recency != "" {
			at, bt := createdAt(a), createdAt(b)
			if !at.Equal(bt) {
				if params.Recency == RecencyOldest {
					return at.Before(bt)
				}
				return at.After(bt)
			}
		}
		return byName(a, b) < 0
	})

	total := len(sorted)
	totalPages := (total + PageSize - 1) / PageSize

	page := params.Page
	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}
	if totalPages == 0 {
		page = 1
	}

	var window []T
	if total > 0 {
		start := (page - 1) * PageSize
		end := min(start+PageSize, total)
		window = sorted[start:end]
	} else {
		window = []T{}
	}

	return &Page[T]{
		Items: window,
		Pagination: Pagination{
			CurrentPage:  page,
			ItemsPerPage: PageSize,
			TotalItems:   total,
			TotalPages:   totalPages,
		},
	}
}

// PaginateLibraries applies the shared ordering and windowing to libraries.
// Both backends use this so listing semantics cannot drift between them.
func PaginateLibraries(items []*domain.Library, params ListParams) *Page[*domain.Library] {
	return Paginate(items, params,
		func(l *domain.Library) string { return l.Name },
		func(l *domain.Library) time.Time { return l.CreatedAt },
	)
}

// PaginateNotes applies the shared ordering and windowing to notes.
func PaginateNotes(items []*domain.Note, params ListParams) *Page[*domain.Note] {
	return Paginate(items, params,
		func(n *domain.Note) string { return n.Name },
		func(n *domain.Note) time.Time { return n.CreatedAt },
	)
}
