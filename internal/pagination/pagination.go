// Package pagination provides the paged-listing envelope shared by the
// feedback listing queries.
package pagination

// Page wraps one window of a paged listing together with its counts.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalCount int `json:"totalCount"`
	TotalPages int `json:"totalPages"`
}

// New builds a Page from a window of items and the total matching count.
// TotalPages is ceil(totalCount / pageSize); an empty result set has zero
// pages. Clamping of page and pageSize is the caller's concern.
func New[T any](items []T, page, pageSize, totalCount int) Page[T] {
	if items == nil {
		items = []T{}
	}

	totalPages := 0
	if totalCount > 0 && pageSize > 0 {
		totalPages = (totalCount + pageSize - 1) / pageSize
	}

	return Page[T]{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}
}
