//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

// Page is the wire shape of every list response: the rows for the
// requested page plus the total row count across all pages.
type Page[T any] struct {
	Items      []T `json:"items"`
	TotalItems int `json:"totalItems"`
}

// NewPage builds a Page, guaranteeing Items is never nil so callers
// can range without null checks.
func NewPage[T any](items []T, total int) Page[T] {
	if items == nil {
		items = []T{}
	}
	if total < len(items) {
		total = len(items)
	}
	return Page[T]{Items: items, TotalItems: total}
}

// PageCount returns the number of reachable pages for a total and a
// page size. Zero totals yield zero pages.
func PageCount(totalItems, pageSize int) int {
	if pageSize <= 0 || totalItems <= 0 {
		return 0
	}
	return (totalItems + pageSize - 1) / pageSize
}
