package entity

import "math"

// PageResult is one page of a sorted result set plus the metadata needed to
// render page links.
type PageResult[T any] struct {
	Items      []T
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// NewPageResult normalizes page numbers and computes the page count.
func NewPageResult[T any](items []T, total, page, pageSize int) PageResult[T] {
	page = ClampPage(page, pageSize)
	pages := 0
	if pageSize > 0 {
		pages = (total + pageSize - 1) / pageSize
	}
	if items == nil {
		items = []T{}
	}
	return PageResult[T]{Items: items, Total: total, Page: page, PageSize: pageSize, TotalPages: pages}
}

func (p PageResult[T]) HasPrev() bool { return p.Page > 1 }
func (p PageResult[T]) HasNext() bool { return p.Page < p.TotalPages }
func (p PageResult[T]) PrevPage() int { return p.Page - 1 }
func (p PageResult[T]) NextPage() int { return p.Page + 1 }

// Pages lists every page number, for link rendering.
func (p PageResult[T]) Pages() []int {
	out := make([]int, p.TotalPages)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

// ClampPage keeps page within 1 and the last page whose offset still fits
// in an int.
func ClampPage(page, pageSize int) int {
	if page < 1 {
		return 1
	}
	if pageSize > 0 && page > math.MaxInt/pageSize {
		return math.MaxInt / pageSize
	}
	return page
}

// Offset is the zero-based index of the first item on the page. It is never
// negative.
func Offset(page, pageSize int) int {
	if pageSize < 0 {
		pageSize = 0
	}
	return (ClampPage(page, pageSize) - 1) * pageSize
}

// From is the 1-based position of the first item shown, or 0 when empty.
func (p PageResult[T]) From() int {
	if len(p.Items) == 0 {
		return 0
	}
	return Offset(p.Page, p.PageSize) + 1
}

// To is the 1-based position of the last item shown, or 0 when empty.
func (p PageResult[T]) To() int {
	if len(p.Items) == 0 {
		return 0
	}
	return Offset(p.Page, p.PageSize) + len(p.Items)
}
