// Package paging resolves page numbers for the memo list.
package paging

import (
	"strconv"
	"strings"
)

// DefaultSize is the number of memos shown per page.
const DefaultSize = 20

// Page describes a resolved page within a result set.
type Page struct {
	Number      int
	NumPages    int
	Size        int
	Total       int
	HasNext     bool
	HasPrevious bool
}

// ParseNumber converts a raw page parameter into a page number.
// Anything that is not an integer yields 1. Range checks happen in Resolve.
func ParseNumber(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1
	}
	return n
}

// Resolve clamps requested into [1, NumPages] for a result set of total items.
// An empty result set still has one (empty) page.
func Resolve(total, requested, size int) Page {
	if size <= 0 {
		size = DefaultSize
	}
	if total < 0 {
		total = 0
	}
	numPages := (total + size - 1) / size
	if numPages < 1 {
		numPages = 1
	}
	n := requested
	if n < 1 {
		n = 1
	}
	if n > numPages {
		n = numPages
	}
	return Page{
		Number:      n,
		NumPages:    numPages,
		Size:        size,
		Total:       total,
		HasNext:     n < numPages,
		HasPrevious: n > 1,
	}
}

// Offset is the number of rows to skip to reach this page.
func (p Page) Offset() int { return (p.Number - 1) * p.Size }

// NextNumber returns the following page number, or the current one on the last page.
func (p Page) NextNumber() int {
	if p.HasNext {
		return p.Number + 1
	}
	return p.Number
}

// PreviousNumber returns the preceding page number, or 1 on the first page.
func (p Page) PreviousNumber() int {
	if p.HasPrevious {
		return p.Number - 1
	}
	return 1
}
