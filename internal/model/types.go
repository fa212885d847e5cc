package model

import "time"

// Memo is a titled text note with zero or more tags.
type Memo struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
	Tags      []string  `json:"tags"`
}

// Tag is a normalized label. Name is its identity.
type Tag struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Sort keys accepted by the list view.
const (
	SortNew   = "new"
	SortOld   = "old"
	SortTitle = "title"
)

// ListQuery captures the filters used when listing memos.
// Page is 1-based; stores clamp it against the filtered count.
type ListQuery struct {
	Query    string
	Tag      string
	Sort     string
	Page     int
	PageSize int
}

// MemoPage is one page of a filtered, ordered memo listing.
type MemoPage struct {
	Memos       []*Memo `json:"memos"`
	Total       int     `json:"count"`
	Number      int     `json:"page"`
	NumPages    int     `json:"numPages"`
	HasNext     bool    `json:"hasNext"`
	HasPrevious bool    `json:"hasPrevious"`
}

// NormalizeSort maps a raw sort parameter onto a known key, defaulting to SortNew.
func NormalizeSort(s string) string {
	switch s {
	case SortOld, SortTitle:
		return s
	default:
		return SortNew
	}
}
