package model

import "time"

// ProgramSearchCriteria filters programs. Every field is optional.
type ProgramSearchCriteria struct {
	// ProgramName matches as a case-insensitive substring.
	ProgramName string `json:"programName,omitempty"`

	InstitutionID *int64 `json:"institutionId,omitempty"`

	// StartDate keeps programs starting on or after it.
	StartDate *time.Time `json:"startDate,omitempty"`

	// EndDate keeps programs ending on or before it.
	EndDate *time.Time `json:"endDate,omitempty"`
}

// SortOrder is the direction of a paged search.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Paging controls result slicing. A zero PageSize means unpaged.
type Paging struct {
	PageNumber int       `json:"pageNumber"`
	PageSize   int       `json:"pageSize"`
	SortColumn string    `json:"sortColumn,omitempty"`
	SortOrder  SortOrder `json:"sortOrder,omitempty"`
}

// Paged reports whether the search should be sliced.
func (p Paging) Paged() bool {
	return p.PageSize > 0
}

// Offset is the number of rows skipped before the page.
func (p Paging) Offset() int {
	return p.PageNumber * p.PageSize
}

// SearchResult is a page of matched entities plus the unpaged match count.
type SearchResult[T any] struct {
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	Entities   []T   `json:"entities"`
}

// NewSearchResult computes TotalPages from total and paging.
func NewSearchResult[T any](entities []T, total int64, paging Paging) *SearchResult[T] {
	if entities == nil {
		entities = []T{}
	}

	totalPages := 0
	switch {
	case total == 0:
	case paging.Paged():
		totalPages = int((total + int64(paging.PageSize) - 1) / int64(paging.PageSize))
	default:
		totalPages = 1
	}

	return &SearchResult[T]{
		Total:      total,
		TotalPages: totalPages,
		Entities:   entities,
	}
}
