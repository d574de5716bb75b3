package domain

import (
	"fmt"
	"strings"
)

const (
	// MinYear and MaxYear bound every year range accepted from users.
	MinYear = 1950
	MaxYear = 2025
)

// SearchQuery is the user's keyword plus filters.
type SearchQuery struct {
	Keyword  string
	Court    string
	YearFrom int
	YearTo   int
	District string
	IPCOnly  bool
	Page     int
}

// NewSearchQuery returns a query with the default filters for keyword.
func NewSearchQuery(keyword string) SearchQuery {
	return SearchQuery{
		Keyword:  strings.TrimSpace(keyword),
		Court:    AllCourts,
		YearFrom: MinYear,
		YearTo:   MaxYear,
	}
}

// Normalize trims text fields, fills defaults and drops the district when no
// specific court is selected.
func (q SearchQuery) Normalize() SearchQuery {
	q.Keyword = strings.TrimSpace(q.Keyword)
	q.Court = strings.TrimSpace(q.Court)
	q.District = strings.TrimSpace(q.District)
	if q.Court == "" {
		q.Court = AllCourts
	}
	if q.YearFrom == 0 {
		q.YearFrom = MinYear
	}
	if q.YearTo == 0 {
		q.YearTo = MaxYear
	}
	if strings.EqualFold(q.District, "all") {
		q.District = ""
	}
	if q.AllCourts() {
		q.District = ""
	}
	if q.Page < 0 {
		q.Page = 0
	}
	return q
}

// AllCourts reports whether the court filter is the "All Courts" sentinel.
func (q SearchQuery) AllCourts() bool {
	return strings.EqualFold(q.Court, AllCourts)
}

// Validate rejects empty keywords, unknown courts and out-of-range years.
func (q SearchQuery) Validate() error {
	if strings.TrimSpace(q.Keyword) == "" {
		return &ValidationError{Field: "keyword", Reason: "must not be empty"}
	}
	if !IsKnownCourt(q.Court) {
		return &ValidationError{Field: "court", Reason: fmt.Sprintf("unknown court %q", q.Court)}
	}
	if q.YearFrom < MinYear || q.YearFrom > MaxYear {
		return &ValidationError{Field: "yearFrom", Reason: fmt.Sprintf("must be within [%d,%d]", MinYear, MaxYear)}
	}
	if q.YearTo < MinYear || q.YearTo > MaxYear {
		return &ValidationError{Field: "yearTo", Reason: fmt.Sprintf("must be within [%d,%d]", MinYear, MaxYear)}
	}
	if q.YearFrom > q.YearTo {
		return &ValidationError{Field: "yearFrom", Reason: "must not exceed yearTo"}
	}
	return nil
}

// WithKeyword returns a copy of the query searching for keyword instead.
func (q SearchQuery) WithKeyword(keyword string) SearchQuery {
	q.Keyword = keyword
	return q
}
