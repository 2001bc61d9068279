// Package model holds the records persisted by the repositories and
// returned by the API. Optional columns are pointers.
package model

// Page selects a slice of a newest-first listing. Both fields start at 1.
type Page struct {
	Number     int
	NumRecords int
}

// Offset is the number of rows skipped before this page.
func (p Page) Offset() int {
	if p.Number < 1 {
		return 0
	}
	return (p.Number - 1) * p.NumRecords
}

// Count is the body of every count endpoint.
type Count struct {
	Count int64 `json:"count"`
}
