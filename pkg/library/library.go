package library

import (
	"slices"
	"strings"
)

// Library is an ordered collection of canonical records.
type Library []CanonicalRecord

// Sort orders the library by canonical ID.
func (l Library) Sort() {
	slices.SortStableFunc(l, func(a, b CanonicalRecord) int {
		return strings.Compare(a.CanonicalID, b.CanonicalID)
	})
}

// ByID indexes the library by canonical ID. Later duplicates win.
func (l Library) ByID() map[string]CanonicalRecord {
	index := make(map[string]CanonicalRecord, len(l))
	for _, rec := range l {
		index[rec.CanonicalID] = rec
	}
	return index
}

// TotalHours sums hours across the library.
func (l Library) TotalHours() float64 {
	var total float64
	for _, rec := range l {
		total += rec.Hours()
	}
	return total
}

// TotalHours sums hours across raw records, treating missing values as zero.
func TotalHours(records []RawRecord) float64 {
	var total float64
	for _, rec := range records {
		total += rec.Hours()
	}
	return total
}
