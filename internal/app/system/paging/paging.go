// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// PageSize is the default number of rows shown in paged lists.
const PageSize = 25

// ParseStart extracts the human-friendly "start" query parameter (1-based index).
// Returns 1 if not present or invalid.
func ParseStart(r *http.Request) int {
	s := query.Get(r, "start")
	if s == "" {
		return 1
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Range holds computed display range values for a paginated list.
type Range struct {
	Start     int // 1-based index of first row shown (0 when empty)
	End       int // 1-based index of last row shown (0 when empty)
	PrevStart int
	NextStart int
}

// Page is one window over an already computed list.
type Page[T any] struct {
	Rows    []T
	Total   int
	HasPrev bool
	HasNext bool
	Range
}

// Slice cuts the window starting at the 1-based start index out of rows.
// A start past the end snaps back to the last full page so a stale link
// never shows an empty table for a non-empty list. rows is not modified.
func Slice[T any](rows []T, start int) Page[T] {
	return sliceWithSize(rows, start, PageSize)
}

func sliceWithSize[T any](rows []T, start, pageSize int) Page[T] {
	total := len(rows)
	if start < 1 {
		start = 1
	}
	if total > 0 && start > total {
		start = ((total-1)/pageSize)*pageSize + 1
	}

	lo := min(start-1, total)
	hi := min(lo+pageSize, total)
	window := rows[lo:hi:hi]

	return Page[T]{
		Rows:    window,
		Total:   total,
		HasPrev: lo > 0,
		HasNext: hi < total,
		Range:   computeRangeWithSize(start, len(window), pageSize),
	}
}

// ComputeRange calculates display range values given the current start index
// and number of items shown.
func ComputeRange(start, shown int) Range {
	return computeRangeWithSize(start, shown, PageSize)
}

func computeRangeWithSize(start, shown, pageSize int) Range {
	if shown == 0 {
		return Range{Start: 0, End: 0, PrevStart: 1, NextStart: 1}
	}

	prevStart := start - pageSize
	if prevStart < 1 {
		prevStart = 1
	}

	return Range{
		Start:     start,
		End:       start + shown - 1,
		PrevStart: prevStart,
		NextStart: start + shown,
	}
}
