// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// PageSize is the default number of rows returned by paged lists. The
// stores scan whole keyspaces, so the window is applied in memory after
// the scan; entity counts here are sprint-tool sized, not web scale.
const PageSize = 50

// ParseStart extracts the human-friendly "start" query parameter
// (1-based index). Returns 1 if not present or invalid.
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
	Start     int  `json:"start"`      // 1-based start index (0 if no results)
	End       int  `json:"end"`        // 1-based end index (0 if no results)
	Total     int  `json:"total"`      // total rows before windowing
	PrevStart int  `json:"prev_start"` // start value for previous page link
	NextStart int  `json:"next_start"` // start value for next page link
	HasPrev   bool `json:"has_prev"`
	HasNext   bool `json:"has_next"`
}

// Window cuts rows down to one page beginning at the 1-based start
// index and reports the surrounding range. A start past the end yields
// an empty page rather than an error.
func Window[T any](rows []T, start int) ([]T, Range) {
	return windowWithSize(rows, start, PageSize)
}

func windowWithSize[T any](rows []T, start, pageSize int) ([]T, Range) {
	total := len(rows)
	if start < 1 {
		start = 1
	}

	lo := start - 1
	if lo > total {
		lo = total
	}
	hi := lo + pageSize
	if hi > total {
		hi = total
	}
	page := rows[lo:hi]

	r := Range{Total: total}
	if len(page) > 0 {
		r.Start = lo + 1
		r.End = hi
	}
	r.PrevStart = start - pageSize
	if r.PrevStart < 1 {
		r.PrevStart = 1
	}
	r.NextStart = hi + 1
	r.HasPrev = lo > 0
	r.HasNext = hi < total
	return page, r
}
