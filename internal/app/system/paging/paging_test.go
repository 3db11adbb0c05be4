package paging

import (
	"net/http/httptest"
	"testing"
)

func ints(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestParseStart(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"", 1},
		{"start=1", 1},
		{"start=51", 51},
		{"start=0", 1},
		{"start=-5", 1},
		{"start=abc", 1},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/?"+tt.query, nil)
			if got := ParseStart(r); got != tt.want {
				t.Errorf("ParseStart(%q) = %d, want %d", tt.query, got, tt.want)
			}
		})
	}
}

func TestWindow(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		start     int
		wantLen   int
		wantRange Range
	}{
		{"empty", 0, 1, 0,
			Range{Start: 0, End: 0, Total: 0, PrevStart: 1, NextStart: 1}},
		{"single short page", 10, 1, 10,
			Range{Start: 1, End: 10, Total: 10, PrevStart: 1, NextStart: 11}},
		{"first of many", 120, 1, PageSize,
			Range{Start: 1, End: 50, Total: 120, PrevStart: 1, NextStart: 51, HasNext: true}},
		{"middle page", 120, 51, PageSize,
			Range{Start: 51, End: 100, Total: 120, PrevStart: 1, NextStart: 101, HasPrev: true, HasNext: true}},
		{"last partial page", 120, 101, 20,
			Range{Start: 101, End: 120, Total: 120, PrevStart: 51, NextStart: 121, HasPrev: true}},
		{"start past end", 10, 99, 0,
			Range{Start: 0, End: 0, Total: 10, PrevStart: 49, NextStart: 11, HasPrev: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, got := Window(ints(tt.total), tt.start)
			if len(page) != tt.wantLen {
				t.Errorf("page length = %d, want %d", len(page), tt.wantLen)
			}
			if got != tt.wantRange {
				t.Errorf("range = %+v, want %+v", got, tt.wantRange)
			}
		})
	}
}
