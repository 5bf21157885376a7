package model

import "sort"

// Parity identifies the recto/verso class of a page. Scanned books alternate
// odd and even pages with consistent, mirrored margins, so statistics are
// kept per class rather than book-wide.
type Parity int

const (
	// Even covers even-numbered pages.
	Even Parity = iota
	// Odd covers odd-numbered pages.
	Odd
)

// String returns "even" or "odd".
func (p Parity) String() string {
	if p == Odd {
		return "odd"
	}
	return "even"
}

// ParityOf returns the parity class of a 1-based page number.
func ParityOf(pageNum int) Parity {
	if pageNum%2 == 0 {
		return Even
	}
	return Odd
}

// PageSequence maps 1-based page numbers to crop boxes for one book.
// The sequence corrector mutates the boxes in place; afterwards they are
// treated as immutable input to cropping and rotation.
type PageSequence map[int]*CropBox

// PageNumbers returns the page numbers in increasing order.
func (s PageSequence) PageNumbers() []int {
	nums := make([]int, 0, len(s))
	for n := range s {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}

// ParityStats holds the field-wise medians for one parity class, computed
// over the non-nil values across all pages of the class. Spatial medians are
// rounded to integers; the angle median is kept real. Fields with no
// observations in the whole class stay nil.
type ParityStats struct {
	MinX  *int
	MinY  *int
	MaxX  *int
	MaxY  *int
	Angle *float64
}

// RefWidth returns the reference content width (median MaxX - median MinX)
// for the class. ok is false when either median is missing.
func (st *ParityStats) RefWidth() (int, bool) {
	if st.MinX == nil || st.MaxX == nil {
		return 0, false
	}
	return *st.MaxX - *st.MinX, true
}

// RefHeight returns the reference content height (median MaxY - median MinY)
// for the class. ok is false when either median is missing.
func (st *ParityStats) RefHeight() (int, bool) {
	if st.MinY == nil || st.MaxY == nil {
		return 0, false
	}
	return *st.MaxY - *st.MinY, true
}
