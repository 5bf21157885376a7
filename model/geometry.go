package model

import (
	"math"
	"sort"
)

// Point represents a 2D pixel coordinate in image space.
// The origin is the top-left corner; y grows downward.
type Point struct {
	X, Y int
}

// Contour is an ordered closed boundary detected in a thresholded image,
// annotated with the enclosed area used for ranking. Contours are produced
// by an external provider and are not modified once built.
type Contour struct {
	Points []Point
	Area   float64
}

// Orientation tags a line segment as a horizontal or vertical candidate.
type Orientation int

const (
	// Horizontal marks a segment believed to follow a top or bottom edge.
	Horizontal Orientation = iota
	// Vertical marks a segment believed to follow a left or right edge.
	Vertical
)

// String returns "horizontal" or "vertical".
func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// LineSegment is a run of contour points judged to lie along one
// near-straight structural edge. During extraction it carries a running
// average of the stable coordinate: y for horizontal candidates, x for
// vertical candidates.
type LineSegment struct {
	Points      []Point
	Orientation Orientation

	// Avg is the incrementally maintained weighted mean of the stable
	// coordinate. It is the value new points are tested against.
	Avg float64
}

// NewLineSegment starts a segment of the given orientation seeded at p.
func NewLineSegment(o Orientation, p Point) *LineSegment {
	seg := &LineSegment{Orientation: o}
	if o == Horizontal {
		seg.Avg = float64(p.Y)
	} else {
		seg.Avg = float64(p.X)
	}
	seg.Append(p)
	return seg
}

// Append adds a point and updates the running average of the stable
// coordinate with a weighted incremental mean.
func (s *LineSegment) Append(p Point) {
	n := float64(len(s.Points))
	if s.Orientation == Horizontal {
		s.Avg = (n*s.Avg + float64(p.Y)) / (n + 1)
	} else {
		s.Avg = (n*s.Avg + float64(p.X)) / (n + 1)
	}
	s.Points = append(s.Points, p)
}

// Len returns the number of points in the segment.
func (s *LineSegment) Len() int {
	return len(s.Points)
}

// SortPoints orders the points by the varying coordinate: x for horizontal
// segments, y for vertical segments.
func (s *LineSegment) SortPoints() {
	if s.Orientation == Horizontal {
		sort.Slice(s.Points, func(i, j int) bool {
			return s.Points[i].X < s.Points[j].X
		})
	} else {
		sort.Slice(s.Points, func(i, j int) bool {
			return s.Points[i].Y < s.Points[j].Y
		})
	}
}

// Extent returns the span between the first and last point along the varying
// coordinate. It is a proxy for structural significance: long spans look like
// real ruled edges, short ones like noise. Points must already be sorted.
func (s *LineSegment) Extent() int {
	if len(s.Points) == 0 {
		return 0
	}
	first := s.Points[0]
	last := s.Points[len(s.Points)-1]
	if s.Orientation == Horizontal {
		return abs(last.X - first.X)
	}
	return abs(last.Y - first.Y)
}

// MinX returns the smallest x coordinate in the segment.
func (s *LineSegment) MinX() int {
	min := math.MaxInt
	for _, p := range s.Points {
		if p.X < min {
			min = p.X
		}
	}
	return min
}

// MaxX returns the largest x coordinate in the segment.
func (s *LineSegment) MaxX() int {
	max := math.MinInt
	for _, p := range s.Points {
		if p.X > max {
			max = p.X
		}
	}
	return max
}

// MinY returns the smallest y coordinate in the segment.
func (s *LineSegment) MinY() int {
	min := math.MaxInt
	for _, p := range s.Points {
		if p.Y < min {
			min = p.Y
		}
	}
	return min
}

// MaxY returns the largest y coordinate in the segment.
func (s *LineSegment) MaxY() int {
	max := math.MinInt
	for _, p := range s.Points {
		if p.Y > max {
			max = p.Y
		}
	}
	return max
}

// MeanX returns the mean x coordinate across the segment's points.
// It is used to cluster near-duplicate vertical lines.
func (s *LineSegment) MeanX() float64 {
	if len(s.Points) == 0 {
		return 0
	}
	sum := 0
	for _, p := range s.Points {
		sum += p.X
	}
	return float64(sum) / float64(len(s.Points))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
