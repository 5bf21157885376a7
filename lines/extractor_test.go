package lines

import (
	"testing"

	"github.com/scanbound/folio/model"
)

// rectContour traces a rectangular boundary clockwise from the top-left
// corner, one point every step pixels, the way an external contour provider
// reports a page outline.
func rectContour(left, top, right, bottom, step int) model.Contour {
	var pts []model.Point
	for x := left; x <= right; x += step {
		pts = append(pts, model.Point{X: x, Y: top})
	}
	for y := top; y <= bottom; y += step {
		pts = append(pts, model.Point{X: right, Y: y})
	}
	for x := right; x >= left; x -= step {
		pts = append(pts, model.Point{X: x, Y: bottom})
	}
	for y := bottom; y >= top; y -= step {
		pts = append(pts, model.Point{X: left, Y: y})
	}
	area := float64((right - left) * (bottom - top))
	return model.Contour{Points: pts, Area: area}
}

func TestExtractRectangleYieldsBothFamilies(t *testing.T) {
	e := NewExtractor(30, 60, nil)
	contour := rectContour(100, 200, 1900, 2600, 10)

	horizontal, vertical := e.Extract([]model.Contour{contour})

	if len(horizontal) != MaxPerFamily {
		t.Fatalf("expected %d horizontal lines, got %d", MaxPerFamily, len(horizontal))
	}
	if len(vertical) < 2 {
		t.Fatalf("expected at least 2 vertical lines, got %d", len(vertical))
	}

	// The two strongest horizontals are the top and bottom edges.
	for i, seg := range horizontal {
		if seg.Extent() < 1700 {
			t.Errorf("horizontal line %d has extent %d, expected a full edge span", i, seg.Extent())
		}
	}

	// The two strongest verticals are the left and right edges.
	for i, seg := range vertical[:2] {
		if seg.Extent() < 2300 {
			t.Errorf("vertical line %d has extent %d, expected a full edge span", i, seg.Extent())
		}
	}
}

func TestExtractToleranceBreaksSegments(t *testing.T) {
	// A horizontal run that jumps 100px in y midway must split into two
	// segments under a 60px tolerance.
	var pts []model.Point
	for x := 0; x < 500; x += 10 {
		pts = append(pts, model.Point{X: x, Y: 100})
	}
	for x := 500; x < 1000; x += 10 {
		pts = append(pts, model.Point{X: x, Y: 200})
	}

	e := NewExtractor(30, 60, nil)
	horizontal, _ := e.Extract([]model.Contour{{Points: pts}})

	if len(horizontal) != 2 {
		t.Fatalf("expected 2 horizontal segments after a tolerance break, got %d", len(horizontal))
	}
	for _, seg := range horizontal {
		if seg.Extent() < 480 {
			t.Errorf("segment extent %d, want roughly half the run", seg.Extent())
		}
	}
}

func TestExtractRunningAverageAbsorbsJitter(t *testing.T) {
	// Alternating +-20px jitter around y=100 stays within a 60px tolerance,
	// so the run must remain a single segment.
	var pts []model.Point
	for x := 0; x < 1000; x += 10 {
		y := 100
		if (x/10)%2 == 0 {
			y = 120
		}
		pts = append(pts, model.Point{X: x, Y: y})
	}

	e := NewExtractor(30, 60, nil)
	horizontal, _ := e.Extract([]model.Contour{{Points: pts}})

	if len(horizontal) != 1 {
		t.Fatalf("expected jittery run to survive as 1 segment, got %d", len(horizontal))
	}
	if horizontal[0].Extent() != 990 {
		t.Errorf("extent = %d, want 990", horizontal[0].Extent())
	}
}

func TestExtractEmptyInput(t *testing.T) {
	e := NewExtractor(30, 60, nil)

	horizontal, vertical := e.Extract(nil)
	if len(horizontal) != 0 || len(vertical) != 0 {
		t.Error("empty contour list must degrade to empty output")
	}

	horizontal, vertical = e.Extract([]model.Contour{{}})
	if len(horizontal) != 0 || len(vertical) != 0 {
		t.Error("empty contour must degrade to empty output")
	}
}

func TestExtractCapsVerticalCandidates(t *testing.T) {
	// Ten separate vertical runs; extraction must keep only the cap.
	var contours []model.Contour
	for i := 0; i < 10; i++ {
		var pts []model.Point
		for y := 0; y <= 500+i*10; y += 10 {
			pts = append(pts, model.Point{X: i * 300, Y: y})
		}
		contours = append(contours, model.Contour{Points: pts})
	}

	e := NewExtractor(30, 60, nil)
	_, vertical := e.Extract(contours)

	if len(vertical) != MaxVerticalCandidates {
		t.Fatalf("expected %d vertical candidates, got %d", MaxVerticalCandidates, len(vertical))
	}

	// Sorted by extent descending.
	for i := 1; i < len(vertical); i++ {
		if vertical[i].Extent() > vertical[i-1].Extent() {
			t.Fatal("vertical candidates not sorted by extent descending")
		}
	}
}
