package crop

import (
	"testing"

	"github.com/scanbound/folio/model"
)

func vseg(x, y1, y2 int) *model.LineSegment {
	seg := &model.LineSegment{Orientation: model.Vertical}
	for y := y1; y <= y2; y += 10 {
		seg.Points = append(seg.Points, model.Point{X: x, Y: y})
	}
	seg.SortPoints()
	return seg
}

func hseg(y, x1, x2 int) *model.LineSegment {
	seg := &model.LineSegment{Orientation: model.Horizontal}
	for x := x1; x <= x2; x += 10 {
		seg.Points = append(seg.Points, model.Point{X: x, Y: y})
	}
	seg.SortPoints()
	return seg
}

func TestComputeFullBox(t *testing.T) {
	c := NewComputer(2000, nil)

	horizontal := []*model.LineSegment{hseg(200, 100, 1900), hseg(2600, 100, 1900)}
	vertical := []*model.LineSegment{vseg(100, 200, 2600), vseg(1900, 200, 2600)}

	box := c.Compute(horizontal, vertical)

	if !box.Complete() {
		t.Fatalf("expected a complete box, got %+v", box)
	}
	if *box.MinX != 100 || *box.MaxX != 1900 {
		t.Errorf("x bounds = [%d, %d], want [100, 1900]", *box.MinX, *box.MaxX)
	}
	if *box.MinY != 200 || *box.MaxY != 2600 {
		t.Errorf("y bounds = [%d, %d], want [200, 2600]", *box.MinY, *box.MaxY)
	}
	if !box.Valid() {
		t.Error("box violates the ordering invariant")
	}
}

func TestComputeLineOrderDoesNotMatter(t *testing.T) {
	c := NewComputer(2000, nil)

	// Same edges, reversed rank order.
	horizontal := []*model.LineSegment{hseg(2600, 100, 1900), hseg(200, 100, 1900)}
	vertical := []*model.LineSegment{vseg(1900, 200, 2600), vseg(100, 200, 2600)}

	box := c.Compute(horizontal, vertical)
	if !box.Complete() || *box.MinX != 100 || *box.MaxX != 1900 || *box.MinY != 200 || *box.MaxY != 2600 {
		t.Errorf("bounds must be independent of line rank order, got %+v", box)
	}
}

func TestComputeGutterSwap(t *testing.T) {
	// Both verticals sit in the right half of a 2000px scan: the tentative
	// left margin at x=1200 is really the binding gutter (1200 > 2000-1400),
	// so the inner edges bound the content.
	c := NewComputer(2000, nil)

	vertical := []*model.LineSegment{vseg(1200, 0, 2500), vseg(1400, 0, 2500)}

	box := c.Compute(nil, vertical)

	if !box.HasXBounds() {
		t.Fatal("expected x bounds")
	}
	if *box.MinX != 1200 || *box.MaxX != 1400 {
		t.Errorf("gutter-swapped bounds = [%d, %d], want inner edges [1200, 1400]", *box.MinX, *box.MaxX)
	}
}

func TestComputeNoGutterSwapOnNormalPage(t *testing.T) {
	c := NewComputer(2000, nil)

	// Left margin at 150, right margin at 1850: 150 <= 2000-1850, no swap.
	vertical := []*model.LineSegment{vseg(150, 0, 2500), vseg(1850, 0, 2500)}

	box := c.Compute(nil, vertical)
	if *box.MinX != 150 || *box.MaxX != 1850 {
		t.Errorf("bounds = [%d, %d], want outer edges [150, 1850]", *box.MinX, *box.MaxX)
	}
}

func TestComputePartialBoxes(t *testing.T) {
	c := NewComputer(2000, nil)

	tests := []struct {
		name       string
		horizontal []*model.LineSegment
		vertical   []*model.LineSegment
		wantX      bool
		wantY      bool
	}{
		{"no lines", nil, nil, false, false},
		{"one of each", []*model.LineSegment{hseg(200, 0, 1000)}, []*model.LineSegment{vseg(100, 0, 1000)}, false, false},
		{"verticals only", nil, []*model.LineSegment{vseg(100, 0, 1000), vseg(1900, 0, 1000)}, true, false},
		{"horizontals only", []*model.LineSegment{hseg(200, 0, 1000), hseg(2600, 0, 1000)}, nil, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			box := c.Compute(tt.horizontal, tt.vertical)
			if box.HasXBounds() != tt.wantX {
				t.Errorf("HasXBounds() = %v, want %v", box.HasXBounds(), tt.wantX)
			}
			if box.HasYBounds() != tt.wantY {
				t.Errorf("HasYBounds() = %v, want %v", box.HasYBounds(), tt.wantY)
			}
			if !box.Valid() {
				t.Error("partial box violates the ordering invariant")
			}
		})
	}
}

func TestComputeDegeneratePairLeavesAxisUnresolved(t *testing.T) {
	c := NewComputer(2000, nil)

	// Two detections of the same edge: outer bounds would collapse.
	vertical := []*model.LineSegment{vseg(500, 0, 1000), vseg(500, 0, 1000)}

	box := c.Compute(nil, vertical)
	if box.HasXBounds() {
		t.Errorf("degenerate vertical pair must leave x unresolved, got [%d, %d]", *box.MinX, *box.MaxX)
	}
}
