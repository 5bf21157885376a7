package deskew

import (
	"math"
	"testing"

	"github.com/scanbound/folio/model"
)

// slopedH builds a horizontal-candidate segment along y = x*tan(deg).
func slopedH(deg float64) *model.LineSegment {
	seg := &model.LineSegment{Orientation: model.Horizontal}
	slope := math.Tan(deg * math.Pi / 180)
	for x := 0; x <= 9000; x += 500 {
		y := int(math.Round(float64(x) * slope))
		seg.Points = append(seg.Points, model.Point{X: x, Y: y})
	}
	return seg
}

// slopedV builds a vertical-candidate segment whose deviation from true
// vertical is deg (positive deviation leans with x growing along y).
func slopedV(deg float64) *model.LineSegment {
	seg := &model.LineSegment{Orientation: model.Vertical}
	slope := math.Tan(deg * math.Pi / 180)
	for y := 0; y <= 9000; y += 500 {
		x := int(math.Round(float64(y) * slope))
		seg.Points = append(seg.Points, model.Point{X: x, Y: y})
	}
	return seg
}

func TestSegmentAngle(t *testing.T) {
	tests := []struct {
		name   string
		points []model.Point
		want   float64
		ok     bool
	}{
		{"flat", []model.Point{{X: 0, Y: 100}, {X: 500, Y: 100}, {X: 1000, Y: 100}}, 0, true},
		{"45 degrees down", []model.Point{{X: 0, Y: 0}, {X: 100, Y: 100}, {X: 200, Y: 200}}, 45, true},
		{"45 degrees up", []model.Point{{X: 0, Y: 200}, {X: 100, Y: 100}, {X: 200, Y: 0}}, -45, true},
		{"true vertical", []model.Point{{X: 100, Y: 0}, {X: 100, Y: 500}, {X: 100, Y: 1000}}, 90, true},
		{"single point", []model.Point{{X: 5, Y: 5}}, 0, false},
		{"coincident points", []model.Point{{X: 5, Y: 5}, {X: 5, Y: 5}}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SegmentAngle(tt.points)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && math.Abs(got-tt.want) > 0.01 {
				t.Errorf("SegmentAngle() = %.3f, want %.3f", got, tt.want)
			}
		})
	}
}

func TestSegmentAngleSmallSkew(t *testing.T) {
	got, ok := SegmentAngle(slopedH(2.0).Points)
	if !ok {
		t.Fatal("expected a defined angle")
	}
	if math.Abs(got-2.0) > 0.05 {
		t.Errorf("SegmentAngle() = %.3f, want ~2.0", got)
	}
}

func TestEstimateMergeModes(t *testing.T) {
	horizontal := []*model.LineSegment{slopedH(2.0)}
	// A vertical line leaning so its raw fitted angle is ~+89 folds to a
	// deviation of ~-1.
	vertical := []*model.LineSegment{slopedV(1.0)}

	tests := []struct {
		strategy Strategy
		want     float64
	}{
		{StrategyOverall, 0.5},
		{StrategyHorizontal, 2.0},
		{StrategyVertical, -1.0},
	}

	for _, tt := range tests {
		t.Run(string(tt.strategy), func(t *testing.T) {
			e := NewEstimator(tt.strategy, nil)
			got, ok := e.Estimate(horizontal, vertical)
			if !ok {
				t.Fatal("expected a defined merged angle")
			}
			if math.Abs(got-tt.want) > 0.05 {
				t.Errorf("Estimate() = %.3f, want %.3f", got, tt.want)
			}
		})
	}
}

func TestEstimateOverallFallsBackToSingleFamily(t *testing.T) {
	e := NewEstimator(StrategyOverall, nil)

	got, ok := e.Estimate([]*model.LineSegment{slopedH(1.5)}, nil)
	if !ok || math.Abs(got-1.5) > 0.05 {
		t.Errorf("Estimate() with only horizontals = %.3f, %v; want ~1.5, true", got, ok)
	}

	got, ok = e.Estimate(nil, []*model.LineSegment{slopedV(0.8)})
	if !ok || math.Abs(got-(-0.8)) > 0.05 {
		t.Errorf("Estimate() with only verticals = %.3f, %v; want ~-0.8, true", got, ok)
	}

	if _, ok := e.Estimate(nil, nil); ok {
		t.Error("no lines must mean no measurable skew")
	}
}

func TestEstimateHorizontalStrategyRejectsZero(t *testing.T) {
	e := NewEstimator(StrategyHorizontal, nil)

	flat := &model.LineSegment{
		Orientation: model.Horizontal,
		Points:      []model.Point{{X: 0, Y: 100}, {X: 1000, Y: 100}},
	}
	if _, ok := e.Estimate([]*model.LineSegment{flat}, nil); ok {
		t.Error("a zero horizontal estimate must not trigger a rotation")
	}
}

func TestParseStrategy(t *testing.T) {
	for _, s := range []string{"horizontal", "vertical", "overall"} {
		if _, err := ParseStrategy(s); err != nil {
			t.Errorf("ParseStrategy(%q) returned error: %v", s, err)
		}
	}
	if _, err := ParseStrategy("diagonal"); err == nil {
		t.Error("expected error for unknown strategy")
	}
}

func TestFoldVertical(t *testing.T) {
	if got := foldVertical(89); got != -1 {
		t.Errorf("foldVertical(89) = %f, want -1", got)
	}
	if got := foldVertical(-88); got != 2 {
		t.Errorf("foldVertical(-88) = %f, want 2", got)
	}
	if got := foldVertical(90); got != 0 {
		t.Errorf("foldVertical(90) = %f, want 0", got)
	}
}
