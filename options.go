package folio

import (
	"runtime"

	"github.com/sirupsen/logrus"

	"github.com/scanbound/folio/deskew"
	"github.com/scanbound/folio/lines"
	"github.com/scanbound/folio/sequence"
)

// Dewarper is an opaque external transform applied to a written page image,
// in place, after rotation and cropping. De-warping of physically curved
// pages is outside the estimation core; callers plug in their own.
type Dewarper func(imagePath string) error

// Options holds the full configuration surface of the estimation pipeline.
// Every threshold the algorithms use is a named field here rather than an
// inline constant, and the logger travels with the options instead of
// living in package state.
type Options struct {
	// XTolerance is the maximum pixel deviation between a point and a
	// vertical segment's running average before the segment breaks.
	XTolerance int

	// YTolerance is the horizontal-segment equivalent.
	YTolerance int

	// MaxContours bounds how many ranked contours are examined per page.
	MaxContours int

	// RotateStrategy selects which line family drives the skew estimate.
	RotateStrategy deskew.Strategy

	// MaxFirstDeviation, MaxDriftDeviation, and SizeDriftGuard are the
	// whole-book correction thresholds; see the sequence package.
	MaxFirstDeviation int
	MaxDriftDeviation int
	SizeDriftGuard    int

	// DuplicateProximity is the clustering distance for near-duplicate
	// vertical lines.
	DuplicateProximity int

	// Pages restricts processing to these page numbers. Nil means all.
	Pages []int

	// Workers bounds the per-page estimation pool. Page estimation is
	// pure and independent across pages; correction stays sequential.
	Workers int

	// ResizeFactor scales written output images. Zero means no resizing.
	ResizeFactor float64

	// DeskewOnly writes rotated but uncropped output images.
	DeskewOnly bool

	// Dewarper, when set, runs on every written page image.
	Dewarper Dewarper

	// Logger receives pipeline diagnostics. Nil disables logging.
	Logger *logrus.Logger
}

// DefaultOptions returns the standard tolerances and thresholds.
func DefaultOptions() Options {
	return Options{
		XTolerance:         30,
		YTolerance:         60,
		MaxContours:        5,
		RotateStrategy:     deskew.StrategyVertical,
		MaxFirstDeviation:  sequence.DefaultMaxFirstDeviation,
		MaxDriftDeviation:  sequence.DefaultMaxDriftDeviation,
		SizeDriftGuard:     sequence.DefaultSizeDriftGuard,
		DuplicateProximity: lines.DefaultDuplicateProximity,
		Workers:            runtime.NumCPU(),
	}
}

// clone creates a copy of the options with the pages slice deep-copied.
func (o Options) clone() Options {
	out := o
	if o.Pages != nil {
		out.Pages = make([]int, len(o.Pages))
		copy(out.Pages, o.Pages)
	}
	return out
}
