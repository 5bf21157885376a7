// Package folio normalizes the geometry of raster scans of book pages:
// it finds each page's structural edges, estimates and corrects rotational
// skew, computes a crop rectangle isolating the true page content, and
// removes outliers across a whole book by exploiting the consistent,
// mirrored margins of alternating recto/verso pages.
//
// Basic usage:
//
//	boxes, err := folio.OpenDir("scans/").Boxes()
//	if err != nil {
//	    // handle error
//	}
//
// With options:
//
//	boxes, err := folio.OpenDir("scans/").
//	    MaxContours(5).
//	    RotateStrategy(deskew.StrategyOverall).
//	    Workers(4).
//	    Boxes()
//
// The lower-level estimation functions [ComputePageBox] and
// [CorrectSequence] are also available for callers that bring their own
// contour provider.
package folio

import (
	"github.com/scanbound/folio/crop"
	"github.com/scanbound/folio/deskew"
	"github.com/scanbound/folio/lines"
	"github.com/scanbound/folio/model"
	"github.com/scanbound/folio/sequence"
)

// OpenDir opens a directory of scanned page images and returns a Processor
// for fluent configuration. Nothing is read until a terminal operation runs.
//
// Example:
//
//	boxes, err := folio.OpenDir("scans/").Boxes()
func OpenDir(dir string) *Processor {
	return &Processor{
		dir:     dir,
		options: DefaultOptions(),
	}
}

// ComputePageBox runs the per-page estimation pipeline on one page's ranked
// contours: line extraction, duplicate vertical resolution, crop-box
// computation, and skew estimation. The result may be partial; axes without
// two detected lines stay unresolved, and a page with no measurable skew has
// a nil angle. Malformed input (no contours, non-positive page width)
// degrades to the maximally-null box. The function never fails.
func ComputePageBox(contours []model.Contour, pageWidth int, opts Options) *model.CropBox {
	if pageWidth <= 0 || len(contours) == 0 {
		return &model.CropBox{}
	}
	if opts.MaxContours > 0 && len(contours) > opts.MaxContours {
		contours = contours[:opts.MaxContours]
	}

	extractor := lines.NewExtractor(opts.XTolerance, opts.YTolerance, opts.Logger)
	horizontal, vertical := extractor.Extract(contours)

	vertical = lines.ResolveDuplicates(vertical, pageWidth, opts.DuplicateProximity, opts.Logger)
	if len(vertical) > lines.MaxPerFamily {
		vertical = vertical[:lines.MaxPerFamily]
	}

	box := crop.NewComputer(pageWidth, opts.Logger).Compute(horizontal, vertical)

	estimator := deskew.NewEstimator(opts.RotateStrategy, opts.Logger)
	if angle, ok := estimator.Estimate(horizontal, vertical); ok {
		box.Angle = model.Float(angle)
	}
	return box
}

// CorrectSequence rewrites a whole book's crop boxes in place, pulling
// outliers toward their parity class's running consensus. See the sequence
// package for the algorithm.
func CorrectSequence(seq model.PageSequence, opts Options) {
	corrector := sequence.NewCorrector(opts.Logger)
	corrector.MaxFirstDeviation = opts.MaxFirstDeviation
	corrector.MaxDriftDeviation = opts.MaxDriftDeviation
	corrector.SizeDriftGuard = opts.SizeDriftGuard
	corrector.Correct(seq)
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
