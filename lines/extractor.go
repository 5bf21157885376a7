package lines

import (
	"math"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/scanbound/folio/internal/logutil"
	"github.com/scanbound/folio/model"
)

const (
	// MaxPerFamily is how many segments of each family the crop computer
	// consumes: the two strongest horizontals and the two strongest
	// verticals.
	MaxPerFamily = 2

	// MaxVerticalCandidates is how many ranked vertical segments are kept
	// ahead of duplicate resolution. Verticals need the extra headroom
	// because a real page edge and a scanner-bed artifact often both pass
	// the extent filter.
	MaxVerticalCandidates = 5
)

// Extractor turns a ranked list of contours into candidate near-horizontal
// and near-vertical line segments. A single contour (a page's rectangular
// boundary, say) contributes to both families at once.
type Extractor struct {
	// XTolerance is the maximum deviation, in pixels, between a point's x
	// coordinate and a vertical segment's running average before the
	// segment is considered broken.
	XTolerance int

	// YTolerance is the horizontal-family equivalent, tested against y.
	YTolerance int

	log *logrus.Logger
}

// NewExtractor returns an extractor with the given break tolerances.
// A nil logger disables logging.
func NewExtractor(xTolerance, yTolerance int, logger *logrus.Logger) *Extractor {
	return &Extractor{
		XTolerance: xTolerance,
		YTolerance: yTolerance,
		log:        logutil.OrDiscard(logger),
	}
}

// Extract walks every contour and returns the candidate segments of both
// families, each sorted by extent descending. Horizontals are trimmed to
// MaxPerFamily; verticals to MaxVerticalCandidates so that duplicate
// resolution still has alternatives to choose from. Extraction never fails:
// absence of structure degrades to empty output.
func (e *Extractor) Extract(contours []model.Contour) (horizontal, vertical []*model.LineSegment) {
	for _, contour := range contours {
		h, v := e.walk(contour)
		horizontal = append(horizontal, h...)
		vertical = append(vertical, v...)
	}

	for _, seg := range horizontal {
		seg.SortPoints()
	}
	for _, seg := range vertical {
		seg.SortPoints()
	}

	SortByExtent(horizontal)
	SortByExtent(vertical)

	for i, seg := range horizontal[:minInt(len(horizontal), MaxVerticalCandidates)] {
		e.log.Debugf("horizontal candidate %d: extent=%d avg=%.1f points=%d",
			i, seg.Extent(), seg.Avg, seg.Len())
	}
	for i, seg := range vertical[:minInt(len(vertical), MaxVerticalCandidates)] {
		e.log.Debugf("vertical candidate %d: extent=%d avg=%.1f points=%d",
			i, seg.Extent(), seg.Avg, seg.Len())
	}

	if len(horizontal) > MaxPerFamily {
		horizontal = horizontal[:MaxPerFamily]
	}
	if len(vertical) > MaxVerticalCandidates {
		vertical = vertical[:MaxVerticalCandidates]
	}
	return horizontal, vertical
}

// walk runs the two parallel running-average accumulators over one contour.
// A point within tolerance of the current segment's average extends the
// segment and updates the weighted mean; a point beyond tolerance closes the
// segment and seeds a new one.
func (e *Extractor) walk(contour model.Contour) (horizontal, vertical []*model.LineSegment) {
	var hseg, vseg *model.LineSegment

	for _, p := range contour.Points {
		if hseg != nil && math.Abs(hseg.Avg-float64(p.Y)) < float64(e.YTolerance) {
			hseg.Append(p)
		} else {
			hseg = model.NewLineSegment(model.Horizontal, p)
			horizontal = append(horizontal, hseg)
		}

		if vseg != nil && math.Abs(vseg.Avg-float64(p.X)) < float64(e.XTolerance) {
			vseg.Append(p)
		} else {
			vseg = model.NewLineSegment(model.Vertical, p)
			vertical = append(vertical, vseg)
		}
	}
	return horizontal, vertical
}

// SortByExtent orders segments by extent descending, keeping the relative
// order of equal-extent segments stable.
func SortByExtent(segments []*model.LineSegment) {
	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].Extent() > segments[j].Extent()
	})
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
