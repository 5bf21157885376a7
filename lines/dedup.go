package lines

import (
	"math"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/scanbound/folio/internal/logutil"
	"github.com/scanbound/folio/model"
)

// DefaultDuplicateProximity is the pixel distance, in both mean-x and
// extent, within which two vertical candidates are considered the same
// structural edge.
const DefaultDuplicateProximity = 200

// ResolveDuplicates collapses near-duplicate vertical lines detected near
// the same page edge into one. A real page edge and a parallel scanner-bed
// artifact both pass the extent filter; without disambiguation the crop box
// collapses both x bounds onto one side of the page.
//
// If the two strongest candidates have mean-x values within proximity of
// each other, every candidate whose mean-x and extent are both within
// proximity of the strongest forms a duplicate cluster; exactly one
// representative survives. With fewer than two candidates, or with two
// distinct clusters, the input is returned unchanged.
func ResolveDuplicates(verticals []*model.LineSegment, pageWidth, proximity int, logger *logrus.Logger) []*model.LineSegment {
	log := logutil.OrDiscard(logger)

	if len(verticals) < 2 {
		return verticals
	}

	top := verticals[0]
	if math.Abs(top.MeanX()-verticals[1].MeanX()) >= float64(proximity) {
		return verticals
	}

	var duplicates, uniques []*model.LineSegment
	for _, seg := range verticals {
		sameEdge := math.Abs(seg.MeanX()-top.MeanX()) < float64(proximity)
		sameExtent := intAbs(seg.Extent()-top.Extent()) < proximity
		if sameEdge && sameExtent {
			duplicates = append(duplicates, seg)
		} else {
			uniques = append(uniques, seg)
		}
	}

	chosen := pickRepresentative(duplicates, pageWidth)
	log.Debugf("duplicate vertical cluster of %d near x=%.0f, kept x=%.0f",
		len(duplicates), top.MeanX(), chosen.MeanX())

	uniques = append(uniques, chosen)
	SortByExtent(uniques)
	return uniques
}

// pickRepresentative keeps the cluster member structurally farthest from the
// nearer scan-bed rail: when the cluster sits in the left half of the page
// the member with the largest mean-x survives, on the right half the
// smallest.
func pickRepresentative(duplicates []*model.LineSegment, pageWidth int) *model.LineSegment {
	onLeftHalf := leftOfCenter(duplicates[0].MeanX(), pageWidth)

	sorted := make([]*model.LineSegment, len(duplicates))
	copy(sorted, duplicates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MeanX() < sorted[j].MeanX()
	})

	if onLeftHalf {
		return sorted[len(sorted)-1]
	}
	return sorted[0]
}

// leftOfCenter reports whether a mean-x coordinate lies in the left half of
// the page.
func leftOfCenter(meanX float64, pageWidth int) bool {
	return meanX < float64(pageWidth)-meanX
}

func intAbs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
