package sequence

import (
	"math"
	"sort"

	"github.com/scanbound/folio/model"
)

// Stats computes the field-wise medians per parity class over the non-nil
// values of every page's box. Spatial medians are rounded to integers, the
// angle median stays real. A field with no observations anywhere in its
// class is nil in the result; callers must treat it as "no crop computable"
// for that region.
func Stats(seq model.PageSequence) map[model.Parity]*model.ParityStats {
	type collector struct {
		minX, minY, maxX, maxY []int
		angle                  []float64
	}
	collectors := map[model.Parity]*collector{
		model.Even: {},
		model.Odd:  {},
	}

	for pageNum, box := range seq {
		col := collectors[model.ParityOf(pageNum)]
		if box.MinX != nil {
			col.minX = append(col.minX, *box.MinX)
		}
		if box.MinY != nil {
			col.minY = append(col.minY, *box.MinY)
		}
		if box.MaxX != nil {
			col.maxX = append(col.maxX, *box.MaxX)
		}
		if box.MaxY != nil {
			col.maxY = append(col.maxY, *box.MaxY)
		}
		if box.Angle != nil {
			col.angle = append(col.angle, *box.Angle)
		}
	}

	stats := make(map[model.Parity]*model.ParityStats, 2)
	for parity, col := range collectors {
		stats[parity] = &model.ParityStats{
			MinX:  medianInt(col.minX),
			MinY:  medianInt(col.minY),
			MaxX:  medianInt(col.maxX),
			MaxY:  medianInt(col.maxY),
			Angle: medianFloat(col.angle),
		}
	}
	return stats
}

// medianInt returns the median of values rounded to the nearest integer,
// or nil for empty input. Medians rather than means keep a single bad page
// from skewing the whole class.
func medianInt(values []int) *int {
	if len(values) == 0 {
		return nil
	}
	sorted := make([]int, len(values))
	copy(sorted, values)
	sort.Ints(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return model.Int(sorted[n/2])
	}
	mid := float64(sorted[n/2-1]+sorted[n/2]) / 2
	return model.Int(int(math.Round(mid)))
}

// medianFloat returns the median of values, or nil for empty input.
func medianFloat(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return model.Float(sorted[n/2])
	}
	return model.Float((sorted[n/2-1] + sorted[n/2]) / 2)
}
