package sequence

import (
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/scanbound/folio/internal/logutil"
	"github.com/scanbound/folio/model"
)

// Default thresholds for the whole-book correction pass.
const (
	// DefaultMaxFirstDeviation bounds how far the first page of a parity
	// class may sit from its class median before it is clamped to it.
	DefaultMaxFirstDeviation = 250

	// DefaultMaxDriftDeviation bounds how far later pages may drift from
	// the class median before a bound is pulled back to the previous
	// corrected box.
	DefaultMaxDriftDeviation = 200

	// DefaultSizeDriftGuard is the width/height budget within which a page
	// still counts as the class's trim size. Pages outside it are
	// legitimate size exceptions and are never drift-corrected.
	DefaultSizeDriftGuard = 100
)

// Corrector removes outliers from a book's crop boxes using per-parity
// statistics and two carry-forward chains, one per parity class. It mutates
// the page sequence in place and never aborts: pages without usable data
// degrade to "carry forward or use median".
type Corrector struct {
	MaxFirstDeviation int
	MaxDriftDeviation int
	SizeDriftGuard    int

	log *logrus.Logger
}

// NewCorrector returns a corrector with the default thresholds.
// A nil logger disables logging.
func NewCorrector(logger *logrus.Logger) *Corrector {
	return &Corrector{
		MaxFirstDeviation: DefaultMaxFirstDeviation,
		MaxDriftDeviation: DefaultMaxDriftDeviation,
		SizeDriftGuard:    DefaultSizeDriftGuard,
		log:               logutil.OrDiscard(logger),
	}
}

// Correct runs the two-pass correction: parity statistics first, then a
// sequential sweep in page order maintaining one last-corrected box per
// parity class. The reference width/height used by the drift guard is
// parity-specific.
func (c *Corrector) Correct(seq model.PageSequence) {
	stats := Stats(seq)
	last := map[model.Parity]*model.CropBox{}

	for _, pageNum := range seq.PageNumbers() {
		box := seq[pageNum]
		parity := model.ParityOf(pageNum)

		var changed bool
		if prev := last[parity]; prev == nil {
			changed = c.clampFirst(box, stats[parity])
		} else {
			changed = c.correctDrift(box, prev, stats[parity])
		}
		if changed {
			c.log.Infof("corrected crop box for page %d (%s): %s",
				pageNum, parity, formatBox(box))
		}

		last[parity] = box
	}
}

// clampFirst handles the first page of a parity class: every spatial field
// that is missing or deviates from its class median by more than
// MaxFirstDeviation is replaced by the median. Any replacement also resets
// the angle to the class median angle.
func (c *Corrector) clampFirst(box *model.CropBox, st *model.ParityStats) bool {
	var changed bool
	box.MinX, changed = c.clampField(box.MinX, st.MinX, changed)
	box.MinY, changed = c.clampField(box.MinY, st.MinY, changed)
	box.MaxX, changed = c.clampField(box.MaxX, st.MaxX, changed)
	box.MaxY, changed = c.clampField(box.MaxY, st.MaxY, changed)

	if changed && st.Angle != nil {
		box.Angle = model.Float(*st.Angle)
	}
	return changed
}

func (c *Corrector) clampField(value, median *int, changed bool) (*int, bool) {
	if median == nil {
		// No observations for this field in the whole class; the region
		// stays uncroppable rather than defaulting to the full image.
		return value, changed
	}
	if value == nil || intAbs(*value-*median) > c.MaxFirstDeviation {
		return model.Int(*median), true
	}
	return value, changed
}

// correctDrift handles every later page of a parity class. Missing fields
// fill from the previous corrected box. Then, independently per axis, a
// bound that drifted from the class median beyond MaxDriftDeviation is
// pulled back to the previous box's value, but only when the page's own
// width/height matches the class reference within SizeDriftGuard: a page
// whose size genuinely differs is a trim-size exception and is left alone.
func (c *Corrector) correctDrift(box, prev *model.CropBox, st *model.ParityStats) bool {
	carryForward(box, prev)

	var changed bool

	if refW, ok := st.RefWidth(); ok {
		if w, wok := box.Width(); wok && intAbs(w-refW) <= c.SizeDriftGuard {
			box.MinX, changed = c.driftField(box.MinX, st.MinX, prev.MinX, changed)
			box.MaxX, changed = c.driftField(box.MaxX, st.MaxX, prev.MaxX, changed)
		}
	}
	if refH, ok := st.RefHeight(); ok {
		if h, hok := box.Height(); hok && intAbs(h-refH) <= c.SizeDriftGuard {
			box.MinY, changed = c.driftField(box.MinY, st.MinY, prev.MinY, changed)
			box.MaxY, changed = c.driftField(box.MaxY, st.MaxY, prev.MaxY, changed)
		}
	}

	if changed && st.Angle != nil {
		box.Angle = model.Float(*st.Angle)
	}
	return changed
}

func (c *Corrector) driftField(value, median, prevValue *int, changed bool) (*int, bool) {
	if value == nil || median == nil || prevValue == nil {
		return value, changed
	}
	if intAbs(*value-*median) > c.MaxDriftDeviation {
		return model.Int(*prevValue), true
	}
	return value, changed
}

// carryForward fills missing spatial fields from the previous corrected box
// of the same parity.
func carryForward(box, prev *model.CropBox) {
	if box.MinX == nil && prev.MinX != nil {
		box.MinX = model.Int(*prev.MinX)
	}
	if box.MinY == nil && prev.MinY != nil {
		box.MinY = model.Int(*prev.MinY)
	}
	if box.MaxX == nil && prev.MaxX != nil {
		box.MaxX = model.Int(*prev.MaxX)
	}
	if box.MaxY == nil && prev.MaxY != nil {
		box.MaxY = model.Int(*prev.MaxY)
	}
}

func formatBox(b *model.CropBox) string {
	f := func(v *int) string {
		if v == nil {
			return "-"
		}
		return strconv.Itoa(*v)
	}
	return fmt.Sprintf("[%s %s %s %s]", f(b.MinX), f(b.MinY), f(b.MaxX), f(b.MaxY))
}

func intAbs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
