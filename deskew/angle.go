package deskew

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/scanbound/folio/internal/logutil"
	"github.com/scanbound/folio/model"
)

// Strategy selects which line family drives the merged skew estimate.
type Strategy string

const (
	// StrategyHorizontal uses only the horizontal-line estimate.
	StrategyHorizontal Strategy = "horizontal"
	// StrategyVertical uses only the vertical-line estimate.
	StrategyVertical Strategy = "vertical"
	// StrategyOverall averages whichever family estimates are defined.
	StrategyOverall Strategy = "overall"
)

// ParseStrategy converts a configuration string to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyHorizontal, StrategyVertical, StrategyOverall:
		return Strategy(s), nil
	}
	return "", fmt.Errorf("unknown rotate strategy %q", s)
}

// Estimator derives a page skew angle from extracted line segments.
type Estimator struct {
	Strategy Strategy

	log *logrus.Logger
}

// NewEstimator returns an estimator using the given merge strategy.
// A nil logger disables logging.
func NewEstimator(strategy Strategy, logger *logrus.Logger) *Estimator {
	return &Estimator{
		Strategy: strategy,
		log:      logutil.OrDiscard(logger),
	}
}

// SegmentAngle fits a best-fit direction through the segment's points and
// returns the signed angle, in degrees, between that direction and the
// horizontal axis. The sign follows the fitted direction's vertical
// component. ok is false for degenerate input (fewer than two distinct
// points).
func SegmentAngle(points []model.Point) (angle float64, ok bool) {
	vx, vy, ok := fitDirection(points)
	if !ok {
		return 0, false
	}

	// Angle between the unit direction and the x axis, signed by vy.
	rad := math.Acos(vx)
	if vy < 0 {
		rad = -rad
	}
	return rad * 180 / math.Pi, true
}

// fitDirection computes the total-least-squares direction through the
// points: the principal axis of the point covariance, normalized so the x
// component is non-negative.
func fitDirection(points []model.Point) (vx, vy float64, ok bool) {
	if len(points) < 2 {
		return 0, 0, false
	}

	var mx, my float64
	for _, p := range points {
		mx += float64(p.X)
		my += float64(p.Y)
	}
	n := float64(len(points))
	mx /= n
	my /= n

	var sxx, syy, sxy float64
	for _, p := range points {
		dx := float64(p.X) - mx
		dy := float64(p.Y) - my
		sxx += dx * dx
		syy += dy * dy
		sxy += dx * dy
	}

	if sxx+syy == 0 {
		return 0, 0, false // all points coincide
	}

	theta := 0.5 * math.Atan2(2*sxy, sxx-syy)
	return math.Cos(theta), math.Sin(theta), true
}

// Estimate merges the horizontal- and vertical-family estimates according to
// the configured strategy. ok is false when the page has no measurable skew:
// no usable lines, or the selected family is empty.
func (e *Estimator) Estimate(horizontal, vertical []*model.LineSegment) (angle float64, ok bool) {
	hAngle, hOK := familyAngle(horizontal, false)
	vAngle, vOK := familyAngle(vertical, true)

	if hOK {
		e.log.Debugf("horizontal skew estimate: %.3f", hAngle)
	}
	if vOK {
		e.log.Debugf("vertical skew estimate: %.3f", vAngle)
	}

	switch e.Strategy {
	case StrategyHorizontal:
		if hOK && hAngle != 0 {
			return hAngle, true
		}
		return 0, false
	case StrategyVertical:
		if vOK {
			return vAngle, true
		}
		return 0, false
	default:
		switch {
		case hOK && vOK:
			return (hAngle + vAngle) / 2, true
		case hOK:
			return hAngle, true
		case vOK:
			return vAngle, true
		}
		return 0, false
	}
}

// familyAngle averages the per-segment estimates within one family.
// Vertical-family angles are folded to a deviation from true vertical; the
// horizontal family uses raw fitted angles directly.
func familyAngle(segments []*model.LineSegment, vertical bool) (float64, bool) {
	var sum float64
	var count int
	for _, seg := range segments {
		a, ok := SegmentAngle(seg.Points)
		if !ok {
			continue
		}
		if vertical {
			a = foldVertical(a)
		}
		sum += a
		count++
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}

// foldVertical converts a raw fitted angle of a near-vertical line to its
// deviation from true vertical by folding around +-90 degrees.
func foldVertical(angle float64) float64 {
	if angle > 0 {
		return angle - 90
	}
	return angle + 90
}
