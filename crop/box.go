package crop

import (
	"github.com/sirupsen/logrus"

	"github.com/scanbound/folio/internal/logutil"
	"github.com/scanbound/folio/model"
)

// Computer derives a crop box from the two strongest horizontal and two
// strongest vertical lines of a page. Axes without two detected lines are
// left unresolved; the sequence corrector fills them later from book-wide
// statistics.
type Computer struct {
	// PageWidth is the scan width in pixels, used by the gutter heuristic.
	PageWidth int

	log *logrus.Logger
}

// NewComputer returns a crop computer for a page of the given width.
// A nil logger disables logging.
func NewComputer(pageWidth int, logger *logrus.Logger) *Computer {
	return &Computer{
		PageWidth: pageWidth,
		log:       logutil.OrDiscard(logger),
	}
}

// Compute builds a possibly partial crop box. MinX/MaxX are set only when at
// least two vertical lines exist, MinY/MaxY only when at least two
// horizontal lines exist. The ordering invariant (min < max) is preserved: a
// degenerate bound pair leaves the axis unresolved instead.
func (c *Computer) Compute(horizontal, vertical []*model.LineSegment) *model.CropBox {
	box := &model.CropBox{}

	if len(vertical) >= 2 {
		c.xBounds(box, vertical[0], vertical[1])
	}
	if len(horizontal) >= 2 {
		c.yBounds(box, horizontal[0], horizontal[1])
	}

	if !box.Valid() {
		// Should not happen given the guards below; reset rather than
		// hand out an inverted box.
		c.log.Warnf("computed inverted crop box %+v, discarding", box)
		return &model.CropBox{}
	}
	return box
}

// xBounds resolves the left/right margin from the two strongest vertical
// lines. The line with the smaller minX is tentatively the left margin; the
// bound normally runs from its outer (left) edge to the other line's outer
// (right) edge. When the gutter heuristic fires, the pair is read as binding
// gutter plus right margin and the inner edges are used instead.
func (c *Computer) xBounds(box *model.CropBox, l1, l2 *model.LineSegment) {
	a, b := l1, l2
	if b.MinX() < a.MinX() {
		a, b = b, a
	}

	var minX, maxX int
	if isGutterPair(a, b, c.PageWidth) {
		minX, maxX = a.MaxX(), b.MinX()
		c.log.Debugf("gutter heuristic fired: inner x bounds [%d, %d]", minX, maxX)
	} else {
		minX, maxX = a.MinX(), b.MaxX()
	}

	if minX >= maxX {
		return // degenerate pair, leave the axis unresolved
	}
	box.MinX = model.Int(minX)
	box.MaxX = model.Int(maxX)
}

// isGutterPair reports whether the tentative left line is actually closer to
// the page's right half than its raw minX suggests, i.e. both lines sit
// right of center and the "left margin" is really the book's binding gutter.
// In that case the inner edges of the two lines bound the content, not the
// outer ones.
func isGutterPair(a, b *model.LineSegment, pageWidth int) bool {
	return a.MinX() > pageWidth-b.MinX()
}

// yBounds resolves the content band between the two strongest horizontal
// lines: from the structurally upper line's top extremum to the lower line's
// bottom extremum.
func (c *Computer) yBounds(box *model.CropBox, l1, l2 *model.LineSegment) {
	a, b := l1, l2
	if b.MinY() < a.MinY() {
		a, b = b, a
	}

	minY, maxY := a.MinY(), b.MaxY()
	if minY >= maxY {
		return
	}
	box.MinY = model.Int(minY)
	box.MaxY = model.Int(maxY)
}
