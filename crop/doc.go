// Package crop computes per-page crop rectangles from detected structural
// lines.
//
// The x bounds come from the two strongest vertical lines, with a gutter
// heuristic: when the tentative left margin sits closer to the page's right
// half than its raw coordinate suggests, the pair is interpreted as binding
// gutter plus outer margin and the inner line edges bound the content. The y
// bounds span from the upper horizontal line's top extremum to the lower
// line's bottom extremum.
//
// A page without two detected lines on an axis yields a partial box; the
// sequence package resolves such gaps from book-wide parity statistics.
package crop
