// Package deskew estimates the rotational skew of a scanned page from its
// extracted structural lines.
//
// Each line segment gets a total-least-squares direction fit; the signed
// angle between that direction and the horizontal axis is the segment's raw
// estimate. Vertical-family estimates are folded around +-90 degrees into
// deviations from true vertical. The [Estimator] then merges the family
// averages according to a [Strategy]: horizontal only, vertical only, or the
// equal-weight overall mean of whichever families produced an estimate.
//
// An undefined result means the page has no measurable skew and no rotation
// should be applied.
package deskew
