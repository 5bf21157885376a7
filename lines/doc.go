// Package lines extracts candidate structural edges from ranked contours.
//
// The [Extractor] walks each contour's points once, maintaining two parallel
// running-average accumulators: a horizontal segment tracking the mean y and
// a vertical segment tracking the mean x. A point within tolerance of the
// running mean extends the segment; a point beyond it breaks the segment and
// seeds a new one. Segments are then ranked by extent, the span of the
// varying coordinate, which separates real ruled edges from noise.
//
// [ResolveDuplicates] handles the common failure mode where a page edge and
// a nearby scanner-bed artifact are both detected as strong vertical lines:
// candidates clustered within a proximity threshold in both mean-x and
// extent collapse to a single representative chosen by a documented
// side-dependent rule.
package lines
