// Package sequence performs the whole-book correction pass over per-page
// crop boxes.
//
// Scanned books alternate recto/verso pages with consistent, mirrored
// margins, so statistics are kept per parity class (odd and even page
// numbers). The pass is two-phase and batch: [Stats] first computes the
// field-wise medians of every class over the raw boxes, then [Corrector]
// sweeps the pages in order, maintaining one carry-forward chain per parity.
// The first page of a chain clamps to the class medians; later pages fill
// missing fields from their predecessor and pull drifted bounds back to it,
// guarded so that legitimately different trim sizes survive untouched.
//
// The two parity chains are independent; the pass itself owns the sequence
// for its duration and mutates the boxes in place.
package sequence
