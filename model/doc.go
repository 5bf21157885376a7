// Package model defines the shared data types for page-geometry
// normalization: pixel points, contours, candidate line segments, crop
// boxes with nullable bounds, and the per-book page sequence with its
// parity (recto/verso) partitioning.
//
// The types here carry no behavior beyond geometry accessors; the
// estimation algorithms live in the lines, deskew, crop, and sequence
// packages.
package model
