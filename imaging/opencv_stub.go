//go:build !opencv

// Package imaging is the raster layer under the geometry pipeline: it reads
// page scans, extracts their ranked contours, and writes rotated, cropped
// output images.
//
// This is the stub implementation used when the "opencv" build tag is not
// set. All operations return [ErrNotEnabled]. To enable them, install
// OpenCV and rebuild with:
//
//	go build -tags opencv
//
// The pure-Go [Thumbnail] works regardless of the tag.
package imaging

import "github.com/scanbound/folio/model"

// FileContours returns an error indicating image processing is not enabled.
func FileContours(path string, rotateDegree, maxContours int) ([]model.Contour, int, error) {
	return nil, 0, ErrNotEnabled
}

// ProcessPage returns an error indicating image processing is not enabled.
func ProcessPage(inPath, outPath string, box *model.CropBox, rotateDegree int, resizeFactor float64) error {
	return ErrNotEnabled
}

// DrawContours returns an error indicating image processing is not enabled.
func DrawContours(inPath, outPath string, rotateDegree, maxContours int) error {
	return ErrNotEnabled
}

// Grayscale returns an error indicating image processing is not enabled.
func Grayscale(inPath, outPath string) error {
	return ErrNotEnabled
}
