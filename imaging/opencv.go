//go:build opencv

// Package imaging is the raster layer under the geometry pipeline: it reads
// page scans, extracts their ranked contours, and writes rotated, cropped
// output images. The heavy lifting is done by OpenCV via gocv, so the
// package only compiles with the "opencv" build tag; without it every
// operation returns [ErrNotEnabled]. Contour geometry leaves this package as
// plain model types, which keeps the estimation core free of any OpenCV
// dependency.
package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sort"

	"gocv.io/x/gocv"

	"github.com/scanbound/folio/model"
)

// Binarization threshold for contour detection. Page paper is much brighter
// than the scanner bed, so a fixed mid-gray cut is enough.
const contourThreshold = 125

// FileContours reads an image, applies the scan-time coarse rotation, and
// returns the external contours ranked by area, largest first, along with
// the rotated image width in pixels. Contours are reported in the rotated
// frame, the same frame [ProcessPage] crops in, so boxes estimated from them
// apply without translation. At most maxContours contours are returned; zero
// means no limit.
func FileContours(path string, rotateDegree, maxContours int) ([]model.Contour, int, error) {
	img, err := readRotated(path, rotateDegree)
	if err != nil {
		return nil, 0, err
	}
	defer img.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)

	binary := gocv.NewMat()
	defer binary.Close()
	gocv.Threshold(gray, &binary, contourThreshold, 255, gocv.ThresholdBinary)

	found := gocv.FindContours(binary, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer found.Close()

	contours := make([]model.Contour, 0, found.Size())
	for i := 0; i < found.Size(); i++ {
		pv := found.At(i)
		pts := pv.ToPoints()

		contour := model.Contour{
			Points: make([]model.Point, len(pts)),
			Area:   gocv.ContourArea(pv),
		}
		for j, p := range pts {
			contour.Points[j] = model.Point{X: p.X, Y: p.Y}
		}
		contours = append(contours, contour)
	}
	sort.SliceStable(contours, func(i, j int) bool {
		return contours[i].Area > contours[j].Area
	})
	if maxContours > 0 && len(contours) > maxContours {
		contours = contours[:maxContours]
	}

	return contours, img.Cols(), nil
}

// ProcessPage writes the normalized version of one page image: the coarse
// scan-time rotation first, then the fine skew correction from the box's
// angle, then the crop, then an optional uniform resize. Crop bounds are
// clamped to the image; nil bounds fall back to the image edges.
func ProcessPage(inPath, outPath string, box *model.CropBox, rotateDegree int, resizeFactor float64) error {
	img, err := readRotated(inPath, rotateDegree)
	if err != nil {
		return err
	}
	defer img.Close()

	work := img
	if box != nil && box.Angle != nil && *box.Angle != 0 {
		deskewed := rotateFine(work, *box.Angle)
		defer deskewed.Close()
		work = deskewed
	}

	rect := cropRect(box, work.Cols(), work.Rows())
	cropped := work.Region(rect)
	defer cropped.Close()

	out := cropped
	if resizeFactor > 0 && resizeFactor != 1 {
		resized := gocv.NewMat()
		defer resized.Close()
		gocv.Resize(cropped, &resized, image.Point{}, resizeFactor, resizeFactor, gocv.InterpolationArea)
		out = resized
	}

	if ok := gocv.IMWrite(outPath, out); !ok {
		return fmt.Errorf("writing %s", outPath)
	}
	return nil
}

// DrawContours writes a diagnostic copy of the image with its ranked
// contours outlined. The copy is rendered in the rotated frame so the
// outlines land on the edges they were detected against.
func DrawContours(inPath, outPath string, rotateDegree, maxContours int) error {
	img, err := readRotated(inPath, rotateDegree)
	if err != nil {
		return err
	}
	defer img.Close()

	contours, _, err := FileContours(inPath, rotateDegree, maxContours)
	if err != nil {
		return err
	}

	outline := make([][]image.Point, len(contours))
	for i, c := range contours {
		pts := make([]image.Point, len(c.Points))
		for j, p := range c.Points {
			pts[j] = image.Point{X: p.X, Y: p.Y}
		}
		outline[i] = pts
	}
	pv := gocv.NewPointsVectorFromPoints(outline)
	defer pv.Close()

	green := color.RGBA{G: 255, A: 255}
	for i := 0; i < pv.Size(); i++ {
		gocv.DrawContours(&img, pv, i, green, 3)
	}

	if ok := gocv.IMWrite(outPath, img); !ok {
		return fmt.Errorf("writing %s", outPath)
	}
	return nil
}

// Grayscale writes a single-channel copy of the image.
func Grayscale(inPath, outPath string) error {
	img := gocv.IMRead(inPath, gocv.IMReadGrayScale)
	if img.Empty() {
		return fmt.Errorf("reading %s: empty image", inPath)
	}
	defer img.Close()

	if ok := gocv.IMWrite(outPath, img); !ok {
		return fmt.Errorf("writing %s", outPath)
	}
	return nil
}

// readRotated reads an image and applies its scan-time coarse rotation, a
// multiple of 90 degrees that swaps the canvas dimensions so nothing is
// clipped. Every read in this package goes through it, so estimation and
// output share one coordinate frame.
func readRotated(path string, degrees int) (gocv.Mat, error) {
	img := gocv.IMRead(path, gocv.IMReadColor)
	if img.Empty() {
		return img, fmt.Errorf("reading %s: empty image", path)
	}

	norm := ((degrees % 360) + 360) % 360
	if norm != 90 && norm != 180 && norm != 270 {
		return img, nil
	}
	defer img.Close()

	dst := gocv.NewMat()
	switch norm {
	case 90:
		gocv.Rotate(img, &dst, gocv.Rotate90Clockwise)
	case 180:
		gocv.Rotate(img, &dst, gocv.Rotate180Clockwise)
	case 270:
		gocv.Rotate(img, &dst, gocv.Rotate90CounterClockwise)
	}
	return dst, nil
}

// rotateFine applies a small skew correction about the image center,
// keeping the canvas size.
func rotateFine(img gocv.Mat, degrees float64) gocv.Mat {
	w, h := img.Cols(), img.Rows()
	center := image.Point{X: w / 2, Y: h / 2}

	m := gocv.GetRotationMatrix2D(center, degrees, 1.0)
	defer m.Close()

	dst := gocv.NewMat()
	gocv.WarpAffine(img, &dst, m, image.Point{X: w, Y: h})
	return dst
}

// cropRect converts a possibly partial box into a concrete rectangle,
// defaulting unresolved bounds to the image edges and clamping the rest.
func cropRect(box *model.CropBox, width, height int) image.Rectangle {
	x0, y0 := 0, 0
	x1, y1 := width, height
	if box != nil {
		if box.MinX != nil {
			x0 = clamp(*box.MinX, 0, width-1)
		}
		if box.MinY != nil {
			y0 = clamp(*box.MinY, 0, height-1)
		}
		if box.MaxX != nil {
			x1 = clamp(*box.MaxX, x0+1, width)
		}
		if box.MaxY != nil {
			y1 = clamp(*box.MaxY, y0+1, height)
		}
	}
	return image.Rect(x0, y0, x1, y1)
}

func clamp(v, lo, hi int) int {
	return int(math.Min(float64(hi), math.Max(float64(lo), float64(v))))
}
