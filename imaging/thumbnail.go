package imaging

import (
	"fmt"
	"image"
	"image/jpeg"
	"os"

	"golang.org/x/image/draw"

	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

const thumbnailJPEGQuality = 85

// Thumbnail writes a JPEG preview of the image scaled so its longest side
// is maxDim pixels. Images already within the bound are re-encoded at full
// size. This is pure Go and works without the opencv build tag.
func Thumbnail(inPath, outPath string, maxDim int) error {
	if maxDim <= 0 {
		return fmt.Errorf("thumbnail dimension must be positive, got %d", maxDim)
	}

	f, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", inPath, err)
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > maxDim || h > maxDim {
		scale := float64(maxDim) / float64(w)
		if h > w {
			scale = float64(maxDim) / float64(h)
		}
		dst := image.NewRGBA(image.Rect(0, 0, int(float64(w)*scale), int(float64(h)*scale)))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		src = dst
	}

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := jpeg.Encode(out, src, &jpeg.Options{Quality: thumbnailJPEGQuality}); err != nil {
		return fmt.Errorf("encoding %s: %w", outPath, err)
	}
	return nil
}
