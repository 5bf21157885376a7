package imaging

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writeTestPNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func decodeJPEG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := jpeg.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	return img
}

func TestThumbnailScalesDown(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "page.png")
	out := filepath.Join(dir, "thumb.jpg")
	writeTestPNG(t, in, 800, 400)

	if err := Thumbnail(in, out, 200); err != nil {
		t.Fatalf("Thumbnail: %v", err)
	}

	got := decodeJPEG(t, out).Bounds()
	if got.Dx() != 200 {
		t.Errorf("expected width 200, got %d", got.Dx())
	}
	if got.Dy() != 100 {
		t.Errorf("expected height 100, got %d", got.Dy())
	}
}

func TestThumbnailTallImage(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "page.png")
	out := filepath.Join(dir, "thumb.jpg")
	writeTestPNG(t, in, 300, 600)

	if err := Thumbnail(in, out, 150); err != nil {
		t.Fatalf("Thumbnail: %v", err)
	}

	got := decodeJPEG(t, out).Bounds()
	if got.Dy() != 150 {
		t.Errorf("expected height 150, got %d", got.Dy())
	}
	if got.Dx() != 75 {
		t.Errorf("expected width 75, got %d", got.Dx())
	}
}

func TestThumbnailSmallImageKeepsSize(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "page.png")
	out := filepath.Join(dir, "thumb.jpg")
	writeTestPNG(t, in, 120, 90)

	if err := Thumbnail(in, out, 200); err != nil {
		t.Fatalf("Thumbnail: %v", err)
	}

	got := decodeJPEG(t, out).Bounds()
	if got.Dx() != 120 || got.Dy() != 90 {
		t.Errorf("expected 120x90, got %dx%d", got.Dx(), got.Dy())
	}
}

func TestThumbnailInvalidDimension(t *testing.T) {
	if err := Thumbnail("in.png", "out.jpg", 0); err == nil {
		t.Error("expected an error for a non-positive dimension")
	}
}
