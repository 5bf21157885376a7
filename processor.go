package folio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/scanbound/folio/deskew"
	"github.com/scanbound/folio/imaging"
	"github.com/scanbound/folio/internal/logutil"
	"github.com/scanbound/folio/model"
	"github.com/scanbound/folio/scandir"
)

// Processor provides a fluent interface for running the geometry pipeline
// over a directory of scanned pages. Each configuration method returns a new
// Processor instance, making it safe for concurrent use and allowing method
// chaining. Nothing touches the filesystem until a terminal operation runs.
type Processor struct {
	dir     string
	options Options

	// Accumulated error (fail-fast)
	err error
}

// clone creates a copy of the Processor with a deep copy of options.
// Each chain method returns a new instance.
func (p *Processor) clone() *Processor {
	return &Processor{
		dir:     p.dir,
		options: p.options.clone(),
		err:     p.err,
	}
}

// XTolerance sets the vertical-segment break tolerance in pixels.
func (p *Processor) XTolerance(px int) *Processor {
	np := p.clone()
	np.options.XTolerance = px
	return np
}

// YTolerance sets the horizontal-segment break tolerance in pixels.
func (p *Processor) YTolerance(px int) *Processor {
	np := p.clone()
	np.options.YTolerance = px
	return np
}

// MaxContours bounds how many ranked contours are examined per page.
func (p *Processor) MaxContours(n int) *Processor {
	np := p.clone()
	np.options.MaxContours = n
	return np
}

// RotateStrategy selects which line family drives the skew estimate.
//
// Example:
//
//	boxes, err := folio.OpenDir("scans/").
//	    RotateStrategy(deskew.StrategyOverall).
//	    Boxes()
func (p *Processor) RotateStrategy(s deskew.Strategy) *Processor {
	np := p.clone()
	np.options.RotateStrategy = s
	return np
}

// Pages restricts processing to the given page numbers. Multiple calls are
// cumulative.
func (p *Processor) Pages(pages ...int) *Processor {
	np := p.clone()
	np.options.Pages = append(np.options.Pages, pages...)
	return np
}

// Workers bounds the per-page estimation pool.
func (p *Processor) Workers(n int) *Processor {
	np := p.clone()
	if n < 1 {
		np.err = fmt.Errorf("workers must be at least 1, got %d", n)
		return np
	}
	np.options.Workers = n
	return np
}

// ResizeFactor scales written output images. Zero means no resizing.
func (p *Processor) ResizeFactor(f float64) *Processor {
	np := p.clone()
	np.options.ResizeFactor = f
	return np
}

// DeskewOnly writes rotated but uncropped output images, useful for
// inspecting the skew correction in isolation.
func (p *Processor) DeskewOnly() *Processor {
	np := p.clone()
	np.options.DeskewOnly = true
	return np
}

// Dewarp registers an external de-warping transform to run on every written
// page image.
func (p *Processor) Dewarp(fn Dewarper) *Processor {
	np := p.clone()
	np.options.Dewarper = fn
	return np
}

// Logger routes pipeline diagnostics to the given logger.
func (p *Processor) Logger(log *logrus.Logger) *Processor {
	np := p.clone()
	np.options.Logger = log
	return np
}

// MaxFirstDeviation sets the first-page clamp threshold for the whole-book
// correction pass.
func (p *Processor) MaxFirstDeviation(px int) *Processor {
	np := p.clone()
	np.options.MaxFirstDeviation = px
	return np
}

// MaxDriftDeviation sets the drift threshold for the whole-book correction
// pass.
func (p *Processor) MaxDriftDeviation(px int) *Processor {
	np := p.clone()
	np.options.MaxDriftDeviation = px
	return np
}

// SizeDriftGuard sets the trim-size tolerance that exempts legitimately
// different pages from drift correction.
func (p *Processor) SizeDriftGuard(px int) *Processor {
	np := p.clone()
	np.options.SizeDriftGuard = px
	return np
}

// Book opens and returns the underlying scan directory. Unlike the other
// terminal operations it performs no image work.
func (p *Processor) Book() (*scandir.Book, error) {
	if p.err != nil {
		return nil, p.err
	}
	return scandir.Open(p.dir)
}

// Boxes runs the full estimation over every selected page and returns the
// corrected crop boxes keyed by page number. Per-page estimation is
// parallel; the correction pass is sequential. This is a terminal operation.
//
// A page whose image cannot be analyzed contributes an empty box and a log
// entry rather than failing the book; only structural problems (unreadable
// directory, image support not compiled in) abort.
func (p *Processor) Boxes() (model.PageSequence, error) {
	if p.err != nil {
		return nil, p.err
	}
	log := logutil.OrDiscard(p.options.Logger)

	book, err := scandir.Open(p.dir)
	if err != nil {
		return nil, err
	}
	pages := book.Select(p.options.Pages)
	if len(pages) == 0 {
		return nil, fmt.Errorf("no pages selected in %s", book.Dir)
	}

	seq, err := p.estimatePages(pages, log)
	if err != nil {
		return nil, err
	}

	CorrectSequence(seq, p.options)
	return seq, nil
}

// estimatePages fans the per-page estimation out over a bounded worker pool.
// Results are keyed by page number so completion order does not matter.
func (p *Processor) estimatePages(pages []scandir.Page, log *logrus.Logger) (model.PageSequence, error) {
	workers := p.options.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(pages) {
		workers = len(pages)
	}

	seq := make(model.PageSequence, len(pages))
	var mu sync.Mutex
	var wg sync.WaitGroup
	var fatal error

	jobs := make(chan scandir.Page)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for page := range jobs {
				box, err := p.estimatePage(page)
				mu.Lock()
				if err != nil {
					if errors.Is(err, imaging.ErrNotEnabled) {
						if fatal == nil {
							fatal = err
						}
					} else {
						log.WithFields(logrus.Fields{
							"page":  page.Number,
							"image": page.Path,
						}).WithError(err).Warn("page estimation failed, using empty box")
						seq[page.Number] = &model.CropBox{}
					}
				} else {
					seq[page.Number] = box
				}
				mu.Unlock()
			}
		}()
	}
	for _, page := range pages {
		jobs <- page
	}
	close(jobs)
	wg.Wait()

	if fatal != nil {
		return nil, fatal
	}
	return seq, nil
}

// estimatePage extracts contours in the page's rotated frame, the frame the
// output is later written in, and derives the crop box from them.
func (p *Processor) estimatePage(page scandir.Page) (*model.CropBox, error) {
	contours, width, err := imaging.FileContours(page.Path, page.RotateDegree, p.options.MaxContours)
	if err != nil {
		return nil, err
	}
	return ComputePageBox(contours, width, p.options), nil
}

// Process estimates and corrects the whole book, then writes the rotated,
// cropped page images into outDir. Output names follow the source names,
// except that jp2 sources come out as jpg. This is a terminal operation.
func (p *Processor) Process(outDir string) error {
	if p.err != nil {
		return p.err
	}
	log := logutil.OrDiscard(p.options.Logger)

	book, err := scandir.Open(p.dir)
	if err != nil {
		return err
	}
	pages := book.Select(p.options.Pages)
	if len(pages) == 0 {
		return fmt.Errorf("no pages selected in %s", book.Dir)
	}

	seq, err := p.estimatePages(pages, log)
	if err != nil {
		return err
	}
	CorrectSequence(seq, p.options)

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	for _, page := range pages {
		outPath := filepath.Join(outDir, outputName(page.Path))
		box := seq[page.Number]
		if p.options.DeskewOnly && box != nil {
			box = &model.CropBox{Angle: box.Angle}
		}

		if err := imaging.ProcessPage(page.Path, outPath, box, page.RotateDegree, p.options.ResizeFactor); err != nil {
			return fmt.Errorf("page %d: %w", page.Number, err)
		}
		if p.options.Dewarper != nil {
			if err := p.options.Dewarper(outPath); err != nil {
				return fmt.Errorf("page %d: dewarp: %w", page.Number, err)
			}
		}
		log.WithFields(logrus.Fields{
			"page": page.Number,
			"out":  outPath,
		}).Debug("page written")
	}
	return nil
}

// DrawContours writes diagnostic copies of the selected pages with their
// ranked contours outlined. This is a terminal operation.
func (p *Processor) DrawContours(outDir string) error {
	return p.eachSelected(outDir, func(page scandir.Page, outPath string) error {
		return imaging.DrawContours(page.Path, outPath, page.RotateDegree, p.options.MaxContours)
	})
}

// Grayscale writes single-channel copies of the selected pages. This is a
// terminal operation.
func (p *Processor) Grayscale(outDir string) error {
	return p.eachSelected(outDir, func(page scandir.Page, outPath string) error {
		return imaging.Grayscale(page.Path, outPath)
	})
}

// Thumbnail writes a JPEG preview of the book's cover page, falling back to
// the first selected page when no page is classified as the cover. It is
// pure Go and works without the opencv build tag. This is a terminal
// operation.
func (p *Processor) Thumbnail(outPath string, maxDim int) error {
	if p.err != nil {
		return p.err
	}
	book, err := scandir.Open(p.dir)
	if err != nil {
		return err
	}
	pages := book.Select(p.options.Pages)
	if len(pages) == 0 {
		return fmt.Errorf("no pages selected in %s", book.Dir)
	}

	source := pages[0]
	for _, page := range pages {
		if book.IsCoverPage(page.Number) {
			source = page
			break
		}
	}
	return imaging.Thumbnail(source.Path, outPath, maxDim)
}

// outputName maps a source page path to its output file name. Processed
// pages are always written as JPEG, so a jp2 source gets a jpg name.
func outputName(srcPath string) string {
	name := filepath.Base(srcPath)
	if strings.EqualFold(filepath.Ext(name), ".jp2") {
		name = strings.TrimSuffix(name, filepath.Ext(name)) + ".jpg"
	}
	return name
}

// eachSelected applies a per-page image transform, writing results into
// outDir under the output file names.
func (p *Processor) eachSelected(outDir string, fn func(page scandir.Page, outPath string) error) error {
	if p.err != nil {
		return p.err
	}
	book, err := scandir.Open(p.dir)
	if err != nil {
		return err
	}
	pages := book.Select(p.options.Pages)
	if len(pages) == 0 {
		return fmt.Errorf("no pages selected in %s", book.Dir)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	for _, page := range pages {
		outPath := filepath.Join(outDir, outputName(page.Path))
		if err := fn(page, outPath); err != nil {
			return fmt.Errorf("page %d: %w", page.Number, err)
		}
	}
	return nil
}
