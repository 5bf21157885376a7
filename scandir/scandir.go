package scandir

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// pageFilePattern matches the archive naming convention for scanned pages:
// a zero-padded page number and a jpg or jp2 extension.
var pageFilePattern = regexp.MustCompile(`^(\d{4})\.(jpg|jp2)$`)

// Page is one scanned page image on disk, with whatever per-page metadata
// the scan station recorded.
type Page struct {
	Number int
	Path   string

	// RotateDegree is the coarse rotation (+-90) recorded at scan time,
	// applied before any geometry estimation. Zero means none.
	RotateDegree int

	// Type is the scan station's page classification ("Normal", "Cover",
	// "Color Card", ...). Empty when no scandata.json exists.
	Type string
}

// IsColorCard reports whether the page is a calibration card rather than
// book content. Color cards are skipped during processing.
func (p Page) IsColorCard() bool {
	return p.Type == "Color Card"
}

// Book is an opened scan directory: the ordered page images plus the
// book-level metadata files that commonly travel with them.
type Book struct {
	Dir        string
	Pages      []Page
	Metadata   map[string]string
	Identifier string

	// classified records whether scandata.json supplied page types. It
	// decides whether cover detection trusts the classification or falls
	// back to page 1.
	classified bool
}

// scandata mirrors the scandata.json layout: a pageData object keyed by
// page number.
type scandata struct {
	PageData map[string]pageInfo `json:"pageData"`
}

type pageInfo struct {
	PageType     string `json:"pageType"`
	RotateDegree int    `json:"rotateDegree"`
}

// Open walks a scan directory and returns the book it contains. Upload
// bundles often nest the real directory inside single-entry wrappers, so
// Open first descends through any chain of lone subdirectories. Missing
// metadata files are not errors; a directory with no recognizable page
// images is.
func Open(dir string) (*Book, error) {
	dir, err := findInputDir(dir)
	if err != nil {
		return nil, err
	}

	book := &Book{Dir: dir}

	sd, err := readScandata(dir)
	if err != nil {
		return nil, fmt.Errorf("reading scandata.json: %w", err)
	}
	book.classified = sd != nil

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		m := pageFilePattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		num, _ := strconv.Atoi(m[1])
		page := Page{
			Number: num,
			Path:   filepath.Join(dir, entry.Name()),
		}
		if sd != nil {
			if info, ok := sd.PageData[strconv.Itoa(num)]; ok {
				page.Type = info.PageType
				page.RotateDegree = info.RotateDegree
			}
		}
		book.Pages = append(book.Pages, page)
	}
	if len(book.Pages) == 0 {
		return nil, fmt.Errorf("no page images found in %s", dir)
	}
	sort.Slice(book.Pages, func(i, j int) bool {
		return book.Pages[i].Number < book.Pages[j].Number
	})

	book.Metadata, err = readMetadata(dir)
	if err != nil {
		return nil, fmt.Errorf("reading metadata.xml: %w", err)
	}
	book.Identifier = readIdentifier(dir)

	return book, nil
}

// Select returns the processable pages: color cards are skipped, and when
// pageNums is non-empty only those page numbers are kept.
func (b *Book) Select(pageNums []int) []Page {
	wanted := map[int]bool{}
	for _, n := range pageNums {
		wanted[n] = true
	}

	var out []Page
	for _, page := range b.Pages {
		if page.IsColorCard() {
			continue
		}
		if len(wanted) > 0 && !wanted[page.Number] {
			continue
		}
		out = append(out, page)
	}
	return out
}

// IsCoverPage reports whether the page is the book's cover. When the scan
// station classified the pages, only a page typed "Cover" qualifies, wherever
// it falls in the sequence. Without a classification the first page is the
// cover.
func (b *Book) IsCoverPage(num int) bool {
	if !b.classified {
		return num == 1
	}
	for _, page := range b.Pages {
		if page.Number == num {
			return page.Type == "Cover"
		}
	}
	return false
}

// findInputDir descends through any chain of directories whose only entry
// is another directory, returning the first level that actually holds
// files.
func findInputDir(dir string) (string, error) {
	for {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return "", err
		}
		if len(entries) != 1 || !entries[0].IsDir() {
			return dir, nil
		}
		dir = filepath.Join(dir, entries[0].Name())
	}
}

func readScandata(dir string) (*scandata, error) {
	data, err := os.ReadFile(filepath.Join(dir, "scandata.json"))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var sd scandata
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, err
	}
	return &sd, nil
}

// readMetadata flattens the children of metadata.xml's root element into a
// tag -> text map.
func readMetadata(dir string) (map[string]string, error) {
	f, err := os.Open(filepath.Join(dir, "metadata.xml"))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	meta := map[string]string{}
	dec := xml.NewDecoder(f)

	depth := 0
	var current string
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth == 2 {
				current = t.Name.Local
			}
		case xml.EndElement:
			depth--
			if depth < 2 {
				current = ""
			}
		case xml.CharData:
			if depth == 2 && current != "" {
				meta[current] += strings.TrimSpace(string(t))
			}
		}
	}
	return meta, nil
}

func readIdentifier(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, "identifier.txt"))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
