//go:build !ocr

// Package ocr extracts text from processed page images via the Tesseract
// engine (through gosseract).
//
// This is the stub implementation used when the "ocr" build tag is not set.
// All operations return ErrOCRNotEnabled. To enable OCR, install Tesseract
// and rebuild with:
//
//	go build -tags ocr
package ocr

import "errors"

// ErrOCRNotEnabled is returned when OCR functions are called but OCR support
// was not compiled in. Rebuild with -tags ocr to enable it.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// PageSegMode represents Tesseract page segmentation modes, matching the
// OCR-enabled implementation.
type PageSegMode int

const (
	PSM_OSD_ONLY               PageSegMode = 0
	PSM_AUTO_OSD               PageSegMode = 1
	PSM_AUTO_ONLY              PageSegMode = 2
	PSM_AUTO                   PageSegMode = 3
	PSM_SINGLE_COLUMN          PageSegMode = 4
	PSM_SINGLE_BLOCK_VERT_TEXT PageSegMode = 5
	PSM_SINGLE_BLOCK           PageSegMode = 6
	PSM_SINGLE_LINE            PageSegMode = 7
	PSM_SINGLE_WORD            PageSegMode = 8
	PSM_CIRCLE_WORD            PageSegMode = 9
	PSM_SINGLE_CHAR            PageSegMode = 10
	PSM_SPARSE_TEXT            PageSegMode = 11
	PSM_SPARSE_TEXT_OSD        PageSegMode = 12
	PSM_RAW_LINE               PageSegMode = 13
)

// Client is a stub OCR client that returns errors for all operations.
type Client struct{}

// New returns an error indicating OCR support is not enabled.
func New(language string) (*Client, error) {
	return nil, ErrOCRNotEnabled
}

// Close is a no-op for the stub client. It is safe to call on a nil client.
func (c *Client) Close() error {
	return nil
}

// RecognizeImage returns an error indicating OCR support is not enabled.
func (c *Client) RecognizeImage(imageData []byte) (string, error) {
	return "", ErrOCRNotEnabled
}

// RecognizeFile returns an error indicating OCR support is not enabled.
func (c *Client) RecognizeFile(path string) (string, error) {
	return "", ErrOCRNotEnabled
}

// SetPageSegMode returns an error indicating OCR support is not enabled.
func (c *Client) SetPageSegMode(mode PageSegMode) error {
	return ErrOCRNotEnabled
}
