//go:build ocr

// Package ocr extracts text from processed page images via the Tesseract
// engine (through gosseract). It requires Tesseract to be installed on the
// system and the "ocr" build tag. On macOS, install via:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
package ocr

import (
	"fmt"
	"os"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"golang.org/x/text/unicode/norm"
)

// Client wraps a Tesseract session. Close it when no longer needed to
// release the engine's resources.
type Client struct {
	client *gosseract.Client
}

// New creates an OCR client recognizing the given language. Multiple
// languages can be specified "+"-separated (e.g. "eng+deu"); empty means
// English.
func New(language string) (*Client, error) {
	client := gosseract.NewClient()
	if language != "" {
		if err := client.SetLanguage(strings.Split(language, "+")...); err != nil {
			client.Close()
			return nil, fmt.Errorf("setting language %q: %w", language, err)
		}
	}
	return &Client{client: client}, nil
}

// Close releases the Tesseract session.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// RecognizeImage performs OCR on encoded image data (JPEG, PNG, TIFF, ...).
// The result is whitespace-trimmed and Unicode NFC normalized, so the same
// glyphs always produce the same byte sequence regardless of how Tesseract
// composed them.
func (c *Client) RecognizeImage(imageData []byte) (string, error) {
	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return "", fmt.Errorf("setting image: %w", err)
	}

	text, err := c.client.Text()
	if err != nil {
		return "", fmt.Errorf("recognition failed: %w", err)
	}

	return norm.NFC.String(strings.TrimSpace(text)), nil
}

// RecognizeFile performs OCR on a page image on disk.
func (c *Client) RecognizeFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return c.RecognizeImage(data)
}

// SetPageSegMode sets the page segmentation mode, which affects how
// Tesseract analyzes the page layout. Scanned book pages usually work best
// with gosseract.PSM_SINGLE_BLOCK.
func (c *Client) SetPageSegMode(mode gosseract.PageSegMode) error {
	return c.client.SetPageSegMode(mode)
}
