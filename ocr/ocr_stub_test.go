//go:build !ocr

package ocr

import (
	"errors"
	"testing"
)

func TestStubNewReturnsError(t *testing.T) {
	client, err := New("eng")
	if !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("expected ErrOCRNotEnabled, got %v", err)
	}
	if client != nil {
		t.Error("stub New must not return a client")
	}
}

func TestStubCloseIsSafeOnNil(t *testing.T) {
	var client *Client
	if err := client.Close(); err != nil {
		t.Errorf("Close on nil client: %v", err)
	}
}

func TestStubOperationsReturnError(t *testing.T) {
	client := &Client{}
	if _, err := client.RecognizeImage([]byte("data")); !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("RecognizeImage: expected ErrOCRNotEnabled, got %v", err)
	}
	if _, err := client.RecognizeFile("page.jpg"); !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("RecognizeFile: expected ErrOCRNotEnabled, got %v", err)
	}
	if err := client.SetPageSegMode(PSM_SINGLE_BLOCK); !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("SetPageSegMode: expected ErrOCRNotEnabled, got %v", err)
	}
}
