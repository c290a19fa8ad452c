package extract

import (
	"context"
	"fmt"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

// TesseractEngine recognizes text with a process-wide gosseract client. The
// client is created lazily on first use and reused across calls; gosseract is
// not safe for concurrent use, so every recognition holds the mutex, which
// serializes extraction across pipeline runs.
type TesseractEngine struct {
	mu        sync.Mutex
	client    *gosseract.Client
	languages []string
}

// NewTesseractEngine constructs a Tesseract-backed OCR engine. No client is
// created until the first Recognize call.
func NewTesseractEngine(languages []string) *TesseractEngine {
	return &TesseractEngine{languages: languages}
}

func (e *TesseractEngine) Name() string { return "tesseract" }

// Recognize performs OCR on a single encoded image.
func (e *TesseractEngine) Recognize(ctx context.Context, image []byte) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.client == nil {
		client := gosseract.NewClient()
		if len(e.languages) > 0 {
			if err := client.SetLanguage(e.languages...); err != nil {
				client.Close()
				return "", fmt.Errorf("set languages: %w", err)
			}
		}
		e.client = client
	}

	if err := e.client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := e.client.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return text, nil
}

// Close tears down the shared client. Safe to call when no client was ever
// created.
func (e *TesseractEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.client == nil {
		return nil
	}
	err := e.client.Close()
	e.client = nil
	return err
}
