package extract

import (
	"context"
	"fmt"
)

// Engine is the OCR provider contract: one encoded image in, recognized text
// out. Implementations may retain a reusable engine handle; Close tears it
// down.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, image []byte) (string, error)
	Close() error
}

// ExtractionError is the fatal failure surfaced for any OCR or rasterization
// problem. The orchestrator moves the document to the terminal error stage
// and does not retry.
type ExtractionError struct {
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("text extraction failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("text extraction failed: %s", e.Reason)
}

func (e *ExtractionError) Unwrap() error { return e.Err }
