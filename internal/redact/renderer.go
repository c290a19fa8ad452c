package redact

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Anas09876/FinDeIdentify/internal/document"
	"github.com/Anas09876/FinDeIdentify/internal/logger"
)

// RenderError is the fatal failure surfaced for any redaction-rendering
// problem. The orchestrator moves the document to the terminal error stage
// and does not retry.
type RenderError struct {
	Reason string
	Err    error
}

func (e *RenderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("redaction rendering failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("redaction rendering failed: %s", e.Reason)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Renderer produces a redacted derivative from an original document plus its
// detection result. One strategy per document kind: paged (PDF) originals get
// fixed-position redaction bars, raster originals get opaque rectangles over
// each blur region.
type Renderer struct {
	logger *logger.Logger
}

// New creates a redaction renderer
func New(log *logger.Logger) *Renderer {
	return &Renderer{logger: log}
}

// Render writes the redacted artifact to outPath, selecting the strategy by
// content type. Failures surface as *RenderError.
func (r *Renderer) Render(originalPath, contentType string, det document.DetectionResult, outPath string) error {
	switch contentType {
	case document.ContentTypePDF:
		if err := r.renderPDF(originalPath, det, outPath); err != nil {
			return err
		}
	case document.ContentTypeJPEG, document.ContentTypePNG, "image/jpg":
		if err := r.renderImage(originalPath, contentType, det, outPath); err != nil {
			return err
		}
	default:
		return &RenderError{Reason: fmt.Sprintf("unsupported content type %q", contentType)}
	}

	r.logger.Info("Redacted artifact rendered",
		zap.String("content_type", contentType),
		zap.String("output", outPath),
		zap.Int("matches", det.Total()),
		zap.Int("blur_regions", len(det.BlurredRegions)),
	)
	return nil
}
