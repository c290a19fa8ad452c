package extract

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"go.uber.org/zap"

	"github.com/Anas09876/FinDeIdentify/internal/config"
	"github.com/Anas09876/FinDeIdentify/internal/document"
	"github.com/Anas09876/FinDeIdentify/internal/logger"
)

// Extractor is the uniform text-extraction interface the pipeline works
// against. Raster kinds go through the configured OCR engine; PDF kinds are
// validated with pdfcpu and fall back to deterministic degraded-mode text,
// since page rasterization is not performed here.
type Extractor struct {
	engine  Engine
	timeout time.Duration
	logger  *logger.Logger
}

// New selects the OCR engine named by the configuration.
func New(cfg config.ExtractionConfig, log *logger.Logger) (*Extractor, error) {
	var engine Engine
	switch cfg.Engine {
	case "tesseract":
		engine = NewTesseractEngine(cfg.Languages)
	case "stub":
		engine = &StubEngine{}
	default:
		return nil, fmt.Errorf("unknown extraction engine: %s", cfg.Engine)
	}

	log.Info("Text extractor initialized",
		zap.String("engine", engine.Name()),
		zap.Duration("timeout", cfg.Timeout),
	)
	return &Extractor{engine: engine, timeout: cfg.Timeout, logger: log}, nil
}

// NewWithEngine wires a caller-provided engine, used by tests and embedders.
func NewWithEngine(engine Engine, log *logger.Logger) *Extractor {
	return &Extractor{engine: engine, logger: log}
}

// Extract returns the text of the document bytes. Unsupported content kinds,
// unreadable bytes and engine failures all surface as *ExtractionError. The
// configured timeout bounds each call.
func (e *Extractor) Extract(ctx context.Context, data []byte, contentType string) (string, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	switch contentType {
	case document.ContentTypeJPEG, document.ContentTypePNG, "image/jpg":
		text, err := e.engine.Recognize(ctx, data)
		if err != nil {
			return "", &ExtractionError{Reason: "OCR recognition failed", Err: err}
		}
		return text, nil

	case document.ContentTypePDF:
		return e.extractPDF(data)

	default:
		return "", &ExtractionError{Reason: fmt.Sprintf("unsupported content type %q", contentType)}
	}
}

// extractPDF validates the document and returns degraded-mode text. True PDF
// extraction would rasterize each page before OCR; that capability is not
// wired, so the returned text is a deterministic placeholder derived from the
// page count. Callers must not assume it reflects real page content.
func (e *Extractor) extractPDF(data []byte) (string, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	pdfCtx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return "", &ExtractionError{Reason: "unreadable PDF", Err: err}
	}
	if err := api.ValidateContext(pdfCtx); err != nil {
		return "", &ExtractionError{Reason: "invalid PDF", Err: err}
	}

	e.logger.Warn("PDF text extraction running in degraded mode",
		zap.Int("page_count", pdfCtx.PageCount),
	)

	var buf bytes.Buffer
	for page := 1; page <= pdfCtx.PageCount; page++ {
		fmt.Fprintf(&buf, "[page %d of %d: text unavailable without rasterization]\n", page, pdfCtx.PageCount)
	}
	return buf.String(), nil
}

// Close shuts down the underlying OCR engine handle.
func (e *Extractor) Close() error {
	return e.engine.Close()
}
