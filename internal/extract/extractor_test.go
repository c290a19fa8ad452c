package extract

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Anas09876/FinDeIdentify/internal/config"
	"github.com/Anas09876/FinDeIdentify/internal/document"
	"github.com/Anas09876/FinDeIdentify/internal/logger"
)

func testLogger() *logger.Logger {
	return &logger.Logger{Logger: zap.NewNop()}
}

func TestNewSelectsEngine(t *testing.T) {
	t.Run("Stub", func(t *testing.T) {
		e, err := New(config.ExtractionConfig{Engine: "stub"}, testLogger())
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		defer e.Close()
	})

	t.Run("Unknown", func(t *testing.T) {
		if _, err := New(config.ExtractionConfig{Engine: "carrier-pigeon"}, testLogger()); err == nil {
			t.Error("Unknown engine name must be rejected")
		}
	})
}

func TestExtractImage(t *testing.T) {
	e := NewWithEngine(&StubEngine{Text: "Aadhaar 1234 5678 9012"}, testLogger())
	defer e.Close()

	for _, ct := range []string{document.ContentTypeJPEG, document.ContentTypePNG, "image/jpg"} {
		text, err := e.Extract(context.Background(), []byte("image bytes"), ct)
		if err != nil {
			t.Errorf("Extract(%q) error = %v", ct, err)
			continue
		}
		if text != "Aadhaar 1234 5678 9012" {
			t.Errorf("Extract(%q) = %q", ct, text)
		}
	}
}

func TestExtractEngineFailure(t *testing.T) {
	e := NewWithEngine(&StubEngine{Err: errors.New("tesseract exploded")}, testLogger())
	defer e.Close()

	_, err := e.Extract(context.Background(), []byte("x"), document.ContentTypePNG)
	if err == nil {
		t.Fatal("Engine failure must surface")
	}
	var xerr *ExtractionError
	if !errors.As(err, &xerr) {
		t.Fatalf("Expected ExtractionError, got %T", err)
	}
	if !errors.Is(err, xerr.Err) {
		t.Error("ExtractionError must wrap the engine error")
	}
}

// blockingEngine never returns before its context expires.
type blockingEngine struct{}

func (e *blockingEngine) Name() string { return "blocking" }

func (e *blockingEngine) Recognize(ctx context.Context, image []byte) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func (e *blockingEngine) Close() error { return nil }

func TestExtractTimeout(t *testing.T) {
	e := NewWithEngine(&blockingEngine{}, testLogger())
	e.timeout = 20 * time.Millisecond
	defer e.Close()

	_, err := e.Extract(context.Background(), []byte("x"), document.ContentTypePNG)
	if err == nil {
		t.Fatal("A stalled engine must be cut off by the timeout")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline exceeded, got %v", err)
	}
}

func TestExtractUnsupportedType(t *testing.T) {
	e := NewWithEngine(&StubEngine{}, testLogger())
	defer e.Close()

	_, err := e.Extract(context.Background(), []byte("x"), "text/plain")
	var xerr *ExtractionError
	if !errors.As(err, &xerr) {
		t.Fatalf("Expected ExtractionError, got %v", err)
	}
}

func TestExtractUnreadablePDF(t *testing.T) {
	e := NewWithEngine(&StubEngine{}, testLogger())
	defer e.Close()

	_, err := e.Extract(context.Background(), []byte("not a pdf"), document.ContentTypePDF)
	var xerr *ExtractionError
	if !errors.As(err, &xerr) {
		t.Fatalf("Corrupt PDF must yield ExtractionError, got %v", err)
	}
}
