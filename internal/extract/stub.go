package extract

import "context"

// StubEngine returns a fixed text for every image. It backs deployments
// without a tesseract installation and keeps pipeline tests hermetic,
// selected via the extraction.engine config key.
type StubEngine struct {
	Text string
	Err  error
}

func (e *StubEngine) Name() string { return "stub" }

func (e *StubEngine) Recognize(ctx context.Context, image []byte) (string, error) {
	if e.Err != nil {
		return "", e.Err
	}
	return e.Text, nil
}

func (e *StubEngine) Close() error { return nil }
