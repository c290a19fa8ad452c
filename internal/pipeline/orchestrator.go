package pipeline

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Anas09876/FinDeIdentify/internal/artifact"
	"github.com/Anas09876/FinDeIdentify/internal/detect"
	"github.com/Anas09876/FinDeIdentify/internal/document"
	"github.com/Anas09876/FinDeIdentify/internal/extract"
	"github.com/Anas09876/FinDeIdentify/internal/logger"
	"github.com/Anas09876/FinDeIdentify/internal/redact"
	"github.com/Anas09876/FinDeIdentify/internal/store"
)

// ProgressNotifier receives every committed stage transition, purely for
// client display. Polling the store remains the source of truth.
type ProgressNotifier interface {
	NotifyProgress(id string, stage document.Stage, progress int, message string)
}

// Orchestrator drives each document through the processing stages. Runs for
// different documents execute concurrently on a bounded worker pool; stages
// within one run are ordinary sequential calls. A stage failure is fail-fast:
// the record lands in the terminal error stage and is never retried.
type Orchestrator struct {
	store     *store.Store
	artifacts *artifact.Storage
	extractor *extract.Extractor
	detector  *detect.Detector
	renderer  *redact.Renderer
	notifier  ProgressNotifier
	logger    *logger.Logger

	ctx   context.Context
	group *errgroup.Group
}

// New creates the orchestrator with a worker pool of the given size. The
// notifier may be nil.
func New(
	ctx context.Context,
	workers int,
	st *store.Store,
	artifacts *artifact.Storage,
	extractor *extract.Extractor,
	detector *detect.Detector,
	renderer *redact.Renderer,
	notifier ProgressNotifier,
	log *logger.Logger,
) *Orchestrator {
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	return &Orchestrator{
		store:     st,
		artifacts: artifacts,
		extractor: extractor,
		detector:  detector,
		renderer:  renderer,
		notifier:  notifier,
		logger:    log,
		ctx:       ctx,
		group:     group,
	}
}

// Submit schedules one background run for the document id and returns
// immediately. The run's failures are captured into the record, never
// returned across the async boundary.
func (o *Orchestrator) Submit(id string) {
	o.group.Go(func() error {
		o.Process(o.ctx, id)
		return nil
	})
}

// Wait blocks until all in-flight runs finish. Used on shutdown.
func (o *Orchestrator) Wait() {
	_ = o.group.Wait()
}

// Process runs the full stage sequence for one document id. Exported so
// tests can drive the state machine synchronously.
func (o *Orchestrator) Process(ctx context.Context, id string) {
	log := o.logger.WithDocumentID(id)

	// A record deleted mid-flight makes every store write a no-op; the run
	// stops at the first one that reports absence.
	if !o.setStage(id, document.StageOCR, 25, "Extracting text from document...") {
		log.Warn("Document disappeared before processing started")
		return
	}

	doc, ok := o.store.Get(id)
	if !ok {
		return
	}

	data, err := o.artifacts.Read(doc.OriginalPath)
	if err != nil {
		o.fail(id, (&extract.ExtractionError{Reason: "unreadable original", Err: err}).Error())
		return
	}

	text, err := o.extractor.Extract(ctx, data, doc.ContentType)
	if err != nil {
		log.Error("Text extraction failed", zap.Error(err))
		o.fail(id, err.Error())
		return
	}

	if !o.setStage(id, document.StageDetection, 50, "Detecting sensitive information...") {
		return
	}

	// Detection never fails. The result stays local until the complete
	// transition so no reader sees a later stage with a missing result.
	det := o.detector.Detect(text)
	log.Info("Detection finished",
		zap.Int("matches", det.Total()),
		zap.Int("blur_regions", len(det.BlurredRegions)),
	)

	if !o.setStage(id, document.StageRedaction, 75, "Redacting sensitive information...") {
		return
	}

	redactedPath := o.artifacts.RedactedPath(doc.OriginalPath)
	if err := o.renderer.Render(doc.OriginalPath, doc.ContentType, det, redactedPath); err != nil {
		log.Error("Redaction rendering failed", zap.Error(err))
		o.fail(id, err.Error())
		return
	}

	if o.store.Complete(id, redactedPath, det) {
		o.notify(id, document.StageComplete, 100, "Document processing complete")
		log.Info("Document processing complete", zap.String("redacted_path", redactedPath))
	}
}

func (o *Orchestrator) setStage(id string, stage document.Stage, progress int, message string) bool {
	if !o.store.SetStage(id, stage, progress, message) {
		return false
	}
	o.notify(id, stage, progress, message)
	return true
}

func (o *Orchestrator) fail(id, message string) {
	if o.store.Fail(id, message) {
		o.notify(id, document.StageError, 0, message)
	}
}

func (o *Orchestrator) notify(id string, stage document.Stage, progress int, message string) {
	if o.notifier != nil {
		o.notifier.NotifyProgress(id, stage, progress, message)
	}
}
