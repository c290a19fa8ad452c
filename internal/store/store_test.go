package store

import (
	"fmt"
	"sync"
	"testing"

	"github.com/Anas09876/FinDeIdentify/internal/document"
)

func newDoc() document.Document {
	return document.Document{
		Filename:     "scan.png",
		OriginalPath: "uploads/scan.png",
		ContentType:  document.ContentTypePNG,
		Size:         1024,
	}
}

func TestCreateAndGet(t *testing.T) {
	s := New()

	doc := s.Create(newDoc())
	if doc.ID == "" {
		t.Fatal("Created document must have an id")
	}
	if doc.Stage != document.StagePending {
		t.Errorf("New document must start pending, got %s", doc.Stage)
	}
	if doc.CreatedAt.IsZero() || doc.UpdatedAt.IsZero() {
		t.Error("Timestamps must be set on creation")
	}

	got, ok := s.Get(doc.ID)
	if !ok {
		t.Fatal("Get should find the created document")
	}
	if got.ID != doc.ID || got.Filename != doc.Filename {
		t.Errorf("Get returned wrong record: %+v", got)
	}

	if _, ok := s.Get("missing"); ok {
		t.Error("Get on unknown id must report absence")
	}
}

func TestGetReturnsCopy(t *testing.T) {
	s := New()
	doc := s.Create(newDoc())

	got, _ := s.Get(doc.ID)
	got.Filename = "mutated.png"

	again, _ := s.Get(doc.ID)
	if again.Filename != "scan.png" {
		t.Error("Mutating a returned record must not affect store state")
	}
}

func TestUpdateUnknownIsNoop(t *testing.T) {
	s := New()

	called := false
	_, ok := s.Update("missing", func(d *document.Document) { called = true })
	if ok {
		t.Error("Update on unknown id must return false")
	}
	if called {
		t.Error("Mutation must not run for unknown id")
	}
}

func TestStageTransitions(t *testing.T) {
	s := New()

	t.Run("ForwardSequence", func(t *testing.T) {
		doc := s.Create(newDoc())

		steps := []struct {
			stage    document.Stage
			progress int
		}{
			{document.StageOCR, 25},
			{document.StageDetection, 50},
			{document.StageRedaction, 75},
		}
		for _, step := range steps {
			if !s.SetStage(doc.ID, step.stage, step.progress, "working") {
				t.Fatalf("Transition to %s should be allowed", step.stage)
			}
		}
		if !s.Complete(doc.ID, "uploads/redacted/redacted_scan.png", document.DetectionResult{}) {
			t.Fatal("Complete should be allowed from redaction")
		}

		got, _ := s.Get(doc.ID)
		if got.Stage != document.StageComplete || got.Progress != 100 {
			t.Errorf("Unexpected terminal state: stage=%s progress=%d", got.Stage, got.Progress)
		}
	})

	t.Run("SkipRefused", func(t *testing.T) {
		doc := s.Create(newDoc())
		if s.SetStage(doc.ID, document.StageRedaction, 75, "skip") {
			t.Error("Skipping stages must be refused")
		}
	})

	t.Run("RegressionRefused", func(t *testing.T) {
		doc := s.Create(newDoc())
		s.SetStage(doc.ID, document.StageOCR, 25, "")
		s.SetStage(doc.ID, document.StageDetection, 50, "")
		if s.SetStage(doc.ID, document.StageOCR, 25, "again") {
			t.Error("Stage regression must be refused")
		}
	})

	t.Run("ErrorFromAnyNonTerminal", func(t *testing.T) {
		doc := s.Create(newDoc())
		s.SetStage(doc.ID, document.StageOCR, 25, "")
		if !s.Fail(doc.ID, "text extraction failed: boom") {
			t.Fatal("Fail should be allowed from ocr")
		}

		got, _ := s.Get(doc.ID)
		if got.Stage != document.StageError {
			t.Errorf("Expected error stage, got %s", got.Stage)
		}
		if got.Progress != 0 {
			t.Errorf("Failed document must report progress 0, got %d", got.Progress)
		}
		if got.Message != "text extraction failed: boom" {
			t.Errorf("Failure cause must be captured, got %q", got.Message)
		}
	})

	t.Run("TerminalIsFinal", func(t *testing.T) {
		doc := s.Create(newDoc())
		s.SetStage(doc.ID, document.StageOCR, 25, "")
		s.Fail(doc.ID, "boom")
		if s.Fail(doc.ID, "boom again") {
			t.Error("Terminal records must not transition again")
		}
		if s.SetStage(doc.ID, document.StageDetection, 50, "") {
			t.Error("Terminal records must not advance")
		}
	})
}

func TestRedactedPathOnlyWhenComplete(t *testing.T) {
	s := New()
	doc := s.Create(newDoc())

	for _, stage := range []document.Stage{document.StageOCR, document.StageDetection, document.StageRedaction} {
		s.SetStage(doc.ID, stage, 50, "")
		got, _ := s.Get(doc.ID)
		if got.RedactedPath != "" {
			t.Errorf("RedactedPath must be empty at stage %s", stage)
		}
		if got.Detection != nil {
			t.Errorf("Detection must be unset at stage %s", stage)
		}
	}

	det := document.DetectionResult{
		AadhaarNumbers: []document.Match{{Original: "1234 5678 9012", Masked: "XXXX XXXX 9012"}},
	}
	s.Complete(doc.ID, "redacted.png", det)

	got, _ := s.Get(doc.ID)
	if got.RedactedPath != "redacted.png" {
		t.Error("RedactedPath must be set on complete")
	}
	if got.Detection == nil || len(got.Detection.AadhaarNumbers) != 1 {
		t.Error("Detection result must be attached atomically with complete")
	}
}

func TestDelete(t *testing.T) {
	s := New()
	doc := s.Create(newDoc())

	if !s.Delete(doc.ID) {
		t.Fatal("Delete should report an existing record")
	}
	if _, ok := s.Get(doc.ID); ok {
		t.Error("Deleted record must be absent")
	}
	if s.Delete(doc.ID) {
		t.Error("Second delete must report absence")
	}

	// A run finishing against a deleted id lands as a no-op.
	if s.SetStage(doc.ID, document.StageOCR, 25, "") {
		t.Error("SetStage on a deleted id must be a no-op")
	}
	if s.Complete(doc.ID, "x", document.DetectionResult{}) {
		t.Error("Complete on a deleted id must be a no-op")
	}
}

func TestConcurrentReadersAndWriters(t *testing.T) {
	s := New()

	ids := make([]string, 8)
	for i := range ids {
		ids[i] = s.Create(newDoc()).ID
	}

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(2)
		go func(id string, n int) {
			defer wg.Done()
			s.SetStage(id, document.StageOCR, 25, fmt.Sprintf("run %d", n))
			s.SetStage(id, document.StageDetection, 50, "")
			s.SetStage(id, document.StageRedaction, 75, "")
			s.Complete(id, "redacted", document.DetectionResult{})
		}(id, i)
		go func(id string) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if doc, ok := s.Get(id); ok {
					// A reader must only observe committed invariants.
					if (doc.RedactedPath != "") != (doc.Stage == document.StageComplete) {
						t.Errorf("Observed half-applied update: stage=%s redacted=%q", doc.Stage, doc.RedactedPath)
						return
					}
				}
			}
		}(id)
	}
	wg.Wait()

	for _, id := range ids {
		got, _ := s.Get(id)
		if got.Stage != document.StageComplete {
			t.Errorf("Document %s should have completed, got %s", id, got.Stage)
		}
	}
}
