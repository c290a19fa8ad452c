package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Anas09876/FinDeIdentify/internal/document"
)

// Store is the authoritative in-memory record of every document. All
// operations are atomic with respect to a single record: a reader observes
// whatever state was last committed, never a partial write. Records are
// handed out as deep copies.
//
// The store does not drive stage progression; that is the orchestrator's job.
type Store struct {
	mu        sync.RWMutex
	documents map[string]*document.Document
	now       func() time.Time
}

// New creates an empty document store
func New() *Store {
	return &Store{
		documents: make(map[string]*document.Document),
		now:       time.Now,
	}
}

// Create registers a new document record with a generated id and pending
// stage, and returns a copy of it.
func (s *Store) Create(doc document.Document) *document.Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	doc.ID = uuid.NewString()
	doc.Stage = document.StagePending
	doc.Progress = 0
	doc.CreatedAt = now
	doc.UpdatedAt = now

	s.documents[doc.ID] = &doc
	return doc.Clone()
}

// Get returns a copy of the record, or false when the id is unknown.
func (s *Store) Get(id string) (*document.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.documents[id]
	if !ok {
		return nil, false
	}
	return doc.Clone(), true
}

// List returns copies of all records, in no particular order.
func (s *Store) List() []*document.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]*document.Document, 0, len(s.documents))
	for _, doc := range s.documents {
		docs = append(docs, doc.Clone())
	}
	return docs
}

// Update applies mutate to the record under the write lock and refreshes the
// last-update timestamp. Unknown ids are a no-op returning false; a run whose
// document was deleted mid-flight lands here harmlessly.
func (s *Store) Update(id string, mutate func(*document.Document)) (*document.Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.documents[id]
	if !ok {
		return nil, false
	}

	mutate(doc)
	doc.UpdatedAt = s.now()
	return doc.Clone(), true
}

// Delete removes the record. It reports whether a record existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.documents[id]; !ok {
		return false
	}
	delete(s.documents, id)
	return true
}

// SetStage advances the record to the given stage with progress metadata.
// Illegal transitions are refused so a stale run can never regress a record.
func (s *Store) SetStage(id string, stage document.Stage, progress int, message string) bool {
	applied := false
	s.Update(id, func(doc *document.Document) {
		if !document.CanTransition(doc.Stage, stage) {
			return
		}
		doc.Stage = stage
		doc.Progress = progress
		doc.Message = message
		applied = true
	})
	return applied
}

// Complete commits the redacted artifact path, the detection result, stage
// complete and 100% progress in one atomic write. The detection result is
// attached here, not earlier, so no reader ever sees a later stage with a
// missing result.
func (s *Store) Complete(id, redactedPath string, result document.DetectionResult) bool {
	applied := false
	s.Update(id, func(doc *document.Document) {
		if !document.CanTransition(doc.Stage, document.StageComplete) {
			return
		}
		doc.Stage = document.StageComplete
		doc.Progress = 100
		doc.Message = "Document processing complete"
		doc.RedactedPath = redactedPath
		doc.Detection = &result
		applied = true
	})
	return applied
}

// Fail moves the record to the terminal error stage with a human-readable
// cause. Progress resets to zero.
func (s *Store) Fail(id, message string) bool {
	applied := false
	s.Update(id, func(doc *document.Document) {
		if !document.CanTransition(doc.Stage, document.StageError) {
			return
		}
		doc.Stage = document.StageError
		doc.Progress = 0
		doc.Message = message
		applied = true
	})
	return applied
}
