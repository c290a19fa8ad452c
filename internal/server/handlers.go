package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/Anas09876/FinDeIdentify/internal/artifact"
	"github.com/Anas09876/FinDeIdentify/internal/document"
)

// handleUpload accepts a multipart upload, creates the document record and
// schedules orchestration. The call returns before processing completes;
// clients poll the status endpoint.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	requestID := getRequestID(r.Context())
	log := s.logger.WithRequestID(requestID)

	r.Body = http.MaxBytesReader(w, r.Body, document.MaxUploadSize+1024)
	file, header, err := r.FormFile("document")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")

	// Validation happens before any record or byte storage exists; a
	// rejected upload leaves no trace.
	if err := document.ValidateUpload(contentType, header.Size); err != nil {
		var vErr *document.ValidationError
		if errors.As(err, &vErr) {
			writeError(w, http.StatusBadRequest, vErr.Reason)
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	originalPath, err := s.artifacts.SaveOriginal(header.Filename, file)
	if err != nil {
		log.Error("Failed to persist upload", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Upload failed")
		return
	}

	doc := s.store.Create(document.Document{
		Filename:     header.Filename,
		OriginalPath: originalPath,
		ContentType:  contentType,
		Size:         header.Size,
	})

	s.orchestrator.Submit(doc.ID)

	log.Info("Document accepted",
		zap.String("document_id", doc.ID),
		zap.String("filename", doc.Filename),
		zap.String("content_type", contentType),
		zap.Int64("size", header.Size),
	)

	writeJSON(w, http.StatusOK, doc)
}

// handleGetDocument returns the current record; absence is a 404, not an
// error. Safe to call at high polling frequency.
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	doc, ok := s.store.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Document not found")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// handleGetFile serves the original or redacted artifact bytes inline.
func (s *Server) handleGetFile(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, variant := vars["id"], vars["variant"]

	doc, ok := s.store.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Document not found")
		return
	}

	var path string
	switch variant {
	case "original":
		path = doc.OriginalPath
	case "redacted":
		path = doc.RedactedPath
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown variant %q", variant))
		return
	}
	if path == "" {
		writeError(w, http.StatusNotFound, fmt.Sprintf("%s file not available", variant))
		return
	}

	data, err := s.artifacts.Read(path)
	if err != nil {
		s.logger.Error("Failed to read artifact", zap.String("document_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to read file")
		return
	}

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`inline; filename="%s_%s"`, variant, artifact.SanitizeFilename(doc.Filename)))
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Write(data)
}

// handleDeleteDocument removes the record and both byte artifacts.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	doc, ok := s.store.Get(id)
	if ok {
		if err := s.artifacts.Remove(doc.OriginalPath, doc.RedactedPath); err != nil {
			s.logger.Error("Artifact cleanup failed", zap.String("document_id", id), zap.Error(err))
		}
	}

	if !s.store.Delete(id) {
		writeError(w, http.StatusNotFound, "Document not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Document deleted"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
