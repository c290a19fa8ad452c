package document

import "fmt"

// ValidationError rejects an upload before any record is created.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid upload: %s", e.Reason)
}

// ValidateUpload checks content type and size against the accepted set. It
// never touches the store; a rejected upload leaves no trace.
func ValidateUpload(contentType string, size int64) error {
	if !SupportedContentType(contentType) {
		return &ValidationError{Reason: fmt.Sprintf("unsupported file type %q (only PDF, JPG and PNG are allowed)", contentType)}
	}
	if size > MaxUploadSize {
		return &ValidationError{Reason: fmt.Sprintf("file size %d exceeds the %d byte limit", size, MaxUploadSize)}
	}
	return nil
}
