package document

import "time"

// Stage represents one discrete step of the processing pipeline.
type Stage string

const (
	StagePending   Stage = "pending"
	StageOCR       Stage = "ocr"
	StageDetection Stage = "detection"
	StageRedaction Stage = "redaction"
	StageComplete  Stage = "complete"
	StageError     Stage = "error"
)

// stageOrder fixes the forward progression of the pipeline. Terminal stages
// are not part of the ordering.
var stageOrder = map[Stage]int{
	StagePending:   0,
	StageOCR:       1,
	StageDetection: 2,
	StageRedaction: 3,
	StageComplete:  4,
}

// Terminal reports whether no further pipeline activity is allowed for a
// document in this stage.
func (s Stage) Terminal() bool {
	return s == StageComplete || s == StageError
}

// CanTransition reports whether moving from one stage to another is legal:
// forward-adjacent only, plus any non-terminal stage into error.
func CanTransition(from, to Stage) bool {
	if from.Terminal() {
		return false
	}
	if to == StageError {
		return true
	}
	fromIdx, ok := stageOrder[from]
	if !ok {
		return false
	}
	toIdx, ok := stageOrder[to]
	if !ok {
		return false
	}
	return toIdx == fromIdx+1
}

// Supported content types. The ingress layer rejects everything else before a
// record is created.
const (
	ContentTypePDF  = "application/pdf"
	ContentTypeJPEG = "image/jpeg"
	ContentTypePNG  = "image/png"
)

// MaxUploadSize is the upload ceiling in bytes (10 MiB).
const MaxUploadSize = 10 << 20

// SupportedContentType reports whether the given MIME type is accepted.
func SupportedContentType(contentType string) bool {
	switch contentType {
	case ContentTypePDF, ContentTypeJPEG, ContentTypePNG, "image/jpg":
		return true
	}
	return false
}

// Rect is a rectangular area in pixel coordinates, origin top-left.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// RegionKind identifies the kind of visual area requiring opaque masking.
type RegionKind string

const (
	RegionPhoto     RegionKind = "photo"
	RegionSignature RegionKind = "signature"
	RegionQRCode    RegionKind = "qr_code"
)

// Match is a single detected instance of a sensitive pattern.
type Match struct {
	Original string `json:"original"`
	Masked   string `json:"masked"`
	Position *Rect  `json:"position,omitempty"`
}

// BlurRegion is a detected or heuristically inferred visual area that must be
// covered in the redacted artifact.
type BlurRegion struct {
	Kind     RegionKind `json:"type"`
	Position Rect       `json:"position"`
}

// DetectionResult aggregates all matches and blur regions for one document.
// It is produced once and immutable once attached to a record.
type DetectionResult struct {
	AadhaarNumbers []Match      `json:"aadhaarNumbers"`
	PANNumbers     []Match      `json:"panNumbers"`
	PhoneNumbers   []Match      `json:"phoneNumbers"`
	BlurredRegions []BlurRegion `json:"blurredRegions"`
}

// Total returns the number of pattern matches across all categories.
func (r DetectionResult) Total() int {
	return len(r.AadhaarNumbers) + len(r.PANNumbers) + len(r.PhoneNumbers)
}

// Document is the authoritative record of one uploaded document's metadata,
// lifecycle stage and detection results.
type Document struct {
	ID           string           `json:"id"`
	Filename     string           `json:"filename"`
	OriginalPath string           `json:"originalPath"`
	RedactedPath string           `json:"redactedPath,omitempty"`
	ContentType  string           `json:"fileType"`
	Size         int64            `json:"fileSize"`
	Stage        Stage            `json:"stage"`
	Progress     int              `json:"progress"`
	Message      string           `json:"message,omitempty"`
	Detection    *DetectionResult `json:"detectedSensitiveData,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// Clone returns a deep copy so callers can never mutate store state through a
// returned record.
func (d *Document) Clone() *Document {
	cp := *d
	if d.Detection != nil {
		det := *d.Detection
		det.AadhaarNumbers = cloneMatches(d.Detection.AadhaarNumbers)
		det.PANNumbers = cloneMatches(d.Detection.PANNumbers)
		det.PhoneNumbers = cloneMatches(d.Detection.PhoneNumbers)
		det.BlurredRegions = append([]BlurRegion(nil), d.Detection.BlurredRegions...)
		cp.Detection = &det
	}
	return &cp
}

func cloneMatches(in []Match) []Match {
	if in == nil {
		return nil
	}
	out := make([]Match, len(in))
	for i, m := range in {
		out[i] = m
		if m.Position != nil {
			pos := *m.Position
			out[i].Position = &pos
		}
	}
	return out
}
