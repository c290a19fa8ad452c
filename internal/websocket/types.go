package websocket

import (
	"time"

	"github.com/Anas09876/FinDeIdentify/internal/document"
)

// EventType represents the type of WebSocket event
type EventType string

const (
	// EventTypeStageProgress represents a pipeline stage transition
	EventTypeStageProgress EventType = "stage_progress"
	// EventTypeConnection represents connection events
	EventTypeConnection EventType = "connection"
)

// Event represents a WebSocket event sent to clients
type Event struct {
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// StageProgressEvent mirrors one committed stage transition of a document
type StageProgressEvent struct {
	DocumentID string         `json:"document_id"`
	Stage      document.Stage `json:"stage"`
	Progress   int            `json:"progress"`
	Message    string         `json:"message"`
}

// ConnectionEvent represents WebSocket connection events
type ConnectionEvent struct {
	Action   string `json:"action"` // "connected", "disconnected"
	ClientID string `json:"client_id"`
	ClientIP string `json:"client_ip"`
}

// Client represents a WebSocket client connection
type Client struct {
	ID          string
	Send        chan Event
	ConnectedAt time.Time
	IP          string
}
