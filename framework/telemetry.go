package framework

import (
	"encoding/json"
	"log"
	"os"
	"sync"
	"time"
)

// EventType categorizes telemetry events.
type EventType string

const (
	EventScanStart    EventType = "scan_start"
	EventScanFinish   EventType = "scan_finish"
	EventFileScanned  EventType = "file_scanned"
	EventFileCached   EventType = "file_cached"
	EventFileSkipped  EventType = "file_skipped"
	EventFileError    EventType = "file_error"
	EventHookError    EventType = "hook_error"
	EventMovesApplied EventType = "moves_applied"
	EventMovesUndone  EventType = "moves_undone"
)

// Event captures structured telemetry data.
type Event struct {
	Type      EventType              `json:"type"`
	Path      string                 `json:"path,omitempty"`
	Status    string                 `json:"status,omitempty"`
	Message   string                 `json:"message,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Telemetry receives scan and move events. Every component accepts a nil
// Telemetry and then emits nothing.
type Telemetry interface {
	Emit(event Event)
}

// Emit sends event to t when t is non-nil, stamping the time if missing.
func Emit(t Telemetry, event Event) {
	if t == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	t.Emit(event)
}

// MultiplexTelemetry broadcasts events to multiple sinks.
type MultiplexTelemetry struct {
	Sinks []Telemetry
}

// Emit forwards the event to all registered sinks.
func (m MultiplexTelemetry) Emit(event Event) {
	for _, s := range m.Sinks {
		if s != nil {
			s.Emit(event)
		}
	}
}

// JSONFileTelemetry writes events as newline-delimited JSON to a file.
type JSONFileTelemetry struct {
	path string
	file *os.File
	enc  *json.Encoder
	mu   sync.Mutex
}

// NewJSONFileTelemetry opens (or creates) the log file.
func NewJSONFileTelemetry(path string) (*JSONFileTelemetry, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return &JSONFileTelemetry{
		path: path,
		file: f,
		enc:  json.NewEncoder(f),
	}, nil
}

// Emit writes the JSON record.
func (j *JSONFileTelemetry) Emit(event Event) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.enc != nil {
		_ = j.enc.Encode(event)
	}
}

// Close releases the file handle.
func (j *JSONFileTelemetry) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.file != nil {
		err := j.file.Close()
		j.file = nil
		j.enc = nil
		return err
	}
	return nil
}

// LoggerTelemetry emits events via the standard logger. Per-file events are
// only printed when Verbose is set so a normal scan stays quiet.
type LoggerTelemetry struct {
	Logger  *log.Logger
	Verbose bool
}

// Emit logs the event.
func (t LoggerTelemetry) Emit(event Event) {
	logger := t.Logger
	if logger == nil {
		logger = log.Default()
	}
	switch event.Type {
	case EventFileScanned, EventFileCached, EventFileSkipped:
		if !t.Verbose {
			return
		}
	}
	if len(event.Metadata) > 0 {
		logger.Printf("[%s] path=%s status=%s meta=%v msg=%s\n", event.Type, event.Path, event.Status, event.Metadata, event.Message)
		return
	}
	logger.Printf("[%s] path=%s status=%s msg=%s\n", event.Type, event.Path, event.Status, event.Message)
}
