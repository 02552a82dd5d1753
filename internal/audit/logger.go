package audit

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// EventType represents the type of audit event
type EventType string

const (
	EventProfileCreate EventType = "PROFILE_CREATE"
	EventProfileUpdate EventType = "PROFILE_UPDATE"
	EventProfileDelete EventType = "PROFILE_DELETE"
	EventProfileApply  EventType = "PROFILE_APPLY"
	EventError         EventType = "ERROR"
)

// Severity represents the severity level of an audit event
type Severity string

const (
	SeverityInfo  Severity = "INFO"
	SeverityError Severity = "ERROR"
)

// AuditEvent represents a single audit log entry
type AuditEvent struct {
	ID        string                 `json:"id"`
	Timestamp time.Time              `json:"timestamp"`
	Type      EventType              `json:"type"`
	Severity  Severity               `json:"severity"`
	Source    string                 `json:"source"`
	Profile   string                 `json:"profile,omitempty"`
	Resource  string                 `json:"resource,omitempty"`
	Action    string                 `json:"action"`
	Result    string                 `json:"result"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

// Logger appends audit events to a file, one JSON object per line. Writes
// are synchronous; a nil or disabled Logger drops events.
type Logger struct {
	file     io.Closer
	filepath string
	zl       zerolog.Logger
	now      func() time.Time
}

// Config represents logger configuration
type Config struct {
	FilePath string
}

// NewLogger opens (creating if needed) the audit log at config.FilePath
func NewLogger(config Config) (*Logger, error) {
	dir := filepath.Dir(config.FilePath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create audit log directory: %w", err)
	}

	file, err := os.OpenFile(config.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log file: %w", err)
	}

	return &Logger{
		file:     file,
		filepath: config.FilePath,
		zl:       zerolog.New(file),
		now:      time.Now,
	}, nil
}

// Disabled returns a logger that records nothing
func Disabled() *Logger {
	return &Logger{zl: zerolog.Nop(), now: time.Now}
}

// Log writes an audit event
func (l *Logger) Log(event *AuditEvent) {
	if l == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = l.now().UTC()
	}
	if event.ID == "" {
		event.ID = generateEventID(event.Timestamp)
	}

	e := l.zl.Log().
		Str("id", event.ID).
		Time("timestamp", event.Timestamp).
		Str("type", string(event.Type)).
		Str("severity", string(event.Severity)).
		Str("source", event.Source).
		Str("action", event.Action).
		Str("result", event.Result)
	if event.Profile != "" {
		e = e.Str("profile", event.Profile)
	}
	if event.Resource != "" {
		e = e.Str("resource", event.Resource)
	}
	if details := sanitize(event.Details); len(details) > 0 {
		e = e.Dict("details", zerolog.Dict().Fields(details))
	}
	if event.Error != "" {
		e = e.Str("error", event.Error)
	}
	e.Send()
}

// LogProfileOperation logs a change to the profile store
func (l *Logger) LogProfileOperation(operation EventType, profile string, details map[string]interface{}) {
	l.Log(&AuditEvent{
		Type:     operation,
		Severity: SeverityInfo,
		Source:   "store",
		Profile:  profile,
		Action:   string(operation),
		Result:   "SUCCESS",
		Details:  details,
	})
}

// LogApply logs a profile being written into a repository config
func (l *Logger) LogApply(profile, repo string, changed []string, err error) {
	event := &AuditEvent{
		Type:     EventProfileApply,
		Severity: SeverityInfo,
		Source:   "git",
		Profile:  profile,
		Resource: repo,
		Action:   "apply",
		Result:   "SUCCESS",
		Details:  map[string]interface{}{"changed": changed},
	}
	if err != nil {
		event.Severity = SeverityError
		event.Result = "FAILED"
		event.Error = err.Error()
	}
	l.Log(event)
}

// LogError logs an error event
func (l *Logger) LogError(source string, err error, details map[string]interface{}) {
	l.Log(&AuditEvent{
		Type:     EventError,
		Severity: SeverityError,
		Source:   source,
		Action:   "error",
		Result:   "ERROR",
		Error:    err.Error(),
		Details:  details,
	})
}

// Close closes the audit log file
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	l.zl = zerolog.Nop()
	return err
}

// generateEventID generates a unique event ID
func generateEventID(ts time.Time) string {
	return fmt.Sprintf("%d-%d", ts.UnixNano(), os.Getpid())
}

// sanitize drops details whose key suggests secret material
func sanitize(details map[string]interface{}) map[string]interface{} {
	if len(details) == 0 {
		return nil
	}
	clean := make(map[string]interface{}, len(details))
	for k, v := range details {
		if !isSensitiveKey(k) {
			clean[k] = v
		}
	}
	return clean
}

// isSensitiveKey checks if a key contains sensitive information
func isSensitiveKey(key string) bool {
	sensitiveKeys := []string{
		"password", "secret", "key", "token", "auth", "credential",
		"private", "passphrase", "signing", "ssh", "command",
	}

	keyLower := strings.ToLower(key)
	for _, sensitive := range sensitiveKeys {
		if strings.Contains(keyLower, sensitive) {
			return true
		}
	}
	return false
}
