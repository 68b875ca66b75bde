// Package telemetry records anonymous usage events to a local log when the
// user has opted in. Recording is best effort and never fails an operation.
package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/barysiuk/agentkit/internal/logger"
)

// FileName is the log's name inside the agentkit directory.
const FileName = "telemetry.log"

// Event kinds.
const (
	EventInstallation   = "installation"
	EventUninstallation = "uninstallation"
	EventUpgrade        = "upgrade"
)

// Event is one anonymous usage record. It never carries paths, tool names
// or user information.
type Event struct {
	Timestamp    time.Time `json:"timestamp"`
	Event        string    `json:"event"`
	Variant      string    `json:"variant,omitempty"`
	FromVariant  string    `json:"fromVariant,omitempty"`
	ToVariant    string    `json:"toVariant,omitempty"`
	ToolCount    int       `json:"toolCount,omitempty"`
	DurationMs   int64     `json:"durationMs,omitempty"`
	Success      bool      `json:"success"`
	ErrorCount   int       `json:"errorCount"`
	WarningCount int       `json:"warningCount"`
	OSType       string    `json:"osType"`
	GoVersion    string    `json:"goVersion"`
	Version      string    `json:"agentkitVersion"`
}

// Installation builds an installation event.
func Installation(variant string, tools int, took time.Duration, success bool, errs, warnings int) Event {
	return Event{
		Event:        EventInstallation,
		Variant:      variant,
		ToolCount:    tools,
		DurationMs:   took.Milliseconds(),
		Success:      success,
		ErrorCount:   errs,
		WarningCount: warnings,
	}
}

// Uninstallation builds an uninstallation event.
func Uninstallation(success bool) Event {
	return Event{Event: EventUninstallation, Success: success}
}

// Upgrade builds a variant change event.
func Upgrade(from, to string, success bool) Event {
	return Event{Event: EventUpgrade, FromVariant: from, ToVariant: to, Success: success}
}

// Sink receives usage events.
type Sink interface {
	Record(ctx context.Context, ev Event)
}

// Nop discards every event.
type Nop struct{}

func (Nop) Record(context.Context, Event) {}

// FileSink appends events as JSON lines to a file when enabled.
type FileSink struct {
	path    string
	enabled bool
	version string
	now     func() time.Time
	mu      sync.Mutex
}

// NewFileSink returns a sink writing to path. A disabled sink records
// nothing.
func NewFileSink(path string, enabled bool, version string) *FileSink {
	return &FileSink{path: path, enabled: enabled, version: version, now: time.Now}
}

// Path returns the log file path.
func (s *FileSink) Path() string { return s.path }

// Enabled reports whether events are recorded.
func (s *FileSink) Enabled() bool { return s.enabled }

// Record appends ev to the log. Failures are logged and otherwise ignored.
func (s *FileSink) Record(ctx context.Context, ev Event) {
	if !s.enabled {
		return
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = s.now().UTC()
	}
	ev.OSType = runtime.GOOS
	ev.GoVersion = runtime.Version()
	ev.Version = s.version

	if err := s.append(ev); err != nil {
		logger.G(ctx).WithError(err).Debug("telemetry event dropped")
	}
}

func (s *FileSink) append(ev Event) error {
	line, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	line = append(line, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	if _, err := f.Write(line); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Clear deletes the log. A missing log is not an error.
func (s *FileSink) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clearing telemetry data: %w", err)
	}
	return nil
}

// Count returns how many events the log holds.
func (s *FileSink) Count() int {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return 0
	}
	n := 0
	for _, b := range data {
		if b == '\n' {
			n++
		}
	}
	return n
}
