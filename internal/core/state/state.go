// Package state persists the progress of a multi-tool installation so an
// interrupted run can be resumed where it stopped.
//
// Tools move strictly through pending -> in_progress -> completed|failed and
// at most one tool is in_progress at a time. The record is rewritten
// atomically after every transition.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/barysiuk/agentkit/internal/fsutil"
	"github.com/google/uuid"
)

// FileName is the state record's name inside the agentkit directory.
const FileName = "install-state.json"

// Status is the lifecycle position of one tool in a session.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

var (
	// ErrNoSession is returned when no session is loaded or persisted.
	ErrNoSession = errors.New("no installation session")
	// ErrNoCurrentTool is returned by transitions that need an in_progress tool.
	ErrNoCurrentTool = errors.New("no tool in progress")
	// ErrCorrupt is returned when the state file cannot be parsed.
	ErrCorrupt = errors.New("installation state corrupt")
)

// ToolState is the persisted progress of one tool.
type ToolState struct {
	Tool           string     `json:"tool"`
	Path           string     `json:"path"`
	Status         Status     `json:"status"`
	FilesCompleted int        `json:"filesCompleted"`
	TotalFiles     int        `json:"totalFiles"`
	BackupPath     string     `json:"backupPath,omitempty"`
	TargetExisted  bool       `json:"targetExisted,omitempty"`
	Attempts       int        `json:"attempts"`
	Error          string     `json:"error,omitempty"`
	StartedAt      *time.Time `json:"startedAt,omitempty"`
	FinishedAt     *time.Time `json:"finishedAt,omitempty"`
}

// InstallationState is the resumable record of one multi-tool run.
type InstallationState struct {
	SessionID   string      `json:"sessionId"`
	StartedAt   time.Time   `json:"startedAt"`
	LastUpdated time.Time   `json:"lastUpdated"`
	Variant     string      `json:"variant"`
	Tools       []ToolState `json:"tools"`
	CurrentTool string      `json:"currentTool,omitempty"`
}

// Tool returns the state of one tool, or nil.
func (s *InstallationState) Tool(name string) *ToolState {
	for i := range s.Tools {
		if s.Tools[i].Tool == name {
			return &s.Tools[i]
		}
	}
	return nil
}

// Done reports whether every tool completed.
func (s *InstallationState) Done() bool {
	for _, t := range s.Tools {
		if t.Status != StatusCompleted {
			return false
		}
	}
	return true
}

// Paths returns the target path of every tool.
func (s *InstallationState) Paths() map[string]string {
	out := make(map[string]string, len(s.Tools))
	for _, t := range s.Tools {
		out[t.Tool] = t.Path
	}
	return out
}

// ToolNames returns the tools in installation order.
func (s *InstallationState) ToolNames() []string {
	out := make([]string, len(s.Tools))
	for i, t := range s.Tools {
		out[i] = t.Tool
	}
	return out
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store owns the single persisted session record.
type Store struct {
	path  string
	now   func() time.Time
	state *InstallationState
}

// NewStore returns a Store persisting to path.
func NewStore(path string, opts ...Option) *Store {
	s := &Store{path: path, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultPath returns ~/.agentkit/install-state.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".agentkit", FileName), nil
}

// Path returns the location of the state file.
func (s *Store) Path() string { return s.path }

// State returns the loaded session, or nil.
func (s *Store) State() *InstallationState { return s.state }

// Initialize starts a new session with every tool pending and persists it
// immediately.
func (s *Store) Initialize(variant string, tools []string, paths map[string]string) (*InstallationState, error) {
	if len(tools) == 0 {
		return nil, errors.New("initializing session: no tools given")
	}
	now := s.now().UTC()
	st := &InstallationState{
		SessionID:   uuid.New().String(),
		StartedAt:   now,
		LastUpdated: now,
		Variant:     variant,
	}
	seen := make(map[string]bool, len(tools))
	for _, tool := range tools {
		if seen[tool] {
			return nil, fmt.Errorf("initializing session: tool %s listed twice", tool)
		}
		seen[tool] = true
		st.Tools = append(st.Tools, ToolState{
			Tool:   tool,
			Path:   paths[tool],
			Status: StatusPending,
		})
	}
	s.state = st
	if err := s.Save(); err != nil {
		return nil, err
	}
	return st, nil
}

// Load reads the persisted session. It returns ErrNoSession when there is
// none.
func (s *Store) Load() (*InstallationState, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("reading installation state: %w", err)
	}
	var st InstallationState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorrupt, s.path, err)
	}
	if st.SessionID == "" || len(st.Tools) == 0 {
		return nil, fmt.Errorf("%w: %s: missing session id or tools", ErrCorrupt, s.path)
	}
	s.state = &st
	return &st, nil
}

// Save writes the session atomically.
func (s *Store) Save() error {
	if s.state == nil {
		return ErrNoSession
	}
	s.state.LastUpdated = s.now().UTC()
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding installation state: %w", err)
	}
	if err := fsutil.AtomicWrite(s.path, data, 0o600); err != nil {
		return fmt.Errorf("saving installation state: %w", err)
	}
	return nil
}

// HasInterrupted reports whether a persisted session exists that has not
// completed every tool.
func (s *Store) HasInterrupted() bool {
	st, err := s.Load()
	if err != nil {
		return false
	}
	return !st.Done()
}

// StartTool moves a tool to in_progress. A failed tool is reset to pending
// first and restarts from zero; a tool that was already in_progress (the run
// crashed) keeps its counters so it can be resumed.
func (s *Store) StartTool(tool string) (*ToolState, error) {
	if s.state == nil {
		return nil, ErrNoSession
	}
	ts := s.state.Tool(tool)
	if ts == nil {
		return nil, fmt.Errorf("tool %s is not part of session %s", tool, s.state.SessionID)
	}
	if cur := s.state.CurrentTool; cur != "" && cur != tool {
		if other := s.state.Tool(cur); other != nil && other.Status == StatusInProgress {
			return nil, fmt.Errorf("cannot start %s: %s is still in progress", tool, cur)
		}
	}

	switch ts.Status {
	case StatusCompleted:
		return nil, fmt.Errorf("tool %s already completed", tool)
	case StatusFailed:
		ts.Status = StatusPending
		ts.FilesCompleted = 0
		ts.TotalFiles = 0
		ts.BackupPath = ""
		ts.TargetExisted = false
		ts.Error = ""
		fallthrough
	case StatusPending:
		now := s.now().UTC()
		ts.StartedAt = &now
		ts.FinishedAt = nil
		ts.Attempts++
	case StatusInProgress:
		// Resumed after a crash.
	}

	ts.Status = StatusInProgress
	s.state.CurrentTool = tool
	if err := s.Save(); err != nil {
		return nil, err
	}
	return ts, nil
}

func (s *Store) current() (*ToolState, error) {
	if s.state == nil {
		return nil, ErrNoSession
	}
	ts := s.state.Tool(s.state.CurrentTool)
	if ts == nil || ts.Status != StatusInProgress {
		return nil, ErrNoCurrentTool
	}
	return ts, nil
}

// UpdateProgress records the file counter of the in-progress tool.
func (s *Store) UpdateProgress(completed, total int) error {
	ts, err := s.current()
	if err != nil {
		return err
	}
	ts.FilesCompleted = completed
	ts.TotalFiles = total
	return s.Save()
}

// RecordBackup remembers where the in-progress tool's backup lives and
// whether its target existed before the tool started, so a resumed run can
// still roll back.
func (s *Store) RecordBackup(backupPath string, targetExisted bool) error {
	ts, err := s.current()
	if err != nil {
		return err
	}
	ts.BackupPath = backupPath
	ts.TargetExisted = targetExisted
	return s.Save()
}

// CompleteCurrentTool marks the in-progress tool completed.
func (s *Store) CompleteCurrentTool() error {
	ts, err := s.current()
	if err != nil {
		return err
	}
	now := s.now().UTC()
	ts.Status = StatusCompleted
	ts.FinishedAt = &now
	ts.Error = ""
	if ts.TotalFiles > 0 {
		ts.FilesCompleted = ts.TotalFiles
	}
	s.state.CurrentTool = ""
	return s.Save()
}

// FailCurrentTool marks the in-progress tool failed and records the error.
// The session stays resumable.
func (s *Store) FailCurrentTool(cause error) error {
	ts, err := s.current()
	if err != nil {
		return err
	}
	now := s.now().UTC()
	ts.Status = StatusFailed
	ts.FinishedAt = &now
	if cause != nil {
		ts.Error = cause.Error()
	}
	s.state.CurrentTool = ""
	return s.Save()
}

// PendingTools returns the tools that still need work, in order.
func (s *Store) PendingTools() []ToolState {
	if s.state == nil {
		return nil
	}
	var out []ToolState
	for _, t := range s.state.Tools {
		if t.Status != StatusCompleted {
			out = append(out, t)
		}
	}
	return out
}

// Clear deletes the persisted record.
func (s *Store) Clear() error {
	s.state = nil
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clearing installation state: %w", err)
	}
	return nil
}

// ToolSummary is one row of a resume summary.
type ToolSummary struct {
	Tool           string
	Path           string
	Status         Status
	FilesCompleted int
	TotalFiles     int
	Error          string
}

// Summary is a human-oriented snapshot of a session.
type Summary struct {
	SessionID string
	Variant   string
	StartedAt time.Time
	Elapsed   time.Duration
	Tools     []ToolSummary
	Completed int
	Remaining int
	// Current is the tool that was in progress, if any, and Fraction its
	// file progress in [0, 1].
	Current  string
	Fraction float64
}

// ResumeSummary describes the loaded session.
func (s *Store) ResumeSummary() (Summary, error) {
	if s.state == nil {
		return Summary{}, ErrNoSession
	}
	st := s.state
	sum := Summary{
		SessionID: st.SessionID,
		Variant:   st.Variant,
		StartedAt: st.StartedAt,
		Elapsed:   s.now().Sub(st.StartedAt),
	}
	for _, t := range st.Tools {
		sum.Tools = append(sum.Tools, ToolSummary{
			Tool:           t.Tool,
			Path:           t.Path,
			Status:         t.Status,
			FilesCompleted: t.FilesCompleted,
			TotalFiles:     t.TotalFiles,
			Error:          t.Error,
		})
		if t.Status == StatusCompleted {
			sum.Completed++
		} else {
			sum.Remaining++
		}
		if t.Status == StatusInProgress {
			sum.Current = t.Tool
			if t.TotalFiles > 0 {
				sum.Fraction = float64(t.FilesCompleted) / float64(t.TotalFiles)
			}
		}
	}
	return sum, nil
}
