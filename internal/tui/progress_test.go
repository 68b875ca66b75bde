package tui

import (
	"errors"
	"strings"
	"testing"

	"github.com/barysiuk/agentkit/internal/core/engine"
	tea "github.com/charmbracelet/bubbletea"
)

func TestProgressModel_TracksEvents(t *testing.T) {
	m := newProgressModel("installing pro")
	if !strings.Contains(m.View(), "preparing") {
		t.Error("view before any event should say preparing")
	}

	m, _ = m.update(progressEventMsg(engine.Progress{
		Tool:           "claude",
		Stage:          engine.StageAddingFiles,
		CurrentFile:    "agents/master.md",
		FilesCompleted: 3,
		TotalFiles:     10,
		Percentage:     30,
	}))
	v := m.View()
	for _, want := range []string{"claude", "copying files", "3/10", "agents/master.md"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q:\n%s", want, v)
		}
	}

	m, _ = m.update(progressEventMsg(engine.Progress{Tool: "droid", Stage: engine.StageCreatingBackup}))
	if len(m.finished) != 1 || m.finished[0] != "claude" {
		t.Errorf("finished = %v, want [claude]", m.finished)
	}
}

func TestProgressModel_DoneQuits(t *testing.T) {
	m := newProgressModel("x")
	m, _ = m.update(progressEventMsg(engine.Progress{Tool: "claude", Stage: engine.StageComplete, Percentage: 100}))
	m, cmd := m.update(taskDoneMsg{err: errors.New("boom")})
	if !m.done || m.err == nil {
		t.Fatal("expected the model to record completion")
	}
	if cmd == nil {
		t.Error("completion should quit the program")
	}
	if m.View() != "" {
		t.Error("a finished view renders nothing")
	}
}

func TestProgressModel_CtrlCAborts(t *testing.T) {
	m, cmd := newProgressModel("x").update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !m.aborted || cmd == nil {
		t.Error("ctrl+c should abort and quit")
	}
}

func TestProgressModel_TruncatesLongFiles(t *testing.T) {
	m := newProgressModel("x")
	m, _ = m.update(tea.WindowSizeMsg{Width: 20, Height: 10})
	label := m.fileLabel(strings.Repeat("a", 50))
	if len([]rune(label)) != 14 || !strings.HasSuffix(label, "…") {
		t.Errorf("fileLabel = %q", label)
	}
}

func TestStageLabel(t *testing.T) {
	if got := stageLabel(engine.StageRemovingFiles); got != "removing files" {
		t.Errorf("stageLabel = %q", got)
	}
	if got := stageLabel("other"); got != "other" {
		t.Errorf("unknown stage = %q", got)
	}
}
