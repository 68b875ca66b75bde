package tui

import (
	"fmt"
	"strings"

	"github.com/barysiuk/agentkit/internal/core/engine"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

const progressWidth = 40

// progressEventMsg carries one engine progress event into the program.
type progressEventMsg engine.Progress

// taskDoneMsg is sent when the tracked task returns.
type taskDoneMsg struct{ err error }

// progressModel renders a spinner, the current stage and a bar for the
// task started by Track.
type progressModel struct {
	title    string
	spinner  spinner.Model
	bar      progress.Model
	help     help.Model
	last     engine.Progress
	seen     bool
	finished []string
	done     bool
	err      error
	aborted  bool
	width    int
}

func newProgressModel(title string) progressModel {
	return progressModel{
		title: title,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(spinnerStyle),
		),
		bar:  progress.New(progress.WithDefaultGradient(), progress.WithWidth(progressWidth)),
		help: help.New(),
	}
}

func (m progressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := m.update(msg)
	return m, cmd
}

func (m progressModel) update(msg tea.Msg) (progressModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			m.aborted = true
			return m, tea.Quit
		}
		return m, nil

	case progressEventMsg:
		p := engine.Progress(msg)
		if m.seen && p.Tool != m.last.Tool && m.last.Tool != "" {
			m.finished = append(m.finished, m.last.Tool)
		}
		m.last = p
		m.seen = true
		return m, nil

	case taskDoneMsg:
		m.done = true
		m.err = msg.err
		if m.seen && m.last.Stage == engine.StageComplete {
			m.finished = append(m.finished, m.last.Tool)
		}
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m progressModel) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder
	b.WriteString(Title(m.title))
	b.WriteString("\n\n")
	for _, tool := range m.finished {
		b.WriteString(successStyle.Render("  ✓ "))
		b.WriteString(toolStyle.Render(tool))
		b.WriteString("\n")
	}

	if !m.seen {
		b.WriteString(fmt.Sprintf("  %s preparing\n", m.spinner.View()))
	} else {
		p := m.last
		b.WriteString(fmt.Sprintf("  %s %s %s\n", m.spinner.View(), toolStyle.Render(p.Tool), mutedStyle.Render(stageLabel(p.Stage))))
		b.WriteString("    ")
		b.WriteString(m.bar.ViewAs(float64(p.Percentage) / 100))
		if p.TotalFiles > 0 {
			b.WriteString(mutedStyle.Render(fmt.Sprintf("  %d/%d", p.FilesCompleted, p.TotalFiles)))
		}
		b.WriteString("\n")
		if p.CurrentFile != "" {
			b.WriteString("    ")
			b.WriteString(mutedStyle.Render(m.fileLabel(p.CurrentFile)))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(progressHelpKeyMap{})))
	b.WriteString("\n")
	return b.String()
}

// fileLabel fits the current file into the terminal width.
func (m progressModel) fileLabel(name string) string {
	limit := 60
	if m.width > 8 {
		limit = m.width - 6
	}
	return ansi.Truncate(name, limit, "…")
}

var stageLabels = map[engine.Stage]string{
	engine.StageReadingManifest:   "reading manifest",
	engine.StageComparingVariants: "comparing variants",
	engine.StageCreatingBackup:    "creating backup",
	engine.StageRemovingFiles:     "removing files",
	engine.StageAddingFiles:       "copying files",
	engine.StageUpdatingManifest:  "updating manifest",
	engine.StageVerifying:         "verifying",
	engine.StageComplete:          "done",
}

func stageLabel(s engine.Stage) string {
	if l, ok := stageLabels[s]; ok {
		return l
	}
	return string(s)
}
