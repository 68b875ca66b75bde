package tui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/barysiuk/agentkit/internal/core/engine"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

// ErrAborted is returned by Track when the user interrupts the view.
var ErrAborted = errors.New("aborted")

// Interaction is how commands talk to the user while an operation runs.
type Interaction interface {
	// Confirm asks a yes/no question. The default answer is no.
	Confirm(prompt string) bool
	// Progress receives engine progress events. It is safe to call from
	// the goroutine running a tracked task.
	Progress(p engine.Progress)
	// Track runs fn while presenting its progress under title.
	Track(ctx context.Context, title string, fn func(ctx context.Context) error) error
}

// Options configures New.
type Options struct {
	In  io.Reader
	Out io.Writer
	// AssumeYes answers every confirmation with yes.
	AssumeYes bool
	// Quiet suppresses progress output.
	Quiet bool
	// Plain forces line-based output even on a terminal.
	Plain bool
}

// New returns a Terminal when both streams are terminals and a Plain
// interaction otherwise.
func New(opts Options) Interaction {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if !opts.Plain && isTerminal(opts.In) && isTerminal(opts.Out) {
		return &Terminal{in: opts.In, out: opts.Out, assumeYes: opts.AssumeYes, quiet: opts.Quiet}
	}
	return NewPlain(opts.In, opts.Out, opts.AssumeYes, opts.Quiet)
}

func isTerminal(v any) bool {
	f, ok := v.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Plain prompts on a line and prints one line per stage and tool.
type Plain struct {
	in        *bufio.Reader
	out       io.Writer
	assumeYes bool
	quiet     bool

	mu    sync.Mutex
	last  engine.Progress
	shown bool
}

// NewPlain returns a line-based Interaction.
func NewPlain(in io.Reader, out io.Writer, assumeYes, quiet bool) *Plain {
	return &Plain{in: bufio.NewReader(in), out: out, assumeYes: assumeYes, quiet: quiet}
}

func (p *Plain) Confirm(prompt string) bool {
	if p.assumeYes {
		return true
	}
	fmt.Fprintf(p.out, "%s [y/N] ", prompt)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(p.out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// Progress prints a line when the tool or stage changes, and every 25
// percent while files are copied.
func (p *Plain) Progress(ev engine.Progress) {
	if p.quiet {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	changed := !p.shown || ev.Tool != p.last.Tool || ev.Stage != p.last.Stage
	milestone := ev.Stage == engine.StageAddingFiles && ev.Percentage/25 != p.last.Percentage/25
	p.last = ev
	p.shown = true
	if !changed && !milestone {
		return
	}
	line := fmt.Sprintf("%s: %s", ev.Tool, stageLabel(ev.Stage))
	if ev.Stage == engine.StageAddingFiles && ev.TotalFiles > 0 {
		line += fmt.Sprintf(" %d/%d (%d%%)", ev.FilesCompleted, ev.TotalFiles, ev.Percentage)
	}
	fmt.Fprintln(p.out, line)
}

func (p *Plain) Track(ctx context.Context, title string, fn func(ctx context.Context) error) error {
	if !p.quiet {
		fmt.Fprintln(p.out, title)
	}
	return fn(ctx)
}

// Terminal runs bubbletea programs for confirmations and progress.
type Terminal struct {
	in        io.Reader
	out       io.Writer
	assumeYes bool
	quiet     bool

	mu      sync.Mutex
	program *tea.Program
}

func (t *Terminal) Confirm(prompt string) bool {
	if t.assumeYes {
		return true
	}
	final, err := tea.NewProgram(newConfirmModel(prompt), tea.WithInput(t.in), tea.WithOutput(t.out)).Run()
	if err != nil {
		return false
	}
	m, ok := final.(confirmModel)
	return ok && m.confirmed
}

func (t *Terminal) Progress(ev engine.Progress) {
	t.mu.Lock()
	p := t.program
	t.mu.Unlock()
	if p != nil {
		p.Send(progressEventMsg(ev))
	}
}

// Track runs fn in the background while the progress view is shown.
// ctrl+c cancels fn's context; Track waits for fn to return either way.
func (t *Terminal) Track(ctx context.Context, title string, fn func(ctx context.Context) error) error {
	if t.quiet {
		return fn(ctx)
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newProgressModel(title), tea.WithInput(t.in), tea.WithOutput(t.out), tea.WithContext(ctx))
	t.mu.Lock()
	t.program = p
	t.mu.Unlock()
	defer func() {
		t.mu.Lock()
		t.program = nil
		t.mu.Unlock()
	}()

	result := make(chan error, 1)
	go func() {
		err := fn(ctx)
		result <- err
		p.Send(taskDoneMsg{err: err})
	}()

	final, runErr := p.Run()
	if m, ok := final.(progressModel); ok && m.aborted {
		cancel()
		if err := <-result; err != nil {
			return err
		}
		return ErrAborted
	}
	err := <-result
	if err == nil && runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return runErr
	}
	return err
}
