package tui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/barysiuk/agentkit/internal/core/engine"
)

func TestPlain_Confirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"maybe\n", false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		p := NewPlain(strings.NewReader(tt.input), &out, false, false)
		if got := p.Confirm("Proceed?"); got != tt.want {
			t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
		}
		if !strings.Contains(out.String(), "Proceed? [y/N]") {
			t.Errorf("prompt not written: %q", out.String())
		}
	}
}

func TestPlain_AssumeYes(t *testing.T) {
	var out bytes.Buffer
	p := NewPlain(strings.NewReader(""), &out, true, false)
	if !p.Confirm("Proceed?") {
		t.Error("assume-yes should confirm")
	}
	if out.Len() != 0 {
		t.Errorf("assume-yes should not prompt, got %q", out.String())
	}
}

func TestPlain_ProgressLines(t *testing.T) {
	var out bytes.Buffer
	p := NewPlain(strings.NewReader(""), &out, false, false)

	p.Progress(engine.Progress{Tool: "claude", Stage: engine.StageCreatingBackup})
	for i := 1; i <= 10; i++ {
		p.Progress(engine.Progress{
			Tool:           "claude",
			Stage:          engine.StageAddingFiles,
			FilesCompleted: i,
			TotalFiles:     10,
			Percentage:     i * 10,
		})
	}
	p.Progress(engine.Progress{Tool: "claude", Stage: engine.StageComplete, Percentage: 100})

	want := []string{
		"claude: creating backup",
		"claude: copying files 1/10 (10%)",
		"claude: copying files 3/10 (30%)",
		"claude: copying files 5/10 (50%)",
		"claude: copying files 8/10 (80%)",
		"claude: copying files 10/10 (100%)",
		"claude: done",
	}
	got := strings.Split(strings.TrimSpace(out.String()), "\n")
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("progress lines:\n got %q\nwant %q", got, want)
	}
}

func TestPlain_Quiet(t *testing.T) {
	var out bytes.Buffer
	p := NewPlain(strings.NewReader(""), &out, false, true)
	p.Progress(engine.Progress{Tool: "claude", Stage: engine.StageAddingFiles})
	err := p.Track(context.Background(), "installing", func(context.Context) error { return nil })
	if err != nil {
		t.Fatal(err)
	}
	if out.Len() != 0 {
		t.Errorf("quiet output = %q", out.String())
	}
}

func TestPlain_TrackReturnsTaskError(t *testing.T) {
	var out bytes.Buffer
	p := NewPlain(strings.NewReader(""), &out, false, false)
	want := errors.New("boom")
	if err := p.Track(context.Background(), "installing", func(context.Context) error { return want }); !errors.Is(err, want) {
		t.Errorf("Track error = %v", err)
	}
	if !strings.HasPrefix(out.String(), "installing\n") {
		t.Errorf("title not printed: %q", out.String())
	}
}

func TestNew_NonTerminalIsPlain(t *testing.T) {
	in := New(Options{In: strings.NewReader(""), Out: &bytes.Buffer{}})
	if _, ok := in.(*Plain); !ok {
		t.Errorf("New on buffers = %T, want *Plain", in)
	}
}
