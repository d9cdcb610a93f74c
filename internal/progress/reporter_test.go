package progress

import (
	"bytes"
	"errors"
	"testing"
)

func TestNewReporterInCI(t *testing.T) {
	t.Setenv("CI", "true")
	if _, ok := NewReporter().(*CIReporter); !ok {
		t.Error("expected CIReporter when CI is set")
	}
}

func TestNewReporterInTerminal(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("GITHUB_ACTIONS", "")
	if _, ok := NewReporter().(*TerminalReporter); !ok {
		t.Error("expected TerminalReporter outside CI")
	}
}

func TestCIReporterOutput(t *testing.T) {
	var buf bytes.Buffer
	r := &CIReporter{Out: &buf}
	r.Start(2)
	r.Page(1, "blog", "blog/body.html", nil)
	r.Page(2, "events", "", errors.New("bad content"))
	r.Finish()

	want := "Generating 2 pages\n" +
		"[1/2] blog -> blog/body.html\n" +
		"[2/2] events FAILED: bad content\n" +
		"Wrote 1 of 2 pages, 1 failed\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
	if r.Done != 2 || r.Failed != 1 {
		t.Errorf("tally = %+v", r.Tally)
	}
}

func TestTerminalReporterTally(t *testing.T) {
	r := &TerminalReporter{}
	r.Page(1, "blog", "", errors.New("x"))
	r.Page(2, "community", "community/body.html", nil)
	r.Finish()
	if r.Done != 2 || r.Failed != 1 {
		t.Errorf("tally = %+v", r.Tally)
	}
}
