// Package progress reports page generation as it happens: a progress bar on
// terminals, one line per page in CI logs.
package progress

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Reporter receives one call per generated page.
type Reporter interface {
	Start(total int)
	// Page reports the current-th page: the written path, or the error that
	// stopped it.
	Page(current int, name, path string, err error)
	Finish()
}

// NewReporter returns a CIReporter when CI or GITHUB_ACTIONS is set and a
// TerminalReporter otherwise.
func NewReporter() Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &CIReporter{Out: os.Stderr}
	}
	return &TerminalReporter{}
}

// Tally counts the outcomes reported so far.
type Tally struct {
	Total  int
	Done   int
	Failed int
}

func (t *Tally) record(err error) {
	t.Done++
	if err != nil {
		t.Failed++
	}
}

// TerminalReporter draws a progress bar labelled with the page being
// written and the failures so far.
type TerminalReporter struct {
	Tally
	bar *progressbar.ProgressBar
}

func (r *TerminalReporter) Start(total int) {
	r.Tally = Tally{Total: total}
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Generating pages"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *TerminalReporter) Page(current int, name, path string, err error) {
	r.record(err)
	if r.bar == nil {
		return
	}
	desc := name
	if r.Failed > 0 {
		desc = fmt.Sprintf("%s (%d failed)", name, r.Failed)
	}
	r.bar.Describe(desc)
	_ = r.bar.Set(current)
}

func (r *TerminalReporter) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}

// CIReporter prints one line per page with its output path or error.
type CIReporter struct {
	Tally
	Out io.Writer
}

func (r *CIReporter) out() io.Writer {
	if r.Out == nil {
		return os.Stderr
	}
	return r.Out
}

func (r *CIReporter) Start(total int) {
	r.Tally = Tally{Total: total}
	fmt.Fprintf(r.out(), "Generating %d pages\n", total)
}

func (r *CIReporter) Page(current int, name, path string, err error) {
	r.record(err)
	if err != nil {
		fmt.Fprintf(r.out(), "[%d/%d] %s FAILED: %v\n", current, r.Total, name, err)
		return
	}
	fmt.Fprintf(r.out(), "[%d/%d] %s -> %s\n", current, r.Total, name, path)
}

func (r *CIReporter) Finish() {
	fmt.Fprintf(r.out(), "Wrote %d of %d pages, %d failed\n", r.Done-r.Failed, r.Total, r.Failed)
}
