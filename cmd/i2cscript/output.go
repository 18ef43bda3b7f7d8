package main

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/muesli/termenv"

	"github.com/moffa90/go-i2cbridge/protocol"
	"github.com/moffa90/go-i2cbridge/script"
)

// printer renders the run audit trail.
type printer struct {
	mu      sync.Mutex
	out     *termenv.Output
	verbose bool
}

func newPrinter(w io.Writer, noColor, verbose bool) *printer {
	var out *termenv.Output
	if noColor {
		out = termenv.NewOutput(w, termenv.WithProfile(termenv.Ascii))
	} else {
		out = termenv.NewOutput(w)
	}
	return &printer{out: out, verbose: verbose}
}

func (p *printer) pass(s string) string {
	return p.out.String(s).Foreground(p.out.Color("2")).Bold().String()
}

func (p *printer) fail(s string) string {
	return p.out.String(s).Foreground(p.out.Color("1")).Bold().String()
}

func (p *printer) faint(s string) string {
	return p.out.String(s).Faint().String()
}

// step implements script.StepCallback.
func (p *printer) step(s script.Step) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch s.Kind {
	case script.StepSend:
		fmt.Fprintln(p.out, s.String())
	case script.StepReply:
		fmt.Fprintln(p.out, s.String())
	case script.StepDiagnostic:
		if p.verbose {
			fmt.Fprintln(p.out, p.faint(s.String()))
		}
	case script.StepExpect:
		o := s.Outcome
		status := p.pass("PASS")
		if !o.Passed {
			status = p.fail("FAIL")
		}
		line := fmt.Sprintf("%s line %d: EXPECT %q got %q", status, o.Line, o.Pattern, o.Reply)
		if o.Err != nil {
			line += ": " + o.Err.Error()
		}
		fmt.Fprintln(p.out, line)
	}
}

// line prints one line received in console mode.
func (p *printer) line(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if protocol.IsDiagnostic(text) {
		fmt.Fprintln(p.out, p.faint(text))
		return
	}
	fmt.Fprintln(p.out, text)
}

// summary prints the aggregate result of a run.
func (p *printer) summary(report *script.Report, runErr error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if report == nil {
		return
	}

	result := p.pass("OK")
	if runErr != nil || !report.OK() {
		result = p.fail("FAILED")
	}

	fmt.Fprintf(p.out, "%s: %d commands, %d/%d expectations passed in %s\n",
		result, report.Commands, report.Passed(), len(report.Outcomes), report.Elapsed.Round(time.Millisecond))
	if runErr != nil {
		fmt.Fprintf(p.out, "aborted: %v\n", runErr)
	}
}
