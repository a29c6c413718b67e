package report

import (
	"fmt"
	"io"
	"net/netip"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/L1nMay/tcpscan/internal/model"
)

type TextEmitter struct {
	w io.Writer

	// Sorted holds lines back until Finish and prints them by port.
	Sorted bool
	// ShowClosed prints closed/filtered ports too.
	ShowClosed bool

	openStyle   lipgloss.Style
	closedStyle lipgloss.Style
	labelStyle  lipgloss.Style

	err error
}

func NewTextEmitter(w io.Writer, sorted, showClosed bool) *TextEmitter {
	// colours only when w is a terminal
	r := lipgloss.NewRenderer(w)
	return &TextEmitter{
		w:           w,
		Sorted:      sorted,
		ShowClosed:  showClosed,
		openStyle:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		closedStyle: r.NewStyle().Foreground(lipgloss.Color("8")),
		labelStyle:  r.NewStyle().Foreground(lipgloss.Color("14")),
	}
}

func (e *TextEmitter) Header(target netip.Addr, rng model.PortRange, concurrency int) {
	e.printf("Scanning %d ports (%d → %d) on %s with %d concurrent probes\n\n",
		rng.Size(), rng.Start, rng.End, target, concurrency)
}

func (e *TextEmitter) Result(r model.ProbeResult) {
	if e.Sorted {
		return
	}
	e.line(r)
}

func (e *TextEmitter) Finish(rep *model.ScanReport) error {
	if e.Sorted {
		for _, r := range rep.Results {
			e.line(r)
		}
	}

	open, closed := rep.Counts()
	verb := "finished"
	if rep.Cancelled {
		verb = "cancelled"
	}
	e.printf("\nScan %s: %d open, %d closed/filtered (%d/%d ports) in %s\n",
		verb, open, closed, len(rep.Results), rep.Range.Size(), rep.Duration().Round(time.Millisecond))

	return e.err
}

func (e *TextEmitter) line(r model.ProbeResult) {
	if !r.Open() && !e.ShowClosed {
		return
	}

	state := e.openStyle.Render("OPEN  ")
	if !r.Open() {
		state = e.closedStyle.Render("CLOSED")
	}

	label := ""
	if r.Service != "" {
		label = " " + e.labelStyle.Render("("+r.Service+")")
	}
	e.printf("Port %5d %s%s\n", r.Port, state, label)
}

func (e *TextEmitter) printf(format string, v ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, v...)
}
