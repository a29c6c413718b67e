package report

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/mattn/go-isatty"

	"github.com/L1nMay/tcpscan/internal/model"
)

const progressInterval = 100 * time.Millisecond

type ProgressBar struct {
	w   io.Writer
	bar progress.Model
}

func NewProgressBar(w io.Writer) *ProgressBar {
	return &ProgressBar{
		w:   w,
		bar: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
}

// ProgressEnabled reports whether f is an interactive terminal.
func ProgressEnabled(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (p *ProgressBar) Render(pr model.Progress) string {
	return fmt.Sprintf("\r%s %d/%d", p.bar.ViewAs(pr.Percent()), pr.Done, pr.Total)
}

// Run redraws the bar until updates is closed, at most once per interval.
// The last update is always drawn before the closing newline.
func (p *ProgressBar) Run(updates <-chan model.Progress) {
	var (
		last  model.Progress
		drawn time.Time
	)
	for pr := range updates {
		last = pr
		if time.Since(drawn) < progressInterval {
			continue
		}
		_, _ = io.WriteString(p.w, p.Render(pr))
		drawn = time.Now()
	}
	if last.Total == 0 {
		return
	}
	_, _ = io.WriteString(p.w, p.Render(last)+"\n")
}
