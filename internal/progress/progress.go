// Package progress wraps mpb into a terminal-aware progress bar over
// per-input-archive processing, adapted from exiledb's internal/utils
// (table names there, archive basenames here) and auto-disabled on non-ttys
// per golang.org/x/term.
package progress

import (
	"fmt"
	"os"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/term"
)

const descLength = 24

// Bar tracks progress across a fixed number of input archives.
type Bar struct {
	container *mpb.Progress
	bar       *mpb.Bar
	enabled   bool
	current   string
	total     int64
}

// New creates a Bar over total archives. enabled is forced off when stderr
// is not a terminal, matching exiledb's NewProgress.
func New(total int, enabled bool) *Bar {
	isTerm := term.IsTerminal(int(os.Stderr.Fd()))
	b := &Bar{enabled: enabled && isTerm, total: int64(total)}

	if !b.enabled {
		return b
	}

	fmt.Fprintln(os.Stderr)
	b.container = mpb.New(
		mpb.WithOutput(os.Stderr),
		mpb.WithWidth(64),
		mpb.WithRefreshRate(100*time.Millisecond),
	)
	b.bar = b.container.New(int64(total),
		mpb.BarStyle().Lbound("[").Filler("█").Tip("█").Padding("░").Rbound("]"),
		mpb.PrependDecorators(
			decor.Any(func(decor.Statistics) string {
				if len(b.current) > descLength {
					return b.current[:descLength-2] + ".."
				}
				return b.current
			}, decor.WC{W: descLength, C: decor.DindentRight}),
			decor.Name("  "),
			decor.CountersNoUnit("%d/%d", decor.WC{C: decor.DindentRight}),
		),
		mpb.AppendDecorators(decor.Percentage()),
	)

	return b
}

// Advance moves the bar to position n and updates the displayed archive
// name.
func (b *Bar) Advance(n int, archiveName string) {
	if !b.enabled || b.bar == nil {
		return
	}
	b.current = archiveName
	b.bar.SetCurrent(int64(n))
}

// Finish fills the bar to its total, waits for it to settle and shuts down
// its container.
func (b *Bar) Finish() {
	if !b.enabled || b.container == nil {
		return
	}
	b.bar.SetCurrent(b.total)
	b.container.Wait()
	fmt.Fprintln(os.Stderr)
}
