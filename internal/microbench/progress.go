package microbench

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/progress"
)

const progressWidth = 30

// gridProgress prints one static bar line per finished or skipped case. A nil
// *gridProgress discards updates.
type gridProgress struct {
	w     io.Writer
	bar   progress.Model
	op    string
	total int
	done  int
}

func newGridProgress(w io.Writer, op string, total int) *gridProgress {
	if w == nil || total == 0 {
		return nil
	}
	return &gridProgress{
		w:     w,
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(progressWidth)),
		op:    op,
		total: total,
	}
}

func (g *gridProgress) step(res Result) {
	if g == nil {
		return
	}
	g.done++
	status := ""
	if res.Skipped {
		status = " (skipped)"
	}
	fmt.Fprintf(g.w, "%s %s %d/%d shape=%v dtype=%s%s\n",
		g.bar.ViewAs(float64(g.done)/float64(g.total)), g.op, g.done, g.total, res.Shape, res.DType, status)
}
