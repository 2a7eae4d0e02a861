// Package linear provides a synchronous, line-oriented progress renderer.
package linear

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/depot/internal/ui/output"
	"go.trai.ch/depot/internal/ui/style"
)

// Renderer implements ports.Renderer. It prints one line when a phase starts,
// one line if it fails, and a closing summary.
type Renderer struct {
	output *termenv.Output

	mu     sync.Mutex
	phases map[string]phaseState // spanID -> phase
}

type phaseState struct {
	name      string
	startTime time.Time
}

// NewRenderer creates a Renderer writing to w. A nil w means os.Stderr.
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{
		output: output.New(w),
		phases: make(map[string]phaseState),
	}
}

// OnPhaseStart prints the phase name.
func (r *Renderer) OnPhaseStart(id, name string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.phases[id] = phaseState{name: name, startTime: startTime}

	arrow := r.output.String(style.Arrow).Foreground(termenv.RGBColor(string(style.Teal))).String()
	_, _ = fmt.Fprintf(r.output, "%s %s\n", arrow, name)
}

// OnPhaseComplete prints a failure line when err is set. Successful phases
// end silently.
func (r *Renderer) OnPhaseComplete(id string, endTime time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	phase, ok := r.phases[id]
	if !ok {
		return
	}
	delete(r.phases, id)

	if err == nil {
		return
	}

	symbol := r.output.String(style.Cross).Foreground(termenv.RGBColor(string(style.Red))).String()
	_, _ = fmt.Fprintf(r.output, "%s %s failed after %s\n",
		symbol, phase.name, formatDuration(endTime.Sub(phase.startTime)))
}

// OnSummary prints the closing "Downloaded N packages in D" line.
func (r *Renderer) OnSummary(downloaded int, elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	noun := "packages"
	if downloaded == 1 {
		noun = "package"
	}

	symbol := r.output.String(style.Check).Foreground(termenv.RGBColor(string(style.Green))).String()
	_, _ = fmt.Fprintf(r.output, "%s Downloaded %d %s in %s\n", symbol, downloaded, noun, formatDuration(elapsed))
}

func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.2fs", d.Seconds())
}
