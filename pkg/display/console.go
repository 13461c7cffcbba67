package display

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

const clearLine = "\x1b[1A\x1b[2K"

// consoleDisplay writes primary output to out and task status to status.
// Mutable
type consoleDisplay struct {
	mu      sync.Mutex
	out     io.Writer
	status  io.Writer
	verbose bool
	active  *consoleTask
}

// NewConsoleWriters creates a Display printing output to out and progress to status.
func NewConsoleWriters(out, status io.Writer) Display {
	return &consoleDisplay{
		out:    out,
		status: status,
	}
}

// NewWriterDisplay creates a Display that writes everything to w.
func NewWriterDisplay(w io.Writer) Display {
	return &consoleDisplay{
		out:    w,
		status: w,
	}
}

// Print writes a message directly to the output writer.
func (d *consoleDisplay) Print(msg string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprint(d.out, msg)
}

func (d *consoleDisplay) Log(msg string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.logLocked(msg)
}

func (d *consoleDisplay) logLocked(msg string) {
	if d.active != nil && d.active.drawn {
		fmt.Fprint(d.status, clearLine)
		d.active.drawn = false
	}
	fmt.Fprintln(d.status, msg)
	if d.active != nil {
		d.active.draw()
	}
}

func (d *consoleDisplay) SetVerbose(v bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.verbose = v
}

func (d *consoleDisplay) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.active != nil {
		d.active.finish()
	}
}

func (d *consoleDisplay) StartTask(name string) Task {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.active != nil {
		d.active.finish()
	}
	t := &consoleTask{d: d, name: name}
	d.active = t
	t.draw()
	return t
}

// RenderOutput displays structured data from an Output struct to the console.
func (d *consoleDisplay) RenderOutput(out *Output) {
	if out == nil {
		return
	}

	if out.Message != "" {
		d.Print(fmt.Sprintln(out.Message))
	}

	if len(out.KV) > 0 {
		for _, kv := range out.KV {
			d.Print(fmt.Sprintf("%-12s %s\n", kv.Key+":", kv.Value))
		}
	}

	if out.Table != nil {
		d.renderTable(out.Table)
	}
}

func (d *consoleDisplay) renderTable(t *Table) {
	if len(t.Header) == 0 {
		return
	}

	widths := make([]int, len(t.Header))
	for i, h := range t.Header {
		widths[i] = len(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) && visibleLen(cell) > widths[i] {
				widths[i] = visibleLen(cell)
			}
		}
	}

	var sb strings.Builder
	for i, h := range t.Header {
		sb.WriteString(pad(h, widths[i]))
	}
	d.Print(strings.TrimRight(sb.String(), " ") + "\n")

	totalWidth := 0
	for _, w := range widths {
		totalWidth += w + 2
	}
	d.Print(strings.Repeat("-", totalWidth-2) + "\n")

	for _, row := range t.Rows {
		sb.Reset()
		for i, cell := range row {
			if i < len(widths) {
				sb.WriteString(pad(cell, widths[i]))
			}
		}
		d.Print(strings.TrimRight(sb.String(), " ") + "\n")
	}
}

// consoleTask renders a single status line that is redrawn in place.
// Mutable
type consoleTask struct {
	d       *consoleDisplay
	name    string
	stage   string
	target  string
	percent int
	message string
	drawn   bool
	done    bool
}

func (t *consoleTask) line() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s]", t.name)
	if t.stage != "" {
		fmt.Fprintf(&sb, " %s", t.stage)
	}
	if t.target != "" {
		fmt.Fprintf(&sb, " %s", t.target)
	}
	if t.percent > 0 {
		fmt.Fprintf(&sb, " %d%%", t.percent)
	}
	if t.message != "" {
		fmt.Fprintf(&sb, " %s", t.message)
	}
	return sb.String()
}

func (t *consoleTask) draw() {
	if t.done {
		return
	}
	if t.drawn {
		fmt.Fprint(t.d.status, clearLine)
	}
	fmt.Fprintln(t.d.status, t.line())
	t.drawn = true
}

func (t *consoleTask) finish() {
	if t.done {
		return
	}
	if t.drawn {
		fmt.Fprint(t.d.status, clearLine)
	}
	fmt.Fprintf(t.d.status, "[%s] Done\n", t.name)
	t.done = true
	if t.d.active == t {
		t.d.active = nil
	}
}

func (t *consoleTask) Log(msg string) {
	t.d.mu.Lock()
	defer t.d.mu.Unlock()
	if !t.d.verbose {
		return
	}
	t.d.logLocked(msg)
}

func (t *consoleTask) SetStage(name string, target string) {
	t.d.mu.Lock()
	defer t.d.mu.Unlock()
	t.stage, t.target = name, target
	t.percent, t.message = 0, ""
	t.draw()
}

func (t *consoleTask) Progress(percent int, message string) {
	t.d.mu.Lock()
	defer t.d.mu.Unlock()
	t.percent, t.message = percent, message
	t.draw()
}

func (t *consoleTask) Done() {
	t.d.mu.Lock()
	defer t.d.mu.Unlock()
	t.finish()
}
