// Package output renders the line-oriented progress of a run.
//
// Progress lines are not log records: they go to stdout at every log level,
// while zerolog output stays on stderr. Per-file lines are only written when
// the reporter is verbose.
package output

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Action labels a progress line.
type Action string

const (
	ActionLinked   Action = "Linked"
	ActionCopied   Action = "Copied"
	ActionDeleted  Action = "Deleted"
	ActionIgnoring Action = "Ignoring"
)

var planned = map[Action]string{
	ActionLinked:  "Would link",
	ActionCopied:  "Would copy",
	ActionDeleted: "Would delete",
}

// Reporter writes progress lines. It is safe for concurrent use so upload
// callbacks can report from worker goroutines.
type Reporter struct {
	mu      sync.Mutex
	w       io.Writer
	verbose bool
	styles  Styles
}

// NewReporter creates a Reporter on w. Colour is disabled when noColor is
// set, when NO_COLOR is present, or when w is not a terminal.
func NewReporter(w io.Writer, verbose, noColor bool) *Reporter {
	r := lipgloss.NewRenderer(w)
	if noColor || os.Getenv("NO_COLOR") != "" || !isTerminal(w) {
		r.SetColorProfile(termenv.Ascii)
	}
	return &Reporter{w: w, verbose: verbose, styles: NewStyles(r)}
}

// Discard returns a Reporter that writes nothing.
func Discard() *Reporter {
	return NewReporter(io.Discard, false, true)
}

// Verbose reports whether per-file lines are written.
func (r *Reporter) Verbose() bool {
	return r.verbose
}

// Destination announces the resolved destination root.
func (r *Reporter) Destination(path string) {
	r.line(r.styles.Info.Render("Destination:") + " " + r.styles.Path.Render(path))
}

// Entry reports the outcome of a top-level catalog entry.
func (r *Reporter) Entry(action Action, path string) {
	r.line(r.styleFor(action).Render(string(action)+":") + " " + path)
}

// Planned reports what a dry run would have done to a top-level entry.
func (r *Reporter) Planned(action Action, path string) {
	label, ok := planned[action]
	if !ok {
		label = string(action)
	}
	r.line(r.styles.Muted.Render(label+":") + " " + path)
}

// File reports the outcome for a single file inside a directory entry.
// Only written in verbose mode.
func (r *Reporter) File(action Action, path string) {
	if !r.verbose {
		return
	}
	r.line(r.styles.Muted.Render(string(action)+":") + " " + path)
}

// Uploading announces the start of one upload.
func (r *Reporter) Uploading(key string) {
	r.line(r.styles.Warning.Render("Uploading:") + " " + key)
}

// Uploaded announces the completion of one upload.
func (r *Reporter) Uploaded(key string) {
	r.line(r.styles.Info.Render("Complete:") + " " + key)
}

// Summary prints the final "<Mode> complete!" line.
func (r *Reporter) Summary(mode string) {
	r.line(r.styles.Success.Render(fmt.Sprintf("%s complete!", mode)))
}

// Error prints err in the error style.
func (r *Reporter) Error(err error) {
	r.line(r.styles.Error.Render("Error:") + " " + err.Error())
}

// Printf writes an unstyled line.
func (r *Reporter) Printf(format string, args ...interface{}) {
	r.line(fmt.Sprintf(format, args...))
}

func (r *Reporter) styleFor(action Action) lipgloss.Style {
	switch action {
	case ActionIgnoring:
		return r.styles.Warning
	case ActionDeleted:
		return r.styles.Error
	default:
		return r.styles.Info
	}
}

func (r *Reporter) line(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = fmt.Fprintln(r.w, s)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
