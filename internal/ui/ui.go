// Package ui provides terminal output for the bingwall CLI.
package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Symbols prefixed to status lines.
const (
	SymbolSuccess = "✔"
	SymbolError   = "✖"
	SymbolWarning = "⚠"
	SymbolInfo    = "ℹ"
)

// ANSI palette indexes, so the terminal theme decides the actual colors.
const (
	Red    = lipgloss.Color("1")
	Green  = lipgloss.Color("2")
	Yellow = lipgloss.Color("3")
	Blue   = lipgloss.Color("4")
	Cyan   = lipgloss.Color("6")
	Gray   = lipgloss.Color("8")
)

type level int

const (
	levelSuccess level = iota
	levelError
	levelWarning
	levelInfo
	levelDebug
)

type mark struct {
	symbol string
	color  lipgloss.Color
}

var marks = map[level]mark{
	levelSuccess: {SymbolSuccess, Green},
	levelError:   {SymbolError, Red},
	levelWarning: {SymbolWarning, Yellow},
	levelInfo:    {SymbolInfo, Blue},
	levelDebug:   {"[DEBUG]", Gray},
}

// Output writes status lines, fields and tables. Colors follow the
// renderer's detection of w: a pipe or file gets plain text.
type Output struct {
	w        io.Writer
	renderer *lipgloss.Renderer
	noColor  bool
	quiet    bool
	verbose  bool
}

func NewOutput(w io.Writer) *Output {
	return &Output{
		w:        w,
		renderer: lipgloss.NewRenderer(w),
	}
}

func (o *Output) SetNoColor(noColor bool) { o.noColor = noColor }

// SetQuiet suppresses everything except errors.
func (o *Output) SetQuiet(quiet bool) { o.quiet = quiet }

// SetVerbose enables Debug lines.
func (o *Output) SetVerbose(verbose bool) { o.verbose = verbose }

func (o *Output) paint(c lipgloss.Color, text string) string {
	if o.noColor {
		return text
	}
	return o.renderer.NewStyle().Foreground(c).Render(text)
}

func (o *Output) bold(text string) string {
	if o.noColor {
		return text
	}
	return o.renderer.NewStyle().Bold(true).Render(text)
}

func (o *Output) visible(l level) bool {
	switch l {
	case levelError:
		return true
	case levelDebug:
		return o.verbose
	default:
		return !o.quiet
	}
}

func (o *Output) emit(l level, format string, args ...interface{}) {
	if !o.visible(l) {
		return
	}
	m := marks[l]
	fmt.Fprintf(o.w, "%s %s\n", o.paint(m.color, m.symbol), fmt.Sprintf(format, args...))
}

func (o *Output) Success(format string, args ...interface{}) { o.emit(levelSuccess, format, args...) }
func (o *Output) Error(format string, args ...interface{})   { o.emit(levelError, format, args...) }
func (o *Output) Warning(format string, args ...interface{}) { o.emit(levelWarning, format, args...) }
func (o *Output) Info(format string, args ...interface{})    { o.emit(levelInfo, format, args...) }
func (o *Output) Debug(format string, args ...interface{})   { o.emit(levelDebug, format, args...) }

// ErrorWithHint prints err followed by an indented hint. Both survive quiet.
func (o *Output) ErrorWithHint(err, hint string) {
	o.emit(levelError, "%s", err)
	fmt.Fprintf(o.w, "  %s %s\n", o.paint(Gray, "Hint:"), hint)
}

// Print writes a plain line.
func (o *Output) Print(format string, args ...interface{}) {
	if o.quiet {
		return
	}
	fmt.Fprintf(o.w, format+"\n", args...)
}

// Field writes an indented "label: value" line.
func (o *Output) Field(label, value string) {
	if o.quiet {
		return
	}
	fmt.Fprintf(o.w, "  %s %s\n", o.paint(Gray, label+":"), value)
}

// Table writes rows under a bold header, columns padded to the widest cell.
func (o *Output) Table(headers []string, rows [][]string) {
	if o.quiet {
		return
	}

	widths := make([]int, len(headers))
	measure := func(cells []string) {
		for i, cell := range cells {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}
	measure(headers)
	for _, row := range rows {
		measure(row)
	}

	format := func(cells []string) string {
		padded := make([]string, 0, len(widths))
		for i, w := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			padded = append(padded, cell+strings.Repeat(" ", w-lipgloss.Width(cell)))
		}
		return strings.TrimRight(strings.Join(padded, "  "), " ")
	}

	rules := make([]string, len(widths))
	for i, w := range widths {
		rules[i] = strings.Repeat("-", w)
	}

	fmt.Fprintln(o.w, o.bold(format(headers)))
	fmt.Fprintln(o.w, o.paint(Gray, format(rules)))
	for _, row := range rows {
		fmt.Fprintln(o.w, format(row))
	}
}

// WallpaperInfo prints a headline and the fields describing one wallpaper.
// Empty title and zero setAt are omitted.
func (o *Output) WallpaperInfo(headline, region, identity, title, path string, setAt time.Time) {
	o.Success("%s", headline)
	o.Field("Region", region)
	o.Field("Identity", identity)
	if title != "" {
		o.Field("Title", title)
	}
	o.Field("File", path)
	if !setAt.IsZero() {
		o.Field("Set at", setAt.Format(time.DateTime))
	}
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates a message on one line until stopped.
type Spinner struct {
	out      *Output
	message  string
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

func NewSpinner(out *Output, message string) *Spinner {
	return &Spinner{
		out:      out,
		message:  message,
		interval: 80 * time.Millisecond,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start draws frames in the background. It does nothing in quiet mode.
func (s *Spinner) Start() {
	if s.out.quiet {
		close(s.done)
		return
	}

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for i := 0; ; i++ {
			frame := spinnerFrames[i%len(spinnerFrames)]
			fmt.Fprintf(s.out.w, "\r%s %s", s.out.paint(Cyan, frame), s.message)

			select {
			case <-s.stop:
				fmt.Fprintf(s.out.w, "\r%s\r", strings.Repeat(" ", lipgloss.Width(s.message)+2))
				return
			case <-ticker.C:
			}
		}
	}()
}

// Stop clears the line and waits for the animation to end.
func (s *Spinner) Stop() {
	close(s.stop)
	<-s.done
}
