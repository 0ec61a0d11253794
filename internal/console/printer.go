package console

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/handiism/netease-downloader/internal/download"
)

const barWidth = 30

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))
)

// Printer writes download events and progress to a terminal.
// It is safe for concurrent use.
type Printer struct {
	mu      sync.Mutex
	out     io.Writer
	verbose bool
	bar     progress.Model

	// lineOpen is true while a progress line without trailing newline is
	// on screen.
	lineOpen bool
}

// NewPrinter creates a Printer writing to out. Verbose events are dropped
// unless verbose is set.
func NewPrinter(out io.Writer, verbose bool) *Printer {
	return &Printer{
		out:     out,
		verbose: verbose,
		bar: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(barWidth),
			progress.WithoutPercentage(),
		),
	}
}

// Event prints a status event with a level prefix.
func (p *Printer) Event(e download.ProgressEvent) {
	if e.Level == download.LevelVerbose && !p.verbose {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.closeLine()
	fmt.Fprintln(p.out, render(e.Level, e.Message))
}

// Transfer redraws the progress line. Nothing is drawn while the total size
// is unknown; the line is terminated when the transfer is done.
func (p *Printer) Transfer(u download.TransferUpdate) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if u.Done {
		p.closeLine()
		return
	}
	if u.Total <= 0 {
		return
	}

	fmt.Fprint(p.out, "\r"+p.progressLine(u.Written, u.Total))
	p.lineOpen = true
}

func (p *Printer) progressLine(written, total int64) string {
	percent := float64(written) / float64(total)
	if percent > 1 {
		percent = 1
	}
	return fmt.Sprintf("Progress: %s %.1f%% (%s/%s)",
		p.bar.ViewAs(percent),
		percent*100,
		humanize.Bytes(uint64(written)),
		humanize.Bytes(uint64(total)),
	)
}

// Title prints a bold heading.
func (p *Printer) Title(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closeLine()
	fmt.Fprintln(p.out, titleStyle.Render(text))
}

// Errorf prints an error line.
func (p *Printer) Errorf(format string, args ...any) {
	p.Event(download.ProgressEvent{Message: fmt.Sprintf(format, args...), Level: download.LevelError})
}

// Infof prints an info line.
func (p *Printer) Infof(format string, args ...any) {
	p.Event(download.ProgressEvent{Message: fmt.Sprintf(format, args...), Level: download.LevelInfo})
}

// Successf prints a success line.
func (p *Printer) Successf(format string, args ...any) {
	p.Event(download.ProgressEvent{Message: fmt.Sprintf(format, args...), Level: download.LevelSuccess})
}

// Writer returns the underlying writer, e.g. for tables.
func (p *Printer) Writer() io.Writer {
	return p.out
}

func (p *Printer) closeLine() {
	if p.lineOpen {
		fmt.Fprintln(p.out)
		p.lineOpen = false
	}
}

func render(level download.ProgressLevel, msg string) string {
	switch level {
	case download.LevelError:
		return errorStyle.Render("✗ " + msg)
	case download.LevelWarning:
		return warningStyle.Render("! " + msg)
	case download.LevelSuccess:
		return successStyle.Render("✓ " + msg)
	case download.LevelInfo:
		return infoStyle.Render("› " + msg)
	default:
		return dimStyle.Render("  " + msg)
	}
}
