package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jsamuelsen/quote-scheduler/internal/domain"
	"github.com/jsamuelsen/quote-scheduler/internal/ports"
)

// longDateLayout renders scheduled dates in listings.
const longDateLayout = "January 2, 2006"

// terminalPresenter prints notifications to the command output.
type terminalPresenter struct {
	mu     sync.Mutex
	out    io.Writer
	logger *slog.Logger
}

var _ ports.Presenter = (*terminalPresenter)(nil)

func newTerminalPresenter(out io.Writer, logger *slog.Logger) *terminalPresenter {
	return &terminalPresenter{out: out, logger: logger}
}

// Notify implements ports.Presenter.
func (p *terminalPresenter) Notify(_ context.Context, n ports.Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()

	marker := "✓"
	if n.Severity == ports.SeverityError {
		marker = "✗"
	}

	fmt.Fprintf(p.out, "%s %s\n", marker, n.Message)
}

// ShowView implements ports.Presenter. A one-shot command has no screens to switch.
func (p *terminalPresenter) ShowView(ctx context.Context, v ports.View) {
	p.logger.DebugContext(ctx, "view changed", slog.String("view", v.String()))
}

// terminalConfirmer asks yes/no questions on the terminal.
type terminalConfirmer struct {
	in        *bufio.Reader
	out       io.Writer
	assumeYes bool
}

var _ ports.Confirmer = (*terminalConfirmer)(nil)

func newTerminalConfirmer(in io.Reader, out io.Writer, assumeYes bool) *terminalConfirmer {
	return &terminalConfirmer{in: newLineReader(in), out: out, assumeYes: assumeYes}
}

// Confirm implements ports.Confirmer. Only "y" or "yes" agree; anything else,
// including end of input, declines.
func (c *terminalConfirmer) Confirm(_ context.Context, p ports.Prompt) bool {
	if c.assumeYes {
		return true
	}

	if c.in == nil {
		return false
	}

	fmt.Fprintf(c.out, "%s\n%s [y/N]: ", p.Title, p.Message)

	answer, err := c.in.ReadString('\n')
	if err != nil && answer == "" {
		fmt.Fprintln(c.out)
		return false
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// terminalAnnouncer prints the quotes of the day.
type terminalAnnouncer struct {
	mu  sync.Mutex
	out io.Writer
}

func newTerminalAnnouncer(out io.Writer) *terminalAnnouncer {
	return &terminalAnnouncer{out: out}
}

// Announce prints the day's quotes.
func (a *terminalAnnouncer) Announce(_ context.Context, day time.Time, quotes []domain.Quote) {
	a.mu.Lock()
	defer a.mu.Unlock()

	printToday(a.out, day, quotes)
}

// printQuotes writes the library listing.
func printQuotes(w io.Writer, quotes []domain.Quote) {
	if len(quotes) == 0 {
		fmt.Fprintln(w, "No quotes in the library.")
		return
	}

	for i, q := range quotes {
		if i > 0 {
			fmt.Fprintln(w)
		}

		printQuote(w, q)
	}
}

func printQuote(w io.Writer, q domain.Quote) {
	fmt.Fprintf(w, "#%d  %q\n", q.ID, q.Text)

	if q.Author != "" {
		fmt.Fprintf(w, "     by %s\n", q.Author)
	}

	dates := q.Schedule.Dates()
	if len(dates) == 0 {
		return
	}

	formatted := make([]string, 0, len(dates))
	for _, d := range dates {
		formatted = append(formatted, d.Format(longDateLayout))
	}

	fmt.Fprintf(w, "     scheduled: %s\n", strings.Join(formatted, "; "))
}

// printToday writes the quotes scheduled on day.
func printToday(w io.Writer, day time.Time, quotes []domain.Quote) {
	fmt.Fprintf(w, "Quotes for %s: %d\n", day.Format(longDateLayout), len(quotes))

	for _, q := range quotes {
		if q.Author != "" {
			fmt.Fprintf(w, "  %q (%s)\n", q.Text, q.Author)
			continue
		}

		fmt.Fprintf(w, "  %q\n", q.Text)
	}
}

// printResolutions writes journal entries, one per line.
func printResolutions(w io.Writer, history []ports.Resolution) {
	if len(history) == 0 {
		fmt.Fprintln(w, "No resolutions recorded.")
		return
	}

	for _, r := range history {
		line := fmt.Sprintf("%s  %-6s  #%-8d %-8s %s",
			r.At.UTC().Format(time.RFC3339), r.Operation, r.QuoteID, r.Outcome, r.Duration.Round(time.Millisecond))
		if r.Error != "" {
			line += "  " + r.Error
		}

		fmt.Fprintln(w, line)
	}
}
