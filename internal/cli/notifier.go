package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/Veraticus/fintrack/internal/notify"
)

var _ notify.Notifier = (*Console)(nil)

// Console reports notifications on a terminal and asks confirmations on
// its input.
type Console struct {
	out       io.Writer
	in        *LineReader
	logger    *slog.Logger
	mu        sync.Mutex
	assumeYes bool
}

// ConsoleOption configures a Console.
type ConsoleOption func(*Console)

// WithAssumeYes answers every confirmation with yes without prompting.
func WithAssumeYes(yes bool) ConsoleOption {
	return func(c *Console) {
		c.assumeYes = yes
	}
}

// WithConsoleLogger sets the logger used for failed writes.
func WithConsoleLogger(logger *slog.Logger) ConsoleOption {
	return func(c *Console) {
		c.logger = logger
	}
}

// NewConsole creates a console notifier.
func NewConsole(out io.Writer, in io.Reader, opts ...ConsoleOption) *Console {
	c := &Console{
		out:    out,
		in:     NewLineReader(in),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Success prints a success line.
func (c *Console) Success(message string) {
	c.println(FormatSuccess(message))
}

// Error prints an error line.
func (c *Console) Error(message string) {
	c.println(FormatError(message))
}

// Alert prints a warning line.
func (c *Console) Alert(message string) {
	c.println(FormatWarning(message))
}

// Confirm asks a yes/no question. Anything but y or yes, including a read
// failure or cancellation, is a no.
func (c *Console) Confirm(ctx context.Context, prompt string) bool {
	if c.assumeYes {
		return true
	}

	c.mu.Lock()
	_, err := fmt.Fprint(c.out, FormatPrompt(prompt+" [y/N]"))
	c.mu.Unlock()
	if err != nil {
		c.logger.Warn("Failed to write prompt", "error", err)
	}

	answer, err := c.in.ReadLine(ctx)
	if err != nil {
		c.logger.Debug("Confirmation not answered", "error", err)
		return false
	}
	switch strings.ToLower(answer) {
	case "y", "yes", "s", "sim":
		return true
	default:
		return false
	}
}

func (c *Console) println(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := fmt.Fprintln(c.out, line); err != nil {
		c.logger.Warn("Failed to write notification", "error", err)
	}
}
