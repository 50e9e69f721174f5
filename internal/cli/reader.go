package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

// ErrInputCancelled is returned when input is canceled by context.
var ErrInputCancelled = errors.New("input canceled")

// LineReader reads lines from an input that may block forever, giving up
// when the context ends.
type LineReader struct {
	reader *bufio.Reader
	mu     sync.Mutex
}

// NewLineReader creates a reader over r.
func NewLineReader(r io.Reader) *LineReader {
	if r == nil {
		panic("reader cannot be nil")
	}
	return &LineReader{reader: bufio.NewReader(r)}
}

// ReadLine reads one line and trims surrounding whitespace. A final line
// without a newline is returned without error.
func (r *LineReader) ReadLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", ErrInputCancelled
	}

	type result struct {
		err   error
		value string
	}
	resultCh := make(chan result, 1)

	go func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		value, err := r.reader.ReadString('\n')
		if errors.Is(err, io.EOF) && value != "" {
			err = nil
		}
		resultCh <- result{value: value, err: err}
	}()

	// A line that arrives after cancellation is discarded.
	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	case res := <-resultCh:
		if res.err != nil {
			return "", res.err
		}
		return strings.TrimSpace(res.value), nil
	}
}
