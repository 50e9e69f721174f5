package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// InterruptHandler cancels a long-running command on SIGINT or SIGTERM and
// tells the user how far it got.
type InterruptHandler struct {
	writer      io.Writer
	cancel      context.CancelFunc
	progress    func() string
	stop        func()
	interrupted bool
	mu          sync.Mutex
}

// NewInterruptHandler creates a new interrupt handler.
func NewInterruptHandler(writer io.Writer) *InterruptHandler {
	if writer == nil {
		writer = os.Stdout
	}
	return &InterruptHandler{writer: writer}
}

// HandleInterrupts returns a context canceled on the first interrupt.
// progress, when set, describes the work already done. Call Stop when the
// command finishes.
func (h *InterruptHandler) HandleInterrupts(ctx context.Context, progress func() string) context.Context {
	ctx, cancel := context.WithCancel(ctx)
	h.cancel = cancel
	h.progress = progress

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})
	h.stop = func() {
		signal.Stop(sigChan)
		close(done)
	}

	go func() {
		select {
		case <-sigChan:
			h.interrupt()
		case <-done:
		}
	}()

	return ctx
}

// Stop releases the signal handler.
func (h *InterruptHandler) Stop() {
	if h.stop != nil {
		h.stop()
		h.stop = nil
	}
}

func (h *InterruptHandler) interrupt() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.interrupted {
		return
	}
	h.interrupted = true

	msg := "\n" + FormatWarning("Interrupted!")
	if h.progress != nil {
		msg += "\n" + FormatInfo(h.progress())
	}
	if _, err := fmt.Fprintln(h.writer, msg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write interrupt message: %v\n", err)
	}
	if h.cancel != nil {
		h.cancel()
	}
}

// WasInterrupted returns true if the process was interrupted.
func (h *InterruptHandler) WasInterrupted() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.interrupted
}
