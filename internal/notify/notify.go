// Package notify defines the notification surface used by the controllers.
package notify

import (
	"context"
	"sync"
)

// Notifier shows feedback to the user.
//
// Success, Error and Alert are fire-and-forget. Confirm blocks until the
// user answers and must not be called from an Update function.
type Notifier interface {
	Success(message string)
	Error(message string)
	Alert(message string)
	Confirm(ctx context.Context, prompt string) bool
}

// Kind identifies a recorded notification.
type Kind string

// Notification kinds.
const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindAlert   Kind = "alert"
	KindConfirm Kind = "confirm"
)

// Notification is one call made against a Recorder.
type Notification struct {
	Kind    Kind
	Message string
}

// Recorder is a Notifier that remembers every call. Confirm answers with
// the configured value.
type Recorder struct {
	calls  []Notification
	mu     sync.Mutex
	Answer bool
}

// NewRecorder creates a recorder that answers Confirm with answer.
func NewRecorder(answer bool) *Recorder {
	return &Recorder{Answer: answer}
}

// Success implements Notifier.
func (r *Recorder) Success(message string) {
	r.record(KindSuccess, message)
}

// Error implements Notifier.
func (r *Recorder) Error(message string) {
	r.record(KindError, message)
}

// Alert implements Notifier.
func (r *Recorder) Alert(message string) {
	r.record(KindAlert, message)
}

// Confirm implements Notifier.
func (r *Recorder) Confirm(_ context.Context, prompt string) bool {
	r.record(KindConfirm, prompt)
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Answer
}

// Calls returns a copy of every recorded notification in order.
func (r *Recorder) Calls() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.calls))
	copy(out, r.calls)
	return out
}

// Messages returns the messages recorded for kind.
func (r *Recorder) Messages(kind Kind) []string {
	var out []string
	for _, n := range r.Calls() {
		if n.Kind == kind {
			out = append(out, n.Message)
		}
	}
	return out
}

// Reset forgets all recorded calls.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

func (r *Recorder) record(kind Kind, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Notification{Kind: kind, Message: message})
}
