// Package list implements the collection views: fetch, newest-first
// ordering and delete with confirmation.
package list

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync/atomic"

	"github.com/Veraticus/fintrack/internal/i18n"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/notify"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/text/message"
)

// ErrUnsaved is returned when deleting a record that has no id.
var ErrUnsaved = errors.New("record was never saved")

// Service is the part of the resource service a list needs.
type Service[E model.Record] interface {
	GetAll(ctx context.Context) ([]E, error)
	Delete(ctx context.Context, id int) error
}

// Deps are the collaborators of a list controller.
type Deps struct {
	Notifier notify.Notifier
	Printer  *message.Printer
	Logger   *slog.Logger
}

// NewestFirst returns the records ordered by id, highest first. Records
// without an id sort before everything else. The input is not modified and
// equal ids keep their relative order, so applying it twice changes nothing.
func NewestFirst[E model.Record](records []*E) []*E {
	out := make([]*E, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		a, aok := (*out[i]).RecordID()
		b, bok := (*out[j]).RecordID()
		if aok != bok {
			return !aok
		}
		return a > b
	})
	return out
}

var visits atomic.Uint64

type loadedMsg[E model.Record] struct {
	err     error
	records []E
	visit   uint64
}

type deletedMsg[E model.Record] struct {
	err       error
	record    *E
	visit     uint64
	confirmed bool
}

// Controller drives one collection view. Like the form controller it is
// confined to the update goroutine.
type Controller[E model.Record] struct {
	ctx     context.Context
	svc     Service[E]
	deps    Deps
	records []*E
	visit   uint64
	loading bool
	loaded  bool
	closed  bool
}

// New creates a list controller.
func New[E model.Record](ctx context.Context, svc Service[E], deps Deps) *Controller[E] {
	if deps.Printer == nil {
		deps.Printer = i18n.NewPrinter("en")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Controller[E]{ctx: ctx, svc: svc, deps: deps, visit: visits.Add(1)}
}

// Init returns the command that fetches the collection.
func (c *Controller[E]) Init() tea.Cmd {
	c.visit = visits.Add(1)
	c.closed = false
	c.loading = true

	ctx, svc, visit := c.ctx, c.svc, c.visit
	return func() tea.Msg {
		records, err := svc.GetAll(ctx)
		return loadedMsg[E]{visit: visit, records: records, err: err}
	}
}

// Update applies completions. Messages for another visit or after Close
// are ignored.
func (c *Controller[E]) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case loadedMsg[E]:
		if c.accepts(msg.visit) {
			c.handleLoaded(msg)
		}
	case deletedMsg[E]:
		if c.accepts(msg.visit) {
			c.handleDeleted(msg)
		}
	}
	return nil
}

// Delete asks for confirmation and, if given, deletes the record. The
// confirmation blocks, so it runs inside the returned command.
func (c *Controller[E]) Delete(record *E) tea.Cmd {
	if record == nil {
		return nil
	}
	id, ok := (*record).RecordID()

	ctx, svc, notifier, visit := c.ctx, c.svc, c.deps.Notifier, c.visit
	prompt := c.deps.Printer.Sprintf(i18n.MsgConfirmDelete)
	return func() tea.Msg {
		if !notifier.Confirm(ctx, prompt) {
			return deletedMsg[E]{visit: visit, record: record}
		}
		if !ok {
			return deletedMsg[E]{visit: visit, record: record, confirmed: true, err: ErrUnsaved}
		}
		err := svc.Delete(ctx, id)
		return deletedMsg[E]{visit: visit, record: record, confirmed: true, err: err}
	}
}

// Close detaches the controller from its view.
func (c *Controller[E]) Close() {
	c.closed = true
}

// Records returns the displayed records, newest first.
func (c *Controller[E]) Records() []*E {
	out := make([]*E, len(c.records))
	copy(out, c.records)
	return out
}

// Loading reports whether the fetch is in flight.
func (c *Controller[E]) Loading() bool { return c.loading }

// Loaded reports whether the collection was fetched successfully.
func (c *Controller[E]) Loaded() bool { return c.loaded }

func (c *Controller[E]) accepts(visit uint64) bool {
	return !c.closed && visit == c.visit
}

func (c *Controller[E]) handleLoaded(msg loadedMsg[E]) {
	c.loading = false
	if msg.err != nil {
		c.deps.Logger.Error("Failed to load list", "error", msg.err)
		c.deps.Notifier.Alert(c.deps.Printer.Sprintf(i18n.MsgListLoadFailed))
		return
	}

	records := make([]*E, len(msg.records))
	for i := range msg.records {
		records[i] = &msg.records[i]
	}
	c.records = NewestFirst(records)
	c.loaded = true
}

func (c *Controller[E]) handleDeleted(msg deletedMsg[E]) {
	if !msg.confirmed {
		return
	}
	if msg.err != nil {
		c.deps.Logger.Error("Failed to delete record", "error", msg.err)
		c.deps.Notifier.Error(c.deps.Printer.Sprintf(i18n.MsgDeleteFailed))
		return
	}

	for i, r := range c.records {
		if r == msg.record {
			c.records = append(c.records[:i:i], c.records[i+1:]...)
			return
		}
	}
}
