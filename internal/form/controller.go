package form

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"

	"github.com/Veraticus/fintrack/internal/i18n"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/nav"
	"github.com/Veraticus/fintrack/internal/notify"
	"github.com/Veraticus/fintrack/internal/resource"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/text/message"
)

// ErrNoRecordID is returned when an edit path carries no numeric id.
var ErrNoRecordID = errors.New("path has no record id")

// Mode tells whether a form creates or edits a record.
type Mode int

// Form modes.
const (
	ModeUnknown Mode = iota
	ModeNew
	ModeEdit
)

func (m Mode) String() string {
	switch m {
	case ModeNew:
		return "new"
	case ModeEdit:
		return "edit"
	default:
		return "unknown"
	}
}

// State is the lifecycle state of a form controller.
type State int

// Form states.
const (
	StateInitializing State = iota
	StateNew
	StateEditing
	StateSubmitting
	StateSucceeded
	StateFailed
	StateUnavailable
)

var stateNames = map[State]string{
	StateInitializing: "initializing",
	StateNew:          "new",
	StateEditing:      "editing",
	StateSubmitting:   "submitting",
	StateSucceeded:    "succeeded",
	StateFailed:       "failed",
	StateUnavailable:  "unavailable",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "state(" + strconv.Itoa(int(s)) + ")"
}

// ResolveMode derives the form mode from a location. A terminal "new"
// segment means New; anything else is Editing and needs an id, taken from
// the "id" parameter or else the first numeric segment.
func ResolveMode(loc nav.Context) (Mode, int, error) {
	if loc.Last() == "new" {
		return ModeNew, 0, nil
	}

	raw, ok := loc.Param("id")
	if !ok {
		for _, s := range loc.Segments {
			if _, err := strconv.Atoi(s); err == nil {
				raw, ok = s, true
				break
			}
		}
	}
	if !ok {
		return ModeEdit, 0, fmt.Errorf("%w: %s", ErrNoRecordID, loc.Path())
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return ModeEdit, 0, fmt.Errorf("%w: %s: %w", ErrNoRecordID, loc.Path(), err)
	}
	return ModeEdit, id, nil
}

// Service is the part of the resource service a form needs.
type Service[E model.Record] interface {
	GetByID(ctx context.Context, id int) (E, error)
	Create(ctx context.Context, draft E) (E, error)
	Update(ctx context.Context, draft E) (E, error)
}

// Deps are the collaborators shared by controllers.
type Deps struct {
	Notifier  notify.Notifier
	Navigator nav.Navigator
	Printer   *message.Printer
	Logger    *slog.Logger
}

func (d Deps) withDefaults() Deps {
	if d.Printer == nil {
		d.Printer = i18n.NewPrinter("en")
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Navigator == nil {
		d.Navigator = nav.NewHistory("/")
	}
	return d
}

var visits atomic.Uint64

// nextVisit returns a token unique to one activation of one controller.
func nextVisit() uint64 {
	return visits.Add(1)
}

type loadedMsg[E model.Record] struct {
	err    error
	record E
	visit  uint64
}

type submittedMsg[E model.Record] struct {
	err    error
	record E
	visit  uint64
}

// Controller drives one form for one navigation visit.
//
// All methods must be called from a single goroutine (the bubbletea update
// loop, or eventloop.Drive). Resource calls run inside the returned
// commands and report back through Update.
type Controller[E model.Record] struct {
	ctx            context.Context
	svc            Service[E]
	fields         *FieldSet
	deps           Deps
	record         E
	def            Definition[E]
	serverMessages []string
	visit          uint64
	id             int
	mode           Mode
	state          State
	loaded         bool
	closed         bool
}

// New creates a controller. Call Init with the current location to start it.
func New[E model.Record](ctx context.Context, def Definition[E], svc Service[E], deps Deps) *Controller[E] {
	return &Controller[E]{
		ctx:    ctx,
		def:    def,
		svc:    svc,
		deps:   deps.withDefaults(),
		fields: NewFieldSet(def.Schema, false),
		visit:  nextVisit(),
	}
}

// Init resolves the mode from loc and, when editing, returns the command
// that loads the record.
func (c *Controller[E]) Init(loc nav.Context) tea.Cmd {
	c.visit = nextVisit()
	c.closed = false
	c.loaded = false
	c.serverMessages = nil
	var zero E
	c.record = zero

	mode, id, err := ResolveMode(loc)
	c.mode = mode
	c.fields = NewFieldSet(c.def.Schema, mode == ModeNew)
	if err != nil {
		c.failLoad(err)
		return nil
	}

	if mode == ModeNew {
		c.id = 0
		c.state = StateNew
		return nil
	}
	c.id = id
	c.state = StateInitializing
	return c.load()
}

// Update applies a completion to the controller. Messages for another
// visit, or arriving after Close, are ignored.
func (c *Controller[E]) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case loadedMsg[E]:
		if !c.accepts(msg.visit) {
			return nil
		}
		c.handleLoaded(msg)
	case submittedMsg[E]:
		if !c.accepts(msg.visit) {
			return nil
		}
		return c.handleSubmitted(msg)
	}
	return nil
}

// Submit validates the field-set and returns the create or update command.
// It returns nil when submission is not possible: while loading, submitting
// or unavailable, or when a rule fails (every field is then touched so the
// errors show).
func (c *Controller[E]) Submit() tea.Cmd {
	if !c.CanSubmit() {
		return nil
	}
	if errs := c.fields.Validate(); len(errs) > 0 {
		c.fields.Touch()
		return nil
	}
	draft, err := c.def.Codec.Decode(c.fields.Values())
	if err != nil {
		c.deps.Logger.Warn("Form values could not be decoded", "path", c.def.Path, "error", err)
		c.fields.Touch()
		return nil
	}

	c.state = StateSubmitting
	c.serverMessages = nil

	ctx, svc, mode, visit := c.ctx, c.svc, c.mode, c.visit
	return func() tea.Msg {
		var (
			saved E
			err   error
		)
		if mode == ModeNew {
			saved, err = svc.Create(ctx, draft)
		} else {
			saved, err = svc.Update(ctx, draft)
		}
		return submittedMsg[E]{visit: visit, record: saved, err: err}
	}
}

// Close detaches the controller from its view. Later completions are dropped.
func (c *Controller[E]) Close() {
	c.closed = true
}

// Set changes a field value as the user would.
func (c *Controller[E]) Set(name, value string) error {
	return c.fields.Set(name, value)
}

// Title is derived on every call, since the record may still be loading.
func (c *Controller[E]) Title() string {
	p := c.deps.Printer
	switch c.mode {
	case ModeNew:
		return p.Sprintf(c.def.TitleNew)
	case ModeEdit:
		name := ""
		if c.loaded {
			name = c.record.DisplayName()
		}
		return p.Sprintf(c.def.TitleEdit, name)
	default:
		return ""
	}
}

// CanSubmit reports whether the submit trigger is enabled.
func (c *Controller[E]) CanSubmit() bool {
	if c.closed {
		return false
	}
	switch c.state {
	case StateNew, StateEditing, StateFailed:
		return true
	default:
		return false
	}
}

// Mode returns the resolved mode.
func (c *Controller[E]) Mode() Mode { return c.mode }

// State returns the lifecycle state.
func (c *Controller[E]) State() State { return c.state }

// ID returns the id being edited, or 0 in New mode.
func (c *Controller[E]) ID() int { return c.id }

// Submitting reports whether a submission is in flight.
func (c *Controller[E]) Submitting() bool { return c.state == StateSubmitting }

// Loading reports whether the record load is in flight.
func (c *Controller[E]) Loading() bool {
	return c.state == StateInitializing || c.state == StateSucceeded
}

// Fields returns the field-set.
func (c *Controller[E]) Fields() *FieldSet { return c.fields }

// Record returns the working copy and whether it came from the backend.
func (c *Controller[E]) Record() (E, bool) { return c.record, c.loaded }

// ServerMessages returns the messages of the last failed submission.
func (c *Controller[E]) ServerMessages() []string {
	return append([]string(nil), c.serverMessages...)
}

// Definition returns the form definition.
func (c *Controller[E]) Definition() Definition[E] { return c.def }

// Printer returns the printer used for messages.
func (c *Controller[E]) Printer() *message.Printer { return c.deps.Printer }

func (c *Controller[E]) accepts(visit uint64) bool {
	return !c.closed && visit == c.visit
}

func (c *Controller[E]) load() tea.Cmd {
	ctx, svc, id, visit := c.ctx, c.svc, c.id, c.visit
	return func() tea.Msg {
		record, err := svc.GetByID(ctx, id)
		return loadedMsg[E]{visit: visit, record: record, err: err}
	}
}

func (c *Controller[E]) handleLoaded(msg loadedMsg[E]) {
	if msg.err != nil {
		c.failLoad(msg.err)
		return
	}
	c.record = msg.record
	c.loaded = true
	c.fields.Patch(c.def.Codec.Encode(msg.record))
	c.fields.untouch()
	c.state = StateEditing
}

func (c *Controller[E]) failLoad(err error) {
	c.deps.Logger.Error("Failed to load record", "path", c.def.Path, "id", c.id, "error", err)
	c.state = StateUnavailable
	c.deps.Notifier.Alert(c.deps.Printer.Sprintf(i18n.MsgLoadFailed))
}

func (c *Controller[E]) handleSubmitted(msg submittedMsg[E]) tea.Cmd {
	p := c.deps.Printer

	err := msg.err
	id, ok := msg.record.RecordID()
	if err == nil && !ok {
		err = fmt.Errorf("%s: response has no id", c.def.Path)
	}
	if err != nil {
		c.deps.Logger.Warn("Submission failed", "path", c.def.Path, "mode", c.mode, "error", err)
		c.deps.Notifier.Error(p.Sprintf(i18n.MsgRequestFailed))
		c.state = StateFailed

		var verr *resource.ValidationError
		if errors.As(err, &verr) {
			c.fields.SetServerErrors(verr.Fields)
			c.serverMessages = verr.All()
		} else {
			c.serverMessages = []string{p.Sprintf(i18n.MsgServerFailure)}
		}
		return nil
	}

	c.deps.Notifier.Success(p.Sprintf(i18n.MsgRequestSucceeded))
	c.deps.Logger.Info("Record saved", "path", c.def.Path, "id", id, "mode", c.mode)

	c.mode = ModeEdit
	c.id = id
	c.record = msg.record
	c.loaded = true
	c.state = StateSucceeded
	c.deps.Navigator.Replace(c.def.EditPath(id))
	c.fields.ClearServerErrors()
	c.serverMessages = nil
	return c.load()
}
