// Package tui is the interactive terminal client: list and form screens
// over the resource API, with toasts and modal dialogs.
package tui

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/fintrack/internal/form"
	"github.com/Veraticus/fintrack/internal/i18n"
	"github.com/Veraticus/fintrack/internal/list"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/nav"
	"github.com/Veraticus/fintrack/internal/notify"
	"github.com/Veraticus/fintrack/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/message"
)

// Route names.
const (
	RouteCategories   = "categories"
	RouteCategoryNew  = "category-new"
	RouteCategoryEdit = "category-edit"
	RouteEntries      = "entries"
	RouteEntryNew     = "entry-new"
	RouteEntryEdit    = "entry-edit"
)

// DefaultPath is opened when no path is given.
const DefaultPath = "/entries"

const toastTTL = 3 * time.Second

// CategoryService is what the screens need from the category resource.
type CategoryService interface {
	form.Service[model.Category]
	list.Service[model.Category]
}

// EntryService is what the screens need from the entry resource.
type EntryService interface {
	form.Service[model.Entry]
	list.Service[model.Entry]
}

// Services are the resources the app works on.
type Services struct {
	Categories CategoryService
	Entries    EntryService
}

// Option configures an App.
type Option func(*App)

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(a *App) {
		a.theme = theme
	}
}

// WithPrinter sets the message printer for the active locale.
func WithPrinter(p *message.Printer) Option {
	return func(a *App) {
		a.printer = p
	}
}

// WithLogger sets the logger. It must not write to the terminal.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(a *App) {
		a.width = width
		a.height = height
	}
}

type screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View() string
	Close()
	Help() help.KeyMap
	// CapturesText reports whether printable keys belong to the screen.
	CapturesText() bool
}

type toast struct {
	message string
	kind    notify.Kind
	id      int
}

type modal struct {
	reply   chan bool
	message string
	kind    notify.Kind
}

type toastExpiredMsg struct{ id int }

type confirmRequestMsg struct {
	reply  chan bool
	prompt string
}

type categoryNamesMsg struct {
	names map[int]string
}

// App is the root bubbletea model. It is also the Navigator and Notifier
// handed to every controller; both are only called from Update, except
// Confirm, which blocks and is only called from commands.
type App struct {
	ctx       context.Context
	services  Services
	printer   *message.Printer
	logger    *slog.Logger
	router    *nav.Router
	history   *nav.History
	screen    screen
	send      func(tea.Msg)
	tick      func(time.Duration, func(time.Time) tea.Msg) tea.Cmd
	names     map[int]string
	help      help.Model
	spinner   spinner.Model
	theme     themes.Theme
	keys      KeyMap
	toasts    []toast
	modals    []modal
	pending   []tea.Cmd
	nextToast int
	width     int
	height    int
	routed    bool
	spinning  bool
	quitting  bool
}

var (
	_ tea.Model       = (*App)(nil)
	_ nav.Navigator   = (*App)(nil)
	_ notify.Notifier = (*App)(nil)
)

// New creates the app positioned at path.
func New(ctx context.Context, services Services, path string, opts ...Option) *App {
	if path == "" || path == "/" {
		path = DefaultPath
	}
	a := &App{
		ctx:      ctx,
		services: services,
		printer:  i18n.NewPrinter("en"),
		logger:   slog.Default(),
		history:  nav.NewHistory(path),
		theme:    themes.Default,
		keys:     DefaultKeyMap(),
		names:    map[int]string{},
		help:     help.New(),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		tick:     tea.Tick,
		width:    80,
		height:   24,
		routed:   true,
		router: nav.NewRouter(
			nav.Route{Name: RouteCategories, Pattern: "/categories"},
			nav.Route{Name: RouteCategoryNew, Pattern: "/categories/new"},
			nav.Route{Name: RouteCategoryEdit, Pattern: "/categories/:id/edit"},
			nav.Route{Name: RouteEntries, Pattern: "/entries"},
			nav.Route{Name: RouteEntryNew, Pattern: "/entries/new"},
			nav.Route{Name: RouteEntryEdit, Pattern: "/entries/:id/edit"},
		),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.spinner.Style = lipgloss.NewStyle().Foreground(a.theme.Primary)
	return a
}

// Init opens the first screen.
func (a *App) Init() tea.Cmd {
	return a.flush(nil)
}

// Update handles messages and updates the model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width

	case spinner.TickMsg:
		a.spinning = false
		a.spinner, _ = a.spinner.Update(msg)
		return a, a.flush(nil)

	case toastExpiredMsg:
		for i, t := range a.toasts {
			if t.id == msg.id {
				a.toasts = append(a.toasts[:i:i], a.toasts[i+1:]...)
				break
			}
		}
		return a, a.flush(nil)

	case confirmRequestMsg:
		a.modals = append(a.modals, modal{kind: notify.KindConfirm, message: msg.prompt, reply: msg.reply})
		return a, a.flush(nil)

	case categoryNamesMsg:
		a.names = msg.names

	case tea.KeyMsg:
		if key.Matches(msg, a.keys.ForceQuit) {
			return a, a.quit()
		}
		if len(a.modals) > 0 {
			a.handleModalKey(msg)
			return a, a.flush(nil)
		}
		if a.screen != nil && !a.screen.CapturesText() {
			switch {
			case key.Matches(msg, a.keys.Help):
				a.help.ShowAll = !a.help.ShowAll
				return a, a.flush(nil)
			case key.Matches(msg, a.keys.Quit):
				return a, a.quit()
			}
		}
	}

	if a.screen != nil {
		cmds = append(cmds, a.screen.Update(msg))
	}
	return a, a.flush(cmds)
}

// flush opens the screen for a changed location and collects commands
// queued by notifications.
func (a *App) flush(cmds []tea.Cmd) tea.Cmd {
	if a.routed {
		a.routed = false
		cmds = append(cmds, a.open(a.history.Current()))
	}
	cmds = append(cmds, a.spin())
	cmds = append(cmds, a.pending...)
	a.pending = nil
	return tea.Batch(cmds...)
}

func (a *App) open(path string) tea.Cmd {
	if a.screen != nil {
		a.screen.Close()
	}

	route, loc, ok := a.router.Match(path)
	if !ok {
		a.logger.Warn("Unknown location", "path", path)
		a.history.Replace(DefaultPath)
		route, loc, _ = a.router.Match(DefaultPath)
	}

	switch route.Name {
	case RouteCategories:
		a.screen = newCategoryList(a)
	case RouteEntries:
		a.screen = newEntryList(a)
		return tea.Batch(a.screen.Init(), a.loadCategoryNames())
	case RouteCategoryNew, RouteCategoryEdit:
		ctrl := form.New(a.ctx, form.CategoryForm, a.services.Categories, a.formDeps())
		a.screen = newFormScreen(a, ctrl, loc, "/categories")
	case RouteEntryNew, RouteEntryEdit:
		ctrl := form.NewEntryController(a.ctx, a.services.Entries, a.services.Categories, a.formDeps())
		a.screen = newFormScreen(a, ctrl, loc, "/entries")
	}
	return a.screen.Init()
}

func (a *App) formDeps() form.Deps {
	return form.Deps{Notifier: a, Navigator: a, Printer: a.printer, Logger: a.logger}
}

func (a *App) listDeps() list.Deps {
	return list.Deps{Notifier: a, Printer: a.printer, Logger: a.logger}
}

func (a *App) loadCategoryNames() tea.Cmd {
	ctx, svc, logger := a.ctx, a.services.Categories, a.logger
	return func() tea.Msg {
		cats, err := svc.GetAll(ctx)
		if err != nil {
			logger.Warn("Failed to load category names", "error", err)
			return nil
		}
		names := make(map[int]string, len(cats))
		for _, c := range cats {
			if id, ok := c.RecordID(); ok {
				names[id] = c.Name
			}
		}
		return categoryNamesMsg{names: names}
	}
}

// spin schedules the next spinner frame while the screen is busy.
func (a *App) spin() tea.Cmd {
	if a.spinning || !a.busy() {
		return nil
	}
	a.spinning = true
	s := a.spinner
	return a.tick(s.Spinner.FPS, func(time.Time) tea.Msg {
		return s.Tick()
	})
}

func (a *App) busy() bool {
	b, ok := a.screen.(interface{ Busy() bool })
	return ok && b.Busy()
}

func (a *App) quit() tea.Cmd {
	a.quitting = true
	for _, m := range a.modals {
		if m.reply != nil {
			m.reply <- false
		}
	}
	a.modals = nil
	if a.screen != nil {
		a.screen.Close()
	}
	return tea.Quit
}

func (a *App) handleModalKey(msg tea.KeyMsg) {
	m := a.modals[0]
	if m.kind == notify.KindConfirm {
		switch {
		case key.Matches(msg, a.keys.Yes):
			m.reply <- true
		case key.Matches(msg, a.keys.No):
			m.reply <- false
		default:
			return
		}
	} else if !key.Matches(msg, a.keys.Yes, a.keys.Back) {
		return
	}
	a.modals = a.modals[1:]
}

// Navigate implements nav.Navigator.
func (a *App) Navigate(path string) {
	a.history.Navigate(path)
	a.routed = true
}

// Replace implements nav.Navigator. The current screen stays; it is the
// one that asked for the new location.
func (a *App) Replace(path string) {
	a.history.Replace(path)
}

// Location returns the current path.
func (a *App) Location() string {
	return a.history.Current()
}

// Success implements notify.Notifier.
func (a *App) Success(message string) {
	a.addToast(notify.KindSuccess, message)
}

// Error implements notify.Notifier.
func (a *App) Error(message string) {
	a.addToast(notify.KindError, message)
}

// Alert implements notify.Notifier. The alert blocks the screen until
// dismissed.
func (a *App) Alert(message string) {
	a.modals = append(a.modals, modal{kind: notify.KindAlert, message: message})
}

// Confirm implements notify.Notifier. It shows a modal and waits for the
// answer; it must not be called from Update.
func (a *App) Confirm(ctx context.Context, prompt string) bool {
	if a.send == nil {
		a.logger.Warn("Confirmation requested without a running program", "prompt", prompt)
		return false
	}
	reply := make(chan bool, 1)
	a.send(confirmRequestMsg{prompt: prompt, reply: reply})
	select {
	case answer := <-reply:
		return answer
	case <-ctx.Done():
		return false
	}
}

func (a *App) addToast(kind notify.Kind, message string) {
	a.nextToast++
	id := a.nextToast
	a.toasts = append(a.toasts, toast{id: id, kind: kind, message: message})
	a.pending = append(a.pending, a.tick(toastTTL, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	}))
}

// View renders the UI.
func (a *App) View() string {
	if a.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(a.theme.Subtitle.Render("fintrack  " + a.history.Current()))
	b.WriteString("\n\n")

	if len(a.modals) > 0 {
		b.WriteString(a.renderModal(a.modals[0]))
	} else if a.screen != nil {
		b.WriteString(a.screen.View())
	}

	if len(a.toasts) > 0 {
		b.WriteString("\n\n")
		for _, t := range a.toasts {
			b.WriteString(a.renderToast(t))
			b.WriteString("\n")
		}
	}

	if a.screen != nil {
		b.WriteString("\n")
		b.WriteString(a.help.View(a.screen.Help()))
	}
	return b.String()
}

func (a *App) renderToast(t toast) string {
	if t.kind == notify.KindError {
		return a.theme.StatusError.Render("✗ " + t.message)
	}
	return a.theme.StatusSuccess.Render("✓ " + t.message)
}

func (a *App) renderModal(m modal) string {
	var body string
	if m.kind == notify.KindConfirm {
		body = lipgloss.JoinVertical(lipgloss.Left,
			a.theme.Bold.Render(m.message),
			"",
			a.theme.Subtitle.Render("[y] "+a.printer.Sprintf(i18n.LabelYes)+"   [n] "+a.printer.Sprintf(i18n.LabelNo)),
		)
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left,
			a.theme.StatusWarning.Render("⚠ "+m.message),
			"",
			a.theme.Subtitle.Render("[Enter] OK"),
		)
	}
	return lipgloss.Place(a.width, a.height/2, lipgloss.Center, lipgloss.Center, a.theme.Modal.Render(body))
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, app *App) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	app.ctx = ctx

	p := tea.NewProgram(app, tea.WithContext(ctx), tea.WithAltScreen())
	app.send = p.Send
	_, err := p.Run()
	return err
}
