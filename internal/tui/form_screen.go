package tui

import (
	"strings"

	"github.com/Veraticus/fintrack/internal/form"
	"github.com/Veraticus/fintrack/internal/i18n"
	"github.com/Veraticus/fintrack/internal/nav"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// formCore is satisfied by form.Controller and form.EntryController.
type formCore interface {
	Init(loc nav.Context) tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	Submit() tea.Cmd
	Close()
	Set(name, value string) error
	Title() string
	CanSubmit() bool
	Loading() bool
	Submitting() bool
	Fields() *form.FieldSet
	ServerMessages() []string
}

type formField struct {
	spec  form.FieldSpec
	input textinput.Model
}

// formScreen edits one record. Text fields use text inputs; choice fields
// cycle with left/right and toggles flip with space.
type formScreen struct {
	app      *App
	core     formCore
	loc      nav.Context
	listPath string
	fields   []formField
	focus    int
}

func newFormScreen(a *App, core formCore, loc nav.Context, listPath string) *formScreen {
	s := &formScreen{app: a, core: core, loc: loc, listPath: listPath}
	for _, spec := range core.Fields().Schema().Visible() {
		f := formField{spec: spec}
		if spec.Kind == form.KindText {
			f.input = textinput.New()
			f.input.Cursor.SetMode(cursor.CursorStatic)
			f.input.Prompt = ""
			f.input.CharLimit = 120
			f.input.Width = 40
		}
		s.fields = append(s.fields, f)
	}
	return s
}

func (s *formScreen) Init() tea.Cmd {
	cmd := s.core.Init(s.loc)
	s.sync()
	return tea.Batch(cmd, s.setFocus(0))
}

func (s *formScreen) Update(msg tea.Msg) tea.Cmd {
	cmds := []tea.Cmd{s.core.Update(msg)}
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		cmds = append(cmds, s.handleKey(keyMsg))
	}
	s.sync()
	return tea.Batch(cmds...)
}

func (s *formScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	keys := s.app.keys
	switch {
	case key.Matches(msg, keys.Back):
		s.app.Navigate(s.listPath)
		return nil
	case key.Matches(msg, keys.Submit):
		return s.core.Submit()
	case msg.Type == tea.KeyEnter:
		if s.focus == len(s.fields)-1 {
			return s.core.Submit()
		}
		return s.setFocus(s.focus + 1)
	case key.Matches(msg, keys.Next):
		return s.setFocus(s.focus + 1)
	case key.Matches(msg, keys.Prev):
		return s.setFocus(s.focus - 1)
	}

	if len(s.fields) == 0 {
		return nil
	}
	f := &s.fields[s.focus]
	switch f.spec.Kind {
	case form.KindChoice:
		switch {
		case key.Matches(msg, keys.Left):
			s.cycle(f.spec.Name, -1)
		case key.Matches(msg, keys.Right):
			s.cycle(f.spec.Name, 1)
		}
	case form.KindToggle:
		if key.Matches(msg, keys.Toggle, keys.Left, keys.Right) {
			next := "true"
			if s.core.Fields().Value(f.spec.Name) == "true" {
				next = "false"
			}
			s.set(f.spec.Name, next)
		}
	case form.KindText:
		before := f.input.Value()
		var cmd tea.Cmd
		f.input, cmd = f.input.Update(msg)
		if v := f.input.Value(); v != before {
			s.set(f.spec.Name, v)
		}
		return cmd
	}
	return nil
}

func (s *formScreen) set(name, value string) {
	if err := s.core.Set(name, value); err != nil {
		s.app.logger.Warn("Failed to set field", "field", name, "error", err)
	}
}

func (s *formScreen) cycle(name string, step int) {
	opts := s.core.Fields().Options(name)
	if len(opts) == 0 {
		return
	}
	current := s.core.Fields().Value(name)
	idx := -1
	for i, o := range opts {
		if o.Value == current {
			idx = i
			break
		}
	}
	switch {
	case idx < 0:
		idx = 0
	default:
		idx = (idx + step + len(opts)) % len(opts)
	}
	s.set(name, opts[idx].Value)
}

func (s *formScreen) setFocus(i int) tea.Cmd {
	if len(s.fields) == 0 {
		return nil
	}
	s.focus = (i + len(s.fields)) % len(s.fields)
	var cmd tea.Cmd
	for j := range s.fields {
		f := &s.fields[j]
		if f.spec.Kind != form.KindText {
			continue
		}
		if j == s.focus {
			cmd = f.input.Focus()
		} else {
			f.input.Blur()
		}
	}
	return cmd
}

// sync copies field-set values into the text inputs after loads and resets.
func (s *formScreen) sync() {
	fs := s.core.Fields()
	for i := range s.fields {
		f := &s.fields[i]
		if f.spec.Kind != form.KindText {
			continue
		}
		if v := fs.Value(f.spec.Name); f.input.Value() != v {
			f.input.SetValue(v)
		}
	}
}

func (s *formScreen) View() string {
	t := s.app.theme
	p := s.app.printer
	fs := s.core.Fields()

	var b strings.Builder
	b.WriteString(t.Title.Render(s.core.Title()))
	b.WriteString("\n")

	switch {
	case s.core.Loading():
		b.WriteString(s.app.spinner.View() + " " + t.StatusPending.Render("Loading...") + "\n")
	case s.core.Submitting():
		b.WriteString(s.app.spinner.View() + " " + t.StatusPending.Render("Saving...") + "\n")
	}

	for i, f := range s.fields {
		label := t.Label
		if i == s.focus {
			label = t.FocusedLabel
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, label.Render(p.Sprintf(f.spec.Label)), s.renderValue(f, i == s.focus)))
		b.WriteString("\n")
		for _, fe := range fs.Errors(f.spec.Name) {
			b.WriteString(t.FieldError.Render(fe.Message(p)))
			b.WriteString("\n")
		}
	}

	if msgs := s.core.ServerMessages(); len(msgs) > 0 {
		b.WriteString("\n")
		for _, m := range msgs {
			b.WriteString(t.StatusError.Render("• " + m))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (s *formScreen) renderValue(f formField, focused bool) string {
	t := s.app.theme
	p := s.app.printer
	value := s.core.Fields().Value(f.spec.Name)

	switch f.spec.Kind {
	case form.KindChoice:
		label := "—"
		for _, o := range s.core.Fields().Options(f.spec.Name) {
			if o.Value == value {
				label = o.Label
				if len(f.spec.Options) > 0 {
					label = p.Sprintf(o.Label)
				}
				break
			}
		}
		if focused {
			return t.Bold.Render("‹ " + label + " ›")
		}
		return t.Normal.Render("  " + label)
	case form.KindToggle:
		mark := "[ ] " + p.Sprintf(i18n.LabelNo)
		if value == "true" {
			mark = "[x] " + p.Sprintf(i18n.LabelYes)
		}
		if focused {
			return t.Bold.Render(mark)
		}
		return t.Normal.Render(mark)
	default:
		return f.input.View()
	}
}

func (s *formScreen) Busy() bool { return s.core.Loading() || s.core.Submitting() }

func (s *formScreen) Close() { s.core.Close() }

func (s *formScreen) Help() help.KeyMap { return FormKeys{s.app.keys} }

func (s *formScreen) CapturesText() bool { return true }
