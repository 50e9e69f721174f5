package tui

import (
	"strconv"
	"strings"

	"github.com/Veraticus/fintrack/internal/i18n"
	"github.com/Veraticus/fintrack/internal/list"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
)

// listScreen shows one collection in a table.
type listScreen[E model.Record] struct {
	app      *App
	ctrl     *list.Controller[E]
	columns  func(p func(string) string) []table.Column
	row      func(*E) table.Row
	title    string
	basePath string
	other    string
	table    table.Model
}

func newListScreen[E model.Record](a *App, svc list.Service[E], title, basePath, other string) *listScreen[E] {
	t := table.New(table.WithFocused(true), table.WithHeight(a.height-8))
	styles := table.DefaultStyles()
	styles.Selected = a.theme.Selected
	t.SetStyles(styles)

	return &listScreen[E]{
		app:      a,
		ctrl:     list.New[E](a.ctx, svc, a.listDeps()),
		title:    title,
		basePath: basePath,
		other:    other,
		table:    t,
	}
}

func newCategoryList(a *App) *listScreen[model.Category] {
	s := newListScreen[model.Category](a, a.services.Categories, i18n.TitleCategories, "/categories", "/entries")
	s.columns = func(p func(string) string) []table.Column {
		return []table.Column{
			{Title: p(i18n.LabelID), Width: 5},
			{Title: p(i18n.LabelName), Width: 24},
			{Title: p(i18n.LabelDescription), Width: 40},
		}
	}
	s.row = func(c *model.Category) table.Row {
		desc := ""
		if c.Description != nil {
			desc = *c.Description
		}
		return table.Row{idCell(c.ID), c.Name, desc}
	}
	return s
}

func newEntryList(a *App) *listScreen[model.Entry] {
	s := newListScreen[model.Entry](a, a.services.Entries, i18n.TitleEntries, "/entries", "/categories")
	s.columns = func(p func(string) string) []table.Column {
		return []table.Column{
			{Title: p(i18n.LabelID), Width: 5},
			{Title: p(i18n.LabelDate), Width: 10},
			{Title: p(i18n.LabelName), Width: 22},
			{Title: p(i18n.LabelType), Width: 9},
			{Title: p(i18n.LabelAmount), Width: 12},
			{Title: p(i18n.LabelPaid), Width: 9},
			{Title: p(i18n.LabelCategory), Width: 16},
		}
	}
	s.row = func(e *model.Entry) table.Row {
		p := a.printer.Sprintf
		paid := p(i18n.LabelPending)
		if e.Paid {
			paid = p(i18n.LabelPaid)
		}
		category, ok := a.names[e.CategoryID]
		if !ok {
			category = strconv.Itoa(e.CategoryID)
		}
		amount := e.Amount.StringFixed(2)
		if e.Type == model.EntryTypeExpense {
			amount = "-" + amount
		}
		return table.Row{idCell(e.ID), e.Date.String(), e.Name, p(model.EntryTypes[e.Type]), amount, paid, category}
	}
	return s
}

func idCell(id *int) string {
	if id == nil {
		return "-"
	}
	return strconv.Itoa(*id)
}

func (s *listScreen[E]) Init() tea.Cmd {
	s.table.SetColumns(s.columns(func(k string) string { return s.app.printer.Sprintf(k) }))
	s.refresh()
	return s.ctrl.Init()
}

func (s *listScreen[E]) Update(msg tea.Msg) tea.Cmd {
	cmd := s.ctrl.Update(msg)
	defer s.refresh()

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return cmd
	}

	keys := s.app.keys
	switch {
	case key.Matches(keyMsg, keys.New):
		s.app.Navigate(s.basePath + "/new")
	case key.Matches(keyMsg, keys.Edit):
		if id, ok := s.selectedID(); ok {
			s.app.Navigate(s.basePath + "/" + strconv.Itoa(id) + "/edit")
		}
	case key.Matches(keyMsg, keys.Delete):
		if r := s.selected(); r != nil {
			return s.ctrl.Delete(r)
		}
	case key.Matches(keyMsg, keys.Refresh):
		return s.ctrl.Init()
	case key.Matches(keyMsg, keys.Switch):
		s.app.Navigate(s.other)
	default:
		var tcmd tea.Cmd
		s.table, tcmd = s.table.Update(keyMsg)
		return tea.Batch(cmd, tcmd)
	}
	return cmd
}

func (s *listScreen[E]) refresh() {
	records := s.ctrl.Records()
	rows := make([]table.Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, s.row(r))
	}
	s.table.SetRows(rows)
	if c := s.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		s.table.SetCursor(len(rows) - 1)
	}
}

func (s *listScreen[E]) selected() *E {
	records := s.ctrl.Records()
	c := s.table.Cursor()
	if c < 0 || c >= len(records) {
		return nil
	}
	return records[c]
}

func (s *listScreen[E]) selectedID() (int, bool) {
	r := s.selected()
	if r == nil {
		return 0, false
	}
	return (*r).RecordID()
}

func (s *listScreen[E]) View() string {
	var b strings.Builder
	b.WriteString(s.app.theme.Title.Render(s.app.printer.Sprintf(s.title)))
	b.WriteString("\n")
	if s.ctrl.Loading() {
		b.WriteString(s.app.spinner.View() + " ")
		b.WriteString(s.app.theme.StatusPending.Render("Loading..."))
		b.WriteString("\n")
	}
	b.WriteString(s.table.View())
	return b.String()
}

func (s *listScreen[E]) Busy() bool { return s.ctrl.Loading() }

func (s *listScreen[E]) Close() { s.ctrl.Close() }

func (s *listScreen[E]) Help() help.KeyMap { return ListKeys{s.app.keys} }

func (s *listScreen[E]) CapturesText() bool { return false }
