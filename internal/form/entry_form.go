package form

import (
	"context"
	"strconv"

	"github.com/Veraticus/fintrack/internal/i18n"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/nav"
	tea "github.com/charmbracelet/bubbletea"
)

// CategoryLister fetches the categories an entry can belong to.
type CategoryLister interface {
	GetAll(ctx context.Context) ([]model.Category, error)
}

type categoriesMsg struct {
	err        error
	categories []model.Category
	visit      uint64
}

// EntryController is the entry form. Besides the entry itself it loads the
// category collection that feeds the categoryId selector; the two loads are
// independent and may complete in any order.
type EntryController struct {
	*Controller[model.Entry]
	lister     CategoryLister
	categories []model.Category
}

// NewEntryController creates the entry form controller.
func NewEntryController(ctx context.Context, svc Service[model.Entry], lister CategoryLister, deps Deps) *EntryController {
	return &EntryController{
		Controller: New(ctx, EntryForm, svc, deps),
		lister:     lister,
	}
}

// Init starts the entry load (when editing) and the category load.
func (c *EntryController) Init(loc nav.Context) tea.Cmd {
	c.categories = nil
	load := c.Controller.Init(loc)
	return tea.Batch(load, c.loadCategories())
}

// Update handles the category load and delegates everything else.
func (c *EntryController) Update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(categoriesMsg); ok {
		if c.accepts(msg.visit) {
			c.handleCategories(msg)
		}
		return nil
	}
	return c.Controller.Update(msg)
}

// Categories returns the loaded categories in backend order.
func (c *EntryController) Categories() []model.Category {
	return c.categories
}

func (c *EntryController) loadCategories() tea.Cmd {
	ctx, lister, visit := c.ctx, c.lister, c.visit
	return func() tea.Msg {
		categories, err := lister.GetAll(ctx)
		return categoriesMsg{visit: visit, categories: categories, err: err}
	}
}

func (c *EntryController) handleCategories(msg categoriesMsg) {
	if msg.err != nil {
		c.deps.Logger.Error("Failed to load categories", "error", msg.err)
		c.deps.Notifier.Error(c.deps.Printer.Sprintf(i18n.MsgCategoriesFailed))
		return
	}

	c.categories = msg.categories
	opts := make([]Option, 0, len(msg.categories))
	for _, cat := range msg.categories {
		id, ok := cat.RecordID()
		if !ok {
			continue
		}
		opts = append(opts, Option{Value: strconv.Itoa(id), Label: cat.Name})
	}
	c.fields.SetOptions("categoryId", opts)
}
