package form

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Veraticus/fintrack/internal/i18n"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/resource"
	"github.com/shopspring/decimal"
)

// Codec converts between an entity and field-set values.
type Codec[E model.Record] interface {
	// Encode produces the values used to patch a field-set.
	Encode(record E) map[string]string
	// Decode builds a fresh entity from field-set values.
	Decode(values map[string]string) (E, error)
}

// Definition binds a resource to its form.
type Definition[E model.Record] struct {
	Codec     Codec[E]
	Path      string
	TitleNew  string
	TitleEdit string
	Schema    Schema
}

// EditPath returns the edit route of a persisted record.
func (d Definition[E]) EditPath(id int) string {
	return fmt.Sprintf("%s/%d/edit", d.Path, id)
}

// CategorySchema describes the category form.
var CategorySchema = Schema{
	{Name: "id", Kind: KindHidden},
	{Name: "name", Label: i18n.LabelName, Rules: "required,min=2"},
	{Name: "description", Label: i18n.LabelDescription},
}

// EntrySchema describes the entry form.
var EntrySchema = Schema{
	{Name: "id", Kind: KindHidden},
	{Name: "name", Label: i18n.LabelName, Rules: "required,min=2"},
	{Name: "description", Label: i18n.LabelDescription},
	{
		Name:    "type",
		Label:   i18n.LabelType,
		Rules:   "required,oneof=expense revenue",
		Default: string(model.EntryTypeExpense),
		Kind:    KindChoice,
		Options: entryTypeOptions(),
	},
	{Name: "amount", Label: i18n.LabelAmount, Rules: "required,decimal"},
	{Name: "date", Label: i18n.LabelDate, Rules: "required,datetime=" + model.DateLayout},
	{Name: "paid", Label: i18n.LabelPaid, Rules: "required,boolean", Default: "true", Kind: KindToggle},
	{Name: "categoryId", Label: i18n.LabelCategory, Rules: "required,number", Kind: KindChoice},
}

func entryTypeOptions() []Option {
	types := model.EntryTypeOptions()
	out := make([]Option, 0, len(types))
	for _, t := range types {
		out = append(out, Option{Value: string(t.Value), Label: t.Label})
	}
	return out
}

// CategoryForm is the definition of the category form.
var CategoryForm = Definition[model.Category]{
	Path:      resource.CategoriesPath,
	Schema:    CategorySchema,
	Codec:     CategoryCodec{},
	TitleNew:  i18n.TitleNewCategory,
	TitleEdit: i18n.TitleEditCategory,
}

// EntryForm is the definition of the entry form.
var EntryForm = Definition[model.Entry]{
	Path:      resource.EntriesPath,
	Schema:    EntrySchema,
	Codec:     EntryCodec{},
	TitleNew:  i18n.TitleNewEntry,
	TitleEdit: i18n.TitleEditEntry,
}

// CategoryCodec converts categories.
type CategoryCodec struct{}

// Encode implements Codec.
func (CategoryCodec) Encode(c model.Category) map[string]string {
	return map[string]string{
		"id":          formatID(c.ID),
		"name":        c.Name,
		"description": derefString(c.Description),
	}
}

// Decode implements Codec.
func (CategoryCodec) Decode(values map[string]string) (model.Category, error) {
	id, err := parseID(values["id"])
	if err != nil {
		return model.Category{}, err
	}
	return model.Category{
		ID:          id,
		Name:        values["name"],
		Description: optionalString(values["description"]),
	}, nil
}

// EntryCodec converts entries.
type EntryCodec struct{}

// Encode implements Codec.
func (EntryCodec) Encode(e model.Entry) map[string]string {
	category := ""
	if e.CategoryID != 0 {
		category = strconv.Itoa(e.CategoryID)
	}
	return map[string]string{
		"id":          formatID(e.ID),
		"name":        e.Name,
		"description": derefString(e.Description),
		"type":        string(e.Type),
		"amount":      e.Amount.String(),
		"date":        e.Date.String(),
		"paid":        strconv.FormatBool(e.Paid),
		"categoryId":  category,
	}
}

// Decode implements Codec.
func (EntryCodec) Decode(values map[string]string) (model.Entry, error) {
	id, err := parseID(values["id"])
	if err != nil {
		return model.Entry{}, err
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(values["amount"]))
	if err != nil {
		return model.Entry{}, fmt.Errorf("invalid amount %q: %w", values["amount"], err)
	}
	date, err := model.ParseDate(values["date"])
	if err != nil {
		return model.Entry{}, err
	}
	paid, err := strconv.ParseBool(values["paid"])
	if err != nil {
		return model.Entry{}, fmt.Errorf("invalid paid flag %q: %w", values["paid"], err)
	}
	categoryID, err := strconv.Atoi(values["categoryId"])
	if err != nil {
		return model.Entry{}, fmt.Errorf("invalid category id %q: %w", values["categoryId"], err)
	}
	return model.Entry{
		ID:          id,
		Name:        values["name"],
		Description: optionalString(values["description"]),
		Type:        model.EntryType(values["type"]),
		Amount:      amount,
		Date:        date,
		Paid:        paid,
		CategoryID:  categoryID,
	}, nil
}

func formatID(id *int) string {
	if id == nil {
		return ""
	}
	return strconv.Itoa(*id)
}

func parseID(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	id, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("invalid id %q: %w", s, err)
	}
	return &id, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
