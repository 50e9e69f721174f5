package server

import (
	"errors"
	"reflect"
	"strings"

	"github.com/Veraticus/fintrack/internal/i18n"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// categoryPayload is the request body of category writes.
type categoryPayload struct {
	ID          *int    `json:"id"`
	Description *string `json:"description"`
	Name        string  `json:"name" validate:"required,min=2"`
}

// normalize trims the name so length rules apply to what gets stored.
func (p *categoryPayload) normalize() {
	p.Name = strings.TrimSpace(p.Name)
}

func (p categoryPayload) toModel() model.Category {
	return model.Category{
		Name:        p.Name,
		Description: emptyToNil(p.Description),
	}
}

// entryPayload is the request body of entry writes. Pointers distinguish
// missing fields from zero values.
type entryPayload struct {
	ID          *int             `json:"id"`
	Description *string          `json:"description"`
	Amount      *decimal.Decimal `json:"amount" validate:"required"`
	Date        *model.Date      `json:"date" validate:"required"`
	Paid        *bool            `json:"paid" validate:"required"`
	CategoryID  *int             `json:"categoryId" validate:"required,gt=0"`
	Name        string           `json:"name" validate:"required,min=2"`
	Type        string           `json:"type" validate:"required,oneof=expense revenue"`
}

func (p *entryPayload) normalize() {
	p.Name = strings.TrimSpace(p.Name)
	if p.Date != nil && p.Date.IsZero() {
		p.Date = nil
	}
}

func (p entryPayload) toModel() model.Entry {
	return model.Entry{
		Name:        p.Name,
		Description: emptyToNil(p.Description),
		Type:        model.EntryType(p.Type),
		Amount:      *p.Amount,
		Date:        *p.Date,
		Paid:        *p.Paid,
		CategoryID:  *p.CategoryID,
	}
}

func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

// payloadValidator reports failures keyed by JSON field name.
type payloadValidator struct {
	validate *validator.Validate
	printer  *message.Printer
}

func newPayloadValidator() *payloadValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &payloadValidator{validate: v, printer: message.NewPrinter(language.English)}
}

// Check validates a payload and returns field messages, or nil when valid.
func (pv *payloadValidator) Check(payload any) (map[string][]string, error) {
	err := pv.validate.Struct(payload)
	if err == nil {
		return nil, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}

	fields := map[string][]string{}
	for _, fe := range verrs {
		fields[fe.Field()] = append(fields[fe.Field()], pv.message(fe))
	}
	return fields, nil
}

func (pv *payloadValidator) message(fe validator.FieldError) string {
	p := pv.printer
	switch fe.Tag() {
	case "required":
		return p.Sprintf(i18n.ErrRequired)
	case "min":
		return p.Sprintf(i18n.ErrMinLen, fe.Param())
	case "oneof":
		return p.Sprintf(i18n.ErrOneOf, strings.Join(strings.Fields(fe.Param()), ", "))
	case "gt":
		return p.Sprintf(i18n.ErrRequired)
	default:
		return p.Sprintf(i18n.ErrInvalid)
	}
}
