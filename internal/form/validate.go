package form

import (
	"errors"
	"strings"
	"sync"

	"github.com/Veraticus/fintrack/internal/i18n"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"golang.org/x/text/message"
)

// FieldError is one problem with one field.
type FieldError struct {
	Field string `json:"field"`
	// Key is a message key, or the literal text when Raw is set.
	Key string `json:"key"`
	Arg string `json:"arg,omitempty"`
	// Raw marks server-provided text that must not be translated.
	Raw bool `json:"raw,omitempty"`
}

// Message renders the error for a locale.
func (e FieldError) Message(p *message.Printer) string {
	switch {
	case e.Raw:
		return e.Key
	case e.Arg != "":
		return p.Sprintf(e.Key, e.Arg)
	default:
		return p.Sprintf(e.Key)
	}
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func fieldValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("decimal", isDecimal)
	})
	return validate
}

// isDecimal accepts anything shopspring/decimal can parse.
func isDecimal(fl validator.FieldLevel) bool {
	_, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
	return err == nil
}

// Validate checks values against the schema and returns at most one error
// per field, in schema order. It has no side effects.
func Validate(schema Schema, values map[string]string) []FieldError {
	v := fieldValidator()

	var out []FieldError
	for _, f := range schema {
		if f.Rules == "" {
			continue
		}
		err := v.Var(values[f.Name], f.Rules)
		if err == nil {
			continue
		}

		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) || len(verrs) == 0 {
			out = append(out, FieldError{Field: f.Name, Key: i18n.ErrInvalid})
			continue
		}
		out = append(out, fieldError(f.Name, verrs[0]))
	}
	return out
}

func fieldError(name string, fe validator.FieldError) FieldError {
	out := FieldError{Field: name}
	switch fe.Tag() {
	case "required":
		out.Key = i18n.ErrRequired
	case "min":
		out.Key = i18n.ErrMinLen
		out.Arg = fe.Param()
	case "decimal":
		out.Key = i18n.ErrDecimal
	case "datetime":
		out.Key = i18n.ErrDate
	case "oneof":
		out.Key = i18n.ErrOneOf
		out.Arg = strings.Join(strings.Fields(fe.Param()), ", ")
	case "number", "numeric":
		out.Key = i18n.ErrNumber
	case "boolean":
		out.Key = i18n.ErrBoolean
	default:
		out.Key = i18n.ErrInvalid
	}
	return out
}
