// Package form implements the create/edit lifecycle shared by every resource:
// mode resolution, field-set validation, loading, submission and the
// reconciliation of results into view state.
package form

// Kind tells the view layer how to render a field.
type Kind int

// Field kinds.
const (
	KindText Kind = iota
	KindChoice
	KindToggle
	KindHidden
)

// Option is one selectable value of a choice field.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FieldSpec describes one field of a resource form.
type FieldSpec struct {
	// Name is the JSON name of the field, e.g. "categoryId".
	Name string
	// Label is the message key shown next to the field.
	Label string
	// Rules holds validator tags, e.g. "required,min=2".
	Rules string
	// Default is applied in New mode only.
	Default string
	// Options lists static choices. Dynamic choices are set on the FieldSet.
	Options []Option
	Kind    Kind
}

// Schema is the ordered list of fields of a form.
type Schema []FieldSpec

// Field looks up a field by name.
func (s Schema) Field(name string) (FieldSpec, bool) {
	for _, f := range s {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// Names returns the field names in schema order.
func (s Schema) Names() []string {
	names := make([]string, 0, len(s))
	for _, f := range s {
		names = append(names, f.Name)
	}
	return names
}

// Visible returns the fields a view should render.
func (s Schema) Visible() Schema {
	out := make(Schema, 0, len(s))
	for _, f := range s {
		if f.Kind != KindHidden {
			out = append(out, f)
		}
	}
	return out
}
