package form

import (
	"encoding/json"
	"fmt"
	"sort"
)

// FieldSet is the editable, serializable representation of one record.
// Values are kept as strings exactly as the user typed them; a Codec
// converts them to and from the entity.
type FieldSet struct {
	values  map[string]string
	touched map[string]bool
	server  map[string][]string
	options map[string][]Option
	schema  Schema
}

// NewFieldSet builds an empty field-set. Defaults are applied only when
// withDefaults is set (New mode).
func NewFieldSet(schema Schema, withDefaults bool) *FieldSet {
	fs := &FieldSet{
		schema:  schema,
		values:  make(map[string]string, len(schema)),
		touched: map[string]bool{},
		server:  map[string][]string{},
		options: map[string][]Option{},
	}
	for _, f := range schema {
		if withDefaults {
			fs.values[f.Name] = f.Default
		} else {
			fs.values[f.Name] = ""
		}
	}
	return fs
}

// Schema returns the schema the field-set was built from.
func (fs *FieldSet) Schema() Schema {
	return fs.schema
}

// Value returns the current value of a field.
func (fs *FieldSet) Value(name string) string {
	return fs.values[name]
}

// Values returns a copy of all values.
func (fs *FieldSet) Values() map[string]string {
	out := make(map[string]string, len(fs.values))
	for k, v := range fs.values {
		out[k] = v
	}
	return out
}

// Set changes one field as the user would: the field becomes touched and
// any server error attached to it is cleared.
func (fs *FieldSet) Set(name, value string) error {
	if _, ok := fs.schema.Field(name); !ok {
		return fmt.Errorf("unknown field %q", name)
	}
	fs.values[name] = value
	fs.touched[name] = true
	delete(fs.server, name)
	return nil
}

// Patch replaces the values of every known field present in values without
// touching them. Unknown names are ignored.
func (fs *FieldSet) Patch(values map[string]string) {
	for name, v := range values {
		if _, ok := fs.schema.Field(name); ok {
			fs.values[name] = v
		}
	}
}

// Touch marks fields as touched so their errors are shown. With no names,
// every field is touched.
func (fs *FieldSet) Touch(names ...string) {
	if len(names) == 0 {
		names = fs.schema.Names()
	}
	for _, n := range names {
		fs.touched[n] = true
	}
}

// Touched reports whether a field was edited or explicitly touched.
func (fs *FieldSet) Touched(name string) bool {
	return fs.touched[name]
}

// Validate runs the schema rules against the current values.
func (fs *FieldSet) Validate() []FieldError {
	return Validate(fs.schema, fs.values)
}

// Valid reports whether the client-side rules pass.
func (fs *FieldSet) Valid() bool {
	return len(fs.Validate()) == 0
}

// Errors returns what the view should show under a field: the client-side
// error once the field is touched, followed by server messages.
func (fs *FieldSet) Errors(name string) []FieldError {
	var out []FieldError
	if fs.touched[name] {
		for _, e := range fs.Validate() {
			if e.Field == name {
				out = append(out, e)
			}
		}
	}
	for _, msg := range fs.server[name] {
		out = append(out, FieldError{Field: name, Key: msg, Raw: true})
	}
	return out
}

// SetServerErrors attaches backend messages to fields.
func (fs *FieldSet) SetServerErrors(fields map[string][]string) {
	fs.server = make(map[string][]string, len(fields))
	for name, msgs := range fields {
		fs.server[name] = append([]string(nil), msgs...)
	}
}

// ClearServerErrors drops every backend message.
func (fs *FieldSet) ClearServerErrors() {
	fs.server = map[string][]string{}
}

// Options returns the choices of a field: dynamic options when set,
// otherwise the schema's static ones.
func (fs *FieldSet) Options(name string) []Option {
	if opts, ok := fs.options[name]; ok {
		return opts
	}
	f, _ := fs.schema.Field(name)
	return f.Options
}

// SetOptions replaces the choices of a field.
func (fs *FieldSet) SetOptions(name string, opts []Option) {
	fs.options[name] = opts
}

type fieldSetJSON struct {
	Values  map[string]string   `json:"values"`
	Server  map[string][]string `json:"serverErrors,omitempty"`
	Touched []string            `json:"touched,omitempty"`
}

// MarshalJSON encodes values, touched fields and server errors.
func (fs *FieldSet) MarshalJSON() ([]byte, error) {
	out := fieldSetJSON{Values: fs.values}
	if len(fs.server) > 0 {
		out.Server = fs.server
	}
	for name, t := range fs.touched {
		if t {
			out.Touched = append(out.Touched, name)
		}
	}
	sort.Strings(out.Touched)
	return json.Marshal(out)
}

// UnmarshalJSON restores state onto a field-set created with NewFieldSet.
func (fs *FieldSet) UnmarshalJSON(data []byte) error {
	var in fieldSetJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if fs.values == nil {
		fs.values = map[string]string{}
		fs.options = map[string][]Option{}
	}
	for name, v := range in.Values {
		if fs.schema != nil {
			if _, ok := fs.schema.Field(name); !ok {
				continue
			}
		}
		fs.values[name] = v
	}
	fs.touched = map[string]bool{}
	for _, name := range in.Touched {
		fs.touched[name] = true
	}
	fs.SetServerErrors(in.Server)
	return nil
}

func (fs *FieldSet) untouch() {
	fs.touched = map[string]bool{}
}
