package column

import "github.com/paiml/trueno-db/errs"

// Field is one named, typed column in a Schema.
type Field struct {
	Name     string
	Type     DType
	Nullable bool
}

// Schema is an ordered sequence of fields; names are unique within a schema.
type Schema struct {
	Fields []Field
}

// NewSchema constructs a Schema from its fields, in order.
func NewSchema(fields ...Field) Schema {
	return Schema{Fields: fields}
}

// IndexOf returns the position of the named field, or -1 if absent.
func (s Schema) IndexOf(name string) int {
	for i, f := range s.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// Field returns the field with the given name and whether it was found.
func (s Schema) Field(name string) (Field, bool) {
	i := s.IndexOf(name)
	if i < 0 {
		return Field{}, false
	}
	return s.Fields[i], true
}

// Equal reports whether two schemas agree by field name and type, in order,
// which is the exact equality spec.md §3/§4.1 requires on append.
func (s Schema) Equal(other Schema) bool {
	if len(s.Fields) != len(other.Fields) {
		return false
	}
	for i, f := range s.Fields {
		g := other.Fields[i]
		if f.Name != g.Name || f.Type != g.Type {
			return false
		}
	}
	return true
}

// Validate checks the schema has no duplicate field names.
func (s Schema) Validate() error {
	seen := make(map[string]struct{}, len(s.Fields))
	for _, f := range s.Fields {
		if _, ok := seen[f.Name]; ok {
			return errs.Newf(errs.SchemaMismatch, "duplicate field name %q in schema", f.Name).WithColumn(f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	return nil
}
