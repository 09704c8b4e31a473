package schema

// Kind is a string like definition of the available
// column data types of the tabular store
type Kind string

func (k Kind) IsScalar() bool {
	switch k {
	case INTEGER, FLOAT, BOOLEAN, STRING, NUMERIC, DATE, TIME, DATETIME, TIMESTAMP:
		return true
	}
	return false
}

const (
	INTEGER   Kind = "INTEGER"
	FLOAT     Kind = "FLOAT"
	BOOLEAN   Kind = "BOOLEAN"
	STRING    Kind = "STRING"
	NUMERIC   Kind = "NUMERIC"
	DATE      Kind = "DATE"
	TIME      Kind = "TIME"
	DATETIME  Kind = "DATETIME"
	TIMESTAMP Kind = "TIMESTAMP"
	RECORD    Kind = "RECORD"
)

// Mode defines the nullability or multiplicity of a column
type Mode string

const (
	NULLABLE Mode = "NULLABLE"
	REPEATED Mode = "REPEATED"
)

// Field describes a single column of a schema. Subfields are
// non-empty if and only if the kind is RECORD, and keep the
// declaration order of the source record type.
type Field struct {
	Name   string `json:"name" yaml:"name"`
	Kind   Kind   `json:"type" yaml:"type"`
	Mode   Mode   `json:"mode" yaml:"mode"`
	Fields Schema `json:"fields,omitempty" yaml:"fields,omitempty"`
}

func (f Field) Equal(
	other Field,
) bool {

	if f.Name != other.Name || f.Kind != other.Kind || f.Mode != other.Mode {
		return false
	}
	return f.Fields.Equal(other.Fields)
}

// Schema is the ordered sequence of fields rooted at a record
// type. Schemas are values, derived fresh per inference run and
// never mutated in place.
type Schema []Field

func (s Schema) Equal(
	other Schema,
) bool {

	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if !s[i].Equal(other[i]) {
			return false
		}
	}
	return true
}

func (s Schema) FieldNames() []string {
	names := make([]string, len(s))
	for i, field := range s {
		names[i] = field.Name
	}
	return names
}

func (s Schema) Field(
	name string,
) (Field, bool) {

	for _, field := range s {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

func (s Schema) String() string {
	result := "["
	for i, field := range s {
		if i > 0 {
			result += ", "
		}
		result += field.Name + " " + string(field.Kind)
		if field.Mode == REPEATED {
			result += " repeated"
		}
		if field.Kind == RECORD {
			result += " " + field.Fields.String()
		}
	}
	return result + "]"
}
