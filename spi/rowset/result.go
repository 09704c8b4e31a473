package rowset

import (
	schemaspi "github.com/safariyetu/bigqueryobjects/spi/schema"
)

// Result streams rows of a finished query. Iteration follows the
// usual database driver contract: Next advances, Row yields the
// current row, Err reports what stopped a premature iteration.
type Result interface {
	Schema() schemaspi.Schema
	Next() bool
	Row() Row
	Err() error
	Close()
}

// RecordRow converts an encoded record into the typed row model,
// keeping field order and descending into nested records and
// collections.
func RecordRow(
	record *Record,
) Row {

	row := NewRow()
	for _, name := range record.FieldNames() {
		value, _ := record.Get(name)
		row.Append(name, recordValue(value))
	}
	return row
}

func recordValue(
	value any,
) Value {

	switch v := value.(type) {
	case nil:
		return NullValue()
	case *Record:
		return RecordValue(RecordRow(v))
	case []any:
		elements := make([]Value, 0, len(v))
		for _, element := range v {
			elements = append(elements, recordValue(element))
		}
		return RepeatedValue(elements)
	default:
		return PrimitiveValue(value)
	}
}
