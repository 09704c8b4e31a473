package mapping

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/safariyetu/bigqueryobjects/spi/table"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// EmptyInputError signals that schema inference was requested
// without a single record to derive the type from
type EmptyInputError struct{}

func (EmptyInputError) Error() string {
	return "cannot infer schema from an empty record set"
}

// UnsupportedTypeError signals a declared type with no defined
// column mapping
type UnsupportedTypeError struct {
	Type  reflect.Type
	Value any
}

func (e *UnsupportedTypeError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("unsupported type %s for value %v", e.Type, e.Value)
	}
	return fmt.Sprintf("unsupported type %s", e.Type)
}

// DateTimeFormatError carries the original textual value after
// every temporal parsing fallback was exhausted
type DateTimeFormatError struct {
	Value string
}

func (e *DateTimeFormatError) Error() string {
	return fmt.Sprintf("value '%s' matches no supported date or time format", e.Value)
}

// CyclicSchemaError signals that inference descended deeper than
// the recursion guard allows, which only happens for cyclic or
// degenerately deep type graphs
type CyclicSchemaError struct {
	Type  reflect.Type
	Depth int
}

func (e *CyclicSchemaError) Error() string {
	return fmt.Sprintf(
		"schema of type %s exceeds the maximum nesting depth of %d, the type graph is likely cyclic",
		e.Type, e.Depth,
	)
}

// PartialInsertError reports rows rejected inside an otherwise
// accepted bulk insert. Partial acceptance is always fatal.
type PartialInsertError struct {
	Table     table.Id
	RowErrors map[int][]string
}

func (e *PartialInsertError) Error() string {
	indexes := maps.Keys(e.RowErrors)
	slices.Sort(indexes)

	details := make([]string, 0, len(indexes))
	for _, index := range indexes {
		details = append(
			details, fmt.Sprintf("row %d: %s", index, strings.Join(e.RowErrors[index], "; ")),
		)
	}
	return fmt.Sprintf(
		"insert into %s failed for %d of the submitted rows => %s",
		e.Table, len(indexes), strings.Join(details, ", "),
	)
}
