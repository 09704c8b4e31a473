package testsupport

import (
	"github.com/safariyetu/bigqueryobjects/spi/rowset"
	schemaspi "github.com/safariyetu/bigqueryobjects/spi/schema"
)

// RowsResult is a slice backed query result for tests.
type RowsResult struct {
	schema  schemaspi.Schema
	rows    []rowset.Row
	index   int
	failure error
	closed  bool
}

func NewRowsResult(schema schemaspi.Schema, rows ...rowset.Row) *RowsResult {
	return &RowsResult{
		schema: schema,
		rows:   rows,
		index:  -1,
	}
}

// Failing lets Err report the given error once the backed rows ran out.
func (r *RowsResult) Failing(failure error) *RowsResult {
	r.failure = failure
	return r
}

func (r *RowsResult) Schema() schemaspi.Schema {
	return r.schema
}

func (r *RowsResult) Next() bool {
	if r.index+1 >= len(r.rows) {
		return false
	}
	r.index++
	return true
}

func (r *RowsResult) Row() rowset.Row {
	return r.rows[r.index]
}

func (r *RowsResult) Err() error {
	return r.failure
}

func (r *RowsResult) Close() {
	r.closed = true
}

func (r *RowsResult) Closed() bool {
	return r.closed
}
