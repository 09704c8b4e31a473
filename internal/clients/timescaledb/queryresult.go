package timescaledb

import (
	"github.com/safariyetu/bigqueryobjects/spi/rowset"
	"github.com/safariyetu/bigqueryobjects/spi/schema"
)

// queryResult holds an eagerly drained result set. Rows are read
// and converted inside the database session, the connection never
// outlives the RunQuery call.
type queryResult struct {
	schema  schema.Schema
	rows    []rowset.Row
	index   int
	current rowset.Row
}

func newQueryResult(
	s schema.Schema, rows []rowset.Row,
) *queryResult {

	return &queryResult{
		schema: s,
		rows:   rows,
		index:  -1,
	}
}

func (r *queryResult) Schema() schema.Schema {
	return r.schema
}

func (r *queryResult) Next() bool {
	if r.index+1 >= len(r.rows) {
		return false
	}
	r.index++
	r.current = r.rows[r.index]
	return true
}

func (r *queryResult) Row() rowset.Row {
	return r.current
}

func (r *queryResult) Err() error {
	return nil
}

func (r *queryResult) Close() {
}
