package memory

import (
	"github.com/safariyetu/bigqueryobjects/spi/rowset"
	"github.com/safariyetu/bigqueryobjects/spi/schema"
)

// memoryResult streams a snapshot of stored records. The backing
// slice is copy on write, a result stays valid while concurrent
// inserts land.
type memoryResult struct {
	schema  schema.Schema
	rows    []*rowset.Record
	index   int
	current rowset.Row
}

func newMemoryResult(
	s schema.Schema, rows []*rowset.Record,
) *memoryResult {

	return &memoryResult{
		schema: s,
		rows:   rows,
		index:  -1,
	}
}

func (r *memoryResult) Schema() schema.Schema {
	return r.schema
}

func (r *memoryResult) Next() bool {
	if r.index+1 >= len(r.rows) {
		return false
	}
	r.index++
	r.current = rowset.RecordRow(r.rows[r.index])
	return true
}

func (r *memoryResult) Row() rowset.Row {
	return r.current
}

func (r *memoryResult) Err() error {
	return nil
}

func (r *memoryResult) Close() {
}
