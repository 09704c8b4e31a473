package rowset

import (
	"github.com/goccy/go-json"
)

// Record is an encoded row ready for insertion. Field order is
// insertion order and survives serialization. Absent fields have
// no key at all, there are no explicit nulls.
type Record struct {
	names  []string
	values map[string]any
}

func NewRecord() *Record {
	return &Record{
		names:  make([]string, 0, 8),
		values: make(map[string]any, 8),
	}
}

func (r *Record) Set(
	name string, value any,
) *Record {

	if _, present := r.values[name]; !present {
		r.names = append(r.names, name)
	}
	r.values[name] = value
	return r
}

func (r *Record) Get(
	name string,
) (any, bool) {

	value, present := r.values[name]
	return value, present
}

func (r *Record) Len() int {
	return len(r.names)
}

func (r *Record) FieldNames() []string {
	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}

func (r *Record) MarshalJSON() ([]byte, error) {
	buffer := make([]byte, 0, 64)
	buffer = append(buffer, '{')
	for i, name := range r.names {
		if i > 0 {
			buffer = append(buffer, ',')
		}

		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buffer = append(buffer, key...)
		buffer = append(buffer, ':')

		value, err := json.Marshal(r.values[name])
		if err != nil {
			return nil, err
		}
		buffer = append(buffer, value...)
	}
	return append(buffer, '}'), nil
}
