/*
 * Licensed to the Apache Software Foundation (ASF) under one or more
 * contributor license agreements. See the NOTICE file distributed with
 * this work for additional information regarding copyright ownership.
 * The ASF licenses this file to You under the Apache License, Version 2.0
 * (the "License"); you may not use this file except in compliance with
 * the License. You may obtain a copy of the License at
 *
 *    http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package reader

import (
	"reflect"

	"github.com/go-errors/errors"
	"github.com/safariyetu/bigqueryobjects/internal/logging"
	"github.com/safariyetu/bigqueryobjects/internal/objectmapping"
	"github.com/safariyetu/bigqueryobjects/internal/telemetry"
	"github.com/safariyetu/bigqueryobjects/spi/mapping"
	"github.com/safariyetu/bigqueryobjects/spi/rowset"
)

// Reader decodes query results into instances of T. Column to field
// mapping is inferred from the resolved field names of T unless
// explicit Map(column).To(field) pairs were registered, in which
// case only those pairs apply.
type Reader[T any] struct {
	decoder  mapping.RowDecoder
	columns  *mapping.ColumnMapping
	reporter *telemetry.Reporter
	logger   *logging.Logger
}

func NewReader[T any]() (*Reader[T], error) {
	return NewReaderWithReporter[T](telemetry.NewDisabledReporter())
}

func NewReaderWithReporter[T any](
	reporter *telemetry.Reporter,
) (*Reader[T], error) {

	targetType := reflect.TypeOf((*T)(nil)).Elem()
	if targetType.Kind() != reflect.Struct {
		return nil, &mapping.UnsupportedTypeError{Type: targetType}
	}

	logger, err := logging.NewLogger("Reader")
	if err != nil {
		return nil, err
	}

	engine, err := objectmapping.NewEngine()
	if err != nil {
		return nil, err
	}

	return &Reader[T]{
		decoder:  engine,
		columns:  mapping.NewColumnMapping(),
		reporter: reporter,
		logger:   logger,
	}, nil
}

// Map registers an explicit column to field mapping. Registering a
// column twice keeps the last target field.
func (r *Reader[T]) Map(
	column string,
) MappingStep[T] {

	return MappingStep[T]{reader: r, column: column}
}

type MappingStep[T any] struct {
	reader *Reader[T]
	column string
}

func (m MappingStep[T]) To(
	field string,
) *Reader[T] {

	m.reader.columns.Put(m.column, field)
	return m.reader
}

// Read drains the result into freshly constructed instances of T,
// in row order, and closes it. A decode failure aborts the whole
// read.
func (r *Reader[T]) Read(
	result rowset.Result,
) ([]T, error) {

	defer result.Close()

	instances := make([]T, 0)
	for result.Next() {
		var instance T
		if err := r.decoder.DecodeRow(
			result.Row(), reflect.ValueOf(&instance), r.columns,
		); err != nil {
			return nil, err
		}
		instances = append(instances, instance)
	}

	if err := result.Err(); err != nil {
		return nil, errors.Wrap(err, 0)
	}

	r.reporter.Add("rows_decoded", len(instances))
	return instances, nil
}
