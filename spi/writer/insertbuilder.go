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

package writer

import (
	"context"

	"github.com/safariyetu/bigqueryobjects/spi/table"
)

// InsertBuilder is the mutable context of one pending write. Builders
// are independent value holders, sharing nothing but the writer they
// came from, and are consumed by Execute.
type InsertBuilder struct {
	writer       *Writer
	table        table.Id
	records      []any
	partitioning *table.Partitioning
	clustering   *table.Clustering
}

func (i *InsertBuilder) Row(
	record any,
) *InsertBuilder {

	i.records = append(i.records, record)
	return i
}

func (i *InsertBuilder) Rows(
	records ...any,
) *InsertBuilder {

	i.records = append(i.records, records...)
	return i
}

// PartitionBy requests daily time partitioning on the given field.
func (i *InsertBuilder) PartitionBy(
	field string,
) *InsertBuilder {

	return i.PartitionByGranularity(field, table.DefaultGranularity)
}

func (i *InsertBuilder) PartitionByGranularity(
	field string, granularity table.Granularity,
) *InsertBuilder {

	i.partitioning = &table.Partitioning{
		Field:       field,
		Granularity: granularity,
	}
	return i
}

func (i *InsertBuilder) ClusterBy(
	fields ...string,
) *InsertBuilder {

	i.clustering = &table.Clustering{Fields: fields}
	return i
}

// Execute encodes and submits the collected rows. An empty builder
// returns right away without talking to the client at all.
func (i *InsertBuilder) Execute(
	ctx context.Context,
) error {

	return i.writer.execute(ctx, i)
}
