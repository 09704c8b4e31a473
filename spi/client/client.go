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

package client

import (
	"context"

	spiconfig "github.com/safariyetu/bigqueryobjects/spi/config"
	"github.com/safariyetu/bigqueryobjects/spi/rowset"
	"github.com/safariyetu/bigqueryobjects/spi/table"
)

// Row is a single insert payload. The insert id is used by the
// backing store for best effort duplicate suppression on resubmits.
type Row struct {
	InsertID string
	Record   *rowset.Record
}

// InsertResult reports per row failures of an otherwise accepted
// bulk insert. An empty RowErrors map means full acceptance.
type InsertResult struct {
	RowErrors map[int][]string
}

// Query addresses stored rows. A query with an empty statement
// reads all rows of the table. Query construction beyond that is
// up to the caller.
type Query struct {
	Table     table.Id
	Statement string
	Args      []any
}

// Client is the driver interface to a concrete tabular store.
// Table definitions are always transferred wholesale, a fetch
// returns the complete remote definition and updates replace it
// entirely.
type Client interface {
	FetchTable(ctx context.Context, id table.Id) (*table.Definition, error)
	CreateTable(ctx context.Context, id table.Id, definition table.Definition) (*table.Definition, error)
	UpdateTable(ctx context.Context, id table.Id, definition table.Definition) (*table.Definition, error)
	BulkInsert(ctx context.Context, id table.Id, rows []Row) (*InsertResult, error)
	RunQuery(ctx context.Context, query Query) (rowset.Result, error)
	Close() error
}

// Provider instantiates a client from the configuration
type Provider = func(config *spiconfig.Config) (Client, error)
