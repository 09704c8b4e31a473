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

package memory

import (
	"context"
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/go-errors/errors"
	"github.com/safariyetu/bigqueryobjects/internal/containers"
	"github.com/safariyetu/bigqueryobjects/internal/logging"
	"github.com/safariyetu/bigqueryobjects/spi/client"
	spiconfig "github.com/safariyetu/bigqueryobjects/spi/config"
	"github.com/safariyetu/bigqueryobjects/spi/rowset"
	"github.com/safariyetu/bigqueryobjects/spi/schema"
	"github.com/safariyetu/bigqueryobjects/spi/table"
)

func init() {
	client.RegisterClient(spiconfig.Memory, newMemoryClient)
}

func newMemoryClient(
	_ *spiconfig.Config,
) (client.Client, error) {

	return NewMemoryClient()
}

// Client is a fully in process tabular store. Tables live in a
// copy on write cache, stored row slices are never mutated after
// publication, which makes query results stable snapshots.
type Client struct {
	tables  *containers.CasCache[string, *memoryTable]
	seenIds *containers.ConcurrentMap[string, struct{}]
	closed  atomic.Bool
	logger  *logging.Logger
}

type memoryTable struct {
	definition table.Definition
	rows       []*rowset.Record
}

func NewMemoryClient() (*Client, error) {
	logger, err := logging.NewLogger("MemoryClient")
	if err != nil {
		return nil, err
	}

	return &Client{
		tables:  containers.NewCasCache[string, *memoryTable](),
		seenIds: containers.NewConcurrentMap[string, struct{}](),
		logger:  logger,
	}, nil
}

func (c *Client) FetchTable(
	_ context.Context, id table.Id,
) (*table.Definition, error) {

	if c.closed.Load() {
		return nil, client.NewError(client.ReasonStopped, "client is closed")
	}

	tbl, present := c.tables.Get(id.String())
	if !present {
		return nil, client.NewError(client.ReasonNotFound, "table %s does not exist", id)
	}

	definition := tbl.definition
	return &definition, nil
}

func (c *Client) CreateTable(
	_ context.Context, id table.Id, definition table.Definition,
) (*table.Definition, error) {

	if c.closed.Load() {
		return nil, client.NewError(client.ReasonStopped, "client is closed")
	}

	created := &memoryTable{definition: definition}
	actual, err := c.tables.GetOrCompute(id.String(), func() (*memoryTable, error) {
		return created, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}
	if actual != created {
		return nil, client.NewError(client.ReasonDuplicate, "table %s already exists", id)
	}

	c.logger.Debugf("Created table %s with schema %s", id, definition.Schema)
	return &definition, nil
}

func (c *Client) UpdateTable(
	_ context.Context, id table.Id, definition table.Definition,
) (*table.Definition, error) {

	if c.closed.Load() {
		return nil, client.NewError(client.ReasonStopped, "client is closed")
	}

	// The transformer cannot fail, an error from the cache means
	// the key was never set
	_, err := c.tables.TransformSetAndGet(
		id.String(), func(old *memoryTable) (*memoryTable, error) {
			return &memoryTable{definition: definition, rows: old.rows}, nil
		},
	)
	if err != nil {
		return nil, client.NewError(client.ReasonNotFound, "table %s does not exist", id)
	}

	c.logger.Debugf("Replaced definition of table %s, schema now %s", id, definition.Schema)
	return &definition, nil
}

func (c *Client) BulkInsert(
	_ context.Context, id table.Id, rows []client.Row,
) (*client.InsertResult, error) {

	if c.closed.Load() {
		return nil, client.NewError(client.ReasonStopped, "client is closed")
	}

	tbl, present := c.tables.Get(id.String())
	if !present {
		return nil, client.NewError(client.ReasonNotFound, "table %s does not exist", id)
	}

	accepted := make([]*rowset.Record, 0, len(rows))
	for _, row := range rows {
		if err := validateRecord(tbl.definition.Schema, row.Record); err != nil {
			return nil, client.NewError(client.ReasonInvalid, "insert into %s: %s", id, err)
		}

		if row.InsertID != "" {
			dedupKey := fmt.Sprintf("%s/%s", id, row.InsertID)
			if _, seen := c.seenIds.LoadOrStore(dedupKey, struct{}{}); seen {
				c.logger.Debugf("Suppressing resubmitted row %s", dedupKey)
				continue
			}
		}
		accepted = append(accepted, row.Record)
	}

	_, err := c.tables.TransformSetAndGet(
		id.String(), func(old *memoryTable) (*memoryTable, error) {
			merged := make([]*rowset.Record, 0, len(old.rows)+len(accepted))
			merged = append(merged, old.rows...)
			merged = append(merged, accepted...)
			return &memoryTable{definition: old.definition, rows: merged}, nil
		},
	)
	if err != nil {
		return nil, client.NewError(client.ReasonNotFound, "table %s does not exist", id)
	}

	return &client.InsertResult{}, nil
}

func (c *Client) RunQuery(
	_ context.Context, query client.Query,
) (rowset.Result, error) {

	if c.closed.Load() {
		return nil, client.NewError(client.ReasonStopped, "client is closed")
	}

	if query.Statement != "" {
		return nil, client.NewError(
			client.ReasonInvalid, "in memory tables cannot run query statements",
		)
	}

	tbl, present := c.tables.Get(query.Table.String())
	if !present {
		return nil, client.NewError(
			client.ReasonNotFound, "table %s does not exist", query.Table,
		)
	}

	return newMemoryResult(tbl.definition.Schema, tbl.rows), nil
}

func (c *Client) Close() error {
	c.closed.Store(true)
	return nil
}

// TableNames lists all known tables as dataset qualified names in
// lexicographic order
func (c *Client) TableNames() []string {
	names := c.tables.Keys()
	slices.Sort(names)
	return names
}

// validateRecord checks an encoded record against the table schema.
// Absent fields are fine, NULLABLE is the default everywhere, but
// unknown names or structurally foreign values reject the insert.
func validateRecord(
	s schema.Schema, record *rowset.Record,
) error {

	for _, name := range record.FieldNames() {
		value, _ := record.Get(name)
		field, present := s.Field(name)
		if !present {
			return errors.Errorf("schema mismatch: unknown field '%s'", name)
		}

		if err := validateValue(field, value); err != nil {
			return err
		}
	}
	return nil
}

func validateValue(
	field schema.Field, value any,
) error {

	if field.Mode == schema.REPEATED {
		elements, repeated := value.([]any)
		if !repeated {
			return errors.Errorf(
				"schema mismatch: field '%s' is repeated but value is %T", field.Name, value,
			)
		}

		for _, element := range elements {
			if err := validateElement(field, element); err != nil {
				return err
			}
		}
		return nil
	}
	return validateElement(field, value)
}

func validateElement(
	field schema.Field, value any,
) error {

	if field.Kind == schema.RECORD {
		nested, record := value.(*rowset.Record)
		if !record {
			return errors.Errorf(
				"schema mismatch: field '%s' is a record but value is %T", field.Name, value,
			)
		}
		return validateRecord(field.Fields, nested)
	}

	switch field.Kind {
	case schema.INTEGER:
		if _, ok := value.(int64); ok {
			return nil
		}
	case schema.FLOAT:
		if _, ok := value.(float64); ok {
			return nil
		}
	case schema.BOOLEAN:
		if _, ok := value.(bool); ok {
			return nil
		}
	case schema.STRING, schema.NUMERIC, schema.DATE,
		schema.TIME, schema.DATETIME, schema.TIMESTAMP:

		if _, ok := value.(string); ok {
			return nil
		}
	}
	return errors.Errorf(
		"schema mismatch: field '%s' expects %s but value is %T", field.Name, field.Kind, value,
	)
}
