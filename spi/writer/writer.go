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
	"strings"

	"github.com/go-errors/errors"
	"github.com/hashicorp/go-uuid"
	"github.com/safariyetu/bigqueryobjects/internal/logging"
	"github.com/safariyetu/bigqueryobjects/internal/objectmapping"
	"github.com/safariyetu/bigqueryobjects/internal/telemetry"
	"github.com/safariyetu/bigqueryobjects/spi/client"
	"github.com/safariyetu/bigqueryobjects/spi/mapping"
	"github.com/safariyetu/bigqueryobjects/spi/table"
)

const schemaMismatchIndicator = "schema mismatch"

// Writer turns record instances into bulk inserts against a client
// and repairs the remote table definition when an insert bounces off
// a missing table or a schema mismatch. A failed insert is repaired
// and resubmitted exactly once, a second failure of any kind is
// terminal.
type Writer struct {
	client   client.Client
	inferrer mapping.SchemaInferrer
	encoder  mapping.RecordEncoder
	reporter *telemetry.Reporter
	logger   *logging.Logger
}

func NewWriter(
	c client.Client,
) (*Writer, error) {

	return NewWriterWithReporter(c, telemetry.NewDisabledReporter())
}

func NewWriterWithReporter(
	c client.Client, reporter *telemetry.Reporter,
) (*Writer, error) {

	logger, err := logging.NewLogger("Writer")
	if err != nil {
		return nil, err
	}

	engine, err := objectmapping.NewEngine()
	if err != nil {
		return nil, err
	}

	return &Writer{
		client:   c,
		inferrer: engine,
		encoder:  engine,
		reporter: reporter,
		logger:   logger,
	}, nil
}

// Insert starts a pending write against dataset.name. The returned
// builder collects rows and the requested physical layout until
// Execute consumes it.
func (w *Writer) Insert(
	dataset, name string,
) *InsertBuilder {

	return &InsertBuilder{
		writer: w,
		table:  table.Id{Dataset: dataset, Name: name},
	}
}

func (w *Writer) execute(
	ctx context.Context, pending *InsertBuilder,
) error {

	if len(pending.records) == 0 {
		return nil
	}

	rows, err := w.encodeRows(pending.records)
	if err != nil {
		return err
	}

	w.reporter.Incr("inserts")
	err = w.bulkInsert(ctx, pending.table, rows)
	if err == nil {
		return nil
	}

	if !retryable(err) {
		return err
	}

	w.logger.Debugf(
		"Insert into %s rejected (%s), reconciling table definition", pending.table, err,
	)

	if err := w.reconcile(ctx, pending); err != nil {
		return err
	}

	rows, err = w.encodeRows(pending.records)
	if err != nil {
		return err
	}

	w.reporter.Incr("retries")
	w.reporter.Incr("inserts")
	if err := w.bulkInsert(ctx, pending.table, rows); err != nil {
		w.logger.Errorf("Insert into %s failed after reconciliation: %s", pending.table, err)
		return err
	}
	return nil
}

func (w *Writer) encodeRows(
	records []any,
) ([]client.Row, error) {

	rows := make([]client.Row, 0, len(records))
	for _, record := range records {
		encoded, err := w.encoder.EncodeRecord(record)
		if err != nil {
			return nil, err
		}

		insertId, err := uuid.GenerateUUID()
		if err != nil {
			return nil, errors.Wrap(err, 0)
		}

		rows = append(rows, client.Row{InsertID: insertId, Record: encoded})
	}
	w.reporter.Add("rows_encoded", len(rows))
	return rows, nil
}

func (w *Writer) bulkInsert(
	ctx context.Context, id table.Id, rows []client.Row,
) error {

	result, err := w.client.BulkInsert(ctx, id, rows)
	if err != nil {
		return err
	}
	if result != nil && len(result.RowErrors) > 0 {
		return &mapping.PartialInsertError{Table: id, RowErrors: result.RowErrors}
	}
	return nil
}

func (w *Writer) reconcile(
	ctx context.Context, pending *InsertBuilder,
) error {

	requiredSchema, err := w.inferrer.InferSchemaFromRecords(pending.records)
	if err != nil {
		return err
	}

	required := table.Definition{
		Schema:       requiredSchema,
		Partitioning: pending.partitioning,
		Clustering:   pending.clustering,
	}

	remote, err := w.client.FetchTable(ctx, pending.table)
	if err != nil {
		if !client.IsNotFound(err) {
			return err
		}

		w.logger.Infof("Creating table %s", pending.table)
		w.reporter.Incr("creates")
		if _, err := w.client.CreateTable(ctx, pending.table, required); err != nil {
			return err
		}
		return nil
	}

	if !needsUpdate(remote, required) {
		return nil
	}

	w.logger.Infof("Updating definition of table %s", pending.table)
	w.reporter.Incr("updates")
	if _, err := w.client.UpdateTable(ctx, pending.table, required); err != nil {
		return err
	}
	return nil
}

// needsUpdate compares the live definition against the required one.
// Partitioning and clustering only count when the pending write asked
// for them, a table carrying extra layout settings is left alone.
func needsUpdate(
	remote *table.Definition, required table.Definition,
) bool {

	if !remote.Schema.Equal(required.Schema) {
		return true
	}
	if required.Partitioning != nil {
		if remote.Partitioning == nil ||
			remote.Partitioning.Field != required.Partitioning.Field {

			return true
		}
	}
	if required.Clustering != nil {
		if !required.Clustering.Equal(remote.Clustering) {
			return true
		}
	}
	return false
}

// retryable classifies an insert failure. Only client errors
// reporting a missing table, or carrying the schema mismatch
// indicator in their message, warrant a reconciliation cycle.
// Everything else surfaces to the caller untouched.
func retryable(
	err error,
) bool {

	clientErr, ok := client.AsClientError(err)
	if !ok {
		return false
	}
	if clientErr.Reason == client.ReasonNotFound {
		return true
	}
	return strings.Contains(clientErr.Message, schemaMismatchIndicator)
}
