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
	"testing"

	"github.com/go-errors/errors"
	"github.com/safariyetu/bigqueryobjects/spi/client"
	"github.com/safariyetu/bigqueryobjects/spi/mapping"
	"github.com/safariyetu/bigqueryobjects/spi/schema"
	"github.com/safariyetu/bigqueryobjects/spi/table"
	"github.com/safariyetu/bigqueryobjects/testsupport"
	"github.com/stretchr/testify/assert"
)

type metric struct {
	Name  string  `bigquery:"name"`
	Value float64 `bigquery:"value"`
}

func metricSchema() schema.Schema {
	return schema.NewBuilder().
		String("name").
		Float("value").
		Build()
}

func newTestWriter(
	t *testing.T, recordingClient *testsupport.RecordingClient,
) *Writer {

	writer, err := NewWriter(recordingClient)
	assert.NoError(t, err)
	return writer
}

func insertCalls(
	recordingClient *testsupport.RecordingClient,
) []testsupport.RecordedCall {

	calls := make([]testsupport.RecordedCall, 0)
	for _, call := range recordingClient.Calls() {
		if call.Method == "BulkInsert" {
			calls = append(calls, call)
		}
	}
	return calls
}

func Test_Execute_Empty_Row_Set_Skips_Client(
	t *testing.T,
) {

	recordingClient := testsupport.NewRecordingClient()
	writer := newTestWriter(t, recordingClient)

	err := writer.Insert("demo", "metrics").Execute(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, recordingClient.Calls())
}

func Test_Execute_Missing_Table_Creates_And_Resubmits(
	t *testing.T,
) {

	attempts := 0
	var created table.Definition

	recordingClient := testsupport.NewRecordingClient(
		testsupport.WithBulkInsert(func(_ context.Context, id table.Id, _ []client.Row) (*client.InsertResult, error) {
			attempts++
			if attempts == 1 {
				return nil, client.NewError(client.ReasonNotFound, "table %s does not exist", id)
			}
			return &client.InsertResult{}, nil
		}),
		testsupport.WithCreateTable(func(_ context.Context, _ table.Id, definition table.Definition) (*table.Definition, error) {
			created = definition
			return &definition, nil
		}),
	)
	writer := newTestWriter(t, recordingClient)

	err := writer.Insert("demo", "metrics").
		Rows(metric{Name: "cpu", Value: 0.75}, metric{Name: "mem", Value: 0.5}).
		PartitionBy("ts").
		ClusterBy("name").
		Execute(context.Background())
	assert.NoError(t, err)

	assert.Equal(t, 2, recordingClient.CallCount("BulkInsert"))
	assert.Equal(t, 1, recordingClient.CallCount("FetchTable"))
	assert.Equal(t, 1, recordingClient.CallCount("CreateTable"))
	assert.Equal(t, 0, recordingClient.CallCount("UpdateTable"))

	assert.True(t, created.Schema.Equal(metricSchema()))
	assert.Equal(t, &table.Partitioning{Field: "ts", Granularity: table.DAY}, created.Partitioning)
	assert.Equal(t, &table.Clustering{Fields: []string{"name"}}, created.Clustering)
}

func Test_Execute_Resubmission_Generates_Fresh_Insert_Ids(
	t *testing.T,
) {

	attempts := 0
	recordingClient := testsupport.NewRecordingClient(
		testsupport.WithBulkInsert(func(_ context.Context, id table.Id, _ []client.Row) (*client.InsertResult, error) {
			attempts++
			if attempts == 1 {
				return nil, client.NewError(client.ReasonNotFound, "table %s does not exist", id)
			}
			return &client.InsertResult{}, nil
		}),
	)
	writer := newTestWriter(t, recordingClient)

	err := writer.Insert("demo", "metrics").
		Row(metric{Name: "cpu", Value: 0.75}).
		Execute(context.Background())
	assert.NoError(t, err)

	inserts := insertCalls(recordingClient)
	assert.Len(t, inserts, 2)
	assert.NotEqual(t, inserts[0].Rows[0].InsertID, inserts[1].Rows[0].InsertID)
	assert.Equal(t, inserts[0].Rows[0].Record.FieldNames(), inserts[1].Rows[0].Record.FieldNames())
}

func Test_Execute_Schema_Mismatch_Updates_And_Resubmits(
	t *testing.T,
) {

	attempts := 0
	var updated table.Definition

	remote := &table.Definition{
		Schema: schema.NewBuilder().String("name").Build(),
	}

	recordingClient := testsupport.NewRecordingClient(
		testsupport.WithBulkInsert(func(_ context.Context, id table.Id, _ []client.Row) (*client.InsertResult, error) {
			attempts++
			if attempts == 1 {
				return nil, client.NewError(client.ReasonInvalid, "insert into %s: schema mismatch: unknown field 'value'", id)
			}
			return &client.InsertResult{}, nil
		}),
		testsupport.WithFetchTable(func(_ context.Context, _ table.Id) (*table.Definition, error) {
			return remote, nil
		}),
		testsupport.WithUpdateTable(func(_ context.Context, _ table.Id, definition table.Definition) (*table.Definition, error) {
			updated = definition
			return &definition, nil
		}),
	)
	writer := newTestWriter(t, recordingClient)

	err := writer.Insert("demo", "metrics").
		Row(metric{Name: "cpu", Value: 0.75}).
		Execute(context.Background())
	assert.NoError(t, err)

	assert.Equal(t, 2, recordingClient.CallCount("BulkInsert"))
	assert.Equal(t, 1, recordingClient.CallCount("FetchTable"))
	assert.Equal(t, 0, recordingClient.CallCount("CreateTable"))
	assert.Equal(t, 1, recordingClient.CallCount("UpdateTable"))
	assert.True(t, updated.Schema.Equal(metricSchema()))
}

func Test_Execute_Matching_Remote_Definition_Skips_Reconciliation_Writes(
	t *testing.T,
) {

	attempts := 0
	recordingClient := testsupport.NewRecordingClient(
		testsupport.WithBulkInsert(func(_ context.Context, id table.Id, _ []client.Row) (*client.InsertResult, error) {
			attempts++
			if attempts == 1 {
				return nil, client.NewError(client.ReasonInvalid, "insert into %s: schema mismatch: kind change", id)
			}
			return &client.InsertResult{}, nil
		}),
		testsupport.WithFetchTable(func(_ context.Context, _ table.Id) (*table.Definition, error) {
			return &table.Definition{Schema: metricSchema()}, nil
		}),
	)
	writer := newTestWriter(t, recordingClient)

	err := writer.Insert("demo", "metrics").
		Row(metric{Name: "cpu", Value: 0.75}).
		Execute(context.Background())
	assert.NoError(t, err)

	assert.Equal(t, 2, recordingClient.CallCount("BulkInsert"))
	assert.Equal(t, 1, recordingClient.CallCount("FetchTable"))
	assert.Equal(t, 0, recordingClient.CallCount("CreateTable"))
	assert.Equal(t, 0, recordingClient.CallCount("UpdateTable"))
}

func Test_Execute_Unrecognized_Failure_Is_Terminal(
	t *testing.T,
) {

	recordingClient := testsupport.NewRecordingClient(
		testsupport.WithBulkInsert(func(_ context.Context, _ table.Id, _ []client.Row) (*client.InsertResult, error) {
			return nil, client.NewError(client.ReasonBackendError, "connection reset")
		}),
	)
	writer := newTestWriter(t, recordingClient)

	err := writer.Insert("demo", "metrics").
		Row(metric{Name: "cpu", Value: 0.75}).
		Execute(context.Background())

	clientErr, ok := client.AsClientError(err)
	assert.True(t, ok)
	assert.Equal(t, client.ReasonBackendError, clientErr.Reason)
	assert.Equal(t, 1, recordingClient.CallCount("BulkInsert"))
	assert.Equal(t, 0, recordingClient.CallCount("FetchTable"))
}

func Test_Execute_Plain_Error_Is_Terminal(
	t *testing.T,
) {

	recordingClient := testsupport.NewRecordingClient(
		testsupport.WithBulkInsert(func(_ context.Context, _ table.Id, _ []client.Row) (*client.InsertResult, error) {
			return nil, errors.Errorf("wire protocol violation")
		}),
	)
	writer := newTestWriter(t, recordingClient)

	err := writer.Insert("demo", "metrics").
		Row(metric{Name: "cpu", Value: 0.75}).
		Execute(context.Background())

	assert.Error(t, err)
	assert.Equal(t, 1, recordingClient.CallCount("BulkInsert"))
	assert.Equal(t, 0, recordingClient.CallCount("FetchTable"))
}

func Test_Execute_Partial_Insert_Is_Terminal(
	t *testing.T,
) {

	recordingClient := testsupport.NewRecordingClient(
		testsupport.WithBulkInsert(func(_ context.Context, _ table.Id, _ []client.Row) (*client.InsertResult, error) {
			return &client.InsertResult{RowErrors: map[int][]string{1: {"value out of range"}}}, nil
		}),
	)
	writer := newTestWriter(t, recordingClient)

	err := writer.Insert("demo", "metrics").
		Rows(metric{Name: "cpu", Value: 0.75}, metric{Name: "mem", Value: 0.5}).
		Execute(context.Background())

	var partial *mapping.PartialInsertError
	assert.True(t, errors.As(err, &partial))
	assert.Equal(t, map[int][]string{1: {"value out of range"}}, partial.RowErrors)
	assert.Equal(t, 1, recordingClient.CallCount("BulkInsert"))
	assert.Equal(t, 0, recordingClient.CallCount("FetchTable"))
}

func Test_Execute_Second_Failure_Is_Terminal(
	t *testing.T,
) {

	recordingClient := testsupport.NewRecordingClient(
		testsupport.WithBulkInsert(func(_ context.Context, id table.Id, _ []client.Row) (*client.InsertResult, error) {
			return nil, client.NewError(client.ReasonNotFound, "table %s does not exist", id)
		}),
	)
	writer := newTestWriter(t, recordingClient)

	err := writer.Insert("demo", "metrics").
		Row(metric{Name: "cpu", Value: 0.75}).
		Execute(context.Background())

	assert.True(t, client.IsNotFound(err))
	assert.Equal(t, 2, recordingClient.CallCount("BulkInsert"))
	assert.Equal(t, 1, recordingClient.CallCount("FetchTable"))
	assert.Equal(t, 1, recordingClient.CallCount("CreateTable"))
}

func Test_Execute_Fetch_Failure_Aborts_Reconciliation(
	t *testing.T,
) {

	recordingClient := testsupport.NewRecordingClient(
		testsupport.WithBulkInsert(func(_ context.Context, id table.Id, _ []client.Row) (*client.InsertResult, error) {
			return nil, client.NewError(client.ReasonNotFound, "table %s does not exist", id)
		}),
		testsupport.WithFetchTable(func(_ context.Context, _ table.Id) (*table.Definition, error) {
			return nil, client.NewError(client.ReasonBackendError, "catalog unavailable")
		}),
	)
	writer := newTestWriter(t, recordingClient)

	err := writer.Insert("demo", "metrics").
		Row(metric{Name: "cpu", Value: 0.75}).
		Execute(context.Background())

	clientErr, ok := client.AsClientError(err)
	assert.True(t, ok)
	assert.Equal(t, client.ReasonBackendError, clientErr.Reason)
	assert.Equal(t, 1, recordingClient.CallCount("BulkInsert"))
	assert.Equal(t, 0, recordingClient.CallCount("CreateTable"))
	assert.Equal(t, 0, recordingClient.CallCount("UpdateTable"))
}

func Test_Needs_Update_Layout_Comparison(
	t *testing.T,
) {

	base := metricSchema()

	cases := []struct {
		name     string
		remote   *table.Definition
		required table.Definition
		expected bool
	}{
		{
			name:     "identical schema without layout",
			remote:   &table.Definition{Schema: base},
			required: table.Definition{Schema: base},
			expected: false,
		},
		{
			name:     "extra remote layout is left alone",
			remote:   &table.Definition{Schema: base, Partitioning: &table.Partitioning{Field: "ts", Granularity: table.DAY}},
			required: table.Definition{Schema: base},
			expected: false,
		},
		{
			name:     "missing remote partitioning",
			remote:   &table.Definition{Schema: base},
			required: table.Definition{Schema: base, Partitioning: &table.Partitioning{Field: "ts", Granularity: table.DAY}},
			expected: true,
		},
		{
			name:     "partition field differs",
			remote:   &table.Definition{Schema: base, Partitioning: &table.Partitioning{Field: "created", Granularity: table.DAY}},
			required: table.Definition{Schema: base, Partitioning: &table.Partitioning{Field: "ts", Granularity: table.DAY}},
			expected: true,
		},
		{
			name:     "granularity alone never updates",
			remote:   &table.Definition{Schema: base, Partitioning: &table.Partitioning{Field: "ts", Granularity: table.HOUR}},
			required: table.Definition{Schema: base, Partitioning: &table.Partitioning{Field: "ts", Granularity: table.DAY}},
			expected: false,
		},
		{
			name:     "cluster fields differ",
			remote:   &table.Definition{Schema: base, Clustering: &table.Clustering{Fields: []string{"name"}}},
			required: table.Definition{Schema: base, Clustering: &table.Clustering{Fields: []string{"name", "value"}}},
			expected: true,
		},
		{
			name:     "schema change",
			remote:   &table.Definition{Schema: schema.NewBuilder().String("name").Build()},
			required: table.Definition{Schema: base},
			expected: true,
		},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.expected, needsUpdate(testCase.remote, testCase.required))
		})
	}
}
