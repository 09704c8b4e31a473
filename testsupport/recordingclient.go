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

package testsupport

import (
	"context"
	"sync"

	"github.com/safariyetu/bigqueryobjects/spi/client"
	"github.com/safariyetu/bigqueryobjects/spi/rowset"
	"github.com/safariyetu/bigqueryobjects/spi/table"
)

// RecordedCall is one observed client invocation in arrival order.
type RecordedCall struct {
	Method string
	Table  table.Id
	Rows   []client.Row
}

// RecordingClient observes every call made against it and answers
// with injectable behaviors. Without injected behaviors it acts as
// an empty store: fetches report the table as missing, writes are
// accepted and queries return no rows.
type RecordingClient struct {
	mutex sync.Mutex
	calls []RecordedCall

	fetchTable  func(ctx context.Context, id table.Id) (*table.Definition, error)
	createTable func(ctx context.Context, id table.Id, definition table.Definition) (*table.Definition, error)
	updateTable func(ctx context.Context, id table.Id, definition table.Definition) (*table.Definition, error)
	bulkInsert  func(ctx context.Context, id table.Id, rows []client.Row) (*client.InsertResult, error)
	runQuery    func(ctx context.Context, query client.Query) (rowset.Result, error)
}

type RecordingClientOption = func(recordingClient *RecordingClient)

func WithFetchTable(fn func(ctx context.Context, id table.Id) (*table.Definition, error)) RecordingClientOption {
	return func(recordingClient *RecordingClient) {
		recordingClient.fetchTable = fn
	}
}

func WithCreateTable(fn func(ctx context.Context, id table.Id, definition table.Definition) (*table.Definition, error)) RecordingClientOption {
	return func(recordingClient *RecordingClient) {
		recordingClient.createTable = fn
	}
}

func WithUpdateTable(fn func(ctx context.Context, id table.Id, definition table.Definition) (*table.Definition, error)) RecordingClientOption {
	return func(recordingClient *RecordingClient) {
		recordingClient.updateTable = fn
	}
}

func WithBulkInsert(fn func(ctx context.Context, id table.Id, rows []client.Row) (*client.InsertResult, error)) RecordingClientOption {
	return func(recordingClient *RecordingClient) {
		recordingClient.bulkInsert = fn
	}
}

func WithRunQuery(fn func(ctx context.Context, query client.Query) (rowset.Result, error)) RecordingClientOption {
	return func(recordingClient *RecordingClient) {
		recordingClient.runQuery = fn
	}
}

func NewRecordingClient(options ...RecordingClientOption) *RecordingClient {
	recordingClient := &RecordingClient{
		calls: make([]RecordedCall, 0),
		mutex: sync.Mutex{},
	}
	for _, option := range options {
		option(recordingClient)
	}
	return recordingClient
}

func (r *RecordingClient) Calls() []RecordedCall {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.calls
}

func (r *RecordingClient) CallCount(method string) int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	count := 0
	for _, call := range r.calls {
		if call.Method == method {
			count++
		}
	}
	return count
}

func (r *RecordingClient) FetchTable(
	ctx context.Context, id table.Id,
) (*table.Definition, error) {

	r.record(RecordedCall{Method: "FetchTable", Table: id})
	if r.fetchTable != nil {
		return r.fetchTable(ctx, id)
	}
	return nil, client.NewError(client.ReasonNotFound, "table %s does not exist", id)
}

func (r *RecordingClient) CreateTable(
	ctx context.Context, id table.Id, definition table.Definition,
) (*table.Definition, error) {

	r.record(RecordedCall{Method: "CreateTable", Table: id})
	if r.createTable != nil {
		return r.createTable(ctx, id, definition)
	}
	return &definition, nil
}

func (r *RecordingClient) UpdateTable(
	ctx context.Context, id table.Id, definition table.Definition,
) (*table.Definition, error) {

	r.record(RecordedCall{Method: "UpdateTable", Table: id})
	if r.updateTable != nil {
		return r.updateTable(ctx, id, definition)
	}
	return &definition, nil
}

func (r *RecordingClient) BulkInsert(
	ctx context.Context, id table.Id, rows []client.Row,
) (*client.InsertResult, error) {

	r.record(RecordedCall{Method: "BulkInsert", Table: id, Rows: rows})
	if r.bulkInsert != nil {
		return r.bulkInsert(ctx, id, rows)
	}
	return &client.InsertResult{}, nil
}

func (r *RecordingClient) RunQuery(
	ctx context.Context, query client.Query,
) (rowset.Result, error) {

	r.record(RecordedCall{Method: "RunQuery", Table: query.Table})
	if r.runQuery != nil {
		return r.runQuery(ctx, query)
	}
	return NewRowsResult(nil), nil
}

func (r *RecordingClient) Close() error {
	return nil
}

func (r *RecordingClient) record(call RecordedCall) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.calls = append(r.calls, call)
}
