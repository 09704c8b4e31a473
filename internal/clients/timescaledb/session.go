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

package timescaledb

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func (c *Client) newSession(
	timeout time.Duration, fn func(session *session) error,
) error {

	return c.newSessionWithContext(context.Background(), timeout, fn)
}

func (c *Client) newSessionWithContext(
	parent context.Context, timeout time.Duration, fn func(session *session) error,
) error {

	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	connection, err := pgx.ConnectConfig(ctx, c.pgxConfig)
	if err != nil {
		return fmt.Errorf("unable to connect to database: %v", err)
	}
	defer connection.Close(context.Background())

	return fn(&session{
		connection: connection,
		ctx:        ctx,
	})
}

type rowFunction = func(
	row pgx.Row,
) error

type session struct {
	connection *pgx.Conn
	ctx        context.Context
}

func (s *session) queryFunc(
	fn rowFunction, query string, args ...any,
) error {

	rows, err := s.connection.Query(s.ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}

	return rows.Err()
}

func (s *session) queryRow(
	query string, args ...any,
) pgx.Row {

	return s.connection.QueryRow(s.ctx, query, args...)
}

func (s *session) exec(
	query string, args ...any,
) (pgconn.CommandTag, error) {

	return s.connection.Exec(s.ctx, query, args...)
}

func (s *session) sendBatch(
	batch *pgx.Batch,
) pgx.BatchResults {

	return s.connection.SendBatch(s.ctx, batch)
}
