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
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-errors/errors"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/safariyetu/bigqueryobjects/internal/containers"
	"github.com/safariyetu/bigqueryobjects/internal/logging"
	"github.com/safariyetu/bigqueryobjects/spi/client"
	spiconfig "github.com/safariyetu/bigqueryobjects/spi/config"
	"github.com/safariyetu/bigqueryobjects/spi/encoding"
	"github.com/safariyetu/bigqueryobjects/spi/rowset"
	"github.com/safariyetu/bigqueryobjects/spi/schema"
	"github.com/safariyetu/bigqueryobjects/spi/table"
	"github.com/safariyetu/bigqueryobjects/spi/version"
)

func init() {
	client.RegisterClient(spiconfig.TimescaleDB, newTimescaleDBClient)
}

func newTimescaleDBClient(
	config *spiconfig.Config,
) (client.Client, error) {

	connection := spiconfig.GetOrDefault(
		config, spiconfig.PropertyPostgresqlConnection, "host=localhost user=postgres",
	)
	password := spiconfig.GetOrDefault(
		config, spiconfig.PropertyPostgresqlPassword, "",
	)

	pgxConfig, err := pgx.ParseConfig(connection)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}
	if password != "" {
		pgxConfig.Password = password
	}

	return NewTimescaleDBClient(
		pgxConfig,
		encoding.NewJsonEncoderWithConfig(config),
		encoding.NewJsonDecoderWithConfig(config),
	)
}

// Client stores tables in a TimescaleDB enabled PostgreSQL server.
// Full definitions live jsonb encoded in a catalog table, only
// there can nested field trees round trip exactly. Time
// partitioning becomes a hypertable, clustering a btree index.
type Client struct {
	logger      *logging.Logger
	pgxConfig   *pgx.ConnConfig
	encoder     *encoding.JsonEncoder
	decoder     *encoding.JsonDecoder
	seenIds     *containers.ConcurrentMap[string, struct{}]
	hypertables bool
	closed      atomic.Bool
}

func NewTimescaleDBClient(
	pgxConfig *pgx.ConnConfig, encoder *encoding.JsonEncoder, decoder *encoding.JsonDecoder,
) (*Client, error) {

	logger, err := logging.NewLogger("TimescaleDBClient")
	if err != nil {
		return nil, err
	}

	c := &Client{
		logger:    logger,
		pgxConfig: pgxConfig,
		encoder:   encoder,
		decoder:   decoder,
		seenIds:   containers.NewConcurrentMap[string, struct{}](),
	}

	if err := c.connect(); err != nil {
		return nil, err
	}
	return c, nil
}

// connect verifies server reachability and versions, and creates
// the definition catalog. Transient startup failures are retried
// with exponential backoff, version violations are not.
func (c *Client) connect() error {
	operation := func() error {
		return c.newSession(time.Second*10, func(session *session) error {
			var pgVersionString string
			if err := session.queryRow(queryPostgreSqlVersion).Scan(&pgVersionString); err != nil {
				return err
			}

			pgVersion, err := version.ParsePostgresVersion(pgVersionString)
			if err != nil {
				return backoff.Permanent(err)
			}
			if pgVersion.Compare(version.PG_MIN_VERSION) < 0 {
				return backoff.Permanent(errors.Errorf(
					"PostgreSQL version %s is lower than the minimum of %s",
					pgVersion, version.PG_MIN_VERSION,
				))
			}

			var tsdbVersionString string
			if err := session.queryRow(queryTimescaleDbVersion).Scan(&tsdbVersionString); err != nil {
				if !errors.Is(err, pgx.ErrNoRows) {
					return err
				}
				c.logger.Warnf("TimescaleDB extension not installed, tables stay plain")
			} else {
				tsdbVersion, err := version.ParseTimescaleVersion(tsdbVersionString)
				if err != nil {
					return backoff.Permanent(err)
				}
				if tsdbVersion.Compare(version.TSDB_MIN_VERSION) < 0 {
					c.logger.Warnf(
						"TimescaleDB version %s is lower than the minimum of %s, tables stay plain",
						tsdbVersion, version.TSDB_MIN_VERSION,
					)
				} else {
					c.hypertables = true
					c.logger.Infof("Using TimescaleDB %s on PostgreSQL %s", tsdbVersion, pgVersion)
				}
			}

			_, err = session.exec(queryCreateDefinitionCatalog)
			return err
		})
	}
	return backoff.Retry(operation, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 8))
}

func (c *Client) FetchTable(
	ctx context.Context, id table.Id,
) (*table.Definition, error) {

	if c.closed.Load() {
		return nil, client.NewError(client.ReasonStopped, "client is closed")
	}

	var definition *table.Definition
	err := c.newSessionWithContext(ctx, time.Second*10, func(session *session) error {
		var payload []byte
		if err := session.queryRow(
			queryReadTableDefinition, id.Dataset, id.Name,
		).Scan(&payload); err != nil {
			return err
		}

		definition = &table.Definition{}
		return c.decoder.Unmarshal(payload, definition)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, client.NewError(client.ReasonNotFound, "table %s does not exist", id)
		}
		return nil, mapError(err, id)
	}
	return definition, nil
}

func (c *Client) CreateTable(
	ctx context.Context, id table.Id, definition table.Definition,
) (*table.Definition, error) {

	if c.closed.Load() {
		return nil, client.NewError(client.ReasonStopped, "client is closed")
	}

	err := c.newSessionWithContext(ctx, time.Second*30, func(session *session) error {
		if _, err := session.exec(
			fmt.Sprintf(queryTemplateCreateDataset, quoteIdentifier(id.Dataset)),
		); err != nil {
			return err
		}

		if _, err := session.exec(createTableStatement(id, definition.Schema)); err != nil {
			return err
		}

		if definition.Partitioning != nil {
			if c.hypertables {
				if _, err := session.exec(
					createHypertableStatement(id, *definition.Partitioning),
				); err != nil {
					return err
				}
			} else {
				c.logger.Warnf("Table %s stays plain, hypertables are unavailable", id)
			}
		}

		if definition.Clustering != nil && len(definition.Clustering.Fields) > 0 {
			if _, err := session.exec(clusteringIndexStatement(id, *definition.Clustering)); err != nil {
				return err
			}
		}

		return c.storeDefinition(session, id, definition)
	})
	if err != nil {
		return nil, mapError(err, id)
	}

	c.logger.Infof("Created table %s with schema %s", id, definition.Schema)
	return &definition, nil
}

func (c *Client) UpdateTable(
	ctx context.Context, id table.Id, definition table.Definition,
) (*table.Definition, error) {

	if c.closed.Load() {
		return nil, client.NewError(client.ReasonStopped, "client is closed")
	}

	remote, err := c.FetchTable(ctx, id)
	if err != nil {
		return nil, err
	}

	err = c.newSessionWithContext(ctx, time.Second*30, func(session *session) error {
		for _, statement := range addColumnStatements(id, remote.Schema, definition.Schema) {
			if _, err := session.exec(statement); err != nil {
				return err
			}
		}
		return c.storeDefinition(session, id, definition)
	})
	if err != nil {
		return nil, mapError(err, id)
	}

	c.logger.Infof("Replaced definition of table %s, schema now %s", id, definition.Schema)
	return &definition, nil
}

func (c *Client) BulkInsert(
	ctx context.Context, id table.Id, rows []client.Row,
) (*client.InsertResult, error) {

	if c.closed.Load() {
		return nil, client.NewError(client.ReasonStopped, "client is closed")
	}
	if len(rows) == 0 {
		return &client.InsertResult{}, nil
	}

	definition, err := c.FetchTable(ctx, id)
	if err != nil {
		return nil, err
	}

	pending := make([]client.Row, 0, len(rows))
	for _, row := range rows {
		if row.InsertID != "" {
			if _, seen := c.seenIds.Load(dedupKey(id, row.InsertID)); seen {
				c.logger.Debugf("Suppressing resubmitted row %s/%s", id, row.InsertID)
				continue
			}
		}
		pending = append(pending, row)
	}
	if len(pending) == 0 {
		return &client.InsertResult{}, nil
	}

	batch := &pgx.Batch{}
	for _, row := range pending {
		statement, args, err := insertStatement(id, row.Record, definition.Schema, c.encoder)
		if err != nil {
			return nil, client.NewError(client.ReasonInvalid, "insert into %s: %s", id, err)
		}
		batch.Queue(statement, args...)
	}

	err = c.newSessionWithContext(ctx, time.Second*30, func(session *session) error {
		results := session.sendBatch(batch)
		defer results.Close()

		for range pending {
			if _, err := results.Exec(); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, mapError(err, id)
	}

	// The batch runs in one implicit transaction, ids are only
	// burned once all rows landed
	for _, row := range pending {
		if row.InsertID != "" {
			c.seenIds.Store(dedupKey(id, row.InsertID), struct{}{})
		}
	}
	return &client.InsertResult{}, nil
}

func (c *Client) RunQuery(
	ctx context.Context, query client.Query,
) (rowset.Result, error) {

	if c.closed.Load() {
		return nil, client.NewError(client.ReasonStopped, "client is closed")
	}

	statement := query.Statement
	var tableSchema schema.Schema
	if statement == "" {
		definition, err := c.FetchTable(ctx, query.Table)
		if err != nil {
			return nil, err
		}
		tableSchema = definition.Schema
		statement = fmt.Sprintf(queryTemplateSelectAllRows, qualifiedTableName(query.Table))
	}

	var resultSchema schema.Schema
	resultRows := make([]rowset.Row, 0)

	err := c.newSessionWithContext(ctx, time.Minute, func(session *session) error {
		return session.queryFunc(func(row pgx.Row) error {
			rows := row.(pgx.Rows)

			if resultSchema == nil {
				resultSchema = resolveResultSchema(tableSchema, rows.FieldDescriptions())
			}

			values, err := rows.Values()
			if err != nil {
				return errors.Wrap(err, 0)
			}

			converted := rowset.NewRow()
			for i, description := range rows.FieldDescriptions() {
				field, present := resultSchema.Field(description.Name)
				if !present {
					continue
				}

				value, err := wideValue(field, values[i], c.decoder)
				if err != nil {
					return err
				}
				converted.Append(field.Name, value)
			}
			resultRows = append(resultRows, converted)
			return nil
		}, statement, query.Args...)
	})
	if err != nil {
		return nil, mapError(err, query.Table)
	}

	if resultSchema == nil {
		resultSchema = tableSchema
	}
	return newQueryResult(resultSchema, resultRows), nil
}

func (c *Client) Close() error {
	c.closed.Store(true)
	return nil
}

func (c *Client) storeDefinition(
	session *session, id table.Id, definition table.Definition,
) error {

	payload, err := c.encoder.Marshal(definition)
	if err != nil {
		return errors.Wrap(err, 0)
	}

	_, err = session.exec(queryUpsertTableDefinition, id.Dataset, id.Name, string(payload))
	return err
}

func dedupKey(
	id table.Id, insertId string,
) string {

	return fmt.Sprintf("%s/%s", id, insertId)
}

// resolveResultSchema matches result columns against the catalog
// schema where possible, that way nested subfield trees survive.
// Columns born from a query expression fall back to their wire
// type.
func resolveResultSchema(
	tableSchema schema.Schema, descriptions []pgconn.FieldDescription,
) schema.Schema {

	s := make(schema.Schema, 0, len(descriptions))
	for _, description := range descriptions {
		if field, present := tableSchema.Field(description.Name); present {
			s = append(s, field)
			continue
		}

		s = append(s, schema.Field{
			Name: description.Name,
			Kind: kindFromOid(description.DataTypeOID),
			Mode: schema.NULLABLE,
		})
	}
	return s
}

// mapError translates database failures into the structured
// client taxonomy. Missing relations count as not found, column
// and datatype violations as schema mismatches.
func mapError(
	err error, id table.Id,
) error {

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UndefinedTable, pgerrcode.UndefinedSchema:
			return client.NewError(client.ReasonNotFound, "table %s does not exist", id)
		case pgerrcode.UndefinedColumn, pgerrcode.DatatypeMismatch:
			return client.NewError(
				client.ReasonInvalid, "insert into %s: schema mismatch: %s", id, pgErr.Message,
			)
		case pgerrcode.DuplicateTable:
			return client.NewError(client.ReasonDuplicate, "table %s already exists", id)
		}
		return client.NewError(client.ReasonBackendError, "%s", pgErr.Message)
	}
	return err
}
