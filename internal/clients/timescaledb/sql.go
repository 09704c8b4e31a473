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
	"fmt"
	"strings"

	"github.com/go-errors/errors"
	"github.com/safariyetu/bigqueryobjects/spi/encoding"
	"github.com/safariyetu/bigqueryobjects/spi/rowset"
	"github.com/safariyetu/bigqueryobjects/spi/schema"
	"github.com/safariyetu/bigqueryobjects/spi/table"
	"github.com/samber/lo"
)

func quoteIdentifier(
	name string,
) string {

	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func qualifiedTableName(
	id table.Id,
) string {

	return fmt.Sprintf("%s.%s", quoteIdentifier(id.Dataset), quoteIdentifier(id.Name))
}

// columnType maps a schema field to its physical column type.
// Nested and repeated fields land in jsonb, scalar kinds get
// native columns.
func columnType(
	field schema.Field,
) string {

	if field.Mode == schema.REPEATED || field.Kind == schema.RECORD {
		return "jsonb"
	}

	switch field.Kind {
	case schema.INTEGER:
		return "int8"
	case schema.FLOAT:
		return "float8"
	case schema.BOOLEAN:
		return "boolean"
	case schema.NUMERIC:
		return "numeric"
	case schema.DATE:
		return "date"
	case schema.TIME:
		return "time"
	case schema.DATETIME:
		return "timestamp"
	case schema.TIMESTAMP:
		return "timestamptz"
	default:
		return "text"
	}
}

func createTableStatement(
	id table.Id, s schema.Schema,
) string {

	columns := lo.Map(s, func(field schema.Field, _ int) string {
		return fmt.Sprintf("%s %s", quoteIdentifier(field.Name), columnType(field))
	})
	return fmt.Sprintf(
		queryTemplateCreateTable, qualifiedTableName(id), strings.Join(columns, ", "),
	)
}

func createHypertableStatement(
	id table.Id, partitioning table.Partitioning,
) string {

	chunkHours := int(partitioning.Granularity.ChunkInterval().Hours())
	return fmt.Sprintf(
		queryTemplateCreateHypertable,
		qualifiedTableName(id), partitioning.Field, chunkHours,
	)
}

func clusteringIndexStatement(
	id table.Id, clustering table.Clustering,
) string {

	indexName := quoteIdentifier(fmt.Sprintf("%s_clustering_idx", id.Name))
	fields := lo.Map(clustering.Fields, func(field string, _ int) string {
		return quoteIdentifier(field)
	})
	return fmt.Sprintf(
		queryTemplateCreateClusteringIndex,
		indexName, qualifiedTableName(id), strings.Join(fields, ", "),
	)
}

// addColumnStatements renders one ALTER TABLE per field the live
// schema is missing. Existing columns are never altered or
// dropped, the definition catalog carries the replaced tree.
func addColumnStatements(
	id table.Id, remote, required schema.Schema,
) []string {

	statements := make([]string, 0)
	for _, field := range required {
		if _, present := remote.Field(field.Name); present {
			continue
		}
		statements = append(statements, fmt.Sprintf(
			queryTemplateAddColumn,
			qualifiedTableName(id), quoteIdentifier(field.Name), columnType(field),
		))
	}
	return statements
}

// insertStatement builds one parameterized INSERT for a single
// encoded record. The column list follows the record, absent
// fields stay NULL. Values of non native kinds are passed as text
// and cast server side, nested and repeated payloads travel as
// jsonb documents.
func insertStatement(
	id table.Id, record *rowset.Record, s schema.Schema, encoder *encoding.JsonEncoder,
) (string, []any, error) {

	names := record.FieldNames()

	columns := make([]string, 0, len(names))
	placeholders := make([]string, 0, len(names))
	args := make([]any, 0, len(names))

	for i, name := range names {
		field, present := s.Field(name)
		if !present {
			return "", nil, errors.Errorf("schema mismatch: unknown field '%s'", name)
		}

		value, _ := record.Get(name)
		columns = append(columns, quoteIdentifier(name))

		placeholder := fmt.Sprintf("$%d", i+1)
		if field.Mode == schema.REPEATED || field.Kind == schema.RECORD {
			payload, err := encoder.Marshal(value)
			if err != nil {
				return "", nil, errors.Wrap(err, 0)
			}
			placeholder += "::jsonb"
			value = string(payload)
		} else {
			switch field.Kind {
			case schema.NUMERIC, schema.DATE, schema.TIME,
				schema.DATETIME, schema.TIMESTAMP:

				placeholder += "::" + columnType(field)
			}
		}

		placeholders = append(placeholders, placeholder)
		args = append(args, value)
	}

	statement := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		qualifiedTableName(id), strings.Join(columns, ", "), strings.Join(placeholders, ", "),
	)
	return statement, args, nil
}
