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

// region Version Queries
const queryTimescaleDbVersion = `
SELECT extversion
FROM pg_catalog.pg_extension
WHERE extname = 'timescaledb'`

const queryPostgreSqlVersion = `SHOW SERVER_VERSION`

// endregion

// region Definition Catalog Queries
const queryCreateDefinitionCatalog = `
CREATE TABLE IF NOT EXISTS bigqueryobjects_tables (
    dataset    text  NOT NULL,
    name       text  NOT NULL,
    definition jsonb NOT NULL,
    PRIMARY KEY (dataset, name)
)`

const queryReadTableDefinition = `
SELECT definition
FROM bigqueryobjects_tables
WHERE dataset = $1
  AND name = $2`

const queryUpsertTableDefinition = `
INSERT INTO bigqueryobjects_tables (dataset, name, definition)
VALUES ($1, $2, $3::jsonb)
ON CONFLICT (dataset, name) DO UPDATE SET definition = excluded.definition`

// endregion

// region DDL Templates
const queryTemplateCreateDataset = `CREATE SCHEMA IF NOT EXISTS %s`

const queryTemplateCreateTable = `CREATE TABLE IF NOT EXISTS %s (%s)`

const queryTemplateCreateHypertable = `
SELECT create_hypertable('%s', '%s', chunk_time_interval => INTERVAL '%d hours', if_not_exists => TRUE)`

const queryTemplateCreateClusteringIndex = `CREATE INDEX IF NOT EXISTS %s ON %s (%s)`

const queryTemplateAddColumn = `ALTER TABLE %s ADD COLUMN IF NOT EXISTS %s %s`

// endregion

// region Row Queries
const queryTemplateSelectAllRows = `SELECT * FROM %s`

// endregion
