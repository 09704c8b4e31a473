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
	"testing"

	"github.com/safariyetu/bigqueryobjects/spi/client"
	"github.com/safariyetu/bigqueryobjects/spi/encoding"
	"github.com/safariyetu/bigqueryobjects/spi/reader"
	"github.com/safariyetu/bigqueryobjects/spi/rowset"
	"github.com/safariyetu/bigqueryobjects/spi/schema"
	"github.com/safariyetu/bigqueryobjects/spi/table"
	"github.com/safariyetu/bigqueryobjects/spi/writer"
	"github.com/safariyetu/bigqueryobjects/testsupport"
	"github.com/safariyetu/bigqueryobjects/testsupport/testrunner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type IntegrationTestSuite struct {
	testrunner.TestRunner
}

func TestIntegrationTestSuite(
	t *testing.T,
) {

	if testing.Short() {
		t.Skip("integration tests against a database container are skipped in short mode")
	}
	suite.Run(t, new(IntegrationTestSuite))
}

func newIntegrationClient(
	ctx testrunner.Context,
) (*Client, error) {

	return NewTimescaleDBClient(
		ctx.PgxConfig(), encoding.NewJsonEncoder(true), encoding.NewJsonDecoder(true),
	)
}

func (its *IntegrationTestSuite) Test_Create_And_Fetch_Definition() {
	its.RunTest(func(ctx testrunner.Context) error {
		c, err := newIntegrationClient(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		id := table.Id{Dataset: "integration", Name: testsupport.RandomTableName()}
		definition := table.Definition{
			Schema: inventorySchema(),
			Partitioning: &table.Partitioning{
				Field:       "restocked",
				Granularity: table.MONTH,
			},
			Clustering: &table.Clustering{Fields: []string{"sku"}},
		}

		if _, err := c.CreateTable(context.Background(), id, definition); err != nil {
			return err
		}

		fetched, err := c.FetchTable(context.Background(), id)
		if err != nil {
			return err
		}
		assert.True(its.T(), definition.Equal(*fetched))

		// The physical table carries a native column per scalar and
		// jsonb columns for the structured ones
		var columnCount int
		if err := ctx.QueryRow(context.Background(),
			"SELECT count(*) FROM information_schema.columns WHERE table_schema = $1 AND table_name = $2",
			id.Dataset, id.Name,
		).Scan(&columnCount); err != nil {
			return err
		}
		assert.Equal(its.T(), len(definition.Schema), columnCount)

		var hypertableCount int
		if err := ctx.QueryRow(context.Background(),
			"SELECT count(*) FROM timescaledb_information.hypertables WHERE hypertable_schema = $1 AND hypertable_name = $2",
			id.Dataset, id.Name,
		).Scan(&hypertableCount); err != nil {
			return err
		}
		assert.Equal(its.T(), 1, hypertableCount)
		return nil
	})
}

func (its *IntegrationTestSuite) Test_Fetch_Unknown_Table_Is_NotFound() {
	its.RunTest(func(ctx testrunner.Context) error {
		c, err := newIntegrationClient(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		_, err = c.FetchTable(
			context.Background(),
			table.Id{Dataset: "integration", Name: testsupport.RandomTableName()},
		)
		assert.True(its.T(), client.IsNotFound(err))
		return nil
	})
}

func (its *IntegrationTestSuite) Test_Insert_And_Query_Round_Trip() {
	its.RunTest(func(ctx testrunner.Context) error {
		c, err := newIntegrationClient(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		id := table.Id{Dataset: "integration", Name: testsupport.RandomTableName()}
		if _, err := c.CreateTable(
			context.Background(), id, table.Definition{Schema: inventorySchema()},
		); err != nil {
			return err
		}

		record := rowset.NewRecord().
			Set("sku", "CBL-USB-C-2M").
			Set("quantity", int64(540)).
			Set("unit_price", "12.95").
			Set("restocked", "2024-05-06T08:00:00Z").
			Set("tags", []any{"cable", "usb"}).
			Set("warehouse", rowset.NewRecord().
				Set("street", "4 Dockside Rd").
				Set("city", "Rotterdam"))

		if _, err := c.BulkInsert(context.Background(), id, []client.Row{
			{InsertID: "row-1", Record: record},
		}); err != nil {
			return err
		}

		result, err := c.RunQuery(context.Background(), client.Query{Table: id})
		if err != nil {
			return err
		}

		rows, err := testsupport.CollectRows(result)
		if err != nil {
			return err
		}
		assert.Equal(its.T(), 1, len(rows))

		row := rows[0]
		sku, _ := row.Value("sku")
		assert.Equal(its.T(), "CBL-USB-C-2M", sku.Primitive())

		quantity, _ := row.Value("quantity")
		assert.Equal(its.T(), int64(540), quantity.Primitive())

		unitPrice, _ := row.Value("unit_price")
		assert.Equal(its.T(), "12.95", unitPrice.Primitive())

		restocked, _ := row.Value("restocked")
		assert.Equal(its.T(), "2024-05-06T08:00:00Z", restocked.Primitive())

		tags, _ := row.Value("tags")
		assert.Equal(its.T(), rowset.KindRepeated, tags.Kind())
		assert.Equal(its.T(), 2, len(tags.Repeated()))

		warehouse, _ := row.Value("warehouse")
		assert.Equal(its.T(), rowset.KindRecord, warehouse.Kind())
		city, _ := warehouse.Record().Value("city")
		assert.Equal(its.T(), "Rotterdam", city.Primitive())
		return nil
	})
}

func (its *IntegrationTestSuite) Test_Insert_Suppresses_Resubmitted_Ids() {
	its.RunTest(func(ctx testrunner.Context) error {
		c, err := newIntegrationClient(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		id := table.Id{Dataset: "integration", Name: testsupport.RandomTableName()}
		if _, err := c.CreateTable(
			context.Background(), id, table.Definition{Schema: inventorySchema()},
		); err != nil {
			return err
		}

		rows := []client.Row{
			{InsertID: "row-1", Record: rowset.NewRecord().Set("sku", "CBL-USB-C-2M")},
		}
		for i := 0; i < 2; i++ {
			if _, err := c.BulkInsert(context.Background(), id, rows); err != nil {
				return err
			}
		}

		var stored int
		if err := ctx.QueryRow(context.Background(),
			"SELECT count(*) FROM "+qualifiedTableName(id),
		).Scan(&stored); err != nil {
			return err
		}
		assert.Equal(its.T(), 1, stored)
		return nil
	})
}

func (its *IntegrationTestSuite) Test_Update_Table_Adds_Missing_Columns() {
	its.RunTest(func(ctx testrunner.Context) error {
		c, err := newIntegrationClient(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		id := table.Id{Dataset: "integration", Name: testsupport.RandomTableName()}
		narrow := table.Definition{
			Schema: schema.NewBuilder().String("sku").Build(),
		}
		if _, err := c.CreateTable(context.Background(), id, narrow); err != nil {
			return err
		}

		widened := table.Definition{
			Schema: schema.NewBuilder().
				String("sku").
				Integer("quantity").
				Numeric("unit_price").
				Build(),
		}
		if _, err := c.UpdateTable(context.Background(), id, widened); err != nil {
			return err
		}

		fetched, err := c.FetchTable(context.Background(), id)
		if err != nil {
			return err
		}
		assert.True(its.T(), widened.Equal(*fetched))

		var columnCount int
		if err := ctx.QueryRow(context.Background(),
			"SELECT count(*) FROM information_schema.columns WHERE table_schema = $1 AND table_name = $2",
			id.Dataset, id.Name,
		).Scan(&columnCount); err != nil {
			return err
		}
		assert.Equal(its.T(), 3, columnCount)
		return nil
	})
}

func (its *IntegrationTestSuite) Test_Statement_Query_Falls_Back_To_Wire_Types() {
	its.RunTest(func(ctx testrunner.Context) error {
		c, err := newIntegrationClient(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		result, err := c.RunQuery(context.Background(), client.Query{
			Statement: "SELECT 42::int8 AS answer, 'text'::text AS label",
		})
		if err != nil {
			return err
		}

		assert.Equal(its.T(), []string{"answer", "label"}, result.Schema().FieldNames())

		answer, _ := result.Schema().Field("answer")
		assert.Equal(its.T(), schema.INTEGER, answer.Kind)

		rows, err := testsupport.CollectRows(result)
		if err != nil {
			return err
		}
		assert.Equal(its.T(), 1, len(rows))

		value, _ := rows[0].Value("answer")
		assert.Equal(its.T(), int64(42), value.Primitive())
		return nil
	})
}

func (its *IntegrationTestSuite) Test_Writer_Reader_End_To_End() {
	its.RunTest(func(ctx testrunner.Context) error {
		c, err := newIntegrationClient(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		w, err := writer.NewWriter(c)
		if err != nil {
			return err
		}

		items := testsupport.SampleInventory()
		tableName := testsupport.RandomTableName()

		pending := w.Insert("integration", tableName).
			PartitionByGranularity("restocked", table.MONTH).
			ClusterBy("sku")
		for _, item := range items {
			pending.Row(item)
		}
		if err := pending.Execute(context.Background()); err != nil {
			return err
		}

		result, err := c.RunQuery(context.Background(), client.Query{
			Table: table.Id{Dataset: "integration", Name: tableName},
		})
		if err != nil {
			return err
		}

		itemReader, err := reader.NewReader[testsupport.InventoryItem]()
		if err != nil {
			return err
		}

		decoded, err := itemReader.Read(result)
		if err != nil {
			return err
		}
		assert.ElementsMatch(its.T(), items, decoded)
		return nil
	})
}
