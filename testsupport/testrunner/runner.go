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

package testrunner

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/safariyetu/bigqueryobjects/internal/logging"
	spiconfig "github.com/safariyetu/bigqueryobjects/spi/config"
	"github.com/safariyetu/bigqueryobjects/spi/version"
	"github.com/safariyetu/bigqueryobjects/testsupport/containers"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
)

// PrivilegedContext runs raw SQL against the disposable database,
// bypassing the client under test. Tests use it to verify the
// physical state a client operation left behind.
type PrivilegedContext interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Context interface {
	PrivilegedContext
	PgxConfig() *pgx.ConnConfig
	PostgresqlVersion() version.PostgresVersion
	TimescaleVersion() version.TimescaleVersion
	attribute(key string, value any)
	getAttribute(key string) any
}

func Attribute[V any](context Context, key string, value V) {
	context.attribute(key, value)
}

func GetAttribute[V any](context Context, key string) V {
	return context.getAttribute(key).(V)
}

type testContext struct {
	pool       *pgxpool.Pool
	pgxConfig  *pgx.ConnConfig
	attributes map[string]any

	setupFunctions   []func(context Context) error
	tearDownFunction []func(context Context) error
}

func (t *testContext) Exec(
	ctx context.Context, sql string, args ...any,
) (pgconn.CommandTag, error) {

	return t.pool.Exec(ctx, sql, args...)
}

func (t *testContext) Query(
	ctx context.Context, sql string, args ...any,
) (pgx.Rows, error) {

	return t.pool.Query(ctx, sql, args...)
}

func (t *testContext) QueryRow(
	ctx context.Context, sql string, args ...any,
) pgx.Row {

	return t.pool.QueryRow(ctx, sql, args...)
}

func (t *testContext) PgxConfig() *pgx.ConnConfig {
	return t.pgxConfig
}

func (t *testContext) PostgresqlVersion() version.PostgresVersion {
	var v string
	if err := t.pool.QueryRow(context.Background(), "SHOW SERVER_VERSION").Scan(&v); err != nil {
		panic(err)
	}
	pv, err := version.ParsePostgresVersion(v)
	if err != nil {
		panic(err)
	}
	return pv
}

func (t *testContext) TimescaleVersion() version.TimescaleVersion {
	var v string
	if err := t.pool.QueryRow(context.Background(),
		"SELECT extversion FROM pg_catalog.pg_extension WHERE extname = 'timescaledb'",
	).Scan(&v); err != nil {
		panic(err)
	}
	tsv, err := version.ParseTimescaleVersion(v)
	if err != nil {
		panic(err)
	}
	return tsv
}

func (t *testContext) attribute(key string, value any) {
	t.attributes[key] = value
}

func (t *testContext) getAttribute(key string) any {
	return t.attributes[key]
}

type testConfigurator func(context *testContext)

func WithSetup(fn func(context Context) error) testConfigurator {
	return func(context *testContext) {
		context.setupFunctions = append(context.setupFunctions, fn)
	}
}

func WithTearDown(fn func(context Context) error) testConfigurator {
	return func(context *testContext) {
		context.tearDownFunction = append(context.tearDownFunction, fn)
	}
}

// TestRunner hosts a TimescaleDB testcontainer for a whole suite.
// Each RunTest call hands the test its own connection pool against
// the shared instance, tests are expected to work on tables of
// their own.
type TestRunner struct {
	suite.Suite

	container testcontainers.Container
	pgxConfig *pgx.ConnConfig
	logger    *logging.Logger

	withCaller bool
}

func (tr *TestRunner) SetupSuite() {
	tr.withCaller = logging.WithCaller
	logging.WithCaller = true

	c := &spiconfig.Config{
		Logging: spiconfig.LoggerConfig{
			Level: "debug",
			Outputs: spiconfig.LoggerOutputConfig{
				Console: spiconfig.LoggerConsoleConfig{
					Enabled: lo.ToPtr(true),
				},
			},
		},
	}

	if err := logging.InitializeLogging(c, false); err != nil {
		tr.T().Error(err)
	}

	logger, err := logging.NewLogger("TestRunner")
	if err != nil {
		tr.T().Error(err)
	}

	tr.logger = logger

	container, pgxConfig, err := containers.SetupTimescaleContainer()
	if err != nil {
		tr.logger.Fatalf("failed setting up container: %+v", err)
		tr.T().FailNow()
	}
	tr.container = container
	tr.pgxConfig = pgxConfig
}

func (tr *TestRunner) TearDownSuite() {
	if tr.container != nil {
		tr.container.Terminate(context.Background())
	}
	logging.WithCaller = tr.withCaller
}

func (tr *TestRunner) RunTest(
	testFn func(context Context) error, configurators ...testConfigurator,
) {

	poolConfig, err := pgxpool.ParseConfig(tr.pgxConfig.ConnString())
	if err != nil {
		tr.T().Fatalf("failed to parse connection config: %+v", err)
		return
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		tr.T().Fatalf("failed to create connection pool: %+v", err)
		return
	}
	defer pool.Close()

	tc := &testContext{
		pool:       pool,
		pgxConfig:  tr.pgxConfig,
		attributes: make(map[string]any),
	}

	for _, configurator := range configurators {
		configurator(tc)
	}

	for _, setupFn := range tc.setupFunctions {
		if err := setupFn(tc); err != nil {
			tr.T().Fatalf("failed to setup test: %+v", err)
			return
		}
	}

	defer func() {
		for _, tearDownFn := range tc.tearDownFunction {
			if err := tearDownFn(tc); err != nil {
				tr.T().Fatalf("failed to tear down test: %+v", err)
				return
			}
		}
	}()

	if err := testFn(tc); err != nil {
		tr.T().Fatalf("failure in test: %+v", err)
		return
	}
}
