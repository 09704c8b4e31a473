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

package containers

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/safariyetu/bigqueryobjects/internal/logging"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	databaseName = "bigqueryobjects"
	postgresUser = "postgres"
	postgresPass = "postgres"
)

// SetupTimescaleContainer starts a disposable TimescaleDB instance
// and hands back the parsed connection configuration of its
// superuser. Terminating the container is up to the caller.
func SetupTimescaleContainer() (testcontainers.Container, *pgx.ConnConfig, error) {
	containerRequest := testcontainers.ContainerRequest{
		Image:        "timescale/timescaledb:latest-pg15",
		ExposedPorts: []string{"5432/tcp"},
		Cmd:          []string{"-c", "fsync=off"},
		WaitingFor:   wait.ForListeningPort("5432/tcp"),
		Env: map[string]string{
			"POSTGRES_DB":       databaseName,
			"POSTGRES_PASSWORD": postgresPass,
			"POSTGRES_USER":     postgresUser,
		},
	}

	logger, err := logging.NewLogger("testcontainers")
	if err != nil {
		return nil, nil, err
	}
	timescaledbLogger, err := logging.NewLogger("testcontainers-timescaledb")
	if err != nil {
		return nil, nil, err
	}

	container, err := testcontainers.GenericContainer(
		context.Background(),
		testcontainers.GenericContainerRequest{
			ContainerRequest: containerRequest,
			Started:          true,
			Logger:           logger,
		},
	)
	if err != nil {
		return nil, nil, err
	}

	// Collect logs
	container.FollowOutput(&logConsumer{logger: timescaledbLogger})
	container.StartLogProducer(context.Background())

	host, err := container.Host(context.Background())
	if err != nil {
		container.Terminate(context.Background())
		return nil, nil, err
	}

	port, err := container.MappedPort(context.Background(), "5432/tcp")
	if err != nil {
		container.Terminate(context.Background())
		return nil, nil, err
	}

	connString := fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		postgresUser, postgresPass, host, port.Int(), databaseName)

	config, err := pgx.ParseConfig(connString)
	if err != nil {
		container.Terminate(context.Background())
		return nil, nil, err
	}

	return container, config, nil
}

// logConsumer forwards container output to the test logger, with
// stderr lines reported at error level
type logConsumer struct {
	logger *logging.Logger
}

func (l *logConsumer) Accept(
	log testcontainers.Log,
) {

	if log.LogType == testcontainers.StderrLog {
		l.logger.Errorln(string(log.Content))
	} else {
		l.logger.Println(string(log.Content))
	}
}
