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

// Package clients pulls in all client implementations so their
// registrations run, and resolves the one selected in the
// configuration.
package clients

import (
	"github.com/safariyetu/bigqueryobjects/spi/client"
	spiconfig "github.com/safariyetu/bigqueryobjects/spi/config"

	_ "github.com/safariyetu/bigqueryobjects/internal/clients/memory"
	_ "github.com/safariyetu/bigqueryobjects/internal/clients/timescaledb"
)

func NewClient(
	config *spiconfig.Config,
) (client.Client, error) {

	return client.NewClient(config.Client.Type, config)
}
