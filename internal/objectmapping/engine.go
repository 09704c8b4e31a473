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

package objectmapping

import (
	"reflect"

	"github.com/safariyetu/bigqueryobjects/internal/containers"
	"github.com/safariyetu/bigqueryobjects/internal/logging"
	"github.com/safariyetu/bigqueryobjects/spi/mapping"
)

// Engine implements schema inference, record encoding, and row
// decoding over one shared field descriptor cache. Schemas are
// derived fresh on every inference run, only the per type field
// resolution is cached.
type Engine struct {
	logger          *logging.Logger
	descriptorCache *containers.CasCache[reflect.Type, []fieldDescriptor]
}

func NewEngine() (*Engine, error) {
	logger, err := logging.NewLogger("ObjectMapper")
	if err != nil {
		return nil, err
	}

	return &Engine{
		logger:          logger,
		descriptorCache: containers.NewCasCache[reflect.Type, []fieldDescriptor](),
	}, nil
}

var (
	_ mapping.SchemaInferrer = (*Engine)(nil)
	_ mapping.RecordEncoder  = (*Engine)(nil)
	_ mapping.RowDecoder     = (*Engine)(nil)
)
