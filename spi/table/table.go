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

package table

import (
	"fmt"
	"time"

	"github.com/safariyetu/bigqueryobjects/internal/functional"
	"github.com/safariyetu/bigqueryobjects/spi/schema"
)

// Id identifies a table inside a dataset
type Id struct {
	Dataset string `json:"dataset" yaml:"dataset"`
	Name    string `json:"name" yaml:"name"`
}

func (i Id) String() string {
	return fmt.Sprintf("%s.%s", i.Dataset, i.Name)
}

// Granularity is the time partitioning granularity of a table
type Granularity string

const (
	HOUR  Granularity = "HOUR"
	DAY   Granularity = "DAY"
	MONTH Granularity = "MONTH"
	YEAR  Granularity = "YEAR"
)

const DefaultGranularity = DAY

// ChunkInterval maps the partitioning granularity to the time
// range a single partition chunk covers
func (g Granularity) ChunkInterval() time.Duration {
	switch g {
	case HOUR:
		return time.Hour
	case MONTH:
		return 30 * 24 * time.Hour
	case YEAR:
		return 365 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// Partitioning requests time partitioning of a table on a single
// temporal field
type Partitioning struct {
	Field       string      `json:"field" yaml:"field"`
	Granularity Granularity `json:"granularity" yaml:"granularity"`
}

func (p *Partitioning) Equal(
	other *Partitioning,
) bool {

	if p == nil || other == nil {
		return p == other
	}
	return p.Field == other.Field && p.Granularity == other.Granularity
}

// Clustering requests physical co-location of rows by the given
// fields, in order
type Clustering struct {
	Fields []string `json:"fields" yaml:"fields"`
}

func (c *Clustering) Equal(
	other *Clustering,
) bool {

	if c == nil || other == nil {
		return c == other
	}
	return functional.ArrayEqual(c.Fields, other.Fields)
}

// Definition is the full remote shape of a table. Definitions are
// fetched, created, and replaced wholesale, never patched field
// by field.
type Definition struct {
	Schema       schema.Schema `json:"schema" yaml:"schema"`
	Partitioning *Partitioning `json:"partitioning,omitempty" yaml:"partitioning,omitempty"`
	Clustering   *Clustering   `json:"clustering,omitempty" yaml:"clustering,omitempty"`
}

func (d Definition) Equal(
	other Definition,
) bool {

	return d.Schema.Equal(other.Schema) &&
		d.Partitioning.Equal(other.Partitioning) &&
		d.Clustering.Equal(other.Clustering)
}
