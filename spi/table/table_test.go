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
	"testing"
	"time"

	"github.com/safariyetu/bigqueryobjects/spi/schema"
	"github.com/stretchr/testify/assert"
)

func Test_Id_String(
	t *testing.T,
) {

	assert.Equal(t, "demo.users", Id{Dataset: "demo", Name: "users"}.String())
}

func Test_Granularity_Chunk_Intervals(
	t *testing.T,
) {

	assert.Equal(t, time.Hour, HOUR.ChunkInterval())
	assert.Equal(t, 24*time.Hour, DAY.ChunkInterval())
	assert.Equal(t, 720*time.Hour, MONTH.ChunkInterval())
	assert.Equal(t, 8760*time.Hour, YEAR.ChunkInterval())

	// Unknown granularities behave like the default
	assert.Equal(t, DefaultGranularity.ChunkInterval(), Granularity("WEEK").ChunkInterval())
}

func Test_Partitioning_Equal(
	t *testing.T,
) {

	daily := &Partitioning{Field: "last_seen", Granularity: DAY}

	assert.True(t, daily.Equal(&Partitioning{Field: "last_seen", Granularity: DAY}))
	assert.False(t, daily.Equal(&Partitioning{Field: "last_seen", Granularity: MONTH}))
	assert.False(t, daily.Equal(&Partitioning{Field: "signup_date", Granularity: DAY}))
	assert.False(t, daily.Equal(nil))

	var unset *Partitioning
	assert.True(t, unset.Equal(nil))
}

func Test_Clustering_Is_Order_Sensitive(
	t *testing.T,
) {

	clustering := &Clustering{Fields: []string{"sku", "name"}}

	assert.True(t, clustering.Equal(&Clustering{Fields: []string{"sku", "name"}}))
	assert.False(t, clustering.Equal(&Clustering{Fields: []string{"name", "sku"}}))
	assert.False(t, clustering.Equal(&Clustering{Fields: []string{"sku"}}))
	assert.False(t, clustering.Equal(nil))

	var unset *Clustering
	assert.True(t, unset.Equal(nil))
}

func Test_Definition_Equal(
	t *testing.T,
) {

	base := Definition{
		Schema:       schema.NewBuilder().Integer("id").String("name").Build(),
		Partitioning: &Partitioning{Field: "last_seen", Granularity: DAY},
		Clustering:   &Clustering{Fields: []string{"name"}},
	}

	same := Definition{
		Schema:       schema.NewBuilder().Integer("id").String("name").Build(),
		Partitioning: &Partitioning{Field: "last_seen", Granularity: DAY},
		Clustering:   &Clustering{Fields: []string{"name"}},
	}
	assert.True(t, base.Equal(same))

	reordered := same
	reordered.Schema = schema.NewBuilder().String("name").Integer("id").Build()
	assert.False(t, base.Equal(reordered))

	unpartitioned := same
	unpartitioned.Partitioning = nil
	assert.False(t, base.Equal(unpartitioned))

	unclustered := same
	unclustered.Clustering = nil
	assert.False(t, base.Equal(unclustered))
}
