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
	"reflect"
	"sync/atomic"

	"github.com/go-errors/errors"
	"github.com/gookit/goutil/reflects"
	"github.com/safariyetu/bigqueryobjects/internal/functional"
)

// CasCache is a copy-on-write map for read-heavy lookups. Writers
// clone the backing map and publish the clone with a compare and
// swap, readers never block.
type CasCache[K comparable, V any] struct {
	mapPtr atomic.Pointer[map[K]V]
}

func NewCasCache[K comparable, V any]() *CasCache[K, V] {
	return &CasCache[K, V]{
		mapPtr: atomic.Pointer[map[K]V]{},
	}
}

func (cc *CasCache[K, V]) Get(
	key K,
) (value V, ok bool) {

	m := cc.mapPtr.Load()
	if m == nil {
		return functional.Zero[V](), false
	}

	value, ok = (*m)[key]
	return
}

// GetOrCompute returns the cached value for key, invoking producer
// when none exists. Concurrent producers may race; the first
// published value wins and is returned by all of them.
func (cc *CasCache[K, V]) GetOrCompute(
	key K, producer func() (V, error),
) (V, error) {

	if value, present := cc.Get(key); present {
		return value, nil
	}

	value, err := producer()
	if err != nil {
		return functional.Zero[V](), err
	}

	for {
		m := cc.mapPtr.Load()
		if m != nil {
			// Someone else may have published the key meanwhile
			if concurrent, present := (*m)[key]; present {
				return concurrent, nil
			}
		}

		if cc.mapPtr.CompareAndSwap(m, cloneWith(m, key, value)) {
			return value, nil
		}
	}
}

func (cc *CasCache[K, V]) Set(
	key K, value V,
) {

	for {
		m := cc.mapPtr.Load()
		if cc.mapPtr.CompareAndSwap(m, cloneWith(m, key, value)) {
			return
		}
	}
}

// TransformSetAndGet atomically replaces the value stored under key
// with the transformer's result. The transformer may run multiple
// times when publishing races with other writers.
func (cc *CasCache[K, V]) TransformSetAndGet(
	key K, transformer func(old V) (V, error),
) (V, error) {

	for {
		m := cc.mapPtr.Load()
		if m == nil {
			return functional.Zero[V](), errors.Errorf("cache not initialized yet")
		}

		value, present := (*m)[key]
		if !present {
			return functional.Zero[V](), errors.Errorf(
				"key %v not present", reflects.String(reflect.ValueOf(key)),
			)
		}

		transformed, err := transformer(value)
		if err != nil {
			return functional.Zero[V](), err
		}

		if cc.mapPtr.CompareAndSwap(m, cloneWith(m, key, transformed)) {
			return transformed, nil
		}
	}
}

func (cc *CasCache[K, V]) Keys() []K {
	m := cc.mapPtr.Load()
	if m == nil {
		return nil
	}

	keys := make([]K, 0, len(*m))
	for k := range *m {
		keys = append(keys, k)
	}
	return keys
}

func (cc *CasCache[K, V]) Length() int {
	m := cc.mapPtr.Load()
	if m == nil {
		return 0
	}
	return len(*m)
}

// cloneWith copies m and stores value under key in the copy.
func cloneWith[K comparable, V any](
	m *map[K]V, key K, value V,
) *map[K]V {

	size := 1
	if m != nil {
		size = len(*m) + 1
	}

	n := make(map[K]V, size)
	if m != nil {
		for k, v := range *m {
			n[k] = v
		}
	}
	n[key] = value
	return &n
}
