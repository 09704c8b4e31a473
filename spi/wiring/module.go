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

package wiring

import (
	"github.com/go-errors/errors"
	"github.com/samber/do"
	"github.com/samber/lo"
	"reflect"
)

var errorReflectiveType = reflect.TypeOf((*error)(nil)).Elem()

// PostConstructable instances get their PostConstruct hook called
// right after the providing constructor returned.
type PostConstructable interface {
	PostConstruct() error
}

type ProvideOption interface {
	applyProvideOption(binding *binding)
}

// ForceInitialization marks a provided service to be instantiated
// eagerly when the container is built, instead of waiting for the
// first resolution.
func ForceInitialization() ProvideOption {
	return forceInitializationProvideOption{}
}

type forceInitializationProvideOption struct {
}

func (f forceInitializationProvideOption) applyProvideOption(binding *binding) {
	binding.forceInit = true
}

// Module collects service constructors and invocations. Constructors
// are registered by the return type, parameters are resolved from the
// container by their types.
type Module interface {
	Provide(constructor any, options ...ProvideOption)
	Invoke(call any)
	stage1(injector *do.Injector) error
	stage2(injector *do.Injector) error
}

func DefineModule(name string, definer func(module Module)) Module {
	module := &module{
		name: name,
	}
	definer(module)
	return module
}

type module struct {
	name     string
	bindings []*binding
}

func (m *module) stage1(injector *do.Injector) error {
	for _, binding := range m.bindings {
		if binding.invoker == nil {
			if lo.Contains(injector.ListProvidedServices(), binding.serviceName) {
				do.OverrideNamed(injector, binding.serviceName, binding.provider)
			} else {
				do.ProvideNamed(injector, binding.serviceName, binding.provider)
			}
		}
	}
	return nil
}

func (m *module) stage2(injector *do.Injector) error {
	for _, binding := range m.bindings {
		if binding.invoker != nil {
			if err := binding.invoker(injector); err != nil {
				return err
			}
		}
		if binding.forceInit {
			if _, err := do.InvokeNamed[any](injector, binding.serviceName); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *module) Provide(constructor any, options ...ProvideOption) {
	t := reflect.TypeOf(constructor)
	if t.Kind() != reflect.Func {
		panic(errors.Errorf("Type %s is not a function", t.String()))
	}
	v := reflect.ValueOf(constructor)

	mayReturnError := false
	if 2 == t.NumOut() {
		errorType := t.Out(1)
		if !errorType.ConvertibleTo(errorReflectiveType) {
			panic(errors.Errorf("Type %s has two return values, but the second one isn't an error", t.String()))
		}
		mayReturnError = true
	} else if t.NumOut() > 2 {
		panic(errors.Errorf("Type %s can only have 1 or 2 return values, but has %d", t.String(), t.NumOut()))
	}

	binding := &binding{
		serviceName: t.Out(0).String(),
		paramTypes:  paramTypes(t),
	}

	binding.provider = func(injector *do.Injector) (any, error) {
		params, err := resolveParams(injector, binding.paramTypes)
		if err != nil {
			return nil, err
		}

		results := v.Call(params)
		if mayReturnError {
			errorValue := results[1]
			if !errorValue.IsNil() {
				return nil, asError(errorValue.Convert(errorReflectiveType).Interface())
			}
		}

		value := results[0].Interface()
		if v, ok := value.(PostConstructable); ok {
			if err := v.PostConstruct(); err != nil {
				return nil, err
			}
		}
		return value, nil
	}

	for _, option := range options {
		option.applyProvideOption(binding)
	}

	m.bindings = append(m.bindings, binding)
}

func (m *module) Invoke(call any) {
	t := reflect.TypeOf(call)
	if t.Kind() != reflect.Func {
		panic(errors.Errorf("Type %s is not a function", t.String()))
	}
	v := reflect.ValueOf(call)

	mayReturnError := false
	if 1 == t.NumOut() {
		errorType := t.Out(0)
		if !errorType.ConvertibleTo(errorReflectiveType) {
			panic(errors.Errorf("Type %s has a return value, but it isn't an error", t.String()))
		}
		mayReturnError = true
	} else if t.NumOut() > 1 {
		panic(errors.Errorf("Type %s can only have 1 return value, but has %d", t.String(), t.NumOut()))
	}

	binding := &binding{
		serviceName: t.String(),
		paramTypes:  paramTypes(t),
	}

	binding.invoker = func(injector *do.Injector) error {
		params, err := resolveParams(injector, binding.paramTypes)
		if err != nil {
			return err
		}

		results := v.Call(params)
		if mayReturnError {
			errorValue := results[0]
			if !errorValue.IsNil() {
				return asError(errorValue.Convert(errorReflectiveType).Interface())
			}
		}
		return nil
	}

	m.bindings = append(m.bindings, binding)
}

func paramTypes(t reflect.Type) []reflect.Type {
	types := make([]reflect.Type, 0, t.NumIn())
	for i := 0; i < t.NumIn(); i++ {
		types = append(types, t.In(i))
	}
	return types
}

func resolveParams(injector *do.Injector, types []reflect.Type) ([]reflect.Value, error) {
	params := make([]reflect.Value, 0, len(types))
	for _, paramType := range types {
		param, err := do.InvokeNamed[any](injector, paramType.String())
		if err != nil {
			return nil, err
		}
		params = append(params, reflect.ValueOf(param))
	}
	return params, nil
}

func asError[T any](t T) error {
	return any(t).(error)
}

type binding struct {
	serviceName string
	paramTypes  []reflect.Type
	forceInit   bool
	provider    func(injector *do.Injector) (any, error)
	invoker     func(injector *do.Injector) error
}
