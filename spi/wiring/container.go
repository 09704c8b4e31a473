package wiring

import (
	"reflect"

	"github.com/go-errors/errors"
	"github.com/samber/do"
)

// Container resolves services that were provided by the modules it
// was built from.
type Container interface {
	// Service resolves the service matching the type of the given
	// pointer and assigns the instance to it.
	Service(service any) error
}

func NewContainer(modules ...Module) (Container, error) {
	injector := do.New()

	// Register providers
	for _, module := range modules {
		if err := module.stage1(injector); err != nil {
			return nil, err
		}
	}

	// Run invokers and forced initializations
	for _, module := range modules {
		if err := module.stage2(injector); err != nil {
			return nil, err
		}
	}

	return &container{
		injector: injector,
	}, nil
}

type container struct {
	injector *do.Injector
}

func (c *container) Service(service any) error {
	serviceValue := reflect.ValueOf(service)
	if serviceValue.Kind() != reflect.Pointer {
		return errors.Errorf(
			"service target must be a pointer, got %s", serviceValue.Type().String(),
		)
	}

	serviceValue = reflect.Indirect(serviceValue)
	serviceInstance, err := do.InvokeNamed[any](c.injector, serviceValue.Type().String())
	if err != nil {
		return err
	}

	serviceValue.Set(reflect.ValueOf(serviceInstance))
	return nil
}
