package component

import (
	"context"
	"fmt"
	"reflect"

	"github.com/mohae/deepcopy"
	"go.uber.org/zap"
)

// Initializer is implemented by components that need setup after construction. Init should
// finish within a reasonable amount of time since it blocks application startup.
type Initializer interface {
	Init(context.Context) error
}

// Factory builds component instances from the prototypes held by a Registry.
type Factory struct {
	registry *Registry
}

// NewFactory returns a Factory over registry, or over the default registry when nil.
func NewFactory(registry *Registry) *Factory {
	if registry == nil {
		registry = defaultRegistry
	}
	return &Factory{registry: registry}
}

// Construct returns one instance per type. Each instance is a deep copy of the registered
// prototype (only exported fields are copied) or, for unregistered struct pointers, a new
// zero value. Initializers run in the order of types and the first failure aborts.
func (f *Factory) Construct(ctx context.Context, types []reflect.Type) (map[reflect.Type]any, error) {
	logger := LoggerFromContext(ctx)
	instances := make(map[reflect.Type]any, len(types))

	for _, t := range types {
		instance, err := f.newInstance(t)
		if err != nil {
			return nil, err
		}

		if initializer, ok := instance.(Initializer); ok {
			if err := initializer.Init(ContextWithLogger(ctx, logger.With(zap.String("component", t.String())))); err != nil {
				return nil, fmt.Errorf("error initializing %v: %w", t, err)
			}
		}

		instances[t] = instance
		logger.Debug("constructed component", zap.String("component", t.String()))
	}
	return instances, nil
}

func (f *Factory) newInstance(t reflect.Type) (any, error) {
	if prototype, found := f.registry.Prototype(t); found {
		instance := deepcopy.Copy(prototype)
		if instance == nil {
			return nil, fmt.Errorf("unable to copy prototype of %v", t)
		}
		return instance, nil
	}

	if t.Kind() == reflect.Ptr && t.Elem().Kind() == reflect.Struct {
		return reflect.New(t.Elem()).Interface(), nil
	}
	return nil, fmt.Errorf("no prototype registered for %v", t)
}
