package component

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
)

var defaultRegistry = NewRegistry()

// Registry records component prototypes so they can be discovered by package at startup.
// Components normally register themselves from an init function.
type Registry struct {
	mu         sync.RWMutex
	prototypes map[reflect.Type]any
}

func NewRegistry() *Registry {
	return &Registry{prototypes: make(map[reflect.Type]any)}
}

// DefaultRegistry returns the process-wide registry used by Register.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Register adds prototype to the default registry.
func Register(prototype any) error {
	return defaultRegistry.Register(prototype)
}

// MustRegister is Register for init functions; it panics on error.
func MustRegister(prototype any) {
	if err := Register(prototype); err != nil {
		panic(err)
	}
}

// Register records prototype under its dynamic type. A type may only be registered once.
func (r *Registry) Register(prototype any) error {
	if prototype == nil {
		return errors.New("component prototype cannot be nil")
	}
	t := reflect.TypeOf(prototype)
	if packagePath(t) == "" {
		return fmt.Errorf("component %s must be a named type", t)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, found := r.prototypes[t]; found {
		return fmt.Errorf("component %s already registered", t)
	}
	r.prototypes[t] = prototype
	return nil
}

// Prototype returns the value registered for t.
func (r *Registry) Prototype(t reflect.Type) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	prototype, found := r.prototypes[t]
	return prototype, found
}

// Discover returns the registered types implementing marker whose package is one of
// basePackages or nested below one. No basePackages selects every package. Types are
// sorted by name so startup is deterministic.
func (r *Registry) Discover(marker reflect.Type, basePackages ...string) ([]reflect.Type, error) {
	if marker == nil || marker.Kind() != reflect.Interface {
		return nil, fmt.Errorf("marker %v must be an interface type", marker)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var types []reflect.Type
	for t := range r.prototypes {
		if !t.Implements(marker) {
			continue
		}
		if !inPackages(packagePath(t), basePackages) {
			continue
		}
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i].String() < types[j].String() })
	return types, nil
}

func packagePath(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.PkgPath()
}

func inPackages(pkg string, roots []string) bool {
	if len(roots) == 0 {
		return true
	}
	for _, root := range roots {
		root = strings.TrimSuffix(root, "/")
		if pkg == root || strings.HasPrefix(pkg, root+"/") {
			return true
		}
	}
	return false
}
