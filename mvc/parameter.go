package mvc

import (
	"fmt"
	"reflect"
	"sync"
)

// ParameterMetadata describes one handler-method parameter.
type ParameterMetadata struct {
	Index       int
	Type        reflect.Type
	Name        string
	Annotations []Annotation
}

// RequestParam returns the parameter's RequestParam annotation, if any.
func (p ParameterMetadata) RequestParam() (RequestParam, bool) {
	for _, a := range p.Annotations {
		if rp, ok := a.(RequestParam); ok {
			return rp, true
		}
	}
	return RequestParam{}, false
}

// PathVariable returns the parameter's PathVariable annotation, if any.
func (p ParameterMetadata) PathVariable() (PathVariable, bool) {
	for _, a := range p.Annotations {
		if pv, ok := a.(PathVariable); ok {
			return pv, true
		}
	}
	return PathVariable{}, false
}

// bindingName prefers an annotation override over the declared source name.
func (p ParameterMetadata) bindingName(override string) string {
	if override != "" {
		return override
	}
	return p.Name
}

// methodKey identifies a handler method together with its parameter declarations; the same
// method declared with different Params yields different metadata.
type methodKey struct {
	receiver reflect.Type
	name     string
	params   string
}

func newMethodKey(receiver reflect.Type, name string, params []Param) methodKey {
	key := methodKey{receiver: receiver, name: name}
	if len(params) > 0 {
		key.params = fmt.Sprintf("%#v", params)
	}
	return key
}

// ParameterCache holds parameter metadata per handler method and declaration. Population
// tolerates concurrent first access: for a given key the metadata is derived from immutable
// reflection data and the same declarations, so a redundant computation stores an equal
// value.
type ParameterCache struct {
	entries sync.Map // methodKey -> []ParameterMetadata
}

func NewParameterCache() *ParameterCache {
	return &ParameterCache{}
}

// Parameters returns the ordered metadata for method on receiver, computing it on first use.
// The returned slice is shared and must not be modified.
func (c *ParameterCache) Parameters(receiver reflect.Type, method reflect.Method, params []Param) ([]ParameterMetadata, error) {
	key := newMethodKey(receiver, method.Name, params)
	if cached, ok := c.entries.Load(key); ok {
		return cached.([]ParameterMetadata), nil
	}

	metadata, err := describeParameters(method, params)
	if err != nil {
		return nil, err
	}
	actual, _ := c.entries.LoadOrStore(key, metadata)
	return actual.([]ParameterMetadata), nil
}

// describeParameters skips the receiver, which reflect.Method.Type carries as In(0).
func describeParameters(method reflect.Method, params []Param) ([]ParameterMetadata, error) {
	arity := method.Type.NumIn() - 1
	if len(params) > 0 && len(params) != arity {
		return nil, fmt.Errorf("method %s declares %d params but takes %d arguments", method.Name, len(params), arity)
	}

	metadata := make([]ParameterMetadata, arity)
	for i := 0; i < arity; i++ {
		p := ParameterMetadata{Index: i, Type: method.Type.In(i + 1), Name: fmt.Sprintf("arg%d", i)}
		if len(params) > 0 {
			if params[i].Name != "" {
				p.Name = params[i].Name
			}
			p.Annotations = params[i].Annotations
		}
		metadata[i] = p
	}
	return metadata, nil
}
