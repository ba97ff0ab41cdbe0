package mvc

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"

	"go.uber.org/multierr"
)

var (
	modelAndViewType = reflect.TypeOf((*ModelAndView)(nil))
	errorType        = reflect.TypeOf((*error)(nil)).Elem()
)

// HandlerDescriptor binds a controller instance to one of its handler methods. A descriptor
// is immutable after construction and shared by every RouteKey the method is mapped under.
type HandlerDescriptor struct {
	target    reflect.Value
	receiver  reflect.Type
	method    reflect.Method
	params    []Param
	resolvers ArgumentResolvers
	cache     *ParameterCache
}

// NewHandlerDescriptor looks up the named method on target and checks it has the handler shape
// func(...) (*ModelAndView, error).
func NewHandlerDescriptor(target any, name string, params []Param, resolvers ArgumentResolvers, cache *ParameterCache) (*HandlerDescriptor, error) {
	if target == nil {
		return nil, errors.New("handler target is nil")
	}
	receiver := reflect.TypeOf(target)
	method, found := receiver.MethodByName(name)
	if !found {
		return nil, fmt.Errorf("%s has no exported method %q", receiver, name)
	}

	mt := method.Type
	if mt.NumOut() != 2 || mt.Out(0) != modelAndViewType || mt.Out(1) != errorType {
		return nil, fmt.Errorf("handler %s must return (*mvc.ModelAndView, error), has %s", methodName(receiver, method.Name), mt)
	}
	if mt.IsVariadic() {
		return nil, fmt.Errorf("handler %s must not be variadic", methodName(receiver, method.Name))
	}
	if cache == nil {
		cache = NewParameterCache()
	}

	d := &HandlerDescriptor{
		target:    reflect.ValueOf(target),
		receiver:  receiver,
		method:    method,
		params:    params,
		resolvers: resolvers,
		cache:     cache,
	}
	// Surfaces a params/arity mismatch at construction instead of on first request.
	if _, err := d.Parameters(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *HandlerDescriptor) String() string {
	return methodName(d.receiver, d.method.Name)
}

// Target returns the controller instance the method is invoked on.
func (d *HandlerDescriptor) Target() any {
	return d.target.Interface()
}

func (d *HandlerDescriptor) MethodName() string {
	return d.method.Name
}

// Parameters returns the method's cached parameter metadata in declaration order.
func (d *HandlerDescriptor) Parameters() ([]ParameterMetadata, error) {
	return d.cache.Parameters(d.receiver, d.method, d.params)
}

// Validate checks that every parameter has a supporting resolver.
func (d *HandlerDescriptor) Validate() error {
	params, err := d.Parameters()
	if err != nil {
		return err
	}
	var errs error
	for _, p := range params {
		if _, ok := d.resolvers.Find(p); !ok {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", d, &NoResolverError{Param: p}))
		}
	}
	return errs
}

// Invoke resolves every parameter through the resolver chain and calls the handler method.
func (d *HandlerDescriptor) Invoke(w http.ResponseWriter, r *http.Request, rc RouteContext) (*ModelAndView, error) {
	params, err := d.Parameters()
	if err != nil {
		return nil, err
	}

	args := make([]reflect.Value, len(params)+1)
	args[0] = d.target
	for i, p := range params {
		arg, err := d.resolveArgument(p, w, r, rc)
		if err != nil {
			return nil, err
		}
		args[i+1] = arg
	}

	return d.call(args)
}

func (d *HandlerDescriptor) resolveArgument(p ParameterMetadata, w http.ResponseWriter, r *http.Request, rc RouteContext) (reflect.Value, error) {
	resolver, ok := d.resolvers.Find(p)
	if !ok {
		return reflect.Value{}, &NoResolverError{Param: p}
	}

	arg, err := resolver.Resolve(p, r, w, rc)
	if err != nil {
		var resolutionErr *ResolutionError
		if !errors.As(err, &resolutionErr) {
			err = &ResolutionError{Param: p, Err: err}
		}
		return reflect.Value{}, err
	}

	if arg == nil {
		return reflect.Zero(p.Type), nil
	}
	value := reflect.ValueOf(arg)
	if !value.Type().AssignableTo(p.Type) {
		return reflect.Value{}, &ResolutionError{Param: p, Err: fmt.Errorf("resolver %T produced %s", resolver, value.Type())}
	}
	return value, nil
}

func (d *HandlerDescriptor) call(args []reflect.Value) (mav *ModelAndView, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			mav = nil
			err = &InvocationError{Handler: d.String(), Err: fmt.Errorf("panic: %v", rec)}
		}
	}()

	out := d.method.Func.Call(args)
	if errVal := out[1]; !errVal.IsNil() {
		return nil, &InvocationError{Handler: d.String(), Err: errVal.Interface().(error)}
	}
	return out[0].Interface().(*ModelAndView), nil
}

// Handler is a descriptor bound to the route context of one request.
type Handler struct {
	descriptor *HandlerDescriptor
	route      RouteContext
}

func (h *Handler) Descriptor() *HandlerDescriptor {
	return h.descriptor
}

func (h *Handler) Route() RouteContext {
	return h.route
}

// Handle invokes the handler for the request.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) (*ModelAndView, error) {
	return h.descriptor.Invoke(w, r, h.route)
}
