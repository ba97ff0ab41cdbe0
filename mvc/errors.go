package mvc

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrUnknownVerb is returned when a request method does not name a Verb.
	ErrUnknownVerb = errors.New("unknown verb")
	// ErrDuplicateRoute is returned when two handler methods map to the same RouteKey.
	ErrDuplicateRoute = errors.New("duplicate route")
	// ErrMissingParameter is returned when a required request value is absent.
	ErrMissingParameter = errors.New("missing parameter")
)

// InitializationError aborts Router.Initialize. Cause is the root failure.
type InitializationError struct {
	Stage string
	Cause error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("handler mapping initialization failed during %s: %v", e.Stage, e.Cause)
}

func (e *InitializationError) Unwrap() error { return e.Cause }

// NoResolverError reports a parameter no ArgumentResolver in the chain supports.
type NoResolverError struct {
	Param ParameterMetadata
}

func (e *NoResolverError) Error() string {
	return fmt.Sprintf("no suitable resolver for argument %d (%s) of type %s", e.Param.Index, e.Param.Name, e.Param.Type)
}

// ResolutionError is a request-scoped failure to produce a parameter value.
type ResolutionError struct {
	Param ParameterMetadata
	Err   error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("unable to resolve parameter %q of type %s: %v", e.Param.Name, e.Param.Type, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// InvocationError wraps a failure raised by the handler method itself.
type InvocationError struct {
	Handler string
	Err     error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("handler %s failed: %v", e.Handler, e.Err)
}

func (e *InvocationError) Unwrap() error { return e.Err }

func methodName(t reflect.Type, method string) string {
	return t.String() + "." + method
}
