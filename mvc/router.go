package mvc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"time"

	"github.com/srcfoundry/mvcore/component"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Discoverer finds the types carrying the marker interface under the given scan roots.
type Discoverer interface {
	Discover(marker reflect.Type, basePackages ...string) ([]reflect.Type, error)
}

// BeanFactory constructs one fully wired instance per type.
type BeanFactory interface {
	Construct(ctx context.Context, types []reflect.Type) (map[reflect.Type]any, error)
}

// Options configures a Router. Discoverer and BeanFactory are required.
type Options struct {
	Discoverer  Discoverer
	BeanFactory BeanFactory
	// Resolvers defaults to DefaultArgumentResolvers.
	Resolvers ArgumentResolvers
	// Cache defaults to a fresh ParameterCache owned by the Router.
	Cache *ParameterCache
	// ValidateOnInit checks every handler parameter against the resolver chain after the
	// table is built, failing initialization instead of the first request.
	ValidateOnInit bool
	// Logger defaults to the logger carried by the Initialize context.
	Logger *zap.Logger
}

// Router builds the route table at startup and resolves requests against it.
type Router struct {
	opts  Options
	table *RouteTable
}

func NewRouter(opts Options) *Router {
	if opts.Resolvers == nil {
		opts.Resolvers = DefaultArgumentResolvers()
	}
	if opts.Cache == nil {
		opts.Cache = NewParameterCache()
	}
	return &Router{opts: opts}
}

// Initialize scans basePackages for controllers, obtains their instances from the bean
// factory and registers every mapped handler method. It must complete before the Router
// serves requests and may only run once. Any failure is returned as an
// *InitializationError and leaves the Router without a table.
func (r *Router) Initialize(ctx context.Context, basePackages ...string) error {
	logger := r.logger(ctx)
	started := time.Now()

	if r.table != nil {
		return &InitializationError{Stage: "setup", Cause: errors.New("router already initialized")}
	}
	if r.opts.Discoverer == nil || r.opts.BeanFactory == nil {
		return &InitializationError{Stage: "setup", Cause: errors.New("discoverer and bean factory are required")}
	}

	types, err := r.opts.Discoverer.Discover(controllerType, basePackages...)
	if err != nil {
		return &InitializationError{Stage: "discovery", Cause: err}
	}

	beans, err := r.opts.BeanFactory.Construct(ctx, types)
	if err != nil {
		logger.Error("bean factory initialization failed", zap.Error(err))
		return &InitializationError{Stage: "bean construction", Cause: err}
	}

	table := NewRouteTable()
	for _, t := range types {
		if err := r.registerController(table, t, beans[t]); err != nil {
			return &InitializationError{Stage: "handler mapping", Cause: err}
		}
	}

	if r.opts.ValidateOnInit {
		var errs error
		for _, d := range table.Descriptors() {
			errs = multierr.Append(errs, d.Validate())
		}
		if errs != nil {
			return &InitializationError{Stage: "validation", Cause: errs}
		}
	}

	for _, route := range table.Routes() {
		logger.Debug("mapped route",
			zap.String("route", route.Key.String()),
			zap.String("controller", route.Controller),
			zap.String("method", route.Method))
	}
	logger.Info("initialized annotation handler mapping",
		zap.Strings("basePackages", basePackages),
		zap.Int("controllers", len(types)),
		zap.Int("handlers", len(table.Descriptors())),
		zap.Int("routes", table.Len()),
		zap.Duration("elapsed", time.Since(started)))

	r.table = table
	return nil
}

func (r *Router) registerController(table *RouteTable, t reflect.Type, bean any) error {
	if bean == nil {
		return fmt.Errorf("bean factory returned no instance for %s", t)
	}
	controller, ok := bean.(Controller)
	if !ok {
		return fmt.Errorf("%T does not implement mvc.Controller", bean)
	}

	mapping := controller.RequestMappings()
	mapped := make(map[string]bool, len(mapping.Routes))
	for _, rm := range mapping.Routes {
		if mapped[rm.Method] {
			return fmt.Errorf("%T maps method %s more than once", bean, rm.Method)
		}
		mapped[rm.Method] = true

		d, err := NewHandlerDescriptor(bean, rm.Method, rm.Params, r.opts.Resolvers, r.opts.Cache)
		if err != nil {
			return err
		}
		path := JoinPath(mapping.Path, rm.Value)
		for _, key := range ExpandRouteKeys(path, rm.Verbs) {
			if err := table.Register(key, d); err != nil {
				return err
			}
		}
	}
	return nil
}

// Resolve looks up the handler for req by its escaped path. found is false on a routing
// miss; err is only set when the request method is not a known verb.
func (r *Router) Resolve(req *http.Request) (h *Handler, found bool, err error) {
	return r.Lookup(req.URL.EscapedPath(), req.Method)
}

// Lookup resolves an escaped path and a method string.
func (r *Router) Lookup(path, method string) (*Handler, bool, error) {
	verb, err := ParseVerb(method)
	if err != nil {
		return nil, false, err
	}
	if r.table == nil {
		return nil, false, nil
	}
	h, found := r.table.Lookup(path, verb)
	return h, found, nil
}

// Table returns the route table, nil before Initialize succeeds.
func (r *Router) Table() *RouteTable {
	return r.table
}

func (r *Router) logger(ctx context.Context) *zap.Logger {
	if r.opts.Logger != nil {
		return r.opts.Logger
	}
	return component.LoggerFromContext(ctx)
}
