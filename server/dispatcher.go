package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/srcfoundry/mvcore/component"
	"github.com/srcfoundry/mvcore/mvc"
	"go.uber.org/zap"
)

var allowedVerbs = func() string {
	verbs := make([]string, 0, len(mvc.Verbs()))
	for _, v := range mvc.Verbs() {
		verbs = append(verbs, v.String())
	}
	return strings.Join(verbs, ", ")
}()

// HandlerResolver is satisfied by *mvc.Router.
type HandlerResolver interface {
	Resolve(r *http.Request) (*mvc.Handler, bool, error)
}

// Dispatcher resolves each request to a handler, invokes it and renders the result.
type Dispatcher struct {
	resolver HandlerResolver
	metrics  *Metrics
}

// NewDispatcher returns a Dispatcher. metrics may be nil.
func NewDispatcher(resolver HandlerResolver, metrics *Metrics) *Dispatcher {
	return &Dispatcher{resolver: resolver, metrics: metrics}
}

func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	logger := component.LoggerFromContext(r.Context())
	verb := strings.ToUpper(r.Method)

	handler, found, err := d.resolver.Resolve(r)
	if err != nil {
		logger.Debug("unknown request method", zap.String("method", r.Method), zap.Error(err))
		w.Header().Set("Allow", allowedVerbs)
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		d.metrics.observe("unknown", unmatchedRoute, "unknown_verb", started)
		return
	}
	if !found {
		logger.Debug("no handler found", zap.String("method", r.Method), zap.String("path", r.URL.Path))
		http.NotFound(w, r)
		d.metrics.observe(verb, unmatchedRoute, "not_found", started)
		return
	}

	route := handler.Route().Pattern
	mav, err := handler.Handle(w, r)
	if err != nil {
		status, outcome := classify(err)
		if status >= http.StatusInternalServerError {
			logger.Error("handler failed",
				zap.String("handler", handler.Descriptor().String()),
				zap.String("route", handler.Route().Key.String()),
				zap.Error(err))
			http.Error(w, http.StatusText(status), status)
		} else {
			logger.Info("request rejected", zap.String("route", handler.Route().Key.String()), zap.Error(err))
			http.Error(w, err.Error(), status)
		}
		d.metrics.observe(verb, route, outcome, started)
		return
	}

	// A nil result means the handler wrote the response itself.
	if mav == nil {
		d.metrics.observe(verb, route, "ok", started)
		return
	}

	if err := render(w, r, mav); err != nil {
		logger.Error("render failed", zap.String("view", mav.View), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		d.metrics.observe(verb, route, "render_error", started)
		return
	}
	d.metrics.observe(verb, route, "ok", started)
}

func classify(err error) (int, string) {
	var (
		noResolver *mvc.NoResolverError
		resolution *mvc.ResolutionError
		invocation *mvc.InvocationError
	)
	switch {
	case errors.As(err, &noResolver):
		return http.StatusInternalServerError, "no_resolver"
	case errors.As(err, &resolution):
		return http.StatusBadRequest, "bad_request"
	case errors.As(err, &invocation):
		return http.StatusInternalServerError, "handler_error"
	default:
		return http.StatusInternalServerError, "error"
	}
}
