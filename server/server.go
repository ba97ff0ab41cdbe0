package server

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/srcfoundry/mvcore/component"
	"github.com/srcfoundry/mvcore/config"
	"go.uber.org/zap"
)

const defaultHttpPort string = "8080"

// HttpServer listens for requests and hands everything except the metrics endpoint to the
// Dispatcher.
type HttpServer struct {
	cfg        config.Config
	router     *mux.Router
	dispatcher *Dispatcher
	server     http.Server
}

// NewHttpServer wires the gorilla/mux router: metrics first, then a catch-all to the
// dispatcher wrapped in the trace middleware.
func NewHttpServer(ctx context.Context, cfg config.Config, dispatcher *Dispatcher, registry *prometheus.Registry) *HttpServer {
	h := &HttpServer{cfg: cfg, router: mux.NewRouter(), dispatcher: dispatcher}

	if len(cfg.MetricsPath) > 0 && registry != nil {
		h.router.Handle(cfg.MetricsPath, promhttp.HandlerFor(registry, promhttp.HandlerOpts{
			EnableOpenMetrics: true,
		}))
	}
	h.router.PathPrefix("/").Handler(traceMiddleware(component.LoggerFromContext(ctx), dispatcher))

	port := cfg.HTTPPort
	if len(port) <= 0 {
		port = defaultHttpPort
	}

	h.server = http.Server{
		Addr:         net.JoinHostPort("0.0.0.0", port),
		WriteTimeout: cfg.WriteTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		IdleTimeout:  cfg.IdleTimeout,
		Handler:      h.router,
	}
	return h
}

// Handler returns the root http.Handler, useful with httptest.
func (h *HttpServer) Handler() http.Handler {
	return h.router
}

func (h *HttpServer) Addr() string {
	return h.server.Addr
}

// Start blocks serving requests until Stop is called.
func (h *HttpServer) Start(ctx context.Context) error {
	component.LoggerFromContext(ctx).Info("http server listening", zap.String("addr", h.server.Addr))
	if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (h *HttpServer) Stop(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}
