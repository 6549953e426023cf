// Package app assembles handlers, middleware and the HTTP server lifecycle
// shared by every service binary.
package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"staybook/pkg/config"
	"staybook/pkg/contracts"
	"staybook/pkg/middleware"

	"github.com/julienschmidt/httprouter"
)

const idempotencyHeader = "Idempotency-Key"

// Handlers groups routes by the middleware they need. API routes sit behind
// the full chain including identity; Public routes skip identity and rate
// limiting (payment provider callbacks carry no user header); Health answers
// probes with almost no middleware at all.
type Handlers struct {
	Health contracts.Handler
	API    []contracts.Handler
	Public []contracts.Handler
}

type Application struct {
	cfg      *config.Config
	server   *http.Server
	limiter  *middleware.UserRateLimiter
	idem     *middleware.InMemoryIdempotencyStore
	cleanups []func()
}

func NewApplication(cfg *config.Config, handlers Handlers) *Application {
	apiRouter := httprouter.New()
	for _, h := range handlers.API {
		h.RegisterRoutes(apiRouter)
	}

	publicRouter := httprouter.New()
	for _, h := range handlers.Public {
		h.RegisterRoutes(publicRouter)
	}

	healthRouter := httprouter.New()
	handlers.Health.RegisterRoutes(healthRouter)

	limiter := middleware.NewUserRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow, cfg.Log)
	idemStore := middleware.NewInMemoryIdempotencyStore(cfg.IdempotencyTTL)

	apiChain := chain(apiRouter,
		middleware.Recovery(cfg.Log),
		middleware.RequestLogging(cfg.Log),
		middleware.MaxRequestSize(int64(cfg.MaxRequestSize)),
		middleware.ContentTypeValidation(cfg.Log),
		middleware.Identity(cfg.Log),
		middleware.UserRateLimit(limiter),
		middleware.RequestTimeout(cfg.RequestTimeout),
		middleware.Idempotency(idemStore, idempotencyHeader),
	)
	publicChain := chain(publicRouter,
		middleware.Recovery(cfg.Log),
		middleware.RequestLogging(cfg.Log),
		middleware.MaxRequestSize(int64(cfg.MaxRequestSize)),
		middleware.RequestTimeout(cfg.RequestTimeout),
	)
	healthChain := chain(healthRouter,
		middleware.Recovery(cfg.Log),
	)

	// Public routes win over API routes, everything else falls through to
	// the authenticated chain.
	dispatch := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, _, _ := publicRouter.Lookup(r.Method, r.URL.Path); h != nil {
			publicChain.ServeHTTP(w, r)
			return
		}
		apiChain.ServeHTTP(w, r)
	})

	mux := http.NewServeMux()
	mux.Handle("/health", healthChain)
	mux.Handle("/ready", healthChain)
	mux.Handle("/", dispatch)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &Application{
		cfg:     cfg,
		server:  server,
		limiter: limiter,
		idem:    idemStore,
	}
}

// chain wraps handler so the first middleware listed runs outermost.
func chain(handler http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return handler
}

// OnShutdown registers a cleanup run after the HTTP server has drained.
func (a *Application) OnShutdown(fn func()) {
	a.cleanups = append(a.cleanups, fn)
}

// Run serves until SIGINT or SIGTERM, then drains in-flight requests and
// runs cleanups in registration order.
func (a *Application) Run() {
	log := a.cfg.Log

	go func() {
		log.Info("HTTP server listening", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("Shutdown signal received", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		log.Error("HTTP server shutdown failed", "error", err)
	}

	a.limiter.Stop()
	a.idem.Stop()
	for _, cleanup := range a.cleanups {
		cleanup()
	}
	a.cfg.GracefulShutdown()
	log.Info("Shutdown complete")
}
