// Package httpapi is the HTTP surface over the identity core: session
// endpoints, cookie delivery, and the middleware other routers mount.
package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"tradepost.org/internal/auth"
	"tradepost.org/internal/listing"
	"tradepost.org/internal/obs"
)

// ReadyProbe reports whether the storage backing the API is reachable.
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// API is the HTTP layer.
type API struct {
	router        *mux.Router
	auth          *auth.Service
	listings      listing.Store
	readyProbe    ReadyProbe
	secureCookies bool
	version       string
}

// Option configures the API.
type Option func(*API)

// WithSecureCookies marks session cookies Secure; enabled in production.
func WithSecureCookies(enabled bool) Option {
	return func(a *API) { a.secureCookies = enabled }
}

// WithVersion sets the version reported by the health endpoint.
func WithVersion(v string) Option {
	return func(a *API) { a.version = v }
}

// New wires the routes over the identity service and the listing store.
func New(authSvc *auth.Service, listings listing.Store, rp ReadyProbe, opts ...Option) *API {
	a := &API{
		router:     mux.NewRouter(),
		auth:       authSvc,
		listings:   listings,
		readyProbe: rp,
		version:    "dev",
	}
	for _, opt := range opts {
		opt(a)
	}

	r := a.router
	r.HandleFunc("/healthz", a.handleHealthz).Methods(http.MethodGet)
	r.HandleFunc("/readyz", a.handleReady).Methods(http.MethodGet)
	r.Handle("/metrics", obs.Handler()).Methods(http.MethodGet)

	r.HandleFunc("/auth/register", a.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", a.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/auth/logout", a.handleLogout).Methods(http.MethodPost)
	r.HandleFunc("/auth/refresh", a.handleRefresh).Methods(http.MethodPost)
	r.Handle("/auth/me", a.withAuth(http.HandlerFunc(a.handleMe))).Methods(http.MethodGet)
	r.Handle("/auth/me", a.withAuth(http.HandlerFunc(a.handleUpdateProfile))).Methods(http.MethodPut)
	r.Handle("/auth/me", a.withAuth(http.HandlerFunc(a.handleDeleteAccount))).Methods(http.MethodDelete)
	r.Handle("/auth/password", a.withAuth(http.HandlerFunc(a.handleChangePassword))).Methods(http.MethodPut)

	r.Handle("/listings", a.withAuth(http.HandlerFunc(a.handleCreateListing))).Methods(http.MethodPost)
	r.HandleFunc("/listings/{id}", a.handleGetListing).Methods(http.MethodGet)
	r.Handle("/listings/{id}", a.withAuth(http.HandlerFunc(a.handleUpdateListing))).Methods(http.MethodPut)
	r.Handle("/listings/{id}", a.withAuth(http.HandlerFunc(a.handleDeleteListing))).Methods(http.MethodDelete)

	return a
}

// Handler returns the fully wrapped handler for the server.
func (a *API) Handler() http.Handler {
	h := MaxBodyBytes(a.router, 1<<20)
	h = RateLimit(h, 20, 10)
	h = SecurityHeaders(h)
	h = CORS(h)
	h = Logging(h)
	h = RequestID(h)
	return obs.Instrument(h)
}

func (a *API) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "tradepost-api",
		"version": a.version,
	})
}

func (a *API) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := a.readyProbe.Check(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "not_ready"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}
