package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/graphql-go/graphql"

	"lifelink.org/internal/dashboard"
	"lifelink.org/internal/obs"
	"lifelink.org/internal/session"
)

const serviceName = "lifelink"

type readinessChecker interface {
	Check(ctx context.Context) error
}

// ReadyProbe pings the catalog database when one is configured.
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// Options wires the collaborators of the HTTP layer. Zero values fall back to
// an in-memory store, a random-key codec and the seeded dashboards.
type Options struct {
	Version      string
	Ready        readinessChecker
	Sessions     *session.Store
	Codec        *session.Codec
	Source       dashboard.Source
	CookieSecure bool
	RateBurst    int
	RatePerSec   float64
	MaxBodyBytes int64
}

// API is the HTTP surface: the HTML shell, its JSON twin and the operational
// endpoints.
type API struct {
	mux          *http.ServeMux
	readyProbe   readinessChecker
	version      string
	sessions     *session.Store
	ownsSessions bool
	codec        *session.Codec
	source       dashboard.Source
	pages        *pages
	schema       graphql.Schema
	limiter      *rateLimiter
	cookieSecure bool
	maxBodyBytes int64
}

func New(opts Options) (*API, error) {
	a := &API{
		mux:          http.NewServeMux(),
		readyProbe:   opts.Ready,
		version:      opts.Version,
		sessions:     opts.Sessions,
		codec:        opts.Codec,
		source:       opts.Source,
		cookieSecure: opts.CookieSecure,
		maxBodyBytes: opts.MaxBodyBytes,
	}
	if a.readyProbe == nil {
		a.readyProbe = ReadyProbe{}
	}
	if a.sessions == nil {
		a.sessions = session.NewStore(session.WithObserver(obs.SetSessionsActive))
		a.ownsSessions = true
	}
	if a.codec == nil {
		codec, err := session.NewCodec("", 0)
		if err != nil {
			return nil, err
		}
		a.codec = codec
	}
	if a.source == nil {
		a.source = dashboard.Seeded()
	}
	if a.maxBodyBytes <= 0 {
		a.maxBodyBytes = 1 << 20
	}
	burst, perSec := opts.RateBurst, opts.RatePerSec
	if burst <= 0 {
		burst = 40
	}
	if perSec <= 0 {
		perSec = 20
	}
	a.limiter = newRateLimiter(burst, perSec)

	p, err := loadPages()
	if err != nil {
		a.Close()
		return nil, err
	}
	a.pages = p

	schema, err := newSchema(a.source)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.schema = schema

	a.routes()
	return a, nil
}

func (a *API) routes() {
	// shell
	a.mux.HandleFunc("/{$}", a.handleShell)
	a.mux.HandleFunc("/login", a.handleLogin)
	a.mux.HandleFunc("/logout", a.handleLogout)
	a.mux.HandleFunc("/actions/{action}", a.handleShellAction)
	a.mux.Handle("/assets/", assetHandler())

	// json
	a.mux.HandleFunc("/v1/session", a.handleSession)
	a.mux.Handle("/v1/dashboard", a.RequireAuthenticated(http.HandlerFunc(a.handleDashboard)))
	a.mux.Handle("/v1/actions/{action}", a.RequireAuthenticated(http.HandlerFunc(a.handleAction)))
	a.mux.HandleFunc("/v1/graphql", a.handleGraphQL)

	// health/ready/info
	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.HandleFunc("/v1/info", a.Info)
	a.mux.Handle("/metrics", obs.Handler())
}

// Handler returns the fully wrapped handler.
func (a *API) Handler() http.Handler {
	var h http.Handler = a.mux
	h = a.withSession(h)
	h = MaxBodyBytes(h, a.maxBodyBytes)
	h = a.limiter.Middleware(h)
	h = SecurityHeaders(h)
	h = LoggingJSON(h)
	h = RequestID(h)
	return obs.Instrument(h)
}

// Close stops background goroutines owned by the API.
func (a *API) Close() {
	if a.limiter != nil {
		a.limiter.Stop()
	}
	if a.ownsSessions && a.sessions != nil {
		a.sessions.Stop()
	}
}

// Sessions exposes the store backing the API.
func (a *API) Sessions() *session.Store { return a.sessions }

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": serviceName,
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		obs.SetReady(false)
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	obs.SetReady(true)
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

func (a *API) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    serviceName,
		"time":    time.Now().UTC().Format(time.RFC3339),
		"version": a.version,
	})
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	payload := map[string]any{
		"error": msg,
	}
	if rid := RequestIDFromContext(r.Context()); rid != "" {
		payload["request_id"] = rid
	}
	writeJSON(w, code, payload)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
}

func handleSessionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, session.ErrInvalidRole):
		writeError(w, r, http.StatusBadRequest, "invalid role")
	case errors.Is(err, dashboard.ErrUnknownAction):
		writeError(w, r, http.StatusNotFound, "unknown action")
	case errors.Is(err, dashboard.ErrNoView), errors.Is(err, session.ErrNotFound):
		writeError(w, r, http.StatusUnauthorized, "no active session")
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
