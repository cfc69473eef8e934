package httpapi

import (
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	membergate "github.com/batdigest/membergate"
)

// sessionCookie is the cookie carrying the opaque session token.
const sessionCookie = "session_id"

// Options tunes the HTTP surface. Zero values get sensible defaults in
// NewServer.
type Options struct {
	Logger *zap.Logger
	// SessionTTL sets the cookie Max-Age. Must match the engine's
	// session TTL or the cookie will outlive (or undercut) the session.
	SessionTTL time.Duration
	// SecureCookies disables the Secure cookie attribute when false,
	// for plain-HTTP development setups.
	SecureCookies bool
	// MetricsHandler, when set, is mounted at GET /metrics.
	MetricsHandler http.Handler
}

// Server is the HTTP front for one engine.
type Server struct {
	engine  *membergate.Engine
	logger  *zap.Logger
	opts    Options
	handler http.Handler
}

// NewServer wires the route table and logging middleware.
func NewServer(engine *membergate.Engine, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 7 * 24 * time.Hour
	}

	s := &Server{
		engine: engine,
		logger: opts.Logger,
		opts:   opts,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("GET /api/check-permission", s.handleCheckPermission)
	mux.HandleFunc("GET /api/data/{dataType}", s.handleData)
	mux.HandleFunc("POST /api/logout", s.handleLogout)
	mux.HandleFunc("GET /api/me", s.handleMe)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	if opts.MetricsHandler != nil {
		mux.Handle("GET /metrics", opts.MetricsHandler)
	}

	s.handler = s.withRequestLog(s.withClientIP(mux))
	return s
}

// Handler returns the fully wired root handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// withClientIP threads the caller's IP into the request context for the
// engine's per-IP throttling and audit trail.
func (s *Server) withClientIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ip := clientIP(r); ip != "" {
			r = r.WithContext(membergate.WithClientIP(r.Context(), ip))
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	// First hop of X-Forwarded-For when the site runs behind a proxy.
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// sessionToken pulls the session cookie. The empty string means the
// request is unauthenticated, which handlers report as 401
// "Not authenticated" before touching the engine.
func sessionToken(r *http.Request) string {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return ""
	}
	return c.Value
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.opts.SessionTTL / time.Second),
		HttpOnly: true,
		Secure:   s.opts.SecureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.opts.SecureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}
