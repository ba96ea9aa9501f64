package router

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/sebkasanzew/comoi/internal/access"
	"github.com/sebkasanzew/comoi/internal/apperr"
	"github.com/sebkasanzew/comoi/internal/catalog"
	"github.com/sebkasanzew/comoi/internal/oidc"
	"github.com/sebkasanzew/comoi/internal/order"
	"github.com/sebkasanzew/comoi/internal/rpc"
	"github.com/sebkasanzew/comoi/internal/user"
	"github.com/sebkasanzew/comoi/pkg/metrics"
	"github.com/sebkasanzew/comoi/pkg/utilities"
)

const (
	apiPrefix       = "/comoi-api"
	requestIDHeader = "X-Request-ID"
)

// TokenVerifier turns a bearer token into the identity subject.
type TokenVerifier interface {
	Verify(raw string) (string, error)
}

type Deps struct {
	Logger   *zap.SugaredLogger
	Verifier TokenVerifier // nil: every request is anonymous
	Metrics  *metrics.ServerMetrics
	Gatherer prometheus.Gatherer
	Orders   *order.Handler
	Catalog  *catalog.Handler
	Users    *user.Handler
	DevOIDC  *oidc.Handler // mounted only when set
	Ping     func(context.Context) error
}

// loggingResponseWriter wraps http.ResponseWriter to capture status and size.
type loggingResponseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.status = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	if lrw.status == 0 {
		lrw.status = http.StatusOK
	}
	n, err := lrw.ResponseWriter.Write(b)
	lrw.size += n
	return n, err
}

func (lrw *loggingResponseWriter) statusCode() int {
	if lrw.status == 0 {
		return http.StatusOK
	}
	return lrw.status
}

type requestIDKey struct{}

// RequestIDMiddleware keeps an incoming X-Request-ID or assigns a ksuid.
func RequestIDMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(requestIDHeader)
			if id == "" || len(id) > 64 {
				id = utilities.NewKSUID()
			}
			w.Header().Set(requestIDHeader, id)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
		})
	}
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// LoggingMiddleware logs requests at debug level using the provided sugared logger.
func LoggingMiddleware(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lrw := &loggingResponseWriter{ResponseWriter: w}
			next.ServeHTTP(lrw, r)
			logger.Debugw("http request",
				"request_id", RequestID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"remote", r.RemoteAddr,
				"status", lrw.statusCode(),
				"duration_ms", float64(time.Since(start).Microseconds())/1000.0,
				"size", lrw.size,
			)
		})
	}
}

// SecurityHeadersMiddleware sets common HTTP security headers. The API only
// serves JSON, so the CSP denies everything.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "no-referrer")
			w.Header().Set("Cache-Control", "no-store")
			if w.Header().Get("Content-Security-Policy") == "" {
				w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
			}
			// only over TLS; 30 days
			if r.TLS != nil {
				w.Header().Set("Strict-Transport-Security", "max-age=2592000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AuthMiddleware puts the verified token subject into the request context.
// Requests without a bearer token pass through anonymous; a token that fails
// verification is refused outright.
func AuthMiddleware(v TokenVerifier, logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := oidc.BearerToken(r.Header.Get("Authorization"))
			if !ok || v == nil {
				next.ServeHTTP(w, r)
				return
			}
			sub, err := v.Verify(raw)
			if err != nil {
				logger.Debugw("bearer rejected", "request_id", RequestID(r.Context()), "err", err)
				rpc.WriteError(w, logger, errors.Join(apperr.ErrUnauthenticated, err))
				return
			}
			next.ServeHTTP(w, r.WithContext(access.ContextWithSubject(r.Context(), sub)))
		})
	}
}

// instrument records request count and latency for one rpc operation.
func instrument(m *metrics.ServerMetrics, op string, h http.Handler) http.Handler {
	if m == nil {
		return h
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{ResponseWriter: w}
		h.ServeHTTP(lrw, r)
		m.Requests.WithLabelValues(op, strconv.Itoa(lrw.statusCode())).Inc()
		m.LatencyMS.WithLabelValues(op).Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	})
}

// RegisterRoutes mounts every operation on a standard library http.ServeMux.
func RegisterRoutes(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	mux := http.NewServeMux()

	mux.HandleFunc("GET "+apiPrefix+"/health", func(w http.ResponseWriter, r *http.Request) {
		if d.Ping != nil {
			if err := d.Ping(r.Context()); err != nil {
				logger.Warnw("health check failed", "err", err)
				http.Error(w, "store unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if d.Gatherer != nil {
		mux.Handle("GET /metrics", metrics.Handler(d.Gatherer))
	}

	var routes []rpc.Route
	if d.Orders != nil {
		routes = append(routes, d.Orders.Routes()...)
	}
	if d.Catalog != nil {
		routes = append(routes, d.Catalog.Routes()...)
	}
	if d.Users != nil {
		routes = append(routes, d.Users.Routes()...)
	}
	for _, rt := range routes {
		mux.Handle("POST "+apiPrefix+"/rpc/"+rt.Operation, instrument(d.Metrics, rt.Operation, rt.Handler))
	}
	mux.HandleFunc("POST "+apiPrefix+"/rpc/{op}", func(w http.ResponseWriter, r *http.Request) {
		rpc.WriteError(w, logger, errors.Join(apperr.ErrNotFound, errors.New("unknown operation "+r.PathValue("op"))))
	})

	if d.DevOIDC != nil {
		mux.HandleFunc("GET "+apiPrefix+"/oidc/.well-known/openid-configuration", d.DevOIDC.Discovery)
		mux.HandleFunc("GET "+apiPrefix+"/oidc/jwks.json", d.DevOIDC.JWKS)
		mux.HandleFunc("POST "+apiPrefix+"/oidc/token", d.DevOIDC.Token)
	}

	var h http.Handler = mux
	h = AuthMiddleware(d.Verifier, logger)(h)
	h = SecurityHeadersMiddleware()(h)
	h = LoggingMiddleware(logger)(h)
	h = RequestIDMiddleware()(h)
	return h
}
