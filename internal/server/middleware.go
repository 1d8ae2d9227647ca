package server

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/julianstephens/timetable/internal/logger"
)

type ctxKey int

const uidKey ctxKey = iota

func uidFrom(ctx context.Context) string {
	uid, _ := ctx.Value(uidKey).(string)
	return uid
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// observe logs each request and records it in the HTTP metrics, labelled
// by route template so ids do not explode label cardinality.
func observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		path := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tmpl, err := route.GetPathTemplate(); err == nil {
				path = tmpl
			}
		}
		status := strconv.Itoa(rec.status)
		elapsed := time.Since(start)
		httpRequestDuration.WithLabelValues(r.Method, path, status).Observe(elapsed.Seconds())
		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		logger.Info("request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "duration", elapsed)
	})
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// requireAuth rejects requests without a valid session token and stores
// the caller's uid in the request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing bearer token")
			return
		}
		claims, err := s.tokens.Parse(token)
		if err != nil {
			logger.Debug("Rejected token", "path", r.URL.Path, "error", err)
			writeError(w, http.StatusUnauthorized, codeUnauthorized, "invalid or expired token")
			return
		}
		ctx := context.WithValue(r.Context(), uidKey, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
