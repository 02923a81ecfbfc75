package app

import (
	"net/http"
	"time"
)

// registerHTTP mounts the operational endpoints alongside the users API.
func (a *App) registerHTTP(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", a.handleHealthz)
	mux.HandleFunc("/readyz", a.handleReadyz)
	mux.Handle("/metrics", a.metrics.Handler())

	a.users.Register(mux)
}

// handleHealthz reports liveness. It never touches dependencies.
func (a *App) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

// handleReadyz reports readiness to take traffic. When a database is
// configured, readiness requires it to be reachable.
func (a *App) handleReadyz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if a.pool == nil {
		if a.cfg.ReadinessRequireDB {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("database required but not configured\n"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
		return
	}

	if err := PingDB(r.Context(), a.pool, 2*time.Second); err != nil {
		a.log.Warn("readyz.db_unreachable", "err", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("database unreachable\n"))
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}
