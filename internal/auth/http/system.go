package http

import (
	"context"
	"net/http"
	"time"

	"github.com/aussiebroadwan/doorman/internal/auth/store"
	"github.com/aussiebroadwan/doorman/pkg/httpx"
)

// LivezHandler reports process liveness.
func LivezHandler(startTime time.Time, version string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
			"uptime":  time.Since(startTime).Truncate(time.Second).String(),
		})
	})
}

// ReadyzHandler reports readiness: the process is only ready when the
// database answers a ping.
func ReadyzHandler(st store.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := st.Ping(ctx); err != nil {
			httpx.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
				"reason": "database unreachable",
			})
			return
		}

		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})
}
