package http

import (
	"net/http"

	"github.com/commonsapp/commons/internal/commons/store"
	"github.com/commonsapp/commons/pkg/commonsdk"
	"github.com/commonsapp/commons/pkg/httpx"
)

// LivezHandler godoc
//
//	@Summary		Liveness probe
//	@Description	Always returns 200 while the process is running.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	commonsdk.HealthResponse
//	@Router			/livez [get].
func LivezHandler(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, commonsdk.HealthResponse{
			Status:  "ok",
			Version: version,
		})
	}
}

// ReadyzHandler godoc
//
//	@Summary		Readiness probe
//	@Description	Returns 200 when the store is reachable, 503 otherwise.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	commonsdk.HealthResponse
//	@Failure		503	{object}	commonsdk.HealthResponse	"store unreachable"
//	@Router			/readyz [get].
func ReadyzHandler(version string, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, code := "ok", http.StatusOK
		if err := st.Ping(r.Context()); err != nil {
			status, code = "degraded", http.StatusServiceUnavailable
		}
		httpx.WriteJSON(w, code, commonsdk.HealthResponse{
			Status:  status,
			Version: version,
		})
	}
}
