package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
)

// Readiness reports 200 once the store answers a ping. A nil pinger, as with
// the in-memory store, is always ready.
func Readiness(pinger database.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if pinger != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := pinger.Ping(ctx); err != nil {
				slog.Warn("Readiness check failed", "error", err)
				response.ServiceUnavailable(w, "database unavailable")
				return
			}
		}
		response.Success(w, map[string]string{"status": "ready"})
	}
}
