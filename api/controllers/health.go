package controllers

import (
	"context"
	"net/http"

	"github.com/tacoloja/storefront-backend/api/responses"
	"github.com/tacoloja/storefront-backend/pkg/config"
	"github.com/tacoloja/storefront-backend/pkg/logger"
)

const envHeader = "X-Taco-Env"

// Pinger is the health check surface of a wired dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the cache backend and the remote store. The remote
// being down is reported but does not fail readiness; the service keeps
// serving from the local cache.
func HealthReady(cfg *config.Config, logg *logger.Logger, cacheP, remoteP Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		status := map[string]string{"status": "ready", "cache": "ok", "remote": "ok"}

		if cacheP != nil {
			if err := cacheP.Ping(r.Context()); err != nil {
				if logg != nil {
					logg.Error(r.Context(), "cache backend unreachable", err)
				}
				status["status"] = "degraded"
				status["cache"] = "unreachable"
			}
		}
		if remoteP != nil {
			if err := remoteP.Ping(r.Context()); err != nil {
				if logg != nil {
					logg.Warn(r.Context(), "remote store unreachable, serving local catalog")
				}
				status["remote"] = "unreachable"
			}
		}

		responses.WriteSuccess(w, status)
	}
}
