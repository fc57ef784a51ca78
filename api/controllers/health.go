package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gainschef/backend/api/responses"
	"github.com/gainschef/backend/pkg/config"
	"github.com/gainschef/backend/pkg/db"
	pkgerrors "github.com/gainschef/backend/pkg/errors"
	"github.com/gainschef/backend/pkg/logger"
	"github.com/gainschef/backend/pkg/redis"
)

const readyCheckTimeout = 2 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-GainsChef-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the datastores the checkout path depends on. A nil
// pinger is skipped so partially wired deployments stay reachable.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-GainsChef-Env", cfg.App.Env)

		if err := pingDependency(r.Context(), dbP); err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable"))
			return
		}
		if err := pingDependency(r.Context(), redisP); err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}

func pingDependency(ctx context.Context, p interface{ Ping(context.Context) error }) error {
	if p == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, readyCheckTimeout)
	defer cancel()
	return p.Ping(ctx)
}
