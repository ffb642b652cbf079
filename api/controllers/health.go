package controllers

import (
	"net/http"

	"github.com/cillii/catalog-backend/api/responses"
	"github.com/cillii/catalog-backend/pkg/config"
	"github.com/cillii/catalog-backend/pkg/db"
	pkgerrors "github.com/cillii/catalog-backend/pkg/errors"
	"github.com/cillii/catalog-backend/pkg/logger"
	"github.com/cillii/catalog-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Catalog-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady checks the database and, when configured, the redis mirror.
// The mirror being down degrades the reported detail but not readiness
// itself; carts keep working without it.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Catalog-Env", cfg.App.Env)

		if dbP == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "database not wired"))
			return
		}
		if err := dbP.Ping(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable"))
			return
		}

		mirror := "disabled"
		if redisP != nil {
			mirror = "ok"
			if err := redisP.Ping(r.Context()); err != nil {
				mirror = "degraded"
				logg.Warn(r.Context(), "cart mirror unreachable")
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready", "mirror": mirror})
	}
}
