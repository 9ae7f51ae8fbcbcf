package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dkempe/inventory-backend/api/responses"
	"github.com/dkempe/inventory-backend/pkg/config"
	pkgerrors "github.com/dkempe/inventory-backend/pkg/errors"
	"github.com/dkempe/inventory-backend/pkg/logger"
)

const readinessTimeout = 5 * time.Second

// Pinger is the health-check surface a dependency must expose.
type Pinger interface {
	Ping(context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Inventory-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings each wired dependency; a nil pinger is skipped so the
// api and worker can share this handler with different dependency sets.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Inventory-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{}
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				checks[name] = "down"
				responses.WriteError(ctx, logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("%s not ready", name)).
						WithDetails(checks))
				return
			}
			checks[name] = "up"
		}
		checks["status"] = "ready"
		responses.WriteSuccess(w, checks)
	}
}
