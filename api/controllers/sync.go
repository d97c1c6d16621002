package controllers

import (
	"net/http"

	"github.com/tacoloja/storefront-backend/api/responses"
	"github.com/tacoloja/storefront-backend/api/validators"
	syncengine "github.com/tacoloja/storefront-backend/internal/sync"
	pkgerrors "github.com/tacoloja/storefront-backend/pkg/errors"
	"github.com/tacoloja/storefront-backend/pkg/logger"
)

type syncResponse struct {
	Mode     string `json:"mode"`
	Skipped  bool   `json:"skipped"`
	Pushed   int    `json:"pushed"`
	Products int    `json:"products"`
}

// TriggerSync runs a reconciliation pass. With ?force=true the staleness
// window is ignored.
func TriggerSync(engine *syncengine.Engine, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if engine == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sync engine unavailable"))
			return
		}

		force := validators.BoolQuery(r, "force", false)
		result, err := engine.Reconcile(r.Context(), force)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, syncResponse{
			Mode:     result.Mode,
			Skipped:  result.Skipped,
			Pushed:   result.Pushed,
			Products: result.Products,
		})
	}
}
