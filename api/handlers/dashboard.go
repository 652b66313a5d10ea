package handlers

import (
	"net/http"

	"github.com/cybermitra/guardian-api/api"
	"github.com/cybermitra/guardian-api/services"
)

// Dashboard exported for testing purposes
type Dashboard struct {
	Dashboard *services.Dashboard
}

// DashboardHandler returns the landing page rollup. It always answers 200;
// sources that fail are zeroed.
func (d Dashboard) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	writeJSON(w, http.StatusOK, d.Dashboard.GetDashboardData(ctx))
}
