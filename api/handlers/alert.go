package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/cybermitra/guardian-api/api"
	"github.com/cybermitra/guardian-api/config"
	"github.com/cybermitra/guardian-api/models"
	"github.com/cybermitra/guardian-api/services"
)

// Alert exported for testing purposes
type Alert struct {
	Alerts *services.Alerts
}

// AlertsHandler lists alerts filtered by ?status= and ?severity=, or the
// newest ?limit= alerts
func (a Alert) AlertsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	q := r.URL.Query()
	var (
		alerts []models.Alert
		err    error
	)
	if l := q.Get("limit"); l != "" {
		n, convErr := strconv.ParseInt(l, 10, 64)
		if convErr != nil || n <= 0 {
			config.ErrorStatus("invalid limit", http.StatusBadRequest, w, convErr)
			return
		}
		alerts, err = a.Alerts.RecentAlerts(ctx, n)
	} else {
		alerts, err = a.Alerts.ListAlerts(ctx, q.Get("status"), q.Get("severity"))
	}
	if err != nil {
		serviceError(w, "failed to get alerts", err)
		return
	}
	writeJSON(w, http.StatusOK, alerts)
}

// CreateAlertHandler raises a new alert
func (a Alert) CreateAlertHandler(w http.ResponseWriter, r *http.Request) {
	var data models.NewAlertData
	if !decode(w, r, &data, false) {
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	id, err := a.Alerts.CreateAlert(ctx, data, api.UserID(r))
	if err != nil {
		serviceError(w, "failed to create alert", err)
		return
	}
	created(w, id)
}

// AlertStatsHandler returns alert counts by status and severity
func (a Alert) AlertStatsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	stats, err := a.Alerts.AlertStats(ctx)
	if err != nil {
		serviceError(w, "failed to get alert stats", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// AlertByIDHandler returns a single alert
func (a Alert) AlertByIDHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	alert, err := a.Alerts.GetAlert(ctx, mux.Vars(r)["alertId"])
	if err != nil {
		serviceError(w, "failed to get alert by ID", err)
		return
	}
	writeJSON(w, http.StatusOK, alert)
}

// UpdateAlertHandler changes an alert's status or assignment
func (a Alert) UpdateAlertHandler(w http.ResponseWriter, r *http.Request) {
	var data models.AlertUpdateData
	if !decode(w, r, &data, false) {
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := a.Alerts.UpdateAlert(ctx, api.UserID(r), mux.Vars(r)["alertId"], data); err != nil {
		serviceError(w, "failed to update alert", err)
		return
	}
	writeJSON(w, http.StatusOK, models.SuccessResponse{Success: true})
}

// DeleteAlertHandler removes an alert
func (a Alert) DeleteAlertHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := a.Alerts.DeleteAlert(ctx, mux.Vars(r)["alertId"]); err != nil {
		serviceError(w, "failed to delete alert", err)
		return
	}
	writeJSON(w, http.StatusOK, models.SuccessResponse{Success: true})
}
