package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/cybermitra/guardian-api/api"
	"github.com/cybermitra/guardian-api/models"
	"github.com/cybermitra/guardian-api/services"
)

// Case exported for testing purposes
type Case struct {
	Store    *services.CaseStore
	Workflow *services.Workflow
}

// CasesHandler lists every case, or the cases matching ?caseNumber=
func (c Case) CasesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	var (
		cases []models.Case
		err   error
	)
	if q := r.URL.Query().Get("caseNumber"); q != "" {
		cases, err = c.Store.SearchCases(ctx, q)
	} else {
		cases, err = c.Store.GetAllCases(ctx)
	}
	if err != nil {
		serviceError(w, "failed to get cases", err)
		return
	}
	writeJSON(w, http.StatusOK, cases)
}

// CreateCaseHandler opens a new case
func (c Case) CreateCaseHandler(w http.ResponseWriter, r *http.Request) {
	var data models.NewCaseData
	if !decode(w, r, &data, false) {
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	resp, err := c.Store.CreateCase(ctx, data, api.UserID(r))
	if err != nil {
		serviceError(w, "failed to create case", err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// CaseByIDHandler returns a single case
func (c Case) CaseByIDHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	cs, err := c.Store.GetCaseByID(ctx, mux.Vars(r)["caseId"])
	if err != nil {
		serviceError(w, "failed to get case by ID", err)
		return
	}
	writeJSON(w, http.StatusOK, cs)
}

// UpdateCaseHandler patches the editable fields of a case
func (c Case) UpdateCaseHandler(w http.ResponseWriter, r *http.Request) {
	var raw map[string]interface{}
	if !decode(w, r, &raw, false) {
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := c.Store.UpdateCaseDetails(ctx, api.UserID(r), mux.Vars(r)["caseId"], raw); err != nil {
		serviceError(w, "failed to update case", err)
		return
	}
	writeJSON(w, http.StatusOK, models.SuccessResponse{Success: true})
}

// DeleteCaseHandler removes a case record
func (c Case) DeleteCaseHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := c.Store.DeleteCase(ctx, api.UserID(r), mux.Vars(r)["caseId"]); err != nil {
		serviceError(w, "failed to delete case", err)
		return
	}
	writeJSON(w, http.StatusOK, models.SuccessResponse{Success: true})
}

// AssignCaseHandler assigns a case and moves it to active
func (c Case) AssignCaseHandler(w http.ResponseWriter, r *http.Request) {
	var req models.AssignCaseRequest
	if !decode(w, r, &req, false) {
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	cs, err := c.Workflow.Assign(ctx, api.UserID(r), mux.Vars(r)["caseId"], req.AssigneeID)
	if err != nil {
		serviceError(w, "failed to assign case", err)
		return
	}
	writeJSON(w, http.StatusOK, cs)
}

// CloseCaseHandler closes a case with optional recovery details
func (c Case) CloseCaseHandler(w http.ResponseWriter, r *http.Request) {
	var req models.CloseCaseRequest
	if !decode(w, r, &req, true) {
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	cs, err := c.Workflow.Close(ctx, api.UserID(r), mux.Vars(r)["caseId"], req)
	if err != nil {
		serviceError(w, "failed to close case", err)
		return
	}
	writeJSON(w, http.StatusOK, cs)
}

// ArchiveCaseHandler archives a case
func (c Case) ArchiveCaseHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	cs, err := c.Workflow.Archive(ctx, api.UserID(r), mux.Vars(r)["caseId"])
	if err != nil {
		serviceError(w, "failed to archive case", err)
		return
	}
	writeJSON(w, http.StatusOK, cs)
}
