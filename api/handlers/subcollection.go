package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/cybermitra/guardian-api/api"
	"github.com/cybermitra/guardian-api/config"
	"github.com/cybermitra/guardian-api/models"
	"github.com/cybermitra/guardian-api/services"
)

// MaxEvidenceUpload bounds a multipart evidence request
const MaxEvidenceUpload = 25 << 20

// Subcollection exported for testing purposes
type Subcollection struct {
	Service *services.Subcollections
}

func created(w http.ResponseWriter, id string) {
	writeJSON(w, http.StatusCreated, models.IDResponse{ID: id})
}

// TimelineHandler lists a case timeline, newest first
func (s Subcollection) TimelineHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	events, err := s.Service.ListTimeline(ctx, mux.Vars(r)["caseId"])
	if err != nil {
		serviceError(w, "failed to get timeline", err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// AddTimelineEventHandler appends a timeline event
func (s Subcollection) AddTimelineEventHandler(w http.ResponseWriter, r *http.Request) {
	var data models.NewTimelineEvent
	if !decode(w, r, &data, false) {
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	id, err := s.Service.AddTimelineEvent(ctx, mux.Vars(r)["caseId"], data, api.UserID(r))
	if err != nil {
		serviceError(w, "failed to add timeline event", err)
		return
	}
	created(w, id)
}

// NotesHandler lists case notes, newest first
func (s Subcollection) NotesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	notes, err := s.Service.ListNotes(ctx, mux.Vars(r)["caseId"])
	if err != nil {
		serviceError(w, "failed to get notes", err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

// AddNoteHandler appends a note
func (s Subcollection) AddNoteHandler(w http.ResponseWriter, r *http.Request) {
	var data models.NewNote
	if !decode(w, r, &data, false) {
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	id, err := s.Service.AddNote(ctx, mux.Vars(r)["caseId"], data, api.UserID(r))
	if err != nil {
		serviceError(w, "failed to add note", err)
		return
	}
	created(w, id)
}

// EvidenceHandler lists case evidence, newest first
func (s Subcollection) EvidenceHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	evidence, err := s.Service.ListEvidence(ctx, mux.Vars(r)["caseId"])
	if err != nil {
		serviceError(w, "failed to get evidence", err)
		return
	}
	writeJSON(w, http.StatusOK, evidence)
}

// evidenceForm reads evidence metadata and the optional "file" part of a
// multipart request. The returned close func releases the uploaded file.
func evidenceForm(w http.ResponseWriter, r *http.Request) (models.NewEvidence, *services.EvidenceFile, func(), error) {
	noop := func() {}
	r.Body = http.MaxBytesReader(w, r.Body, MaxEvidenceUpload)
	if err := r.ParseMultipartForm(MaxEvidenceUpload); err != nil {
		return models.NewEvidence{}, nil, noop, err
	}
	data := models.NewEvidence{
		Title:        r.FormValue("title"),
		Description:  r.FormValue("description"),
		EvidenceType: r.FormValue("evidenceType"),
		URL:          r.FormValue("url"),
		TextContent:  r.FormValue("textContent"),
	}
	if d := r.FormValue("evidenceDate"); d != "" {
		t, err := time.Parse(time.RFC3339, d)
		if err != nil {
			return data, nil, noop, fmt.Errorf("invalid evidenceDate: %w", err)
		}
		data.EvidenceDate = t
	}

	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return data, nil, noop, nil
	}
	if err != nil {
		return data, nil, noop, err
	}
	ef := &services.EvidenceFile{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Reader:      file,
	}
	return data, ef, func() { _ = file.Close() }, nil
}

// AddEvidenceHandler attaches evidence. File evidence is sent as
// multipart/form-data, url and text evidence may also be sent as JSON.
func (s Subcollection) AddEvidenceHandler(w http.ResponseWriter, r *http.Request) {
	var (
		data models.NewEvidence
		file *services.EvidenceFile
	)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		var (
			release func()
			err     error
		)
		data, file, release, err = evidenceForm(w, r)
		defer release()
		if err != nil {
			config.ErrorStatus("failed to read evidence upload", http.StatusBadRequest, w, err)
			return
		}
	} else if !decode(w, r, &data, false) {
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	id, err := s.Service.AddEvidence(ctx, mux.Vars(r)["caseId"], data, file, api.UserID(r))
	if err != nil {
		serviceError(w, "failed to add evidence", err)
		return
	}
	created(w, id)
}

// DeleteEvidenceHandler removes an evidence record and its stored file
func (s Subcollection) DeleteEvidenceHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	vars := mux.Vars(r)
	if err := s.Service.DeleteEvidence(ctx, vars["caseId"], vars["evidenceId"], api.UserID(r)); err != nil {
		serviceError(w, "failed to delete evidence", err)
		return
	}
	writeJSON(w, http.StatusOK, models.SuccessResponse{Success: true})
}

// AgentChatHandler returns the case assistant chat, oldest first
func (s Subcollection) AgentChatHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	msgs, err := s.Service.ListAgentMessages(ctx, mux.Vars(r)["caseId"])
	if err != nil {
		serviceError(w, "failed to get agent chat", err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

// AddAgentMessageHandler appends a chat turn
func (s Subcollection) AddAgentMessageHandler(w http.ResponseWriter, r *http.Request) {
	var data models.NewAgentMessage
	if !decode(w, r, &data, false) {
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	id, err := s.Service.AddAgentMessage(ctx, mux.Vars(r)["caseId"], data, api.UserID(r))
	if err != nil {
		serviceError(w, "failed to add agent message", err)
		return
	}
	created(w, id)
}
