package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/cybermitra/guardian-api/api"
	"github.com/cybermitra/guardian-api/models"
	"github.com/cybermitra/guardian-api/services"
)

// Contact exported for testing purposes
type Contact struct {
	Contacts *services.Contacts
}

// ContactsHandler lists the grievance officer directory
func (c Contact) ContactsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	contacts, err := c.Contacts.ListContacts(ctx)
	if err != nil {
		serviceError(w, "failed to get contacts", err)
		return
	}
	writeJSON(w, http.StatusOK, contacts)
}

// CreateContactHandler adds a directory entry
func (c Contact) CreateContactHandler(w http.ResponseWriter, r *http.Request) {
	var data models.Contact
	if !decode(w, r, &data, false) {
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	id, err := c.Contacts.AddContact(ctx, data)
	if err != nil {
		serviceError(w, "failed to create contact", err)
		return
	}
	created(w, id)
}

// DeleteContactHandler removes a directory entry
func (c Contact) DeleteContactHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := c.Contacts.DeleteContact(ctx, mux.Vars(r)["contactId"]); err != nil {
		serviceError(w, "failed to delete contact", err)
		return
	}
	writeJSON(w, http.StatusOK, models.SuccessResponse{Success: true})
}
