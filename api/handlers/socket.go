package handlers

import (
	"net/http"

	"github.com/cybermitra/guardian-api/api"
	"github.com/cybermitra/guardian-api/events"
)

// Socket streams domain events to dashboard clients
type Socket struct {
	Hub *events.Hub
}

// SocketHandler upgrades the request and registers the client with the hub
func (s Socket) SocketHandler(w http.ResponseWriter, r *http.Request) {
	s.Hub.Serve(w, r, api.UserID(r))
}
