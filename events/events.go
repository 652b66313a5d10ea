package events

// go generate: mockery --name Publisher

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Case event types
const (
	CaseCreated     = "case.created"
	CaseUpdated     = "case.updated"
	CaseDeleted     = "case.deleted"
	CaseAssigned    = "case.assigned"
	CaseClosed      = "case.closed"
	CaseArchived    = "case.archived"
	TimelineAdded   = "case.timeline.added"
	NoteAdded       = "case.note.added"
	EvidenceAdded   = "case.evidence.added"
	EvidenceDeleted = "case.evidence.deleted"
	AgentMessage    = "case.agent.message"
	AlertCreated    = "alert.created"
	AlertUpdated    = "alert.updated"
)

// Event is a change notification for a case or alert
type Event struct {
	Type    string                 `json:"type"`
	CaseID  string                 `json:"caseId,omitempty"`
	ActorID string                 `json:"actorId,omitempty"`
	Data    map[string]interface{} `json:"data,omitempty"`
	At      time.Time              `json:"at"`
}

// New stamps an event with the current time
func New(eventType, caseID, actorID string, data map[string]interface{}) Event {
	return Event{Type: eventType, CaseID: caseID, ActorID: actorID, Data: data, At: time.Now().UTC()}
}

// Publisher delivers events to interested parties
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Multi fans an event out to every publisher. Failures are logged, never returned.
type Multi []Publisher

// Publish sends e to every publisher in order
func (m Multi) Publish(ctx context.Context, e Event) error {
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, e); err != nil {
			zap.S().Warnw("failed to publish event", "type", e.Type, "caseId", e.CaseID, "error", err)
		}
	}
	return nil
}

// Discard drops every event
type Discard struct{}

// Publish does nothing
func (Discard) Publish(ctx context.Context, e Event) error { return nil }
