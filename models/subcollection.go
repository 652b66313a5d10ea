package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Evidence types
const (
	EvidenceTypeFile = "file"
	EvidenceTypeURL  = "url"
	EvidenceTypeText = "text"
)

// TimelineEvent is an append-only entry on a case timeline
type TimelineEvent struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CaseID      string             `json:"caseId" bson:"caseId"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description" bson:"description"`
	EventType   string             `json:"eventType" bson:"eventType"`
	EventDate   primitive.DateTime `json:"eventDate" bson:"eventDate"`
	IsPublic    bool               `json:"isPublic" bson:"isPublic"`
	AddedBy     string             `json:"addedBy" bson:"addedBy"`
	Attachments []string           `json:"attachments" bson:"attachments"`
	CreatedAt   primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt   primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}

// NewTimelineEvent is the payload for adding a timeline event
type NewTimelineEvent struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	EventType   string    `json:"eventType" validate:"required,oneof=incident investigation communication resolution milestone system evidence"`
	EventDate   time.Time `json:"eventDate"`
	IsPublic    bool      `json:"isPublic"`
	Attachments []string  `json:"attachments" validate:"dive,url"`
}

// Note is an append-only investigator note on a case
type Note struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CaseID      string             `json:"caseId" bson:"caseId"`
	Content     string             `json:"content" bson:"content"`
	NoteType    string             `json:"noteType" bson:"noteType"`
	IsPrivate   bool               `json:"isPrivate" bson:"isPrivate"`
	AddedBy     string             `json:"addedBy" bson:"addedBy"`
	Attachments []string           `json:"attachments" bson:"attachments"`
	CreatedAt   primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt   primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}

// NewNote is the payload for adding a note
type NewNote struct {
	Content     string   `json:"content" validate:"required"`
	NoteType    string   `json:"noteType" validate:"required,oneof=investigation communication internal public"`
	IsPrivate   bool     `json:"isPrivate"`
	Attachments []string `json:"attachments" validate:"dive,url"`
}

// Evidence is a piece of evidence attached to a case. Exactly one payload is
// populated depending on EvidenceType.
type Evidence struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CaseID       string             `json:"caseId" bson:"caseId"`
	Title        string             `json:"title" bson:"title"`
	Description  string             `json:"description" bson:"description"`
	EvidenceType string             `json:"evidenceType" bson:"evidenceType"`
	FileURL      string             `json:"fileUrl,omitempty" bson:"fileUrl,omitempty"`
	FileName     string             `json:"fileName,omitempty" bson:"fileName,omitempty"`
	FileType     string             `json:"fileType,omitempty" bson:"fileType,omitempty"`
	StorageKey   string             `json:"-" bson:"storageKey,omitempty"`
	URL          string             `json:"url,omitempty" bson:"url,omitempty"`
	TextContent  string             `json:"textContent,omitempty" bson:"textContent,omitempty"`
	EvidenceDate primitive.DateTime `json:"evidenceDate" bson:"evidenceDate"`
	AddedBy      string             `json:"addedBy" bson:"addedBy"`
	CreatedAt    primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt    primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}

// NewEvidence is the metadata half of an evidence submission. File bytes
// travel separately as an EvidenceFile.
type NewEvidence struct {
	Title        string    `json:"title" validate:"required"`
	Description  string    `json:"description"`
	EvidenceType string    `json:"evidenceType" validate:"required,oneof=file url text"`
	URL          string    `json:"url" validate:"required_if=EvidenceType url"`
	TextContent  string    `json:"textContent" validate:"required_if=EvidenceType text"`
	EvidenceDate time.Time `json:"evidenceDate"`
}

// AgentMessage is one turn of the per-case assistant chat
type AgentMessage struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CaseID    string             `json:"caseId" bson:"caseId"`
	Role      string             `json:"role" bson:"role"`
	Content   string             `json:"content" bson:"content"`
	UserID    string             `json:"userId" bson:"userId"`
	CreatedAt primitive.DateTime `json:"createdAt" bson:"createdAt"`
}

// NewAgentMessage is the payload for appending to a case chat
type NewAgentMessage struct {
	Role    string `json:"role" validate:"required,oneof=user agent"`
	Content string `json:"content" validate:"required"`
}
