package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Alert statuses
const (
	AlertStatusNew           = "new"
	AlertStatusInvestigating = "investigating"
	AlertStatusResolved      = "resolved"
	AlertStatusDismissed     = "dismissed"
)

// Alert holds the structure for the alerts collection in mongo
type Alert struct {
	ID              primitive.ObjectID     `json:"id" bson:"_id,omitempty"`
	Title           string                 `json:"title" bson:"title"`
	Description     string                 `json:"description" bson:"description"`
	AlertType       string                 `json:"alertType" bson:"alertType"`
	Severity        string                 `json:"severity" bson:"severity"`
	Status          string                 `json:"status" bson:"status"`
	Source          string                 `json:"source,omitempty" bson:"source,omitempty"`
	AffectedSystems []string               `json:"affectedSystems,omitempty" bson:"affectedSystems,omitempty"`
	RelatedCaseID   string                 `json:"relatedCaseId,omitempty" bson:"relatedCaseId,omitempty"`
	AssignedTo      string                 `json:"assignedTo,omitempty" bson:"assignedTo,omitempty"`
	CreatedBy       string                 `json:"createdBy" bson:"createdBy"`
	DetectedAt      primitive.DateTime     `json:"detectedAt" bson:"detectedAt"`
	ResolvedAt      *primitive.DateTime    `json:"resolvedAt,omitempty" bson:"resolvedAt,omitempty"`
	Metadata        map[string]interface{} `json:"metadata,omitempty" bson:"metadata,omitempty"`
	CreatedAt       primitive.DateTime     `json:"createdAt" bson:"createdAt"`
	UpdatedAt       primitive.DateTime     `json:"updatedAt" bson:"updatedAt"`
}

// NewAlertData is the payload for raising an alert
type NewAlertData struct {
	Title           string                 `json:"title" validate:"required"`
	Description     string                 `json:"description"`
	AlertType       string                 `json:"alertType" validate:"required,oneof=phishing malware data-breach suspicious-activity fraud other"`
	Severity        string                 `json:"severity" validate:"required,oneof=low medium high critical"`
	Source          string                 `json:"source"`
	AffectedSystems []string               `json:"affectedSystems"`
	Metadata        map[string]interface{} `json:"metadata"`
}

// AlertUpdateData is a partial alert update
type AlertUpdateData struct {
	Title         *string                `json:"title,omitempty"`
	Description   *string                `json:"description,omitempty"`
	Status        *string                `json:"status,omitempty" validate:"omitempty,oneof=new investigating resolved dismissed"`
	Severity      *string                `json:"severity,omitempty" validate:"omitempty,oneof=low medium high critical"`
	AssignedTo    *string                `json:"assignedTo,omitempty"`
	RelatedCaseID *string                `json:"relatedCaseId,omitempty"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
}

// AlertStats are the alert counters shown on the dashboard
type AlertStats struct {
	Total         int64 `json:"total"`
	New           int64 `json:"new"`
	Investigating int64 `json:"investigating"`
	Resolved      int64 `json:"resolved"`
	High          int64 `json:"high"`
	Critical      int64 `json:"critical"`
}
