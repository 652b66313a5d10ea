package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Case statuses
const (
	CaseStatusUnverified = "unverified"
	CaseStatusActive     = "active"
	CaseStatusClosed     = "closed"
	CaseStatusArchived   = "archived"
)

// Case priorities
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Case holds the structure for the cases collection in mongo
type Case struct {
	ID             primitive.ObjectID     `json:"id" bson:"_id,omitempty"`
	CaseNumber     string                 `json:"caseNumber" bson:"caseNumber"`
	Title          string                 `json:"title" bson:"title"`
	Description    string                 `json:"description" bson:"description"`
	Status         string                 `json:"status" bson:"status"`
	Priority       string                 `json:"priority" bson:"priority"`
	CaseType       string                 `json:"caseType" bson:"caseType"`
	Source         string                 `json:"source,omitempty" bson:"source,omitempty"`
	AmountInvolved float64                `json:"amountInvolved" bson:"amountInvolved"`
	Currency       string                 `json:"currency" bson:"currency"`
	Victim         Victim                 `json:"victim" bson:"victim"`
	Tags           []string               `json:"tags" bson:"tags"`
	Metadata       map[string]interface{} `json:"metadata,omitempty" bson:"metadata,omitempty"`
	CreatedBy      string                 `json:"createdBy" bson:"createdBy"`
	AssignedTo     *string                `json:"assignedTo" bson:"assignedTo"`
	Recovery       *Recovery              `json:"recovery,omitempty" bson:"recovery,omitempty"`
	DateOpened     primitive.DateTime     `json:"dateOpened" bson:"dateOpened"`
	DateClosed     *primitive.DateTime    `json:"dateClosed,omitempty" bson:"dateClosed,omitempty"`
	CreatedAt      primitive.DateTime     `json:"createdAt" bson:"createdAt"`
	UpdatedAt      primitive.DateTime     `json:"updatedAt" bson:"updatedAt"`
}

// Victim is the person reporting or affected by the case
type Victim struct {
	Name    string `json:"name" bson:"name" validate:"required"`
	Email   string `json:"email" bson:"email" validate:"omitempty,email"`
	Phone   string `json:"phone,omitempty" bson:"phone,omitempty"`
	Address string `json:"address,omitempty" bson:"address,omitempty"`
}

// Recovery records how much of the amount involved was recovered when the case was closed
type Recovery struct {
	FullyRecovered  bool     `json:"fullyRecovered" bson:"fullyRecovered"`
	AmountRecovered *float64 `json:"amountRecovered,omitempty" bson:"amountRecovered,omitempty"`
}

// NewCaseData is the payload accepted when a case is opened
type NewCaseData struct {
	Title          string                 `json:"title" validate:"required"`
	Description    string                 `json:"description"`
	Priority       string                 `json:"priority" validate:"omitempty,oneof=low medium high"`
	CaseType       string                 `json:"caseType"`
	Source         string                 `json:"source" validate:"omitempty,oneof=dashboard bot website"`
	Victim         Victim                 `json:"victim"`
	AmountInvolved float64                `json:"amountInvolved" validate:"gte=0"`
	Currency       string                 `json:"currency" validate:"omitempty,len=3"`
	Tags           []string               `json:"tags"`
	Metadata       map[string]interface{} `json:"metadata"`
}

// CaseUpdateData is a partial edit of a case. Nil fields are left unchanged.
type CaseUpdateData struct {
	Title          *string                 `json:"title"`
	Description    *string                 `json:"description"`
	Priority       *string                 `json:"priority"`
	CaseType       *string                 `json:"caseType"`
	Source         *string                 `json:"source"`
	AmountInvolved *float64                `json:"amountInvolved"`
	Currency       *string                 `json:"currency"`
	Victim         *Victim                 `json:"victim"`
	Tags           *[]string               `json:"tags"`
	Metadata       *map[string]interface{} `json:"metadata"`
}

// CreateCaseResponse is returned after a case is opened
type CreateCaseResponse struct {
	CaseID     string `json:"caseId"`
	CaseNumber string `json:"caseNumber"`
}

// AssignCaseRequest moves a case into the active state under an assignee
type AssignCaseRequest struct {
	AssigneeID string `json:"assigneeId"`
}

// CloseCaseRequest carries the optional recovery details captured when closing
type CloseCaseRequest struct {
	FullyRecovered  *bool    `json:"fullyRecovered"`
	AmountRecovered *float64 `json:"amountRecovered"`
}
