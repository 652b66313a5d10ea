package services

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/cybermitra/guardian-api/events"
	"github.com/cybermitra/guardian-api/models"
)

// Workflow transitions
const (
	TransitionAssign  = "assign"
	TransitionClose   = "close"
	TransitionArchive = "archive"
)

// allowed source states per transition
var transitionSources = map[string][]string{
	TransitionAssign:  {models.CaseStatusUnverified, models.CaseStatusActive},
	TransitionClose:   {models.CaseStatusActive},
	TransitionArchive: {models.CaseStatusActive, models.CaseStatusClosed},
}

// WorkflowRoles may assign, close and archive cases
var WorkflowRoles = []string{models.RoleSuperAdmin, models.RoleSeniorInvestigator}

// Workflow is the case status state machine. Every operation validates its
// input, re-reads the actor's role and checks the source state before writing.
type Workflow struct {
	Cases  *CaseStore
	Users  *Users
	Events events.Publisher
	Clock  Clock
}

// CanTransition reports whether transition may start from status
func CanTransition(transition, status string) bool {
	for _, s := range transitionSources[transition] {
		if s == status {
			return true
		}
	}
	return false
}

func hasRole(user *models.User, roles []string) bool {
	for _, r := range roles {
		if user.Role == r {
			return true
		}
	}
	return false
}

func (w *Workflow) authorize(ctx context.Context, actorID string) error {
	actor, err := w.Users.GetUserProfile(ctx, actorID)
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: unknown actor", ErrForbidden)
		}
		return err
	}
	if !actor.IsActive || !hasRole(actor, WorkflowRoles) {
		return fmt.Errorf("%w: role %q cannot change case status", ErrForbidden, actor.Role)
	}
	return nil
}

func (w *Workflow) load(ctx context.Context, transition, caseID string) (*models.Case, error) {
	c, err := w.Cases.GetCaseByID(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(transition, c.Status) {
		return nil, fmt.Errorf("%w: cannot %s a case that is %s", ErrInvalidTransition, transition, c.Status)
	}
	return c, nil
}

func (w *Workflow) accepted(ctx context.Context, transition, eventType, actorID string, c *models.Case, data map[string]interface{}) {
	caseTransitions.WithLabelValues(transition).Inc()
	zap.S().Infow("case transition", "transition", transition, "caseId", c.ID.Hex(), "status", c.Status, "actorId", actorID)
	publish(ctx, w.Events, events.New(eventType, c.ID.Hex(), actorID, data))
}

// Assign hands the case to an investigator and makes it active. Reassigning an
// active case is allowed.
func (w *Workflow) Assign(ctx context.Context, actorID, caseID, assigneeID string) (*models.Case, error) {
	assigneeID = strings.TrimSpace(assigneeID)
	if assigneeID == "" {
		return nil, invalid("assigneeId is required")
	}
	if err := w.authorize(ctx, actorID); err != nil {
		return nil, err
	}
	c, err := w.load(ctx, TransitionAssign, caseID)
	if err != nil {
		return nil, err
	}

	assignee, err := w.Users.GetUserProfile(ctx, assigneeID)
	if err != nil {
		if isNotFound(err) {
			return nil, invalid("assignee %s does not exist", assigneeID)
		}
		return nil, err
	}
	if !assignee.IsActive || !hasRole(assignee, AssignableRoles) {
		return nil, invalid("assignee %s cannot be assigned cases", assigneeID)
	}

	if err := w.Cases.UpdateCase(ctx, caseID, bson.M{
		"assignedTo": assigneeID,
		"status":     models.CaseStatusActive,
	}); err != nil {
		return nil, err
	}

	c.AssignedTo = &assigneeID
	c.Status = models.CaseStatusActive
	w.accepted(ctx, TransitionAssign, events.CaseAssigned, actorID, c, map[string]interface{}{"assignedTo": assigneeID})
	return c, nil
}

func recoveryFrom(req models.CloseCaseRequest) (*models.Recovery, error) {
	if req.FullyRecovered == nil {
		if req.AmountRecovered != nil {
			return nil, invalid("fullyRecovered is required when amountRecovered is given")
		}
		return nil, nil
	}
	if *req.FullyRecovered {
		return &models.Recovery{FullyRecovered: true}, nil
	}
	if req.AmountRecovered == nil || *req.AmountRecovered <= 0 {
		return nil, invalid("amountRecovered must be greater than 0 when the case is not fully recovered")
	}
	amount := *req.AmountRecovered
	return &models.Recovery{FullyRecovered: false, AmountRecovered: &amount}, nil
}

// Close moves an active case to closed, recording recovery details when given
func (w *Workflow) Close(ctx context.Context, actorID, caseID string, req models.CloseCaseRequest) (*models.Case, error) {
	recovery, err := recoveryFrom(req)
	if err != nil {
		return nil, err
	}
	if err := w.authorize(ctx, actorID); err != nil {
		return nil, err
	}
	c, err := w.load(ctx, TransitionClose, caseID)
	if err != nil {
		return nil, err
	}

	closed := dateTime(w.Clock.now())
	fields := bson.M{
		"status":     models.CaseStatusClosed,
		"dateClosed": closed,
	}
	if recovery != nil {
		fields["recovery"] = recovery
	}
	if err := w.Cases.UpdateCase(ctx, caseID, fields); err != nil {
		return nil, err
	}

	c.Status = models.CaseStatusClosed
	c.DateClosed = &closed
	if recovery != nil {
		c.Recovery = recovery
	}
	data := map[string]interface{}{}
	if recovery != nil {
		data["fullyRecovered"] = recovery.FullyRecovered
		if recovery.AmountRecovered != nil {
			data["amountRecovered"] = *recovery.AmountRecovered
		}
	}
	w.accepted(ctx, TransitionClose, events.CaseClosed, actorID, c, data)
	return c, nil
}

// Archive moves an active or closed case to archived
func (w *Workflow) Archive(ctx context.Context, actorID, caseID string) (*models.Case, error) {
	if err := w.authorize(ctx, actorID); err != nil {
		return nil, err
	}
	c, err := w.load(ctx, TransitionArchive, caseID)
	if err != nil {
		return nil, err
	}
	if err := w.Cases.UpdateCase(ctx, caseID, bson.M{"status": models.CaseStatusArchived}); err != nil {
		return nil, err
	}
	c.Status = models.CaseStatusArchived
	w.accepted(ctx, TransitionArchive, events.CaseArchived, actorID, c, nil)
	return c, nil
}
