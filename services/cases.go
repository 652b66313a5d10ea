package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/cybermitra/guardian-api/databases"
	"github.com/cybermitra/guardian-api/events"
	"github.com/cybermitra/guardian-api/models"
)

const (
	caseNumberProbes = 5
	defaultCurrency  = "INR"
)

// fields a caller may change through UpdateCaseDetails. Status, assignment and
// recovery belong to the workflow.
var editableCaseFields = map[string]bool{
	"title":          true,
	"description":    true,
	"priority":       true,
	"caseType":       true,
	"source":         true,
	"amountInvolved": true,
	"currency":       true,
	"victim":         true,
	"tags":           true,
	"metadata":       true,
}

// CaseStore owns case records
type CaseStore struct {
	DB     databases.CaseDatabase
	Events events.Publisher
	Prefix string
	Clock  Clock
	// Intn picks the numeric part of a case number
	Intn func(n int) int
}

// NewCaseStore returns a CaseStore numbering cases with prefix
func NewCaseStore(db databases.CaseDatabase, pub events.Publisher, prefix string) *CaseStore {
	return &CaseStore{DB: db, Events: pub, Prefix: prefix, Intn: rand.Intn}
}

// CreateCase opens an unverified, unassigned case
func (s *CaseStore) CreateCase(ctx context.Context, data models.NewCaseData, createdBy string) (models.CreateCaseResponse, error) {
	data.Title = strings.TrimSpace(data.Title)
	data.Victim.Name = strings.TrimSpace(data.Victim.Name)
	if err := checkStruct(data); err != nil {
		return models.CreateCaseResponse{}, err
	}
	if createdBy == "" {
		return models.CreateCaseResponse{}, invalid("createdBy is required")
	}

	caseNumber, err := s.nextCaseNumber(ctx)
	if err != nil {
		return models.CreateCaseResponse{}, err
	}

	now := dateTime(s.Clock.now())
	c := models.Case{
		CaseNumber:     caseNumber,
		Title:          data.Title,
		Description:    data.Description,
		Status:         models.CaseStatusUnverified,
		Priority:       data.Priority,
		CaseType:       data.CaseType,
		Source:         data.Source,
		AmountInvolved: data.AmountInvolved,
		Currency:       strings.ToUpper(data.Currency),
		Victim:         data.Victim,
		Tags:           data.Tags,
		Metadata:       data.Metadata,
		CreatedBy:      createdBy,
		AssignedTo:     nil,
		DateOpened:     now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if c.Priority == "" {
		c.Priority = models.PriorityMedium
	}
	if c.Currency == "" {
		c.Currency = defaultCurrency
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}

	id, err := s.DB.InsertOne(ctx, c)
	if err != nil {
		return models.CreateCaseResponse{}, fmt.Errorf("failed to insert case: %w", err)
	}

	zap.S().Infow("case created", "caseId", id, "caseNumber", caseNumber, "createdBy", createdBy)
	publish(ctx, s.Events, events.New(events.CaseCreated, id, createdBy, map[string]interface{}{"caseNumber": caseNumber}))
	return models.CreateCaseResponse{CaseID: id, CaseNumber: caseNumber}, nil
}

// nextCaseNumber draws random numbers until one is unused. After the probe
// budget is spent the last candidate is used anyway.
func (s *CaseStore) nextCaseNumber(ctx context.Context) (string, error) {
	intn := s.Intn
	if intn == nil {
		intn = rand.Intn
	}
	var candidate string
	for i := 0; i < caseNumberProbes; i++ {
		candidate = fmt.Sprintf("%s%05d", s.Prefix, intn(100000))
		n, err := s.DB.CountDocuments(ctx, bson.M{"caseNumber": candidate})
		if err != nil {
			return "", fmt.Errorf("failed to check case number: %w", err)
		}
		if n == 0 {
			return candidate, nil
		}
	}
	zap.S().Warnw("case number collisions exhausted probes", "caseNumber", candidate, "probes", caseNumberProbes)
	return candidate, nil
}

// GetCaseByID returns one case or ErrNotFound
func (s *CaseStore) GetCaseByID(ctx context.Context, id string) (*models.Case, error) {
	oid, err := objectID("case", id)
	if err != nil {
		return nil, err
	}
	c, err := s.DB.FindOne(ctx, databases.ByID(oid))
	if err != nil {
		if databases.IsNotFound(err) {
			return nil, notFound("case", id)
		}
		return nil, fmt.Errorf("failed to get case %s: %w", id, err)
	}
	return c, nil
}

// GetAllCases returns every case, most recently opened first
func (s *CaseStore) GetAllCases(ctx context.Context) ([]models.Case, error) {
	cases, err := s.DB.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "dateOpened", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list cases: %w", err)
	}
	if cases == nil {
		cases = []models.Case{}
	}
	return cases, nil
}

// SearchCases matches case numbers by case-insensitive prefix
func (s *CaseStore) SearchCases(ctx context.Context, caseNumber string) ([]models.Case, error) {
	caseNumber = strings.TrimSpace(caseNumber)
	if caseNumber == "" {
		return nil, invalid("caseNumber is required")
	}
	filter := bson.M{"caseNumber": primitive.Regex{Pattern: "^" + regexp.QuoteMeta(caseNumber), Options: "i"}}
	cases, err := s.DB.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "caseNumber", Value: 1}}).SetLimit(50))
	if err != nil {
		return nil, fmt.Errorf("failed to search cases: %w", err)
	}
	if cases == nil {
		cases = []models.Case{}
	}
	return cases, nil
}

// UpdateCase merges fields into the case and refreshes updatedAt. It does not
// apply workflow rules.
func (s *CaseStore) UpdateCase(ctx context.Context, id string, fields bson.M) error {
	oid, err := objectID("case", id)
	if err != nil {
		return err
	}
	set := bson.M{}
	for k, v := range fields {
		set[k] = v
	}
	set["updatedAt"] = dateTime(s.Clock.now())

	matched, err := s.DB.UpdateOne(ctx, databases.ByID(oid), bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update case %s: %w", id, err)
	}
	if matched == 0 {
		return notFound("case", id)
	}
	return nil
}

// UpdateCaseDetails applies a client edit after dropping workflow-owned fields
func (s *CaseStore) UpdateCaseDetails(ctx context.Context, actorID, id string, raw map[string]interface{}) error {
	fields, err := editableFields(raw)
	if err != nil {
		return err
	}
	if err := s.UpdateCase(ctx, id, fields); err != nil {
		return err
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	publish(ctx, s.Events, events.New(events.CaseUpdated, id, actorID, map[string]interface{}{"fields": keys}))
	return nil
}

// editableFields keeps the client-editable keys of raw, checks their types
// and values, and returns them ready for $set
func editableFields(raw map[string]interface{}) (bson.M, error) {
	kept := map[string]interface{}{}
	for k, v := range raw {
		if editableCaseFields[k] {
			kept[k] = v
		}
	}
	b, err := json.Marshal(kept)
	if err != nil {
		return nil, invalid("unreadable case update: %v", err)
	}
	var data models.CaseUpdateData
	if err := json.Unmarshal(b, &data); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, invalid("%s must be a %s", typeErr.Field, typeErr.Type.String())
		}
		return nil, invalid("unreadable case update: %v", err)
	}
	return caseUpdateFields(data)
}

func caseUpdateFields(data models.CaseUpdateData) (bson.M, error) {
	fields := bson.M{}
	if data.Title != nil {
		title := strings.TrimSpace(*data.Title)
		if title == "" {
			return nil, invalid("title is required")
		}
		fields["title"] = title
	}
	if data.Description != nil {
		fields["description"] = *data.Description
	}
	if data.Priority != nil {
		if err := checkVar("priority", *data.Priority, "oneof=low medium high"); err != nil {
			return nil, err
		}
		fields["priority"] = *data.Priority
	}
	if data.CaseType != nil {
		fields["caseType"] = *data.CaseType
	}
	if data.Source != nil {
		if err := checkVar("source", *data.Source, "omitempty,oneof=dashboard bot website"); err != nil {
			return nil, err
		}
		fields["source"] = *data.Source
	}
	if data.AmountInvolved != nil {
		if *data.AmountInvolved < 0 {
			return nil, invalid("amountInvolved must be a non-negative number")
		}
		fields["amountInvolved"] = *data.AmountInvolved
	}
	if data.Currency != nil {
		if err := checkVar("currency", *data.Currency, "len=3"); err != nil {
			return nil, err
		}
		fields["currency"] = strings.ToUpper(*data.Currency)
	}
	if data.Victim != nil {
		victim := *data.Victim
		victim.Name = strings.TrimSpace(victim.Name)
		if err := checkStruct(victim); err != nil {
			return nil, err
		}
		fields["victim"] = victim
	}
	if data.Tags != nil {
		tags := *data.Tags
		if tags == nil {
			tags = []string{}
		}
		fields["tags"] = tags
	}
	if data.Metadata != nil {
		fields["metadata"] = *data.Metadata
	}
	return fields, nil
}

// DeleteCase removes the case record only. Timeline, notes and evidence are kept.
func (s *CaseStore) DeleteCase(ctx context.Context, actorID, id string) error {
	oid, err := objectID("case", id)
	if err != nil {
		return err
	}
	deleted, err := s.DB.DeleteOne(ctx, databases.ByID(oid))
	if err != nil {
		return fmt.Errorf("failed to delete case %s: %w", id, err)
	}
	if deleted == 0 {
		return notFound("case", id)
	}
	zap.S().Infow("case deleted", "caseId", id, "actorId", actorID)
	publish(ctx, s.Events, events.New(events.CaseDeleted, id, actorID, nil))
	return nil
}

// exists reports whether a case with id is stored
func (s *CaseStore) exists(ctx context.Context, id string) error {
	oid, err := objectID("case", id)
	if err != nil {
		return err
	}
	n, err := s.DB.CountDocuments(ctx, databases.ByID(oid))
	if err != nil {
		return fmt.Errorf("failed to look up case %s: %w", id, err)
	}
	if n == 0 {
		return notFound("case", id)
	}
	return nil
}
