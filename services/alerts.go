package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cybermitra/guardian-api/databases"
	"github.com/cybermitra/guardian-api/events"
	"github.com/cybermitra/guardian-api/models"
)

// Alerts manages security alerts raised by monitoring or by investigators
type Alerts struct {
	DB     databases.AlertDatabase
	Events events.Publisher
	Clock  Clock
}

// CreateAlert records a new alert in status new
func (s *Alerts) CreateAlert(ctx context.Context, data models.NewAlertData, createdBy string) (string, error) {
	if err := checkStruct(data); err != nil {
		return "", err
	}
	now := dateTime(s.Clock.now())
	alert := models.Alert{
		Title:           data.Title,
		Description:     data.Description,
		AlertType:       data.AlertType,
		Severity:        data.Severity,
		Status:          models.AlertStatusNew,
		Source:          data.Source,
		AffectedSystems: data.AffectedSystems,
		CreatedBy:       createdBy,
		DetectedAt:      now,
		Metadata:        data.Metadata,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	id, err := s.DB.InsertOne(ctx, alert)
	if err != nil {
		return "", fmt.Errorf("failed to insert alert: %w", err)
	}
	publish(ctx, s.Events, events.New(events.AlertCreated, "", createdBy, map[string]interface{}{"alertId": id, "severity": data.Severity}))
	return id, nil
}

// ListAlerts returns alerts newest first, optionally filtered by status and severity
func (s *Alerts) ListAlerts(ctx context.Context, status, severity string) ([]models.Alert, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	if severity != "" {
		filter["severity"] = severity
	}
	alerts, err := s.DB.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "detectedAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	if alerts == nil {
		alerts = []models.Alert{}
	}
	return alerts, nil
}

// RecentAlerts returns the n most recently detected alerts
func (s *Alerts) RecentAlerts(ctx context.Context, n int64) ([]models.Alert, error) {
	alerts, err := s.DB.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "detectedAt", Value: -1}}).SetLimit(n))
	if err != nil {
		return nil, fmt.Errorf("failed to list recent alerts: %w", err)
	}
	if alerts == nil {
		alerts = []models.Alert{}
	}
	return alerts, nil
}

// GetAlert returns one alert or ErrNotFound
func (s *Alerts) GetAlert(ctx context.Context, id string) (*models.Alert, error) {
	oid, err := objectID("alert", id)
	if err != nil {
		return nil, err
	}
	alert, err := s.DB.FindOne(ctx, databases.ByID(oid))
	if err != nil {
		if databases.IsNotFound(err) {
			return nil, notFound("alert", id)
		}
		return nil, fmt.Errorf("failed to get alert %s: %w", id, err)
	}
	return alert, nil
}

// UpdateAlert merges data into the alert. Moving to resolved stamps resolvedAt.
func (s *Alerts) UpdateAlert(ctx context.Context, actorID, id string, data models.AlertUpdateData) error {
	if err := checkStruct(data); err != nil {
		return err
	}
	oid, err := objectID("alert", id)
	if err != nil {
		return err
	}
	now := dateTime(s.Clock.now())
	set := bson.M{"updatedAt": now}
	if data.Title != nil {
		set["title"] = *data.Title
	}
	if data.Description != nil {
		set["description"] = *data.Description
	}
	if data.Status != nil {
		set["status"] = *data.Status
		if *data.Status == models.AlertStatusResolved {
			set["resolvedAt"] = now
		}
	}
	if data.Severity != nil {
		set["severity"] = *data.Severity
	}
	if data.AssignedTo != nil {
		set["assignedTo"] = *data.AssignedTo
	}
	if data.RelatedCaseID != nil {
		set["relatedCaseId"] = *data.RelatedCaseID
	}
	if data.Metadata != nil {
		set["metadata"] = data.Metadata
	}

	matched, err := s.DB.UpdateOne(ctx, databases.ByID(oid), bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update alert %s: %w", id, err)
	}
	if matched == 0 {
		return notFound("alert", id)
	}
	caseID := ""
	if data.RelatedCaseID != nil {
		caseID = *data.RelatedCaseID
	}
	publish(ctx, s.Events, events.New(events.AlertUpdated, caseID, actorID, map[string]interface{}{"alertId": id}))
	return nil
}

// DeleteAlert removes an alert
func (s *Alerts) DeleteAlert(ctx context.Context, id string) error {
	oid, err := objectID("alert", id)
	if err != nil {
		return err
	}
	deleted, err := s.DB.DeleteOne(ctx, databases.ByID(oid))
	if err != nil {
		return fmt.Errorf("failed to delete alert %s: %w", id, err)
	}
	if deleted == 0 {
		return notFound("alert", id)
	}
	return nil
}

// AlertStats counts alerts by status and severity
func (s *Alerts) AlertStats(ctx context.Context) (models.AlertStats, error) {
	var stats models.AlertStats
	counters := []struct {
		dst    *int64
		filter bson.M
	}{
		{&stats.Total, bson.M{}},
		{&stats.New, bson.M{"status": models.AlertStatusNew}},
		{&stats.Investigating, bson.M{"status": models.AlertStatusInvestigating}},
		{&stats.Resolved, bson.M{"status": models.AlertStatusResolved}},
		{&stats.High, bson.M{"severity": "high"}},
		{&stats.Critical, bson.M{"severity": "critical"}},
	}
	for _, c := range counters {
		n, err := s.DB.CountDocuments(ctx, c.filter)
		if err != nil {
			return models.AlertStats{}, fmt.Errorf("failed to count alerts: %w", err)
		}
		*c.dst = n
	}
	return stats, nil
}
