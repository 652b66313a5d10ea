package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/cybermitra/guardian-api/events"
)

// Clock returns the current time. Services default to time.Now.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c().UTC()
}

func dateTime(t time.Time) primitive.DateTime {
	return primitive.NewDateTimeFromTime(t)
}

// objectID parses a hex id. Malformed ids can never match a document so they
// are reported as not found.
func objectID(what, id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, notFound(what, id)
	}
	return oid, nil
}

func publish(ctx context.Context, p events.Publisher, e events.Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, e); err != nil {
		zap.S().Warnw("failed to publish event", "type", e.Type, "caseId", e.CaseID, "error", err)
	}
}
