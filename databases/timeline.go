package databases

// go generate: mockery --name TimelineDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cybermitra/guardian-api/models"
)

const timelineName = "case_timeline"

// TimelineDatabase contains the methods to use with the case_timeline collection
type TimelineDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.TimelineEvent, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.TimelineEvent, error)
	InsertOne(ctx context.Context, doc models.TimelineEvent) (string, error)
}

type timelineDatabase struct {
	db DatabaseHelper
}

// NewTimelineDatabase initializes a new instance of the case_timeline database with the provided db connection
func NewTimelineDatabase(db DatabaseHelper) TimelineDatabase {
	return &timelineDatabase{
		db: db,
	}
}

func (d *timelineDatabase) FindOne(ctx context.Context, filter interface{}) (*models.TimelineEvent, error) {
	doc := &models.TimelineEvent{}
	err := d.db.Collection(timelineName).FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (d *timelineDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.TimelineEvent, error) {
	var docs []models.TimelineEvent
	cur, err := d.db.Collection(timelineName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&docs)
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (d *timelineDatabase) InsertOne(ctx context.Context, doc models.TimelineEvent) (string, error) {
	res, err := d.db.Collection(timelineName).InsertOne(ctx, doc)
	if err != nil {
		return "", err
	}
	return insertedHex(res)
}
