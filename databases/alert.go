package databases

// go generate: mockery --name AlertDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cybermitra/guardian-api/models"
)

const alertName = "alerts"

// AlertDatabase contains the methods to use with the alert database
type AlertDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.Alert, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Alert, error)
	InsertOne(ctx context.Context, alert models.Alert) (string, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}) (int64, error)
	DeleteOne(ctx context.Context, filter interface{}) (int64, error)
	CountDocuments(ctx context.Context, filter interface{}) (int64, error)
}

type alertDatabase struct {
	db DatabaseHelper
}

// NewAlertDatabase initializes a new instance of alert database with the provided db connection
func NewAlertDatabase(db DatabaseHelper) AlertDatabase {
	return &alertDatabase{
		db: db,
	}
}

func (a *alertDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Alert, error) {
	alert := &models.Alert{}
	err := a.db.Collection(alertName).FindOne(ctx, filter).Decode(&alert)
	if err != nil {
		return nil, err
	}
	return alert, nil
}

func (a *alertDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Alert, error) {
	var alerts []models.Alert
	cur, err := a.db.Collection(alertName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&alerts)
	if err != nil {
		return nil, err
	}
	return alerts, nil
}

func (a *alertDatabase) InsertOne(ctx context.Context, alert models.Alert) (string, error) {
	res, err := a.db.Collection(alertName).InsertOne(ctx, alert)
	if err != nil {
		return "", err
	}
	return insertedHex(res)
}

func (a *alertDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}) (int64, error) {
	res, err := a.db.Collection(alertName).UpdateOne(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

func (a *alertDatabase) DeleteOne(ctx context.Context, filter interface{}) (int64, error) {
	return a.db.Collection(alertName).DeleteOne(ctx, filter)
}

func (a *alertDatabase) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	return a.db.Collection(alertName).CountDocuments(ctx, filter)
}
