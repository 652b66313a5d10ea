package databases

// go generate: mockery --name EvidenceDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cybermitra/guardian-api/models"
)

const evidenceName = "case_evidence"

// EvidenceDatabase contains the methods to use with the case_evidence collection
type EvidenceDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.Evidence, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Evidence, error)
	InsertOne(ctx context.Context, doc models.Evidence) (string, error)
	DeleteOne(ctx context.Context, filter interface{}) (int64, error)
}

type evidenceDatabase struct {
	db DatabaseHelper
}

// NewEvidenceDatabase initializes a new instance of the case_evidence database with the provided db connection
func NewEvidenceDatabase(db DatabaseHelper) EvidenceDatabase {
	return &evidenceDatabase{
		db: db,
	}
}

func (d *evidenceDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Evidence, error) {
	doc := &models.Evidence{}
	err := d.db.Collection(evidenceName).FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (d *evidenceDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Evidence, error) {
	var docs []models.Evidence
	cur, err := d.db.Collection(evidenceName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&docs)
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (d *evidenceDatabase) InsertOne(ctx context.Context, doc models.Evidence) (string, error) {
	res, err := d.db.Collection(evidenceName).InsertOne(ctx, doc)
	if err != nil {
		return "", err
	}
	return insertedHex(res)
}

func (d *evidenceDatabase) DeleteOne(ctx context.Context, filter interface{}) (int64, error) {
	return d.db.Collection(evidenceName).DeleteOne(ctx, filter)
}
