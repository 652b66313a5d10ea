package databases

// go generate: mockery --name ContactDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cybermitra/guardian-api/models"
)

const contactName = "contacts"

// ContactDatabase contains the methods to use with the contacts collection
type ContactDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.Contact, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Contact, error)
	InsertOne(ctx context.Context, doc models.Contact) (string, error)
	DeleteOne(ctx context.Context, filter interface{}) (int64, error)
}

type contactDatabase struct {
	db DatabaseHelper
}

// NewContactDatabase initializes a new instance of the contacts database with the provided db connection
func NewContactDatabase(db DatabaseHelper) ContactDatabase {
	return &contactDatabase{
		db: db,
	}
}

func (d *contactDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Contact, error) {
	doc := &models.Contact{}
	err := d.db.Collection(contactName).FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (d *contactDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Contact, error) {
	var docs []models.Contact
	cur, err := d.db.Collection(contactName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&docs)
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (d *contactDatabase) InsertOne(ctx context.Context, doc models.Contact) (string, error) {
	res, err := d.db.Collection(contactName).InsertOne(ctx, doc)
	if err != nil {
		return "", err
	}
	return insertedHex(res)
}

func (d *contactDatabase) DeleteOne(ctx context.Context, filter interface{}) (int64, error) {
	return d.db.Collection(contactName).DeleteOne(ctx, filter)
}
