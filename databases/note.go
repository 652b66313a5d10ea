package databases

// go generate: mockery --name NoteDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cybermitra/guardian-api/models"
)

const noteName = "case_notes"

// NoteDatabase contains the methods to use with the case_notes collection
type NoteDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.Note, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Note, error)
	InsertOne(ctx context.Context, doc models.Note) (string, error)
}

type noteDatabase struct {
	db DatabaseHelper
}

// NewNoteDatabase initializes a new instance of the case_notes database with the provided db connection
func NewNoteDatabase(db DatabaseHelper) NoteDatabase {
	return &noteDatabase{
		db: db,
	}
}

func (d *noteDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Note, error) {
	doc := &models.Note{}
	err := d.db.Collection(noteName).FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (d *noteDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Note, error) {
	var docs []models.Note
	cur, err := d.db.Collection(noteName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&docs)
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (d *noteDatabase) InsertOne(ctx context.Context, doc models.Note) (string, error) {
	res, err := d.db.Collection(noteName).InsertOne(ctx, doc)
	if err != nil {
		return "", err
	}
	return insertedHex(res)
}
