package databases

// go generate: mockery --name TokenDatabase

import (
	"context"

	"github.com/cybermitra/guardian-api/models"
)

const tokenName = "auth_tokens"

// TokenDatabase contains the methods to use with the auth token database
type TokenDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.AuthToken, error)
	InsertOne(ctx context.Context, token models.AuthToken) (string, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}) (int64, error)
	DeleteMany(ctx context.Context, filter interface{}) (int64, error)
}

type tokenDatabase struct {
	db DatabaseHelper
}

// NewTokenDatabase initializes a new instance of token database with the provided db connection
func NewTokenDatabase(db DatabaseHelper) TokenDatabase {
	return &tokenDatabase{
		db: db,
	}
}

func (t *tokenDatabase) FindOne(ctx context.Context, filter interface{}) (*models.AuthToken, error) {
	token := &models.AuthToken{}
	err := t.db.Collection(tokenName).FindOne(ctx, filter).Decode(&token)
	if err != nil {
		return nil, err
	}
	return token, nil
}

func (t *tokenDatabase) InsertOne(ctx context.Context, token models.AuthToken) (string, error) {
	res, err := t.db.Collection(tokenName).InsertOne(ctx, token)
	if err != nil {
		return "", err
	}
	return insertedHex(res)
}

func (t *tokenDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}) (int64, error) {
	res, err := t.db.Collection(tokenName).UpdateOne(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

func (t *tokenDatabase) DeleteMany(ctx context.Context, filter interface{}) (int64, error) {
	return t.db.Collection(tokenName).DeleteMany(ctx, filter)
}
