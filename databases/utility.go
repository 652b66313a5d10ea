package databases

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNoDocuments is returned when a lookup matches nothing
var ErrNoDocuments = mongo.ErrNoDocuments

// IsNotFound reports whether err means the document does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// insertedHex converts the id returned by InsertOne into its hex form
func insertedHex(res InsertOneResultHelper) (string, error) {
	if res == nil {
		return "", fmt.Errorf("insert returned no result")
	}
	switch id := res.Decode().(type) {
	case primitive.ObjectID:
		return id.Hex(), nil
	case string:
		return id, nil
	default:
		return "", fmt.Errorf("unexpected inserted id type %T", id)
	}
}
