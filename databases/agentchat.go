package databases

// go generate: mockery --name AgentChatDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cybermitra/guardian-api/models"
)

const agentChatName = "case_agent_chats"

// AgentChatDatabase contains the methods to use with the case_agent_chats collection
type AgentChatDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.AgentMessage, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.AgentMessage, error)
	InsertOne(ctx context.Context, doc models.AgentMessage) (string, error)
}

type agentChatDatabase struct {
	db DatabaseHelper
}

// NewAgentChatDatabase initializes a new instance of the case_agent_chats database with the provided db connection
func NewAgentChatDatabase(db DatabaseHelper) AgentChatDatabase {
	return &agentChatDatabase{
		db: db,
	}
}

func (d *agentChatDatabase) FindOne(ctx context.Context, filter interface{}) (*models.AgentMessage, error) {
	doc := &models.AgentMessage{}
	err := d.db.Collection(agentChatName).FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (d *agentChatDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.AgentMessage, error) {
	var docs []models.AgentMessage
	cur, err := d.db.Collection(agentChatName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&docs)
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (d *agentChatDatabase) InsertOne(ctx context.Context, doc models.AgentMessage) (string, error) {
	res, err := d.db.Collection(agentChatName).InsertOne(ctx, doc)
	if err != nil {
		return "", err
	}
	return insertedHex(res)
}
