package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cybermitra/guardian-api/databases"
	"github.com/cybermitra/guardian-api/models"
)

// Contacts is the grievance officer directory
type Contacts struct {
	DB    databases.ContactDatabase
	Clock Clock
}

// ListContacts returns contacts ordered by organization, then name
func (s *Contacts) ListContacts(ctx context.Context) ([]models.Contact, error) {
	contacts, err := s.DB.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "organization", Value: 1}, {Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	if contacts == nil {
		contacts = []models.Contact{}
	}
	sort.SliceStable(contacts, func(i, j int) bool {
		if contacts[i].Organization != contacts[j].Organization {
			return contacts[i].Organization < contacts[j].Organization
		}
		return contacts[i].Name < contacts[j].Name
	})
	return contacts, nil
}

// AddContact validates and stores a contact
func (s *Contacts) AddContact(ctx context.Context, c models.Contact) (string, error) {
	c.Name = strings.TrimSpace(c.Name)
	c.Organization = strings.TrimSpace(c.Organization)
	c.Email = strings.TrimSpace(c.Email)
	if err := checkStruct(c); err != nil {
		return "", err
	}
	if c.PreferredContactMethod == "" {
		c.PreferredContactMethod = "email"
	}
	now := dateTime(s.Clock.now())
	c.ID = primitive.NilObjectID
	c.CreatedAt = now
	c.UpdatedAt = now
	id, err := s.DB.InsertOne(ctx, c)
	if err != nil {
		return "", fmt.Errorf("failed to insert contact: %w", err)
	}
	return id, nil
}

// DeleteContact removes a contact
func (s *Contacts) DeleteContact(ctx context.Context, id string) error {
	oid, err := objectID("contact", id)
	if err != nil {
		return err
	}
	deleted, err := s.DB.DeleteOne(ctx, databases.ByID(oid))
	if err != nil {
		return fmt.Errorf("failed to delete contact %s: %w", id, err)
	}
	if deleted == 0 {
		return notFound("contact", id)
	}
	return nil
}
