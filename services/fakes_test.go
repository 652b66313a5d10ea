package services_test

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/cybermitra/guardian-api/models"
	"github.com/cybermitra/guardian-api/services"
)

var fixedNow = time.Date(2024, 3, 14, 9, 30, 0, 0, time.UTC)

func fixedClock() services.Clock {
	return func() time.Time { return fixedNow }
}

// applySet round-trips doc through bson so $set paths land on the struct fields
func applySet(doc interface{}, update interface{}, out interface{}) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	m := bson.M{}
	if err := bson.Unmarshal(raw, &m); err != nil {
		return err
	}
	if set, ok := update.(bson.M)["$set"].(bson.M); ok {
		for k, v := range set {
			m[k] = v
		}
	}
	raw, err = bson.Marshal(m)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, out)
}

func idFilter(filter interface{}) (primitive.ObjectID, bool) {
	m, ok := filter.(bson.M)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, ok := m["_id"].(primitive.ObjectID)
	return id, ok
}

type memCaseDB struct {
	mu    sync.Mutex
	cases map[primitive.ObjectID]models.Case
}

func newMemCaseDB() *memCaseDB {
	return &memCaseDB{cases: map[primitive.ObjectID]models.Case{}}
}

func (d *memCaseDB) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Case, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	id, _ := idFilter(filter)
	c, ok := d.cases[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &c, nil
}

func (d *memCaseDB) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Case, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := []models.Case{}
	for _, c := range d.cases {
		out = append(out, c)
	}
	return out, nil
}

func (d *memCaseDB) InsertOne(ctx context.Context, c models.Case) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	c.ID = primitive.NewObjectID()
	d.cases[c.ID] = c
	return c.ID.Hex(), nil
}

func (d *memCaseDB) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	id, _ := idFilter(filter)
	c, ok := d.cases[id]
	if !ok {
		return 0, nil
	}
	var updated models.Case
	if err := applySet(c, update, &updated); err != nil {
		return 0, err
	}
	d.cases[id] = updated
	return 1, nil
}

func (d *memCaseDB) DeleteOne(ctx context.Context, filter interface{}) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	id, _ := idFilter(filter)
	if _, ok := d.cases[id]; !ok {
		return 0, nil
	}
	delete(d.cases, id)
	return 1, nil
}

func (d *memCaseDB) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if id, ok := idFilter(filter); ok {
		if _, found := d.cases[id]; found {
			return 1, nil
		}
		return 0, nil
	}
	if num, ok := filter.(bson.M)["caseNumber"].(string); ok {
		var n int64
		for _, c := range d.cases {
			if c.CaseNumber == num {
				n++
			}
		}
		return n, nil
	}
	return int64(len(d.cases)), nil
}

type memNoteDB struct {
	mu    sync.Mutex
	notes []models.Note
}

func (d *memNoteDB) FindOne(ctx context.Context, filter interface{}) (*models.Note, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	id, _ := idFilter(filter)
	for _, n := range d.notes {
		if n.ID == id {
			return &n, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (d *memNoteDB) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Note, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	caseID, _ := filter.(bson.M)["caseId"].(string)
	var out []models.Note
	for _, n := range d.notes {
		if n.CaseID == caseID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (d *memNoteDB) InsertOne(ctx context.Context, doc models.Note) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	doc.ID = primitive.NewObjectID()
	d.notes = append(d.notes, doc)
	return doc.ID.Hex(), nil
}

type memUserDB struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]models.User
}

func newMemUserDB(users ...models.User) *memUserDB {
	d := &memUserDB{users: map[primitive.ObjectID]models.User{}}
	for _, u := range users {
		d.users[u.ID] = u
	}
	return d
}

func (d *memUserDB) FindOne(ctx context.Context, filter interface{}) (*models.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if id, ok := idFilter(filter); ok {
		if u, found := d.users[id]; found {
			return &u, nil
		}
		return nil, mongo.ErrNoDocuments
	}
	if email, ok := filter.(bson.M)["email"].(string); ok {
		for _, u := range d.users {
			if u.Email == email {
				return &u, nil
			}
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (d *memUserDB) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := []models.User{}
	for _, u := range d.users {
		out = append(out, u)
	}
	return out, nil
}

func (d *memUserDB) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if email, ok := filter.(bson.M)["email"].(string); ok {
		var n int64
		for _, u := range d.users {
			if u.Email == email {
				n++
			}
		}
		return n, nil
	}
	return int64(len(d.users)), nil
}

func (d *memUserDB) InsertOne(ctx context.Context, user models.User) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	user.ID = primitive.NewObjectID()
	d.users[user.ID] = user
	return user.ID.Hex(), nil
}

func (d *memUserDB) UpdateOne(ctx context.Context, filter interface{}, update interface{}) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	id, _ := idFilter(filter)
	u, ok := d.users[id]
	if !ok {
		return 0, nil
	}
	var updated models.User
	if err := applySet(u, update, &updated); err != nil {
		return 0, err
	}
	d.users[id] = updated
	return 1, nil
}

func newUser(role, username string) models.User {
	return models.User{
		ID:        primitive.NewObjectID(),
		Username:  username,
		FirstName: username,
		Email:     username + "@cybermitra.in",
		Role:      role,
		IsActive:  true,
	}
}
