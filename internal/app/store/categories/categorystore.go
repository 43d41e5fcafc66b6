// internal/app/store/categories/categorystore.go
package categorystore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/resourcehub/internal/app/system/normalize"
	"github.com/dalemusser/resourcehub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNameRequired  = errors.New("a category name is required")
	ErrDuplicateName = errors.New("a category with that name already exists")
	ErrNotFound      = errors.New("category not found")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("categories")}
}

// Create inserts a category. Names are unique case-insensitively.
func (s *Store) Create(ctx context.Context, name string) (models.Category, error) {
	name = normalize.Name(name)
	if name == "" {
		return models.Category{}, ErrNameRequired
	}
	c := models.Category{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    normalize.Key(name),
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := s.c.InsertOne(ctx, c); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Category{}, ErrDuplicateName
		}
		return models.Category{}, err
	}
	return c, nil
}

// UpsertByName creates the category unless one with the same folded name
// exists. It reports whether a new document was inserted.
func (s *Store) UpsertByName(ctx context.Context, name string) (bool, error) {
	name = normalize.Name(name)
	if name == "" {
		return false, ErrNameRequired
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"name_ci": normalize.Key(name)},
		bson.M{"$setOnInsert": bson.M{
			"_id":        primitive.NewObjectID(),
			"name":       name,
			"created_at": time.Now().UTC().Truncate(time.Millisecond),
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return false, err
	}
	return res.UpsertedCount > 0, nil
}

// List returns every category ordered by name.
func (s *Store) List(ctx context.Context) ([]models.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.Category, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Category, error) {
	var c models.Category
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Category{}, ErrNotFound
	}
	return c, err
}

// Exists reports whether a category with the id exists.
func (s *Store) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// NameMap returns category names keyed by hex id, for list rendering.
func (s *Store) NameMap(ctx context.Context) (map[string]string, error) {
	cats, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	m := make(map[string]string, len(cats))
	for _, c := range cats {
		m[c.ID.Hex()] = c.Name
	}
	return m, nil
}
