// internal/app/store/resources/resourcestore.go
package resourcestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/resourcehub/internal/app/system/normalize"
	"github.com/dalemusser/resourcehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNameRequired  = errors.New("a resource name is required")
	ErrInvalidType   = errors.New("type must be activity, game or document")
	ErrInvalidStatus = errors.New("status must be private, public, draft or suspended")
	ErrNotFound      = errors.New("resource not found")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("resources")}
}

// prepare normalizes the mutable fields and validates them.
func prepare(r *models.Resource) error {
	r.Name = normalize.Name(r.Name)
	r.NameCI = normalize.Key(r.Name)
	r.Description = strings.TrimSpace(r.Description)
	if r.Type == "" {
		r.Type = models.DefaultResourceType
	}
	if r.Status == "" {
		r.Status = models.DefaultResourceStatus
	}

	if r.Name == "" {
		return ErrNameRequired
	}
	if !r.Type.IsValid() {
		return ErrInvalidType
	}
	if !r.Status.IsValid() {
		return ErrInvalidStatus
	}
	return nil
}

// Create inserts a new resource. Type and status default when empty;
// the creator fields are kept as passed in.
func (s *Store) Create(ctx context.Context, r models.Resource) (models.Resource, error) {
	if err := prepare(&r); err != nil {
		return models.Resource{}, err
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	r.ID = primitive.NewObjectID()
	r.CreatedAt = now
	r.UpdatedAt = &now

	if _, err := s.c.InsertOne(ctx, r); err != nil {
		return models.Resource{}, err
	}
	return r, nil
}

// Update replaces the editable fields (name, description, type, status,
// category). Creation data and ownership never change.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, mut models.Resource) (models.Resource, error) {
	if err := prepare(&mut); err != nil {
		return models.Resource{}, err
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	set := bson.M{
		"name":        mut.Name,
		"name_ci":     mut.NameCI,
		"description": mut.Description,
		"type":        mut.Type,
		"status":      mut.Status,
		"updated_at":  now,
	}
	update := bson.M{"$set": set}
	if mut.CategoryID != nil {
		set["category_id"] = *mut.CategoryID
	} else {
		update["$unset"] = bson.M{"category_id": ""}
	}

	var out models.Resource
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Resource{}, ErrNotFound
	}
	return out, err
}

// GetByID returns ErrNotFound when no resource has id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Resource, error) {
	var r models.Resource
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Resource{}, ErrNotFound
	}
	return r, err
}

// Delete removes a resource by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// FetchAll loads the whole catalog for the list engine. Order is by folded
// name for stable output; callers re-sort.
func (s *Store) FetchAll(ctx context.Context) ([]models.Resource, error) {
	return s.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}}))
}

// FetchByIDs returns the resources among ids that still exist.
func (s *Store) FetchByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Resource, error) {
	if len(ids) == 0 {
		return []models.Resource{}, nil
	}
	return s.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

// FetchByCreator returns a user's resources, newest first.
func (s *Store) FetchByCreator(ctx context.Context, userID primitive.ObjectID) ([]models.Resource, error) {
	return s.find(ctx, bson.M{"created_by_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}))
}

func (s *Store) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Resource, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Resource{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
