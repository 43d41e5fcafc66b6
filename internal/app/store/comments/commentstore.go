// internal/app/store/comments/commentstore.go
package commentstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/resourcehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/resourcehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MaxBodyLength bounds a comment body before sanitizing.
const MaxBodyLength = 4000

var (
	ErrEmptyBody   = errors.New("a comment cannot be empty")
	ErrBodyTooLong = errors.New("a comment can be at most 4000 characters")
	ErrNotFound    = errors.New("comment not found")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("comments")}
}

// Create sanitizes the body and inserts the comment.
func (s *Store) Create(ctx context.Context, resourceID, authorID primitive.ObjectID, authorName, body string) (models.Comment, error) {
	body = strings.TrimSpace(body)
	if len([]rune(body)) > MaxBodyLength {
		return models.Comment{}, ErrBodyTooLong
	}
	body = htmlsanitize.Clean(body)
	if strings.TrimSpace(htmlsanitize.Strip(body)) == "" {
		return models.Comment{}, ErrEmptyBody
	}

	c := models.Comment{
		ID:         primitive.NewObjectID(),
		ResourceID: resourceID,
		AuthorID:   authorID,
		AuthorName: authorName,
		Body:       body,
		CreatedAt:  time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := s.c.InsertOne(ctx, c); err != nil {
		return models.Comment{}, err
	}
	return c, nil
}

// ListByResource returns a resource's comments, oldest first.
func (s *Store) ListByResource(ctx context.Context, resourceID primitive.ObjectID) ([]models.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"resource_id": resourceID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.Comment, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Comment, error) {
	var c models.Comment
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Comment{}, ErrNotFound
	}
	return c, err
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByResource removes every comment on a resource.
func (s *Store) DeleteByResource(ctx context.Context, resourceID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"resource_id": resourceID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
