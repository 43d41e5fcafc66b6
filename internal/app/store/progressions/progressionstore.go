// internal/app/store/progressions/progressionstore.go
package progressionstore

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/dalemusser/resourcehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrInvalidPercentage = errors.New("percentage must be between 0 and 100")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("progressions")}
}

// Upsert records a user's progress on a resource and derives its status.
func (s *Store) Upsert(ctx context.Context, userID, resourceID primitive.ObjectID, pct float64) (models.Progression, error) {
	if math.IsNaN(pct) || pct < 0 || pct > 100 {
		return models.Progression{}, ErrInvalidPercentage
	}
	now := time.Now().UTC().Truncate(time.Millisecond)

	var p models.Progression
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"user_id": userID, "resource_id": resourceID},
		bson.M{
			"$set": bson.M{
				"percentage":          pct,
				"status":              models.ProgressionStatusFor(pct),
				"last_interaction_at": now,
			},
			"$setOnInsert": bson.M{"_id": primitive.NewObjectID()},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&p)
	if err != nil {
		return models.Progression{}, err
	}
	return p, nil
}

// Get returns the user's progression on a resource, or nil when none exists.
func (s *Store) Get(ctx context.Context, userID, resourceID primitive.ObjectID) (*models.Progression, error) {
	var p models.Progression
	err := s.c.FindOne(ctx, bson.M{"user_id": userID, "resource_id": resourceID}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByUser returns a user's progressions, most recently touched first.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Progression, error) {
	opts := options.Find().SetSort(bson.D{{Key: "last_interaction_at", Value: -1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]models.Progression, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Counts summarizes a user's progressions by status.
type Counts struct {
	Started   int64
	Completed int64
}

// CountByUser counts progressions past not_started, and those completed.
func (s *Store) CountByUser(ctx context.Context, userID primitive.ObjectID) (Counts, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": userID}}},
		{{Key: "$group", Value: bson.M{"_id": "$status", "n": bson.M{"$sum": 1}}}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return Counts{}, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Status string `bson:"_id"`
		N      int64  `bson:"n"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return Counts{}, err
	}

	var c Counts
	for _, r := range rows {
		switch r.Status {
		case models.ProgressionInProgress:
			c.Started += r.N
		case models.ProgressionCompleted:
			c.Started += r.N
			c.Completed += r.N
		}
	}
	return c, nil
}

func (s *Store) DeleteByResource(ctx context.Context, resourceID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"resource_id": resourceID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *Store) DeleteByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
