package metricsstore

import (
	"context"

	"github.com/dalemusser/resourcehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// SiteCounts is the set of catalog-wide totals shown on the categories page
// and exported as gauges.
type SiteCounts struct {
	Users      int64
	Categories int64
	Resources  int64
	Public     int64
	Comments   int64
}

// FetchSiteCounts returns catalog-wide totals.
// Intentionally tolerant: on error it returns 0 for that counter.
func FetchSiteCounts(ctx context.Context, db *mongo.Database) SiteCounts {
	var out SiteCounts
	count := func(coll string, filter bson.M) int64 {
		n, err := db.Collection(coll).CountDocuments(ctx, filter)
		if err != nil {
			return 0
		}
		return n
	}

	out.Users = count("users", bson.M{})
	out.Categories = count("categories", bson.M{})
	out.Resources = count("resources", bson.M{})
	out.Public = count("resources", bson.M{"status": models.ResourceStatusPublic})
	out.Comments = count("comments", bson.M{})
	return out
}

// UserStats are a single user's activity totals.
type UserStats struct {
	ResourcesCreated      int64
	Favorites             int64
	ProgressionsStarted   int64
	ProgressionsCompleted int64
}

// FetchUserStats computes the statistics for one user. Like FetchSiteCounts
// it degrades to 0 per counter; the first error is returned for logging.
func FetchUserStats(ctx context.Context, db *mongo.Database, userID primitive.ObjectID) (UserStats, error) {
	var (
		out      UserStats
		firstErr error
	)
	count := func(coll string, filter bson.M) int64 {
		n, err := db.Collection(coll).CountDocuments(ctx, filter)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return 0
		}
		return n
	}

	out.ResourcesCreated = count("resources", bson.M{"created_by_id": userID})
	out.Favorites = count("favorites", bson.M{"user_id": userID})
	out.ProgressionsStarted = count("progressions", bson.M{
		"user_id": userID,
		"status":  bson.M{"$in": bson.A{models.ProgressionInProgress, models.ProgressionCompleted}},
	})
	out.ProgressionsCompleted = count("progressions", bson.M{"user_id": userID, "status": models.ProgressionCompleted})
	return out, firstErr
}
