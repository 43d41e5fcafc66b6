// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/resourcehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates collections (if missing) and tries to attach JSON-Schema
// validators. On servers that don't support collMod/validators (e.g. some
// DocumentDB versions), we log and skip gracefully.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	ensure := func(coll string, schema bson.M) {
		if _, err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			if isNoSuchCommand(err) || isNotImplemented(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	ensure("users", usersSchema())
	ensure("categories", categoriesSchema())
	ensure("resources", resourcesSchema())
	ensure("comments", commentsSchema())
	ensure("favorites", favoritesSchema())
	ensure("progressions", progressionsSchema())

	ensure("audit_events", nil)

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers & logging ---------------------- */

func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{"name": name})
	if err != nil {
		return false, err
	}
	return len(names) > 0, nil
}

// ensureCollection idempotently makes sure name exists.
// created is true only if this call created it.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) (created bool, err error) {
	exists, listErr := collectionExists(ctx, db, name)
	if listErr == nil && exists {
		return false, nil
	}
	// If listing failed, fall back to create-and-handle-race.
	if err := db.CreateCollection(ctx, name); err != nil {
		if isNamespaceExistsErr(err) {
			return false, nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return true, nil
}

/* ------------------------------ validators ------------------------------- */

// Moderate validation leaves existing invalid documents alone until they
// are next updated.
func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	if err := db.RunCommand(ctx, cmd).Decode(&out); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func commandErrorMatches(err error, code int32, fragments ...string) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == code {
		return true
	}
	s := strings.ToLower(err.Error())
	for _, f := range fragments {
		if strings.Contains(s, f) {
			return true
		}
	}
	return false
}

func isNamespaceExistsErr(err error) bool {
	return commandErrorMatches(err, 48, "already exists", "namespace exists")
}

func isNoSuchCommand(err error) bool {
	return commandErrorMatches(err, 59, "no such command")
}

func isNotImplemented(err error) bool {
	return commandErrorMatches(err, 115, "not implemented", "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

var nonBlank = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}

func usersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"full_name", "email", "email_ci", "password_hash", "role", "status"},
			"properties": bson.M{
				"full_name":     nonBlank,
				"full_name_ci":  nonBlank,
				"pseudo":        bson.M{"bsonType": "string"},
				"email":         nonBlank,
				"email_ci":      nonBlank,
				"password_hash": nonBlank,
				"city":          bson.M{"bsonType": "string"},
				"address":       bson.M{"bsonType": "string"},
				"role":          bson.M{"enum": bson.A{models.RoleUser, models.RoleAdmin}},
				"status":        bson.M{"enum": bson.A{models.UserStatusActive, models.UserStatusDisabled}},
			},
		},
	}
}

func categoriesSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name", "name_ci"},
			"properties": bson.M{
				"name":       nonBlank,
				"name_ci":    nonBlank,
				"created_at": bson.M{"bsonType": "date"},
			},
		},
	}
}

func resourcesSchema() bson.M {
	// Enums come from the canonical lists in the domain models.
	typeEnum := bson.A{}
	for _, t := range models.ResourceTypes {
		typeEnum = append(typeEnum, string(t))
	}
	statusEnum := bson.A{}
	for _, s := range models.ResourceStatuses {
		statusEnum = append(statusEnum, string(s))
	}

	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name", "name_ci", "type", "status", "created_at"},
			"properties": bson.M{
				"name":            nonBlank,
				"name_ci":         nonBlank,
				"description":     bson.M{"bsonType": "string"},
				"type":            bson.M{"bsonType": "string", "enum": typeEnum},
				"status":          bson.M{"bsonType": "string", "enum": statusEnum},
				"category_id":     bson.M{"bsonType": "objectId"},
				"created_at":      bson.M{"bsonType": "date"},
				"updated_at":      bson.M{"bsonType": "date"},
				"created_by_id":   bson.M{"bsonType": "objectId"},
				"created_by_name": bson.M{"bsonType": "string"},
			},
		},
	}
}

func commentsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"resource_id", "author_id", "body", "created_at"},
			"properties": bson.M{
				"resource_id": bson.M{"bsonType": "objectId"},
				"author_id":   bson.M{"bsonType": "objectId"},
				"author_name": bson.M{"bsonType": "string"},
				"body":        nonBlank,
				"created_at":  bson.M{"bsonType": "date"},
			},
		},
	}
}

func favoritesSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"user_id", "resource_id"},
			"properties": bson.M{
				"user_id":     bson.M{"bsonType": "objectId"},
				"resource_id": bson.M{"bsonType": "objectId"},
				"created_at":  bson.M{"bsonType": "date"},
			},
		},
	}
}

func progressionsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"user_id", "resource_id", "percentage", "status"},
			"properties": bson.M{
				"user_id":     bson.M{"bsonType": "objectId"},
				"resource_id": bson.M{"bsonType": "objectId"},
				"percentage":  bson.M{"bsonType": bson.A{"double", "int", "long"}, "minimum": 0, "maximum": 100},
				"status": bson.M{"enum": bson.A{
					models.ProgressionNotStarted, models.ProgressionInProgress, models.ProgressionCompleted,
				}},
				"last_interaction_at": bson.M{"bsonType": "date"},
			},
		},
	}
}
