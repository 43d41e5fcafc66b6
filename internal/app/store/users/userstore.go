package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/resourcehub/internal/app/system/normalize"
	"github.com/dalemusser/resourcehub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt cost for new password hashes.
var PasswordCost = 12

// MinPasswordLength is enforced on Create.
const MinPasswordLength = 8

var (
	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserDisabled       = errors.New("this account is disabled")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	errBadRole            = errors.New(`role must be "user" or "admin"`)
	errBadStatus          = errors.New(`status must be "active" or "disabled"`)
	errNameRequired       = errors.New("full name is required")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByIDs loads the users with the given ids in no particular order.
// Unknown ids are skipped.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	users := []models.User{}
	if len(ids) == 0 {
		return users, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetByEmail looks up a user by case-insensitive email. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email_ci": text.Fold(normalize.Email(email))}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create hashes password and inserts u. Role defaults to "user" and status
// to "active".
func (s *Store) Create(ctx context.Context, u models.User, password string) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.FullName = normalize.Name(u.FullName)
	u.FullNameCI = text.Fold(u.FullName)
	u.Pseudo = normalize.Name(u.Pseudo)
	u.Email = normalize.Email(u.Email)
	u.EmailCI = text.Fold(u.Email)
	u.Role = normalize.Role(u.Role)
	u.Status = normalize.Status(u.Status)
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	if u.Status == "" {
		u.Status = models.UserStatusActive
	}

	switch {
	case u.FullName == "":
		return models.User{}, errNameRequired
	case u.Role != models.RoleUser && u.Role != models.RoleAdmin:
		return models.User{}, errBadRole
	case u.Status != models.UserStatusActive && u.Status != models.UserStatusDisabled:
		return models.User{}, errBadStatus
	case len(password) < MinPasswordLength:
		return models.User{}, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return models.User{}, err
	}
	u.PasswordHash = string(hash)

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// Authenticate checks email and password. Unknown emails and wrong passwords
// both return ErrInvalidCredentials; the user is returned alongside
// ErrInvalidCredentials (wrong password) and ErrUserDisabled so callers can audit.
func (s *Store) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.GetByEmail(ctx, email)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return u, ErrInvalidCredentials
	}
	if normalize.Status(u.Status) == models.UserStatusDisabled {
		return u, ErrUserDisabled
	}
	return u, nil
}

// ProfileUpdate holds the fields a user can edit about themselves.
type ProfileUpdate struct {
	FullName string
	Pseudo   string
	City     string
	Address  string
}

// UpdateProfile sets the profile fields of a user.
func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, upd ProfileUpdate) error {
	name := normalize.Name(upd.FullName)
	if name == "" {
		return errNameRequired
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"full_name":    name,
		"full_name_ci": text.Fold(name),
		"pseudo":       normalize.Name(upd.Pseudo),
		"city":         normalize.Name(upd.City),
		"address":      normalize.Name(upd.Address),
		"updated_at":   time.Now().UTC(),
	}})
	return err
}

// ChangePassword replaces the password after checking the current one.
// A wrong current password returns ErrInvalidCredentials.
func (s *Store) ChangePassword(ctx context.Context, id primitive.ObjectID, current, next string) error {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)) != nil {
		return ErrInvalidCredentials
	}
	if len(next) < MinPasswordLength {
		return ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), PasswordCost)
	if err != nil {
		return err
	}
	_, err = s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{"password_hash": string(hash), "updated_at": time.Now().UTC()}})
	return err
}

// SetRole changes a user's role. Returns mongo.ErrNoDocuments for an unknown id.
func (s *Store) SetRole(ctx context.Context, id primitive.ObjectID, role string) error {
	role = normalize.Role(role)
	if role != models.RoleUser && role != models.RoleAdmin {
		return errBadRole
	}
	return s.set(ctx, id, bson.M{"role": role})
}

// SetStatus enables or disables an account. Returns mongo.ErrNoDocuments
// for an unknown id.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	status = normalize.Status(status)
	if status != models.UserStatusActive && status != models.UserStatusDisabled {
		return errBadStatus
	}
	return s.set(ctx, id, bson.M{"status": status})
}

func (s *Store) set(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	fields["updated_at"] = time.Now().UTC()
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// CountActiveAdmins returns the number of admins who can still sign in.
func (s *Store) CountActiveAdmins(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"role": models.RoleAdmin, "status": models.UserStatusActive})
}

// ListFilter narrows List. Zero fields do not filter.
type ListFilter struct {
	Search string // prefix of the full name or email, case-insensitive
	Role   string
	Status string
}

func (f ListFilter) bson() bson.M {
	filter := bson.M{}
	if role := normalize.Role(f.Role); role != "" {
		filter["role"] = role
	}
	if status := normalize.Status(f.Status); status != "" {
		filter["status"] = status
	}
	if lo, hi := text.PrefixRange(f.Search); lo != "" {
		filter["$or"] = []bson.M{
			{"full_name_ci": bson.M{"$gte": lo, "$lt": hi}},
			{"email_ci": bson.M{"$gte": lo, "$lt": hi}},
		}
	}
	return filter
}

// List returns the matching users ordered by name. Password hashes are
// not loaded.
func (s *Store) List(ctx context.Context, f ListFilter) ([]models.User, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "full_name_ci", Value: 1}, {Key: "_id", Value: 1}}).
		SetProjection(bson.M{"password_hash": 0})
	cur, err := s.c.Find(ctx, f.bson(), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	users := []models.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Delete removes a user document and returns how many were removed.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
