// internal/app/store/users/userstore.go

// Package userstore wraps the users collection. All writes normalize and
// validate fields before hitting the database; uniqueness is enforced by
// the email index created at startup.
package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/campusgames/meethub/internal/app/system/normalize"
	"github.com/campusgames/meethub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrDuplicateEmail is returned when the email is already registered.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	// ErrNotFound is returned when no user matches the query.
	ErrNotFound = errors.New("user not found")
	errBadRole  = errors.New(`role must be "admin"|"score_uploader"|"captain"|"student"|"guest"`)
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
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user after normalizing and validating fields.
// The Password field must already be a bcrypt hash.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.Name = normalize.Name(u.Name)
	u.Email = normalize.Email(u.Email)
	u.Role = normalize.Role(u.Role)
	u.IsActive = true

	if !models.ValidRole(u.Role) {
		return models.User{}, errBadRole
	}

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

// List returns all users, newest first.
func (s *Store) List(ctx context.Context) ([]models.User, error) {
	cur, err := s.c.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ListByHouse returns the members of a house sorted by role then name.
func (s *Store) ListByHouse(ctx context.Context, houseID primitive.ObjectID) ([]models.User, error) {
	cur, err := s.c.Find(ctx, bson.M{"house_id": houseID},
		options.Find().SetSort(bson.D{{Key: "role", Value: 1}, {Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateProfile changes a user's own mutable fields. Nil fields are left
// unchanged; a non-nil empty houseID clears the house.
func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, name *string, houseID *primitive.ObjectID) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if name != nil {
		set["name"] = normalize.Name(*name)
	}
	if houseID != nil {
		set["house_id"] = *houseID
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetPassword replaces the stored bcrypt hash.
func (s *Store) SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"password": hash, "updated_at": time.Now().UTC()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AdminUpdate holds the fields an admin may change on any user.
type AdminUpdate struct {
	Name       *string
	Role       *string
	HouseID    *primitive.ObjectID // non-nil sets; see ClearHouse to unset
	ClearHouse bool
	IsActive   *bool
	Password   *string // bcrypt hash
}

// ApplyAdminUpdate mutates a user record under admin authority.
func (s *Store) ApplyAdminUpdate(ctx context.Context, id primitive.ObjectID, upd AdminUpdate) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	unset := bson.M{}

	if upd.Name != nil {
		set["name"] = normalize.Name(*upd.Name)
	}
	if upd.Role != nil {
		role := normalize.Role(*upd.Role)
		if !models.ValidRole(role) {
			return errBadRole
		}
		set["role"] = role
	}
	if upd.ClearHouse {
		unset["house_id"] = ""
	} else if upd.HouseID != nil {
		set["house_id"] = *upd.HouseID
	}
	if upd.IsActive != nil {
		set["is_active"] = *upd.IsActive
	}
	if upd.Password != nil {
		set["password"] = *upd.Password
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AssignHouseRole sets a user's role and house together. Used when a
// house gains a captain.
func (s *Store) AssignHouseRole(ctx context.Context, id primitive.ObjectID, role string, houseID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"role":       role,
		"house_id":   houseID,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DemoteCaptain drops a captain back to student, keeping their house
// unless clearHouse is set (the house-deletion cascade clears it).
func (s *Store) DemoteCaptain(ctx context.Context, id primitive.ObjectID, clearHouse bool) error {
	update := bson.M{"$set": bson.M{
		"role":       models.RoleStudent,
		"updated_at": time.Now().UTC(),
	}}
	if clearHouse {
		update["$unset"] = bson.M{"house_id": ""}
	}
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

// DetachHouseMembers nulls the house reference on every member of the
// house. Part of the house-deletion cascade.
func (s *Store) DetachHouseMembers(ctx context.Context, houseID primitive.ObjectID) (int64, error) {
	res, err := s.c.UpdateMany(ctx, bson.M{"house_id": houseID}, bson.M{
		"$unset": bson.M{"house_id": ""},
		"$set":   bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
