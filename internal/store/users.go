package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// User is one identity-provider account mirrored into the document store.
type User struct {
	ID          string `bson:"_id" json:"id"`
	Name        string `bson:"name" json:"name"`
	Email       string `bson:"email" json:"email"`
	PhotoURL    string `bson:"photoURL" json:"photoURL"`
	ImgPublicID string `bson:"imgPublicId" json:"imgPublicId"`
}

// Users is the repository over the users collection.
type Users struct {
	col *mongo.Collection
}

// NewUsers binds the repository to its collection.
func NewUsers(c *Client) *Users {
	return &Users{col: c.db.Collection("users")}
}

// Create inserts the user record keyed by the provider uid. If the record
// already exists it is left untouched.
func (r *Users) Create(ctx context.Context, u *User) error {
	if u.ID == "" {
		return errors.New("user id required")
	}
	err := r.col.FindOne(ctx, bson.M{"_id": u.ID}).Err()
	if err == nil {
		return nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}
	_, err = r.col.InsertOne(ctx, u)
	return err
}

// Get fetches one user by uid.
func (r *Users) Get(ctx context.Context, id string) (*User, error) {
	var u User
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail fetches one user by email address.
func (r *Users) GetByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdatePhoto replaces the user's profile image reference.
func (r *Users) UpdatePhoto(ctx context.Context, id, photoURL, imgPublicID string) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"photoURL":    photoURL,
		"imgPublicId": imgPublicID,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
