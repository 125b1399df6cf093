package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Interview is one persisted interview definition. It is created once
// from generated questions and never updated afterwards.
type Interview struct {
	ID         string   `bson:"_id" json:"id"`
	Role       string   `bson:"role" json:"role"`
	Level      string   `bson:"level" json:"level"`
	Type       string   `bson:"type" json:"type"`
	TechStack  []string `bson:"techStack" json:"techStack"`
	Questions  []string `bson:"questions" json:"questions"`
	UserID     string   `bson:"userId" json:"userId"`
	CoverImage string   `bson:"coverImage" json:"coverImage"`
	Finalized  bool     `bson:"finalized" json:"finalized"`
	CreatedAt  string   `bson:"createdAt" json:"createdAt"`
}

// Interviews is the repository over the interviews collection.
type Interviews struct {
	col *mongo.Collection
}

// NewInterviews binds the repository to its collection.
func NewInterviews(c *Client) *Interviews {
	return &Interviews{col: c.db.Collection("interviews")}
}

// Create inserts a new interview, assigning id and creation time when
// absent.
func (r *Interviews) Create(ctx context.Context, iv *Interview) error {
	if iv.Role == "" {
		return errors.New("role required")
	}
	if iv.ID == "" {
		iv.ID = uuid.NewString()
	}
	if iv.CreatedAt == "" {
		iv.CreatedAt = nowISO()
	}
	_, err := r.col.InsertOne(ctx, iv)
	return err
}

// Get fetches one interview by id.
func (r *Interviews) Get(ctx context.Context, id string) (*Interview, error) {
	var iv Interview
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&iv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &iv, nil
}

// ListByUser returns the user's own interviews, newest first.
func (r *Interviews) ListByUser(ctx context.Context, userID string) ([]Interview, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []Interview
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListCommunity returns finalized interviews from other users, newest
// first. The $ne filter combined with the sort is a known scaling
// limitation of this query shape; kept as-is.
func (r *Interviews) ListCommunity(ctx context.Context, userID string, limit int64) ([]Interview, error) {
	if limit <= 0 {
		limit = 20
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)
	filter := bson.M{
		"finalized": true,
		"userId":    bson.M{"$ne": userID},
	}
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []Interview
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
