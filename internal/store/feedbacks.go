package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Mikael-duru/mockwise/internal/agent"
)

// Feedback is one persisted scoring record. Created exactly once at call
// end and never mutated. Nothing enforces uniqueness per (interview,
// user); retaking an interview appends another record and reads return
// the newest.
type Feedback struct {
	ID                  string          `bson:"_id" json:"id"`
	InterviewID         string          `bson:"interviewId" json:"interviewId"`
	UserID              string          `bson:"userId" json:"userId"`
	TotalScore          int             `bson:"totalScore" json:"totalScore"`
	CategoryScores      []CategoryScore `bson:"categoryScores" json:"categoryScores"`
	Strengths           []string        `bson:"strengths" json:"strengths"`
	Weaknesses          []string        `bson:"weaknesses" json:"weaknesses"`
	AreasForImprovement []string        `bson:"areasForImprovement" json:"areasForImprovement"`
	FinalAssessment     string          `bson:"finalAssessment" json:"finalAssessment"`
	CreatedAt           string          `bson:"createdAt" json:"createdAt"`
}

// CategoryScore is a stored per-category score with comment.
type CategoryScore struct {
	Name    string `bson:"name" json:"name"`
	Score   int    `bson:"score" json:"score"`
	Comment string `bson:"comment" json:"comment"`
}

// Feedbacks is the repository over the feedbacks collection.
type Feedbacks struct {
	col *mongo.Collection
}

// NewFeedbacks binds the repository to its collection.
func NewFeedbacks(c *Client) *Feedbacks {
	return &Feedbacks{col: c.db.Collection("feedbacks")}
}

// CreateFeedback persists a scoring result and returns the new record id.
// Implements agent.FeedbackStore.
func (r *Feedbacks) CreateFeedback(ctx context.Context, interviewID, userID string, res *agent.FeedbackResult) (string, error) {
	if interviewID == "" || userID == "" {
		return "", errors.New("interview and user ids required")
	}
	fb := Feedback{
		ID:                  uuid.NewString(),
		InterviewID:         interviewID,
		UserID:              userID,
		TotalScore:          res.TotalScore,
		Strengths:           res.Strengths,
		Weaknesses:          res.Weaknesses,
		AreasForImprovement: res.AreasForImprovement,
		FinalAssessment:     res.FinalAssessment,
		CreatedAt:           nowISO(),
	}
	for _, cs := range res.CategoryScores {
		fb.CategoryScores = append(fb.CategoryScores, CategoryScore(cs))
	}
	if _, err := r.col.InsertOne(ctx, fb); err != nil {
		return "", err
	}
	return fb.ID, nil
}

// GetByIDs returns the newest feedback for an (interview, user) pair.
func (r *Feedbacks) GetByIDs(ctx context.Context, interviewID, userID string) (*Feedback, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	filter := bson.M{"interviewId": interviewID, "userId": userID}
	var fb Feedback
	err := r.col.FindOne(ctx, filter, opts).Decode(&fb)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &fb, nil
}
