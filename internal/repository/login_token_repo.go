package repository

import (
	"context"
	"errors"
	"time"

	"ecolife-backend/internal/database"
	"ecolife-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type LoginTokenRepo struct {
	collection *mongo.Collection
}

func NewLoginTokenRepo(db *database.Mongo) *LoginTokenRepo {
	return &LoginTokenRepo{
		collection: db.Collection("login_tokens"),
	}
}

func (r *LoginTokenRepo) Create(ctx context.Context, token *models.LoginToken) error {
	token.CreatedAt = time.Now()
	result, err := r.collection.InsertOne(ctx, token)
	if err != nil {
		return err
	}
	token.ID = result.InsertedID.(bson.ObjectID)
	return nil
}

func (r *LoginTokenRepo) FindByToken(ctx context.Context, token string) (*models.LoginToken, error) {
	var loginToken models.LoginToken
	err := r.collection.FindOne(ctx, bson.M{"token": token}).Decode(&loginToken)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &loginToken, nil
}

// MarkUsed flips is_used and reports whether this call was the one that did it, so a
// token clicked twice at the same time is only redeemed once.
func (r *LoginTokenRepo) MarkUsed(ctx context.Context, token string) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"token": token, "is_used": false},
		bson.M{"$set": bson.M{"is_used": true}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// CountRecentByEmail counts tokens issued for email within the window.
func (r *LoginTokenRepo) CountRecentByEmail(ctx context.Context, email string, window time.Duration) (int64, error) {
	since := time.Now().Add(-window)
	return r.collection.CountDocuments(ctx, bson.M{
		"email":      email,
		"created_at": bson.M{"$gte": since},
	})
}

// EnsureIndexes creates necessary indexes for the login_tokens collection
func (r *LoginTokenRepo) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "email", Value: 1}, {Key: "created_at", Value: -1}},
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0), // TTL: mongo drops expired tokens
		},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}
