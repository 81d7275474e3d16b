package repository

import (
	"context"
	"time"

	"ecolife-backend/internal/database"
	"ecolife-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type UserRepo struct {
	collection *mongo.Collection
}

func NewUserRepo(db *database.Mongo) *UserRepo {
	return &UserRepo{
		collection: db.Collection("users"),
	}
}

// FindOrCreate returns the user for email, inserting one on first sign-in. The
// upsert makes concurrent first sign-ins for the same address land on one document.
func (r *UserRepo) FindOrCreate(ctx context.Context, email string) (*models.User, error) {
	now := time.Now()
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var user models.User
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"email": email},
		bson.M{
			"$set":         bson.M{"updated_at": now},
			"$setOnInsert": bson.M{"email": email, "created_at": now},
		},
		opts,
	).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// EnsureIndexes creates necessary indexes for the users collection
func (r *UserRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
