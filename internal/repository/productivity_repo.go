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

// ProductivityRepo stores one composite goals/tasks/habits document per user, keyed
// by the user id.
type ProductivityRepo struct {
	collection *mongo.Collection
}

func NewProductivityRepo(db *database.Mongo) *ProductivityRepo {
	return &ProductivityRepo{
		collection: db.Collection("productivity"),
	}
}

// Load returns nil, nil when the user has no document yet.
func (r *ProductivityRepo) Load(ctx context.Context, userID string) (*models.ProductivityRecord, error) {
	var doc models.ProductivityDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	record := doc.Record()
	return &record, nil
}

// Save writes all three collections together, creating the document on first write.
// Other fields on the document are left alone.
func (r *ProductivityRepo) Save(ctx context.Context, userID string, record models.ProductivityRecord) error {
	record = normalize(record)
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{
			"goals":      record.Goals,
			"tasks":      record.Tasks,
			"habits":     record.Habits,
			"updated_at": time.Now(),
		}},
		options.UpdateOne().SetUpsert(true),
	)
	return err
}

// normalize keeps empty collections as arrays rather than nulls in the document.
func normalize(record models.ProductivityRecord) models.ProductivityRecord {
	if record.Goals == nil {
		record.Goals = []models.Goal{}
	}
	if record.Tasks == nil {
		record.Tasks = []models.Task{}
	}
	if record.Habits == nil {
		record.Habits = []models.Habit{}
	}
	return record
}
