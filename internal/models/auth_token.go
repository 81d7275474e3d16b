package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// LoginToken is a single-use magic-link token.
type LoginToken struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Email     string        `bson:"email" json:"email"`
	Token     string        `bson:"token" json:"-"`
	ExpiresAt time.Time     `bson:"expires_at" json:"expires_at"`
	IsUsed    bool          `bson:"is_used" json:"is_used"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at"`
}

func (t *LoginToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
