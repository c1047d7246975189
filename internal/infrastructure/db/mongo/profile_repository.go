package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dearecho/dearecho-api/internal/core/domain"
)

const profileCollection = "user_profiles"

// ProfileRepository is the best-effort profile document store written at
// registration time. Callers log failures and continue; nothing in the
// primary flow depends on these documents existing.
type ProfileRepository struct {
	coll *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{coll: db.Collection(profileCollection)}
}

func (r *ProfileRepository) WriteProfile(ctx context.Context, userID string, profile domain.Profile) error {
	_, err := r.coll.ReplaceOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"_id":        userID,
			"name":       profile.Name,
			"email":      profile.Email,
			"role":       profile.Role,
			"created_at": profile.CreatedAt.Unix(),
		},
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("write profile: %w", err)
	}
	return nil
}
