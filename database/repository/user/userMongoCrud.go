// File: database/repository/user/userMongoCrud.go
package userRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"parkwise/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureUser upserts on id. Existing documents keep their role and profile.
func (r *MongoUserRepo) EnsureUser(ctx context.Context, user *models.User) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	update := bson.M{
		"$setOnInsert": bson.M{
			"id":        user.ID,
			"name":      user.Name,
			"phone":     user.Phone,
			"role":      user.Role,
			"createdAt": now,
		},
		"$set": bson.M{
			"email":     user.Email,
			"updatedAt": now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var stored models.User
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": user.ID}, update, opts).Decode(&stored); err != nil {
		return nil, fmt.Errorf("failed to upsert user %s: %w", user.ID, err)
	}
	return &stored, nil
}

func (r *MongoUserRepo) UpdateProfile(ctx context.Context, id string, input models.ProfileInput) (*models.User, error) {
	set := bson.M{"updatedAt": time.Now()}
	if input.Name != "" {
		set["name"] = input.Name
	}
	if input.Phone != "" {
		set["phone"] = input.Phone
	}
	return r.findAndSet(ctx, id, set)
}

func (r *MongoUserRepo) SetFCMToken(ctx context.Context, id, token string) error {
	return r.UpdateSetDocument(ctx, id, bson.M{"fcmToken": token, "updatedAt": time.Now()})
}

func (r *MongoUserRepo) SetRole(ctx context.Context, id, role string) (*models.User, error) {
	return r.findAndSet(ctx, id, bson.M{"role": role, "updatedAt": time.Now()})
}

func (r *MongoUserRepo) findAndSet(ctx context.Context, id string, set bson.M) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user models.User
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, bson.M{"$set": set}, opts).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update user with id %s: %w", id, err)
	}
	return &user, nil
}

func (r *MongoUserRepo) UpdateSetDocument(ctx context.Context, id string, updateDoc bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Wrap in $set to comply with MongoDB update syntax
	update := bson.M{"$set": updateDoc}

	filter := bson.M{"id": id}
	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update user with id %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("user with id %s not found", id)
	}
	return nil
}
