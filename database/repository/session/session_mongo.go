package sessionRepo

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

const defaultListLimit = 100

// MongoSessionRepo implements SessionRepository using MongoDB.
type MongoSessionRepo struct {
	sessionColl *mongo.Collection
	lotColl     *mongo.Collection
	invoiceColl *mongo.Collection
}

func NewMongoSessionRepo(db *mongo.Database) SessionRepository {
	repo := &MongoSessionRepo{
		sessionColl: db.Collection("sessions"),
		lotColl:     db.Collection("lots"),
		invoiceColl: db.Collection("invoices"),
	}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create session indexes: %v\n", err)
	}
	return repo
}

func (r *MongoSessionRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Partial unique index: a vehicle has at most one checked-in session.
	activeOpts := options.Index().
		SetUnique(true).
		SetPartialFilterExpression(bson.M{"status": models.SessionCheckedIn})

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "vehicleId", Value: 1}}, Options: activeOpts},
		{Keys: bson.D{{Key: "lotId", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "entryTime", Value: -1}}},
	}
	if _, err := r.sessionColl.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// withTransaction runs fn inside a Mongo transaction, aborting on error.
func (r *MongoSessionRepo) withTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	client := r.sessionColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	return mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := fn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	})
}

func (r *MongoSessionRepo) OpenTransactionally(ctx context.Context, session *models.ParkingSession) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err := r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		if _, err := r.sessionColl.InsertOne(sc, session); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return ErrActiveSessionExists
			}
			return fmt.Errorf("insert session failed: %w", err)
		}

		filter := bson.M{"id": session.LotID, "availableSpots": bson.M{"$gt": 0}}
		update := bson.M{
			"$inc": bson.M{"availableSpots": -1},
			"$set": bson.M{"updatedAt": session.EntryTime},
		}
		res, err := r.lotColl.UpdateOne(sc, filter, update)
		if err != nil {
			return fmt.Errorf("take spot failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return ErrNoSpotAvailable
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("check-in transaction failed: %w", err)
	}
	return nil
}

func (r *MongoSessionRepo) CloseTransactionally(ctx context.Context, session *models.ParkingSession, invoice *models.Invoice) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	released := false
	err := r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		released = false

		filter := bson.M{"id": session.ID, "status": models.SessionCheckedIn}
		update := bson.M{"$set": bson.M{
			"exitTime":        session.ExitTime,
			"durationMinutes": session.DurationMinutes,
			"charge":          session.Charge,
			"status":          models.SessionCheckedOut,
			"invoiceId":       session.InvoiceID,
			"exitSource":      session.ExitSource,
			"updatedAt":       session.UpdatedAt,
		}}
		res, err := r.sessionColl.UpdateOne(sc, filter, update)
		if err != nil {
			return fmt.Errorf("close session failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return ErrSessionNotActive
		}

		lotFilter := bson.M{
			"id":    session.LotID,
			"$expr": bson.M{"$lt": bson.A{"$availableSpots", "$totalSpots"}},
		}
		lotRes, err := r.lotColl.UpdateOne(sc, lotFilter, bson.M{
			"$inc": bson.M{"availableSpots": 1},
			"$set": bson.M{"updatedAt": session.UpdatedAt},
		})
		if err != nil {
			return fmt.Errorf("release spot failed: %w", err)
		}
		released = lotRes.MatchedCount > 0

		if _, err := r.invoiceColl.InsertOne(sc, invoice); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return ErrInvoiceExists
			}
			return fmt.Errorf("insert invoice failed: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("check-out transaction failed: %w", err)
	}
	return released, nil
}

func (r *MongoSessionRepo) findOne(ctx context.Context, filter bson.M) (*models.ParkingSession, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var s models.ParkingSession
	if err := r.sessionColl.FindOne(ctx, filter).Decode(&s); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch session: %w", err)
	}
	return &s, nil
}

func (r *MongoSessionRepo) GetByID(ctx context.Context, id string) (*models.ParkingSession, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *MongoSessionRepo) GetActiveByVehicle(ctx context.Context, vehicleID string) (*models.ParkingSession, error) {
	return r.findOne(ctx, bson.M{"vehicleId": vehicleID, "status": models.SessionCheckedIn})
}

func (r *MongoSessionRepo) List(ctx context.Context, f models.SessionFilter) ([]models.ParkingSession, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if f.LotID != "" {
		filter["lotId"] = f.LotID
	}
	if f.VehicleID != "" {
		filter["vehicleId"] = f.VehicleID
	}
	if f.OwnerID != "" {
		filter["ownerId"] = f.OwnerID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	opts := options.Find().SetSort(bson.D{{Key: "entryTime", Value: -1}}).SetLimit(limit)

	cursor, err := r.sessionColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer cursor.Close(ctx)

	sessions := []models.ParkingSession{}
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("failed to decode sessions: %w", err)
	}
	return sessions, nil
}

func (r *MongoSessionRepo) CountActiveByLot(ctx context.Context, lotID string) (int64, error) {
	return r.countActive(ctx, bson.M{"lotId": lotID})
}

func (r *MongoSessionRepo) CountActiveByVehicle(ctx context.Context, vehicleID string) (int64, error) {
	return r.countActive(ctx, bson.M{"vehicleId": vehicleID})
}

func (r *MongoSessionRepo) countActive(ctx context.Context, filter bson.M) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter["status"] = models.SessionCheckedIn
	n, err := r.sessionColl.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count active sessions: %w", err)
	}
	return n, nil
}
