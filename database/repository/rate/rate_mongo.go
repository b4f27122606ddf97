package rateRepo

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

// MongoRateRepo implements RateRepository using MongoDB.
type MongoRateRepo struct {
	coll *mongo.Collection
}

func NewMongoRateRepo(db *mongo.Database) RateRepository {
	repo := &MongoRateRepo{coll: db.Collection("rates")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create rate indexes: %v\n", err)
	}
	return repo
}

func (r *MongoRateRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Partial unique index: at most one active rate per lot and type.
	activeOpts := options.Index().
		SetUnique(true).
		SetPartialFilterExpression(bson.M{"isActive": true})

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "lotId", Value: 1}, {Key: "rateType", Value: 1}}, Options: activeOpts},
		{Keys: bson.D{{Key: "lotId", Value: 1}, {Key: "updatedAt", Value: -1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoRateRepo) Create(ctx context.Context, rate *models.ParkingRate) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rate.IsActive = false
	if _, err := r.coll.InsertOne(ctx, rate); err != nil {
		return fmt.Errorf("failed to create rate: %w", err)
	}
	return nil
}

func (r *MongoRateRepo) GetByID(ctx context.Context, id string) (*models.ParkingRate, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var rate models.ParkingRate
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&rate); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch rate %s: %w", id, err)
	}
	return &rate, nil
}

func (r *MongoRateRepo) ListByLot(ctx context.Context, lotID string, activeOnly bool) ([]models.ParkingRate, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"lotId": lotID}
	if activeOnly {
		filter["isActive"] = true
	}
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list rates for lot %s: %w", lotID, err)
	}
	defer cursor.Close(ctx)

	rates := []models.ParkingRate{}
	if err := cursor.All(ctx, &rates); err != nil {
		return nil, fmt.Errorf("failed to decode rates: %w", err)
	}
	return rates, nil
}

func (r *MongoRateRepo) Update(ctx context.Context, rate *models.ParkingRate) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rate.UpdatedAt = time.Now()
	update := bson.M{"$set": bson.M{
		"pricePerHour":    rate.PricePerHour,
		"pricePerDay":     rate.PricePerDay,
		"overnightPrice":  rate.OvernightPrice,
		"minChargeAmount": rate.MinChargeAmount,
		"maxChargePerDay": rate.MaxChargePerDay,
		"vipMultiplier":   rate.VIPMultiplier,
		"currency":        rate.Currency,
		"updatedAt":       rate.UpdatedAt,
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": rate.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update rate %s: %w", rate.ID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("rate with id %s not found", rate.ID)
	}
	return nil
}

// Activate swaps the active rate inside a transaction so the partial unique index never trips.
func (r *MongoRateRepo) Activate(ctx context.Context, id string) (*models.ParkingRate, error) {
	target, err := r.GetByID(ctx, id)
	if err != nil || target == nil {
		return nil, err
	}

	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	now := time.Now()
	var activated models.ParkingRate
	txnFn := func(sc mongo.SessionContext) error {
		others := bson.M{
			"lotId":    target.LotID,
			"rateType": target.RateType,
			"isActive": true,
			"id":       bson.M{"$ne": id},
		}
		if _, err := r.coll.UpdateMany(sc, others, bson.M{"$set": bson.M{"isActive": false, "updatedAt": now}}); err != nil {
			return fmt.Errorf("deactivate competing rates failed: %w", err)
		}

		opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
		update := bson.M{"$set": bson.M{"isActive": true, "updatedAt": now}}
		if err := r.coll.FindOneAndUpdate(sc, bson.M{"id": id}, update, opts).Decode(&activated); err != nil {
			return fmt.Errorf("activate rate failed: %w", err)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return nil, fmt.Errorf("rate activation transaction failed: %w", err)
	}
	return &activated, nil
}

func (r *MongoRateRepo) Deactivate(ctx context.Context, id string) (*models.ParkingRate, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now()}}

	var rate models.ParkingRate
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, update, opts).Decode(&rate); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to deactivate rate %s: %w", id, err)
	}
	return &rate, nil
}

func (r *MongoRateRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete rate %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("rate with id %s not found", id)
	}
	return nil
}

func (r *MongoRateRepo) DeleteByLot(ctx context.Context, lotID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.DeleteMany(ctx, bson.M{"lotId": lotID}); err != nil {
		return fmt.Errorf("failed to delete rates for lot %s: %w", lotID, err)
	}
	return nil
}
