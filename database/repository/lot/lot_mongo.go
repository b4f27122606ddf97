package lotRepo

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

const defaultNearbyRadiusKm = 5

// MongoLotRepo implements LotRepository using MongoDB.
type MongoLotRepo struct {
	coll *mongo.Collection
}

// NewMongoLotRepo creates a LotRepository backed by the "lots" collection.
func NewMongoLotRepo(db *mongo.Database) LotRepository {
	repo := &MongoLotRepo{coll: db.Collection("lots")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create lot indexes: %v\n", err)
	}
	return repo
}

func (r *MongoLotRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
		{Keys: bson.D{{Key: "name", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoLotRepo) Create(ctx context.Context, lot *models.ParkingLot) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, lot); err != nil {
		return fmt.Errorf("failed to create lot: %w", err)
	}
	return nil
}

func (r *MongoLotRepo) GetByID(ctx context.Context, id string) (*models.ParkingLot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var lot models.ParkingLot
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&lot); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch lot %s: %w", id, err)
	}
	return &lot, nil
}

func (r *MongoLotRepo) List(ctx context.Context) ([]models.ParkingLot, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list lots: %w", err)
	}
	defer cursor.Close(ctx)

	lots := []models.ParkingLot{}
	if err := cursor.All(ctx, &lots); err != nil {
		return nil, fmt.Errorf("failed to decode lots: %w", err)
	}
	return lots, nil
}

// Nearby returns lots ordered by distance from the query point.
func (r *MongoLotRepo) Nearby(ctx context.Context, q models.NearbyQuery) ([]models.ParkingLot, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	radius := q.RadiusKm
	if radius <= 0 {
		radius = defaultNearbyRadiusKm
	}
	filter := bson.M{
		"location": bson.M{
			"$nearSphere": bson.M{
				"$geometry": bson.M{
					"type":        "Point",
					"coordinates": []float64{q.Longitude, q.Latitude},
				},
				"$maxDistance": radius * 1000,
			},
		},
	}
	if q.OnlyAvailable {
		filter["availableSpots"] = bson.M{"$gt": 0}
	}

	opts := options.Find()
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("nearby lot query failed: %w", err)
	}
	defer cursor.Close(ctx)

	lots := []models.ParkingLot{}
	if err := cursor.All(ctx, &lots); err != nil {
		return nil, fmt.Errorf("failed to decode lots: %w", err)
	}
	return lots, nil
}

func (r *MongoLotRepo) UpdateDetails(ctx context.Context, lot *models.ParkingLot) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	lot.UpdatedAt = time.Now()
	update := bson.M{"$set": bson.M{
		"name":            lot.Name,
		"address":         lot.Address,
		"location":        lot.Location,
		"operatingHours":  lot.OperatingHours,
		"contact":         lot.Contact,
		"overdueFee":      lot.OverdueFee,
		"paymentDueHours": lot.PaymentDueHours,
		"updatedAt":       lot.UpdatedAt,
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": lot.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update lot %s: %w", lot.ID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("lot with id %s not found", lot.ID)
	}
	return nil
}

// UpdateCapacity applies the change in one pipeline update guarded by the occupancy check.
func (r *MongoLotRepo) UpdateCapacity(ctx context.Context, id string, total int) (*models.ParkingLot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id": id,
		"$expr": bson.M{"$gte": bson.A{
			total,
			bson.M{"$subtract": bson.A{"$totalSpots", "$availableSpots"}},
		}},
	}
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "availableSpots", Value: bson.M{"$subtract": bson.A{
				total,
				bson.M{"$subtract": bson.A{"$totalSpots", "$availableSpots"}},
			}}},
			{Key: "totalSpots", Value: total},
			{Key: "updatedAt", Value: time.Now()},
		}}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var lot models.ParkingLot
	if err := r.coll.FindOneAndUpdate(ctx, filter, pipeline, opts).Decode(&lot); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update capacity of lot %s: %w", id, err)
	}
	return &lot, nil
}

func (r *MongoLotRepo) SetPhotoURL(ctx context.Context, id, url string) error {
	return r.setFields(ctx, id, bson.M{"photoUrl": url})
}

func (r *MongoLotRepo) SetScannerKeyHash(ctx context.Context, id, hash string) error {
	return r.setFields(ctx, id, bson.M{"scannerKeyHash": hash})
}

func (r *MongoLotRepo) setFields(ctx context.Context, id string, fields bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	fields["updatedAt"] = time.Now()
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update lot %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("lot with id %s not found", id)
	}
	return nil
}

func (r *MongoLotRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete lot %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("lot with id %s not found", id)
	}
	return nil
}
