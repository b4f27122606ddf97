package invoiceRepo

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

var payable = bson.M{"$in": bson.A{models.InvoicePending, models.InvoiceOverdue}}

// MongoInvoiceRepo implements InvoiceRepository using MongoDB.
type MongoInvoiceRepo struct {
	coll *mongo.Collection
}

func NewMongoInvoiceRepo(db *mongo.Database) InvoiceRepository {
	repo := &MongoInvoiceRepo{coll: db.Collection("invoices")}
	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create invoice indexes: %v\n", err)
	}
	return repo
}

func (r *MongoInvoiceRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "sessionId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "dueAt", Value: 1}}},
		{Keys: bson.D{{Key: "paymentId", Value: 1}}, Options: options.Index().SetSparse(true)},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoInvoiceRepo) findOne(ctx context.Context, filter bson.M) (*models.Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var inv models.Invoice
	if err := r.coll.FindOne(ctx, filter).Decode(&inv); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch invoice: %w", err)
	}
	return &inv, nil
}

func (r *MongoInvoiceRepo) GetByID(ctx context.Context, id string) (*models.Invoice, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *MongoInvoiceRepo) GetBySession(ctx context.Context, sessionID string) (*models.Invoice, error) {
	return r.findOne(ctx, bson.M{"sessionId": sessionID})
}

func (r *MongoInvoiceRepo) List(ctx context.Context, f models.InvoiceFilter) ([]models.Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if f.OwnerID != "" {
		filter["ownerId"] = f.OwnerID
	}
	if f.LotID != "" {
		filter["lotId"] = f.LotID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer cursor.Close(ctx)

	invoices := []models.Invoice{}
	if err := cursor.All(ctx, &invoices); err != nil {
		return nil, fmt.Errorf("failed to decode invoices: %w", err)
	}
	return invoices, nil
}

func (r *MongoInvoiceRepo) SetPaymentID(ctx context.Context, id, paymentID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"paymentId": paymentID, "updatedAt": time.Now()}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to set payment id on invoice %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("invoice with id %s not found", id)
	}
	return nil
}

// update runs a conditional FindOneAndUpdate and returns the document after the change.
func (r *MongoInvoiceRepo) update(ctx context.Context, filter bson.M, update interface{}) (*models.Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var inv models.Invoice
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&inv); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update invoice: %w", err)
	}
	return &inv, nil
}

func (r *MongoInvoiceRepo) MarkPaid(ctx context.Context, id, method, paymentID string, paidAt time.Time) (*models.Invoice, error) {
	return r.markPaid(ctx, bson.M{"id": id, "status": payable}, method, paymentID, paidAt)
}

func (r *MongoInvoiceRepo) MarkPaidForTotal(ctx context.Context, id string, total float64, method, paymentID string, paidAt time.Time) (*models.Invoice, error) {
	return r.markPaid(ctx, bson.M{"id": id, "status": payable, "total": total}, method, paymentID, paidAt)
}

func (r *MongoInvoiceRepo) markPaid(ctx context.Context, filter bson.M, method, paymentID string, paidAt time.Time) (*models.Invoice, error) {
	set := bson.M{
		"status":        models.InvoicePaid,
		"paymentMethod": method,
		"paidAt":        paidAt,
		"updatedAt":     paidAt,
	}
	if paymentID != "" {
		set["paymentId"] = paymentID
	}
	return r.update(ctx, filter, bson.M{"$set": set})
}

// chargePipeline appends charge and recomputes the rounded total.
func chargePipeline(charge models.OverdueCharge, status models.InvoiceStatus, now time.Time) mongo.Pipeline {
	set := bson.D{
		{Key: "overdueCharges", Value: bson.M{"$concatArrays": bson.A{
			bson.M{"$ifNull": bson.A{"$overdueCharges", bson.A{}}},
			bson.M{"$literal": bson.A{charge}},
		}}},
		{Key: "total", Value: bson.M{"$round": bson.A{
			bson.M{"$add": bson.A{"$total", charge.Amount}}, 2,
		}}},
		{Key: "updatedAt", Value: now},
	}
	if status != "" {
		set = append(set, bson.E{Key: "status", Value: status})
	}
	return mongo.Pipeline{bson.D{{Key: "$set", Value: set}}}
}

func (r *MongoInvoiceRepo) MarkOverdue(ctx context.Context, id string, charge *models.OverdueCharge, now time.Time) (*models.Invoice, error) {
	filter := bson.M{
		"id":     id,
		"status": models.InvoicePending,
		"dueAt":  bson.M{"$lte": now},
	}
	if charge == nil {
		return r.update(ctx, filter, bson.M{"$set": bson.M{"status": models.InvoiceOverdue, "updatedAt": now}})
	}
	return r.update(ctx, filter, chargePipeline(*charge, models.InvoiceOverdue, now))
}

func (r *MongoInvoiceRepo) AddCharge(ctx context.Context, id string, charge models.OverdueCharge) (*models.Invoice, error) {
	return r.update(ctx, bson.M{"id": id, "status": payable}, chargePipeline(charge, "", charge.CreatedAt))
}

func (r *MongoInvoiceRepo) Waive(ctx context.Context, id string) (*models.Invoice, error) {
	now := time.Now()
	return r.update(ctx, bson.M{"id": id, "status": payable}, bson.M{"$set": bson.M{
		"status":    models.InvoiceWaived,
		"updatedAt": now,
	}})
}
