package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mamadbah2/salesbook/internal/domain/models"
)

const salesCollection = "daily_sales"

// salesDocument is the archived form of a sales record, keyed by its date string.
type salesDocument struct {
	Date          string               `bson:"_id"`
	Day           time.Time            `bson:"day"`
	Sets          int                  `bson:"sets"`
	Customers     int                  `bson:"customers"`
	Bowls         int                  `bson:"bowls"`
	PurchaseTotal primitive.Decimal128 `bson:"purchase_total"`
	TotalPrice    primitive.Decimal128 `bson:"total_price"`
	CashTotal     primitive.Decimal128 `bson:"cash_total"`
	CardTotal     primitive.Decimal128 `bson:"card_total"`
	USDTotal      primitive.Decimal128 `bson:"usd_total"`
	Remarks       string               `bson:"remarks,omitempty"`
	ArchivedAt    time.Time            `bson:"archived_at"`
}

// MongoDBRepository mirrors saved sales records into MongoDB. The sheet stays authoritative.
type MongoDBRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
	logger   *zap.Logger
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string, logger *zap.Logger) (*MongoDBRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client:   client,
		dbName:   dbName,
		collName: salesCollection,
		logger:   logger,
	}, nil
}

// SaveSalesRecord replaces the archived copy of the record's day, inserting it when absent.
func (r *MongoDBRepository) SaveSalesRecord(ctx context.Context, record models.SalesRecord) error {
	doc, err := toDocument(record, time.Now().UTC())
	if err != nil {
		return err
	}

	collection := r.client.Database(r.dbName).Collection(r.collName)
	_, err = collection.ReplaceOne(ctx, bson.M{"_id": doc.Date}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to archive sales record %s: %w", doc.Date, err)
	}

	r.logger.Debug("sales record archived", zap.String("date", doc.Date))
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func toDocument(record models.SalesRecord, archivedAt time.Time) (salesDocument, error) {
	doc := salesDocument{
		Date:       record.Key(),
		Day:        models.NormalizeDate(record.Date),
		Sets:       record.Sets,
		Customers:  record.Customers,
		Bowls:      record.Bowls,
		Remarks:    record.Remarks,
		ArchivedAt: archivedAt,
	}

	money := []struct {
		name string
		src  decimal.Decimal
		dst  *primitive.Decimal128
	}{
		{"purchase_total", record.PurchaseTotal, &doc.PurchaseTotal},
		{"total_price", record.TotalPrice, &doc.TotalPrice},
		{"cash_total", record.CashTotal, &doc.CashTotal},
		{"card_total", record.CardTotal, &doc.CardTotal},
		{"usd_total", record.USDTotal, &doc.USDTotal},
	}
	for _, m := range money {
		d, err := primitive.ParseDecimal128(m.src.String())
		if err != nil {
			return salesDocument{}, fmt.Errorf("convert %s %s: %w", m.name, m.src, err)
		}
		*m.dst = d
	}

	return doc, nil
}
