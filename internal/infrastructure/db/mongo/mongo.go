package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultTimeout = 10 * time.Second

const (
	collectionCompanies = "companies"
	collectionCustomers = "customers"
	collectionCoupons   = "coupons"
	collectionPurchases = "purchases"
	collectionCounters  = "counters"
)

// Config captures the minimal settings required to establish a MongoDB
// connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping,
// and returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}

// nextID allocates the next int64 id for the named sequence with an atomic
// $inc upsert on the counters collection. Entity ids stay integral so the
// admin sentinel (-1) can never collide with a generated id.
func nextID(ctx context.Context, db *mongo.Database, name string) (int64, error) {
	res := db.Collection(collectionCounters).FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	)

	var doc struct {
		Seq int64 `bson:"seq"`
	}
	if err := res.Decode(&doc); err != nil {
		return 0, fmt.Errorf("next id for %q: %w", name, err)
	}
	return doc.Seq, nil
}

// EnsureIndexes creates the indexes backing the marketplace invariants:
// unique company name, customer email, and coupon title, plus the unique
// (customer, coupon) purchase pair that detects duplicate purchases.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	unique := options.Index().SetUnique(true)

	byCollection := map[string][]mongo.IndexModel{
		collectionCompanies: {
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "email", Value: 1}}},
		},
		collectionCustomers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
		collectionCoupons: {
			{Keys: bson.D{{Key: "title", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "company_id", Value: 1}}},
			{Keys: bson.D{{Key: "end_date", Value: 1}}},
		},
		collectionPurchases: {
			{Keys: bson.D{{Key: "customer_id", Value: 1}, {Key: "coupon_id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "coupon_id", Value: 1}}},
		},
	}

	for name, indexes := range byCollection {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("ensure indexes on %s: %w", name, err)
		}
	}
	return nil
}
