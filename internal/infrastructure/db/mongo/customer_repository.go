package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/couponhub/coupon-marketplace/internal/core/domain"
	"github.com/couponhub/coupon-marketplace/internal/core/ports"
)

// CustomerRepository persists customers and the customer↔coupon purchase
// relation. The relation lives in its own collection whose unique
// (customer_id, coupon_id) index is what surfaces duplicate purchases.
type CustomerRepository struct {
	db        *mongo.Database
	col       *mongo.Collection
	purchases *mongo.Collection
	coupons   *mongo.Collection
}

func NewCustomerRepository(db *mongo.Database) *CustomerRepository {
	return &CustomerRepository{
		db:        db,
		col:       db.Collection(collectionCustomers),
		purchases: db.Collection(collectionPurchases),
		coupons:   db.Collection(collectionCoupons),
	}
}

type purchaseDoc struct {
	CustomerID  int64     `bson:"customer_id"`
	CouponID    int64     `bson:"coupon_id"`
	PurchasedAt time.Time `bson:"purchased_at"`
}

// Save inserts when the id is zero, otherwise replaces the existing document.
func (r *CustomerRepository) Save(ctx context.Context, c *domain.Customer) (*domain.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if c.ID == 0 {
		id, err := nextID(ctx, r.db, collectionCustomers)
		if err != nil {
			return nil, err
		}
		clone := *c
		clone.ID = id
		if _, err := r.col.InsertOne(ctx, clone); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, fmt.Errorf("%w: customer email %q already used", domain.ErrDuplicateEntry, c.Email)
			}
			return nil, fmt.Errorf("insert customer: %w", err)
		}
		return &clone, nil
	}

	if _, err := r.col.ReplaceOne(ctx, bson.M{"_id": c.ID}, c); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: customer email %q already used", domain.ErrDuplicateEntry, c.Email)
		}
		return nil, fmt.Errorf("update customer: %w", err)
	}
	return c, nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, id int64) (*domain.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var c domain.Customer
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: customer %d", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("find customer: %w", err)
	}
	return &c, nil
}

func (r *CustomerRepository) FindByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var c domain.Customer
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: customer with email %q", domain.ErrNotFound, email)
		}
		return nil, fmt.Errorf("find customer by email: %w", err)
	}
	return &c, nil
}

func (r *CustomerRepository) FindAll(ctx context.Context) ([]*domain.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	var customers []*domain.Customer
	if err := cursor.All(ctx, &customers); err != nil {
		return nil, fmt.Errorf("decode customers: %w", err)
	}
	return customers, nil
}

// DeleteByID removes the customer and their purchase rows.
func (r *CustomerRepository) DeleteByID(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.purchases.DeleteMany(ctx, bson.M{"customer_id": id}); err != nil {
		return fmt.Errorf("cascade purchases: %w", err)
	}
	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	return nil
}

// AddPurchase inserts the (customer, coupon) pair; the unique compound index
// rejects a second purchase of the same coupon by the same customer.
func (r *CustomerRepository) AddPurchase(ctx context.Context, customerID, couponID int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := purchaseDoc{CustomerID: customerID, CouponID: couponID, PurchasedAt: time.Now().UTC()}
	if _, err := r.purchases.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: customer %d already holds coupon %d", domain.ErrDuplicateEntry, customerID, couponID)
		}
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

// RemovePurchase deletes the pair. Deleting an absent pair matches zero
// documents, which is the no-op the return flow relies on.
func (r *CustomerRepository) RemovePurchase(ctx context.Context, customerID, couponID int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.purchases.DeleteOne(ctx, bson.M{"customer_id": customerID, "coupon_id": couponID}); err != nil {
		return fmt.Errorf("delete purchase: %w", err)
	}
	return nil
}

func (r *CustomerRepository) PurchasedCoupons(ctx context.Context, customerID int64) ([]*domain.Coupon, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	ids, err := r.purchasedCouponIDs(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return r.findCoupons(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *CustomerRepository) CountPurchased(ctx context.Context, customerID int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.purchases.CountDocuments(ctx, bson.M{"customer_id": customerID})
	if err != nil {
		return 0, fmt.Errorf("count purchases: %w", err)
	}
	return n, nil
}

// NonPurchasedCoupons lists coupons the customer does not hold, narrowed by
// the optional filter fields.
func (r *CustomerRepository) NonPurchasedCoupons(ctx context.Context, customerID int64, filter ports.CouponFilter) ([]*domain.Coupon, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	ids, err := r.purchasedCouponIDs(ctx, customerID)
	if err != nil {
		return nil, err
	}

	query := bson.M{}
	if len(ids) > 0 {
		query["_id"] = bson.M{"$nin": ids}
	}
	if filter.Category != nil {
		query["category"] = *filter.Category
	}
	if filter.MaxPrice != nil {
		query["price"] = bson.M{"$lt": *filter.MaxPrice}
	}
	return r.findCoupons(ctx, query)
}

func (r *CustomerRepository) purchasedCouponIDs(ctx context.Context, customerID int64) ([]interface{}, error) {
	ids, err := r.purchases.Distinct(ctx, "coupon_id", bson.M{"customer_id": customerID})
	if err != nil {
		return nil, fmt.Errorf("list purchased coupon ids: %w", err)
	}
	return ids, nil
}

func (r *CustomerRepository) findCoupons(ctx context.Context, query bson.M) ([]*domain.Coupon, error) {
	cursor, err := r.coupons.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	var coupons []*domain.Coupon
	if err := cursor.All(ctx, &coupons); err != nil {
		return nil, fmt.Errorf("decode coupons: %w", err)
	}
	return coupons, nil
}
