package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/couponhub/coupon-marketplace/internal/core/domain"
)

// CouponRepository persists coupons. Coupon deletion, single or bulk, always
// cascades the purchase rows so the relation never points at a missing
// coupon.
type CouponRepository struct {
	db        *mongo.Database
	col       *mongo.Collection
	purchases *mongo.Collection
}

func NewCouponRepository(db *mongo.Database) *CouponRepository {
	return &CouponRepository{
		db:        db,
		col:       db.Collection(collectionCoupons),
		purchases: db.Collection(collectionPurchases),
	}
}

// Save inserts when the id is zero, otherwise replaces the existing document.
func (r *CouponRepository) Save(ctx context.Context, c *domain.Coupon) (*domain.Coupon, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if c.ID == 0 {
		id, err := nextID(ctx, r.db, collectionCoupons)
		if err != nil {
			return nil, err
		}
		clone := *c
		clone.ID = id
		if _, err := r.col.InsertOne(ctx, clone); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, fmt.Errorf("%w: coupon title %q already used", domain.ErrDuplicateEntry, c.Title)
			}
			return nil, fmt.Errorf("insert coupon: %w", err)
		}
		return &clone, nil
	}

	if _, err := r.col.ReplaceOne(ctx, bson.M{"_id": c.ID}, c); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: coupon title %q already used", domain.ErrDuplicateEntry, c.Title)
		}
		return nil, fmt.Errorf("update coupon: %w", err)
	}
	return c, nil
}

func (r *CouponRepository) FindByID(ctx context.Context, id int64) (*domain.Coupon, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var c domain.Coupon
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: coupon %d", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("find coupon: %w", err)
	}
	return &c, nil
}

// DeleteByID removes the coupon and its purchase rows.
func (r *CouponRepository) DeleteByID(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.purchases.DeleteMany(ctx, bson.M{"coupon_id": id}); err != nil {
		return fmt.Errorf("cascade purchases: %w", err)
	}
	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete coupon: %w", err)
	}
	return nil
}

func (r *CouponRepository) FindAllByCompany(ctx context.Context, companyID int64) ([]*domain.Coupon, error) {
	return r.find(ctx, bson.M{"company_id": companyID})
}

func (r *CouponRepository) FindAllByCompanyAndCategory(ctx context.Context, companyID int64, category int) ([]*domain.Coupon, error) {
	return r.find(ctx, bson.M{"company_id": companyID, "category": category})
}

func (r *CouponRepository) FindAllByCompanyPriceLessThan(ctx context.Context, companyID int64, price float64) ([]*domain.Coupon, error) {
	return r.find(ctx, bson.M{"company_id": companyID, "price": bson.M{"$lt": price}})
}

func (r *CouponRepository) FindAllByCompanyEndingBefore(ctx context.Context, companyID int64, t time.Time) ([]*domain.Coupon, error) {
	return r.find(ctx, bson.M{"company_id": companyID, "end_date": bson.M{"$lt": t}})
}

func (r *CouponRepository) FindAllEndingBefore(ctx context.Context, t time.Time) ([]*domain.Coupon, error) {
	return r.find(ctx, bson.M{"end_date": bson.M{"$lt": t}})
}

// DeleteAllExpired removes every coupon whose end date is at or before now,
// cascading their purchase rows first.
func (r *CouponRepository) DeleteAllExpired(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"end_date": bson.M{"$lte": now}}
	ids, err := r.col.Distinct(ctx, "_id", filter)
	if err != nil {
		return 0, fmt.Errorf("list expired coupon ids: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	if _, err := r.purchases.DeleteMany(ctx, bson.M{"coupon_id": bson.M{"$in": ids}}); err != nil {
		return 0, fmt.Errorf("cascade purchases: %w", err)
	}
	res, err := r.col.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("delete expired coupons: %w", err)
	}
	return res.DeletedCount, nil
}

// CountSold reports how many customers currently hold the coupon.
func (r *CouponRepository) CountSold(ctx context.Context, couponID int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.purchases.CountDocuments(ctx, bson.M{"coupon_id": couponID})
	if err != nil {
		return 0, fmt.Errorf("count sold: %w", err)
	}
	return n, nil
}

func (r *CouponRepository) find(ctx context.Context, query bson.M) ([]*domain.Coupon, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	var coupons []*domain.Coupon
	if err := cursor.All(ctx, &coupons); err != nil {
		return nil, fmt.Errorf("decode coupons: %w", err)
	}
	return coupons, nil
}
