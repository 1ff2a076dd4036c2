package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/couponhub/coupon-marketplace/internal/core/domain"
)

// CompanyRepository persists companies. Deleting a company cascades to its
// coupons and their purchase rows, matching what the service layer expects
// from the store.
type CompanyRepository struct {
	db  *mongo.Database
	col *mongo.Collection
}

func NewCompanyRepository(db *mongo.Database) *CompanyRepository {
	return &CompanyRepository{db: db, col: db.Collection(collectionCompanies)}
}

// Save inserts when the id is zero, otherwise replaces the existing document.
func (r *CompanyRepository) Save(ctx context.Context, c *domain.Company) (*domain.Company, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if c.ID == 0 {
		id, err := nextID(ctx, r.db, collectionCompanies)
		if err != nil {
			return nil, err
		}
		clone := *c
		clone.ID = id
		if _, err := r.col.InsertOne(ctx, clone); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, fmt.Errorf("%w: company name %q already used", domain.ErrDuplicateEntry, c.Name)
			}
			return nil, fmt.Errorf("insert company: %w", err)
		}
		return &clone, nil
	}

	if _, err := r.col.ReplaceOne(ctx, bson.M{"_id": c.ID}, c); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: company name %q already used", domain.ErrDuplicateEntry, c.Name)
		}
		return nil, fmt.Errorf("update company: %w", err)
	}
	return c, nil
}

func (r *CompanyRepository) FindByID(ctx context.Context, id int64) (*domain.Company, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var c domain.Company
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: company %d", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("find company: %w", err)
	}
	return &c, nil
}

func (r *CompanyRepository) FindByEmail(ctx context.Context, email string) (*domain.Company, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var c domain.Company
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: company with email %q", domain.ErrNotFound, email)
		}
		return nil, fmt.Errorf("find company by email: %w", err)
	}
	return &c, nil
}

func (r *CompanyRepository) FindAll(ctx context.Context) ([]*domain.Company, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	var companies []*domain.Company
	if err := cursor.All(ctx, &companies); err != nil {
		return nil, fmt.Errorf("decode companies: %w", err)
	}
	return companies, nil
}

// DeleteByID removes the company, its coupons, and the purchase rows of those
// coupons.
func (r *CompanyRepository) DeleteByID(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	coupons := r.db.Collection(collectionCoupons)
	couponIDs, err := coupons.Distinct(ctx, "_id", bson.M{"company_id": id})
	if err != nil {
		return fmt.Errorf("list company coupon ids: %w", err)
	}
	if len(couponIDs) > 0 {
		purchases := r.db.Collection(collectionPurchases)
		if _, err := purchases.DeleteMany(ctx, bson.M{"coupon_id": bson.M{"$in": couponIDs}}); err != nil {
			return fmt.Errorf("cascade purchases: %w", err)
		}
		if _, err := coupons.DeleteMany(ctx, bson.M{"company_id": id}); err != nil {
			return fmt.Errorf("cascade coupons: %w", err)
		}
	}

	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	return nil
}
