package ports

import (
	"context"

	"github.com/couponhub/coupon-marketplace/internal/core/domain"
)

// CustomerRepository defines persistence operations for customers and the
// customer↔coupon purchase relation.
type CustomerRepository interface {
	// Save inserts the customer when its id is zero, otherwise replaces the
	// existing record. Fails with domain.ErrDuplicateEntry when the unique
	// email collides with a different customer.
	Save(ctx context.Context, c *domain.Customer) (*domain.Customer, error)
	FindByID(ctx context.Context, id int64) (*domain.Customer, error)
	FindByEmail(ctx context.Context, email string) (*domain.Customer, error)
	FindAll(ctx context.Context) ([]*domain.Customer, error)
	// DeleteByID removes the customer and their purchase rows (cascade).
	DeleteByID(ctx context.Context, id int64) error

	// AddPurchase records the (customer, coupon) pair. Fails with
	// domain.ErrDuplicateEntry when the pair already exists; this is the only
	// place the already-purchased invariant can be detected.
	AddPurchase(ctx context.Context, customerID, couponID int64) error
	// RemovePurchase deletes the pair; removing an absent pair is a no-op.
	RemovePurchase(ctx context.Context, customerID, couponID int64) error

	PurchasedCoupons(ctx context.Context, customerID int64) ([]*domain.Coupon, error)
	CountPurchased(ctx context.Context, customerID int64) (int64, error)
	// NonPurchasedCoupons lists coupons the customer does not own, narrowed
	// by the optional filter fields.
	NonPurchasedCoupons(ctx context.Context, customerID int64, filter CouponFilter) ([]*domain.Coupon, error)
}

// CouponFilter narrows coupon list queries. Nil fields mean no constraint.
type CouponFilter struct {
	Category *int     // exact category code
	MaxPrice *float64 // price strictly below
}
