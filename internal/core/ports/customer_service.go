package ports

import (
	"context"
	"time"

	"github.com/couponhub/coupon-marketplace/internal/core/domain"
)

// CustomerService defines the operations available to a logged-in customer,
// including the purchase/return inventory transaction.
type CustomerService interface {
	GetCustomer(ctx context.Context, customerID int64) (*domain.Customer, error)
	UpdateCustomer(ctx context.Context, customerID int64, in UpdateCustomerInput) (*domain.Customer, error)

	// Purchase reserves one unit of the coupon for the customer. Fails with
	// domain.ErrNotFound when either side is missing, domain.ErrSoldOut at
	// zero inventory, and domain.ErrDuplicateEntry when the customer already
	// holds the coupon; in the duplicate case the reserved unit is restored.
	Purchase(ctx context.Context, customerID, couponID int64) (*domain.Coupon, error)
	// Return gives one unit back and releases the customer's hold on the
	// coupon. The relation removal is a no-op when the customer never held
	// it; the amount is incremented regardless.
	Return(ctx context.Context, customerID, couponID int64) (*domain.Coupon, error)

	PurchasedCoupons(ctx context.Context, customerID int64) ([]*domain.Coupon, error)
	PurchasedCount(ctx context.Context, customerID int64) (int64, error)
	AvailableCoupons(ctx context.Context, customerID int64) ([]*domain.Coupon, error)
	AvailableCouponsByCategory(ctx context.Context, customerID int64, category int) ([]*domain.Coupon, error)
	AvailableCouponsPriceBelow(ctx context.Context, customerID int64, price float64) ([]*domain.Coupon, error)
	CouponsEndingBefore(ctx context.Context, t time.Time) ([]*domain.Coupon, error)
}
