package ports

import (
	"context"
	"time"

	"github.com/couponhub/coupon-marketplace/internal/core/domain"
)

// CouponRepository defines persistence operations for coupons.
type CouponRepository interface {
	// Save inserts the coupon when its id is zero, otherwise replaces the
	// existing record. Fails with domain.ErrDuplicateEntry when the unique
	// title collides with a different coupon.
	Save(ctx context.Context, c *domain.Coupon) (*domain.Coupon, error)
	FindByID(ctx context.Context, id int64) (*domain.Coupon, error)
	// DeleteByID removes the coupon and its purchase rows (cascade).
	DeleteByID(ctx context.Context, id int64) error

	FindAllByCompany(ctx context.Context, companyID int64) ([]*domain.Coupon, error)
	FindAllByCompanyAndCategory(ctx context.Context, companyID int64, category int) ([]*domain.Coupon, error)
	FindAllByCompanyPriceLessThan(ctx context.Context, companyID int64, price float64) ([]*domain.Coupon, error)
	FindAllByCompanyEndingBefore(ctx context.Context, companyID int64, t time.Time) ([]*domain.Coupon, error)
	FindAllEndingBefore(ctx context.Context, t time.Time) ([]*domain.Coupon, error)

	// DeleteAllExpired removes every coupon whose end date is at or before
	// now, cascading their purchase rows, and returns how many were deleted.
	DeleteAllExpired(ctx context.Context, now time.Time) (int64, error)
	// CountSold reports how many customers currently hold the coupon.
	CountSold(ctx context.Context, couponID int64) (int64, error)
}
