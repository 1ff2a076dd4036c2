package ports

import (
	"context"
	"time"

	"github.com/couponhub/coupon-marketplace/internal/core/domain"
)

// CouponInput carries the coupon fields a company controls. The owning
// company id is always taken from the session, never from the payload.
type CouponInput struct {
	Title       string
	StartDate   time.Time
	EndDate     time.Time
	Category    int
	Amount      int
	Price       float64
	Description string
	ImageURL    string
}

// CompanyService defines the operations available to a logged-in company.
// Every coupon mutation is scoped to the company driving the request.
type CompanyService interface {
	GetCompany(ctx context.Context, companyID int64) (*domain.Company, error)
	UpdateCompany(ctx context.Context, companyID int64, in UpdateCompanyInput) (*domain.Company, error)

	SaveCoupon(ctx context.Context, companyID int64, in CouponInput) (*domain.Coupon, error)
	// UpdateCoupon fails with domain.ErrForbidden when the coupon belongs to
	// a different company.
	UpdateCoupon(ctx context.Context, companyID, couponID int64, in CouponInput) (*domain.Coupon, error)
	// DeleteCoupon fails with domain.ErrForbidden when the coupon belongs to
	// a different company.
	DeleteCoupon(ctx context.Context, companyID, couponID int64) error
	GetCoupon(ctx context.Context, couponID int64) (*domain.Coupon, error)

	// ListCoupons returns the company's coupons ordered most sold first.
	ListCoupons(ctx context.Context, companyID int64) ([]*domain.Coupon, error)
	ListCouponsByCategory(ctx context.Context, companyID int64, category int) ([]*domain.Coupon, error)
	ListCouponsPriceBelow(ctx context.Context, companyID int64, price float64) ([]*domain.Coupon, error)
	ListCouponsEndingBefore(ctx context.Context, companyID int64, t time.Time) ([]*domain.Coupon, error)
}
