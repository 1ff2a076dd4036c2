package ports

import (
	"context"

	"github.com/couponhub/coupon-marketplace/internal/core/domain"
)

// CompanyRepository defines persistence operations for companies.
type CompanyRepository interface {
	// Save inserts the company when its id is zero, otherwise replaces the
	// existing record. Fails with domain.ErrDuplicateEntry when the unique
	// name collides with a different company.
	Save(ctx context.Context, c *domain.Company) (*domain.Company, error)
	FindByID(ctx context.Context, id int64) (*domain.Company, error)
	FindByEmail(ctx context.Context, email string) (*domain.Company, error)
	FindAll(ctx context.Context) ([]*domain.Company, error)
	// DeleteByID removes the company together with its coupons and their
	// purchase rows (cascade).
	DeleteByID(ctx context.Context, id int64) error
}
