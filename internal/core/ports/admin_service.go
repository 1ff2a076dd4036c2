package ports

import (
	"context"

	"github.com/couponhub/coupon-marketplace/internal/core/domain"
)

// SaveCompanyInput carries the data to create a company account.
type SaveCompanyInput struct {
	Name     string
	Email    string
	Password string
}

// UpdateCompanyInput carries a company update. An empty Password keeps the
// current credential.
type UpdateCompanyInput struct {
	ID       int64
	Name     string
	Email    string
	Password string
}

// SaveCustomerInput carries the data to create a customer account.
type SaveCustomerInput struct {
	Email    string
	Password string
}

// UpdateCustomerInput carries a customer update. An empty Password keeps the
// current credential.
type UpdateCustomerInput struct {
	ID       int64
	Email    string
	Password string
}

// AdminService defines the administrator's company and customer management
// operations.
type AdminService interface {
	SaveCompany(ctx context.Context, in SaveCompanyInput) (*domain.Company, error)
	UpdateCompany(ctx context.Context, in UpdateCompanyInput) (*domain.Company, error)
	DeleteCompany(ctx context.Context, id int64) error
	GetCompany(ctx context.Context, id int64) (*domain.Company, error)
	ListCompanies(ctx context.Context) ([]*domain.Company, error)

	SaveCustomer(ctx context.Context, in SaveCustomerInput) (*domain.Customer, error)
	UpdateCustomer(ctx context.Context, in UpdateCustomerInput) (*domain.Customer, error)
	DeleteCustomer(ctx context.Context, id int64) error
	GetCustomer(ctx context.Context, id int64) (*domain.Customer, error)
	ListCustomers(ctx context.Context) ([]*domain.Customer, error)
}
