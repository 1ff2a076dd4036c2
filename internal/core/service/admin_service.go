package service

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/couponhub/coupon-marketplace/internal/core/domain"
	"github.com/couponhub/coupon-marketplace/internal/core/ports"
)

// AdminService implements company and customer management for the ADMIN role.
type AdminService struct {
	companies ports.CompanyRepository
	customers ports.CustomerRepository
	log       zerolog.Logger
}

func NewAdminService(companies ports.CompanyRepository, customers ports.CustomerRepository, log zerolog.Logger) *AdminService {
	return &AdminService{companies: companies, customers: customers, log: log}
}

func (s *AdminService) SaveCompany(ctx context.Context, in ports.SaveCompanyInput) (*domain.Company, error) {
	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	company, err := s.companies.Save(ctx, &domain.Company{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("company_id", company.ID).Str("name", company.Name).Msg("company created")
	return company, nil
}

func (s *AdminService) UpdateCompany(ctx context.Context, in ports.UpdateCompanyInput) (*domain.Company, error) {
	existing, err := s.companies.FindByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	updated := &domain.Company{
		ID:           existing.ID,
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: existing.PasswordHash,
	}
	if in.Password != "" {
		hash, err := hashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		updated.PasswordHash = hash
	}

	return s.companies.Save(ctx, updated)
}

func (s *AdminService) DeleteCompany(ctx context.Context, id int64) error {
	if _, err := s.companies.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.companies.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("company_id", id).Msg("company deleted")
	return nil
}

func (s *AdminService) GetCompany(ctx context.Context, id int64) (*domain.Company, error) {
	return s.companies.FindByID(ctx, id)
}

func (s *AdminService) ListCompanies(ctx context.Context) ([]*domain.Company, error) {
	return s.companies.FindAll(ctx)
}

func (s *AdminService) SaveCustomer(ctx context.Context, in ports.SaveCustomerInput) (*domain.Customer, error) {
	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	customer, err := s.customers.Save(ctx, &domain.Customer{
		Email:        in.Email,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("customer_id", customer.ID).Msg("customer created")
	return customer, nil
}

func (s *AdminService) UpdateCustomer(ctx context.Context, in ports.UpdateCustomerInput) (*domain.Customer, error) {
	existing, err := s.customers.FindByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	updated := &domain.Customer{
		ID:           existing.ID,
		Email:        in.Email,
		PasswordHash: existing.PasswordHash,
	}
	if in.Password != "" {
		hash, err := hashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		updated.PasswordHash = hash
	}

	return s.customers.Save(ctx, updated)
}

func (s *AdminService) DeleteCustomer(ctx context.Context, id int64) error {
	if _, err := s.customers.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.customers.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("customer_id", id).Msg("customer deleted")
	return nil
}

func (s *AdminService) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	return s.customers.FindByID(ctx, id)
}

func (s *AdminService) ListCustomers(ctx context.Context) ([]*domain.Customer, error) {
	return s.customers.FindAll(ctx)
}

func hashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
