package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/couponhub/coupon-marketplace/internal/core/domain"
	"github.com/couponhub/coupon-marketplace/internal/core/ports"
)

// CouponCache abstracts the coupon read cache (Redis). Get returning
// (nil, nil) means a cache miss; cache failures are logged and never fail the
// request.
type CouponCache interface {
	Get(ctx context.Context, id int64) (*domain.Coupon, error)
	Set(ctx context.Context, coupon *domain.Coupon) error
	Invalidate(ctx context.Context, id int64) error
}

// CompanyService implements coupon management for the COMPANY role. Every
// mutation verifies that the coupon belongs to the company driving the
// request before touching it.
type CompanyService struct {
	coupons   ports.CouponRepository
	companies ports.CompanyRepository
	cache     CouponCache
	log       zerolog.Logger
}

func NewCompanyService(coupons ports.CouponRepository, companies ports.CompanyRepository, cache CouponCache, log zerolog.Logger) *CompanyService {
	return &CompanyService{coupons: coupons, companies: companies, cache: cache, log: log}
}

func (s *CompanyService) GetCompany(ctx context.Context, companyID int64) (*domain.Company, error) {
	return s.companies.FindByID(ctx, companyID)
}

func (s *CompanyService) UpdateCompany(ctx context.Context, companyID int64, in ports.UpdateCompanyInput) (*domain.Company, error) {
	existing, err := s.companies.FindByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	updated := &domain.Company{
		ID:           companyID, // a company can only ever update itself
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

func (s *CompanyService) SaveCoupon(ctx context.Context, companyID int64, in ports.CouponInput) (*domain.Coupon, error) {
	coupon, err := s.coupons.Save(ctx, couponFromInput(0, companyID, in))
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, coupon); err != nil {
		s.log.Warn().Err(err).Int64("coupon_id", coupon.ID).Msg("coupon cache set failed")
	}
	s.log.Info().Int64("coupon_id", coupon.ID).Int64("company_id", companyID).Str("title", coupon.Title).Msg("coupon created")
	return coupon, nil
}

func (s *CompanyService) UpdateCoupon(ctx context.Context, companyID, couponID int64, in ports.CouponInput) (*domain.Coupon, error) {
	existing, err := s.coupons.FindByID(ctx, couponID)
	if err != nil {
		return nil, err
	}
	if err := assertCompanyOwnsCoupon(companyID, existing); err != nil {
		return nil, err
	}

	coupon, err := s.coupons.Save(ctx, couponFromInput(couponID, companyID, in))
	if err != nil {
		return nil, err
	}

	s.invalidateCache(ctx, couponID)
	return coupon, nil
}

func (s *CompanyService) DeleteCoupon(ctx context.Context, companyID, couponID int64) error {
	existing, err := s.coupons.FindByID(ctx, couponID)
	if err != nil {
		return err
	}
	if err := assertCompanyOwnsCoupon(companyID, existing); err != nil {
		return err
	}

	if err := s.coupons.DeleteByID(ctx, couponID); err != nil {
		return err
	}

	s.invalidateCache(ctx, couponID)
	s.log.Info().Int64("coupon_id", couponID).Int64("company_id", companyID).Msg("coupon deleted")
	return nil
}

// GetCoupon serves from the Redis cache when possible, falling back to the
// repository and repopulating on a miss.
func (s *CompanyService) GetCoupon(ctx context.Context, couponID int64) (*domain.Coupon, error) {
	cached, err := s.cache.Get(ctx, couponID)
	if err != nil {
		s.log.Warn().Err(err).Int64("coupon_id", couponID).Msg("coupon cache get failed")
	} else if cached != nil {
		return cached, nil
	}

	coupon, err := s.coupons.FindByID(ctx, couponID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, coupon); err != nil {
		s.log.Warn().Err(err).Int64("coupon_id", couponID).Msg("coupon cache set failed")
	}
	return coupon, nil
}

// ListCoupons returns the company's coupons ordered most sold first.
func (s *CompanyService) ListCoupons(ctx context.Context, companyID int64) ([]*domain.Coupon, error) {
	coupons, err := s.coupons.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	sold := make(map[int64]int64, len(coupons))
	for _, c := range coupons {
		n, err := s.coupons.CountSold(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		sold[c.ID] = n
	}
	sort.SliceStable(coupons, func(i, j int) bool {
		return sold[coupons[i].ID] > sold[coupons[j].ID]
	})
	return coupons, nil
}

func (s *CompanyService) ListCouponsByCategory(ctx context.Context, companyID int64, category int) ([]*domain.Coupon, error) {
	return s.coupons.FindAllByCompanyAndCategory(ctx, companyID, category)
}

func (s *CompanyService) ListCouponsPriceBelow(ctx context.Context, companyID int64, price float64) ([]*domain.Coupon, error) {
	return s.coupons.FindAllByCompanyPriceLessThan(ctx, companyID, price)
}

func (s *CompanyService) ListCouponsEndingBefore(ctx context.Context, companyID int64, t time.Time) ([]*domain.Coupon, error) {
	return s.coupons.FindAllByCompanyEndingBefore(ctx, companyID, t)
}

func (s *CompanyService) invalidateCache(ctx context.Context, couponID int64) {
	if err := s.cache.Invalidate(ctx, couponID); err != nil {
		s.log.Warn().Err(err).Int64("coupon_id", couponID).Msg("coupon cache invalidate failed")
	}
}

// assertCompanyOwnsCoupon rejects any mutation of a coupon owned by a
// different company.
func assertCompanyOwnsCoupon(companyID int64, coupon *domain.Coupon) error {
	if coupon.CompanyID != companyID {
		return fmt.Errorf("%w: coupon %d belongs to company %d", domain.ErrForbidden, coupon.ID, coupon.CompanyID)
	}
	return nil
}

// couponFromInput builds the persisted coupon. The owning company id always
// comes from the session, so a payload can never reassign ownership.
func couponFromInput(id, companyID int64, in ports.CouponInput) *domain.Coupon {
	return &domain.Coupon{
		ID:          id,
		CompanyID:   companyID,
		Title:       in.Title,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Category:    in.Category,
		Amount:      in.Amount,
		Price:       in.Price,
		Description: in.Description,
		ImageURL:    in.ImageURL,
	}
}
