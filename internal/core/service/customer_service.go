package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/couponhub/coupon-marketplace/internal/api/metrics"
	"github.com/couponhub/coupon-marketplace/internal/core/domain"
	"github.com/couponhub/coupon-marketplace/internal/core/ports"
	"github.com/couponhub/coupon-marketplace/internal/keymutex"
)

// CustomerService implements the CUSTOMER role operations, most importantly
// the purchase/return inventory transaction.
type CustomerService struct {
	coupons   ports.CouponRepository
	customers ports.CustomerRepository
	cache     CouponCache
	// locks serializes purchase/return per coupon id. The two-step
	// commit-with-compensation below is not covered by a store transaction,
	// so without this two racing purchases could both pass the amount check.
	locks *keymutex.KeyMutex
	log   zerolog.Logger
}

func NewCustomerService(
	coupons ports.CouponRepository,
	customers ports.CustomerRepository,
	cache CouponCache,
	locks *keymutex.KeyMutex,
	log zerolog.Logger,
) *CustomerService {
	return &CustomerService{
		coupons:   coupons,
		customers: customers,
		cache:     cache,
		locks:     locks,
		log:       log,
	}
}

func (s *CustomerService) GetCustomer(ctx context.Context, customerID int64) (*domain.Customer, error) {
	return s.customers.FindByID(ctx, customerID)
}

func (s *CustomerService) UpdateCustomer(ctx context.Context, customerID int64, in ports.UpdateCustomerInput) (*domain.Customer, error) {
	existing, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	updated := &domain.Customer{
		ID:           customerID, // a customer can only ever update itself
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

// Purchase reserves one unit of the coupon for the customer and returns the
// coupon with the decremented amount.
//
// The inventory write is deliberately speculative: the already-purchased
// violation only surfaces when the relation insert hits the unique
// (customer, coupon) constraint, so the amount is decremented and persisted
// first, then explicitly restored if the insert fails. These are two
// sequential commits with manual rollback, not one transaction, which is why
// the whole saga runs inside the per-coupon critical section.
func (s *CustomerService) Purchase(ctx context.Context, customerID, couponID int64) (*domain.Coupon, error) {
	timer := prometheus.NewTimer(metrics.PurchaseDuration)
	defer timer.ObserveDuration()

	s.locks.Lock(couponID)
	defer s.locks.Unlock(couponID)

	coupon, err := s.coupons.FindByID(ctx, couponID)
	if err != nil {
		metrics.PurchasesTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	if coupon.Amount == 0 {
		metrics.PurchasesTotal.WithLabelValues("sold_out").Inc()
		return nil, fmt.Errorf("%w: coupon %d", domain.ErrSoldOut, couponID)
	}
	if _, err := s.customers.FindByID(ctx, customerID); err != nil {
		metrics.PurchasesTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	coupon.Amount--
	coupon, err = s.coupons.Save(ctx, coupon)
	if err != nil {
		metrics.PurchasesTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	if err := s.customers.AddPurchase(ctx, customerID, couponID); err != nil {
		if errors.Is(err, domain.ErrDuplicateEntry) {
			// The decrement above already committed; compensate it before
			// failing so inventory does not drift.
			coupon.Amount++
			if _, saveErr := s.coupons.Save(ctx, coupon); saveErr != nil {
				s.log.Error().Err(saveErr).Int64("coupon_id", couponID).Msg("failed to compensate coupon amount")
			}
			s.invalidateCache(ctx, couponID)
			metrics.PurchasesTotal.WithLabelValues("duplicate").Inc()
			return nil, fmt.Errorf("%w: customer %d already purchased coupon %d", domain.ErrDuplicateEntry, customerID, couponID)
		}
		metrics.PurchasesTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	s.invalidateCache(ctx, couponID)
	metrics.PurchasesTotal.WithLabelValues("ok").Inc()
	s.log.Info().Int64("customer_id", customerID).Int64("coupon_id", couponID).Int("amount_left", coupon.Amount).Msg("coupon purchased")
	return coupon, nil
}

// Return gives one unit back and releases the customer's hold on the coupon.
// The relation removal is a no-op when the customer never held the coupon,
// yet the amount is still incremented; that permissive behavior is kept on
// purpose and pinned by a test.
func (s *CustomerService) Return(ctx context.Context, customerID, couponID int64) (*domain.Coupon, error) {
	s.locks.Lock(couponID)
	defer s.locks.Unlock(couponID)

	coupon, err := s.coupons.FindByID(ctx, couponID)
	if err != nil {
		return nil, err
	}
	if _, err := s.customers.FindByID(ctx, customerID); err != nil {
		return nil, err
	}

	coupon.Amount++
	coupon, err = s.coupons.Save(ctx, coupon)
	if err != nil {
		return nil, err
	}

	if err := s.customers.RemovePurchase(ctx, customerID, couponID); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx, couponID)
	metrics.ReturnsTotal.Inc()
	s.log.Info().Int64("customer_id", customerID).Int64("coupon_id", couponID).Int("amount_left", coupon.Amount).Msg("coupon returned")
	return coupon, nil
}

func (s *CustomerService) PurchasedCoupons(ctx context.Context, customerID int64) ([]*domain.Coupon, error) {
	return s.customers.PurchasedCoupons(ctx, customerID)
}

func (s *CustomerService) PurchasedCount(ctx context.Context, customerID int64) (int64, error) {
	return s.customers.CountPurchased(ctx, customerID)
}

func (s *CustomerService) AvailableCoupons(ctx context.Context, customerID int64) ([]*domain.Coupon, error) {
	return s.customers.NonPurchasedCoupons(ctx, customerID, ports.CouponFilter{})
}

func (s *CustomerService) AvailableCouponsByCategory(ctx context.Context, customerID int64, category int) ([]*domain.Coupon, error) {
	return s.customers.NonPurchasedCoupons(ctx, customerID, ports.CouponFilter{Category: &category})
}

func (s *CustomerService) AvailableCouponsPriceBelow(ctx context.Context, customerID int64, price float64) ([]*domain.Coupon, error) {
	return s.customers.NonPurchasedCoupons(ctx, customerID, ports.CouponFilter{MaxPrice: &price})
}

func (s *CustomerService) CouponsEndingBefore(ctx context.Context, t time.Time) ([]*domain.Coupon, error) {
	return s.coupons.FindAllEndingBefore(ctx, t)
}

func (s *CustomerService) invalidateCache(ctx context.Context, couponID int64) {
	if err := s.cache.Invalidate(ctx, couponID); err != nil {
		s.log.Warn().Err(err).Int64("coupon_id", couponID).Msg("coupon cache invalidate failed")
	}
}
