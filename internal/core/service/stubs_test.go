package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/couponhub/coupon-marketplace/internal/core/domain"
	"github.com/couponhub/coupon-marketplace/internal/core/ports"
)

// stubStore is the shared in-memory backing for the repository stubs. It
// emulates the store's unique constraints (company name, customer email,
// coupon title, purchase pair) so the services see the same error surface as
// with the real repositories.
type stubStore struct {
	mu        sync.Mutex
	companies map[int64]*domain.Company
	customers map[int64]*domain.Customer
	coupons   map[int64]*domain.Coupon
	purchases map[purchasePair]bool
	lastID    int64
}

type purchasePair struct {
	customerID int64
	couponID   int64
}

func newStubStore() *stubStore {
	return &stubStore{
		companies: make(map[int64]*domain.Company),
		customers: make(map[int64]*domain.Customer),
		coupons:   make(map[int64]*domain.Coupon),
		purchases: make(map[purchasePair]bool),
	}
}

// nextID must be called with st.mu held.
func (st *stubStore) nextID() int64 {
	st.lastID++
	return st.lastID
}

// --- company repository ---

type stubCompanyRepo struct {
	st *stubStore
}

func (r *stubCompanyRepo) Save(_ context.Context, c *domain.Company) (*domain.Company, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	for id, existing := range r.st.companies {
		if existing.Name == c.Name && id != c.ID {
			return nil, fmt.Errorf("%w: company name %q already used", domain.ErrDuplicateEntry, c.Name)
		}
	}
	clone := *c
	if clone.ID == 0 {
		clone.ID = r.st.nextID()
	}
	r.st.companies[clone.ID] = &clone
	return &clone, nil
}

func (r *stubCompanyRepo) FindByID(_ context.Context, id int64) (*domain.Company, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	c, ok := r.st.companies[id]
	if !ok {
		return nil, fmt.Errorf("%w: company %d", domain.ErrNotFound, id)
	}
	clone := *c
	return &clone, nil
}

func (r *stubCompanyRepo) FindByEmail(_ context.Context, email string) (*domain.Company, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for _, c := range r.st.companies {
		if c.Email == email {
			clone := *c
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("%w: company with email %q", domain.ErrNotFound, email)
}

func (r *stubCompanyRepo) FindAll(_ context.Context) ([]*domain.Company, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	out := make([]*domain.Company, 0, len(r.st.companies))
	for _, c := range r.st.companies {
		clone := *c
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubCompanyRepo) DeleteByID(_ context.Context, id int64) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	delete(r.st.companies, id)
	for cid, c := range r.st.coupons {
		if c.CompanyID == id {
			delete(r.st.coupons, cid)
			for pair := range r.st.purchases {
				if pair.couponID == cid {
					delete(r.st.purchases, pair)
				}
			}
		}
	}
	return nil
}

// --- customer repository ---

type stubCustomerRepo struct {
	st *stubStore
}

func (r *stubCustomerRepo) Save(_ context.Context, c *domain.Customer) (*domain.Customer, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	for id, existing := range r.st.customers {
		if existing.Email == c.Email && id != c.ID {
			return nil, fmt.Errorf("%w: customer email %q already used", domain.ErrDuplicateEntry, c.Email)
		}
	}
	clone := *c
	if clone.ID == 0 {
		clone.ID = r.st.nextID()
	}
	r.st.customers[clone.ID] = &clone
	return &clone, nil
}

func (r *stubCustomerRepo) FindByID(_ context.Context, id int64) (*domain.Customer, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	c, ok := r.st.customers[id]
	if !ok {
		return nil, fmt.Errorf("%w: customer %d", domain.ErrNotFound, id)
	}
	clone := *c
	return &clone, nil
}

func (r *stubCustomerRepo) FindByEmail(_ context.Context, email string) (*domain.Customer, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for _, c := range r.st.customers {
		if c.Email == email {
			clone := *c
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("%w: customer with email %q", domain.ErrNotFound, email)
}

func (r *stubCustomerRepo) FindAll(_ context.Context) ([]*domain.Customer, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	out := make([]*domain.Customer, 0, len(r.st.customers))
	for _, c := range r.st.customers {
		clone := *c
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubCustomerRepo) DeleteByID(_ context.Context, id int64) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	delete(r.st.customers, id)
	for pair := range r.st.purchases {
		if pair.customerID == id {
			delete(r.st.purchases, pair)
		}
	}
	return nil
}

func (r *stubCustomerRepo) AddPurchase(_ context.Context, customerID, couponID int64) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	pair := purchasePair{customerID: customerID, couponID: couponID}
	if r.st.purchases[pair] {
		return fmt.Errorf("%w: customer %d already holds coupon %d", domain.ErrDuplicateEntry, customerID, couponID)
	}
	r.st.purchases[pair] = true
	return nil
}

func (r *stubCustomerRepo) RemovePurchase(_ context.Context, customerID, couponID int64) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	delete(r.st.purchases, purchasePair{customerID: customerID, couponID: couponID})
	return nil
}

func (r *stubCustomerRepo) PurchasedCoupons(_ context.Context, customerID int64) ([]*domain.Coupon, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var out []*domain.Coupon
	for pair := range r.st.purchases {
		if pair.customerID != customerID {
			continue
		}
		if c, ok := r.st.coupons[pair.couponID]; ok {
			clone := *c
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubCustomerRepo) CountPurchased(_ context.Context, customerID int64) (int64, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var n int64
	for pair := range r.st.purchases {
		if pair.customerID == customerID {
			n++
		}
	}
	return n, nil
}

func (r *stubCustomerRepo) NonPurchasedCoupons(_ context.Context, customerID int64, filter ports.CouponFilter) ([]*domain.Coupon, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var out []*domain.Coupon
	for id, c := range r.st.coupons {
		if r.st.purchases[purchasePair{customerID: customerID, couponID: id}] {
			continue
		}
		if filter.Category != nil && c.Category != *filter.Category {
			continue
		}
		if filter.MaxPrice != nil && c.Price >= *filter.MaxPrice {
			continue
		}
		clone := *c
		out = append(out, &clone)
	}
	return out, nil
}

// --- coupon repository ---

type stubCouponRepo struct {
	st *stubStore
}

func (r *stubCouponRepo) Save(_ context.Context, c *domain.Coupon) (*domain.Coupon, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	for id, existing := range r.st.coupons {
		if existing.Title == c.Title && id != c.ID {
			return nil, fmt.Errorf("%w: coupon title %q already used", domain.ErrDuplicateEntry, c.Title)
		}
	}
	clone := *c
	if clone.ID == 0 {
		clone.ID = r.st.nextID()
	}
	r.st.coupons[clone.ID] = &clone
	return &clone, nil
}

func (r *stubCouponRepo) FindByID(_ context.Context, id int64) (*domain.Coupon, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	c, ok := r.st.coupons[id]
	if !ok {
		return nil, fmt.Errorf("%w: coupon %d", domain.ErrNotFound, id)
	}
	clone := *c
	return &clone, nil
}

func (r *stubCouponRepo) DeleteByID(_ context.Context, id int64) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	delete(r.st.coupons, id)
	for pair := range r.st.purchases {
		if pair.couponID == id {
			delete(r.st.purchases, pair)
		}
	}
	return nil
}

func (r *stubCouponRepo) FindAllByCompany(_ context.Context, companyID int64) ([]*domain.Coupon, error) {
	return r.filter(func(c *domain.Coupon) bool { return c.CompanyID == companyID })
}

func (r *stubCouponRepo) FindAllByCompanyAndCategory(_ context.Context, companyID int64, category int) ([]*domain.Coupon, error) {
	return r.filter(func(c *domain.Coupon) bool { return c.CompanyID == companyID && c.Category == category })
}

func (r *stubCouponRepo) FindAllByCompanyPriceLessThan(_ context.Context, companyID int64, price float64) ([]*domain.Coupon, error) {
	return r.filter(func(c *domain.Coupon) bool { return c.CompanyID == companyID && c.Price < price })
}

func (r *stubCouponRepo) FindAllByCompanyEndingBefore(_ context.Context, companyID int64, t time.Time) ([]*domain.Coupon, error) {
	return r.filter(func(c *domain.Coupon) bool { return c.CompanyID == companyID && c.EndDate.Before(t) })
}

func (r *stubCouponRepo) FindAllEndingBefore(_ context.Context, t time.Time) ([]*domain.Coupon, error) {
	return r.filter(func(c *domain.Coupon) bool { return c.EndDate.Before(t) })
}

func (r *stubCouponRepo) DeleteAllExpired(_ context.Context, now time.Time) (int64, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var deleted int64
	for id, c := range r.st.coupons {
		if !c.EndDate.After(now) {
			delete(r.st.coupons, id)
			for pair := range r.st.purchases {
				if pair.couponID == id {
					delete(r.st.purchases, pair)
				}
			}
			deleted++
		}
	}
	return deleted, nil
}

func (r *stubCouponRepo) CountSold(_ context.Context, couponID int64) (int64, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var n int64
	for pair := range r.st.purchases {
		if pair.couponID == couponID {
			n++
		}
	}
	return n, nil
}

func (r *stubCouponRepo) filter(keep func(*domain.Coupon) bool) ([]*domain.Coupon, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var out []*domain.Coupon
	for _, c := range r.st.coupons {
		if keep(c) {
			clone := *c
			out = append(out, &clone)
		}
	}
	return out, nil
}

// --- coupon cache ---

// nopCache satisfies CouponCache with all misses, keeping cache behavior out
// of tests that do not care about it.
type nopCache struct{}

func (nopCache) Get(context.Context, int64) (*domain.Coupon, error) { return nil, nil }
func (nopCache) Set(context.Context, *domain.Coupon) error          { return nil }
func (nopCache) Invalidate(context.Context, int64) error            { return nil }

// mapCache is a real in-memory cache for the read-through tests.
type mapCache struct {
	mu      sync.Mutex
	entries map[int64]*domain.Coupon
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[int64]*domain.Coupon)}
}

func (c *mapCache) Get(_ context.Context, id int64) (*domain.Coupon, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	coupon, ok := c.entries[id]
	if !ok {
		return nil, nil
	}
	clone := *coupon
	return &clone, nil
}

func (c *mapCache) Set(_ context.Context, coupon *domain.Coupon) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	clone := *coupon
	c.entries[coupon.ID] = &clone
	return nil
}

func (c *mapCache) Invalidate(_ context.Context, id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
	return nil
}
