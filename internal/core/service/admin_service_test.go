package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/couponhub/coupon-marketplace/internal/core/domain"
	"github.com/couponhub/coupon-marketplace/internal/core/ports"
)

func newAdminFixture(t *testing.T) (*AdminService, *stubStore) {
	t.Helper()
	st := newStubStore()
	svc := NewAdminService(&stubCompanyRepo{st: st}, &stubCustomerRepo{st: st}, zerolog.Nop())
	return svc, st
}

func TestAdminService_SaveCompany_HashesPassword(t *testing.T) {
	svc, _ := newAdminFixture(t)

	company, err := svc.SaveCompany(context.Background(), ports.SaveCompanyInput{
		Name:     "acme",
		Email:    "acme@corp.com",
		Password: "s3cret",
	})
	if err != nil {
		t.Fatalf("save company: %v", err)
	}
	if company.ID == 0 {
		t.Fatalf("company got no id")
	}
	if company.PasswordHash == "s3cret" {
		t.Fatalf("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(company.PasswordHash), []byte("s3cret")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestAdminService_SaveCompany_DuplicateName(t *testing.T) {
	svc, _ := newAdminFixture(t)

	in := ports.SaveCompanyInput{Name: "acme", Email: "acme@corp.com", Password: "pw"}
	if _, err := svc.SaveCompany(context.Background(), in); err != nil {
		t.Fatalf("first save: %v", err)
	}
	in.Email = "other@corp.com"
	if _, err := svc.SaveCompany(context.Background(), in); !errors.Is(err, domain.ErrDuplicateEntry) {
		t.Fatalf("err = %v, want ErrDuplicateEntry", err)
	}
}

func TestAdminService_UpdateCompany_EmptyPasswordKeepsHash(t *testing.T) {
	svc, _ := newAdminFixture(t)

	company, err := svc.SaveCompany(context.Background(), ports.SaveCompanyInput{Name: "acme", Email: "acme@corp.com", Password: "pw"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	updated, err := svc.UpdateCompany(context.Background(), ports.UpdateCompanyInput{
		ID:    company.ID,
		Name:  "acme inc",
		Email: "hello@corp.com",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "acme inc" || updated.Email != "hello@corp.com" {
		t.Fatalf("update did not apply: %+v", updated)
	}
	if updated.PasswordHash != company.PasswordHash {
		t.Fatalf("empty password must keep the existing credential")
	}
}

func TestAdminService_UpdateCompany_NewPasswordRehashes(t *testing.T) {
	svc, _ := newAdminFixture(t)

	company, err := svc.SaveCompany(context.Background(), ports.SaveCompanyInput{Name: "acme", Email: "acme@corp.com", Password: "old"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	updated, err := svc.UpdateCompany(context.Background(), ports.UpdateCompanyInput{
		ID:       company.ID,
		Name:     company.Name,
		Email:    company.Email,
		Password: "new",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("new")); err != nil {
		t.Fatalf("new password not applied: %v", err)
	}
}

func TestAdminService_UpdateCompany_Unknown(t *testing.T) {
	svc, _ := newAdminFixture(t)

	_, err := svc.UpdateCompany(context.Background(), ports.UpdateCompanyInput{ID: 404, Name: "x", Email: "x@x.com"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestAdminService_DeleteCompany_CascadesCoupons(t *testing.T) {
	svc, st := newAdminFixture(t)

	company, err := svc.SaveCompany(context.Background(), ports.SaveCompanyInput{Name: "acme", Email: "acme@corp.com", Password: "pw"})
	if err != nil {
		t.Fatalf("save company: %v", err)
	}
	couponRepo := &stubCouponRepo{st: st}
	coupon, err := couponRepo.Save(context.Background(), &domain.Coupon{CompanyID: company.ID, Title: "deal", Amount: 3})
	if err != nil {
		t.Fatalf("save coupon: %v", err)
	}

	if err := svc.DeleteCompany(context.Background(), company.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := couponRepo.FindByID(context.Background(), coupon.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("coupon survived company deletion")
	}
}

func TestAdminService_DeleteCompany_Unknown(t *testing.T) {
	svc, _ := newAdminFixture(t)

	if err := svc.DeleteCompany(context.Background(), 404); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestAdminService_CustomerLifecycle(t *testing.T) {
	svc, _ := newAdminFixture(t)
	ctx := context.Background()

	customer, err := svc.SaveCustomer(ctx, ports.SaveCustomerInput{Email: "jane@mail.com", Password: "pw"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := svc.GetCustomer(ctx, customer.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Email != "jane@mail.com" {
		t.Fatalf("email = %q", got.Email)
	}

	all, err := svc.ListCustomers(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("list len = %d, want 1", len(all))
	}

	if err := svc.DeleteCustomer(ctx, customer.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetCustomer(ctx, customer.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("customer survived deletion")
	}
}

func TestAdminService_SaveCustomer_DuplicateEmail(t *testing.T) {
	svc, _ := newAdminFixture(t)

	if _, err := svc.SaveCustomer(context.Background(), ports.SaveCustomerInput{Email: "jane@mail.com", Password: "pw"}); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if _, err := svc.SaveCustomer(context.Background(), ports.SaveCustomerInput{Email: "jane@mail.com", Password: "other"}); !errors.Is(err, domain.ErrDuplicateEntry) {
		t.Fatalf("err = %v, want ErrDuplicateEntry", err)
	}
}

var _ ports.AdminService = (*AdminService)(nil)
