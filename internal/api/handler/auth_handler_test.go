package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/couponhub/coupon-marketplace/internal/core/domain"
	"github.com/couponhub/coupon-marketplace/internal/core/ports"
)

type stubAuthService struct {
	result    *ports.LoginResult
	loginErr  error
	logoutErr error
	loggedOut string
}

func (s *stubAuthService) Login(context.Context, string, string, string) (*ports.LoginResult, error) {
	return s.result, s.loginErr
}

func (s *stubAuthService) Logout(token string) error {
	s.loggedOut = token
	return s.logoutErr
}

func newLoginContext(t *testing.T, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Login(t *testing.T) {
	svc := &stubAuthService{result: &ports.LoginResult{Token: "CUSTOMER_abc", Role: domain.RoleCustomer, SubjectID: 7}}
	h := NewAuthHandler(svc)

	c, rec := newLoginContext(t, `{"email":"jane@mail.com","password":"pw","login_type":"CUSTOMER"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("login: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Token != "CUSTOMER_abc" || resp.Role != "CUSTOMER" || resp.ID != 7 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, _ := newLoginContext(t, `{"email":"jane@mail.com"}`)
	err := h.Login(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Login_ServiceErrorPassesThrough(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{loginErr: domain.ErrInvalidCredentials})

	c, _ := newLoginContext(t, `{"email":"jane@mail.com","password":"bad","login_type":"CUSTOMER"}`)
	if err := h.Login(c); err != domain.ErrInvalidCredentials {
		t.Fatalf("err = %v, want the raw domain error for the central handler", err)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	svc := &stubAuthService{}
	h := NewAuthHandler(svc)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	req.Header.Set("Authorization", "Bearer CUSTOMER_abc")
	rec := httptest.NewRecorder()

	if err := h.Logout(e.NewContext(req, rec)); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if svc.loggedOut != "CUSTOMER_abc" {
		t.Fatalf("logout token = %q", svc.loggedOut)
	}
}

func TestAuthHandler_Logout_MissingToken(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	rec := httptest.NewRecorder()

	err := h.Logout(e.NewContext(req, rec))
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}
