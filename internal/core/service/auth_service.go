package service

import (
	"context"
	"crypto/subtle"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/couponhub/coupon-marketplace/internal/api/metrics"
	"github.com/couponhub/coupon-marketplace/internal/core/domain"
	"github.com/couponhub/coupon-marketplace/internal/core/ports"
	"github.com/couponhub/coupon-marketplace/internal/session"
)

// AuthService resolves credentials for the three roles and manages the
// session lifecycle around login and logout.
type AuthService struct {
	companies ports.CompanyRepository
	customers ports.CustomerRepository
	registry  *session.Registry

	// The administrator has no persisted record; its credentials come from
	// configuration and its subject id is the reserved sentinel.
	adminEmail    string
	adminPassword string

	log zerolog.Logger
}

func NewAuthService(
	companies ports.CompanyRepository,
	customers ports.CustomerRepository,
	registry *session.Registry,
	adminEmail, adminPassword string,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		companies:     companies,
		customers:     customers,
		registry:      registry,
		adminEmail:    adminEmail,
		adminPassword: adminPassword,
		log:           log,
	}
}

// Login authenticates the credentials for the given login type and opens a
// session. A missing account and a wrong password both fail with
// ErrInvalidCredentials so the response leaks nothing about which it was.
func (s *AuthService) Login(ctx context.Context, email, password, loginType string) (*ports.LoginResult, error) {
	role, err := domain.ParseRole(loginType)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("unknown", "failed").Inc()
		return nil, err
	}

	var subjectID int64
	switch role {
	case domain.RoleAdmin:
		if !s.adminCredentialsMatch(email, password) {
			return nil, s.failLogin(role, email)
		}
		subjectID = domain.AdminID

	case domain.RoleCompany:
		company, err := s.companies.FindByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, s.failLogin(role, email)
			}
			return nil, err
		}
		if bcrypt.CompareHashAndPassword([]byte(company.PasswordHash), []byte(password)) != nil {
			return nil, s.failLogin(role, email)
		}
		subjectID = company.ID

	case domain.RoleCustomer:
		customer, err := s.customers.FindByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, s.failLogin(role, email)
			}
			return nil, err
		}
		if bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte(password)) != nil {
			return nil, s.failLogin(role, email)
		}
		subjectID = customer.ID
	}

	token := s.registry.Create(subjectID, role)

	metrics.LoginsTotal.WithLabelValues(role.String(), "ok").Inc()
	metrics.SessionsActive.Set(float64(s.registry.Len()))
	s.log.Info().Str("role", role.String()).Int64("subject_id", subjectID).Msg("login")

	return &ports.LoginResult{Token: token, Role: role, SubjectID: subjectID}, nil
}

// Logout validates the token and removes its session. Touching first keeps a
// forged token from revealing anything a protected call would not.
func (s *AuthService) Logout(token string) error {
	if _, err := s.registry.Touch(token); err != nil {
		return err
	}
	s.registry.Remove(token)
	metrics.SessionsActive.Set(float64(s.registry.Len()))
	return nil
}

func (s *AuthService) adminCredentialsMatch(email, password string) bool {
	// Constant-time on both fields; the admin credential is a fixed pair.
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(s.adminEmail)) == 1
	passwordOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.adminPassword)) == 1
	return emailOK && passwordOK
}

func (s *AuthService) failLogin(role domain.Role, email string) error {
	metrics.LoginsTotal.WithLabelValues(role.String(), "failed").Inc()
	s.log.Warn().Str("role", role.String()).Str("email", email).Msg("login rejected")
	return domain.ErrInvalidCredentials
}
