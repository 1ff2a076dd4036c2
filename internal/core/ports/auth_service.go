package ports

import (
	"context"

	"github.com/couponhub/coupon-marketplace/internal/core/domain"
)

// LoginResult is returned by AuthService.Login on success.
type LoginResult struct {
	Token     string
	Role      domain.Role
	SubjectID int64
}

// AuthService resolves credentials into live sessions.
type AuthService interface {
	// Login authenticates the credentials for the given login type and opens
	// a session. Fails with domain.ErrInvalidLoginType for an unrecognized
	// type and domain.ErrInvalidCredentials when no match exists; a missing
	// account is indistinguishable from a wrong password.
	Login(ctx context.Context, email, password, loginType string) (*LoginResult, error)
	// Logout validates the token and removes its session. Fails with
	// domain.ErrInvalidSession when the token is absent or expired.
	Logout(token string) error
}
