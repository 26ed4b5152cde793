package auth

import (
	"errors"

	"github.com/barefootnomad/backend/internal/company"
	"github.com/barefootnomad/backend/internal/user"
	"github.com/golang-jwt/jwt/v5"
)

// Claims represents JWT token claims
type Claims struct {
	UserID int64 `json:"id"`
	RoleID int64 `json:"roleId"`
	jwt.RegisteredClaims
}

// TokenGenerator issues and verifies identity tokens.
type TokenGenerator interface {
	Issue(userID, roleID int64) (string, error)
	Verify(tokenString string) (*Claims, error)
}

// SignedInUser is a profile plus the token that authenticates it.
type SignedInUser struct {
	*user.Profile
	Token string `json:"token"`
}

type CompanySignupResult struct {
	Admin       *SignedInUser    `json:"admin"`
	Company     *company.Company `json:"company"`
	SignupToken string           `json:"signupToken"`
}

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
