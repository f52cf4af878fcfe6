package services

import (
	"errors"
	"time"

	"github.com/moesamiii/production/internal/services/dto"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidPassword = errors.New("invalid admin password")
	ErrInvalidToken    = errors.New("invalid or expired token")
	ErrAdminDisabled   = errors.New("admin access is not configured")
)

// AdminClaims is the JWT payload issued after a successful password
// check. The token only marks the bearer as a privileged portal visitor;
// it is not account-level authentication.
type AdminClaims struct {
	IsAdmin bool `json:"is_admin"`
	jwt.RegisteredClaims
}

type AuthService interface {
	AdminLogin(password string) (*dto.AdminLoginResponse, error)
	ValidateAdminToken(tokenString string) (*AdminClaims, error)
}

type authService struct {
	passwordHash string // bcrypt hash of the admin password
	jwtSecret    []byte
	tokenTTL     time.Duration
}

func NewAuthService(passwordHash, jwtSecret string, tokenTTLMinutes int) AuthService {
	return &authService{
		passwordHash: passwordHash,
		jwtSecret:    []byte(jwtSecret),
		tokenTTL:     time.Duration(tokenTTLMinutes) * time.Minute,
	}
}

func (s *authService) AdminLogin(password string) (*dto.AdminLoginResponse, error) {
	if s.passwordHash == "" {
		return nil, ErrAdminDisabled
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err != nil {
		return nil, ErrInvalidPassword
	}

	expiresAt := time.Now().Add(s.tokenTTL)
	claims := &AdminClaims{
		IsAdmin: true,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &dto.AdminLoginResponse{
		Token:     signed,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *authService) ValidateAdminToken(tokenString string) (*AdminClaims, error) {
	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid || !claims.IsAdmin {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
