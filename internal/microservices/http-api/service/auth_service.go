package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mangapress/internal/config"
	"mangapress/internal/middleware/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

const RoleAdmin = "admin"

// Claims is the payload of an access token.
type Claims struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	UserRole string `json:"userRole"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (token string, expiresAt time.Time, err error)
	ValidateToken(tokenString string) (*Claims, error)
	// Verify checks an Authorization header value. Every failure is
	// reported as ErrUnauthenticated.
	Verify(authorizationHeader string) (*Claims, error)
}

type authService struct {
	jwtSecret  []byte
	tokenTTL   time.Duration
	adminEmail string
	adminName  string
	adminHash  string
	now        func() time.Time
}

func NewAuthService(cfg *config.Config) AuthService {
	return &authService{
		jwtSecret:  []byte(cfg.JWTSecret),
		tokenTTL:   cfg.JWTExpiry,
		adminEmail: strings.ToLower(strings.TrimSpace(cfg.AdminEmail)),
		adminName:  cfg.AdminName,
		adminHash:  cfg.AdminPasswordHash,
		now:        time.Now,
	}
}

// Login checks the configured admin account and issues a signed token.
func (s *authService) Login(_ context.Context, email, password string) (string, time.Time, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if s.adminEmail == "" || email != s.adminEmail {
		auth.BurnCompare(password)
		return "", time.Time{}, ErrInvalidCredentials
	}
	if err := auth.VerifyPassword(s.adminHash, password); err != nil {
		return "", time.Time{}, ErrInvalidCredentials
	}

	now := s.now()
	expiresAt := now.Add(s.tokenTTL)
	claims := Claims{
		ID:       adminID(email),
		Email:    email,
		Name:     s.adminName,
		UserRole: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   adminID(email),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return token, expiresAt, nil
}

// adminID is stable across restarts for a given email.
func adminID(email string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+email)).String()
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.jwtSecret, nil
	}, jwt.WithExpirationRequired(), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func (s *authService) Verify(header string) (*Claims, error) {
	tokenString, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(tokenString) == "" {
		return nil, ErrUnauthenticated
	}
	claims, err := s.ValidateToken(strings.TrimSpace(tokenString))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	return claims, nil
}
