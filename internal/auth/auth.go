// Package auth hashes passwords, issues access tokens and resolves the
// authenticated principal for a token.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"quizzes-service/internal/app"
	"quizzes-service/internal/domain"
)

// Config holds token settings.
type Config struct {
	Signature string
	Expiry    time.Duration
}

// Claims are packed into access tokens. The subject is the user's email.
type Claims struct {
	jwt.RegisteredClaims
}

// Service authenticates users against the user store.
type Service struct {
	users *app.UserService
	cfg   Config
	cost  int
	now   func() time.Time
	log   *zap.Logger
}

func NewService(users *app.UserService, cfg Config, log *zap.Logger) (*Service, error) {
	if cfg.Signature == "" {
		return nil, errors.New("jwt signature is not configured")
	}
	if cfg.Expiry <= 0 {
		cfg.Expiry = time.Hour
	}
	return &Service{users: users, cfg: cfg, cost: bcrypt.DefaultCost, now: time.Now, log: log}, nil
}

// WithHashCost lowers bcrypt cost; tests use bcrypt.MinCost.
func (s *Service) WithHashCost(cost int) *Service {
	s.cost = cost
	return s
}

// Register hashes the plain password and creates an active user.
func (s *Service) Register(ctx context.Context, name, email, plain string) (domain.User, error) {
	if plain == "" {
		return domain.User{}, domain.Validationf("user name, email and password required")
	}
	hashed, err := HashPassword(plain, s.cost)
	if err != nil {
		return domain.User{}, err
	}
	return s.users.Create(ctx, name, email, hashed)
}

// HashPassword returns the bcrypt hash of plain.
func HashPassword(plain string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Login checks credentials and returns a signed access token.
func (s *Service) Login(ctx context.Context, email, plain string) (string, error) {
	rec, err := s.users.Get(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return "", domain.Unauthenticatedf("incorrect username or password")
	}
	if err != nil {
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(rec.Hashed), []byte(plain)) != nil {
		return "", domain.Unauthenticatedf("incorrect username or password")
	}
	return s.Token(rec.Email)
}

// Token signs an access token for email.
func (s *Service) Token(email string) (string, error) {
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.Expiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.Signature))
}

// Principal resolves the user behind token. Unknown users and invalid tokens
// are unauthenticated; deactivated users are rejected as inactive.
func (s *Service) Principal(ctx context.Context, token string) (domain.Principal, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.Signature), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		s.log.Debug("token rejected", zap.Error(err))
		return domain.Principal{}, domain.Unauthenticatedf("invalid credentials")
	}
	if claims.Subject == "" {
		return domain.Principal{}, domain.Unauthenticatedf("invalid credentials")
	}

	rec, err := s.users.Get(ctx, claims.Subject)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Principal{}, domain.Unauthenticatedf("invalid credentials")
	}
	if err != nil {
		return domain.Principal{}, err
	}
	if !rec.Active {
		return domain.Principal{}, domain.Inactivef("inactive user")
	}
	return domain.Principal{UUID: rec.UUID, Email: rec.Email, Active: rec.Active}, nil
}
