package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"quizzes-service/internal/domain"
)

// UserService stores accounts keyed by lower-cased email.
type UserService struct {
	store Store
}

func NewUserService(store Store) *UserService {
	return &UserService{store: store}
}

// Create stores a new active user with an already hashed password.
// The email must not be in use.
func (s *UserService) Create(ctx context.Context, name, email, hashed string) (domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || hashed == "" {
		return domain.User{}, domain.Validationf("user name, email and password required")
	}
	rec := domain.UserRec{
		User: domain.User{
			UUID:   domain.NewLocalID(),
			Email:  email,
			Name:   name,
			Active: true,
		},
		Hashed: hashed,
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return domain.User{}, fmt.Errorf("encode user: %w", err)
	}
	created, err := s.store.SetIfAbsent(ctx, userKey(email), raw)
	if err != nil {
		return domain.User{}, fmt.Errorf("write user: %w", err)
	}
	if !created {
		return domain.User{}, domain.Validationf("email already in use")
	}
	return rec.User, nil
}

// Get loads the stored user record, hash included.
func (s *UserService) Get(ctx context.Context, email string) (domain.UserRec, error) {
	var rec domain.UserRec
	found, err := readRecord(ctx, s.store, userKey(strings.ToLower(email)), &rec)
	if err != nil {
		return domain.UserRec{}, err
	}
	if !found {
		return domain.UserRec{}, domain.NotFoundf("user not found")
	}
	return rec, nil
}

// SetActive enables or disables a user.
func (s *UserService) SetActive(ctx context.Context, email string, active bool) (domain.User, error) {
	rec, err := s.Get(ctx, email)
	if err != nil {
		return domain.User{}, err
	}
	rec.Active = active
	if err := writeRecord(ctx, s.store, userKey(rec.Email), rec); err != nil {
		return domain.User{}, err
	}
	return rec.User, nil
}
