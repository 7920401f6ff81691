package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"quizzes-service/internal/app"
	"quizzes-service/internal/domain"
	"quizzes-service/internal/infra/memory"
)

func TestUserLifecycle(t *testing.T) {
	ctx := context.Background()
	users := app.NewUserService(memory.NewStore())

	u, err := users.Create(ctx, "Bob", " Bob@Example.com ", "hash")
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", u.Email)
	assert.True(t, u.Active)
	assert.NotEmpty(t, u.UUID)
	assert.NotContains(t, u.UUID, domain.Delimiter)

	rec, err := users.Get(ctx, "BOB@example.com")
	require.NoError(t, err)
	assert.Equal(t, "hash", rec.Hashed)
	assert.Equal(t, u, rec.User)

	_, err = users.Create(ctx, "Other", "bob@example.com", "hash")
	assert.True(t, errors.Is(err, domain.ErrValidation))

	u, err = users.SetActive(ctx, "bob@example.com", false)
	require.NoError(t, err)
	assert.False(t, u.Active)
	rec, err = users.Get(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.False(t, rec.Active)

	_, err = users.SetActive(ctx, "nobody@example.com", true)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCreateUserValidation(t *testing.T) {
	users := app.NewUserService(memory.NewStore())
	_, err := users.Create(context.Background(), "", "a@example.com", "hash")
	assert.True(t, errors.Is(err, domain.ErrValidation))
	_, err = users.Create(context.Background(), "A", "", "hash")
	assert.True(t, errors.Is(err, domain.ErrValidation))
}
