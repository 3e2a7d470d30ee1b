package repository

import (
	"context"
	"testing"
	"time"

	"github.com/AgusMolinaCode/usuarios-api/internal/config"
	"github.com/AgusMolinaCode/usuarios-api/internal/database"
	"github.com/AgusMolinaCode/usuarios-api/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *UserRepository {
	t.Helper()

	db, err := database.Open(config.DatabaseConfig{
		Driver:         database.SQLite,
		Path:           ":memory:",
		ConnectTimeout: time.Second,
		LogLevel:       "silent",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.Migrate(db))

	return NewUserRepository(db)
}

func newUser(nome, email string) *models.User {
	return &models.User{
		Nome:  nome,
		Email: email,
		Idade: 30,
		Senha: "$2a$10$abcdefghijklmnopqrstuv",
	}
}

func TestUserRepository_InsertAndFind(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	u := newUser("Ana", "ana@x.com")
	require.NoError(t, repo.Insert(ctx, u))
	assert.NotZero(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	byID, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana@x.com", byID.Email)
	assert.Equal(t, u.Senha, byID.Senha)

	byEmail, err := repo.FindByEmail(ctx, "ana@x.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)
}

func TestUserRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	_, err := repo.FindByID(ctx, 42)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = repo.FindByEmail(ctx, "ninguem@x.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, 42), ErrUserNotFound)

	ghost := newUser("Fantasma", "f@x.com")
	ghost.ID = 42
	assert.ErrorIs(t, repo.Update(ctx, ghost), ErrUserNotFound)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	require.NoError(t, repo.Insert(ctx, newUser("Ana", "ana@x.com")))
	err := repo.Insert(ctx, newUser("Outra", "ana@x.com"))
	assert.ErrorIs(t, err, ErrEmailTaken)

	bia := newUser("Bia", "bia@x.com")
	require.NoError(t, repo.Insert(ctx, bia))
	bia.Email = "ana@x.com"
	assert.ErrorIs(t, repo.Update(ctx, bia), ErrEmailTaken)
}

func TestUserRepository_ModelValidation(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	u := newUser("Ana", "ana@x.com")
	u.Idade = 0
	err := repo.Insert(ctx, u)
	require.Error(t, err)

	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestUserRepository_UpdateKeepsPassword(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	u := newUser("Ana", "ana@x.com")
	require.NoError(t, repo.Insert(ctx, u))
	original := u.Senha

	u.Nome = "Beatriz"
	u.Idade = 31
	u.Senha = "outra-senha-qualquer"
	require.NoError(t, repo.Update(ctx, u))

	got, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Beatriz", got.Nome)
	assert.Equal(t, 31, got.Idade)
	assert.Equal(t, original, got.Senha)
}

func TestUserRepository_FindAllAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Len(t, all, 0)

	a := newUser("Ana", "ana@x.com")
	b := newUser("Bia", "bia@x.com")
	require.NoError(t, repo.Insert(ctx, a))
	require.NoError(t, repo.Insert(ctx, b))

	all, err = repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, a.ID, all[0].ID)
	assert.Equal(t, b.ID, all[1].ID)

	require.NoError(t, repo.Delete(ctx, a.ID))
	_, err = repo.FindByID(ctx, a.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	assert.NoError(t, repo.Ping(ctx))
}
