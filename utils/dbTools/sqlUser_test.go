package dbTools

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Romain-GUILLEMOT/TubeBack/db"
	"github.com/Romain-GUILLEMOT/TubeBack/models"
	"github.com/Romain-GUILLEMOT/TubeBack/registration"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLStore(t *testing.T) *SQLUserStore {
	t.Helper()
	conn, err := db.OpenSQL("sqlite", filepath.Join(t.TempDir(), "users.db"), false)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return NewSQLUserStore(conn)
}

func newUser(username, email string) *models.User {
	return &models.User{
		ID:        uuid.New(),
		Fullname:  "Jane Doe",
		Email:     email,
		Username:  username,
		Password:  "$2a$10$hash",
		Avatar:    "https://cdn.test/media/avatar.webp",
		CreatedAt: time.Now().UTC(),
	}
}

func TestSQLUserStoreCreateAndFind(t *testing.T) {
	ctx := context.Background()
	store := newSQLStore(t)
	jane := newUser("janed", "jane@x.com")
	require.NoError(t, store.Create(ctx, jane))

	byEmail, err := store.FindByUsernameOrEmail(ctx, "nobody", "jane@x.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, jane.ID, byEmail.ID)

	byUsername, err := store.FindByUsernameOrEmail(ctx, "janed", "nobody@x.com")
	require.NoError(t, err)
	require.NotNil(t, byUsername)

	none, err := store.FindByUsernameOrEmail(ctx, "nobody", "nobody@x.com")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestSQLUserStoreRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	store := newSQLStore(t)
	require.NoError(t, store.Create(ctx, newUser("janed", "jane@x.com")))

	err := store.Create(ctx, newUser("janed", "other@x.com"))
	assert.ErrorIs(t, err, registration.ErrDuplicate)

	err = store.Create(ctx, newUser("other", "jane@x.com"))
	assert.ErrorIs(t, err, registration.ErrDuplicate)
}

func TestSQLUserStoreFindByIDIsSanitized(t *testing.T) {
	ctx := context.Background()
	store := newSQLStore(t)
	jane := newUser("janed", "jane@x.com")
	jane.CoverImage = "https://cdn.test/media/cover.webp"
	jane.RefreshToken = "refresh"
	require.NoError(t, store.Create(ctx, jane))

	got, err := store.FindByID(ctx, jane.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, jane.ID, got.ID)
	assert.Equal(t, "janed", got.Username)
	assert.Equal(t, "Jane Doe", got.Fullname)
	assert.Equal(t, jane.CoverImage, got.CoverImage)

	missing, err := store.FindByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSQLUserStoreLoginAndRefreshToken(t *testing.T) {
	ctx := context.Background()
	store := newSQLStore(t)
	jane := newUser("janed", "jane@x.com")
	require.NoError(t, store.Create(ctx, jane))

	byName, err := store.FindByLogin(ctx, "JaneD")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, jane.Password, byName.Password)

	require.NoError(t, store.SetRefreshToken(ctx, jane.ID, "token-1"))

	byEmail, err := store.FindByLogin(ctx, "jane@x.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, "token-1", byEmail.RefreshToken)

	unknown, err := store.FindByLogin(ctx, "ghost")
	require.NoError(t, err)
	assert.Nil(t, unknown)
}
