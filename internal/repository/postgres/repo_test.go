package postgres

import (
	"context"
	"math"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prn-tf/bloglist/internal/config"
	"github.com/prn-tf/bloglist/internal/domain"
)

// newTestDB connects to the database named by BLOGLIST_TEST_POSTGRES_DSN,
// migrates it and empties both tables.
func newTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := os.Getenv("BLOGLIST_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("BLOGLIST_TEST_POSTGRES_DSN not set")
	}

	ctx := context.Background()
	db, err := Open(ctx, dsn, config.DatabaseConfig{MaxOpenConns: 4}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.Migrate(ctx))
	_, err = db.Pool.Exec(ctx, `TRUNCATE posts, users`)
	require.NoError(t, err)

	return db
}

func TestUserRepository(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	ctx := context.Background()

	ada := domain.NewUser("ada", "Ada Lovelace", "hash")
	require.NoError(t, users.Create(ctx, ada))

	got, err := users.GetByUsername(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, ada.ID, got.ID)
	assert.Equal(t, "hash", got.PasswordHash)

	err = users.Create(ctx, domain.NewUser("ada", "", "h"))
	assert.ErrorIs(t, err, domain.ErrConflict)

	require.NoError(t, users.Create(ctx, domain.NewUser("Ada", "", "h")))

	_, err = users.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestPostRepository(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	posts := NewPostRepository(db)
	ctx := context.Background()

	ada := domain.NewUser("ada", "Ada", "hash")
	require.NoError(t, users.Create(ctx, ada))

	post := domain.NewPost("Title", "https://example.com", "Author", 1, ada)
	require.NoError(t, posts.Create(ctx, post))

	likes, err := posts.IncrementLikes(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, likes)

	require.NoError(t, posts.Update(ctx, post.ID, domain.PostUpdate{Title: "Edited", URL: post.URL}))

	got, err := posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada", got.Creator.Username)
	assert.Equal(t, "Edited", got.Title)
	assert.Equal(t, 2, got.Likes, "omitted likes keep the stored count")

	most := math.MaxInt32
	require.NoError(t, posts.Update(ctx, post.ID, domain.PostUpdate{Title: "Edited", URL: post.URL, Likes: &most}))
	got, err = posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, most, got.Likes)

	require.NoError(t, posts.Delete(ctx, post.ID))
	assert.ErrorIs(t, posts.Delete(ctx, post.ID), domain.ErrPostNotFound)

	require.NoError(t, posts.Create(ctx, domain.NewPost("Again", "u", "", 0, ada)))
	require.NoError(t, users.Delete(ctx, ada.ID))

	list, err := posts.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
