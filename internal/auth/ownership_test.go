package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prn-tf/bloglist/internal/domain"
)

func TestCheckOwnership(t *testing.T) {
	ada := domain.NewUser("ada", "Ada", "hash")
	bob := domain.NewUser("bob", "Bob", "hash")
	post := domain.NewPost("Title", "https://example.com", "Ada", 0, ada)

	assert.ErrorIs(t, CheckOwnership(Anonymous(), post), domain.ErrUnauthorized)
	assert.ErrorIs(t, CheckOwnership(Authenticated(bob), post), domain.ErrForbidden)
	assert.NoError(t, CheckOwnership(Authenticated(ada), post))
}

func TestAuthorize_Order(t *testing.T) {
	ada := domain.NewUser("ada", "Ada", "hash")
	bob := domain.NewUser("bob", "Bob", "hash")
	post := domain.NewPost("Title", "https://example.com", "Ada", 0, ada)
	ctx := context.Background()

	loads := 0
	found := func(context.Context) (*domain.Post, error) {
		loads++
		return post, nil
	}
	missing := func(context.Context) (*domain.Post, error) {
		loads++
		return nil, domain.ErrPostNotFound
	}

	t.Run("anonymous never loads", func(t *testing.T) {
		loads = 0
		_, err := Authorize(ctx, Anonymous(), missing)
		require.ErrorIs(t, err, domain.ErrUnauthorized)
		assert.Equal(t, 0, loads)
	})

	t.Run("missing resource beats forbidden", func(t *testing.T) {
		_, err := Authorize(ctx, Authenticated(bob), missing)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("non-creator is forbidden", func(t *testing.T) {
		_, err := Authorize(ctx, Authenticated(bob), found)
		require.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("creator gets the resource", func(t *testing.T) {
		got, err := Authorize(ctx, Authenticated(ada), found)
		require.NoError(t, err)
		assert.Same(t, post, got)
	})
}

func TestBcryptHasher(t *testing.T) {
	_, err := NewBcryptHasher(1)
	require.Error(t, err)

	h, err := NewBcryptHasher(4)
	require.NoError(t, err)

	hash, err := h.Hash("sekret")
	require.NoError(t, err)
	assert.NotEqual(t, "sekret", hash)

	assert.True(t, h.Verify(hash, "sekret"))
	assert.False(t, h.Verify(hash, "Sekret"))
	assert.False(t, h.Verify("not-a-hash", "sekret"))

	other, err := h.Hash("sekret")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other, "hashes are salted")

	h.VerifyDummy("anything")
}
