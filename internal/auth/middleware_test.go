package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prn-tf/bloglist/internal/domain"
)

// fakeUsers is a map-backed UserFinder.
type fakeUsers struct {
	users map[uuid.UUID]*domain.User
	err   error
	calls int
}

func (f *fakeUsers) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func newTestResolver(t *testing.T, users *fakeUsers) (*Resolver, *TokenCodec) {
	t.Helper()
	codec, err := NewTokenCodec(testSecret, time.Hour)
	require.NoError(t, err)
	return NewResolver(codec, users, zerolog.Nop()), codec
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		present bool
	}{
		{name: "bearer", header: "Bearer abc.def.ghi", want: "abc.def.ghi", present: true},
		{name: "no header", header: ""},
		{name: "lowercase scheme", header: "bearer abc"},
		{name: "basic", header: "Basic dXNlcjpwYXNz"},
		{name: "no space", header: "Bearerabc"},
		{name: "empty token", header: "Bearer "},
		{name: "extra space kept", header: "Bearer  abc", want: " abc", present: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
			if tt.header != "" {
				r.Header.Set(AuthorizationHeader, tt.header)
			}

			got, present := ExtractToken(r)
			assert.Equal(t, tt.present, present)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolver_Resolve(t *testing.T) {
	ada := domain.NewUser("ada", "Ada Lovelace", "hash")
	users := &fakeUsers{users: map[uuid.UUID]*domain.User{ada.ID: ada}}
	resolver, codec := newTestResolver(t, users)
	ctx := context.Background()

	t.Run("no token is anonymous", func(t *testing.T) {
		p, err := resolver.Resolve(ctx, "", false)
		require.NoError(t, err)
		assert.False(t, p.IsAuthenticated())
	})

	t.Run("valid token resolves user", func(t *testing.T) {
		token, err := codec.Issue(TokenClaims{Username: ada.Username, UserID: ada.ID})
		require.NoError(t, err)

		p, err := resolver.Resolve(ctx, token, true)
		require.NoError(t, err)
		user, ok := p.User()
		require.True(t, ok)
		assert.Equal(t, ada.ID, user.ID)
	})

	t.Run("invalid token is unauthorized", func(t *testing.T) {
		_, err := resolver.Resolve(ctx, "not-a-token", true)
		require.ErrorIs(t, err, domain.ErrUnauthorized)
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
		assert.Equal(t, FailureInvalid, ReasonFor(err))
	})

	t.Run("deleted user is anonymous", func(t *testing.T) {
		token, err := codec.Issue(TokenClaims{Username: "ghost", UserID: uuid.New()})
		require.NoError(t, err)

		p, err := resolver.Resolve(ctx, token, true)
		require.NoError(t, err)
		assert.False(t, p.IsAuthenticated())
	})

	t.Run("store failure propagates", func(t *testing.T) {
		broken := &fakeUsers{err: errors.New("connection refused")}
		r, c := newTestResolver(t, broken)
		token, err := c.Issue(TokenClaims{Username: "ada", UserID: ada.ID})
		require.NoError(t, err)

		_, err = r.Resolve(ctx, token, true)
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrUnauthorized)
		assert.Equal(t, FailureStore, ReasonFor(err))
	})
}

func TestResolver_ExpiredReason(t *testing.T) {
	issuedAt := time.Now().Add(-2 * time.Hour)
	old, err := NewTokenCodec(testSecret, time.Hour, WithClock(fixedClock(issuedAt)))
	require.NoError(t, err)
	token, err := old.Issue(TokenClaims{Username: "ada", UserID: uuid.New()})
	require.NoError(t, err)

	resolver, _ := newTestResolver(t, &fakeUsers{})
	_, err = resolver.Resolve(context.Background(), token, true)
	require.ErrorIs(t, err, domain.ErrExpiredToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, FailureExpired, ReasonFor(err))
}

func TestMiddleware(t *testing.T) {
	ada := domain.NewUser("ada", "Ada Lovelace", "hash")
	users := &fakeUsers{users: map[uuid.UUID]*domain.User{ada.ID: ada}}
	resolver, codec := newTestResolver(t, users)

	var seen Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = PrincipalFrom(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	var handled error
	onError := func(w http.ResponseWriter, r *http.Request, err error) {
		handled = err
		w.WriteHeader(http.StatusUnauthorized)
	}

	h := Middleware(resolver, onError)(next)

	t.Run("anonymous passes through", func(t *testing.T) {
		seen, handled = Principal{}, nil
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.False(t, seen.IsAuthenticated())
		assert.NoError(t, handled)
	})

	t.Run("valid token sets principal", func(t *testing.T) {
		seen, handled = Principal{}, nil
		token, err := codec.Issue(TokenClaims{Username: ada.Username, UserID: ada.ID})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(AuthorizationHeader, BearerPrefix+token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, ada.ID, seen.UserID())
	})

	t.Run("invalid token stops the chain", func(t *testing.T) {
		seen, handled = Principal{}, nil
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(AuthorizationHeader, "Bearer garbage")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.ErrorIs(t, handled, domain.ErrUnauthorized)
	})
}

func TestPrincipalFrom_Default(t *testing.T) {
	p := PrincipalFrom(context.Background())
	assert.False(t, p.IsAuthenticated())
	assert.Equal(t, uuid.Nil, p.UserID())
	assert.Equal(t, "anonymous", p.String())
}
