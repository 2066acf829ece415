package service

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/prn-tf/bloglist/internal/domain"
	"github.com/prn-tf/bloglist/internal/metrics"
)

func TestAuthService_Login(t *testing.T) {
	ada := domain.NewUser("ada", "Ada Lovelace", "hashed:sekret")

	users := new(mockUserRepository)
	users.On("GetByUsername", mock.Anything, "ada").Return(ada, nil)
	users.On("GetByUsername", mock.Anything, "ghost").Return(nil, domain.ErrUserNotFound)
	users.On("GetByUsername", mock.Anything, "broken").Return(nil, errors.New("connection reset"))

	hasher := &plainHasher{}
	issuer := &stubIssuer{}
	m := metrics.New()
	svc := NewAuthService(users, hasher, issuer, m, zerolog.Nop())
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		out, err := svc.Login(ctx, LoginInput{Username: "ada", Password: "sekret"})
		require.NoError(t, err)
		assert.Equal(t, "token-for-ada", out.Token)
		assert.Equal(t, "ada", out.Username)
		assert.Equal(t, "Ada Lovelace", out.Name)

		require.Len(t, issuer.issued, 1)
		assert.Equal(t, ada.ID, issuer.issued[0].UserID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginInput{Username: "ada", Password: "guess"})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("unknown user runs dummy comparison", func(t *testing.T) {
		before := hasher.dummyCalls
		_, err := svc.Login(ctx, LoginInput{Username: "ghost", Password: "guess"})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
		assert.Equal(t, before+1, hasher.dummyCalls)
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginInput{Username: "ada"})
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "username and password are required", verr.Message)
	})

	t.Run("store failure is internal", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginInput{Username: "broken", Password: "x"})
		assert.ErrorIs(t, err, ErrInternalError)
		assert.NotErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.LoginAttempts.WithLabelValues("success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.LoginAttempts.WithLabelValues("failure")))
}

func TestAuthService_IssueFailure(t *testing.T) {
	ada := domain.NewUser("ada", "Ada", "hashed:sekret")
	users := new(mockUserRepository)
	users.On("GetByUsername", mock.Anything, "ada").Return(ada, nil)

	svc := NewAuthService(users, &plainHasher{}, &stubIssuer{err: errors.New("boom")}, nil, zerolog.Nop())
	_, err := svc.Login(context.Background(), LoginInput{Username: "ada", Password: "sekret"})
	assert.ErrorIs(t, err, ErrInternalError)
}
