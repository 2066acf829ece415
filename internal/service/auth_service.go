package service

import (
	"context"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/rs/zerolog"

	"github.com/prn-tf/bloglist/internal/auth"
	"github.com/prn-tf/bloglist/internal/domain"
	"github.com/prn-tf/bloglist/internal/metrics"
	"github.com/prn-tf/bloglist/internal/repository"
)

// TokenIssuer signs bearer tokens.
type TokenIssuer interface {
	Issue(claims auth.TokenClaims) (string, error)
}

// AuthService exchanges credentials for bearer tokens.
type AuthService struct {
	userRepo repository.UserRepository
	hasher   auth.PasswordHasher
	tokens   TokenIssuer
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

// NewAuthService creates a new AuthService. m may be nil.
func NewAuthService(
	userRepo repository.UserRepository,
	hasher auth.PasswordHasher,
	tokens TokenIssuer,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		metrics:  m,
		logger:   logger.With().Str("service", "auth").Logger(),
	}
}

// LoginInput contains the submitted credentials.
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginOutput is returned on a successful login.
type LoginOutput struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// Login verifies credentials and issues a token.
//
// An unknown username and a wrong password both return
// domain.ErrInvalidCredentials, and both run one bcrypt comparison.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	err := validate(
		check("username", input.Username, validation.Required.Error(msgCredentialsRequired)),
		check("password", input.Password, validation.Required.Error(msgCredentialsRequired)),
	)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Error().Err(err).Msg("failed to look up user during login")
			return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
		}
		s.hasher.VerifyDummy(input.Password)
		s.logger.Debug().Str("username", input.Username).Msg("login for unknown user")
		s.metrics.RecordLogin(false)
		return nil, domain.ErrInvalidCredentials
	}

	if !s.hasher.Verify(user.PasswordHash, input.Password) {
		s.logger.Debug().Str("username", input.Username).Msg("invalid password during login")
		s.metrics.RecordLogin(false)
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(auth.TokenClaims{Username: user.Username, UserID: user.ID})
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to issue token")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.metrics.RecordLogin(true)
	s.logger.Info().
		Str("user_id", user.ID.String()).
		Str("username", user.Username).
		Msg("user logged in")

	return &LoginOutput{Token: token, Username: user.Username, Name: user.Name}, nil
}
