package service

import (
	"context"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/prn-tf/bloglist/internal/auth"
	"github.com/prn-tf/bloglist/internal/domain"
	"github.com/prn-tf/bloglist/internal/repository"
)

// Registration messages.
const (
	msgCredentialsRequired = "username and password are required"
	msgPasswordTooShort    = "password must be at least 3 characters long"
	msgUsernameTooShort    = "username must be at least 3 characters long"
	msgPasswordTooLong     = "password must be at most 72 bytes long"
)

// MinCredentialLength is the minimum length of a username or password, in characters.
const MinCredentialLength = 3

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// UserService handles user management operations.
type UserService struct {
	userRepo repository.UserRepository
	postRepo repository.PostRepository
	hasher   auth.PasswordHasher
	logger   zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	hasher auth.PasswordHasher,
	logger zerolog.Logger,
) *UserService {
	return &UserService{
		userRepo: userRepo,
		postRepo: postRepo,
		hasher:   hasher,
		logger:   logger.With().Str("service", "user").Logger(),
	}
}

// RegisterInput contains the data needed to create a new user.
type RegisterInput struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// UserProfile is a user together with the posts they created.
type UserProfile struct {
	*domain.User
	Posts []domain.PostSummary `json:"posts"`
}

// Register creates a new user account.
// Usernames are compared exactly; "ada" and "Ada" are different users.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	err := validate(
		check("username", input.Username, validation.Required.Error(msgCredentialsRequired)),
		check("password", input.Password, validation.Required.Error(msgCredentialsRequired)),
		check("password", input.Password, validation.RuneLength(MinCredentialLength, 0).Error(msgPasswordTooShort)),
		check("password", input.Password, validation.Length(0, MaxPasswordBytes).Error(msgPasswordTooLong)),
		check("username", input.Username, validation.RuneLength(MinCredentialLength, 0).Error(msgUsernameTooShort)),
	)
	if err != nil {
		return nil, err
	}

	passwordHash, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash password")
		return nil, fmt.Errorf("%w: failed to hash password", ErrInternalError)
	}

	user := domain.NewUser(input.Username, input.Name, passwordHash)
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			s.logger.Debug().Str("username", input.Username).Msg("username already taken")
			return nil, err
		}
		s.logger.Error().Err(err).Str("username", input.Username).Msg("failed to create user")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().
		Str("user_id", user.ID.String()).
		Str("username", user.Username).
		Msg("user created")

	return user, nil
}

// List returns every user with their posts.
func (s *UserService) List(ctx context.Context) ([]*UserProfile, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list users")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	posts, err := s.postRepo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list posts")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	byCreator := make(map[uuid.UUID][]domain.PostSummary, len(users))
	for _, p := range posts {
		byCreator[p.CreatorID] = append(byCreator[p.CreatorID], p.Summary())
	}

	profiles := make([]*UserProfile, 0, len(users))
	for _, u := range users {
		owned := byCreator[u.ID]
		if owned == nil {
			owned = []domain.PostSummary{}
		}
		profiles = append(profiles, &UserProfile{User: u, Posts: owned})
	}

	return profiles, nil
}

// GetByID retrieves a user and their posts.
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*UserProfile, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		s.logger.Error().Err(err).Str("user_id", id.String()).Msg("failed to get user")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	posts, err := s.postRepo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list posts")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	owned := []domain.PostSummary{}
	for _, p := range posts {
		if p.CreatorID == user.ID {
			owned = append(owned, p.Summary())
		}
	}

	return &UserProfile{User: user, Posts: owned}, nil
}

// GetByUsername retrieves a user by exact username.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		s.logger.Error().Err(err).Str("username", username).Msg("failed to get user")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return user, nil
}

// Delete removes a user and, through the store, every post they created.
// It is an administrative operation with no HTTP route.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrUserNotFound
		}
		s.logger.Error().Err(err).Str("user_id", id.String()).Msg("failed to delete user")
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().Str("user_id", id.String()).Msg("user deleted")
	return nil
}
