package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/prn-tf/bloglist/internal/auth"
	"github.com/prn-tf/bloglist/internal/domain"
	"github.com/prn-tf/bloglist/internal/metrics"
	"github.com/prn-tf/bloglist/internal/repository"
)

// Post validation messages.
const (
	msgTitleRequired = "title is required"
	msgURLRequired   = "url is required"
	msgLikesNegative = "likes must not be negative"
	msgLikesTooLarge = "likes must be at most 2147483647"
)

// MaxLikes is the largest like count the schemas store.
const MaxLikes = math.MaxInt32

// PostService handles post operations and enforces ownership on mutations.
type PostService struct {
	postRepo repository.PostRepository
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

// NewPostService creates a new PostService. m may be nil.
func NewPostService(postRepo repository.PostRepository, m *metrics.Metrics, logger zerolog.Logger) *PostService {
	return &PostService{
		postRepo: postRepo,
		metrics:  m,
		logger:   logger.With().Str("service", "post").Logger(),
	}
}

// PostInput contains the client-editable fields of a post.
// A nil Likes means zero on create and "unchanged" on update.
type PostInput struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Author string `json:"author"`
	Likes  *int   `json:"likes"`
}

func (in PostInput) validate() error {
	likes := 0
	if in.Likes != nil {
		likes = *in.Likes
	}
	return validate(
		check("title", in.Title, validation.Required.Error(msgTitleRequired)),
		check("url", in.URL, validation.Required.Error(msgURLRequired)),
		check("likes", likes, validation.Min(0).Error(msgLikesNegative)),
		check("likes", likes, validation.Max(MaxLikes).Error(msgLikesTooLarge)),
	)
}

// List returns every post with its creator.
func (s *PostService) List(ctx context.Context) ([]*domain.Post, error) {
	posts, err := s.postRepo.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list posts")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	if posts == nil {
		posts = []*domain.Post{}
	}
	return posts, nil
}

// Get retrieves a post by ID.
func (s *PostService) Get(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrPostNotFound
		}
		s.logger.Error().Err(err).Str("post_id", id.String()).Msg("failed to get post")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}
	return post, nil
}

// Create records a post whose creator is the authenticated principal.
func (s *PostService) Create(ctx context.Context, principal auth.Principal, input PostInput) (*domain.Post, error) {
	user, err := auth.RequireUser(principal)
	if err != nil {
		return nil, err
	}

	if err := input.validate(); err != nil {
		return nil, err
	}

	likes := 0
	if input.Likes != nil {
		likes = *input.Likes
	}

	post := domain.NewPost(input.Title, input.URL, input.Author, likes, user)
	if err := s.postRepo.Create(ctx, post); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// The creator was deleted after the token was resolved.
			return nil, domain.ErrUnauthorized
		}
		s.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to create post")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.metrics.RecordPostCreated()
	s.logger.Info().
		Str("post_id", post.ID.String()).
		Str("user_id", user.ID.String()).
		Msg("post created")

	return post, nil
}

// Update replaces a post's editable fields. Only the creator may update.
// Likes left out of input keep their stored value.
func (s *PostService) Update(ctx context.Context, principal auth.Principal, id uuid.UUID, input PostInput) (*domain.Post, error) {
	_, err := auth.Authorize(ctx, principal, func(ctx context.Context) (*domain.Post, error) {
		return s.Get(ctx, id)
	})
	if err != nil {
		return nil, err
	}

	if err := input.validate(); err != nil {
		return nil, err
	}

	upd := domain.PostUpdate{
		Title:  input.Title,
		URL:    input.URL,
		Author: input.Author,
		Likes:  input.Likes,
	}
	if err := s.postRepo.Update(ctx, id, upd); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrPostNotFound
		}
		s.logger.Error().Err(err).Str("post_id", id.String()).Msg("failed to update post")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().
		Str("post_id", id.String()).
		Str("user_id", principal.UserID().String()).
		Msg("post updated")

	return s.Get(ctx, id)
}

// Like adds one like. Any authenticated principal may like any post.
func (s *PostService) Like(ctx context.Context, principal auth.Principal, id uuid.UUID) (*domain.Post, error) {
	if _, err := auth.RequireUser(principal); err != nil {
		return nil, err
	}

	if _, err := s.postRepo.IncrementLikes(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrPostNotFound
		}
		s.logger.Error().Err(err).Str("post_id", id.String()).Msg("failed to like post")
		return nil, fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	return s.Get(ctx, id)
}

// Delete removes a post. Only the creator may delete.
// The checks run in order: authenticated, post exists, principal is the creator.
func (s *PostService) Delete(ctx context.Context, principal auth.Principal, id uuid.UUID) error {
	_, err := auth.Authorize(ctx, principal, func(ctx context.Context) (*domain.Post, error) {
		return s.Get(ctx, id)
	})
	if err != nil {
		return err
	}

	if err := s.postRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Lost a race with another delete.
			return domain.ErrPostNotFound
		}
		s.logger.Error().Err(err).Str("post_id", id.String()).Msg("failed to delete post")
		return fmt.Errorf("%w: %v", ErrInternalError, err)
	}

	s.logger.Info().
		Str("post_id", id.String()).
		Str("user_id", principal.UserID().String()).
		Msg("post deleted")

	return nil
}

// Stats computes aggregate statistics over every post.
func (s *PostService) Stats(ctx context.Context) (*Stats, error) {
	posts, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return ComputeStats(posts), nil
}
