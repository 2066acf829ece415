package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/prn-tf/bloglist/internal/domain"
	"github.com/prn-tf/bloglist/internal/repository"
)

// postRepository implements repository.PostRepository.
type postRepository struct {
	q Querier
}

// NewPostRepository creates a new PostgreSQL post repository.
func NewPostRepository(db *DB) repository.PostRepository {
	return &postRepository{q: db.Pool}
}

const postSelect = `
	SELECT p.id, p.title, p.url, p.author, p.likes, p.creator_id, p.created_at, p.updated_at,
	       u.username, u.name
	FROM posts p
	JOIN users u ON u.id = p.creator_id
`

// Create creates a new post.
func (r *postRepository) Create(ctx context.Context, post *domain.Post) error {
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}

	query := `
		INSERT INTO posts (id, title, url, author, likes, creator_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.q.Exec(ctx, query,
		post.ID,
		post.Title,
		post.URL,
		post.Author,
		post.Likes,
		post.CreatorID,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("failed to create post: %w", err)
	}

	return nil
}

// GetByID retrieves a post with its creator.
func (r *postRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	post, err := scanPost(r.q.QueryRow(ctx, postSelect+` WHERE p.id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return post, nil
}

// List lists all posts with their creators.
func (r *postRepository) List(ctx context.Context) ([]*domain.Post, error) {
	rows, err := r.q.Query(ctx, postSelect+` ORDER BY p.created_at, p.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []*domain.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}

	return posts, nil
}

// Update updates a post's editable fields.
func (r *postRepository) Update(ctx context.Context, id uuid.UUID, upd domain.PostUpdate) error {
	query := `
		UPDATE posts
		SET title = $1, url = $2, author = $3, likes = COALESCE($4, likes), updated_at = $5
		WHERE id = $6
	`

	result, err := r.q.Exec(ctx, query,
		upd.Title,
		upd.URL,
		upd.Author,
		upd.Likes,
		time.Now().UTC(),
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrPostNotFound
	}

	return nil
}

// IncrementLikes adds one like in a single statement.
func (r *postRepository) IncrementLikes(ctx context.Context, id uuid.UUID) (int, error) {
	query := `
		UPDATE posts
		SET likes = likes + 1, updated_at = $1
		WHERE id = $2
		RETURNING likes
	`

	var likes int
	if err := r.q.QueryRow(ctx, query, time.Now().UTC(), id).Scan(&likes); err != nil {
		if isNoRows(err) {
			return 0, domain.ErrPostNotFound
		}
		return 0, fmt.Errorf("failed to increment likes: %w", err)
	}

	return likes, nil
}

// Delete deletes a post.
func (r *postRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.q.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrPostNotFound
	}

	return nil
}

func scanPost(row pgx.Row) (*domain.Post, error) {
	var (
		post    domain.Post
		creator domain.UserRef
	)

	err := row.Scan(
		&post.ID,
		&post.Title,
		&post.URL,
		&post.Author,
		&post.Likes,
		&post.CreatorID,
		&post.CreatedAt,
		&post.UpdatedAt,
		&creator.Username,
		&creator.Name,
	)
	if err != nil {
		return nil, err
	}

	post.CreatedAt = post.CreatedAt.UTC()
	post.UpdatedAt = post.UpdatedAt.UTC()
	creator.ID = post.CreatorID
	post.Creator = &creator

	return &post, nil
}

var _ repository.PostRepository = (*postRepository)(nil)
