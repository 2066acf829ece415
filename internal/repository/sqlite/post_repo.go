package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/prn-tf/bloglist/internal/domain"
	"github.com/prn-tf/bloglist/internal/repository"
)

// postRepository implements repository.PostRepository for SQLite.
type postRepository struct {
	db *DB
}

// NewPostRepository creates a new SQLite post repository.
func NewPostRepository(db *DB) repository.PostRepository {
	return &postRepository{db: db}
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
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		post.ID.String(),
		post.Title,
		post.URL,
		post.Author,
		post.Likes,
		post.CreatorID.String(),
		formatTime(post.CreatedAt),
		formatTime(post.UpdatedAt),
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
	post, err := scanPost(r.db.QueryRowContext(ctx, postSelect+` WHERE p.id = ?`, id.String()))
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
	rows, err := r.db.QueryContext(ctx, postSelect+` ORDER BY p.created_at, p.id`)
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
	var likes any // NULL keeps the stored count
	if upd.Likes != nil {
		likes = *upd.Likes
	}

	query := `
		UPDATE posts
		SET title = ?, url = ?, author = ?, likes = COALESCE(?, likes), updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		upd.Title,
		upd.URL,
		upd.Author,
		likes,
		formatTime(time.Now()),
		id.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrPostNotFound
	}

	return nil
}

// IncrementLikes adds one like in a single statement.
func (r *postRepository) IncrementLikes(ctx context.Context, id uuid.UUID) (int, error) {
	query := `
		UPDATE posts
		SET likes = likes + 1, updated_at = ?
		WHERE id = ?
		RETURNING likes
	`

	var likes int
	err := r.db.QueryRowContext(ctx, query, formatTime(time.Now()), id.String()).Scan(&likes)
	if err != nil {
		if isNoRows(err) {
			return 0, domain.ErrPostNotFound
		}
		return 0, fmt.Errorf("failed to increment likes: %w", err)
	}

	return likes, nil
}

// Delete deletes a post.
func (r *postRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrPostNotFound
	}

	return nil
}

func scanPost(row rowScanner) (*domain.Post, error) {
	var (
		post                 domain.Post
		creator              domain.UserRef
		id, creatorID        string
		createdAt, updatedAt string
	)

	err := row.Scan(
		&id,
		&post.Title,
		&post.URL,
		&post.Author,
		&post.Likes,
		&creatorID,
		&createdAt,
		&updatedAt,
		&creator.Username,
		&creator.Name,
	)
	if err != nil {
		return nil, err
	}

	if post.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("corrupt post id %q: %w", id, err)
	}
	if post.CreatorID, err = uuid.Parse(creatorID); err != nil {
		return nil, fmt.Errorf("corrupt creator id %q: %w", creatorID, err)
	}
	post.CreatedAt = parseTime(createdAt)
	post.UpdatedAt = parseTime(updatedAt)

	creator.ID = post.CreatorID
	post.Creator = &creator

	return &post, nil
}

var _ repository.PostRepository = (*postRepository)(nil)
