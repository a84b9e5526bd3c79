// Package postgres реализует хранилище публикаций на pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"blogcore/internal/posts/domain/entities"
	"blogcore/internal/posts/ports/repositories"
	"blogcore/pkg/db/postgres"
	"blogcore/pkg/logger"
)

const (
	postColumns    = "id, title, content, published, author_id, created_at, updated_at"
	selectWithUser = `SELECT p.id, p.title, p.content, p.published, p.author_id, p.created_at, p.updated_at,
               u.id, u.username, u.email`

	errCtxCreating   = "error creating post"
	errCtxFinding    = "error querying post by id"
	errCtxCounting   = "error counting posts"
	errCtxListing    = "error querying posts"
	errCtxScanning   = "error scanning post row"
	errCtxIterating  = "error iterating post rows"
	errCtxUpdating   = "error updating post"
	errCtxDeleting   = "error deleting post"
	msgPostNotFound  = "post not found"
	repositoryLogKey = "post"
)

// PostRepository реализует интерфейс repositories.PostRepository для работы с Postgres.
type PostRepository struct {
	pool postgres.PgxPoolInterface
}

var _ repositories.PostRepository = (*PostRepository)(nil)

// NewPostRepository создает новый репозиторий публикаций.
func NewPostRepository(pool postgres.PgxPoolInterface) *PostRepository {
	return &PostRepository{pool: pool}
}

func scanPost(row pgx.Row) (*entities.Post, error) {
	var (
		post   entities.Post
		author entities.Author
	)
	if err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.Published,
		&post.AuthorID,
		&post.CreatedAt,
		&post.UpdatedAt,
		&author.ID,
		&author.Username,
		&author.Email,
	); err != nil {
		return nil, err
	}
	post.Author = &author
	return &post, nil
}

// Create сохраняет публикацию и возвращает ее вместе с автором.
func (r *PostRepository) Create(ctx context.Context, post *entities.Post) (*entities.Post, error) {
	log := logger.Log(ctx).With(zap.String("repository", repositoryLogKey), zap.String("method", "Create"))
	log.Debug(ctx, "creating post", zap.String("authorID", post.AuthorID))

	query := `
        WITH p AS (
            INSERT INTO posts (title, content, published, author_id)
            VALUES ($1, $2, $3, $4)
            RETURNING ` + postColumns + `
        )
        ` + selectWithUser + `
        FROM p JOIN users u ON u.id = p.author_id`

	created, err := scanPost(r.pool.QueryRow(ctx, query, post.Title, post.Content, post.Published, post.AuthorID))
	if err != nil {
		log.Error(ctx, errCtxCreating, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCreating, err)
	}

	return created, nil
}

// FindByID находит публикацию по ID.
func (r *PostRepository) FindByID(ctx context.Context, id string) (*entities.Post, error) {
	log := logger.Log(ctx).With(zap.String("repository", repositoryLogKey), zap.String("method", "FindByID"))

	query := selectWithUser + ` FROM posts p JOIN users u ON u.id = p.author_id WHERE p.id = $1`

	post, err := scanPost(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, msgPostNotFound, zap.String("id", id))
			return nil, entities.ErrPostNotFound
		}
		log.Error(ctx, errCtxFinding, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxFinding, err)
	}

	return post, nil
}

// List возвращает страницу публикаций, новые первыми. При onlyPublished черновики пропускаются.
func (r *PostRepository) List(ctx context.Context, offset, limit int, onlyPublished bool) ([]*entities.Post, int64, error) {
	where := ""
	if onlyPublished {
		where = " WHERE p.published = TRUE"
	}
	return r.list(ctx, "List", where, offset, limit)
}

// ListByAuthor возвращает страницу публикаций автора, включая черновики.
func (r *PostRepository) ListByAuthor(ctx context.Context, authorID string, offset, limit int) ([]*entities.Post, int64, error) {
	return r.list(ctx, "ListByAuthor", " WHERE p.author_id = $1", offset, limit, authorID)
}

// list выполняет подсчет и выборку страницы. Аргументы условия where нумеруются с $1,
// LIMIT и OFFSET получают следующие номера.
func (r *PostRepository) list(ctx context.Context, method, where string, offset, limit int, args ...any) ([]*entities.Post, int64, error) {
	log := logger.Log(ctx).With(zap.String("repository", repositoryLogKey), zap.String("method", method))

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM posts p`+where, args...).Scan(&total); err != nil {
		log.Error(ctx, errCtxCounting, zap.Error(err))
		return nil, 0, fmt.Errorf("%s: %w", errCtxCounting, err)
	}

	query := fmt.Sprintf(`%s FROM posts p JOIN users u ON u.id = p.author_id%s ORDER BY p.created_at DESC LIMIT $%d OFFSET $%d`,
		selectWithUser, where, len(args)+1, len(args)+2)

	rows, err := r.pool.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		log.Error(ctx, errCtxListing, zap.Error(err))
		return nil, 0, fmt.Errorf("%s: %w", errCtxListing, err)
	}
	defer rows.Close()

	posts := make([]*entities.Post, 0, limit)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			log.Error(ctx, errCtxScanning, zap.Error(err))
			return nil, 0, fmt.Errorf("%s: %w", errCtxScanning, err)
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		log.Error(ctx, errCtxIterating, zap.Error(err))
		return nil, 0, fmt.Errorf("%s: %w", errCtxIterating, err)
	}

	return posts, total, nil
}

// Update перезаписывает изменяемые поля публикации.
func (r *PostRepository) Update(ctx context.Context, post *entities.Post) (*entities.Post, error) {
	log := logger.Log(ctx).With(zap.String("repository", repositoryLogKey), zap.String("method", "Update"))

	query := `
        WITH p AS (
            UPDATE posts
            SET title = $2, content = $3, published = $4, updated_at = $5
            WHERE id = $1
            RETURNING ` + postColumns + `
        )
        ` + selectWithUser + `
        FROM p JOIN users u ON u.id = p.author_id`

	updated, err := scanPost(r.pool.QueryRow(ctx, query,
		post.ID,
		post.Title,
		post.Content,
		post.Published,
		time.Now().UTC(),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, msgPostNotFound, zap.String("id", post.ID))
			return nil, entities.ErrPostNotFound
		}
		log.Error(ctx, errCtxUpdating, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxUpdating, err)
	}

	return updated, nil
}

// Delete удаляет публикацию по ID.
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	log := logger.Log(ctx).With(zap.String("repository", repositoryLogKey), zap.String("method", "Delete"))

	result, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		log.Error(ctx, errCtxDeleting, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxDeleting, err)
	}

	if result.RowsAffected() == 0 {
		log.Debug(ctx, msgPostNotFound, zap.String("id", id))
		return entities.ErrPostNotFound
	}

	return nil
}
