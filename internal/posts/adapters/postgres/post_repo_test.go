package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogcore/internal/posts/adapters/postgres"
	"blogcore/internal/posts/domain/entities"
	"blogcore/pkg/logger"
)

var errDatabaseConnection = errors.New("database connection error")

var postColumns = []string{
	"id", "title", "content", "published", "author_id", "created_at", "updated_at",
	"id", "username", "email",
}

func testContext(t *testing.T) context.Context {
	t.Helper()

	testLogger, err := logger.NewLogger(logger.Development, "debug")
	require.NoError(t, err)
	return logger.NewContext(context.Background(), testLogger)
}

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func addPost(rows *pgxmock.Rows, id, authorID string, published bool) *pgxmock.Rows {
	now := time.Now().UTC()
	return rows.AddRow(id, "title "+id, "content", published, authorID, now, now, authorID, "john", "john@example.com")
}

func postRow(id, authorID string, published bool) *pgxmock.Rows {
	return addPost(pgxmock.NewRows(postColumns), id, authorID, published)
}

func TestPostRepository_Create(t *testing.T) {
	ctx := testContext(t)

	t.Run("returns post with author", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery("INSERT INTO posts").
			WithArgs("hello", "body", false, "u1").
			WillReturnRows(postRow("p1", "u1", false))

		post, err := postgres.NewPostRepository(mock).Create(ctx, &entities.Post{
			Title: "hello", Content: "body", AuthorID: "u1",
		})
		require.NoError(t, err)
		assert.Equal(t, "p1", post.ID)
		require.NotNil(t, post.Author)
		assert.Equal(t, "u1", post.Author.ID)
		assert.Equal(t, "john", post.Author.Username)
	})

	t.Run("database error", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery("INSERT INTO posts").
			WithArgs("hello", "body", true, "u1").
			WillReturnError(errDatabaseConnection)

		_, err := postgres.NewPostRepository(mock).Create(ctx, &entities.Post{
			Title: "hello", Content: "body", Published: true, AuthorID: "u1",
		})
		require.ErrorIs(t, err, errDatabaseConnection)
	})
}

func TestPostRepository_FindByID(t *testing.T) {
	ctx := testContext(t)

	t.Run("found", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery("SELECT (.+) FROM posts p JOIN users u (.+) WHERE p.id").
			WithArgs("p1").
			WillReturnRows(postRow("p1", "u1", true))

		post, err := postgres.NewPostRepository(mock).FindByID(ctx, "p1")
		require.NoError(t, err)
		assert.True(t, post.Published)
		assert.Equal(t, "u1", post.AuthorID)
	})

	t.Run("not found", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery("SELECT (.+) FROM posts p").
			WithArgs("p1").
			WillReturnError(pgx.ErrNoRows)

		_, err := postgres.NewPostRepository(mock).FindByID(ctx, "p1")
		require.ErrorIs(t, err, entities.ErrPostNotFound)
	})
}

func TestPostRepository_List(t *testing.T) {
	ctx := testContext(t)

	t.Run("only published", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM posts p WHERE p.published = TRUE`).
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(2)))

		rows := pgxmock.NewRows(postColumns)
		addPost(rows, "p2", "u1", true)
		addPost(rows, "p1", "u2", true)
		mock.ExpectQuery(`WHERE p.published = TRUE ORDER BY p.created_at DESC LIMIT \$1 OFFSET \$2`).
			WithArgs(10, 0).
			WillReturnRows(rows)

		posts, total, err := postgres.NewPostRepository(mock).List(ctx, 0, 10, true)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, posts, 2)
		assert.Equal(t, "p2", posts[0].ID)
	})

	t.Run("all posts", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM posts p$`).
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))
		mock.ExpectQuery(`JOIN users u ON u.id = p.author_id ORDER BY`).
			WithArgs(5, 5).
			WillReturnRows(pgxmock.NewRows(postColumns))

		posts, total, err := postgres.NewPostRepository(mock).List(ctx, 5, 5, false)
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, posts)
	})

	t.Run("count error", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery(`SELECT COUNT`).WillReturnError(errDatabaseConnection)

		_, _, err := postgres.NewPostRepository(mock).List(ctx, 0, 10, true)
		require.ErrorIs(t, err, errDatabaseConnection)
	})
}

func TestPostRepository_ListByAuthor(t *testing.T) {
	ctx := testContext(t)
	mock := newMockPool(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM posts p WHERE p.author_id = \$1`).
		WithArgs("u1").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))
	mock.ExpectQuery(`WHERE p.author_id = \$1 ORDER BY p.created_at DESC LIMIT \$2 OFFSET \$3`).
		WithArgs("u1", 10, 0).
		WillReturnRows(postRow("p1", "u1", false))

	posts, total, err := postgres.NewPostRepository(mock).ListByAuthor(ctx, "u1", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, posts, 1)
	assert.False(t, posts[0].Published)
}

func TestPostRepository_Update(t *testing.T) {
	ctx := testContext(t)

	t.Run("updated", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery("UPDATE posts").
			WithArgs("p1", "new", "content", true, pgxmock.AnyArg()).
			WillReturnRows(postRow("p1", "u1", true))

		post, err := postgres.NewPostRepository(mock).Update(ctx, &entities.Post{
			ID: "p1", Title: "new", Content: "content", Published: true, AuthorID: "u1",
		})
		require.NoError(t, err)
		assert.True(t, post.Published)
	})

	t.Run("not found", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery("UPDATE posts").
			WithArgs("p1", "new", "", false, pgxmock.AnyArg()).
			WillReturnError(pgx.ErrNoRows)

		_, err := postgres.NewPostRepository(mock).Update(ctx, &entities.Post{ID: "p1", Title: "new"})
		require.ErrorIs(t, err, entities.ErrPostNotFound)
	})
}

func TestPostRepository_Delete(t *testing.T) {
	ctx := testContext(t)

	t.Run("deleted", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectExec("DELETE FROM posts WHERE id").
			WithArgs("p1").
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		require.NoError(t, postgres.NewPostRepository(mock).Delete(ctx, "p1"))
	})

	t.Run("not found", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectExec("DELETE FROM posts WHERE id").
			WithArgs("p1").
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		err := postgres.NewPostRepository(mock).Delete(ctx, "p1")
		require.ErrorIs(t, err, entities.ErrPostNotFound)
	})
}
