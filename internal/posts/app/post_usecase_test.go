package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	userentities "blogcore/internal/auth/domain/entities"
	"blogcore/internal/posts/app"
	"blogcore/internal/posts/domain/entities"
	"blogcore/internal/posts/ports/api"
	"blogcore/pkg/cache"
	kvredis "blogcore/pkg/db/redis"
	"blogcore/pkg/logger"
)

const (
	authorID = "author-1"
	otherID  = "other-1"
	postID   = "post-1"
)

var errDatabase = errors.New("database unavailable")

type postFixture struct {
	ctx   context.Context
	redis *miniredis.Miniredis
	posts *MockPostRepository
	uc    *app.PostUseCaseImpl
}

func newPostFixture(t *testing.T) *postFixture {
	t.Helper()

	testLogger, err := logger.NewLogger(logger.Development, "debug")
	require.NoError(t, err)

	srv := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	f := &postFixture{
		ctx:   logger.NewContext(context.Background(), testLogger),
		redis: srv,
		posts: new(MockPostRepository),
	}
	f.uc = app.NewPostUseCase(f.posts, cache.New(kvredis.NewFromClient(rdb, 0), time.Hour), 30*time.Minute)
	return f
}

func samplePost(published bool) *entities.Post {
	return &entities.Post{
		ID:        postID,
		Title:     "hello",
		Content:   "world",
		Published: published,
		AuthorID:  authorID,
		Author:    &entities.Author{ID: authorID, Username: "author", Email: "author@example.com"},
	}
}

func echoUpdate(f *postFixture) {
	f.posts.On("Update", mock.Anything, mock.Anything).Return(
		func(_ context.Context, p *entities.Post) *entities.Post { return p },
		nil,
	)
}

func (f *postFixture) seedListCache(t *testing.T) {
	t.Helper()
	require.NoError(t, f.redis.Set("posts:list:1:10:true", `{"items":[]}`))
	require.NoError(t, f.redis.Set("posts:list:2:10:false", `{"items":[]}`))
	require.NoError(t, f.redis.Set("post:"+postID, `{"id":"post-1"}`))
	require.NoError(t, f.redis.Set("user:"+authorID, `{"id":"author-1"}`))
}

func (f *postFixture) assertCacheCleared(t *testing.T) {
	t.Helper()
	assert.False(t, f.redis.Exists("posts:list:1:10:true"))
	assert.False(t, f.redis.Exists("posts:list:2:10:false"))
	assert.False(t, f.redis.Exists("post:"+postID))
	assert.True(t, f.redis.Exists("user:"+authorID), "unrelated keys survive")
}

func TestCreate(t *testing.T) {
	t.Run("invalidates list pages", func(t *testing.T) {
		f := newPostFixture(t)
		require.NoError(t, f.redis.Set("posts:list:1:10:true", `{"items":[]}`))
		f.posts.On("Create", mock.Anything, mock.MatchedBy(func(p *entities.Post) bool {
			return p.AuthorID == authorID && p.Title == "hello" && !p.Published
		})).Return(samplePost(false), nil)

		post, err := f.uc.Create(f.ctx, authorID, api.PostInput{Title: "hello", Content: "world"})
		require.NoError(t, err)
		assert.Equal(t, postID, post.ID)
		assert.False(t, f.redis.Exists("posts:list:1:10:true"))
	})

	tests := []struct {
		name     string
		authorID string
		title    string
		want     error
	}{
		{"empty title", authorID, "   ", entities.ErrEmptyTitle},
		{"title too long", authorID, string(make([]rune, entities.MaxTitleLength+1)), entities.ErrTitleTooLong},
		{"missing author", "", "hello", entities.ErrEmptyAuthorID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPostFixture(t)
			_, err := f.uc.Create(f.ctx, tt.authorID, api.PostInput{Title: tt.title})
			require.ErrorIs(t, err, tt.want)
			f.posts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestFindByID_CacheAside(t *testing.T) {
	f := newPostFixture(t)
	f.posts.On("FindByID", mock.Anything, postID).Return(samplePost(true), nil).Once()

	first, err := f.uc.FindByID(f.ctx, postID)
	require.NoError(t, err)
	second, err := f.uc.FindByID(f.ctx, postID)
	require.NoError(t, err)

	assert.Equal(t, first.Title, second.Title)
	require.NotNil(t, second.Author)
	assert.Equal(t, "author", second.Author.Username)
	assert.Equal(t, 30*time.Minute, f.redis.TTL("post:"+postID))
	f.posts.AssertNumberOfCalls(t, "FindByID", 1)
}

func TestFindByID_NotFound(t *testing.T) {
	f := newPostFixture(t)
	f.posts.On("FindByID", mock.Anything, postID).Return(nil, entities.ErrPostNotFound)

	_, err := f.uc.FindByID(f.ctx, postID)
	require.ErrorIs(t, err, entities.ErrPostNotFound)
	assert.False(t, f.redis.Exists("post:"+postID))
}

func TestList(t *testing.T) {
	t.Run("cached per page, limit and visibility", func(t *testing.T) {
		f := newPostFixture(t)
		f.posts.On("List", mock.Anything, 10, 10, true).Return([]*entities.Post{samplePost(true)}, int64(11), nil).Once()

		first, err := f.uc.List(f.ctx, 2, 10, true)
		require.NoError(t, err)
		second, err := f.uc.List(f.ctx, 2, 10, true)
		require.NoError(t, err)

		assert.Equal(t, int64(11), second.Total)
		assert.Equal(t, 2, second.TotalPages)
		assert.Len(t, second.Items, len(first.Items))
		assert.True(t, f.redis.Exists("posts:list:2:10:true"))
		f.posts.AssertNumberOfCalls(t, "List", 1)
	})

	t.Run("normalizes paging", func(t *testing.T) {
		f := newPostFixture(t)
		f.posts.On("List", mock.Anything, 0, 100, false).Return([]*entities.Post{}, int64(0), nil)

		page, err := f.uc.List(f.ctx, 0, 1000, false)
		require.NoError(t, err)
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, 100, page.Limit)
		assert.NotNil(t, page.Items)
		assert.True(t, f.redis.Exists("posts:list:1:100:false"))
	})

	t.Run("repository error is not cached", func(t *testing.T) {
		f := newPostFixture(t)
		f.posts.On("List", mock.Anything, 0, 10, true).Return(nil, int64(0), errDatabase)

		_, err := f.uc.List(f.ctx, 1, 10, true)
		require.ErrorIs(t, err, errDatabase)
		assert.False(t, f.redis.Exists("posts:list:1:10:true"))
	})
}

func TestListByAuthor_NotCached(t *testing.T) {
	f := newPostFixture(t)
	f.posts.On("ListByAuthor", mock.Anything, authorID, 0, 10).Return([]*entities.Post{samplePost(false)}, int64(1), nil)

	for range 2 {
		page, err := f.uc.ListByAuthor(f.ctx, authorID, 1, 10)
		require.NoError(t, err)
		assert.Len(t, page.Items, 1)
	}

	f.posts.AssertNumberOfCalls(t, "ListByAuthor", 2)
	assert.Empty(t, f.redis.Keys())
}

func TestUpdate(t *testing.T) {
	title := "renamed"
	published := true

	tests := []struct {
		name  string
		actor entities.Actor
		want  error
	}{
		{"author", entities.Actor{UserID: authorID, Role: userentities.RoleUser}, nil},
		{"admin", entities.Actor{UserID: otherID, Role: userentities.RoleAdmin}, nil},
		{"super admin", entities.Actor{UserID: otherID, Role: userentities.RoleSuperAdmin}, nil},
		{"stranger", entities.Actor{UserID: otherID, Role: userentities.RoleUser}, entities.ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPostFixture(t)
			f.seedListCache(t)
			f.posts.On("FindByID", mock.Anything, postID).Return(samplePost(false), nil)
			echoUpdate(f)

			post, err := f.uc.Update(f.ctx, postID, tt.actor, api.PostUpdate{Title: &title, Published: &published})
			if tt.want != nil {
				require.ErrorIs(t, err, tt.want)
				f.posts.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
				assert.True(t, f.redis.Exists("post:"+postID))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "renamed", post.Title)
			assert.Equal(t, "world", post.Content)
			assert.True(t, post.Published)
			f.assertCacheCleared(t)
		})
	}
}

func TestUpdate_InvalidTitle(t *testing.T) {
	f := newPostFixture(t)
	empty := ""

	_, err := f.uc.Update(f.ctx, postID, entities.Actor{UserID: authorID}, api.PostUpdate{Title: &empty})
	require.ErrorIs(t, err, entities.ErrEmptyTitle)
	f.posts.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestPublishUnpublish(t *testing.T) {
	actor := entities.Actor{UserID: authorID, Role: userentities.RoleUser}

	f := newPostFixture(t)
	f.posts.On("FindByID", mock.Anything, postID).Return(samplePost(false), nil).Once()
	echoUpdate(f)
	f.seedListCache(t)

	post, err := f.uc.Publish(f.ctx, postID, actor)
	require.NoError(t, err)
	assert.True(t, post.Published)
	f.assertCacheCleared(t)

	f.posts.On("FindByID", mock.Anything, postID).Return(samplePost(true), nil).Once()
	post, err = f.uc.Unpublish(f.ctx, postID, actor)
	require.NoError(t, err)
	assert.False(t, post.Published)
}

func TestDelete(t *testing.T) {
	t.Run("author deletes", func(t *testing.T) {
		f := newPostFixture(t)
		f.seedListCache(t)
		f.posts.On("FindByID", mock.Anything, postID).Return(samplePost(true), nil)
		f.posts.On("Delete", mock.Anything, postID).Return(nil)

		require.NoError(t, f.uc.Delete(f.ctx, postID, entities.Actor{UserID: authorID, Role: userentities.RoleUser}))
		f.assertCacheCleared(t)
	})

	t.Run("stranger is forbidden", func(t *testing.T) {
		f := newPostFixture(t)
		f.posts.On("FindByID", mock.Anything, postID).Return(samplePost(true), nil)

		err := f.uc.Delete(f.ctx, postID, entities.Actor{UserID: otherID, Role: userentities.RoleUser})
		require.ErrorIs(t, err, entities.ErrForbidden)
		f.posts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("missing post", func(t *testing.T) {
		f := newPostFixture(t)
		f.posts.On("FindByID", mock.Anything, postID).Return(nil, entities.ErrPostNotFound)

		err := f.uc.Delete(f.ctx, postID, entities.Actor{UserID: authorID})
		require.ErrorIs(t, err, entities.ErrPostNotFound)
	})
}
