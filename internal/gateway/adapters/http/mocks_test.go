package http_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"blogcore/internal/auth/domain/entities"
	"blogcore/internal/auth/domain/services"
	"blogcore/internal/auth/ports/api"
	postentities "blogcore/internal/posts/domain/entities"
	postapi "blogcore/internal/posts/ports/api"
	"blogcore/pkg/pagination"
)

type MockAuthUseCase struct {
	mock.Mock
}

func (m *MockAuthUseCase) pair(args mock.Arguments) (*services.TokenPair, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TokenPair), args.Error(1)
}

func (m *MockAuthUseCase) Register(ctx context.Context, email, username, password string) (*services.TokenPair, error) {
	return m.pair(m.Called(ctx, email, username, password))
}

func (m *MockAuthUseCase) Login(ctx context.Context, email, password string) (*services.TokenPair, error) {
	return m.pair(m.Called(ctx, email, password))
}

func (m *MockAuthUseCase) Issue(ctx context.Context, userID, email, role string) (*services.TokenPair, error) {
	return m.pair(m.Called(ctx, userID, email, role))
}

func (m *MockAuthUseCase) RefreshTokens(ctx context.Context, refreshToken string) (*services.TokenPair, error) {
	return m.pair(m.Called(ctx, refreshToken))
}

func (m *MockAuthUseCase) Logout(ctx context.Context, userID, refreshToken string) error {
	return m.Called(ctx, userID, refreshToken).Error(0)
}

type MockUserUseCase struct {
	mock.Mock
}

func (m *MockUserUseCase) user(args mock.Arguments) (*entities.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserUseCase) GetUserProfile(ctx context.Context, userID string) (*entities.User, error) {
	return m.user(m.Called(ctx, userID))
}

func (m *MockUserUseCase) UpdateProfile(ctx context.Context, userID string, update api.ProfileUpdate) (*entities.User, error) {
	return m.user(m.Called(ctx, userID, update))
}

func (m *MockUserUseCase) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	return m.Called(ctx, userID, oldPassword, newPassword).Error(0)
}

func (m *MockUserUseCase) List(ctx context.Context, page, limit int) (*pagination.Page[*entities.User], error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pagination.Page[*entities.User]), args.Error(1)
}

func (m *MockUserUseCase) UpdateRole(ctx context.Context, adminID, userID string, role entities.Role) (*entities.User, error) {
	return m.user(m.Called(ctx, adminID, userID, role))
}

func (m *MockUserUseCase) ToggleStatus(ctx context.Context, adminID, userID string) (*entities.User, error) {
	return m.user(m.Called(ctx, adminID, userID))
}

func (m *MockUserUseCase) Delete(ctx context.Context, adminID, userID string) error {
	return m.Called(ctx, adminID, userID).Error(0)
}

type MockPostUseCase struct {
	mock.Mock
}

func (m *MockPostUseCase) post(args mock.Arguments) (*postentities.Post, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*postentities.Post), args.Error(1)
}

func (m *MockPostUseCase) page(args mock.Arguments) (*pagination.Page[*postentities.Post], error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pagination.Page[*postentities.Post]), args.Error(1)
}

func (m *MockPostUseCase) Create(ctx context.Context, authorID string, input postapi.PostInput) (*postentities.Post, error) {
	return m.post(m.Called(ctx, authorID, input))
}

func (m *MockPostUseCase) FindByID(ctx context.Context, id string) (*postentities.Post, error) {
	return m.post(m.Called(ctx, id))
}

func (m *MockPostUseCase) List(ctx context.Context, page, limit int, onlyPublished bool) (*pagination.Page[*postentities.Post], error) {
	return m.page(m.Called(ctx, page, limit, onlyPublished))
}

func (m *MockPostUseCase) ListByAuthor(ctx context.Context, authorID string, page, limit int) (*pagination.Page[*postentities.Post], error) {
	return m.page(m.Called(ctx, authorID, page, limit))
}

func (m *MockPostUseCase) Update(ctx context.Context, id string, actor postentities.Actor, update postapi.PostUpdate) (*postentities.Post, error) {
	return m.post(m.Called(ctx, id, actor, update))
}

func (m *MockPostUseCase) Delete(ctx context.Context, id string, actor postentities.Actor) error {
	return m.Called(ctx, id, actor).Error(0)
}

func (m *MockPostUseCase) Publish(ctx context.Context, id string, actor postentities.Actor) (*postentities.Post, error) {
	return m.post(m.Called(ctx, id, actor))
}

func (m *MockPostUseCase) Unpublish(ctx context.Context, id string, actor postentities.Actor) (*postentities.Post, error) {
	return m.post(m.Called(ctx, id, actor))
}
