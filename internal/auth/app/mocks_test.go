package app_test

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"blogcore/internal/auth/domain/entities"
	"blogcore/internal/auth/domain/services"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entities.User) (*entities.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *entities.User) (*entities.User, error) {
	args := m.Called(ctx, user)
	if fn, ok := args.Get(0).(func(context.Context, *entities.User) *entities.User); ok {
		return fn(ctx, user), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, offset, limit int) ([]*entities.User, int64, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.User), args.Get(1).(int64), args.Error(2)
}

type MockPasswordService struct {
	mock.Mock
}

func (m *MockPasswordService) Hash(ctx context.Context, password string) (string, error) {
	args := m.Called(ctx, password)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordService) Verify(ctx context.Context, password, hash string) (bool, error) {
	args := m.Called(ctx, password, hash)
	return args.Bool(0), args.Error(1)
}

func (m *MockPasswordService) NeedsRehash(hash string) bool {
	return m.Called(hash).Bool(0)
}

type MockTokenRepository struct {
	mock.Mock
}

func (m *MockTokenRepository) Store(ctx context.Context, token *services.RefreshToken) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockTokenRepository) FindActive(ctx context.Context, userID, token string, now time.Time) (*services.RefreshToken, error) {
	args := m.Called(ctx, userID, token, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.RefreshToken), args.Error(1)
}

func (m *MockTokenRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockTokenRepository) DeleteByUserAndToken(ctx context.Context, userID, token string) ([]string, error) {
	args := m.Called(ctx, userID, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockTokenRepository) DeleteAllByUser(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type MockSessionTerminator struct {
	mock.Mock
}

func (m *MockSessionTerminator) Logout(ctx context.Context, userID, refreshToken string) error {
	return m.Called(ctx, userID, refreshToken).Error(0)
}

// memoryTokenRepository хранит записи в памяти с теми же гарантиями
// условного удаления, что и Postgres.
type memoryTokenRepository struct {
	mu      sync.Mutex
	nextID  int
	records map[string]*services.RefreshToken
}

func newMemoryTokenRepository() *memoryTokenRepository {
	return &memoryTokenRepository{records: make(map[string]*services.RefreshToken)}
}

func (r *memoryTokenRepository) Store(_ context.Context, token *services.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	token.ID = strconv.Itoa(r.nextID)
	token.CreatedAt = time.Now()
	record := *token
	r.records[token.ID] = &record
	return nil
}

func (r *memoryTokenRepository) FindActive(_ context.Context, userID, token string, now time.Time) (*services.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, record := range r.records {
		if record.UserID == userID && record.Token == token && record.ExpiresAt.After(now) {
			found := *record
			return &found, nil
		}
	}
	return nil, services.ErrTokenUnknown
}

func (r *memoryTokenRepository) DeleteByID(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[id]; !ok {
		return false, nil
	}
	delete(r.records, id)
	return true, nil
}

func (r *memoryTokenRepository) DeleteByUserAndToken(_ context.Context, userID, token string) ([]string, error) {
	return r.deleteWhere(func(rec *services.RefreshToken) bool {
		return rec.UserID == userID && rec.Token == token
	}), nil
}

func (r *memoryTokenRepository) DeleteAllByUser(_ context.Context, userID string) ([]string, error) {
	return r.deleteWhere(func(rec *services.RefreshToken) bool { return rec.UserID == userID }), nil
}

func (r *memoryTokenRepository) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	return int64(len(r.deleteWhere(func(rec *services.RefreshToken) bool { return rec.ExpiresAt.Before(now) }))), nil
}

func (r *memoryTokenRepository) deleteWhere(match func(*services.RefreshToken) bool) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var tokens []string
	for id, record := range r.records {
		if match(record) {
			tokens = append(tokens, record.Token)
			delete(r.records, id)
		}
	}
	return tokens
}

func (r *memoryTokenRepository) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}
