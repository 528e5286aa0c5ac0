package provider_test

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/mutugading/marketplace-backend/internal/domain/provider"
	"github.com/mutugading/marketplace-backend/internal/domain/user"
)

// MockProviderRepository is a mock implementation of provider.Repository.
type MockProviderRepository struct {
	mock.Mock
}

func (m *MockProviderRepository) Create(ctx context.Context, p *provider.Provider) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProviderRepository) GetByID(ctx context.Context, id uuid.UUID) (*provider.Provider, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.Provider), args.Error(1)
}

func (m *MockProviderRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*provider.Provider, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.Provider), args.Error(1)
}

func (m *MockProviderRepository) ExistsByUserID(ctx context.Context, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProviderRepository) Update(ctx context.Context, p *provider.Provider) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProviderRepository) MarkVerified(ctx context.Context, p *provider.Provider, g *provider.RoleGrant) error {
	return m.Called(ctx, p, g).Error(0)
}

func (m *MockProviderRepository) ListPending(ctx context.Context, filter provider.ListFilter) ([]*provider.Provider, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*provider.Provider), args.Get(1).(int64), args.Error(2)
}

// MockGrantRepository is a mock implementation of provider.GrantRepository.
type MockGrantRepository struct {
	mock.Mock
}

func (m *MockGrantRepository) ListPendingGrants(ctx context.Context, limit int) ([]*provider.RoleGrant, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*provider.RoleGrant), args.Error(1)
}

func (m *MockGrantRepository) SaveGrant(ctx context.Context, g *provider.RoleGrant) error {
	return m.Called(ctx, g).Error(0)
}

// MockIdentity is a mock implementation of user.Finder and user.RoleAssigner.
type MockIdentity struct {
	mock.Mock
}

func (m *MockIdentity) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockIdentity) FindByName(ctx context.Context, username string) (*user.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockIdentity) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockIdentity) GetRoles(ctx context.Context, u *user.User) ([]string, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockIdentity) AddToRole(ctx context.Context, u *user.User, role string) error {
	return m.Called(ctx, u, role).Error(0)
}

func (m *MockIdentity) RemoveFromRoles(ctx context.Context, u *user.User, roles []string) error {
	return m.Called(ctx, u, roles).Error(0)
}

// MockDocumentStorage is a mock implementation of DocumentStorage.
type MockDocumentStorage struct {
	mock.Mock
}

func (m *MockDocumentStorage) UploadDocumentPhoto(ctx context.Context, providerID, filename string, data io.Reader, size int64, contentType string) (string, error) {
	args := m.Called(ctx, providerID, filename, data, size, contentType)
	return args.String(0), args.Error(1)
}
