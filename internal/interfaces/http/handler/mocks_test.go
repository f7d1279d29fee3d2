package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/orgstruct/backend/internal/domain/identity"
	"github.com/stretchr/testify/mock"
)

// Hand-rolled testify mocks for the identity repositories, shared by the
// auth, user, role, zone and group handler tests.

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter identity.UserFilter) ([]*identity.User, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*identity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) FindByRoleID(ctx context.Context, roleID uuid.UUID) ([]*identity.User, error) {
	args := m.Called(ctx, roleID)
	return args.Get(0).([]*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByZoneID(ctx context.Context, zoneID uuid.UUID) ([]*identity.User, error) {
	args := m.Called(ctx, zoneID)
	return args.Get(0).([]*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByGroupID(ctx context.Context, groupID uuid.UUID) ([]*identity.User, error) {
	args := m.Called(ctx, groupID)
	return args.Get(0).([]*identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) SaveUserRoles(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) LoadUserRoles(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockRoleRepository struct {
	mock.Mock
}

func (m *MockRoleRepository) Create(ctx context.Context, role *identity.Role) error {
	return m.Called(ctx, role).Error(0)
}

func (m *MockRoleRepository) Update(ctx context.Context, role *identity.Role) error {
	return m.Called(ctx, role).Error(0)
}

func (m *MockRoleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRoleRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Role, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Role), args.Error(1)
}

func (m *MockRoleRepository) FindByCode(ctx context.Context, code string) (*identity.Role, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Role), args.Error(1)
}

func (m *MockRoleRepository) FindAll(ctx context.Context, filter *identity.RoleFilter) ([]*identity.Role, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*identity.Role), args.Error(1)
}

func (m *MockRoleRepository) Count(ctx context.Context, filter *identity.RoleFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRoleRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockRoleRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockRoleRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*identity.Role, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*identity.Role), args.Error(1)
}

func (m *MockRoleRepository) FindSystemRoles(ctx context.Context) ([]*identity.Role, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*identity.Role), args.Error(1)
}

func (m *MockRoleRepository) SaveCapabilities(ctx context.Context, role *identity.Role) error {
	return m.Called(ctx, role).Error(0)
}

func (m *MockRoleRepository) LoadCapabilities(ctx context.Context, role *identity.Role) error {
	return m.Called(ctx, role).Error(0)
}

func (m *MockRoleRepository) FindUsersWithRole(ctx context.Context, roleID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, roleID)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockRoleRepository) CountUsersWithRole(ctx context.Context, roleID uuid.UUID) (int64, error) {
	args := m.Called(ctx, roleID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRoleRepository) FindRolesWithCapability(ctx context.Context, c identity.Capability) ([]*identity.Role, error) {
	args := m.Called(ctx, c)
	return args.Get(0).([]*identity.Role), args.Error(1)
}
