package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/kasu-ict/grievance-portal/pkg/apperrors"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateUser(ctx context.Context, user *User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockRepository) GetUserByID(ctx context.Context, id string) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) ListUsers(ctx context.Context, role *Role) ([]User, error) {
	args := m.Called(ctx, role)
	return args.Get(0).([]User), args.Error(1)
}

func (m *MockRepository) UpdateUser(ctx context.Context, user *User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hash)
}

func TestAuthenticate(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, zap.NewNop())

	ctx := context.Background()
	active := &User{ID: "s1", Role: RoleStudent, IsActive: true, PasswordHash: hashOf(t, "secret")}
	mockRepo.On("GetUserByID", ctx, "S1").Return(active, nil)

	user, err := service.Authenticate(ctx, "S1", "secret")

	assert.NoError(t, err)
	assert.Equal(t, "s1", user.ID)
}

func TestAuthenticateBadPassword(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, zap.NewNop())

	ctx := context.Background()
	active := &User{ID: "s1", IsActive: true, PasswordHash: hashOf(t, "secret")}
	mockRepo.On("GetUserByID", ctx, "s1").Return(active, nil)

	_, err := service.Authenticate(ctx, "s1", "wrong")

	assert.Equal(t, apperrors.CodeUnauthorized, apperrors.CodeOf(err))
	assert.EqualError(t, err, "invalid ID or password")
}

func TestAuthenticateUnknownID(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, zap.NewNop())

	ctx := context.Background()
	mockRepo.On("GetUserByID", ctx, "nobody").Return(nil, nil)

	_, err := service.Authenticate(ctx, "nobody", "secret")

	assert.EqualError(t, err, "invalid ID or password")
}

func TestAuthenticateDeactivatedAccount(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, zap.NewNop())

	ctx := context.Background()
	inactive := &User{ID: "s1", IsActive: false, PasswordHash: hashOf(t, "secret")}
	mockRepo.On("GetUserByID", ctx, "s1").Return(inactive, nil)

	_, err := service.Authenticate(ctx, "s1", "secret")

	assert.Equal(t, apperrors.CodeUnauthorized, apperrors.CodeOf(err))
	assert.EqualError(t, err, "account deactivated. Contact Admin.")
}

func TestRegisterNormalizesAndTagsRole(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, zap.NewNop())

	ctx := context.Background()
	mockRepo.On("GetUserByID", ctx, "u1900123").Return(nil, nil)
	mockRepo.On("CreateUser", ctx, mock.AnythingOfType("*users.User")).Return(nil)

	user, err := service.Register(ctx, RegisterRequest{
		ID:       "U1900123",
		Password: "hunter2",
		Name:     "Ada",
		Role:     RoleStudent,
		Email:    "ada@kasu.edu",
	})

	assert.NoError(t, err)
	assert.Equal(t, "u1900123", user.ID)
	assert.True(t, user.IsActive)
	assert.Equal(t, "N/A", user.Department)
	assert.Equal(t, "100", user.Level)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("hunter2")))

	mockRepo.AssertExpectations(t)
}

func TestRegisterDuplicateIDLeavesDirectoryUnchanged(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, zap.NewNop())

	ctx := context.Background()
	mockRepo.On("GetUserByID", ctx, "s1").Return(&User{ID: "s1"}, nil)

	user, err := service.Register(ctx, RegisterRequest{ID: "S1", Name: "Dup", Role: RoleStudent})

	assert.Nil(t, user)
	assert.Equal(t, apperrors.CodeConflict, apperrors.CodeOf(err))
	mockRepo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestRegisterStaffDefaultPassword(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, zap.NewNop())

	ctx := context.Background()
	mockRepo.On("GetUserByID", ctx, "l1").Return(nil, nil)
	mockRepo.On("CreateUser", ctx, mock.AnythingOfType("*users.User")).Return(nil)

	user, err := service.Register(ctx, RegisterRequest{
		ID:         "L1",
		Name:       "Dr. Bello",
		Role:       RoleLecturer,
		Department: "Computer Science",
	})

	assert.NoError(t, err)
	assert.Equal(t, "Computer Science", user.Department)
	assert.Empty(t, user.Level)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(DefaultPassword)))
}

func TestRegisterStudentRequiresPassword(t *testing.T) {
	service := NewService(new(MockRepository), zap.NewNop())

	_, err := service.RegisterStudent(context.Background(), RegisterRequest{ID: "s9", Name: "NoPass"})

	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
}

func TestManageAccountDeactivateAndReactivate(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, zap.NewNop())

	ctx := context.Background()
	target := &User{ID: "s1", IsActive: true}
	mockRepo.On("GetUserByID", ctx, "s1").Return(target, nil)
	mockRepo.On("UpdateUser", ctx, target).Return(nil)

	_, err := service.ManageAccount(ctx, "s1", ActionDeactivate, "")
	assert.NoError(t, err)
	assert.False(t, target.IsActive)

	_, err = service.ManageAccount(ctx, "s1", ActionReactivate, "")
	assert.NoError(t, err)
	assert.True(t, target.IsActive)
}

func TestManageAccountResetPassword(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, zap.NewNop())

	ctx := context.Background()
	target := &User{ID: "s1", IsActive: true, PasswordHash: hashOf(t, "old")}
	mockRepo.On("GetUserByID", ctx, "s1").Return(target, nil)
	mockRepo.On("UpdateUser", ctx, target).Return(nil)

	_, err := service.ManageAccount(ctx, "s1", ActionResetPassword, "")

	assert.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(target.PasswordHash), []byte(DefaultPassword)))
}

func TestManageAccountUnknownUser(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, zap.NewNop())

	ctx := context.Background()
	mockRepo.On("GetUserByID", ctx, "ghost").Return(nil, nil)

	_, err := service.ManageAccount(ctx, "ghost", ActionDeactivate, "")

	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func TestUpdateProfilePreservesIdentityFields(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, zap.NewNop())

	ctx := context.Background()
	target := &User{ID: "s1", Role: RoleStudent, IsActive: true, Name: "Old Name", Level: "100"}
	mockRepo.On("GetUserByID", ctx, "s1").Return(target, nil)
	mockRepo.On("UpdateUser", ctx, target).Return(nil)

	newName := "New Name"
	newLevel := "400"
	user, err := service.UpdateProfile(ctx, "s1", UpdateProfileRequest{Name: &newName, Level: &newLevel})

	assert.NoError(t, err)
	assert.Equal(t, "s1", user.ID)
	assert.Equal(t, RoleStudent, user.Role)
	assert.True(t, user.IsActive)
	assert.Equal(t, "New Name", user.Name)
	assert.Equal(t, "400", user.Level)
}

func TestGetLecturer(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, zap.NewNop())
	ctx := context.Background()

	mockRepo.On("GetUserByID", ctx, "s1").Return(&User{ID: "s1", Role: RoleStudent, IsActive: true}, nil)
	_, err := service.GetLecturer(ctx, "s1")
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))

	mockRepo.On("GetUserByID", ctx, "l1").Return(&User{ID: "l1", Role: RoleLecturer, IsActive: false}, nil)
	_, err = service.GetLecturer(ctx, "l1")
	assert.Equal(t, apperrors.CodeConflict, apperrors.CodeOf(err))

	mockRepo.On("GetUserByID", ctx, "l2").Return(&User{ID: "l2", Role: RoleLecturer, IsActive: true}, nil)
	lecturer, err := service.GetLecturer(ctx, "l2")
	assert.NoError(t, err)
	assert.Equal(t, "l2", lecturer.ID)
}
