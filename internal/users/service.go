package users

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/kasu-ict/grievance-portal/pkg/apperrors"
)

// Service provides the user directory: authentication, registration and
// account management. Accounts are never hard-deleted, only deactivated.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Authenticate matches an ID case-insensitively against the directory and
// verifies the password. Deactivated accounts fail with a distinct message.
func (s *Service) Authenticate(ctx context.Context, id, password string) (*User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.Unauthorized("invalid ID or password")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, apperrors.Unauthorized("invalid ID or password")
	}
	if !user.IsActive {
		return nil, apperrors.Unauthorized("account deactivated. Contact Admin.")
	}
	return user, nil
}

// Register creates an account of any role. Staff accounts created without a
// password get the default one. The ID is canonicalized to lower case so the
// uniqueness check matches the case-insensitive login rule.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if strings.TrimSpace(req.ID) == "" {
		return nil, apperrors.InvalidInput("id", "is required")
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.InvalidInput("name", "is required")
	}
	switch req.Role {
	case RoleStudent, RoleLecturer, RoleAdmin:
	default:
		return nil, apperrors.InvalidInput("role", "must be student, lecturer or admin")
	}

	id := strings.ToLower(strings.TrimSpace(req.ID))
	existing, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.Conflict(fmt.Sprintf("user ID %s already exists", req.ID))
	}

	password := req.Password
	if password == "" {
		password = DefaultPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &User{
		ID:           id,
		PasswordHash: string(hash),
		Name:         req.Name,
		Role:         req.Role,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		IsActive:     true,
	}

	switch req.Role {
	case RoleStudent:
		user.Department = orDefault(req.Department, "N/A")
		user.Level = orDefault(req.Level, "100")
	case RoleLecturer:
		user.Department = orDefault(req.Department, "N/A")
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User registered",
		zap.String("user_id", user.ID),
		zap.String("role", string(user.Role)))

	return user, nil
}

// RegisterStudent handles self sign-up. A password is mandatory here, unlike
// admin-created staff accounts.
func (s *Service) RegisterStudent(ctx context.Context, req RegisterRequest) (*User, error) {
	if req.Password == "" {
		return nil, apperrors.InvalidInput("password", "is required")
	}
	req.Role = RoleStudent
	return s.Register(ctx, req)
}

// ManageAccount performs admin account actions: password reset, deactivation
// and reactivation. Returns a human-readable outcome message.
func (s *Service) ManageAccount(ctx context.Context, id string, action AccountAction, payload string) (string, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", apperrors.NotFound("user", id)
	}

	var message string
	switch action {
	case ActionResetPassword:
		newPass := orDefault(payload, DefaultPassword)
		hash, err := bcrypt.GenerateFromPassword([]byte(newPass), bcrypt.DefaultCost)
		if err != nil {
			return "", err
		}
		user.PasswordHash = string(hash)
		message = fmt.Sprintf("password for %s reset", user.ID)
	case ActionDeactivate:
		user.IsActive = false
		message = fmt.Sprintf("user %s deactivated", user.ID)
	case ActionReactivate:
		user.IsActive = true
		message = fmt.Sprintf("user %s reactivated", user.ID)
	default:
		return "", apperrors.InvalidInput("action", "must be reset_password, deactivate or reactivate")
	}

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return "", err
	}

	s.logger.Info("Account action applied",
		zap.String("user_id", user.ID),
		zap.String("action", string(action)))

	return message, nil
}

// UpdateProfile merges a partial update into the actor's own record. ID, role
// and active flag are preserved regardless of the payload.
func (s *Service) UpdateProfile(ctx context.Context, actorID string, req UpdateProfileRequest) (*User, error) {
	user, err := s.repo.GetUserByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("user", actorID)
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = *req.PhoneNumber
	}
	if req.Department != nil {
		user.Department = *req.Department
	}
	if req.Level != nil && user.Role == RoleStudent {
		user.Level = *req.Level
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUser returns a single account.
func (s *Service) GetUser(ctx context.Context, id string) (*User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("user", id)
	}
	return user, nil
}

// ListUsers returns accounts, optionally filtered by role.
func (s *Service) ListUsers(ctx context.Context, role *Role) ([]User, error) {
	return s.repo.ListUsers(ctx, role)
}

// GetLecturer resolves an id to an active lecturer account. Used by the
// complaint workflow to validate assignment targets.
func (s *Service) GetLecturer(ctx context.Context, id string) (*User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Role != RoleLecturer {
		return nil, apperrors.NotFound("lecturer", id)
	}
	if !user.IsActive {
		return nil, apperrors.Conflict(fmt.Sprintf("lecturer %s is deactivated", id))
	}
	return user, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
