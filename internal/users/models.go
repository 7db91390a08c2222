package users

import "time"

type Role string

const (
	RoleStudent  Role = "student"
	RoleLecturer Role = "lecturer"
	RoleAdmin    Role = "admin"
)

// DefaultPassword is assigned when staff accounts are created without one and
// on admin-initiated password resets without an explicit replacement.
const DefaultPassword = "password123"

// User is a role-tagged account record. Department is set for students and
// lecturers, Level for students only; both stay empty for admins. IDs
// (matric numbers, staff IDs) are normalized to lower case at write time and
// matched case-insensitively everywhere.
type User struct {
	ID           string    `json:"id" db:"id"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Name         string    `json:"name" db:"name"`
	Role         Role      `json:"role" db:"role"`
	Email        string    `json:"email" db:"email"`
	PhoneNumber  string    `json:"phone_number,omitempty" db:"phone_number"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	Department   string    `json:"department,omitempty" db:"department"`
	Level        string    `json:"level,omitempty" db:"level"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// RegisterRequest carries the fields for creating an account. Role-specific
// fields are ignored for roles they do not apply to.
type RegisterRequest struct {
	ID          string `json:"id"`
	Password    string `json:"password"`
	Name        string `json:"name"`
	Role        Role   `json:"role"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Department  string `json:"department"`
	Level       string `json:"level"`
}

// UpdateProfileRequest is a partial self-service profile update. ID, role and
// active flag are never touched by it.
type UpdateProfileRequest struct {
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	PhoneNumber *string `json:"phone_number"`
	Password    *string `json:"password"`
	Department  *string `json:"department"`
	Level       *string `json:"level"`
}

type AccountAction string

const (
	ActionResetPassword AccountAction = "reset_password"
	ActionDeactivate    AccountAction = "deactivate"
	ActionReactivate    AccountAction = "reactivate"
)
