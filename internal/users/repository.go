package users

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, id string) (*User, error)
	ListUsers(ctx context.Context, role *Role) ([]User, error)
	UpdateUser(ctx context.Context, user *User) error
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreateUser(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (
			id, password_hash, name, role, email, phone_number, is_active, department, level
		) VALUES (
			:id, :password_hash, :name, :role, :email, :phone_number, :is_active, :department, :level
		)`
	_, err := r.db.NamedExecContext(ctx, query, user)
	return err
}

func (r *postgresRepository) GetUserByID(ctx context.Context, id string) (*User, error) {
	var user User
	err := r.db.GetContext(ctx, &user, "SELECT * FROM users WHERE lower(id) = lower($1)", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &user, err
}

func (r *postgresRepository) ListUsers(ctx context.Context, role *Role) ([]User, error) {
	var list []User
	query := "SELECT * FROM users"
	var args []interface{}
	if role != nil {
		query += " WHERE role = $1"
		args = append(args, *role)
	}
	query += " ORDER BY name"
	err := r.db.SelectContext(ctx, &list, query, args...)
	return list, err
}

func (r *postgresRepository) UpdateUser(ctx context.Context, user *User) error {
	query := `
		UPDATE users SET
			password_hash = :password_hash,
			name = :name,
			email = :email,
			phone_number = :phone_number,
			is_active = :is_active,
			department = :department,
			level = :level,
			updated_at = now()
		WHERE id = :id`
	_, err := r.db.NamedExecContext(ctx, query, user)
	return err
}
