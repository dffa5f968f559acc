package gormdb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/taskforge/task-system/internal/core/domain"
)

// UserRepository implements ports.UserRepository over the relational store.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	row := userToRow(u)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var row userRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return rowToUser(&row), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var row userRow
	if err := r.db.WithContext(ctx).First(&row, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return rowToUser(&row), nil
}

func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	row := userToRow(u)
	result := r.db.WithContext(ctx).Model(&userRow{}).Where("id = ?", u.ID).Select("*").Omit("id", "created_at").Updates(&row)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Delete removes the user row. The ON DELETE CASCADE constraint on the
// task table removes every owned task in the same statement.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&userRow{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context, skip, limit int) ([]*domain.User, int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&userRow{}).Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	var rows []userRow
	err := r.db.WithContext(ctx).
		Order("created_at, id").
		Offset(skip).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	users := make([]*domain.User, 0, len(rows))
	for i := range rows {
		users = append(users, rowToUser(&rows[i]))
	}
	return users, count, nil
}

// isUniqueViolation matches the sqlite unique-constraint error text; gorm
// does not expose a typed error for it.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func userToRow(u *domain.User) userRow {
	return userRow{
		ID:             u.ID,
		Email:          u.Email,
		HashedPassword: u.HashedPassword,
		IsActive:       u.IsActive,
		IsSuperuser:    u.IsSuperuser,
		FullName:       u.FullName,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func rowToUser(row *userRow) *domain.User {
	return &domain.User{
		ID:             row.ID,
		Email:          row.Email,
		HashedPassword: row.HashedPassword,
		IsActive:       row.IsActive,
		IsSuperuser:    row.IsSuperuser,
		FullName:       row.FullName,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
}
