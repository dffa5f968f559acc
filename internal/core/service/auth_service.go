package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskforge/task-system/internal/core/domain"
	"github.com/taskforge/task-system/internal/core/ports"
)

// AuthService implements signup, login and account management.
type AuthService struct {
	repo      ports.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, jwtSecret: jwtSecret, tokenTTL: tokenTTL, logger: logger}
}

// Signup creates an active, non-superuser account with a bcrypt-hashed
// password. A duplicate email fails with ErrUserExists.
func (s *AuthService) Signup(ctx context.Context, email, password string, fullName *string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:             uuid.NewString(),
		Email:          email,
		IsActive:       true,
		IsSuperuser:    false,
		FullName:       fullName,
		HashedPassword: string(hash),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user registered")
	return user, nil
}

// Login verifies credentials and issues an HS256 token carrying the user
// id, email and superuser flag. Inactive users cannot log in.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	if !user.IsActive {
		return "", nil, domain.ErrUserInactive
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

func (s *AuthService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}

// UpdateProfile merges the supplied profile fields; nil fields are untouched.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, in ports.UpdateProfileInput) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.FullName != nil {
		user.FullName = in.FullName
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword verifies the current password before re-hashing the new one.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(currentPassword)) != nil {
		return domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.HashedPassword = string(hash)
	user.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, user)
}

func (s *AuthService) ListUsers(ctx context.Context, skip, limit int) (*ports.ListUsersResult, error) {
	if skip < 0 {
		skip = 0
	}
	if limit < 0 {
		limit = 0
	}
	users, count, err := s.repo.List(ctx, skip, limit)
	if err != nil {
		return nil, err
	}
	return &ports.ListUsersResult{Data: users, Count: count}, nil
}

// DeleteUser removes the account; the storage cascade removes every task
// the account owns in the same operation.
func (s *AuthService) DeleteUser(ctx context.Context, userID string) (string, error) {
	if _, err := s.repo.FindByID(ctx, userID); err != nil {
		return "", err
	}
	if err := s.repo.Delete(ctx, userID); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to delete user")
		return "", err
	}
	s.logger.Info().Str("user_id", userID).Msg("user deleted")
	return "User deleted successfully", nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":          user.ID,
		"email":        user.Email,
		"is_superuser": user.IsSuperuser,
		"exp":          time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
