package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"usuarios/internal/cache"
	apperrors "usuarios/internal/errors"
	"usuarios/internal/model"
	"usuarios/internal/repository"
)

const (
	bcryptCost   = 10
	userCacheTTL = 5 * time.Minute
)

// CreateUserInput carries the createUser payload. Rol and Activo are
// optional; Activo is decoded loosely and coerced during validation so that
// numbers and numeric strings are both accepted.
type CreateUserInput struct {
	Name     string      `json:"nombre"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     string      `json:"rol"`
	Active   interface{} `json:"activo"`
}

// UpdateUserInput carries the updateUser payload. Pointer fields distinguish
// "absent" from "present but empty".
type UpdateUserInput struct {
	Name     *string     `json:"nombre"`
	Email    *string     `json:"email"`
	Password *string     `json:"password"`
	Role     *string     `json:"rol"`
	Active   interface{} `json:"activo"`
}

// Empty reports whether no field was supplied at all.
func (in UpdateUserInput) Empty() bool {
	return in.Name == nil && in.Email == nil && in.Password == nil &&
		in.Role == nil && in.Active == nil
}

// UserService exposes the usuarios domain operations.
type UserService interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUser(ctx context.Context, id uint) (*model.User, error)
	CreateUser(ctx context.Context, in CreateUserInput) (*model.User, error)
	UpdateUser(ctx context.Context, id uint, in UpdateUserInput) (map[string]interface{}, error)
	DeleteUser(ctx context.Context, id uint) error
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, cache: cache}
}

func (s *userService) cacheKey(id uint) string {
	return fmt.Sprintf("usuario:%d", id)
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.repo.List(ctx)
}

func (s *userService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, userCacheTTL)
	}
	return user, nil
}

// CreateUser validates the input in a fixed order, enforces email uniqueness
// and inserts the row with a bcrypt-hashed password.
func (s *userService) CreateUser(ctx context.Context, in CreateUserInput) (*model.User, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.NewValidation("el nombre es obligatorio")
	}

	email := strings.TrimSpace(in.Email)
	if !strings.Contains(email, "@") {
		return nil, apperrors.NewValidation("el email no es válido")
	}

	if len(in.Password) < 6 {
		return nil, apperrors.NewValidation("el password debe tener al menos 6 caracteres")
	}

	role := model.RoleCliente
	if in.Role != "" {
		if !model.ValidRole(in.Role) {
			return nil, apperrors.NewValidation("el rol debe ser cliente o admin")
		}
		role = in.Role
	}

	active := model.Active
	if in.Active != nil {
		coerced, err := model.CoerceActive(in.Active)
		if err != nil {
			return nil, apperrors.NewValidation("el campo activo debe ser 0 o 1")
		}
		active = coerced
	}

	taken, err := s.repo.EmailTaken(ctx, email, 0)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, &apperrors.ConflictError{Email: email}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Active:       active,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		// The unique index is authoritative: a race past the pre-check still
		// surfaces as a duplicate email, not an internal error.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &apperrors.ConflictError{Email: email}
		}
		return nil, fmt.Errorf("create usuario: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(user.ID))
	return user, nil
}

// UpdateUser validates each supplied field with the creation rules, then
// issues a single UPDATE covering exactly the validated columns. The returned
// map holds only the supplied fields, password excluded.
func (s *userService) UpdateUser(ctx context.Context, id uint, in UpdateUserInput) (map[string]interface{}, error) {
	if in.Empty() {
		return nil, apperrors.NewValidation("debe enviar al menos un campo para actualizar")
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find usuario: %w", err)
	}

	fields := make(map[string]interface{})
	updated := make(map[string]interface{})
	var newEmail string

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperrors.NewValidation("el nombre es obligatorio")
		}
		fields["nombre"] = name
		updated["nombre"] = name
	}

	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if !strings.Contains(email, "@") {
			return nil, apperrors.NewValidation("el email no es válido")
		}
		taken, err := s.repo.EmailTaken(ctx, email, id)
		if err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		}
		if taken {
			return nil, &apperrors.ConflictError{Email: email}
		}
		fields["email"] = email
		updated["email"] = email
		newEmail = email
	}

	if in.Password != nil {
		if len(*in.Password) < 6 {
			return nil, apperrors.NewValidation("el password debe tener al menos 6 caracteres")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		fields["password"] = string(hash)
	}

	if in.Role != nil {
		if !model.ValidRole(*in.Role) {
			return nil, apperrors.NewValidation("el rol debe ser cliente o admin")
		}
		fields["rol"] = *in.Role
		updated["rol"] = *in.Role
	}

	if in.Active != nil {
		active, err := model.CoerceActive(in.Active)
		if err != nil {
			return nil, apperrors.NewValidation("el campo activo debe ser 0 o 1")
		}
		fields["activo"] = active
		updated["activo"] = active
	}

	if len(fields) == 0 {
		// Unreachable given the Empty guard, kept as the last line of defense
		// against an UPDATE with no SET clause.
		return nil, apperrors.NewValidation("debe enviar al menos un campo para actualizar")
	}

	if _, err := s.repo.UpdateByID(ctx, id, fields); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &apperrors.ConflictError{Email: newEmail}
		}
		return nil, fmt.Errorf("update usuario: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return updated, nil
}

func (s *userService) DeleteUser(ctx context.Context, id uint) error {
	affected, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete usuario: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrUserNotFound
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}
