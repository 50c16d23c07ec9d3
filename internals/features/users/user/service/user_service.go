package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"evalku_backend/internals/constants"
	"evalku_backend/internals/features/users/auth/blacklist"
	authService "evalku_backend/internals/features/users/auth/service"
	"evalku_backend/internals/features/users/user/dto"
	userModel "evalku_backend/internals/features/users/user/model"
	apperror "evalku_backend/internals/helpers/errors"
)

// UserService manages accounts. Deactivation replaces deletion so
// historical evaluations keep valid references, and it immediately
// invalidates every outstanding session of the account.
type UserService struct {
	DB        *gorm.DB
	Blacklist blacklist.Store
}

func NewUserService(db *gorm.DB, store blacklist.Store) *UserService {
	return &UserService{DB: db, Blacklist: store}
}

// CreateUser registers an account with the given role.
func (s *UserService) CreateUser(ctx context.Context, req *dto.CreateUserRequest, role constants.Role) (*userModel.UserModel, error) {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&userModel.UserModel{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		return nil, apperror.Internal("Failed to check existing users")
	}
	if count > 0 {
		return nil, apperror.Conflict("Email already registered")
	}

	hash, err := authService.HashPassword(req.Password)
	if err != nil {
		return nil, apperror.Internal("Failed to hash password")
	}

	user := userModel.UserModel{
		Name:        req.Name,
		Email:       req.Email,
		Password:    hash,
		Role:        role,
		Status:      constants.UserActive,
		Description: req.Description,
	}
	if err := s.DB.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, apperror.Internal("Failed to create user")
	}
	return &user, nil
}

// Authenticate checks the credentials and the account status.
func (s *UserService) Authenticate(ctx context.Context, req *dto.LoginRequest) (*userModel.UserModel, error) {
	var user userModel.UserModel
	err := s.DB.WithContext(ctx).Where("email = ?", req.Email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, apperror.Internal("Failed to retrieve user")
	}
	if !user.IsActive() {
		return nil, apperror.Unauthorized("Account is inactive")
	}
	if !authService.VerifyPassword(user.Password, req.Password) {
		return nil, apperror.Unauthorized("Invalid credentials")
	}
	return &user, nil
}

// GetUsers lists accounts, optionally filtered by role.
func (s *UserService) GetUsers(ctx context.Context, role *constants.Role, offset, limit int) ([]userModel.UserModel, int64, error) {
	q := s.DB.WithContext(ctx).Model(&userModel.UserModel{})
	if role != nil {
		q = q.Where("role = ?", *role)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperror.Internal("Failed to count users")
	}

	var users []userModel.UserModel
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, apperror.Internal("Failed to retrieve users")
	}
	return users, total, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := s.DB.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, apperror.Internal("Failed to retrieve user")
	}
	return &user, nil
}

// UpdateUser patches the account. A role or status change revokes all
// of the user's sessions so stale tokens cannot keep the old powers.
func (s *UserService) UpdateUser(ctx context.Context, id uint, req *dto.UpdateUserRequest) (*userModel.UserModel, error) {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Email != nil && *req.Email != user.Email {
		var count int64
		if err := s.DB.WithContext(ctx).Model(&userModel.UserModel{}).Where("email = ? AND id <> ?", *req.Email, id).Count(&count).Error; err != nil {
			return nil, apperror.Internal("Failed to check existing users")
		}
		if count > 0 {
			return nil, apperror.Conflict("Email already registered")
		}
		updates["email"] = *req.Email
	}
	if req.Password != nil {
		hash, err := authService.HashPassword(*req.Password)
		if err != nil {
			return nil, apperror.Internal("Failed to hash password")
		}
		updates["password"] = hash
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}

	sessionsStale := false
	if req.Role != nil && constants.Role(*req.Role) != user.Role {
		updates["role"] = *req.Role
		sessionsStale = true
	}
	if req.Status != nil && constants.UserStatus(*req.Status) != user.Status {
		updates["status"] = *req.Status
		sessionsStale = true
	}

	if len(updates) > 0 {
		if err := s.DB.WithContext(ctx).Model(&userModel.UserModel{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, apperror.Internal("Failed to update user")
		}
	}
	if sessionsStale {
		s.Blacklist.RevokeAllForUser(id)
	}

	return s.GetUserByID(ctx, id)
}

// DeactivateUser is the delete operation: the row stays, the status
// flips to inactive, and every outstanding token is revoked.
func (s *UserService) DeactivateUser(ctx context.Context, id uint) error {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	if !user.IsActive() {
		return apperror.Conflict("Account is already inactive")
	}

	err = s.DB.WithContext(ctx).
		Model(&userModel.UserModel{}).
		Where("id = ?", id).
		Update("status", constants.UserInactive).Error
	if err != nil {
		return apperror.Internal("Failed to deactivate user")
	}

	s.Blacklist.RevokeAllForUser(id)
	return nil
}
