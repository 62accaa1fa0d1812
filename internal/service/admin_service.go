package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"lixi/internal/cache"
	apperrors "lixi/internal/errors"
	"lixi/internal/model"
	"lixi/internal/repository"
)

// CreateUserInput carries the fields an administrator sets on a new user.
type CreateUserInput struct {
	Username       string
	Name           string
	Password       string
	Role           model.UserRole
	Amounts        model.AmountList
	CustomGreeting string
}

// UpdateUserInput carries optional updates; nil fields are left untouched.
type UpdateUserInput struct {
	Name           *string
	Password       *string
	Role           *model.UserRole
	Amounts        model.AmountList
	CustomGreeting *string
}

// UserPage is a paged listing of an administrator's users.
type UserPage struct {
	Users []model.User `json:"users"`
	Total int64        `json:"total"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
}

// AdminService manages user accounts on behalf of their creating administrator.
// Every operation on an existing user checks ownership: only the administrator
// who created a user may see or mutate it.
type AdminService interface {
	CreateUser(ctx context.Context, adminID uuid.UUID, input CreateUserInput) (*model.User, error)
	UpdateUser(ctx context.Context, adminID, userID uuid.UUID, input UpdateUserInput) (*model.User, error)
	GetUser(ctx context.Context, adminID, userID uuid.UUID) (*model.User, error)
	ListUsers(ctx context.Context, adminID uuid.UUID, filter repository.UserFilter) (*UserPage, error)
	DeleteUser(ctx context.Context, adminID, userID uuid.UUID) error
	ResetUser(ctx context.Context, adminID, userID uuid.UUID) (*model.User, error)
	ToggleTransferred(ctx context.Context, adminID, userID uuid.UUID) (*model.User, error)
}

type adminService struct {
	userRepo repository.UserRepository
	cache    *cache.Client
}

// NewAdminService creates a new admin service.
func NewAdminService(userRepo repository.UserRepository, cache *cache.Client) AdminService {
	return &adminService{userRepo: userRepo, cache: cache}
}

// CreateUser creates a user owned by the calling administrator.
func (s *adminService) CreateUser(ctx context.Context, adminID uuid.UUID, input CreateUserInput) (*model.User, error) {
	if len(input.Amounts) == 0 {
		return nil, apperrors.ErrEmptyPrizePool
	}

	existing, err := s.userRepo.FindByUsername(ctx, input.Username)
	if err == nil && existing != nil {
		return nil, apperrors.ErrUsernameTaken
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("check username: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:       input.Username,
		Name:           input.Name,
		PasswordHash:   string(hashedPassword),
		Role:           input.Role,
		CreatedBy:      adminID,
		Amounts:        input.Amounts,
		Status:         model.StatusNotPlayed,
		CustomGreeting: input.CustomGreeting,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// UpdateUser applies the provided fields to a user the administrator owns.
// A pool change never retroactively alters a won amount.
func (s *adminService) UpdateUser(ctx context.Context, adminID, userID uuid.UUID, input UpdateUserInput) (*model.User, error) {
	user, err := s.findOwnedUser(ctx, adminID, userID)
	if err != nil {
		return nil, err
	}

	if input.Password != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hashedPassword)
	}
	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.Amounts != nil {
		if len(input.Amounts) == 0 {
			return nil, apperrors.ErrEmptyPrizePool
		}
		user.Amounts = input.Amounts
	}
	if input.CustomGreeting != nil {
		user.CustomGreeting = *input.CustomGreeting
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	_ = s.cache.Delete(ctx, userCacheKey(userID))
	return user, nil
}

// GetUser returns a user the administrator owns.
func (s *adminService) GetUser(ctx context.Context, adminID, userID uuid.UUID) (*model.User, error) {
	return s.findOwnedUser(ctx, adminID, userID)
}

// ListUsers returns the administrator's own users matching the filter.
func (s *adminService) ListUsers(ctx context.Context, adminID uuid.UUID, filter repository.UserFilter) (*UserPage, error) {
	users, total, err := s.userRepo.ListByAdmin(ctx, adminID, filter)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	return &UserPage{Users: users, Total: total, Page: page, Limit: filter.Limit}, nil
}

// DeleteUser removes a user the administrator owns.
func (s *adminService) DeleteUser(ctx context.Context, adminID, userID uuid.UUID) error {
	if _, err := s.findOwnedUser(ctx, adminID, userID); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	_ = s.cache.Delete(ctx, userCacheKey(userID))
	return nil
}

// ResetUser rewinds the full draw lifecycle: NOT_PLAYED, zero won amount, no
// bank info, transferred flag cleared. Draw-independent fields are untouched.
func (s *adminService) ResetUser(ctx context.Context, adminID, userID uuid.UUID) (*model.User, error) {
	if _, err := s.findOwnedUser(ctx, adminID, userID); err != nil {
		return nil, err
	}
	if err := s.userRepo.ResetLuckyMoney(ctx, userID); err != nil {
		return nil, fmt.Errorf("reset lucky money: %w", err)
	}
	_ = s.cache.Delete(ctx, userCacheKey(userID))
	return s.userRepo.FindByID(ctx, userID)
}

// ToggleTransferred flips the payout-sent flag on a user the administrator owns.
func (s *adminService) ToggleTransferred(ctx context.Context, adminID, userID uuid.UUID) (*model.User, error) {
	user, err := s.findOwnedUser(ctx, adminID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.SetTransferred(ctx, userID, !user.Transferred); err != nil {
		return nil, fmt.Errorf("set transferred: %w", err)
	}
	_ = s.cache.Delete(ctx, userCacheKey(userID))
	user.Transferred = !user.Transferred
	return user, nil
}

func (s *adminService) findOwnedUser(ctx context.Context, adminID, userID uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	if user.CreatedBy != adminID {
		return nil, apperrors.ErrForbidden
	}
	return user, nil
}
