package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"lixi/internal/model"
)

// UserFilter narrows and pages admin user listings.
type UserFilter struct {
	Page   int
	Limit  int
	Search string
	Role   model.UserRole
	Status model.LuckyMoneyStatus
}

// UserRepository defines user persistence operations.
//
// MarkPlayed and SetBankInfo are conditional updates: they succeed only if the
// persisted lifecycle status still satisfies their precondition at write time,
// so concurrent draws cannot both win.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	ListByAdmin(ctx context.Context, adminID uuid.UUID, filter UserFilter) ([]model.User, int64, error)
	MarkPlayed(ctx context.Context, id uuid.UUID, wonAmount int64) (bool, error)
	SetBankInfo(ctx context.Context, id uuid.UUID, info model.BankInfo) (bool, error)
	ResetLuckyMoney(ctx context.Context, id uuid.UUID) error
	SetTransferred(ctx context.Context, id uuid.UUID, transferred bool) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.User{}).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListByAdmin returns the admin's users matching the filter plus the unpaged
// total for the same filter.
func (r *userRepository) ListByAdmin(ctx context.Context, adminID uuid.UUID, filter UserFilter) ([]model.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.User{}).Where("created_by = ?", adminID)

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("username LIKE ? OR name LIKE ?", like, like)
	}
	if filter.Role != "" {
		q = q.Where("role = ?", filter.Role)
	}
	if filter.Status != "" {
		q = q.Where("lucky_money_status = ?", filter.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		q = q.Offset((page - 1) * filter.Limit).Limit(filter.Limit)
	}

	var users []model.User
	if err := q.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// MarkPlayed transitions NOT_PLAYED -> PLAYED and records the won amount in a
// single conditional update. It returns false when the user had already played
// (the status predicate matched no row).
func (r *userRepository) MarkPlayed(ctx context.Context, id uuid.UUID, wonAmount int64) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND lucky_money_status = ?", id, model.StatusNotPlayed).
		Updates(map[string]interface{}{
			"lucky_money_status": model.StatusPlayed,
			"won_amount":         wonAmount,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// SetBankInfo overwrites the payout destination. It returns false when the
// user has not played yet (the status predicate matched no row).
func (r *userRepository) SetBankInfo(ctx context.Context, id uuid.UUID, info model.BankInfo) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND lucky_money_status = ?", id, model.StatusPlayed).
		Updates(map[string]interface{}{
			"bank_name":           info.BankName,
			"bank_account_number": info.AccountNumber,
			"bank_account_holder": info.AccountHolder,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ResetLuckyMoney rewinds the full draw lifecycle in one update.
func (r *userRepository) ResetLuckyMoney(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"lucky_money_status":  model.StatusNotPlayed,
			"won_amount":          0,
			"bank_name":           nil,
			"bank_account_number": nil,
			"bank_account_holder": nil,
			"transferred":         false,
		}).Error
}

func (r *userRepository) SetTransferred(ctx context.Context, id uuid.UUID, transferred bool) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("transferred", transferred).Error
}
