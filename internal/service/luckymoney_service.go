package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"lixi/internal/cache"
	apperrors "lixi/internal/errors"
	"lixi/internal/model"
	"lixi/internal/repository"
)

const userCacheTTL = 5 * time.Minute

func userCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("user:%s", id.String())
}

// Theme describes the client-side styling for a role.
type Theme struct {
	Background     string `json:"background"`
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
}

// GreetingConfig is the role-based greeting and theme shown before the draw.
type GreetingConfig struct {
	Role    model.UserRole `json:"role"`
	Message string         `json:"message"`
	Theme   Theme          `json:"theme"`
}

// DrawResult is returned from a successful draw.
type DrawResult struct {
	WonAmount int64  `json:"won_amount"`
	Message   string `json:"message"`
}

// UserStatus is the lifecycle view exposed to the authenticated user. The
// prize pool is included only before the draw.
type UserStatus struct {
	Username  string                 `json:"username"`
	Name      string                 `json:"name,omitempty"`
	Role      model.UserRole         `json:"role"`
	Status    model.LuckyMoneyStatus `json:"lucky_money_status"`
	WonAmount int64                  `json:"won_amount"`
	BankInfo  *model.BankInfo        `json:"bank_info,omitempty"`
	Amounts   model.AmountList       `json:"available_amounts,omitempty"`
}

var greetingConfigs = map[model.UserRole]GreetingConfig{
	model.RoleLover: {
		Role:    model.RoleLover,
		Message: "💝 Chúc em một năm mới tràn ngập yêu thương và hạnh phúc! Nhận lì xì từ anh nhé! 💕",
		Theme: Theme{
			Background:     "linear-gradient(135deg, #fce4ec 0%, #f8bbd0 100%)",
			PrimaryColor:   "#ec4899",
			SecondaryColor: "#db2777",
		},
	},
	model.RoleFriend: {
		Role:    model.RoleFriend,
		Message: "🎉 Chúc mừng năm mới! Năm nay giàu to, vui vẻ hết nấc! 🥳 Nhận lì xì đi bạn êi!",
		Theme: Theme{
			Background:     "linear-gradient(135deg, #fff3e0 0%, #ffcc80 100%)",
			PrimaryColor:   "#fb923c",
			SecondaryColor: "#ea580c",
		},
	},
	model.RoleColleague: {
		Role:    model.RoleColleague,
		Message: "🏮 Kính chúc quý đồng nghiệp một năm mới an khang, thịnh vượng và thành công! 🌟",
		Theme: Theme{
			Background:     "linear-gradient(135deg, #b91c1c 0%, #991b1b 100%)",
			PrimaryColor:   "#dc2626",
			SecondaryColor: "#991b1b",
		},
	},
	model.RoleFamily: {
		Role:    model.RoleFamily,
		Message: "🧧 Chúc cả nhà năm mới mạnh khỏe, bình an và sung túc! Nhận lì xì lấy lộc nhé! 🌸",
		Theme: Theme{
			Background:     "linear-gradient(135deg, #fef9c3 0%, #fde047 100%)",
			PrimaryColor:   "#eab308",
			SecondaryColor: "#ca8a04",
		},
	},
}

// LuckyMoneyService handles the draw lifecycle for authenticated users.
type LuckyMoneyService interface {
	GetConfig(ctx context.Context, userID uuid.UUID) (*GreetingConfig, error)
	Draw(ctx context.Context, userID uuid.UUID) (*DrawResult, error)
	SubmitBankInfo(ctx context.Context, userID uuid.UUID, info model.BankInfo) (*model.BankInfo, error)
	GetStatus(ctx context.Context, userID uuid.UUID) (*UserStatus, error)
}

type luckyMoneyService struct {
	repo  repository.UserRepository
	cache *cache.Client
	// randInt is rand.Intn unless replaced in tests.
	randInt func(n int) int
}

// NewLuckyMoneyService creates a new lucky money service.
func NewLuckyMoneyService(repo repository.UserRepository, cache *cache.Client) LuckyMoneyService {
	return &luckyMoneyService{
		repo:    repo,
		cache:   cache,
		randInt: rand.Intn,
	}
}

// GetConfig returns the greeting and theme for the user's role. A custom
// greeting configured by the administrator overrides the canned message.
func (s *luckyMoneyService) GetConfig(ctx context.Context, userID uuid.UUID) (*GreetingConfig, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	cfg, ok := greetingConfigs[user.Role]
	if !ok {
		cfg = greetingConfigs[model.RoleFriend]
		cfg.Role = user.Role
	}
	if user.CustomGreeting != "" {
		cfg.Message = user.CustomGreeting
	}
	return &cfg, nil
}

// Draw performs the one-time random prize selection. The NOT_PLAYED -> PLAYED
// transition is a conditional update at the repository, so of N concurrent
// draws exactly one succeeds and the rest observe ErrAlreadyPlayed.
func (s *luckyMoneyService) Draw(ctx context.Context, userID uuid.UUID) (*DrawResult, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Status == model.StatusPlayed {
		return nil, apperrors.ErrAlreadyPlayed
	}
	if len(user.Amounts) == 0 {
		return nil, apperrors.ErrEmptyPrizePool
	}

	wonAmount := user.Amounts[s.randInt(len(user.Amounts))]

	ok, err := s.repo.MarkPlayed(ctx, userID, wonAmount)
	if err != nil {
		return nil, fmt.Errorf("mark played: %w", err)
	}
	if !ok {
		// Lost the race against a concurrent draw.
		return nil, apperrors.ErrAlreadyPlayed
	}

	_ = s.cache.Delete(ctx, userCacheKey(userID))

	return &DrawResult{
		WonAmount: wonAmount,
		Message:   fmt.Sprintf("🎊 Chúc mừng! Bạn đã nhận được %d VNĐ!", wonAmount),
	}, nil
}

// SubmitBankInfo records where winnings should be sent. Resubmission replaces
// the previous values.
func (s *luckyMoneyService) SubmitBankInfo(ctx context.Context, userID uuid.UUID, info model.BankInfo) (*model.BankInfo, error) {
	ok, err := s.repo.SetBankInfo(ctx, userID, info)
	if err != nil {
		return nil, fmt.Errorf("set bank info: %w", err)
	}
	if !ok {
		// Either the user is gone or they have not drawn yet.
		if _, err := s.findUser(ctx, userID); err != nil {
			return nil, err
		}
		return nil, apperrors.ErrNotPlayedYet
	}

	_ = s.cache.Delete(ctx, userCacheKey(userID))
	return &info, nil
}

// GetStatus returns the user's lifecycle state, cached briefly.
func (s *luckyMoneyService) GetStatus(ctx context.Context, userID uuid.UUID) (*UserStatus, error) {
	key := userCacheKey(userID)
	if data, _ := s.cache.Get(ctx, key); data != nil {
		var cached UserStatus
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	status := &UserStatus{
		Username:  user.Username,
		Name:      user.Name,
		Role:      user.Role,
		Status:    user.Status,
		WonAmount: user.WonAmount,
		BankInfo:  user.BankInfo,
	}
	if user.Status == model.StatusNotPlayed {
		status.Amounts = user.Amounts
	}

	if payload, err := json.Marshal(status); err == nil {
		_ = s.cache.Set(ctx, key, payload, userCacheTTL)
	}
	return status, nil
}

func (s *luckyMoneyService) findUser(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
