package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"lixi/internal/model"
	"lixi/internal/repository"
)

// memUserRepo is an in-memory UserRepository with the same conditional-update
// semantics as the GORM implementation, so lifecycle races can be exercised
// without a database.
type memUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*model.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *memUserRepo) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *memUserRepo) Update(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *memUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

func (r *memUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *user
	return &cp, nil
}

func (r *memUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Username == username {
			cp := *user
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUserRepo) ListByAdmin(ctx context.Context, adminID uuid.UUID, filter repository.UserFilter) ([]model.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []model.User
	for _, user := range r.users {
		if user.CreatedBy != adminID {
			continue
		}
		if filter.Search != "" &&
			!strings.Contains(user.Username, filter.Search) &&
			!strings.Contains(user.Name, filter.Search) {
			continue
		}
		if filter.Role != "" && user.Role != filter.Role {
			continue
		}
		if filter.Status != "" && user.Status != filter.Status {
			continue
		}
		matched = append(matched, *user)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Username < matched[j].Username
	})

	total := int64(len(matched))
	if filter.Limit > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		start := (page - 1) * filter.Limit
		if start > len(matched) {
			start = len(matched)
		}
		end := start + filter.Limit
		if end > len(matched) {
			end = len(matched)
		}
		matched = matched[start:end]
	}
	return matched, total, nil
}

func (r *memUserRepo) MarkPlayed(ctx context.Context, id uuid.UUID, wonAmount int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok || user.Status != model.StatusNotPlayed {
		return false, nil
	}
	user.Status = model.StatusPlayed
	user.WonAmount = wonAmount
	return true, nil
}

func (r *memUserRepo) SetBankInfo(ctx context.Context, id uuid.UUID, info model.BankInfo) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok || user.Status != model.StatusPlayed {
		return false, nil
	}
	cp := info
	user.BankInfo = &cp
	return true, nil
}

func (r *memUserRepo) ResetLuckyMoney(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.Status = model.StatusNotPlayed
	user.WonAmount = 0
	user.BankInfo = nil
	user.Transferred = false
	return nil
}

func (r *memUserRepo) SetTransferred(ctx context.Context, id uuid.UUID, transferred bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.Transferred = transferred
	return nil
}

var _ repository.UserRepository = (*memUserRepo)(nil)
