package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	apperrors "lixi/internal/errors"
	"lixi/internal/model"
)

func newTestLuckyMoneyService(repo *memUserRepo) *luckyMoneyService {
	return NewLuckyMoneyService(repo, nil).(*luckyMoneyService)
}

func seedUser(t *testing.T, repo *memUserRepo, amounts model.AmountList) *model.User {
	t.Helper()
	user := &model.User{
		Username:     "tet-" + uuid.NewString()[:8],
		PasswordHash: "hash",
		Role:         model.RoleFriend,
		CreatedBy:    uuid.New(),
		Amounts:      amounts,
		Status:       model.StatusNotPlayed,
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestLuckyMoneyService_Draw(t *testing.T) {
	amounts := model.AmountList{50000, 100000, 200000}

	t.Run("successful draw lands in the pool", func(t *testing.T) {
		repo := newMemUserRepo()
		svc := newTestLuckyMoneyService(repo)
		user := seedUser(t, repo, amounts)

		result, err := svc.Draw(context.Background(), user.ID)
		assert.NoError(t, err)
		assert.Contains(t, amounts, result.WonAmount)

		stored, err := repo.FindByID(context.Background(), user.ID)
		assert.NoError(t, err)
		assert.Equal(t, model.StatusPlayed, stored.Status)
		assert.Equal(t, result.WonAmount, stored.WonAmount)
	})

	t.Run("deterministic selection uses the drawn index", func(t *testing.T) {
		repo := newMemUserRepo()
		svc := newTestLuckyMoneyService(repo)
		svc.randInt = func(n int) int { return 2 }
		user := seedUser(t, repo, amounts)

		result, err := svc.Draw(context.Background(), user.ID)
		assert.NoError(t, err)
		assert.Equal(t, int64(200000), result.WonAmount)
	})

	t.Run("second draw fails and keeps the first result", func(t *testing.T) {
		repo := newMemUserRepo()
		svc := newTestLuckyMoneyService(repo)
		user := seedUser(t, repo, amounts)

		first, err := svc.Draw(context.Background(), user.ID)
		assert.NoError(t, err)

		_, err = svc.Draw(context.Background(), user.ID)
		assert.Equal(t, apperrors.ErrAlreadyPlayed, err)

		stored, _ := repo.FindByID(context.Background(), user.ID)
		assert.Equal(t, first.WonAmount, stored.WonAmount)
	})

	t.Run("unknown user", func(t *testing.T) {
		repo := newMemUserRepo()
		svc := newTestLuckyMoneyService(repo)

		_, err := svc.Draw(context.Background(), uuid.New())
		assert.Equal(t, apperrors.ErrUserNotFound, err)
	})

	t.Run("empty prize pool", func(t *testing.T) {
		repo := newMemUserRepo()
		svc := newTestLuckyMoneyService(repo)
		user := seedUser(t, repo, nil)

		_, err := svc.Draw(context.Background(), user.ID)
		assert.Equal(t, apperrors.ErrEmptyPrizePool, err)
	})
}

func TestLuckyMoneyService_Draw_AtMostOnce(t *testing.T) {
	const attempts = 32

	repo := newMemUserRepo()
	svc := newTestLuckyMoneyService(repo)
	user := seedUser(t, repo, model.AmountList{50000, 100000, 200000})

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes []int64
		failures  int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := svc.Draw(context.Background(), user.ID)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes = append(successes, result.WonAmount)
			} else if err == apperrors.ErrAlreadyPlayed {
				failures++
			}
		}()
	}
	wg.Wait()

	assert.Len(t, successes, 1)
	assert.Equal(t, attempts-1, failures)

	stored, err := repo.FindByID(context.Background(), user.ID)
	assert.NoError(t, err)
	assert.Equal(t, successes[0], stored.WonAmount)
	assert.Equal(t, model.StatusPlayed, stored.Status)
}

func TestLuckyMoneyService_SubmitBankInfo(t *testing.T) {
	t.Run("before draw", func(t *testing.T) {
		repo := newMemUserRepo()
		svc := newTestLuckyMoneyService(repo)
		user := seedUser(t, repo, model.AmountList{50000})

		_, err := svc.SubmitBankInfo(context.Background(), user.ID, model.BankInfo{
			BankName:      "ABC",
			AccountNumber: "123",
		})
		assert.Equal(t, apperrors.ErrNotPlayedYet, err)

		stored, _ := repo.FindByID(context.Background(), user.ID)
		assert.Nil(t, stored.BankInfo)
	})

	t.Run("resubmission replaces previous values", func(t *testing.T) {
		repo := newMemUserRepo()
		svc := newTestLuckyMoneyService(repo)
		user := seedUser(t, repo, model.AmountList{50000})

		_, err := svc.Draw(context.Background(), user.ID)
		assert.NoError(t, err)

		_, err = svc.SubmitBankInfo(context.Background(), user.ID, model.BankInfo{
			BankName:      "ABC",
			AccountNumber: "123",
		})
		assert.NoError(t, err)

		_, err = svc.SubmitBankInfo(context.Background(), user.ID, model.BankInfo{
			BankName:      "XYZ",
			AccountNumber: "456",
			AccountHolder: "Nguyen Van A",
		})
		assert.NoError(t, err)

		stored, _ := repo.FindByID(context.Background(), user.ID)
		assert.Equal(t, "XYZ", stored.BankInfo.BankName)
		assert.Equal(t, "456", stored.BankInfo.AccountNumber)
		assert.Equal(t, "Nguyen Van A", stored.BankInfo.AccountHolder)
	})

	t.Run("unknown user", func(t *testing.T) {
		repo := newMemUserRepo()
		svc := newTestLuckyMoneyService(repo)

		_, err := svc.SubmitBankInfo(context.Background(), uuid.New(), model.BankInfo{
			BankName:      "ABC",
			AccountNumber: "123",
		})
		assert.Equal(t, apperrors.ErrUserNotFound, err)
	})
}

func TestLuckyMoneyService_GetStatus(t *testing.T) {
	repo := newMemUserRepo()
	svc := newTestLuckyMoneyService(repo)
	user := seedUser(t, repo, model.AmountList{50000, 100000})

	status, err := svc.GetStatus(context.Background(), user.ID)
	assert.NoError(t, err)
	assert.Equal(t, model.StatusNotPlayed, status.Status)
	assert.Equal(t, model.AmountList{50000, 100000}, status.Amounts)
	assert.Zero(t, status.WonAmount)
	assert.Nil(t, status.BankInfo)

	_, err = svc.Draw(context.Background(), user.ID)
	assert.NoError(t, err)

	// The pool is only shown pre-draw.
	status, err = svc.GetStatus(context.Background(), user.ID)
	assert.NoError(t, err)
	assert.Equal(t, model.StatusPlayed, status.Status)
	assert.Empty(t, status.Amounts)
	assert.NotZero(t, status.WonAmount)
}

func TestLuckyMoneyService_GetConfig(t *testing.T) {
	repo := newMemUserRepo()
	svc := newTestLuckyMoneyService(repo)

	t.Run("role greeting and theme", func(t *testing.T) {
		user := seedUser(t, repo, model.AmountList{50000})
		user.Role = model.RoleColleague
		assert.NoError(t, repo.Update(context.Background(), user))

		cfg, err := svc.GetConfig(context.Background(), user.ID)
		assert.NoError(t, err)
		assert.Equal(t, model.RoleColleague, cfg.Role)
		assert.NotEmpty(t, cfg.Message)
		assert.NotEmpty(t, cfg.Theme.PrimaryColor)
	})

	t.Run("custom greeting overrides canned message", func(t *testing.T) {
		user := seedUser(t, repo, model.AmountList{50000})
		user.CustomGreeting = "Chúc mừng năm mới, cậu bạn thân!"
		assert.NoError(t, repo.Update(context.Background(), user))

		cfg, err := svc.GetConfig(context.Background(), user.ID)
		assert.NoError(t, err)
		assert.Equal(t, "Chúc mừng năm mới, cậu bạn thân!", cfg.Message)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.GetConfig(context.Background(), uuid.New())
		assert.Equal(t, apperrors.ErrUserNotFound, err)
	})
}
