package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRole selects the greeting and theme shown to a user.
type UserRole string

const (
	RoleLover     UserRole = "LOVER"
	RoleFriend    UserRole = "FRIEND"
	RoleColleague UserRole = "COLLEAGUE"
	RoleFamily    UserRole = "FAMILY"
)

// Valid reports whether the role is one of the known values.
func (r UserRole) Valid() bool {
	switch r {
	case RoleLover, RoleFriend, RoleColleague, RoleFamily:
		return true
	}
	return false
}

// LuckyMoneyStatus is the draw lifecycle state of a user.
type LuckyMoneyStatus string

const (
	StatusNotPlayed LuckyMoneyStatus = "NOT_PLAYED"
	StatusPlayed    LuckyMoneyStatus = "PLAYED"
)

// AmountList is an ordered prize pool stored as a JSON column. Amounts are
// whole currency units; an amount listed twice is twice as likely to be drawn.
type AmountList []int64

// Value implements driver.Valuer.
func (a AmountList) Value() (driver.Value, error) {
	return json.Marshal(a)
}

// Scan implements sql.Scanner.
func (a *AmountList) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	case nil:
		*a = nil
		return nil
	}
	return fmt.Errorf("unsupported amount list source %T", src)
}

// BankInfo holds the payout destination a user submits after winning.
type BankInfo struct {
	BankName      string `json:"bank_name" gorm:"column:bank_name;size:255"`
	AccountNumber string `json:"account_number" gorm:"column:bank_account_number;size:64"`
	AccountHolder string `json:"account_holder,omitempty" gorm:"column:bank_account_holder;size:255"`
}

// User represents a lucky-money participant created by an administrator.
type User struct {
	ID             uuid.UUID        `json:"id" gorm:"type:char(36);primaryKey"`
	Username       string           `json:"username" gorm:"uniqueIndex;size:255;not null"`
	Name           string           `json:"name,omitempty" gorm:"size:255"`
	PasswordHash   string           `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role           UserRole         `json:"role" gorm:"size:32;not null;index"`
	CreatedBy      uuid.UUID        `json:"created_by" gorm:"type:char(36);not null;index"`
	Amounts        AmountList       `json:"available_amounts" gorm:"column:available_amounts;type:json;not null"`
	Status         LuckyMoneyStatus `json:"lucky_money_status" gorm:"column:lucky_money_status;size:32;not null;default:'NOT_PLAYED';index"`
	WonAmount      int64            `json:"won_amount" gorm:"not null;default:0"`
	BankInfo       *BankInfo        `json:"bank_info,omitempty" gorm:"embedded"`
	Transferred    bool             `json:"transferred" gorm:"not null;default:false"`
	CustomGreeting string           `json:"custom_greeting,omitempty" gorm:"size:1024"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// AfterFind drops an empty embedded bank record so "no payout info yet" is
// observable as a nil BankInfo.
func (u *User) AfterFind(tx *gorm.DB) error {
	if u.BankInfo != nil && *u.BankInfo == (BankInfo{}) {
		u.BankInfo = nil
	}
	return nil
}
