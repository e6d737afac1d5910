package domain

import (
	"time"

	"wayfare/pkg/encrypt"
)

// AccountStatus definition account lifecycle state
type AccountStatus int

const (
	// AccountStatusOffline account has no live session
	AccountStatusOffline AccountStatus = iota
	// AccountStatusOnline account holds at least one live session
	AccountStatusOnline
	// AccountStatusBan account is blocked
	AccountStatusBan
	// AccountStatusDelete account is soft deleted
	AccountStatusDelete
)

// Account definition a platform account row
type Account struct {
	ID             int64
	AccountID      string
	Username       string
	Email          string
	Password       string
	ProfilePicture string
	Status         AccountStatus
}

// AccountSession definition a live login session kept in redis
type AccountSession struct {
	Token        string    `json:"Token"`
	AccountID    string    `json:"AccountID"`
	CreatedAt    time.Time `json:"CreatedAt"`
	LastActivity time.Time `json:"LastActivity"`
	ExpiredAt    time.Time `json:"ExpiredAt"`
}

// AccountQuery join conditions are used to query accounts
type AccountQuery struct {
	ID        *int64  `db:"id"`
	AccountID *string `db:"account_id"`
	Username  *string `db:"username"`
	Email     *string `db:"email"`
}

// IsPasswordMatch check the stored hash against an input password
func (a *Account) IsPasswordMatch(inputPwd string) error {
	return encrypt.CheckPassword(a.Password, inputPwd)
}

// IsExpired check whether the session passed its expiry
func (s *AccountSession) IsExpired() bool {
	return time.Now().After(s.ExpiredAt)
}
