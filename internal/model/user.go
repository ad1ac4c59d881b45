package model

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           int64      `json:"id"`
	OpenID       string     `json:"open_id"`
	Name         *string    `json:"name"`
	Email        *string    `json:"email"`
	TelegramID   *int64     `json:"telegram_id,omitempty"`
	LoginMethod  *string    `json:"login_method"`
	Role         string     `json:"role"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	LastSignedIn *time.Time `json:"last_signed_in"`
	PasswordHash *string    `json:"-"`
}

// IsAdmin checks if user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// DisplayName returns name or email, whichever is set
func (u *User) DisplayName() string {
	if u.Name != nil && *u.Name != "" {
		return *u.Name
	}
	if u.Email != nil {
		return *u.Email
	}
	return u.OpenID
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	h := string(hash)
	u.PasswordHash = &h
	return nil
}

// CheckPassword fails for accounts without a password (Telegram sign-up)
func (u *User) CheckPassword(pwd string) error {
	if u.PasswordHash == nil {
		return bcrypt.ErrMismatchedHashAndPassword
	}
	return bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(pwd))
}
