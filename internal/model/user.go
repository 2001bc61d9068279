package model

import "time"

type AccessType int16

const (
	AccessTypeRegular AccessType = 1
	AccessTypeAdmin   AccessType = 2
)

type User struct {
	ID                int64      `json:"id" db:"id"`
	Name              string     `json:"name" db:"name"`
	Username          string     `json:"username" db:"username"`
	Email             string     `json:"email" db:"email"`
	PasswordHash      string     `json:"-" db:"password_hash"`
	City              *string    `json:"city" db:"city"`
	Birthdate         *time.Time `json:"birthdate" db:"birthdate"`
	PreferredLanguage string     `json:"preferred_language" db:"preferred_language"`
	Gender            int16      `json:"gender" db:"gender"`
	AccessType        AccessType `json:"access_type" db:"access_type"`
	Height            *int       `json:"height" db:"height"`
	PhotoPath         *string    `json:"photo_path" db:"photo_path"`
	IsActive          bool       `json:"is_active" db:"is_active"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.AccessType == AccessTypeAdmin
}

// AccessToken is a server-side record of an issued JWT, keyed by its jti.
// Deleting the row revokes the token.
type AccessToken struct {
	ID        int64     `json:"id" db:"id"`
	TokenID   string    `json:"token_id" db:"token_id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
}
