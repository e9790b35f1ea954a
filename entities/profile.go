package entities

import "time"

// Profile ID is the auth user id.
type Profile struct {
	ID              string    `gorm:"primaryKey;type:text" json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Gender          string    `json:"gender"`
	Mobile          string    `json:"mobile"`
	Location        string    `json:"location"`
	ProfileImageURL string    `json:"profile_image_url"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Account backs the local auth provider.
type Account struct {
	ID           string `gorm:"primaryKey;type:text"`
	Email        string `gorm:"uniqueIndex"`
	PasswordHash string
	CreatedAt    time.Time
}

type RevokedToken struct {
	JTI       string    `gorm:"primaryKey;type:text"`
	ExpiresAt time.Time `gorm:"index"`
}

// PasswordReset is a single-use token for the local provider.
type PasswordReset struct {
	ID        string `gorm:"primaryKey;type:text"`
	Email     string `gorm:"index"`
	Token     string `gorm:"uniqueIndex"`
	UsedAt    *time.Time
	CreatedAt time.Time
}
