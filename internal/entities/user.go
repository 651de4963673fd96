package entities

import "time"

// User is a registered adopter or an administrator.
// Users are created at registration (or seeded) and never modified afterwards.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:64;not null" json:"username"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Email        string    `gorm:"size:255;not null" json:"email"`
	FullName     string    `gorm:"size:255;not null" json:"full_name"`
	PhoneNumber  string    `gorm:"size:50;not null" json:"phone_number"`
	Address      string    `gorm:"size:500;not null" json:"address"`
	IsAdmin      bool      `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}
