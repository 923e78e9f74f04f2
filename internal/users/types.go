package users

import "time"

// Roles
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User is a storefront account. PasswordHash is a bcrypt digest.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Email        string `gorm:"size:120;uniqueIndex;not null"`
	PasswordHash string `gorm:"type:text;not null"`
	Role         string `gorm:"size:20;not null;default:customer"`
	Name         string `gorm:"size:100"`
	Phone        string `gorm:"size:20"`
	Address      string `gorm:"size:200"`
	CreatedAt    time.Time
}

func (User) TableName() string { return "users" }

// ProfileUpdate carries the patchable account fields. Nil fields are left
// untouched. A password change requires the current password.
type ProfileUpdate struct {
	Name        *string
	Phone       *string
	Address     *string
	Password    string
	NewPassword string
}
