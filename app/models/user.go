package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID        string `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	Username  string `gorm:"size:100;not null;uniqueIndex" json:"username"`
	FullName  string `gorm:"size:200" json:"full_name"`
	Password  string `gorm:"size:255;not null" json:"-"`
	Role      string `gorm:"size:20;default:'staff';not null" json:"role"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
