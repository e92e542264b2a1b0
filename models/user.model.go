package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleStudent    = "STUDENT"
	RoleInstructor = "INSTRUCTOR"
	RoleAdmin      = "ADMIN"
	RoleModerator  = "MODERATOR"
)

type User struct {
	gorm.Model
	Name            string     `gorm:"default:''"`
	Email           string     `gorm:"unique;not null"`
	Password        string     `gorm:"not null"`
	Role            string     `gorm:"default:'STUDENT'"` // STUDENT, INSTRUCTOR, ADMIN, MODERATOR
	Bio             string     `gorm:"default:''"`
	Reputation      uint64     `gorm:"default:100"` // doubles as governance voting weight
	IsEmailVerified bool       `gorm:"default:false"`
	LastLogin       *time.Time `json:"last_login"`
	IsDeleted       bool       `gorm:"default:false"`
}
