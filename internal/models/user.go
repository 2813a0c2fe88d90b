package models

import (
	"time"
)

// Role values for User.Role
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
	RolePending = "pending"
)

// User represents an account. Signups start as RolePending until an admin
// approves them; approval flips the role to RoleStudent.
type User struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement"`
	Username     string `gorm:"size:64;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Role         string `gorm:"size:16;not null;default:pending;index"`
	RealName     string `gorm:"size:128;not null"`
	GroupLabel   string `gorm:"size:32"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}
