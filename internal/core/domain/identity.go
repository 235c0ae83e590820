package domain

import "time"

// RecordStatus enumerates the active/disabled flag shared by users and roles.
type RecordStatus int16

const (
	StatusDisabled RecordStatus = 0
	StatusActive   RecordStatus = 1
)

// AdminRoleKey satisfies any role requirement regardless of the required role.
const AdminRoleKey = "admin"

// User mirrors the persisted representation in the sys_user table.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Salt         string
	Status       RecordStatus
	CreatedAt    time.Time
}

// IsActive reports whether the account may authenticate.
func (u User) IsActive() bool {
	return u.Status == StatusActive
}
