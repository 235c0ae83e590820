package domain

import "time"

// Role defines a named set of permissions identified by a stable key.
type Role struct {
	ID        int64
	RoleKey   string
	RoleName  string
	Status    RecordStatus
	CreatedAt time.Time
}

// Permission defines a named capability identified by a stable key.
type Permission struct {
	ID       int64
	PermKey  string
	PermName string
}

// UserRole assigns a role to a user.
type UserRole struct {
	UserID int64
	RoleID int64
}

// RolePermission links a role with a permission.
type RolePermission struct {
	RoleID int64
	PermID int64
}
