package auth

import (
	"time"

	"github.com/procura-platform/procura/internal/authz"
)

// User represents an authenticated platform account.
type User struct {
	ID           int64
	Email        string
	DisplayName  string
	PasswordHash string
	Role         authz.Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
