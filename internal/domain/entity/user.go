package entity

import (
	"time"

	"github.com/Jackela/catams/internal/domain/workflow"
)

// User is the role-carrying identity snapshot of an actor in the system.
type User struct {
	ID        int64         `json:"id"`
	Email     string        `json:"email"`
	Name      string        `json:"name"`
	Role      workflow.Role `json:"role"`
	CreatedAt time.Time     `json:"created_at"`
}
