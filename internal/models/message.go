package models

import (
	"time"

	"github.com/google/uuid"
)

// Message is a customer-submitted contact entry. Admins can mark it read,
// attach a reply, or delete it.
type Message struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Body       string     `json:"message"`
	Read       bool       `json:"read"`
	AdminReply *string    `json:"admin_reply,omitempty"`
	RepliedAt  *time.Time `json:"replied_at,omitempty"`
	RepliedBy  *uuid.UUID `json:"replied_by,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
