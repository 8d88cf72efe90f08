package domain

import (
	"time"

	"github.com/google/uuid"
)

// QuickTemplate is a canned message body agents insert into conversations.
type QuickTemplate struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Category  string    `json:"category,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
