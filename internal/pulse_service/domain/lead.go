package domain

import (
	"time"

	"github.com/google/uuid"
)

// LeadStatus defines the possible states of a sales lead.
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusActive    LeadStatus = "active"
	LeadStatusQualified LeadStatus = "qualified"
	LeadStatusLost      LeadStatus = "lost"
)

// Lead is a sales lead owned by the lead service; this layer holds a
// projection keyed by the lead's UUID.
type Lead struct {
	UUID      uuid.UUID  `json:"uuid"`
	Name      string     `json:"name"`
	Company   string     `json:"company,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	Email     string     `json:"email,omitempty"`
	Status    LeadStatus `json:"status"`
	Source    string     `json:"source,omitempty"`
	Notes     string     `json:"notes,omitempty"`
	LostAt    *time.Time `json:"lost_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// LeadUpdate carries the mutable lead fields for an update call. Nil pointers
// mean "leave unchanged" so partial updates never clobber server-side state.
type LeadUpdate struct {
	Name    *string `json:"name,omitempty"`
	Company *string `json:"company,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Email   *string `json:"email,omitempty"`
	Notes   *string `json:"notes,omitempty"`
}
