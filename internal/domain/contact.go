package domain

import (
	"strings"
	"time"
)

// Contact is an immutable snapshot of one professional contact.
type Contact struct {
	FullName    string    `json:"full_name"`
	Company     string    `json:"company"`
	Position    string    `json:"position"`
	Email       string    `json:"email"`
	ConnectedAt time.Time `json:"connected_at,omitzero"`
}

// IdentityKey returns the deduplication key for a contact:
// the lowercased email when present, otherwise lower(name)+"_"+lower(company).
func (c Contact) IdentityKey() string {
	if c.Email != "" {
		return strings.ToLower(c.Email)
	}
	return strings.ToLower(c.FullName) + "_" + strings.ToLower(c.Company)
}

// SearchText concatenates the indexed fields for token-level matching.
func (c Contact) SearchText() string {
	return c.FullName + " " + c.Company + " " + c.Position
}
