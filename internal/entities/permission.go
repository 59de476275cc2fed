package entities

import (
	"fmt"
	"time"
)

// Permission represents an explicit grant of capabilities on a snippet.
// Example: user "bob" can read but not edit snippet "snip1".
// The snippet owner never appears as a grantee; ownership implies the full
// capability set without a Permission row ever being stored.
type Permission struct {
	ID        int64  // Surrogate ID, assigned by the store on first insert (0 = unsaved)
	UserID    string // Grantee user ID
	SnippetID string // Protected snippet ID
	CanRead   bool   // Grantee may read the snippet
	CanEdit   bool   // Grantee may edit the snippet
	CreatedAt time.Time
	UpdatedAt time.Time
}

// String returns a string representation of the grant.
// Format: snippet_id#user_id:flags
func (p *Permission) String() string {
	flags := ""
	if p.CanRead {
		flags += "r"
	}
	if p.CanEdit {
		flags += "w"
	}
	if flags == "" {
		flags = "-"
	}
	return fmt.Sprintf("%s#%s:%s", p.SnippetID, p.UserID, flags)
}

// Validate checks if the permission record is valid
func (p *Permission) Validate() error {
	if p.UserID == "" {
		return fmt.Errorf("user ID is required")
	}
	if p.SnippetID == "" {
		return fmt.Errorf("snippet ID is required")
	}
	return nil
}
