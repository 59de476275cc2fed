package authorization

import "github.com/codesnip/gatekeeper/internal/entities"

// PermissionView is the public response shape for a grant. It exists so the
// storage record and the wire shape can evolve independently.
type PermissionView struct {
	ID        int64  `json:"id"`
	UserID    string `json:"userId"`
	SnippetID string `json:"snippetId"`
	CanRead   bool   `json:"canRead"`
	CanEdit   bool   `json:"canEdit"`
}

// Mapper translates storage records to response views. Pure record-to-record
// translation: no validation, no I/O.
type Mapper struct{}

// NewMapper creates a new Mapper
func NewMapper() *Mapper {
	return &Mapper{}
}

// ToView converts a stored permission to its public shape
func (m *Mapper) ToView(permission *entities.Permission) *PermissionView {
	return &PermissionView{
		ID:        permission.ID,
		UserID:    permission.UserID,
		SnippetID: permission.SnippetID,
		CanRead:   permission.CanRead,
		CanEdit:   permission.CanEdit,
	}
}

// ToViews converts a list of stored permissions to their public shape
func (m *Mapper) ToViews(permissions []*entities.Permission) []*PermissionView {
	views := make([]*PermissionView, 0, len(permissions))
	for _, p := range permissions {
		views = append(views, m.ToView(p))
	}
	return views
}
