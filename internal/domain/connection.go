package domain

import "time"

// Connection is a typed, directional edge between two spans. Its
// temporal range, lifecycle state, and access level live on a dedicated
// connection-span referenced by ConnectionSpanID.
type Connection struct {
	ID               string
	ParentID         string
	ChildID          string
	Type             string // ConnectionType key
	ConnectionSpanID string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// SpanPermission grants view or edit on a shared span, either directly
// to a user or to every member of a group. Exactly one of UserID and
// GroupID is set.
type SpanPermission struct {
	ID        string
	SpanID    string
	UserID    string
	GroupID   string
	Type      PermissionType
	CreatedAt time.Time
}

// AppliesTo reports whether the grant covers the given user, directly
// or through one of their groups.
func (p SpanPermission) AppliesTo(userID string, groupIDs []string) bool {
	if p.UserID != "" {
		return p.UserID == userID
	}
	for _, g := range groupIDs {
		if p.GroupID == g {
			return true
		}
	}
	return false
}

// Group is a set of users used as a grant target. It carries no
// structure beyond membership.
type Group struct {
	ID        string
	OwnerID   string
	Name      string
	CreatedAt time.Time
}

// User is a principal. PersonalSpanID optionally points at the span that
// represents the user themselves; deleting that span nulls the
// reference rather than cascading.
type User struct {
	ID             string
	Name           string
	IsAdmin        bool
	PersonalSpanID *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
