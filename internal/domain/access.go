package domain

// Principal is the resolved identity behind a session: the user plus
// their group memberships.
type Principal struct {
	UserID   string
	Name     string
	IsAdmin  bool
	GroupIDs []string
}

// SessionContext carries the viewer and their session-local state into
// every access decision. A nil *SessionContext is an anonymous guest.
// AdminModeSuppressed is the "view as normal user" escape hatch: it
// never alters the underlying IsAdmin flag and never outlives the
// session.
type SessionContext struct {
	Actor               Principal
	AdminModeSuppressed bool
}

// AdminActive reports whether admin authority applies to this session.
func (s *SessionContext) AdminActive() bool {
	return s != nil && s.Actor.IsAdmin && !s.AdminModeSuppressed
}

// CanViewSpan resolves visibility for a span. grants must be the span's
// permission rows; the evaluator filters them against the viewer.
// Resolution order, first match wins:
//  1. guest: public only
//  2. admin with admin-mode active: always
//  3. (suppressed admins fall through to the regular rules)
//  4. public: everyone
//  5. owner
//  6. shared: direct or group grant of at least view
//  7. deny
func CanViewSpan(viewer *SessionContext, span *Span, grants []SpanPermission) bool {
	if viewer == nil {
		return span.AccessLevel == AccessPublic
	}
	if viewer.AdminActive() {
		return true
	}
	if span.AccessLevel == AccessPublic {
		return true
	}
	if span.OwnerID == viewer.Actor.UserID {
		return true
	}
	if span.AccessLevel == AccessShared {
		return hasGrant(viewer, grants, PermissionView) || hasGrant(viewer, grants, PermissionEdit)
	}
	return false
}

// CanEditSpan resolves edit rights for a span. Guests never edit;
// public spans are editable only by their owner (or an active admin);
// shared spans additionally honor edit grants.
func CanEditSpan(viewer *SessionContext, span *Span, grants []SpanPermission) bool {
	if viewer == nil {
		return false
	}
	if viewer.AdminActive() {
		return true
	}
	if span.OwnerID == viewer.Actor.UserID {
		return true
	}
	if span.AccessLevel == AccessShared {
		return hasGrant(viewer, grants, PermissionEdit)
	}
	return false
}

// CanViewConnection resolves visibility for an edge: both endpoint
// spans must be visible to the viewer.
func CanViewConnection(viewer *SessionContext, parent, child *Span, parentGrants, childGrants []SpanPermission) bool {
	return CanViewSpan(viewer, parent, parentGrants) && CanViewSpan(viewer, child, childGrants)
}

// CanDeleteConnection resolves delete authority for an edge: an active
// admin, the connection-span's owner, or an edit grant on the
// connection-span.
func CanDeleteConnection(viewer *SessionContext, connSpan *Span, connSpanGrants []SpanPermission) bool {
	if viewer == nil {
		return false
	}
	if viewer.AdminActive() {
		return true
	}
	if connSpan.OwnerID == viewer.Actor.UserID {
		return true
	}
	return CanEditSpan(viewer, connSpan, connSpanGrants)
}

func hasGrant(viewer *SessionContext, grants []SpanPermission, required PermissionType) bool {
	for _, g := range grants {
		if g.Type == required && g.AppliesTo(viewer.Actor.UserID, viewer.Actor.GroupIDs) {
			return true
		}
	}
	return false
}
