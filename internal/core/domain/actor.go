package domain

// Actor is the identity performing an action. A nil *Actor is an anonymous
// caller; the transport resolves it once per request and passes it explicitly.
type Actor struct {
	ID      string
	IsAdmin bool
}

// Owned is implemented by every entity that has a single owning user.
type Owned interface {
	OwnedBy() string
}

// IsAdmin reports whether a is an authenticated administrator.
func IsAdmin(a *Actor) bool {
	return a != nil && a.IsAdmin
}

// IsOwner reports whether a owns o. Entities without an owner reference are
// owned by nobody.
func IsOwner(a *Actor, o Owned) bool {
	if a == nil || a.ID == "" || o == nil {
		return false
	}
	owner := o.OwnedBy()
	return owner != "" && owner == a.ID
}

// IsOwnerOrAdmin is the shared predicate for destructive operations on
// reports, reviews and user accounts.
func IsOwnerOrAdmin(a *Actor, o Owned) bool {
	return IsAdmin(a) || IsOwner(a, o)
}
