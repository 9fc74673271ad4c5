package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SystemAdminRef is the owner reference stored on records authored by the
// environment-configured admin, which has no users document.
const SystemAdminRef OwnerRef = "admin"

// OwnerRef is the persisted, string-typed pointer from a record to its author:
// either a users ObjectID in hex or SystemAdminRef.
type OwnerRef string

// IsSystem reports whether the reference points at the virtual admin.
func (r OwnerRef) IsSystem() bool { return r == SystemAdminRef }

// IsMissing reports whether no author was recorded.
func (r OwnerRef) IsMissing() bool { return r == "" }

// ObjectID returns the users id the reference encodes, if it has that shape.
func (r OwnerRef) ObjectID() (primitive.ObjectID, bool) {
	if r.IsSystem() || r.IsMissing() {
		return primitive.NilObjectID, false
	}
	oid, err := primitive.ObjectIDFromHex(string(r))
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}

func RefForUser(id primitive.ObjectID) OwnerRef { return OwnerRef(id.Hex()) }

type PrincipalKind int

const (
	PrincipalUser PrincipalKind = iota + 1
	PrincipalSystemAdmin
)

// Principal is the caller identity resolved once by the auth middleware.
type Principal struct {
	Kind PrincipalKind
	User *User // nil for PrincipalSystemAdmin
	// Name and Email are populated for both kinds.
	Name  string
	Email string
}

func NewUserPrincipal(u *User) *Principal {
	return &Principal{Kind: PrincipalUser, User: u, Name: u.Name, Email: u.Email}
}

func NewSystemAdminPrincipal(email string) *Principal {
	return &Principal{Kind: PrincipalSystemAdmin, Name: "Admin", Email: email}
}

func (p *Principal) Ref() OwnerRef {
	if p.Kind == PrincipalSystemAdmin {
		return SystemAdminRef
	}
	return RefForUser(p.User.ID)
}

func (p *Principal) Role() string {
	if p.Kind == PrincipalSystemAdmin {
		return RoleAdmin
	}
	return p.User.Role
}

func (p *Principal) IsAdmin() bool { return p != nil && p.Role() == RoleAdmin }

// Verified is true for any admin and for users an admin has approved.
func (p *Principal) Verified() bool {
	if p.IsAdmin() {
		return true
	}
	return p != nil && p.User.Verified
}

// Owns reports whether ref points at this principal.
func (p *Principal) Owns(ref OwnerRef) bool {
	return p != nil && ref == p.Ref()
}
