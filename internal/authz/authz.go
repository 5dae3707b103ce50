// Package authz holds the application-side access rules for gabinetes: the
// role ranking used to pick a user's effective grant and the decision of who
// may revoke whose access. The stored procedures enforce the same rules on
// the routes they front; this package is the single in-process
// implementation consumed by the direct-query routes.
package authz

type Role string

const (
	RoleNone   Role = ""
	RoleViewer Role = "viewer"
	RoleEditor Role = "editor"
	RoleAdmin  Role = "admin"
)

// Rank orders roles: admin(3) > editor(2) > viewer(1) > none(0).
func Rank(role Role) int {
	switch role {
	case RoleAdmin:
		return 3
	case RoleEditor:
		return 2
	case RoleViewer:
		return 1
	default:
		return 0
	}
}

func Normalize(role string) Role {
	switch Role(role) {
	case RoleViewer, RoleEditor, RoleAdmin:
		return Role(role)
	default:
		return RoleNone
	}
}

// Grant is one approved access-request row for a (user, gabinete) pair.
// A user accumulates historical rows; only the best one counts.
type Grant struct {
	SolicitacaoID int64
	Role          Role
}

// EffectiveRole picks the single grant that represents a user's role:
// highest rank wins, ties broken by the most recently created row
// (highest solicitacao id). Returns RoleNone for an empty slice.
func EffectiveRole(grants []Grant) Role {
	best := Grant{Role: RoleNone, SolicitacaoID: -1}
	for _, g := range grants {
		r, br := Rank(g.Role), Rank(best.Role)
		if r > br || (r == br && g.SolicitacaoID > best.SolicitacaoID) {
			best = g
		}
	}
	return best.Role
}

// Relation is a user's standing toward a gabinete.
type Relation struct {
	IsOwner bool
	Role    Role
}

// DenyReason tags why a revocation was refused, so callers can map it to
// the response the route contract requires.
type DenyReason int

const (
	Allowed DenyReason = iota
	DenyTargetIsOwner
	DenyNoGrant
	DenyNotAdmin
	DenyAdminOnAdmin
)

// DecideRevoke says whether acting may remove target's access:
//  1. the owner can never be removed;
//  2. the owner may remove anyone else;
//  3. an admin may remove anyone except another admin;
//  4. everyone else (viewer, editor, no grant) may remove no one.
//
// Absence of a role is "no permission", not an error.
func DecideRevoke(acting, target Relation) DenyReason {
	if target.IsOwner {
		return DenyTargetIsOwner
	}
	if acting.IsOwner {
		return Allowed
	}
	if acting.Role == RoleNone {
		return DenyNoGrant
	}
	if acting.Role != RoleAdmin {
		return DenyNotAdmin
	}
	if target.Role == RoleAdmin {
		return DenyAdminOnAdmin
	}
	return Allowed
}
