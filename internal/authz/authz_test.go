package authz

import "testing"

func TestDecideRevokeOwnerTargetAlwaysDenied(t *testing.T) {
	roles := []Role{RoleNone, RoleViewer, RoleEditor, RoleAdmin}
	for _, actingOwner := range []bool{false, true} {
		for _, actingRole := range roles {
			acting := Relation{IsOwner: actingOwner, Role: actingRole}
			target := Relation{IsOwner: true, Role: RoleAdmin}
			if got := DecideRevoke(acting, target); got != DenyTargetIsOwner {
				t.Fatalf("DecideRevoke(%+v, owner) = %v, want DenyTargetIsOwner", acting, got)
			}
		}
	}
}

func TestDecideRevokeOwnerActorAllowed(t *testing.T) {
	for _, targetRole := range []Role{RoleNone, RoleViewer, RoleEditor, RoleAdmin} {
		acting := Relation{IsOwner: true}
		target := Relation{Role: targetRole}
		if got := DecideRevoke(acting, target); got != Allowed {
			t.Fatalf("owner revoking %q = %v, want Allowed", targetRole, got)
		}
	}
}

func TestDecideRevokeNonOwnerMatrix(t *testing.T) {
	cases := []struct {
		name        string
		actingRole  Role
		targetRole  Role
		want        DenyReason
	}{
		{name: "admin removes viewer", actingRole: RoleAdmin, targetRole: RoleViewer, want: Allowed},
		{name: "admin removes editor", actingRole: RoleAdmin, targetRole: RoleEditor, want: Allowed},
		{name: "admin removes none", actingRole: RoleAdmin, targetRole: RoleNone, want: Allowed},
		{name: "admin removes admin", actingRole: RoleAdmin, targetRole: RoleAdmin, want: DenyAdminOnAdmin},
		{name: "editor removes viewer", actingRole: RoleEditor, targetRole: RoleViewer, want: DenyNotAdmin},
		{name: "editor removes admin", actingRole: RoleEditor, targetRole: RoleAdmin, want: DenyNotAdmin},
		{name: "viewer removes viewer", actingRole: RoleViewer, targetRole: RoleViewer, want: DenyNotAdmin},
		{name: "no grant removes viewer", actingRole: RoleNone, targetRole: RoleViewer, want: DenyNoGrant},
		{name: "no grant removes admin", actingRole: RoleNone, targetRole: RoleAdmin, want: DenyNoGrant},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DecideRevoke(Relation{Role: tc.actingRole}, Relation{Role: tc.targetRole})
			if got != tc.want {
				t.Fatalf("DecideRevoke(%q, %q) = %v, want %v", tc.actingRole, tc.targetRole, got, tc.want)
			}
		})
	}
}

func TestEffectiveRolePicksHighestRank(t *testing.T) {
	grants := []Grant{
		{SolicitacaoID: 10, Role: RoleViewer},
		{SolicitacaoID: 7, Role: RoleAdmin},
		{SolicitacaoID: 12, Role: RoleEditor},
	}
	if got := EffectiveRole(grants); got != RoleAdmin {
		t.Fatalf("EffectiveRole = %q, want admin", got)
	}
}

func TestEffectiveRoleTieBreaksByNewestGrant(t *testing.T) {
	grants := []Grant{
		{SolicitacaoID: 3, Role: RoleEditor},
		{SolicitacaoID: 9, Role: RoleEditor},
		{SolicitacaoID: 5, Role: RoleEditor},
	}
	role := EffectiveRole(grants)
	if role != RoleEditor {
		t.Fatalf("EffectiveRole = %q, want editor", role)
	}
}

func TestEffectiveRoleDeterministic(t *testing.T) {
	grants := []Grant{
		{SolicitacaoID: 1, Role: RoleViewer},
		{SolicitacaoID: 2, Role: RoleAdmin},
	}
	first := EffectiveRole(grants)
	for i := 0; i < 5; i++ {
		if got := EffectiveRole(grants); got != first {
			t.Fatalf("EffectiveRole not idempotent: %q then %q", first, got)
		}
	}
}

func TestEffectiveRoleEmpty(t *testing.T) {
	if got := EffectiveRole(nil); got != RoleNone {
		t.Fatalf("EffectiveRole(nil) = %q, want none", got)
	}
}

func TestNormalize(t *testing.T) {
	cases := map[string]Role{
		"viewer":  RoleViewer,
		"editor":  RoleEditor,
		"admin":   RoleAdmin,
		"":        RoleNone,
		"dono":    RoleNone,
		"ADMIN":   RoleNone,
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Fatalf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}
