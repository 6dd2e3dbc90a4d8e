package model

import "testing"

func TestRoleLadder(t *testing.T) {
	ladder := []string{RoleUser, RoleInspector, RoleMaterialManager, RoleAdmin}
	for i, role := range ladder {
		for j, minimum := range ladder {
			if got, want := RoleAtLeast(role, minimum), i >= j; got != want {
				t.Errorf("RoleAtLeast(%q, %q) = %v, want %v", role, minimum, got, want)
			}
		}
		if !ValidRole(role) {
			t.Errorf("expected %q to be a valid role", role)
		}
	}
}

func TestUnknownRolesNeverQualify(t *testing.T) {
	for _, pair := range [][2]string{{"manager", RoleUser}, {RoleAdmin, "owner"}, {"", ""}} {
		if RoleAtLeast(pair[0], pair[1]) {
			t.Errorf("RoleAtLeast(%q, %q) should be false", pair[0], pair[1])
		}
	}
	if ValidRole("manager") {
		t.Error("manager is not a role")
	}
}

func TestValidatePassword(t *testing.T) {
	for _, pw := range []string{"", "kiste02", "1234567"} {
		if ValidatePassword(pw) == nil {
			t.Errorf("expected %q to be rejected", pw)
		}
	}
	for _, pw := range []string{"12345678", "uniform-store"} {
		if err := ValidatePassword(pw); err != nil {
			t.Errorf("expected %q to be accepted, got %v", pw, err)
		}
	}
}
