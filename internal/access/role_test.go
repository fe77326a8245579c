package access

import "testing"

func TestRoleString(t *testing.T) {
	cases := map[Role]string{
		RoleNone:           "none",
		RoleViewer:         "viewer",
		RoleClient:         "client",
		RoleFreelancer:     "freelancer",
		RoleProjectManager: "project_manager",
		RoleOwner:          "owner",
		RoleAdmin:          "admin",
		Role(42):           "none",
	}
	for role, want := range cases {
		if got := role.String(); got != want {
			t.Errorf("Role(%d).String() = %q, want %q", int(role), got, want)
		}
	}
}

func TestRoleAtLeast(t *testing.T) {
	if !RoleOwner.AtLeast(RoleViewer) {
		t.Error("owner should satisfy viewer")
	}
	if !RoleAdmin.AtLeast(RoleOwner) {
		t.Error("admin should satisfy owner")
	}
	if RoleClient.AtLeast(RoleFreelancer) {
		t.Error("client should not satisfy freelancer")
	}
	if RoleNone.AtLeast(RoleNone) {
		t.Error("no access should never satisfy a check")
	}
	if RoleNone.AtLeast(RoleViewer) {
		t.Error("no access should not satisfy viewer")
	}
}

func TestParseGrantRole(t *testing.T) {
	cases := map[string]Role{
		"project_manager": RoleProjectManager,
		"freelancer":      RoleFreelancer,
		"client":          RoleClient,
		"viewer":          RoleViewer,
		"owner":           RoleNone,
		"admin":           RoleNone,
		"superuser":       RoleNone,
		"":                RoleNone,
	}
	for s, want := range cases {
		if got := ParseGrantRole(s); got != want {
			t.Errorf("ParseGrantRole(%q) = %v, want %v", s, got, want)
		}
	}
}

func TestParseRole(t *testing.T) {
	if got := ParseRole("owner"); got != RoleOwner {
		t.Errorf("ParseRole(owner) = %v, want owner", got)
	}
	if got := ParseRole("admin"); got != RoleAdmin {
		t.Errorf("ParseRole(admin) = %v, want admin", got)
	}
	if got := ParseRole("client"); got != RoleClient {
		t.Errorf("ParseRole(client) = %v, want client", got)
	}
	if got := ParseRole("nope"); got != RoleNone {
		t.Errorf("ParseRole(nope) = %v, want none", got)
	}
}

func TestValidGrantRole(t *testing.T) {
	for _, s := range []string{"project_manager", "freelancer", "client", "viewer"} {
		if !ValidGrantRole(s) {
			t.Errorf("ValidGrantRole(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"owner", "admin", "", "root"} {
		if ValidGrantRole(s) {
			t.Errorf("ValidGrantRole(%q) = true, want false", s)
		}
	}
}

func TestRoleMarshalJSON(t *testing.T) {
	b, err := RoleProjectManager.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if string(b) != `"project_manager"` {
		t.Errorf("MarshalJSON() = %s, want %q", b, "project_manager")
	}
}
