package access

import (
	"context"
	"errors"
	"testing"

	"github.com/b0ase/backend/internal/models"
)

func gateFixture() (*stubStore, *Gate) {
	st := newStubStore()
	st.users[2] = &models.User{ID: 2, Role: "user", IsActive: true}
	st.users[3] = &models.User{ID: 3, Role: "user", IsActive: true}
	st.users[9] = &models.User{ID: 9, Role: "admin", IsActive: true}
	st.projects[10] = &models.Project{ID: 10, OwnerID: 2}
	st.grants = append(st.grants, models.Membership{ProjectID: 10, UserID: 3, Role: "client"})
	return st, NewGate(st)
}

func TestGateCanAccess(t *testing.T) {
	_, gate := gateFixture()
	ctx := context.Background()

	cases := []struct {
		name      string
		userID    uint
		projectID uint
		min       Role
		want      bool
	}{
		{"owner at owner level", 2, 10, RoleOwner, true},
		{"admin at owner level", 9, 10, RoleOwner, true},
		{"member at own level", 3, 10, RoleClient, true},
		{"member below required level", 3, 10, RoleProjectManager, false},
		{"member at viewer level", 3, 10, RoleViewer, true},
		{"unknown user", 99, 10, RoleViewer, false},
		{"unknown project", 2, 99, RoleViewer, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := gate.CanAccess(ctx, tc.userID, tc.projectID, tc.min); got != tc.want {
				t.Errorf("CanAccess(%d, %d, %v) = %v, want %v", tc.userID, tc.projectID, tc.min, got, tc.want)
			}
		})
	}
}

func TestGateDeniesInactiveUser(t *testing.T) {
	st, gate := gateFixture()
	st.users[2].IsActive = false

	if gate.CanAccess(context.Background(), 2, 10, RoleViewer) {
		t.Error("deactivated owner granted access, want denial")
	}
}

func TestGateFailsClosedOnLookupError(t *testing.T) {
	ctx := context.Background()

	st, gate := gateFixture()
	st.profileErr = errors.New("db down")
	if gate.CanAccess(ctx, 2, 10, RoleViewer) {
		t.Error("access granted despite profile lookup failure")
	}

	st, gate = gateFixture()
	st.projectErr = errors.New("db down")
	if gate.CanAccess(ctx, 2, 10, RoleViewer) {
		t.Error("access granted despite project lookup failure")
	}

	st, gate = gateFixture()
	st.grantsErr = errors.New("db down")
	if gate.CanAccess(ctx, 3, 10, RoleViewer) {
		t.Error("access granted despite membership lookup failure")
	}
}

func TestGateRevocationTakesEffectImmediately(t *testing.T) {
	st, gate := gateFixture()
	ctx := context.Background()

	if !gate.CanAccess(ctx, 3, 10, RoleClient) {
		t.Fatal("member denied before revocation")
	}
	st.grants = nil
	if gate.CanAccess(ctx, 3, 10, RoleViewer) {
		t.Error("member still has access after revocation")
	}
}

func TestGateResolveFor(t *testing.T) {
	_, gate := gateFixture()

	role, err := gate.ResolveFor(context.Background(), 3, 10)
	if err != nil {
		t.Fatalf("ResolveFor() error = %v", err)
	}
	if role != RoleClient {
		t.Errorf("ResolveFor() = %v, want client", role)
	}
}
