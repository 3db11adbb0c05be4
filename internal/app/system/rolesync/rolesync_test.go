package rolesync_test

import (
	"context"
	"testing"
	"time"

	"github.com/sprinthub/sprinthub/internal/app/system/rolesync"
	"github.com/sprinthub/sprinthub/internal/domain/models"
	"github.com/sprinthub/sprinthub/internal/testutil"
)

func newSync(f *testutil.Fixtures) *rolesync.Synchronizer {
	return rolesync.New(f.Users, f.Members, testutil.Logger())
}

func TestMembershipChanged_Promotes(t *testing.T) {
	ctx := context.Background()
	now := testutil.BaseTime.Add(time.Hour)

	tests := []struct {
		name    string
		current models.SystemRole
		role    models.ProjectRole
		want    models.SystemRole
	}{
		{"developer to scrum master", models.SystemRoleTeamDeveloper, models.RoleScrumMaster, models.SystemRoleScrumMaster},
		{"developer to product owner", models.SystemRoleTeamDeveloper, models.RoleProductOwner, models.SystemRoleProductOwner},
		{"scrum master to product owner", models.SystemRoleScrumMaster, models.RoleProductOwner, models.SystemRoleProductOwner},
		{"team member changes nothing", models.SystemRoleTeamDeveloper, models.RoleTeamMember, models.SystemRoleTeamDeveloper},
		{"admin is never touched", models.SystemRoleAdmin, models.RoleScrumMaster, models.SystemRoleAdmin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := testutil.NewFixtures(t, testutil.SetupStore(t))
			u := f.CreateUser(ctx, "alice", tt.current)

			if err := newSync(f).MembershipChanged(ctx, u.ID, tt.role, now); err != nil {
				t.Fatalf("MembershipChanged: %v", err)
			}
			got, err := f.Users.Get(ctx, u.ID)
			if err != nil {
				t.Fatalf("Get user: %v", err)
			}
			if got.Role != tt.want {
				t.Errorf("role = %s, want %s", got.Role, tt.want)
			}
		})
	}
}

func TestMembershipChanged_MissingUserIsSkipped(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewFixtures(t, testutil.SetupStore(t))

	if err := newSync(f).MembershipChanged(ctx, "ghost", models.RoleScrumMaster, testutil.BaseTime); err != nil {
		t.Fatalf("MembershipChanged for missing user = %v, want nil", err)
	}
}

func TestMembershipRemoved_DemotesWhenNoOtherProjectJustifiesRole(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewFixtures(t, testutil.SetupStore(t))
	now := testutil.BaseTime.Add(time.Hour)

	u := f.CreateUser(ctx, "bob", models.SystemRoleScrumMaster)
	// The removed membership is already gone from the store; only an
	// unrelated team_member membership remains.
	f.CreateMember(ctx, "proj-other", u.ID, models.RoleTeamMember)

	if err := newSync(f).MembershipRemoved(ctx, u.ID, models.RoleScrumMaster, "proj-1", now); err != nil {
		t.Fatalf("MembershipRemoved: %v", err)
	}
	got, _ := f.Users.Get(ctx, u.ID)
	if got.Role != models.SystemRoleTeamDeveloper {
		t.Errorf("role = %s, want team_developer", got.Role)
	}
}

func TestMembershipRemoved_KeepsRoleWhenAnotherProjectHasIt(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewFixtures(t, testutil.SetupStore(t))

	u := f.CreateUser(ctx, "carol", models.SystemRoleScrumMaster)
	f.CreateMember(ctx, "proj-2", u.ID, models.RoleScrumMaster)

	if err := newSync(f).MembershipRemoved(ctx, u.ID, models.RoleScrumMaster, "proj-1", testutil.BaseTime); err != nil {
		t.Fatalf("MembershipRemoved: %v", err)
	}
	got, _ := f.Users.Get(ctx, u.ID)
	if got.Role != models.SystemRoleScrumMaster {
		t.Errorf("role = %s, want scrum_master kept", got.Role)
	}
}

func TestMembershipRemoved_ExcludesTheRemovedProject(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewFixtures(t, testutil.SetupStore(t))

	u := f.CreateUser(ctx, "dave", models.SystemRoleScrumMaster)
	// A cascade caller stages roles before deleting records, so the
	// membership in the removed project can still be present here. It
	// must not count as justification.
	f.CreateMember(ctx, "proj-1", u.ID, models.RoleScrumMaster)

	if err := newSync(f).MembershipRemoved(ctx, u.ID, models.RoleScrumMaster, "proj-1", testutil.BaseTime); err != nil {
		t.Fatalf("MembershipRemoved: %v", err)
	}
	got, _ := f.Users.Get(ctx, u.ID)
	if got.Role != models.SystemRoleTeamDeveloper {
		t.Errorf("role = %s, want team_developer", got.Role)
	}
}

func TestMembershipRemoved_OtherElevatedRoleDoesNotJustify(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewFixtures(t, testutil.SetupStore(t))

	// Removing a scrum_master membership demotes even though the user
	// still holds product_owner elsewhere. The single system role is a
	// most-recent-wins approximation, not a lattice.
	u := f.CreateUser(ctx, "erin", models.SystemRoleScrumMaster)
	f.CreateMember(ctx, "proj-2", u.ID, models.RoleProductOwner)

	if err := newSync(f).MembershipRemoved(ctx, u.ID, models.RoleScrumMaster, "proj-1", testutil.BaseTime); err != nil {
		t.Fatalf("MembershipRemoved: %v", err)
	}
	got, _ := f.Users.Get(ctx, u.ID)
	if got.Role != models.SystemRoleTeamDeveloper {
		t.Errorf("role = %s, want team_developer", got.Role)
	}
}

func TestMembershipRemoved_NoOps(t *testing.T) {
	ctx := context.Background()

	t.Run("team member removal", func(t *testing.T) {
		f := testutil.NewFixtures(t, testutil.SetupStore(t))
		u := f.CreateUser(ctx, "frank", models.SystemRoleScrumMaster)

		if err := newSync(f).MembershipRemoved(ctx, u.ID, models.RoleTeamMember, "proj-1", testutil.BaseTime); err != nil {
			t.Fatalf("MembershipRemoved: %v", err)
		}
		got, _ := f.Users.Get(ctx, u.ID)
		if got.Role != models.SystemRoleScrumMaster {
			t.Errorf("role = %s, want scrum_master untouched", got.Role)
		}
	})

	t.Run("admin is never demoted", func(t *testing.T) {
		f := testutil.NewFixtures(t, testutil.SetupStore(t))
		u := f.CreateUser(ctx, "grace", models.SystemRoleAdmin)

		if err := newSync(f).MembershipRemoved(ctx, u.ID, models.RoleScrumMaster, "proj-1", testutil.BaseTime); err != nil {
			t.Fatalf("MembershipRemoved: %v", err)
		}
		got, _ := f.Users.Get(ctx, u.ID)
		if got.Role != models.SystemRoleAdmin {
			t.Errorf("role = %s, want admin untouched", got.Role)
		}
	})

	t.Run("missing user", func(t *testing.T) {
		f := testutil.NewFixtures(t, testutil.SetupStore(t))
		if err := newSync(f).MembershipRemoved(ctx, "ghost", models.RoleScrumMaster, "proj-1", testutil.BaseTime); err != nil {
			t.Fatalf("MembershipRemoved for missing user = %v, want nil", err)
		}
	})
}
