package lifecycle_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	burndownstore "github.com/sprinthub/sprinthub/internal/app/store/burndown"
	"github.com/sprinthub/sprinthub/internal/app/store/kv"
	membershipstore "github.com/sprinthub/sprinthub/internal/app/store/memberships"
	projectstore "github.com/sprinthub/sprinthub/internal/app/store/projects"
	"github.com/sprinthub/sprinthub/internal/app/system/lifecycle"
	"github.com/sprinthub/sprinthub/internal/app/system/rolesync"
	"github.com/sprinthub/sprinthub/internal/domain/models"
	"github.com/sprinthub/sprinthub/internal/testutil"
)

type managerFixture struct {
	*testutil.Fixtures
	Store     *kv.Memory
	Snapshots *burndownstore.Store
	Manager   *lifecycle.Manager
}

func setupManager(t *testing.T) (*managerFixture, context.Context) {
	t.Helper()
	store := testutil.SetupStore(t)
	return setupManagerOn(t, store, store), context.Background()
}

// setupManagerOn builds the manager over managerKV while the fixture
// helpers write through the raw memory store, so a test can interpose a
// failing wrapper on the manager side only.
func setupManagerOn(t *testing.T, raw *kv.Memory, managerKV kv.Store) *managerFixture {
	t.Helper()
	f := testutil.NewFixtures(t, raw)

	mf := testutil.NewFixtures(t, managerKV)
	snapshots := burndownstore.New(managerKV)
	roles := rolesync.New(mf.Users, mf.Members, testutil.Logger())
	manager := lifecycle.New(mf.Projects, mf.Stories, mf.Tasks, mf.Sprints, mf.Members, snapshots, roles, testutil.Logger())
	manager.SetNow(func() time.Time { return testutil.BaseTime.Add(time.Hour) })

	return &managerFixture{Fixtures: f, Store: raw, Snapshots: snapshots, Manager: manager}
}

func TestCreate_StartsInPlanning(t *testing.T) {
	f, ctx := setupManager(t)

	p, err := f.Manager.Create(ctx, lifecycle.CreateParams{Name: "apollo", CreatedBy: "user-1"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.Status != models.ProjectPlanning {
		t.Errorf("status = %s, want planning", p.Status)
	}
	if p.ID == "" {
		t.Error("project has no id")
	}

	stored, err := f.Projects.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.Name != "apollo" || stored.CreatedBy != "user-1" {
		t.Errorf("stored = %+v, want name apollo created_by user-1", stored)
	}
}

func TestDelete_CascadesEverything(t *testing.T) {
	f, ctx := setupManager(t)

	user := f.CreateUser(ctx, "alice", models.SystemRoleScrumMaster)
	project := f.CreateProject(ctx, "doomed", user.ID)
	story := f.CreateStory(ctx, project.ID, "story", 5)
	f.CreateTask(ctx, story.ID, "task a", models.TaskTodo)
	f.CreateTask(ctx, story.ID, "task b", models.TaskDone)
	sprint := f.CreateSprint(ctx, project.ID, "sprint", testutil.DayPtr(0), testutil.DayPtr(5))
	f.CreateMember(ctx, project.ID, user.ID, models.RoleScrumMaster)

	if err := f.Snapshots.Replace(ctx, sprint.ID, []models.BurndownPoint{
		{SprintID: sprint.ID, Date: testutil.Day(0), TotalPoints: 5, RemainingPoints: 5, IdealRemaining: 5},
		{SprintID: sprint.ID, Date: testutil.Day(1), TotalPoints: 5, RemainingPoints: 5, IdealRemaining: 4},
	}); err != nil {
		t.Fatalf("seed burndown: %v", err)
	}

	ok, err := f.Manager.Delete(ctx, project.ID)
	if err != nil || !ok {
		t.Fatalf("Delete = (%v, %v), want (true, nil)", ok, err)
	}

	// Only the user record may survive the cascade.
	if n := f.Store.Len(); n != 1 {
		t.Errorf("records remaining = %d, want 1 (just the user)", n)
	}

	// The user lost the role this project justified.
	got, err := f.Users.Get(ctx, user.ID)
	if err != nil {
		t.Fatalf("Get user: %v", err)
	}
	if got.Role != models.SystemRoleTeamDeveloper {
		t.Errorf("user role = %s, want team_developer", got.Role)
	}
}

func TestDelete_ScrubsDanglingMembershipIndexEntries(t *testing.T) {
	f, ctx := setupManager(t)

	user := f.CreateUser(ctx, "gina", models.SystemRoleScrumMaster)
	project := f.CreateProject(ctx, "haunted", user.ID)
	mem := f.CreateMember(ctx, project.ID, user.ID, models.RoleScrumMaster)

	// Simulate a removal that crashed after deleting the primary record:
	// both index entries survive with nothing to dereference.
	if err := f.Store.Delete(ctx, kv.Key{"project_members", mem.ID}); err != nil {
		t.Fatalf("delete primary: %v", err)
	}

	ok, err := f.Manager.Delete(ctx, project.ID)
	if err != nil || !ok {
		t.Fatalf("Delete = (%v, %v), want (true, nil)", ok, err)
	}

	// The dangling index pair must not outlive the project.
	if n := f.Store.Len(); n != 1 {
		t.Errorf("records remaining = %d, want 1 (just the user)", n)
	}

	// The crashed removal already lost the membership's role, so there is
	// nothing to feed the demotion check; the user's role stays as is.
	got, err := f.Users.Get(ctx, user.ID)
	if err != nil {
		t.Fatalf("Get user: %v", err)
	}
	if got.Role != models.SystemRoleScrumMaster {
		t.Errorf("user role = %s, want scrum_master", got.Role)
	}
}

func TestDelete_AbsentProjectIsNotFound(t *testing.T) {
	f, ctx := setupManager(t)

	ok, err := f.Manager.Delete(ctx, "never-existed")
	if ok || !errors.Is(err, projectstore.ErrNotFound) {
		t.Fatalf("Delete = (%v, %v), want (false, ErrNotFound)", ok, err)
	}

	// Deleting twice: the second call reports not-found, making a
	// repeated delete idempotent in effect.
	user := f.CreateUser(ctx, "bob", models.SystemRoleTeamDeveloper)
	project := f.CreateProject(ctx, "once", user.ID)
	if ok, err := f.Manager.Delete(ctx, project.ID); err != nil || !ok {
		t.Fatalf("first Delete = (%v, %v), want (true, nil)", ok, err)
	}
	if ok, err := f.Manager.Delete(ctx, project.ID); ok || !errors.Is(err, projectstore.ErrNotFound) {
		t.Errorf("second Delete = (%v, %v), want (false, ErrNotFound)", ok, err)
	}
}

// flakyStore fails Delete for keys under a given prefix until healed.
type flakyStore struct {
	kv.Store
	failPrefix string
	healed     bool
}

func (s *flakyStore) Delete(ctx context.Context, key kv.Key) error {
	if !s.healed && len(key) > 0 && key[0] == s.failPrefix {
		return fmt.Errorf("injected delete failure for %s", key.Encode())
	}
	return s.Store.Delete(ctx, key)
}

func TestDelete_PartialFailureRecoversOnRetry(t *testing.T) {
	ctx := context.Background()
	raw := testutil.SetupStore(t)
	flaky := &flakyStore{Store: raw, failPrefix: "sprints"}
	f := setupManagerOn(t, raw, flaky)

	user := f.CreateUser(ctx, "carol", models.SystemRoleTeamDeveloper)
	project := f.CreateProject(ctx, "fragile", user.ID)
	story := f.CreateStory(ctx, project.ID, "story", 3)
	f.CreateTask(ctx, story.ID, "task", models.TaskTodo)
	f.CreateSprint(ctx, project.ID, "sprint", testutil.DayPtr(0), testutil.DayPtr(5))

	ok, err := f.Manager.Delete(ctx, project.ID)
	if ok || err == nil {
		t.Fatalf("Delete with failing sprint delete = (%v, %v), want (false, error)", ok, err)
	}

	// Children before the failing step are gone, the project survives.
	if _, err := f.Projects.Get(ctx, project.ID); err != nil {
		t.Fatalf("project should survive an aborted cascade: %v", err)
	}
	if stories, _ := f.Stories.ListByProject(ctx, project.ID); len(stories) != 0 {
		t.Errorf("stories remaining = %d, want 0", len(stories))
	}

	// The documented recovery: delete again.
	flaky.healed = true
	if ok, err := f.Manager.Delete(ctx, project.ID); err != nil || !ok {
		t.Fatalf("retried Delete = (%v, %v), want (true, nil)", ok, err)
	}
	if n := raw.Len(); n != 1 {
		t.Errorf("records remaining after retry = %d, want 1 (just the user)", n)
	}
}

func TestAddMember_PromotesAndRejectsDuplicates(t *testing.T) {
	f, ctx := setupManager(t)

	user := f.CreateUser(ctx, "dave", models.SystemRoleTeamDeveloper)
	project := f.CreateProject(ctx, "team", user.ID)

	if _, err := f.Manager.AddMember(ctx, project.ID, user.ID, models.RoleProductOwner); err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	got, _ := f.Users.Get(ctx, user.ID)
	if got.Role != models.SystemRoleProductOwner {
		t.Errorf("user role = %s, want product_owner", got.Role)
	}

	if _, err := f.Manager.AddMember(ctx, project.ID, user.ID, models.RoleTeamMember); !errors.Is(err, lifecycle.ErrAlreadyMember) {
		t.Errorf("duplicate AddMember = %v, want ErrAlreadyMember", err)
	}

	if _, err := f.Manager.AddMember(ctx, "no-such-project", user.ID, models.RoleTeamMember); !errors.Is(err, projectstore.ErrNotFound) {
		t.Errorf("AddMember to absent project = %v, want ErrNotFound", err)
	}
}

func TestRemoveMember_RunsDemotionCheck(t *testing.T) {
	f, ctx := setupManager(t)

	user := f.CreateUser(ctx, "erin", models.SystemRoleTeamDeveloper)
	project := f.CreateProject(ctx, "solo", user.ID)
	if _, err := f.Manager.AddMember(ctx, project.ID, user.ID, models.RoleScrumMaster); err != nil {
		t.Fatalf("AddMember: %v", err)
	}

	if err := f.Manager.RemoveMember(ctx, project.ID, user.ID); err != nil {
		t.Fatalf("RemoveMember: %v", err)
	}
	got, _ := f.Users.Get(ctx, user.ID)
	if got.Role != models.SystemRoleTeamDeveloper {
		t.Errorf("user role = %s, want team_developer after removal", got.Role)
	}

	if err := f.Manager.RemoveMember(ctx, project.ID, user.ID); !errors.Is(err, membershipstore.ErrNotFound) {
		t.Errorf("second RemoveMember = %v, want ErrNotFound", err)
	}
}

func TestUpdateMemberRole_Resyncs(t *testing.T) {
	f, ctx := setupManager(t)

	user := f.CreateUser(ctx, "frank", models.SystemRoleTeamDeveloper)
	project := f.CreateProject(ctx, "shift", user.ID)
	if _, err := f.Manager.AddMember(ctx, project.ID, user.ID, models.RoleTeamMember); err != nil {
		t.Fatalf("AddMember: %v", err)
	}

	mem, err := f.Manager.UpdateMemberRole(ctx, project.ID, user.ID, models.RoleScrumMaster)
	if err != nil {
		t.Fatalf("UpdateMemberRole: %v", err)
	}
	if mem.Role != models.RoleScrumMaster {
		t.Errorf("membership role = %s, want scrum_master", mem.Role)
	}
	got, _ := f.Users.Get(ctx, user.ID)
	if got.Role != models.SystemRoleScrumMaster {
		t.Errorf("user role = %s, want scrum_master", got.Role)
	}
}
