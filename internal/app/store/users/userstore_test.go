package userstore_test

import (
	"context"
	"errors"
	"testing"

	userstore "github.com/sprinthub/sprinthub/internal/app/store/users"
	"github.com/sprinthub/sprinthub/internal/domain/models"
	"github.com/sprinthub/sprinthub/internal/testutil"
)

func TestGetPut(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewFixtures(t, testutil.SetupStore(t))

	u := f.CreateUser(ctx, "alice", models.SystemRoleTeamDeveloper)

	got, err := f.Users.Get(ctx, u.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.FullName != "alice" || got.Role != models.SystemRoleTeamDeveloper {
		t.Errorf("Get = %+v, want alice/team_developer", got)
	}

	if _, err := f.Users.Get(ctx, "missing"); !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("Get missing = %v, want ErrNotFound", err)
	}
}

func TestFindByEmail_NormalizesBothSides(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewFixtures(t, testutil.SetupStore(t))

	u := models.User{
		Model:    models.NewModel(testutil.BaseTime),
		FullName: "Bob",
		Email:    "Bob@Example.COM",
		Role:     models.SystemRoleTeamDeveloper,
	}
	if err := f.Users.Put(ctx, u); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := f.Users.FindByEmail(ctx, "  bob@example.com ")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("FindByEmail = %s, want %s", got.ID, u.ID)
	}

	if _, err := f.Users.FindByEmail(ctx, "nobody@example.com"); !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("FindByEmail miss = %v, want ErrNotFound", err)
	}
}
