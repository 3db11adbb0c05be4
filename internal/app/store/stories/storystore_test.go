package storystore_test

import (
	"context"
	"errors"
	"testing"

	storystore "github.com/sprinthub/sprinthub/internal/app/store/stories"
	"github.com/sprinthub/sprinthub/internal/testutil"
)

func TestGetDelete(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewFixtures(t, testutil.SetupStore(t))

	s := f.CreateStory(ctx, "proj-1", "story", 5)

	got, err := f.Stories.Get(ctx, s.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "story" || got.Points != 5 {
		t.Errorf("Get = %+v, want title story points 5", got)
	}

	if err := f.Stories.Delete(ctx, s.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := f.Stories.Get(ctx, s.ID); !errors.Is(err, storystore.ErrNotFound) {
		t.Errorf("Get after delete = %v, want ErrNotFound", err)
	}
}

func TestListBySprint_ReadsBackReferencesOnly(t *testing.T) {
	ctx := context.Background()
	f := testutil.NewFixtures(t, testutil.SetupStore(t))

	inSprint := f.CreateStory(ctx, "proj-1", "assigned", 3)
	inSprint.SprintID = "sprint-1"
	if err := f.Stories.Put(ctx, inSprint); err != nil {
		t.Fatalf("Put: %v", err)
	}
	f.CreateStory(ctx, "proj-1", "unassigned", 2)

	// A sprint whose user_story_ids list mentions a story the story does
	// not point back at: only the back-reference counts.
	sprint := f.CreateSprint(ctx, "proj-1", "sprint-1", nil, nil)
	sprint.ID = "sprint-1"
	sprint.UserStoryIDs = []string{inSprint.ID, "drifted-story-id"}
	if err := f.Sprints.Put(ctx, sprint); err != nil {
		t.Fatalf("Put sprint: %v", err)
	}

	got, err := f.Stories.ListBySprint(ctx, "sprint-1")
	if err != nil {
		t.Fatalf("ListBySprint: %v", err)
	}
	if len(got) != 1 || got[0].ID != inSprint.ID {
		t.Errorf("ListBySprint = %+v, want only the back-referencing story", got)
	}

	byProject, err := f.Stories.ListByProject(ctx, "proj-1")
	if err != nil {
		t.Fatalf("ListByProject: %v", err)
	}
	if len(byProject) != 2 {
		t.Errorf("ListByProject = %d stories, want 2", len(byProject))
	}
}
