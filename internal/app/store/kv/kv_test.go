// internal/app/store/kv/kv_test.go
package kv_test

import (
	"context"
	"testing"

	"github.com/sprinthub/sprinthub/internal/app/store/kv"
)

func TestMemory_GetMissing(t *testing.T) {
	store := kv.NewMemory()

	v, found, err := store.Get(context.Background(), kv.Key{"projects", "nope"})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if found {
		t.Error("expected found=false for missing key")
	}
	if v != nil {
		t.Errorf("expected nil value, got %v", v)
	}
}

func TestMemory_SetGetDelete(t *testing.T) {
	store := kv.NewMemory()
	ctx := context.Background()
	key := kv.Key{"projects", "p1"}

	if err := store.Set(ctx, key, []byte(`{"name":"alpha"}`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	v, found, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !found {
		t.Fatal("expected found=true")
	}
	if string(v) != `{"name":"alpha"}` {
		t.Errorf("value: got %q", v)
	}

	// Overwrite wins.
	if err := store.Set(ctx, key, []byte(`{"name":"beta"}`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	v, _, _ = store.Get(ctx, key)
	if string(v) != `{"name":"beta"}` {
		t.Errorf("after overwrite: got %q", v)
	}

	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	_, found, _ = store.Get(ctx, key)
	if found {
		t.Error("expected key gone after Delete")
	}

	// Deleting an absent key is a no-op, not an error.
	if err := store.Delete(ctx, key); err != nil {
		t.Errorf("Delete of absent key: %v", err)
	}
}

func TestMemory_ScanOrderAndBounds(t *testing.T) {
	store := kv.NewMemory()
	ctx := context.Background()

	// Inserted out of order on purpose.
	seed := []kv.Key{
		{"tasks", "t3"},
		{"tasks", "t1"},
		{"tasks", "t2"},
		{"taskslike", "x"}, // shares the string prefix but not the segment
		{"sprints", "s1"},
	}
	for _, k := range seed {
		if err := store.Set(ctx, k, []byte(k.Encode())); err != nil {
			t.Fatalf("Set %v failed: %v", k, err)
		}
	}

	entries, err := store.Scan(ctx, kv.Key{"tasks"})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	want := []string{"tasks/t1", "tasks/t2", "tasks/t3"}
	if len(entries) != len(want) {
		t.Fatalf("entries: got %d, want %d", len(entries), len(want))
	}
	for i, e := range entries {
		if e.Key.Encode() != want[i] {
			t.Errorf("entry %d: got %q, want %q", i, e.Key.Encode(), want[i])
		}
	}
}

func TestMemory_ScanMixedKeyLengths(t *testing.T) {
	store := kv.NewMemory()
	ctx := context.Background()

	// Primary records and index entries share the top-level prefix; callers
	// separate them by segment count.
	keys := []kv.Key{
		{"project_members", "m1"},
		{"project_members", "by_project", "p1", "u1"},
		{"project_members", "by_user", "u1", "p1"},
	}
	for _, k := range keys {
		if err := store.Set(ctx, k, []byte("x")); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	entries, err := store.Scan(ctx, kv.Key{"project_members"})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	var primaries, indexed int
	for _, e := range entries {
		switch e.Key.Len() {
		case 2:
			primaries++
		case 4:
			indexed++
		default:
			t.Errorf("unexpected key shape %q", e.Key.Encode())
		}
	}
	if primaries != 1 || indexed != 2 {
		t.Errorf("primaries=%d indexed=%d, want 1 and 2", primaries, indexed)
	}
}

func TestMemory_ScanEmptyPrefix(t *testing.T) {
	store := kv.NewMemory()

	entries, err := store.Scan(context.Background(), kv.Key{"projects"})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty scan, got %d entries", len(entries))
	}
}

func TestKey_Append(t *testing.T) {
	base := kv.Key{"project_members", "by_user"}
	k := base.Append("u1", "p1")

	if k.Encode() != "project_members/by_user/u1/p1" {
		t.Errorf("Encode: got %q", k.Encode())
	}
	// Append must not alias the base key's backing array.
	k2 := base.Append("u2")
	if k.Encode() != "project_members/by_user/u1/p1" {
		t.Errorf("base aliased after second Append: %q", k.Encode())
	}
	if k2.Encode() != "project_members/by_user/u2" {
		t.Errorf("Encode: got %q", k2.Encode())
	}
}
