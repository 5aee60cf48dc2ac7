package report

import (
	"context"
	"testing"
	"time"

	"github.com/mindcarehq/mindcare/internal/profile"
	"github.com/mindcarehq/mindcare/internal/scoring"
	"github.com/mindcarehq/mindcare/internal/users"
)

func seedUsers(t *testing.T, store *users.MemoryStore, names ...string) []*users.User {
	t.Helper()
	out := make([]*users.User, 0, len(names))
	base := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	for i, name := range names {
		u := &users.User{
			ID:        "usr_" + name,
			Name:      name,
			Email:     name + "@example.com",
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		if err := store.CreateUser(context.Background(), u); err != nil {
			t.Fatalf("CreateUser: %v", err)
		}
		out = append(out, u)
	}
	return out
}

func contribute(t *testing.T, store profile.Store, userID string, score int) {
	t.Helper()
	ctx := context.Background()
	p, err := store.Get(ctx, userID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	folded, effect := profile.Fold(p, scoring.Scored(score), time.Now())
	if effect != profile.EffectContributed {
		t.Fatalf("score %d did not contribute", score)
	}
	if err := store.Upsert(ctx, folded); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
}

func TestBuildSortsByScoreDescending(t *testing.T) {
	ctx := context.Background()
	userStore := users.NewMemoryStore()
	profStore := profile.NewMemoryStore()
	seedUsers(t, userStore, "calm", "severe", "moderate")

	contribute(t, profStore, "usr_severe", 90)
	contribute(t, profStore, "usr_moderate", 60)

	entries, err := NewService(userStore, profStore).Build(ctx)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	wantOrder := []string{"usr_severe", "usr_moderate", "usr_calm"}
	for i, want := range wantOrder {
		if entries[i].UserID != want {
			t.Errorf("entries[%d] = %s, want %s", i, entries[i].UserID, want)
		}
	}
}

func TestBuildDefaultsForUnprofiledUsers(t *testing.T) {
	ctx := context.Background()
	userStore := users.NewMemoryStore()
	profStore := profile.NewMemoryStore()
	seedUsers(t, userStore, "fresh")

	entries, err := NewService(userStore, profStore).Build(ctx)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	e := entries[0]
	if e.Score != 0 || e.TotalScored != 0 {
		t.Errorf("unprofiled user must report zero state, got %+v", e)
	}
	if e.PhoneNo != "N/A" {
		t.Errorf("missing phone must render as N/A, got %q", e.PhoneNo)
	}
}

func TestBuildTiesKeepSignupOrder(t *testing.T) {
	ctx := context.Background()
	userStore := users.NewMemoryStore()
	profStore := profile.NewMemoryStore()
	seedUsers(t, userStore, "first", "second", "third")

	for _, id := range []string{"usr_first", "usr_second", "usr_third"} {
		contribute(t, profStore, id, 75)
	}

	entries, err := NewService(userStore, profStore).Build(ctx)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	wantOrder := []string{"usr_first", "usr_second", "usr_third"}
	for i, want := range wantOrder {
		if entries[i].UserID != want {
			t.Errorf("entries[%d] = %s, want %s (ties keep signup order)", i, entries[i].UserID, want)
		}
	}
}

func TestBuildEmpty(t *testing.T) {
	entries, err := NewService(users.NewMemoryStore(), profile.NewMemoryStore()).Build(context.Background())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries, want 0", len(entries))
	}
}
