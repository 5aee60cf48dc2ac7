package profile

import (
	"context"
	"testing"
	"time"

	"github.com/mindcarehq/mindcare/internal/scoring"
	"github.com/mindcarehq/mindcare/internal/testutil"
)

func TestPostgresStoreRoundTrip(t *testing.T) {
	db, cleanup := testutil.PGTest(t)
	defer cleanup()

	ctx := context.Background()

	// Profiles reference users.
	_, err := db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password_hash)
		VALUES ('usr_pg', 'PG', 'pg@example.com', 'x')
	`)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	store := NewPostgresStore(db)

	// Missing profile defaults to zero state.
	p, err := store.Get(ctx, "usr_pg")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.TotalScored != 0 || p.AverageScore != 0 {
		t.Errorf("missing profile must default to zero state, got %+v", p)
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	folded, _ := Fold(p, scoring.Scored(85), now)
	if err := store.Upsert(ctx, folded); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, err := store.Get(ctx, "usr_pg")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.AverageScore != 85 || got.TotalScored != 1 {
		t.Errorf("got %+v, want avg=85 n=1", got)
	}

	// Upsert overwrites.
	folded, _ = Fold(got, scoring.Scored(61), now)
	if err := store.Upsert(ctx, folded); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	got, _ = store.Get(ctx, "usr_pg")
	if got.AverageScore != 73 || got.TotalScored != 2 {
		t.Errorf("after second fold got %+v, want avg=73 n=2", got)
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("List returned %d profiles, want 1", len(all))
	}
}
