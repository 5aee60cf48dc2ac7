package chat

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/mindcarehq/mindcare/internal/pagination"
	"github.com/mindcarehq/mindcare/internal/testutil"
)

func TestPostgresStoreTranscript(t *testing.T) {
	db, cleanup := testutil.PGTest(t)
	defer cleanup()

	ctx := context.Background()
	_, err := db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password_hash)
		VALUES ('usr_pg', 'PG', 'pg@example.com', 'x')
	`)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	store := NewPostgresStore(db)
	base := time.Now().UTC().Truncate(time.Microsecond)

	for i := 0; i < 6; i++ {
		role := RoleUser
		if i%2 == 1 {
			role = RoleAssistant
		}
		err := store.Append(ctx, &Message{
			ID:        fmt.Sprintf("msg_%02d", i),
			UserID:    "usr_pg",
			Role:      role,
			Content:   fmt.Sprintf("message %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	// Recent returns the latest window in chronological order.
	recent, err := store.Recent(ctx, "usr_pg", 3)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("Recent returned %d messages, want 3", len(recent))
	}
	if recent[0].Content != "message 3" || recent[2].Content != "message 5" {
		t.Errorf("Recent window wrong: first=%q last=%q", recent[0].Content, recent[2].Content)
	}

	// History pages newest-first through the cursor.
	page1, err := store.History(ctx, "usr_pg", 4, nil)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(page1) != 5 { // limit+1 rows signal another page
		t.Fatalf("first page returned %d rows, want 5", len(page1))
	}
	if page1[0].Content != "message 5" {
		t.Errorf("first row = %q, want the newest message", page1[0].Content)
	}

	cursor := &pagination.Cursor{CreatedAt: page1[3].CreatedAt, ID: page1[3].ID}
	page2, err := store.History(ctx, "usr_pg", 4, cursor)
	if err != nil {
		t.Fatalf("History page 2: %v", err)
	}
	if len(page2) != 2 {
		t.Fatalf("second page returned %d rows, want 2", len(page2))
	}
	if page2[0].Content != "message 1" || page2[1].Content != "message 0" {
		t.Errorf("second page rows: %q, %q", page2[0].Content, page2[1].Content)
	}

	// Other users see nothing.
	other, err := store.History(ctx, "usr_other", 4, nil)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("foreign transcript leaked %d rows", len(other))
	}
}
