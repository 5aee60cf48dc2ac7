package users

import (
	"context"
	"strings"
	"testing"
	"time"
)

func newTestService(t *testing.T, adminEmail string) *Service {
	t.Helper()
	return NewService(NewMemoryStore(), adminEmail)
}

func TestSignupAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, "")

	u, token, err := svc.Signup(ctx, "Asha", "asha@example.com", "+15551234567", "correct-horse")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if !strings.HasPrefix(u.ID, "usr_") {
		t.Errorf("unexpected user ID %q", u.ID)
	}
	if !strings.HasPrefix(token, "mct_") {
		t.Errorf("unexpected token prefix %q", token)
	}
	if u.IsAdmin {
		t.Error("regular signup must not be admin")
	}

	got, err := svc.Authenticate(ctx, "Bearer "+token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("authenticated as %s, want %s", got.ID, u.ID)
	}

	if _, _, err := svc.Login(ctx, "asha@example.com", "wrong-password"); err != ErrInvalidCredentials {
		t.Errorf("wrong password: err = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@example.com", "whatever"); err != ErrInvalidCredentials {
		t.Errorf("unknown email: err = %v, want ErrInvalidCredentials", err)
	}

	_, token2, err := svc.Login(ctx, "ASHA@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Login with mixed-case email: %v", err)
	}
	if token2 == token {
		t.Error("login must issue a fresh token")
	}
}

func TestSignupValidation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, "")

	tests := []struct {
		name, userName, email, phone, password string
	}{
		{"missing name", "", "a@example.com", "", "longenough"},
		{"bad email", "Asha", "not-an-email", "", "longenough"},
		{"bad phone", "Asha", "a@example.com", "abc", "longenough"},
		{"short password", "Asha", "a@example.com", "", "short"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := svc.Signup(ctx, tt.userName, tt.email, tt.phone, tt.password); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	if _, _, err := svc.Signup(ctx, "Asha", "dup@example.com", "", "longenough"); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	if _, _, err := svc.Signup(ctx, "Other", "dup@example.com", "", "longenough"); err != ErrEmailTaken {
		t.Errorf("duplicate email: err = %v, want ErrEmailTaken", err)
	}
}

func TestAdminBootstrap(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, "Admin@MindCare.example")

	admin, _, err := svc.Signup(ctx, "Root", "admin@mindcare.example", "", "longenough")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if !admin.IsAdmin {
		t.Error("configured admin email must get admin rights")
	}

	other, _, err := svc.Signup(ctx, "User", "user@mindcare.example", "", "longenough")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if other.IsAdmin {
		t.Error("other emails must not get admin rights")
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, "")

	_, token, err := svc.Signup(ctx, "Asha", "asha@example.com", "", "longenough")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if err := svc.Logout(ctx, token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := svc.Authenticate(ctx, token); err != ErrInvalidToken {
		t.Errorf("after logout: err = %v, want ErrInvalidToken", err)
	}
}

func TestExpiredSessionRejected(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	svc := NewService(store, "")

	u, token, err := svc.Signup(ctx, "Asha", "asha@example.com", "", "longenough")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	_ = u

	// Backdate the stored session past its TTL.
	sess, err := store.GetSession(ctx, hashToken(token))
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	sess.ExpiresAt = time.Now().Add(-time.Minute)
	if err := store.CreateSession(ctx, sess); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	if _, err := svc.Authenticate(ctx, token); err != ErrInvalidToken {
		t.Errorf("expired session: err = %v, want ErrInvalidToken", err)
	}
}
