package storage

import (
	"database/sql"
	"errors"
	"testing"
	"time"
)

func TestUserAndSessionLifecycle(t *testing.T) {
	db := openTestDB(t)
	id, err := db.CreateUser("alice", "hash", "admin")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := db.CreateUser("alice", "other", "viewer"); err == nil {
		t.Fatal("duplicate username accepted")
	}

	u, ph, err := db.GetUserByUsername("alice")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if u.ID != id || u.Role != "admin" || ph != "hash" {
		t.Fatalf("user roundtrip: %+v %q", u, ph)
	}

	if err := db.CreateSession(id, "tok-1", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("create session: %v", err)
	}
	su, err := db.GetSession("tok-1")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if su.Username != "alice" {
		t.Fatalf("session user: %+v", su)
	}

	// Expired tokens are invisible.
	if err := db.CreateSession(id, "tok-old", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("create expired session: %v", err)
	}
	if _, err := db.GetSession("tok-old"); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expired session: got %v, want ErrNoRows", err)
	}

	if err := db.DeleteSession("tok-1"); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	if _, err := db.GetSession("tok-1"); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("deleted session still resolves: %v", err)
	}
	if err := db.DeleteSession("tok-1"); err == nil {
		t.Fatal("double delete should report no rows")
	}
}

func TestLogAudit(t *testing.T) {
	db := openTestDB(t)
	if err := db.LogAudit("alice", "waiver.create", "waiver/1", map[string]any{"rule": "no-null-literal"}); err != nil {
		t.Fatalf("audit: %v", err)
	}
	var n int
	if err := db.conn.QueryRow(`SELECT COUNT(1) FROM audit`).Scan(&n); err != nil || n != 1 {
		t.Fatalf("audit rows: %d %v", n, err)
	}
}
