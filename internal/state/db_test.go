package state

import (
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return db
}

func TestDB_SetGet(t *testing.T) {
	db := openTestDB(t)

	key := SessionKey("sess-1", "metrics")
	if err := db.Set(key, `{"total_delegations":1}`); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, ok, err := db.Get(key)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !ok {
		t.Fatal("Get() ok = false, want true")
	}
	if got != `{"total_delegations":1}` {
		t.Errorf("Get() = %q, want stored value", got)
	}
}

func TestDB_SetReplaces(t *testing.T) {
	db := openTestDB(t)

	key := SessionKey("sess-1", "context")
	_ = db.Set(key, "v1")
	if err := db.Set(key, "v2"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, _, _ := db.Get(key)
	if got != "v2" {
		t.Errorf("Get() = %q, want v2", got)
	}
}

func TestDB_GetMissing(t *testing.T) {
	db := openTestDB(t)

	_, ok, err := db.Get("session:ghost:metrics")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ok {
		t.Error("Get() ok = true for missing key, want false")
	}
}

func TestDB_ClearRemovesOnlyPrefix(t *testing.T) {
	db := openTestDB(t)

	_ = db.Set(SessionKey("a", "metrics"), "1")
	_ = db.Set(SessionKey("a", "context"), "2")
	_ = db.Set(SessionKey("b", "metrics"), "3")

	if err := db.Clear(SessionPrefix("a")); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	if _, ok, _ := db.Get(SessionKey("a", "metrics")); ok {
		t.Error("session a metrics survived Clear")
	}
	if _, ok, _ := db.Get(SessionKey("a", "context")); ok {
		t.Error("session a context survived Clear")
	}
	if _, ok, _ := db.Get(SessionKey("b", "metrics")); !ok {
		t.Error("session b metrics was removed by session a's Clear")
	}
}

func TestSessionKey(t *testing.T) {
	if got := SessionKey("s1", "metrics"); got != "session:s1:metrics" {
		t.Errorf("SessionKey() = %q, want session:s1:metrics", got)
	}
	if got := SessionPrefix("s1"); got != "session:s1:" {
		t.Errorf("SessionPrefix() = %q, want session:s1:", got)
	}
}
