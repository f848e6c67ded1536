package storage

import (
	"os"
	"path"
	"testing"
	"time"

	"github.com/wardenhq/warden/storage/model"
)

func testRecord(subjectID string, kind model.PolicyKind) model.TimedStatusRecord {
	now := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	return model.TimedStatusRecord{
		SubjectID:   subjectID,
		Kind:        kind,
		Status:      model.StatusActive,
		IssuedAt:    now,
		WindowStart: now,
		WindowEnd:   now.Add(72 * time.Hour),
		Reason:      "testing",
		IssuedBy:    "sgt",
	}
}

func TestFileRecordStorageCRUD(t *testing.T) {
	dir := t.TempDir()
	store := NewFileRecordStorage(dir)
	if err := store.Load(); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	// reads before any write see an empty store
	r, err := store.Record(model.KindZeroTolerance, "alice")
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if r != nil {
		t.Fatalf("expected no record, got %+v", r)
	}

	want := testRecord("alice", model.KindZeroTolerance)
	if err = store.Write(want); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	r, err = store.Record(model.KindZeroTolerance, "alice")
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if r == nil || *r != want {
		t.Fatalf("read back %+v, want %+v", r, want)
	}

	// kinds do not bleed into each other
	if r, _ = store.Record(model.KindSuspension, "alice"); r != nil {
		t.Fatalf("record leaked into another kind: %+v", r)
	}

	updated := want
	updated.Status = model.StatusExpired
	if err = store.Write(updated); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if r, _ = store.Record(model.KindZeroTolerance, "alice"); r.Status != model.StatusExpired {
		t.Fatalf("expected updated status, got %s", r.Status)
	}

	if err = store.Delete(model.KindZeroTolerance, "alice"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if r, _ = store.Record(model.KindZeroTolerance, "alice"); r != nil {
		t.Fatalf("expected record to be gone, got %+v", r)
	}
}

func TestFileRecordStorageDeleteBatch(t *testing.T) {
	store := NewFileRecordStorage(t.TempDir())
	for _, id := range []string{"alice", "bob", "carol"} {
		if err := store.Write(testRecord(id, model.KindSuspension)); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}
	if err := store.DeleteBatch(model.KindSuspension, []string{"alice", "carol", "unknown"}); err != nil {
		t.Fatalf("delete batch failed: %v", err)
	}
	records, err := store.List(model.KindSuspension)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(records) != 1 || records[0].SubjectID != "bob" {
		t.Fatalf("expected only bob to remain, got %+v", records)
	}
}

func TestFileRecordStorageUnknownKind(t *testing.T) {
	store := NewFileRecordStorage(t.TempDir())
	if _, err := store.Record(model.PolicyKind(99), "alice"); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestFileRecordStorageCorruptFileStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(path.Join(dir, "ztp.json"), []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	store := NewFileRecordStorage(dir)

	records, err := store.List(model.KindZeroTolerance)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty store, got %+v", records)
	}

	// the next write replaces the corrupt file with valid content
	if err = store.Write(testRecord("alice", model.KindZeroTolerance)); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	r, err := store.Record(model.KindZeroTolerance, "alice")
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if r == nil {
		t.Fatal("expected record after rewrite")
	}
}
