package store

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"checklist/models"
)

const testPath = "data/checklist.json"

func newTestStore(t *testing.T) (*FileDocumentStore, afero.Fs) {
	t.Helper()

	fs := afero.NewMemMapFs()
	s, err := NewFileDocumentStore(fs, testPath, log.New(io.Discard))
	if err != nil {
		t.Fatalf("NewFileDocumentStore failed: %v", err)
	}
	return s, fs
}

func seedDocument() *models.StorageDocument {
	doc := models.NewStorageDocument()
	list := models.NewTaskList("3f0a8e9e-21a4-4cc5-9a0b-0a2f4f7a2a11", "Groceries")
	task := models.NewTask("7d9a2f60-55c8-4f2e-8f44-94f4a1b2c3d4", list.ID, "Buy milk", "18:00")
	doc.TaskLists = append(doc.TaskLists, list)
	doc.Tasks = append(doc.Tasks, task)
	return doc
}

func TestLoad_CreatesEmptyDocumentOnFirstUse(t *testing.T) {
	s, fs := newTestStore(t)

	doc, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(doc.TaskLists) != 0 || len(doc.Tasks) != 0 {
		t.Errorf("expected empty document, got %d lists / %d tasks", len(doc.TaskLists), len(doc.Tasks))
	}
	if doc.Metadata.Version != models.SchemaVersion {
		t.Errorf("version mismatch: got %q, want %q", doc.Metadata.Version, models.SchemaVersion)
	}

	// The synthesized document must be persisted, not just returned.
	exists, _ := afero.Exists(fs, testPath)
	if !exists {
		t.Error("expected data file to be created on first load")
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	want := seedDocument()

	if err := s.Save(want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(got.TaskLists) != 1 || len(got.Tasks) != 1 {
		t.Fatalf("expected 1 list and 1 task, got %d / %d", len(got.TaskLists), len(got.Tasks))
	}
	if got.TaskLists[0].Name != "Groceries" {
		t.Errorf("list name mismatch: got %q", got.TaskLists[0].Name)
	}
	if !got.TaskLists[0].CreatedAt.Equal(want.TaskLists[0].CreatedAt) {
		t.Errorf("list createdAt did not survive round trip: got %v, want %v",
			got.TaskLists[0].CreatedAt, want.TaskLists[0].CreatedAt)
	}
	if got.Tasks[0].Title != "Buy milk" || got.Tasks[0].Time != "18:00" {
		t.Errorf("task fields mismatch: %+v", got.Tasks[0])
	}
	if got.Tasks[0].Completed {
		t.Error("task should round-trip as not completed")
	}
	if got.Metadata.LastUpdated.IsZero() {
		t.Error("save should stamp metadata.lastUpdated")
	}
}

func TestLoad_FallsBackToBackupOnCorruptPrimary(t *testing.T) {
	s, fs := newTestStore(t)

	if err := s.Save(seedDocument()); err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	// Second save moves the seed content into the backup generation.
	second, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	second.TaskLists[0].Name = "Chores"
	if err := s.Save(second); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	if err := afero.WriteFile(fs, testPath, []byte("{ not json"), 0o644); err != nil {
		t.Fatalf("corrupting primary failed: %v", err)
	}

	doc, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(doc.TaskLists) != 1 || doc.TaskLists[0].Name != "Groceries" {
		t.Errorf("expected backup generation content, got %+v", doc.TaskLists)
	}
}

func TestLoad_StartsFreshWhenPrimaryAndBackupCorrupt(t *testing.T) {
	s, fs := newTestStore(t)

	if err := s.Save(seedDocument()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := afero.WriteFile(fs, testPath, []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(fs, testPath+backupSuffix, []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := s.Load()
	if err != nil {
		t.Fatalf("Load should degrade to an empty document, got error: %v", err)
	}
	if len(doc.TaskLists) != 0 || len(doc.Tasks) != 0 {
		t.Errorf("expected fresh empty document, got %d lists / %d tasks", len(doc.TaskLists), len(doc.Tasks))
	}
}

func TestLoad_RejectsUnknownSchemaVersion(t *testing.T) {
	s, fs := newTestStore(t)

	body := []byte(`{"taskLists":[],"tasks":[],"metadata":{"version":"9.0.0","lastUpdated":"2026-01-01T00:00:00Z"}}`)
	if err := afero.WriteFile(fs, testPath, body, 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	// No backup exists, so an unsupported version degrades to empty.
	if len(doc.TaskLists) != 0 {
		t.Errorf("expected empty document for unsupported schema, got %+v", doc.TaskLists)
	}
}

// renameFailFs fails every Rename to simulate a crash between the temp
// write and the atomic swap.
type renameFailFs struct {
	afero.Fs
	fail bool
}

func (f *renameFailFs) Rename(oldname, newname string) error {
	if f.fail {
		return errors.New("simulated rename failure")
	}
	return f.Fs.Rename(oldname, newname)
}

func TestSave_FailedRenameLeavesPrimaryIntact(t *testing.T) {
	ffs := &renameFailFs{Fs: afero.NewMemMapFs()}
	s, err := NewFileDocumentStore(ffs, testPath, log.New(io.Discard))
	if err != nil {
		t.Fatalf("NewFileDocumentStore failed: %v", err)
	}

	if err := s.Save(seedDocument()); err != nil {
		t.Fatalf("initial save failed: %v", err)
	}

	ffs.fail = true
	doc, _ := s.Load()
	doc.TaskLists[0].Name = "Changed"
	err = s.Save(doc)
	if err == nil {
		t.Fatal("expected save to fail when rename fails")
	}
	var writeErr *models.StorageWriteError
	if !errors.As(err, &writeErr) {
		t.Errorf("expected StorageWriteError, got %T: %v", err, err)
	}

	ffs.fail = false
	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.TaskLists[0].Name != "Groceries" {
		t.Errorf("primary should hold the old content after failed save, got %q", got.TaskLists[0].Name)
	}
}

func TestSave_RefusesOrphanedTasks(t *testing.T) {
	s, _ := newTestStore(t)

	doc := models.NewStorageDocument()
	doc.Tasks = append(doc.Tasks, models.NewTask(
		"7d9a2f60-55c8-4f2e-8f44-94f4a1b2c3d4",
		"3f0a8e9e-21a4-4cc5-9a0b-0a2f4f7a2a11", // no such list
		"stray", ""))

	if err := s.Save(doc); err == nil {
		t.Fatal("expected save to refuse a document with orphaned tasks")
	}
}

func TestUpdate_MutateErrorSkipsSave(t *testing.T) {
	s, _ := newTestStore(t)
	if err := s.Save(seedDocument()); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("boom")
	err := s.Update(func(doc *models.StorageDocument) error {
		doc.TaskLists[0].Name = "Changed"
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected mutate error to propagate, got %v", err)
	}

	doc, _ := s.Load()
	if doc.TaskLists[0].Name != "Groceries" {
		t.Errorf("mutation must not be persisted when mutate fails, got %q", doc.TaskLists[0].Name)
	}
}

func TestBackupNow(t *testing.T) {
	s, fs := newTestStore(t)

	// No primary file yet: reported no-op.
	path, err := s.BackupNow()
	if err != nil {
		t.Fatalf("BackupNow failed: %v", err)
	}
	if path != "" {
		t.Errorf("expected empty path before first save, got %q", path)
	}

	if err := s.Save(seedDocument()); err != nil {
		t.Fatal(err)
	}
	path, err = s.BackupNow()
	if err != nil {
		t.Fatalf("BackupNow failed: %v", err)
	}
	if path == "" {
		t.Fatal("expected a backup path")
	}
	exists, _ := afero.Exists(fs, path)
	if !exists {
		t.Errorf("backup file %s was not created", path)
	}

	// A second backup in the same second must not clobber the first.
	path2, err := s.BackupNow()
	if err != nil {
		t.Fatalf("second BackupNow failed: %v", err)
	}
	if path2 == path {
		t.Errorf("expected a unique backup path, both were %q", path)
	}
}

func TestIsAccessible(t *testing.T) {
	s, _ := newTestStore(t)
	if !s.IsAccessible() {
		t.Error("fresh store in a writable directory should be accessible")
	}

	if err := s.Save(seedDocument()); err != nil {
		t.Fatal(err)
	}
	if !s.IsAccessible() {
		t.Error("existing readable/writable data file should be accessible")
	}

	ro, err := NewFileDocumentStore(afero.NewReadOnlyFs(afero.NewMemMapFs()), "ro.json", log.New(io.Discard))
	if err == nil && ro.IsAccessible() {
		t.Error("read-only filesystem should not be accessible")
	}
}

func TestTimestampedPath(t *testing.T) {
	s, _ := newTestStore(t)
	now := time.Date(2026, 8, 23, 14, 15, 3, 0, time.UTC)
	got := s.timestampedPath(now)
	want := "data/checklist-20260823-141503.json.bak"
	if got != want {
		t.Errorf("timestampedPath: got %q, want %q", got, want)
	}
}
