package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofrs/flock"
	"github.com/spf13/afero"

	"checklist/models"
)

const (
	backupSuffix = ".backup"
	tempSuffix   = ".tmp"
	lockSuffix   = ".lock"
)

// FileDocumentStore implements DocumentStore on a single pretty-printed JSON
// file. Writes go through a temp-write-then-rename sequence so a reader
// never observes a partially written document, and the previous content is
// copied to a single-generation backup first so one bad save can always be
// recovered by hand. A process-wide mutex plus an OS file lock serialize
// every load-mutate-save sequence.
type FileDocumentStore struct {
	path       string
	backupPath string
	fs         afero.Afero
	flk        *flock.Flock // nil when the backing filesystem is not the OS
	mu         sync.Mutex
	logger     *log.Logger
}

// NewFileDocumentStore creates a store over the given filesystem. The parent
// directory is created if missing. File locking is only engaged when fsys is
// the real OS filesystem; in-memory filesystems used in tests have nothing
// to lock against.
func NewFileDocumentStore(fsys afero.Fs, path string, logger *log.Logger) (*FileDocumentStore, error) {
	if logger == nil {
		logger = log.Default()
	}
	af := afero.Afero{Fs: fsys}

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := af.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data directory %s: %w", dir, err)
		}
	}

	s := &FileDocumentStore{
		path:       path,
		backupPath: path + backupSuffix,
		fs:         af,
		logger:     logger,
	}
	if _, ok := fsys.(*afero.OsFs); ok {
		// Lock a sidecar rather than the data file itself: the rename in
		// save swaps the data file's inode out from under a held lock.
		s.flk = flock.New(path + lockSuffix)
	}
	return s, nil
}

func (s *FileDocumentStore) lock() error {
	s.mu.Lock()
	if s.flk != nil {
		if err := s.flk.Lock(); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("acquire file lock %s: %w", s.flk.Path(), err)
		}
	}
	return nil
}

func (s *FileDocumentStore) unlock() {
	if s.flk != nil {
		_ = s.flk.Unlock()
	}
	s.mu.Unlock()
}

// Load retrieves the current document, synthesizing an empty one on first
// use and falling back to the backup, then to a fresh document, on read
// failure.
func (s *FileDocumentStore) Load() (*models.StorageDocument, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.unlock()
	return s.loadLocked()
}

func (s *FileDocumentStore) loadLocked() (*models.StorageDocument, error) {
	doc, err := s.readDocument(s.path)
	if err == nil {
		return doc, nil
	}

	if errors.Is(err, fs.ErrNotExist) {
		doc = models.NewStorageDocument()
		if saveErr := s.saveLocked(doc); saveErr != nil {
			s.logger.Error("could not persist initial empty document", "path", s.path, "error", saveErr)
		}
		return doc, nil
	}

	s.logger.Warn("primary document unreadable, trying backup", "path", s.path, "error", err)
	doc, backupErr := s.readDocument(s.backupPath)
	if backupErr == nil {
		return doc, nil
	}

	// Availability over strict consistency: both copies are gone, so start
	// over from an empty document. This discards prior data, which is why
	// it is logged at error level rather than swallowed silently.
	readErr := &models.StorageReadError{Path: s.path, Err: errors.Join(err, backupErr)}
	s.logger.Error("primary and backup unreadable, starting from an empty document", "error", readErr)
	return models.NewStorageDocument(), nil
}

// readDocument reads and strictly decodes one document file. Unknown fields
// and unsupported schema versions are rejected so a malformed file trips the
// backup fallback instead of being half-loaded.
func (s *FileDocumentStore) readDocument(path string) (*models.StorageDocument, error) {
	data, err := s.fs.ReadFile(path)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var doc models.StorageDocument
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if !strings.HasPrefix(doc.Metadata.Version, "1.") {
		return nil, fmt.Errorf("decode %s: unsupported schema version %q", path, doc.Metadata.Version)
	}
	doc.Normalize()
	return &doc, nil
}

// Save persists the document with the backup-copy, temp-write, rename
// sequence described on DocumentStore.
func (s *FileDocumentStore) Save(doc *models.StorageDocument) error {
	if err := s.lock(); err != nil {
		return &models.StorageWriteError{Path: s.path, Err: err}
	}
	defer s.unlock()
	return s.saveLocked(doc)
}

func (s *FileDocumentStore) saveLocked(doc *models.StorageDocument) error {
	doc.Normalize()
	if err := doc.CheckIntegrity(); err != nil {
		return fmt.Errorf("refusing to persist inconsistent document: %w", err)
	}
	doc.Metadata.Version = models.SchemaVersion
	doc.Metadata.LastUpdated = time.Now().UTC()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return &models.StorageWriteError{Path: s.path, Err: err}
	}
	data = append(data, '\n')

	// Keep one generation of the previous content. If the new content turns
	// out to be semantically bad, this copy is the only recovery path.
	if exists, _ := s.fs.Exists(s.path); exists {
		if err := s.copyFile(s.path, s.backupPath); err != nil {
			return &models.StorageWriteError{Path: s.backupPath, Err: err}
		}
	}

	tempPath := s.path + tempSuffix
	if err := s.fs.WriteFile(tempPath, data, 0o644); err != nil {
		return &models.StorageWriteError{Path: tempPath, Err: err}
	}
	if err := s.fs.Rename(tempPath, s.path); err != nil {
		_ = s.fs.Remove(tempPath)
		return &models.StorageWriteError{Path: s.path, Err: err}
	}
	return nil
}

// Update runs mutate between a fresh load and a save while holding the
// store's lock, so concurrent read-modify-write sequences cannot drop each
// other's changes.
func (s *FileDocumentStore) Update(mutate func(doc *models.StorageDocument) error) error {
	if err := s.lock(); err != nil {
		return &models.StorageWriteError{Path: s.path, Err: err}
	}
	defer s.unlock()

	doc, err := s.loadLocked()
	if err != nil {
		return err
	}
	if err := mutate(doc); err != nil {
		return err
	}
	return s.saveLocked(doc)
}

// IsAccessible reports whether the primary file is usable: creatable when
// absent, readable and writable when present.
func (s *FileDocumentStore) IsAccessible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.fs.Exists(s.path)
	if err != nil {
		return false
	}
	if !exists {
		// Probe whether the directory accepts new files.
		probe := s.path + ".probe"
		f, err := s.fs.OpenFile(probe, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
		if err != nil {
			return false
		}
		_ = f.Close()
		_ = s.fs.Remove(probe)
		return true
	}

	f, err := s.fs.OpenFile(s.path, os.O_RDWR, 0o644)
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}

// BackupNow copies the primary file to a timestamped sibling, for example
// checklist-20260823-141503.json.bak. Returns an empty path and nil error
// when there is nothing to back up yet.
func (s *FileDocumentStore) BackupNow() (string, error) {
	if err := s.lock(); err != nil {
		return "", err
	}
	defer s.unlock()

	exists, err := s.fs.Exists(s.path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", s.path, err)
	}
	if !exists {
		return "", nil
	}

	dest := s.timestampedPath(time.Now().UTC())
	if err := s.copyFile(s.path, dest); err != nil {
		return "", &models.StorageWriteError{Path: dest, Err: err}
	}
	return dest, nil
}

// timestampedPath derives a unique backup path next to the primary file,
// appending a counter in the unlikely case of a same-second collision.
func (s *FileDocumentStore) timestampedPath(now time.Time) string {
	ext := filepath.Ext(s.path)
	base := strings.TrimSuffix(s.path, ext)
	stamp := now.Format("20060102-150405")

	dest := fmt.Sprintf("%s-%s%s.bak", base, stamp, ext)
	for n := 1; ; n++ {
		exists, _ := s.fs.Exists(dest)
		if !exists {
			return dest
		}
		dest = fmt.Sprintf("%s-%s.%d%s.bak", base, stamp, n, ext)
	}
}

func (s *FileDocumentStore) copyFile(src, dst string) error {
	data, err := s.fs.ReadFile(src)
	if err != nil {
		return err
	}
	return s.fs.WriteFile(dst, data, 0o644)
}

// Close releases the file lock.
func (s *FileDocumentStore) Close() error {
	if s.flk != nil {
		return s.flk.Close()
	}
	return nil
}
