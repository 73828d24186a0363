package store

import "checklist/models"

// DocumentStore defines the contract for persisting the storage document.
// It owns the on-disk representation exclusively; callers never touch the
// file themselves and never cache the document between operations.
type DocumentStore interface {
	// Load retrieves the current document. If none exists yet, an empty
	// document is synthesized, persisted, and returned. A corrupt primary
	// falls back to the single-generation backup, and if that is also
	// unreadable the store degrades to a fresh empty document rather than
	// failing (the data loss is logged).
	Load() (*models.StorageDocument, error)

	// Save durably persists the document, stamping metadata.lastUpdated.
	// The previous primary is copied to the backup path before the new
	// content is written to a temporary file and atomically renamed into
	// place. Any failure surfaces as a *models.StorageWriteError and the
	// caller's in-memory mutation is not considered committed.
	Save(doc *models.StorageDocument) error

	// Update runs mutate inside the store's single-writer critical section:
	// load, mutate in memory, save. If mutate returns an error nothing is
	// persisted and that error is returned unchanged. All read-modify-write
	// operations must go through Update to prevent lost updates.
	Update(mutate func(doc *models.StorageDocument) error) error

	// IsAccessible reports whether the primary file either does not exist
	// yet (and is creatable) or exists and is readable and writable. It is
	// a shallow health probe, not a gate for normal operations.
	IsAccessible() bool

	// BackupNow copies the current primary file to a uniquely timestamped
	// sibling, independent of the rolling backup kept by Save. It returns
	// the path of the new file, or an empty path (and nil error) when there
	// is no primary file yet.
	BackupNow() (string, error)

	// Close releases resources held by the store, such as file locks.
	Close() error
}
