package persist

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Backend is the durable key-value medium a Store writes its envelope to.
//
// Implementations must make Write durable before returning; stores rely on
// the last write always being visible to the next Read.
type Backend interface {
	// Read returns the record stored under name. ok is false when no record
	// exists.
	Read(name string) (data []byte, ok bool, err error)

	// Write replaces the record stored under name.
	Write(name string, data []byte) error

	// Delete removes the record. Deleting a missing record is not an error.
	Delete(name string) error
}

// FileBackend stores each record as <dir>/<name>.json.
type FileBackend struct {
	dir string
}

// NewFileBackend creates a file backend rooted at dir. The directory is
// created lazily on first write.
func NewFileBackend(dir string) *FileBackend {
	return &FileBackend{dir: dir}
}

func (b *FileBackend) path(name string) string {
	return filepath.Join(b.dir, fmt.Sprintf("%s.json", name))
}

// Read loads a record from disk.
func (b *FileBackend) Read(name string) ([]byte, bool, error) {
	data, err := os.ReadFile(b.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read record %s: %w", name, err)
	}
	return data, true, nil
}

// Write replaces a record on disk. The file is written to a temporary name
// and renamed into place so a reader never observes a partial record.
func (b *FileBackend) Write(name string, data []byte) error {
	if err := os.MkdirAll(b.dir, 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(b.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", name, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write record %s: %w", name, err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to set permissions on %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close record %s: %w", name, err)
	}

	if err := os.Rename(tmpName, b.path(name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace record %s: %w", name, err)
	}
	return nil
}

// Delete removes a record file.
func (b *FileBackend) Delete(name string) error {
	if err := os.Remove(b.path(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete record %s: %w", name, err)
	}
	return nil
}

// MemoryBackend is an in-memory Backend for tests and ephemeral sessions.
type MemoryBackend struct {
	mu      sync.RWMutex
	records map[string][]byte
	writes  int
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{records: map[string][]byte{}}
}

// Read returns a copy of the stored record.
func (m *MemoryBackend) Read(name string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.records[name]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), data...), true, nil
}

// Write stores a copy of data.
func (m *MemoryBackend) Write(name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records[name] = append([]byte(nil), data...)
	m.writes++
	return nil
}

// Delete removes a record.
func (m *MemoryBackend) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.records, name)
	return nil
}

// Writes returns how many writes the backend has received.
func (m *MemoryBackend) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}
