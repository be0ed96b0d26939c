package media

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"github.com/spf13/afero"
)

// Store is the persistence abstraction for media items.
// Implementations can be in-memory or file-based.
// The Repository serialises access to a Store; implementations need not be
// safe for concurrent use on their own.
type Store interface {
	Get(id string) (Item, bool)
	Put(it Item) error
	Delete(id string) error
	List() []Item
}

// InMemoryStore is an in-memory implementation of Store.
type InMemoryStore struct {
	items map[string]Item
}

// NewInMemoryStore returns a new empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{items: make(map[string]Item)}
}

// Get implements Store.Get.
func (s *InMemoryStore) Get(id string) (Item, bool) {
	it, ok := s.items[id]
	return it, ok
}

// Put implements Store.Put.
func (s *InMemoryStore) Put(it Item) error {
	s.items[it.ID] = it
	return nil
}

// Delete implements Store.Delete.
func (s *InMemoryStore) Delete(id string) error {
	delete(s.items, id)
	return nil
}

// List implements Store.List. Order is unspecified.
func (s *InMemoryStore) List() []Item {
	return lo.Values(s.items)
}

// fileState is the on-disk layout of a FileStore.
type fileState struct {
	Items []Item `json:"items"`
}

// FileStore keeps items in memory and rewrites a JSON file on every change.
// Writes go to a temporary file first and are renamed into place.
type FileStore struct {
	fs    afero.Afero
	path  string
	items map[string]Item
}

// OpenFileStore loads path from fs. A missing or empty file yields an empty store.
func OpenFileStore(fs afero.Fs, path string) (*FileStore, error) {
	s := &FileStore{
		fs:    afero.Afero{Fs: fs},
		path:  path,
		items: make(map[string]Item),
	}

	data, err := s.fs.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("read media store: %w", err)
	}
	if len(data) == 0 {
		return s, nil
	}

	var st fileState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("decode media store: %w", err)
	}
	for _, it := range st.Items {
		s.items[it.ID] = it
	}
	return s, nil
}

// Get implements Store.Get.
func (s *FileStore) Get(id string) (Item, bool) {
	it, ok := s.items[id]
	return it, ok
}

// Put implements Store.Put. The in-memory copy is only updated once the file
// has been written.
func (s *FileStore) Put(it Item) error {
	prev, had := s.items[it.ID]
	s.items[it.ID] = it
	if err := s.flush(); err != nil {
		if had {
			s.items[it.ID] = prev
		} else {
			delete(s.items, it.ID)
		}
		return err
	}
	return nil
}

// Delete implements Store.Delete.
func (s *FileStore) Delete(id string) error {
	prev, had := s.items[id]
	if !had {
		return nil
	}
	delete(s.items, id)
	if err := s.flush(); err != nil {
		s.items[id] = prev
		return err
	}
	return nil
}

// List implements Store.List. Order is unspecified.
func (s *FileStore) List() []Item {
	return lo.Values(s.items)
}

func (s *FileStore) flush() error {
	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	data, err := json.MarshalIndent(fileState{Items: sortNewestFirst(lo.Values(s.items))}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode media store: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := s.fs.WriteFile(tmp, data, 0o600); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("write tmp: %w", err)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("rename tmp: %w", err)
	}
	return nil
}
