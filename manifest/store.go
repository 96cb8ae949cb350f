package manifest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/crcgo/blobstore"
	"github.com/hupe1980/crcgo/internal/cache"
	"github.com/hupe1980/crcgo/internal/compress"
)

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithCompression compresses manifests written by Save.
func WithCompression(t compress.Type) StoreOption {
	return func(s *Store) { s.compression = t }
}

// WithCacheSize keeps up to size bytes of encoded manifests in memory.
// The CURRENT pointer is always read from the store.
func WithCacheSize(size int64) StoreOption {
	return func(s *Store) {
		if size > 0 {
			s.cache = cache.NewLRU(size)
		}
	}
}

// Store manages versioned manifests and the CURRENT pointer.
type Store struct {
	store       blobstore.BlobStore
	compression compress.Type
	cache       *cache.LRU
	mu          sync.Mutex
}

// NewStore creates a new manifest store.
func NewStore(store blobstore.BlobStore, opts ...StoreOption) *Store {
	s := &Store{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FileName returns the blob name of a manifest version.
func FileName(id uint64) string {
	return fmt.Sprintf("%s-%06d.bin", ManifestFileName, id)
}

func parseFileName(name string) (uint64, bool) {
	rest, ok := strings.CutPrefix(name, ManifestFileName+"-")
	if !ok {
		return 0, false
	}
	rest, ok = strings.CutSuffix(rest, ".bin")
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseUint(rest, 10, 64)
	return id, err == nil
}

// Load loads the current manifest.
func (s *Store) Load(ctx context.Context) (*Manifest, error) {
	return s.LoadVersion(ctx, 0)
}

// LoadVersion loads a specific version ID. 0 means latest.
func (s *Store) LoadVersion(ctx context.Context, id uint64) (*Manifest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := FileName(id)
	if id == 0 {
		content, err := blobstore.ReadAll(ctx, s.store, CurrentFileName)
		if err != nil {
			if errors.Is(err, blobstore.ErrNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		name = strings.TrimSpace(string(content))
	}

	return s.read(ctx, name)
}

func (s *Store) read(ctx context.Context, name string) (*Manifest, error) {
	if s.cache != nil {
		if data, ok := s.cache.Get(name); ok {
			return ReadBinary(bytes.NewReader(data))
		}
	}

	data, err := blobstore.ReadAll(ctx, s.store, name)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("manifest: open %s: %w", name, err)
	}
	m, err := ReadBinary(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("manifest: read %s: %w", name, err)
	}
	if s.cache != nil {
		s.cache.Set(name, data)
	}
	return m, nil
}

// CacheStats returns manifest cache hits and misses. Both are zero without
// WithCacheSize.
func (s *Store) CacheStats() (hits, misses int64) {
	if s.cache == nil {
		return 0, 0
	}
	return s.cache.Stats()
}

// Versions returns the sorted IDs of all stored manifests.
func (s *Store) Versions(ctx context.Context) ([]uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.versions(ctx)
}

func (s *Store) versions(ctx context.Context) ([]uint64, error) {
	names, err := s.store.List(ctx, ManifestFileName+"-")
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(names))
	for _, name := range names {
		if id, ok := parseFileName(name); ok {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

// ListVersions returns all readable manifests ordered by ID. Corrupt or
// unreadable manifests are skipped.
func (s *Store) ListVersions(ctx context.Context) ([]*Manifest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.versions(ctx)
	if err != nil {
		return nil, err
	}
	manifests := make([]*Manifest, 0, len(ids))
	for _, id := range ids {
		m, err := s.read(ctx, FileName(id))
		if err != nil {
			continue
		}
		manifests = append(manifests, m)
	}
	return manifests, nil
}

// Save writes m as the next version and points CURRENT at it. It sets
// m.Version, m.ID and, when zero, m.CreatedAt.
func (s *Store) Save(ctx context.Context, m *Manifest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.versions(ctx)
	if err != nil {
		return err
	}
	next := uint64(1)
	if len(ids) > 0 {
		next = ids[len(ids)-1] + 1
	}

	m.Version = CurrentVersion
	m.ID = next
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	m.Sort()

	var buf bytes.Buffer
	if err := m.WriteBinary(&buf, s.compression); err != nil {
		return err
	}

	name := FileName(m.ID)
	data := buf.Bytes()
	if err := s.store.Put(ctx, name, data); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Set(name, data)
	}
	return s.store.Put(ctx, CurrentFileName, []byte(name))
}

// DeleteVersion deletes the manifest file for the given version.
func (s *Store) DeleteVersion(ctx context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := FileName(id)
	if s.cache != nil {
		s.cache.Delete(name)
	}
	return s.store.Delete(ctx, name)
}

// IsManifestFile reports whether name is a blob managed by Store.
func IsManifestFile(name string) bool {
	if name == CurrentFileName {
		return true
	}
	_, ok := parseFileName(name)
	return ok
}
