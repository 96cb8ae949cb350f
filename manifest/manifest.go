package manifest

import (
	"slices"
	"strings"
	"time"

	"github.com/hupe1980/crcgo/codec"
)

const (
	// ManifestFileName is the name prefix of stored manifests.
	ManifestFileName = "MANIFEST"
	// CurrentFileName names the blob pointing at the latest manifest.
	CurrentFileName = "CURRENT"
	// CurrentVersion is the manifest format version.
	CurrentVersion = 1
)

// Manifest records the checksums of a set of blobs at one point in time.
type Manifest struct {
	Version   int       `json:"version"`
	ID        uint64    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	// Algorithm is the catalogue name of the CRC engine, e.g. "CRC-32C".
	Algorithm string `json:"algorithm"`
	// BlockSize is the size of the blocks checksummed in Entry.Blocks;
	// 0 means whole-blob checksums only.
	BlockSize int64   `json:"block_size"`
	Entries   []Entry `json:"entries"`
}

// Entry is the checksum record of one blob.
type Entry struct {
	Name string `json:"name"`
	// Encoding names the compression that was decoded before
	// checksumming, empty for raw content.
	Encoding string `json:"encoding,omitempty"`
	// Size is the number of bytes checksummed.
	Size     int64  `json:"size"`
	Checksum uint64 `json:"checksum"`
	// Blocks holds the checksum of each BlockSize chunk.
	Blocks []uint64 `json:"blocks,omitempty"`
}

// New creates an empty manifest.
func New(algorithm string, blockSize int64) *Manifest {
	return &Manifest{
		Version:   CurrentVersion,
		CreatedAt: time.Now().UTC(),
		Algorithm: algorithm,
		BlockSize: blockSize,
	}
}

// Add appends entries and keeps the manifest sorted by name. An entry
// replaces an existing one with the same name.
func (m *Manifest) Add(entries ...Entry) {
	for _, e := range entries {
		i, found := slices.BinarySearchFunc(m.Entries, e.Name, func(x Entry, name string) int {
			return strings.Compare(x.Name, name)
		})
		if found {
			m.Entries[i] = e
			continue
		}
		m.Entries = slices.Insert(m.Entries, i, e)
	}
}

// Sort orders the entries by name.
func (m *Manifest) Sort() {
	slices.SortFunc(m.Entries, func(a, b Entry) int { return strings.Compare(a.Name, b.Name) })
}

// Lookup returns the entry for name. Entries must be sorted.
func (m *Manifest) Lookup(name string) (*Entry, bool) {
	i, found := slices.BinarySearchFunc(m.Entries, name, func(x Entry, name string) int {
		return strings.Compare(x.Name, name)
	})
	if !found {
		return nil, false
	}
	return &m.Entries[i], true
}

// TotalSize returns the sum of all entry sizes.
func (m *Manifest) TotalSize() int64 {
	var n int64
	for _, e := range m.Entries {
		n += e.Size
	}
	return n
}

// Export encodes the manifest with c, or codec.Default when c is nil.
func (m *Manifest) Export(c codec.Codec) ([]byte, error) {
	if c == nil {
		c = codec.Default
	}
	return c.Marshal(m)
}

// Import decodes a manifest produced by Export.
func Import(c codec.Codec, data []byte) (*Manifest, error) {
	if c == nil {
		c = codec.Default
	}
	m := &Manifest{}
	if err := c.Unmarshal(data, m); err != nil {
		return nil, err
	}
	if m.Version != CurrentVersion {
		return nil, ErrIncompatibleVersion
	}
	m.Sort()
	return m, nil
}
