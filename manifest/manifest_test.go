package manifest

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/hupe1980/crcgo/blobstore"
	"github.com/hupe1980/crcgo/codec"
	"github.com/hupe1980/crcgo/internal/compress"
	"github.com/hupe1980/crcgo/internal/conv"
	"github.com/hupe1980/crcgo/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *Manifest {
	m := New("CRC-32C", 4096)
	m.CreatedAt = time.Unix(1700000000, 123).UTC()
	m.Add(
		Entry{Name: "b.dat", Size: 5000, Checksum: 0xE3069283, Blocks: []uint64{1, 2}},
		Entry{Name: "a.log.zst", Encoding: "zstd", Size: 10, Checksum: 7},
		Entry{Name: "empty", Size: 0, Checksum: 0},
	)
	return m
}

func TestAddLookup(t *testing.T) {
	m := sample()
	require.Len(t, m.Entries, 3)
	assert.Equal(t, "a.log.zst", m.Entries[0].Name)
	assert.Equal(t, "empty", m.Entries[2].Name)

	e, ok := m.Lookup("b.dat")
	require.True(t, ok)
	assert.Equal(t, uint64(0xE3069283), e.Checksum)

	_, ok = m.Lookup("missing")
	assert.False(t, ok)

	m.Add(Entry{Name: "b.dat", Size: 1, Checksum: 9})
	assert.Len(t, m.Entries, 3)
	e, _ = m.Lookup("b.dat")
	assert.Equal(t, uint64(9), e.Checksum)
	assert.Equal(t, int64(11), m.TotalSize())
}

func TestBinaryRoundTrip(t *testing.T) {
	for _, ct := range []compress.Type{compress.None, compress.ZSTD, compress.LZ4} {
		t.Run(ct.String(), func(t *testing.T) {
			m := sample()
			m.ID = 42

			var buf bytes.Buffer
			require.NoError(t, m.WriteBinary(&buf, ct))

			got, err := ReadBinary(&buf)
			require.NoError(t, err)
			assert.Equal(t, m, got)
		})
	}
}

func TestReadBinaryCorrupt(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sample().WriteBinary(&buf, compress.None))
	good := buf.Bytes()

	t.Run("magic", func(t *testing.T) {
		bad := append([]byte{}, good...)
		bad[0] = 'X'
		_, err := ReadBinary(bytes.NewReader(bad))
		assert.ErrorIs(t, err, ErrCorrupt)
	})

	t.Run("version", func(t *testing.T) {
		bad := append([]byte{}, good...)
		bad[4] = 9
		_, err := ReadBinary(bytes.NewReader(bad))
		assert.ErrorIs(t, err, ErrIncompatibleVersion)
	})

	t.Run("payload bit flip", func(t *testing.T) {
		for i := headerSize * 8; i < len(good)*8; i += 13 {
			_, err := ReadBinary(bytes.NewReader(testutil.FlipBit(good, i)))
			assert.ErrorIs(t, err, ErrCorrupt, "bit %d", i)
		}
	})

	t.Run("truncated", func(t *testing.T) {
		_, err := ReadBinary(bytes.NewReader(good[:len(good)-1]))
		assert.ErrorIs(t, err, ErrCorrupt)
		_, err = ReadBinary(bytes.NewReader(good[:5]))
		assert.ErrorIs(t, err, ErrCorrupt)
	})

	t.Run("oversized length", func(t *testing.T) {
		bad := append([]byte{}, good...)
		binary.LittleEndian.PutUint32(bad[12:16], 0xFFFFFFFF)

		_, err := ReadBinary(bytes.NewReader(bad))
		require.ErrorIs(t, err, ErrCorrupt)
		assert.Contains(t, err.Error(), "bytes left")

		// A reader without Len falls back to a bounded read.
		_, err = ReadBinary(io.MultiReader(bytes.NewReader(bad)))
		assert.ErrorIs(t, err, ErrCorrupt)
	})
}

func TestWriteBinaryNameTooLong(t *testing.T) {
	m := New("CRC-32C", 0)
	m.Add(Entry{Name: strings.Repeat("n", 1<<16)})

	var buf bytes.Buffer
	err := m.WriteBinary(&buf, compress.None)
	assert.ErrorIs(t, err, conv.ErrOverflow)
	assert.Zero(t, buf.Len())
}

func TestExportImport(t *testing.T) {
	m := sample()
	for _, c := range []codec.Codec{codec.JSON{}, codec.GoJSON{}, nil} {
		data, err := m.Export(c)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"algorithm":"CRC-32C"`)

		got, err := Import(c, data)
		require.NoError(t, err)
		assert.Equal(t, m.Entries, got.Entries)
		assert.True(t, m.CreatedAt.Equal(got.CreatedAt))
	}

	_, err := Import(nil, []byte(`{"version":99}`))
	assert.ErrorIs(t, err, ErrIncompatibleVersion)
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	stores := map[string]blobstore.BlobStore{
		"memory": blobstore.NewMemoryStore(),
		"local":  mustLocal(t),
	}

	for name, bs := range stores {
		t.Run(name, func(t *testing.T) {
			s := NewStore(bs, WithCompression(compress.ZSTD))

			_, err := s.Load(ctx)
			assert.ErrorIs(t, err, ErrNotFound)

			m1 := sample()
			require.NoError(t, s.Save(ctx, m1))
			assert.Equal(t, uint64(1), m1.ID)

			m2 := sample()
			m2.Add(Entry{Name: "c", Size: 3, Checksum: 3})
			require.NoError(t, s.Save(ctx, m2))
			assert.Equal(t, uint64(2), m2.ID)

			latest, err := s.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, uint64(2), latest.ID)
			assert.Len(t, latest.Entries, 4)

			first, err := s.LoadVersion(ctx, 1)
			require.NoError(t, err)
			assert.Len(t, first.Entries, 3)

			ids, err := s.Versions(ctx)
			require.NoError(t, err)
			assert.Equal(t, []uint64{1, 2}, ids)

			all, err := s.ListVersions(ctx)
			require.NoError(t, err)
			require.Len(t, all, 2)
			assert.Equal(t, uint64(1), all[0].ID)

			require.NoError(t, s.DeleteVersion(ctx, 1))
			_, err = s.LoadVersion(ctx, 1)
			assert.ErrorIs(t, err, ErrNotFound)

			m3 := sample()
			require.NoError(t, s.Save(ctx, m3))
			assert.Equal(t, uint64(3), m3.ID)
		})
	}
}

func TestStoreCache(t *testing.T) {
	ctx := context.Background()
	bs := blobstore.NewMemoryStore()
	s := NewStore(bs, WithCacheSize(1<<20))

	m := sample()
	require.NoError(t, s.Save(ctx, m))

	for i := 0; i < 3; i++ {
		got, err := s.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, m.Entries, got.Entries)
	}
	hits, misses := s.CacheStats()
	assert.Equal(t, int64(3), hits)
	assert.Zero(t, misses)

	// Cached loads hand out independent copies.
	got, err := s.LoadVersion(ctx, 1)
	require.NoError(t, err)
	got.Entries[0].Name = "changed"
	again, err := s.LoadVersion(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, m.Entries[0].Name, again.Entries[0].Name)

	require.NoError(t, s.DeleteVersion(ctx, 1))
	_, err = s.LoadVersion(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	// The reused id must not serve the deleted manifest.
	m2 := New("CRC-32", 0)
	require.NoError(t, s.Save(ctx, m2))
	assert.Equal(t, uint64(1), m2.ID)
	latest, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "CRC-32", latest.Algorithm)
	assert.Empty(t, latest.Entries)

	hits, misses = NewStore(bs).CacheStats()
	assert.Zero(t, hits)
	assert.Zero(t, misses)
}

func TestStoreSkipsCorrupt(t *testing.T) {
	ctx := context.Background()
	bs := blobstore.NewMemoryStore()
	s := NewStore(bs)

	require.NoError(t, s.Save(ctx, sample()))
	require.NoError(t, bs.Put(ctx, FileName(2), []byte("garbage")))

	all, err := s.ListVersions(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	_, err = s.LoadVersion(ctx, 2)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestParseFileName(t *testing.T) {
	id, ok := parseFileName(FileName(17))
	assert.True(t, ok)
	assert.Equal(t, uint64(17), id)
	assert.Equal(t, "MANIFEST-000017.bin", FileName(17))

	for _, name := range []string{"CURRENT", "MANIFEST-x.bin", "MANIFEST-000001.json"} {
		_, ok := parseFileName(name)
		assert.False(t, ok, name)
	}
}

func mustLocal(t *testing.T) blobstore.BlobStore {
	t.Helper()
	return blobstore.NewLocalStore(t.TempDir())
}
