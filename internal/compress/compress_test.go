package compress

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/hupe1980/crcgo/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		want Type
	}{
		{"data.bin", None},
		{"logs/app.log.gz", Gzip},
		{"a.ZST", ZSTD},
		{"a.zstd", ZSTD},
		{"dir/x.lz4", LZ4},
		{"noext", None},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.name))
		})
	}
}

func TestParseString(t *testing.T) {
	for _, typ := range []Type{None, LZ4, ZSTD, Gzip} {
		got, err := Parse(typ.String())
		require.NoError(t, err)
		assert.Equal(t, typ, got)
		assert.Equal(t, typ, Detect("f"+typ.Extension()))
	}

	_, err := Parse("brotli")
	assert.ErrorIs(t, err, ErrUnknownType)
	assert.Equal(t, "Type(9)", Type(9).String())
}

func TestStreamRoundTrip(t *testing.T) {
	data := []byte(strings.Repeat("checksum me please ", 1000))

	for _, typ := range []Type{None, LZ4, ZSTD, Gzip} {
		t.Run(typ.String(), func(t *testing.T) {
			var buf bytes.Buffer
			w, err := NewWriter(&buf, typ)
			require.NoError(t, err)
			_, err = w.Write(data)
			require.NoError(t, err)
			require.NoError(t, w.Close())

			if typ != None {
				assert.Less(t, buf.Len(), len(data))
			}

			r, err := NewReader(&buf, typ)
			require.NoError(t, err)
			got, err := io.ReadAll(r)
			require.NoError(t, err)
			require.NoError(t, r.Close())
			assert.Equal(t, data, got)
		})
	}
}

func TestBlockRoundTrip(t *testing.T) {
	compressible := []byte(strings.Repeat("abcd", 4096))
	random := testutil.NewRNG(3).Bytes(4096)

	for _, typ := range []Type{None, LZ4, ZSTD} {
		t.Run(typ.String(), func(t *testing.T) {
			for _, data := range [][]byte{compressible, random, {}} {
				block, err := Compress(data, typ)
				require.NoError(t, err)
				got, err := Decompress(block, typ)
				require.NoError(t, err)
				assert.Equal(t, len(data), len(got))
				assert.True(t, bytes.Equal(data, got))
			}
		})
	}

	block, err := Compress(compressible, ZSTD)
	require.NoError(t, err)
	assert.Less(t, len(block), len(compressible)/2)

	// Random data does not compress and is stored verbatim.
	block, err = Compress(random, LZ4)
	require.NoError(t, err)
	assert.Equal(t, blockHeaderSize+len(random), len(block))
}

func TestDecompressCorrupt(t *testing.T) {
	_, err := Decompress([]byte{1, 2, 3}, ZSTD)
	assert.ErrorIs(t, err, ErrCorrupt)

	block, err := Compress([]byte(strings.Repeat("x", 1000)), ZSTD)
	require.NoError(t, err)
	_, err = Decompress(block[:len(block)-2], ZSTD)
	assert.ErrorIs(t, err, ErrCorrupt)

	_, err = Compress(nil, Gzip)
	assert.ErrorIs(t, err, ErrUnknownType)
}
