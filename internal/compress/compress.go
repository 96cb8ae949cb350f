package compress

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Type identifies a compression format.
type Type uint8

const (
	// None leaves data as is.
	None Type = 0
	// LZ4 is fast with a modest ratio.
	LZ4 Type = 1
	// ZSTD has a better ratio.
	ZSTD Type = 2
	// Gzip is the deflate based gzip format.
	Gzip Type = 3
)

var (
	// ErrUnknownType is returned for unsupported compression types.
	ErrUnknownType = errors.New("compress: unknown type")
	// ErrCorrupt is returned for truncated or inconsistent block data.
	ErrCorrupt = errors.New("compress: corrupt block")
)

func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case ZSTD:
		return "zstd"
	case Gzip:
		return "gzip"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}

// Extension returns the conventional file extension of t, including the dot.
func (t Type) Extension() string {
	switch t {
	case LZ4:
		return ".lz4"
	case ZSTD:
		return ".zst"
	case Gzip:
		return ".gz"
	default:
		return ""
	}
}

// Detect infers the compression type from a blob name's extension.
func Detect(name string) Type {
	switch strings.ToLower(path.Ext(name)) {
	case ".lz4":
		return LZ4
	case ".zst", ".zstd":
		return ZSTD
	case ".gz", ".gzip":
		return Gzip
	default:
		return None
	}
}

// Parse maps a type name as returned by String back to its Type.
func Parse(name string) (Type, error) {
	switch strings.ToLower(name) {
	case "", "none":
		return None, nil
	case "lz4":
		return LZ4, nil
	case "zstd", "zst":
		return ZSTD, nil
	case "gzip", "gz":
		return Gzip, nil
	default:
		return None, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// NewReader returns a streaming decoder for r.
func NewReader(r io.Reader, t Type) (io.ReadCloser, error) {
	switch t {
	case None:
		return io.NopCloser(r), nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	case ZSTD:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	case Gzip:
		return gzip.NewReader(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, t)
	}
}

// NewWriter returns a streaming encoder writing to w. Close flushes the
// encoder but does not close w.
func NewWriter(w io.Writer, t Type) (io.WriteCloser, error) {
	switch t {
	case None:
		return nopWriteCloser{w}, nil
	case LZ4:
		return lz4.NewWriter(w), nil
	case ZSTD:
		return zstd.NewWriter(w)
	case Gzip:
		return gzip.NewWriter(w), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, t)
	}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// blockHeaderSize is [uncompressed uint32][compressed uint32]. A compressed
// size of 0 marks a block stored verbatim.
const blockHeaderSize = 8

// Compress encodes data as a single block with a size header. Blocks that
// do not shrink by at least 10% are stored verbatim.
func Compress(data []byte, t Type) ([]byte, error) {
	var compressed []byte
	switch t {
	case None:
	case LZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, err
		}
		compressed = buf[:n]
	case ZSTD:
		enc := getZstdEncoder()
		compressed = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, t)
	}

	out := make([]byte, blockHeaderSize, blockHeaderSize+len(data))
	binary.LittleEndian.PutUint32(out[0:], uint32(len(data)))
	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		return append(out, data...), nil
	}
	binary.LittleEndian.PutUint32(out[4:], uint32(len(compressed)))
	return append(out, compressed...), nil
}

// Decompress reverses Compress.
func Decompress(data []byte, t Type) ([]byte, error) {
	if len(data) < blockHeaderSize {
		return nil, ErrCorrupt
	}
	size := binary.LittleEndian.Uint32(data[0:])
	csize := binary.LittleEndian.Uint32(data[4:])
	body := data[blockHeaderSize:]

	if csize == 0 {
		if uint64(len(body)) < uint64(size) {
			return nil, ErrCorrupt
		}
		return body[:size], nil
	}
	if uint64(len(body)) < uint64(csize) {
		return nil, ErrCorrupt
	}
	body = body[:csize]

	switch t {
	case LZ4:
		out := make([]byte, size)
		n, err := lz4.UncompressBlock(body, out)
		if err != nil {
			return nil, err
		}
		if uint32(n) != size {
			return nil, ErrCorrupt
		}
		return out, nil
	case ZSTD:
		dec := getZstdDecoder()
		defer zstdDecoderPool.Put(dec)
		out, err := dec.DecodeAll(body, make([]byte, 0, size))
		if err != nil {
			return nil, err
		}
		if uint32(len(out)) != size {
			return nil, ErrCorrupt
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, t)
	}
}
