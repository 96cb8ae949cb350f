package crcgo

import (
	"log/slog"
	"runtime"

	"github.com/hupe1980/crcgo/blobstore"
	"github.com/hupe1980/crcgo/codec"
)

const (
	// DefaultAlgorithm is the engine used when WithAlgorithm is not given.
	DefaultAlgorithm = "CRC-32C"
	// DefaultBlockSize is the per-block checksum granularity.
	DefaultBlockSize = 1 << 20
)

type options struct {
	algorithm           string
	blockSize           int64
	concurrency         int
	ioLimit             int64
	bufferLimit         int64
	decompress          bool
	codec               codec.Codec
	manifestStore       blobstore.BlobStore
	manifestCompression string
	manifestCacheSize   int64
	metricsCollector    MetricsCollector
	logger              *Logger
}

// Option configures a Service.
type Option func(*options)

// WithAlgorithm selects the CRC engine by catalogue name or alias,
// e.g. "CRC-32C", "crc64xz" or "ARC".
func WithAlgorithm(name string) Option {
	return func(o *options) {
		o.algorithm = name
	}
}

// WithBlockSize sets the size of the blocks checksummed individually
// alongside the whole blob. 0 records whole-blob checksums only.
func WithBlockSize(n int64) Option {
	return func(o *options) {
		o.blockSize = n
	}
}

// WithConcurrency bounds the number of blobs checksummed at once.
func WithConcurrency(n int) Option {
	return func(o *options) {
		o.concurrency = n
	}
}

// WithIOLimit caps the read throughput in bytes per second. 0 disables it.
func WithIOLimit(bytesPerSec int64) Option {
	return func(o *options) {
		o.ioLimit = bytesPerSec
	}
}

// WithBufferLimit bounds the memory held by read buffers across workers.
func WithBufferLimit(bytes int64) Option {
	return func(o *options) {
		o.bufferLimit = bytes
	}
}

// WithDecompress checksums .zst, .lz4 and .gz blobs over their decoded
// content.
func WithDecompress(enabled bool) Option {
	return func(o *options) {
		o.decompress = enabled
	}
}

// WithCodec configures the codec used by Export.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithManifestStore keeps manifests in a separate store instead of next to
// the data.
func WithManifestStore(store blobstore.BlobStore) Option {
	return func(o *options) {
		o.manifestStore = store
	}
}

// WithManifestCompression compresses committed manifests: "none", "lz4" or
// "zstd".
func WithManifestCompression(name string) Option {
	return func(o *options) {
		o.manifestCompression = name
	}
}

// WithManifestCacheSize keeps up to size bytes of committed manifests in
// memory. 0 disables the cache.
func WithManifestCacheSize(size int64) Option {
	return func(o *options) {
		o.manifestCacheSize = size
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &crcgo.BasicMetricsCollector{}
//	svc, _ := crcgo.New(store, crcgo.WithMetricsCollector(metrics))
//	// ... use svc ...
//	stats := metrics.GetStats()
//	fmt.Printf("Sums: %d, Bytes: %d\n", stats.SumCount, stats.SumBytes)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		algorithm:        DefaultAlgorithm,
		blockSize:        DefaultBlockSize,
		concurrency:      runtime.GOMAXPROCS(0),
		codec:            codec.Default,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
