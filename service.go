package crcgo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/crcgo/blobstore"
	"github.com/hupe1980/crcgo/crc"
	"github.com/hupe1980/crcgo/internal/compress"
	"github.com/hupe1980/crcgo/internal/pool"
	"github.com/hupe1980/crcgo/internal/resource"
	"github.com/hupe1980/crcgo/manifest"
)

const readBufferSize = 256 << 10

// Service checksums the blobs of a store and keeps manifests of them.
// It is safe for concurrent use.
type Service struct {
	store      blobstore.BlobStore
	engine     crc.Engine
	manifests  *manifest.Store
	sameStore  bool
	rc         *resource.Controller
	blockSize  int64
	decompress bool
	opts       options
}

// New creates a Service on store.
func New(store blobstore.BlobStore, optFns ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: nil store", ErrInvalidOption)
	}
	o := applyOptions(optFns)

	engine, ok := crc.Lookup(o.algorithm)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, o.algorithm)
	}
	if o.blockSize < 0 {
		return nil, fmt.Errorf("%w: block size %d", ErrInvalidOption, o.blockSize)
	}
	if o.concurrency <= 0 {
		return nil, fmt.Errorf("%w: concurrency %d", ErrInvalidOption, o.concurrency)
	}
	if o.ioLimit < 0 || o.bufferLimit < 0 || o.manifestCacheSize < 0 {
		return nil, fmt.Errorf("%w: negative limit", ErrInvalidOption)
	}
	ct, err := compress.Parse(o.manifestCompression)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOption, err)
	}

	ms := o.manifestStore
	if ms == nil {
		ms = store
	}

	return &Service{
		store:     store,
		engine:    engine,
		manifests: manifest.NewStore(ms, manifest.WithCompression(ct), manifest.WithCacheSize(o.manifestCacheSize)),
		sameStore: o.manifestStore == nil,
		rc: resource.NewController(resource.Config{
			BufferLimitBytes:   o.bufferLimit,
			MaxWorkers:         int64(o.concurrency),
			IOLimitBytesPerSec: o.ioLimit,
		}),
		blockSize:  o.blockSize,
		decompress: o.decompress,
		opts:       o,
	}, nil
}

// Engine returns the CRC engine used for new checksums.
func (s *Service) Engine() crc.Engine { return s.engine }

// Sum checksums one blob.
func (s *Service) Sum(ctx context.Context, name string) (*manifest.Entry, error) {
	return s.sumEntry(ctx, name, s.encoding(name), s.engine, s.blockSize)
}

// SumReader checksums r without a backing blob. The entry has no name.
func (s *Service) SumReader(ctx context.Context, r io.Reader) (*manifest.Entry, error) {
	e := &manifest.Entry{}
	if err := s.hash(ctx, resource.NewRateLimitedReader(ctx, r, s.rc), s.engine, s.blockSize, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) encoding(name string) compress.Type {
	if !s.decompress {
		return compress.None
	}
	return compress.Detect(name)
}

func (s *Service) sumEntry(ctx context.Context, name string, ct compress.Type, engine crc.Engine, blockSize int64) (*manifest.Entry, error) {
	start := time.Now()
	e, err := s.sum(ctx, name, ct, engine, blockSize)
	var size int64
	var checksum uint64
	if e != nil {
		size, checksum = e.Size, e.Checksum
	}
	s.opts.metricsCollector.RecordSum(size, time.Since(start), err)
	s.opts.logger.LogSum(ctx, name, size, checksum, err)
	return e, translateError(err)
}

func (s *Service) sum(ctx context.Context, name string, ct compress.Type, engine crc.Engine, blockSize int64) (*manifest.Entry, error) {
	b, err := s.store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer b.Close()

	r, err := blobstore.NewReader(ctx, b)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var src io.Reader = resource.NewRateLimitedReader(ctx, r, s.rc)
	if ct != compress.None {
		dr, err := compress.NewReader(src, ct)
		if err != nil {
			return nil, fmt.Errorf("sum %s: %w: %w", name, errDecode, err)
		}
		defer dr.Close()
		src = decodeReader{dr}
	}

	e := &manifest.Entry{Name: name}
	if ct != compress.None {
		e.Encoding = ct.String()
	}
	if err := s.hash(ctx, src, engine, blockSize, e); err != nil {
		return nil, fmt.Errorf("sum %s: %w", name, err)
	}
	return e, nil
}

var errDecode = errors.New("decode failed")

// decodeReader marks decompression failures so Verify can report them as
// damage.
type decodeReader struct{ r io.Reader }

func (d decodeReader) Read(p []byte) (int, error) {
	n, err := d.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		err = fmt.Errorf("%w: %w", errDecode, err)
	}
	return n, err
}

// hash streams r through engine, filling Size, Checksum and Blocks of e.
func (s *Service) hash(ctx context.Context, r io.Reader, engine crc.Engine, blockSize int64, e *manifest.Entry) error {
	bufSize := int64(readBufferSize)
	if blockSize > 0 {
		bufSize = min(bufSize, blockSize)
	}
	granted, err := s.rc.AcquireBuffer(ctx, bufSize)
	if err != nil {
		return err
	}
	defer s.rc.ReleaseBuffer(granted)
	if granted > 0 {
		bufSize = granted
	}
	bp := pool.Get(int(bufSize))
	defer pool.Put(bp)
	buf := *bp

	empty := engine.Checksum(nil)
	whole, block := empty, empty
	var fill int64

	for {
		n, err := r.Read(buf)
		if n > 0 {
			chunk := buf[:n]
			whole = engine.Update(whole, chunk)
			e.Size += int64(n)
			for blockSize > 0 && len(chunk) > 0 {
				take := min(int64(len(chunk)), blockSize-fill)
				block = engine.Update(block, chunk[:take])
				fill += take
				chunk = chunk[take:]
				if fill == blockSize {
					e.Blocks = append(e.Blocks, block)
					block, fill = empty, 0
				}
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
	}
	if fill > 0 {
		e.Blocks = append(e.Blocks, block)
	}
	e.Checksum = whole
	return nil
}

// Snapshot checksums every blob under prefix. Manifests kept in the same
// store are skipped.
func (s *Service) Snapshot(ctx context.Context, prefix string) (*manifest.Manifest, error) {
	start := time.Now()
	m, err := s.snapshot(ctx, prefix)
	var entries int
	var bytes int64
	if m != nil {
		entries, bytes = len(m.Entries), m.TotalSize()
	}
	s.opts.metricsCollector.RecordSnapshot(entries, time.Since(start), err)
	s.opts.logger.LogSnapshot(ctx, prefix, entries, bytes, err)
	return m, translateError(err)
}

func (s *Service) snapshot(ctx context.Context, prefix string) (*manifest.Manifest, error) {
	names, err := s.store.List(ctx, prefix)
	if err != nil {
		return nil, err
	}
	if s.sameStore {
		names = slices.DeleteFunc(names, manifest.IsManifestFile)
	}

	entries := make([]manifest.Entry, len(names))
	err = s.forEach(ctx, len(names), func(ctx context.Context, i int) error {
		e, err := s.sumEntry(ctx, names[i], s.encoding(names[i]), s.engine, s.blockSize)
		if err != nil {
			return err
		}
		entries[i] = *e
		return nil
	})
	if err != nil {
		return nil, err
	}

	m := manifest.New(s.engine.Name(), s.blockSize)
	m.Entries = entries
	m.Sort()
	return m, nil
}

// forEach runs fn for 0..n-1 on at most the configured number of workers
// and returns the first error.
func (s *Service) forEach(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	for i := range n {
		if err := s.rc.AcquireWorker(gctx); err != nil {
			break
		}
		g.Go(func() error {
			defer s.rc.ReleaseWorker()
			return fn(gctx, i)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// Verify re-reads every entry of m with the engine and block size recorded
// in m. Damage is reported in the Report; the error is reserved for
// failures that prevent verification.
func (s *Service) Verify(ctx context.Context, m *manifest.Manifest) (*Report, error) {
	start := time.Now()
	r, err := s.verify(ctx, m)
	var entries, failures int
	if r != nil {
		entries, failures = r.Checked, len(r.Mismatches)+len(r.Missing)
	}
	s.opts.metricsCollector.RecordVerify(entries, failures, time.Since(start), err)
	s.opts.logger.LogVerify(ctx, r, err)
	return r, translateError(err)
}

func (s *Service) verify(ctx context.Context, m *manifest.Manifest) (*Report, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil manifest", ErrInvalidOption)
	}
	engine, ok := crc.Lookup(m.Algorithm)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, m.Algorithm)
	}

	r := &Report{
		ManifestID:    m.ID,
		Algorithm:     engine.Name(),
		CorruptBlocks: make(map[string]*roaring.Bitmap),
	}
	var mu sync.Mutex

	err := s.forEach(ctx, len(m.Entries), func(ctx context.Context, i int) error {
		want := &m.Entries[i]
		ct, err := compress.Parse(want.Encoding)
		if err != nil {
			return fmt.Errorf("entry %s: %w", want.Name, err)
		}

		got, err := s.sumEntry(ctx, want.Name, ct, engine, m.BlockSize)
		if errors.Is(err, ErrNotFound) {
			mu.Lock()
			r.Checked++
			r.Missing = append(r.Missing, want.Name)
			mu.Unlock()
			return nil
		}
		if errors.Is(err, errDecode) && ctx.Err() == nil {
			mu.Lock()
			r.Checked++
			r.Mismatches = append(r.Mismatches, &ErrChecksumMismatch{
				Name:         want.Name,
				Expected:     want.Checksum,
				ExpectedSize: want.Size,
				Cause:        err,
			})
			mu.Unlock()
			return nil
		}
		if err != nil {
			return err
		}

		mismatch, blocks := compare(want, got)
		mu.Lock()
		defer mu.Unlock()
		r.Checked++
		r.BytesRead += got.Size
		if mismatch != nil {
			r.Mismatches = append(r.Mismatches, mismatch)
		}
		if blocks != nil {
			r.CorruptBlocks[want.Name] = blocks
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(r.Missing)
	slices.SortFunc(r.Mismatches, func(a, b *ErrChecksumMismatch) int { return strings.Compare(a.Name, b.Name) })
	return r, nil
}

// compare returns the mismatch of got against want and the indexes of
// blocks that differ, both nil when everything matches.
func compare(want, got *manifest.Entry) (*ErrChecksumMismatch, *roaring.Bitmap) {
	var mismatch *ErrChecksumMismatch
	if want.Checksum != got.Checksum || want.Size != got.Size {
		mismatch = &ErrChecksumMismatch{
			Name:         want.Name,
			Expected:     want.Checksum,
			Actual:       got.Checksum,
			ExpectedSize: want.Size,
			ActualSize:   got.Size,
		}
	}

	var blocks *roaring.Bitmap
	for i := range max(len(want.Blocks), len(got.Blocks)) {
		if i < len(want.Blocks) && i < len(got.Blocks) && want.Blocks[i] == got.Blocks[i] {
			continue
		}
		if blocks == nil {
			blocks = roaring.New()
		}
		blocks.Add(uint32(i))
	}
	// Damaged blocks count as a mismatch even when the whole-blob CRC collides.
	if mismatch == nil && blocks != nil {
		mismatch = &ErrChecksumMismatch{
			Name:         want.Name,
			Expected:     want.Checksum,
			Actual:       got.Checksum,
			ExpectedSize: want.Size,
			ActualSize:   got.Size,
		}
	}
	return mismatch, blocks
}

// VerifyBlob checks a single blob against its entry in m. It returns an
// *ErrChecksumMismatch on damage and ErrNotFound when either the entry or
// the blob is missing.
func (s *Service) VerifyBlob(ctx context.Context, m *manifest.Manifest, name string) error {
	want, ok := m.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: no manifest entry for %s", ErrNotFound, name)
	}
	engine, ok := crc.Lookup(m.Algorithm)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAlgorithm, m.Algorithm)
	}
	ct, err := compress.Parse(want.Encoding)
	if err != nil {
		return err
	}
	got, err := s.sumEntry(ctx, name, ct, engine, m.BlockSize)
	if err != nil {
		return err
	}
	if mismatch, _ := compare(want, got); mismatch != nil {
		return mismatch
	}
	return nil
}

// Commit stores m as the latest manifest and assigns its ID.
func (s *Service) Commit(ctx context.Context, m *manifest.Manifest) error {
	start := time.Now()
	err := s.manifests.Save(ctx, m)
	s.opts.metricsCollector.RecordCommit(time.Since(start), err)
	s.opts.logger.LogCommit(ctx, m.ID, len(m.Entries), err)
	return translateError(err)
}

// Latest loads the most recently committed manifest.
func (s *Service) Latest(ctx context.Context) (*manifest.Manifest, error) {
	m, err := s.manifests.Load(ctx)
	return m, translateError(err)
}

// Manifest loads a committed manifest by ID.
func (s *Service) Manifest(ctx context.Context, id uint64) (*manifest.Manifest, error) {
	if id == 0 {
		return nil, fmt.Errorf("%w: manifest id 0", ErrInvalidOption)
	}
	m, err := s.manifests.LoadVersion(ctx, id)
	return m, translateError(err)
}

// Versions returns the IDs of all committed manifests.
func (s *Service) Versions(ctx context.Context) ([]uint64, error) {
	return s.manifests.Versions(ctx)
}

// VerifyLatest verifies the most recently committed manifest.
func (s *Service) VerifyLatest(ctx context.Context) (*Report, error) {
	m, err := s.Latest(ctx)
	if err != nil {
		return nil, err
	}
	return s.Verify(ctx, m)
}

// Export encodes m with the configured codec.
func (s *Service) Export(m *manifest.Manifest) ([]byte, error) {
	return m.Export(s.opts.codec)
}
