package resource

import (
	"context"
	"io"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits.
type Config struct {
	// BufferLimitBytes bounds the memory held by in-flight read buffers.
	// If 0, unlimited.
	BufferLimitBytes int64

	// MaxWorkers is the maximum number of blobs checksummed concurrently.
	// If 0, defaults to 1.
	MaxWorkers int64

	// IOLimitBytesPerSec caps the read throughput. If 0, unlimited.
	IOLimitBytesPerSec int64
}

// Controller governs the memory, concurrency and IO spent on checksumming.
// A nil *Controller imposes no limits.
type Controller struct {
	cfg Config

	bufSem *semaphore.Weighted // nil if unlimited

	workers *semaphore.Weighted

	ioLimiter *rate.Limiter
}

// NewController creates a resource controller.
func NewController(cfg Config) *Controller {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 1
	}

	c := &Controller{
		cfg:     cfg,
		workers: semaphore.NewWeighted(cfg.MaxWorkers),
	}
	if cfg.BufferLimitBytes > 0 {
		c.bufSem = semaphore.NewWeighted(cfg.BufferLimitBytes)
	}
	if cfg.IOLimitBytesPerSec > 0 {
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), int(cfg.IOLimitBytesPerSec))
	}
	return c
}

// AcquireBuffer reserves n bytes of buffer memory, blocking until they are
// available or ctx is done. Requests larger than the limit are clamped to it.
// The returned value must be passed to ReleaseBuffer.
func (c *Controller) AcquireBuffer(ctx context.Context, n int64) (int64, error) {
	if c == nil || n <= 0 {
		return 0, nil
	}
	if c.bufSem != nil {
		n = min(n, c.cfg.BufferLimitBytes)
		if err := c.bufSem.Acquire(ctx, n); err != nil {
			return 0, err
		}
	}
	return n, nil
}

// ReleaseBuffer returns n bytes of buffer memory.
func (c *Controller) ReleaseBuffer(n int64) {
	if c == nil || n <= 0 {
		return
	}
	if c.bufSem != nil {
		c.bufSem.Release(n)
	}
}

// AcquireWorker reserves a worker slot, blocking while all are busy.
func (c *Controller) AcquireWorker(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.workers.Acquire(ctx, 1)
}

// ReleaseWorker frees a worker slot.
func (c *Controller) ReleaseWorker() {
	if c == nil {
		return
	}
	c.workers.Release(1)
}

// AcquireIO waits until n bytes may be read. Requests larger than one
// second of budget are split.
func (c *Controller) AcquireIO(ctx context.Context, n int) error {
	if c == nil || c.ioLimiter == nil {
		return nil
	}
	burst := c.ioLimiter.Burst()
	for n > 0 {
		step := min(n, burst)
		if err := c.ioLimiter.WaitN(ctx, step); err != nil {
			return err
		}
		n -= step
	}
	return nil
}

// RateLimitedReader throttles reads through a Controller's IO limit.
type RateLimitedReader struct {
	ctx context.Context
	r   io.Reader
	c   *Controller
}

// NewRateLimitedReader wraps r.
func NewRateLimitedReader(ctx context.Context, r io.Reader, c *Controller) *RateLimitedReader {
	return &RateLimitedReader{ctx: ctx, r: r, c: c}
}

// Read reads at most one burst and charges the bytes read.
func (r *RateLimitedReader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	if r.c != nil && r.c.ioLimiter != nil {
		if burst := r.c.ioLimiter.Burst(); len(p) > burst {
			p = p[:burst]
		}
	}
	n, err := r.r.Read(p)
	if n > 0 {
		if werr := r.c.AcquireIO(r.ctx, n); werr != nil {
			return n, werr
		}
	}
	return n, err
}
