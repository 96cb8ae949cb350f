// Package resource bounds the resources spent on checksumming blobs.
//
// A Controller governs three budgets:
//
//   - Buffers: memory held by in-flight read buffers (weighted semaphore)
//   - Workers: blobs processed concurrently (weighted semaphore)
//   - IO: read throughput (token bucket)
//
//	rc := resource.NewController(resource.Config{
//	    MaxWorkers:         8,
//	    IOLimitBytesPerSec: 100 << 20,
//	})
//
//	if err := rc.AcquireWorker(ctx); err != nil {
//	    return err
//	}
//	defer rc.ReleaseWorker()
//
//	r := resource.NewRateLimitedReader(ctx, blobReader, rc)
//
// All methods are safe for concurrent use, and all are no-ops on a nil
// *Controller.
package resource
