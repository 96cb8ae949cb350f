package crcgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordSum is called after each blob is checksummed.
	// bytes is the amount of data hashed, err is nil if successful.
	RecordSum(bytes int64, duration time.Duration, err error)

	// RecordSnapshot is called after each snapshot.
	RecordSnapshot(entries int, duration time.Duration, err error)

	// RecordVerify is called after each verification run.
	// failures counts mismatched and missing blobs.
	RecordVerify(entries, failures int, duration time.Duration, err error)

	// RecordCommit is called after each manifest commit.
	RecordCommit(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordSum(int64, time.Duration, error)       {}
func (NoopMetricsCollector) RecordSnapshot(int, time.Duration, error)    {}
func (NoopMetricsCollector) RecordVerify(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordCommit(time.Duration, error)           {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	SumCount       atomic.Int64
	SumErrors      atomic.Int64
	SumBytes       atomic.Int64
	SumTotalNanos  atomic.Int64
	SnapshotCount  atomic.Int64
	SnapshotErrors atomic.Int64
	VerifyCount    atomic.Int64
	VerifyErrors   atomic.Int64
	VerifyFailures atomic.Int64
	CommitCount    atomic.Int64
	CommitErrors   atomic.Int64
}

// RecordSum implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSum(bytes int64, duration time.Duration, err error) {
	b.SumCount.Add(1)
	b.SumTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SumErrors.Add(1)
		return
	}
	b.SumBytes.Add(bytes)
}

// RecordSnapshot implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSnapshot(entries int, duration time.Duration, err error) {
	b.SnapshotCount.Add(1)
	if err != nil {
		b.SnapshotErrors.Add(1)
	}
}

// RecordVerify implements MetricsCollector.
func (b *BasicMetricsCollector) RecordVerify(entries, failures int, duration time.Duration, err error) {
	b.VerifyCount.Add(1)
	b.VerifyFailures.Add(int64(failures))
	if err != nil {
		b.VerifyErrors.Add(1)
	}
}

// RecordCommit implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCommit(duration time.Duration, err error) {
	b.CommitCount.Add(1)
	if err != nil {
		b.CommitErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		SumCount:       b.SumCount.Load(),
		SumErrors:      b.SumErrors.Load(),
		SumBytes:       b.SumBytes.Load(),
		SumAvgNanos:    b.getAvgSumNanos(),
		SnapshotCount:  b.SnapshotCount.Load(),
		SnapshotErrors: b.SnapshotErrors.Load(),
		VerifyCount:    b.VerifyCount.Load(),
		VerifyErrors:   b.VerifyErrors.Load(),
		VerifyFailures: b.VerifyFailures.Load(),
		CommitCount:    b.CommitCount.Load(),
		CommitErrors:   b.CommitErrors.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgSumNanos() int64 {
	count := b.SumCount.Load()
	if count == 0 {
		return 0
	}
	return b.SumTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	SumCount       int64
	SumErrors      int64
	SumBytes       int64
	SumAvgNanos    int64
	SnapshotCount  int64
	SnapshotErrors int64
	VerifyCount    int64
	VerifyErrors   int64
	VerifyFailures int64
	CommitCount    int64
	CommitErrors   int64
}
