// Package pool keeps size-classed byte buffers for streaming reads.
package pool
