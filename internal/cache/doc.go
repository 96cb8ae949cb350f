// Package cache provides a byte-bounded LRU cache.
//
// The manifest store keeps encoded manifest blobs here so repeated loads of the
// same version skip the round trip to remote object storage.
package cache
