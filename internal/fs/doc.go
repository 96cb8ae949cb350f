// Package fs abstracts the file operations behind atomic local writes so
// that tests can inject failures.
//
//   - [LocalFS]: production implementation on the os package
//   - [FaultyFS]: wrapper failing writes, syncs, closes or renames of
//     matching paths
//
// Reads do not go through this package; local blobs are memory mapped.
package fs
