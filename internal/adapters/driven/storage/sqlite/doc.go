// Package sqlite stores vector index snapshots in a single SQLite file,
// ~/.docqa/data/index.db unless a data directory is given.
//
// The driver is modernc.org/sqlite, so the binary stays cgo-free.
// Each index is one row in indices, keyed by the document hash, and its
// chunks live in index_chunks with embeddings as little-endian float32
// blobs. Schema changes are numbered migrations under migrations/.
//
// A snapshot is written in one transaction: readers see the old index or
// the new one, never a mix.
package sqlite
