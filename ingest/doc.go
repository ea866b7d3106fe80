// Package ingest bulk-loads exported chat history into the message store.
//
// The Importer consumes the JSON export format in ExportFile and writes
// messages through a bounded worker pool. Embedding generation is left to
// the indexing pipeline, which discovers freshly imported messages through
// the pending-embedding indices.
package ingest
