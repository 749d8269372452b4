// Package files is the file lifecycle core: ingestion, hierarchy checks,
// access policy, listing, publication and content retrieval.
//
// Storage is reached only through [Repository], [storage.Storage] and
// [ThumbnailQueue], so the package has no knowledge of PostgreSQL, Redis or River.
//
// Access rules:
//
//   - Public records are readable by anyone, private ones only by their owner.
//   - Writes (publish, unpublish) need the owner.
//   - Any denial other than a missing caller is reported as [ErrNotFound],
//     so private records and nonexistent ids look the same.
//
// Records are never deleted and only IsPublic ever changes after insert.
package files
