// Package storage persists file contents for the metadata service.
//
// Two backends implement [Storage]:
//
//   - [Local] writes flat files under one directory (FOLDER_PATH), using a
//     temp file plus rename so a blob is either absent or complete.
//   - [S3Storage] writes objects to an S3-compatible bucket.
//
// Keys are opaque and flat. Put generates a uuid key unless [WithKey] is
// given. Size variants of an image are stored next to the original under
// "<key>_<width>".
//
//	store, err := storage.New(cfg)
//	info, err := store.Put(ctx, bytes.NewReader(data), int64(len(data)))
//	rc, err := store.Get(ctx, info.Key)
//
// Errors are normalized to sentinels such as [ErrNotFound], so callers never
// inspect filesystem or AWS error types.
package storage
