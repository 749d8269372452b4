// Package worker holds the background tasks of the file service.
//
// ThumbnailTask renders resized variants of every uploaded image and stores
// them under files.VariantPath. ThumbnailQueue is the producer side, handed
// to files.Service with files.WithThumbnailQueue. SweepTask removes temp
// files left by interrupted writes to the local backend.
//
// Both sides meet in pkg/job:
//
//	opts := worker.Options(cfg.Worker, worker.Deps{Records: repo, Blobs: blobs, Metrics: m, Logger: log})
//	manager, err := job.NewManager(pool, opts...)
//	svc := files.NewService(repo, blobs, files.WithThumbnailQueue(worker.NewThumbnailQueue(manager, cfg.Worker)))
package worker
