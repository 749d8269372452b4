package worker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"slices"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/filevault/internal/files"
	"github.com/dmitrymomot/filevault/internal/metrics"
	"github.com/dmitrymomot/filevault/pkg/job"
	"github.com/dmitrymomot/filevault/pkg/logger"
	"github.com/dmitrymomot/filevault/pkg/storage"
)

// ThumbnailTaskName identifies the thumbnail task in the job queue.
const ThumbnailTaskName = "generate_thumbnails"

const jpegQuality = 85

// DefaultMaxPixels bounds width*height of a source image (50 megapixels).
const DefaultMaxPixels = 50_000_000

// RecordFinder is the part of files.Repository the worker reads.
type RecordFinder interface {
	FindByID(ctx context.Context, id string) (files.Record, error)
}

// ThumbnailOption configures a ThumbnailTask.
type ThumbnailOption func(*ThumbnailTask)

// WithWidths overrides files.DefaultWidths.
func WithWidths(widths ...int) ThumbnailOption {
	return func(t *ThumbnailTask) {
		if len(widths) > 0 {
			t.widths = slices.Clone(widths)
		}
	}
}

// WithLogger sets the task logger.
func WithLogger(l *slog.Logger) ThumbnailOption {
	return func(t *ThumbnailTask) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithMetrics counts generated variants.
func WithMetrics(m *metrics.Metrics) ThumbnailOption {
	return func(t *ThumbnailTask) {
		t.metrics = m
	}
}

// WithMaxPixels overrides DefaultMaxPixels. Larger sources are cancelled
// before they are decoded.
func WithMaxPixels(n int) ThumbnailOption {
	return func(t *ThumbnailTask) {
		if n > 0 {
			t.maxPixels = n
		}
	}
}

// ThumbnailTask renders one resized variant per configured width and
// stores it next to the original blob.
type ThumbnailTask struct {
	records RecordFinder
	blobs   storage.Storage
	logger  *slog.Logger
	metrics   *metrics.Metrics
	widths    []int
	maxPixels int
}

// NewThumbnailTask returns a task reading records from records and blobs from blobs.
func NewThumbnailTask(records RecordFinder, blobs storage.Storage, opts ...ThumbnailOption) *ThumbnailTask {
	t := &ThumbnailTask{
		records:   records,
		blobs:     blobs,
		logger:    logger.NewNope(),
		widths:    slices.Clone(files.DefaultWidths),
		maxPixels: DefaultMaxPixels,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *ThumbnailTask) Name() string { return ThumbnailTaskName }

// Handle generates all variants for p.FileID. Records that disappeared or
// are not images, originals missing from storage and sources above the
// pixel limit cancel the job.
// Every variant is rewritten on each run, so redelivery is harmless.
func (t *ThumbnailTask) Handle(ctx context.Context, p files.ThumbnailJob) error {
	if p.FileID == "" {
		return job.Cancel(ErrMissingFileID)
	}

	rec, err := t.records.FindByID(ctx, p.FileID)
	switch {
	case errors.Is(err, files.ErrNotFound):
		return job.Cancel(err)
	case err != nil:
		return err
	case rec.Kind != files.KindImage || rec.BlobPath == "":
		return job.Cancel(fmt.Errorf("%w: %s is a %s", ErrNotImage, rec.ID, rec.Kind))
	}

	src, err := t.load(ctx, rec.BlobPath)
	if err != nil {
		return err
	}

	contentType := files.VariantContentType(storage.ContentTypeFromName(rec.Name))
	g, gctx := errgroup.WithContext(ctx)
	for _, width := range t.widths {
		g.Go(func() error {
			return t.store(gctx, rec.BlobPath, width, contentType, src)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	t.logger.InfoContext(ctx, "thumbnails generated",
		slog.String("file_id", rec.ID),
		slog.Any("widths", t.widths),
	)
	return nil
}

func (t *ThumbnailTask) load(ctx context.Context, key string) (image.Image, error) {
	r, err := t.blobs.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, job.Cancel(err)
	}
	if err != nil {
		return nil, err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Join(ErrDecode, err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > int64(t.maxPixels) {
		return nil, job.Cancel(fmt.Errorf("%w: %dx%d", ErrTooLarge, cfg.Width, cfg.Height))
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Join(ErrDecode, err)
	}
	return img, nil
}

func (t *ThumbnailTask) store(ctx context.Context, blobPath string, width int, contentType string, src image.Image) error {
	var buf bytes.Buffer
	if err := encode(&buf, Resize(src, width), contentType); err != nil {
		return errors.Join(ErrEncode, err)
	}

	key := files.VariantPath(blobPath, width)
	if _, err := t.blobs.Put(ctx, &buf, int64(buf.Len()),
		storage.WithKey(key),
		storage.WithContentType(contentType),
	); err != nil {
		return fmt.Errorf("worker: store %s: %w", key, err)
	}

	t.metrics.VariantGenerated(width)
	return nil
}

// Resize scales src to width pixels, keeping the aspect ratio.
// The height is never below one pixel.
func Resize(src image.Image, width int) image.Image {
	b := src.Bounds()
	height := 1
	if b.Dx() > 0 {
		height = max(1, (b.Dy()*width+b.Dx()/2)/b.Dx())
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

func encode(w io.Writer, img image.Image, contentType string) error {
	if contentType == "image/jpeg" {
		return jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality})
	}
	return png.Encode(w, img)
}
