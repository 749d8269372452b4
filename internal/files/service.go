package files

import (
	"log/slog"
	"slices"

	"github.com/dmitrymomot/filevault/internal/metrics"
	"github.com/dmitrymomot/filevault/pkg/logger"
	"github.com/dmitrymomot/filevault/pkg/storage"
)

// DefaultWidths are the thumbnail widths generated for images.
var DefaultWidths = []int{500, 250, 100}

// Option configures a Service.
type Option func(*Service)

// WithThumbnailQueue enables thumbnail jobs for new images.
func WithThumbnailQueue(q ThumbnailQueue) Option {
	return func(s *Service) {
		s.queue = q
	}
}

// WithWidths sets the thumbnail widths accepted by Content.
func WithWidths(widths ...int) Option {
	return func(s *Service) {
		if len(widths) > 0 {
			s.widths = slices.Clone(widths)
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics sets the business counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// Service implements the file lifecycle: ingestion, listing, publication
// and content retrieval.
type Service struct {
	repo    Repository
	blobs   storage.Storage
	queue   ThumbnailQueue
	logger  *slog.Logger
	metrics *metrics.Metrics
	widths  []int
}

// NewService creates a Service over the metadata repository and blob storage.
func NewService(repo Repository, blobs storage.Storage, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		blobs:  blobs,
		logger: logger.NewNope(),
		widths: slices.Clone(DefaultWidths),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Widths returns the configured thumbnail widths.
func (s *Service) Widths() []int {
	return slices.Clone(s.widths)
}
