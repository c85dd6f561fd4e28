package bears

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/olgasafonova/bears-api/internal/ursids"
	"github.com/olgasafonova/bears-api/internal/wikipedia"
	"github.com/olgasafonova/bears-api/metrics"
	"github.com/olgasafonova/bears-api/tracing"
	"go.opentelemetry.io/otel/attribute"
)

// ContentSource provides article wikitext and image URLs.
// *wikipedia.Client satisfies it.
type ContentSource interface {
	FetchWikitext(ctx context.Context, page string, section int) string
	ResolveImageURL(ctx context.Context, filename string) string
}

// Service builds bear listings from a ContentSource
type Service struct {
	source  ContentSource
	logger  *slog.Logger
	page    string
	section int
}

// Option configures the Service
type Option func(*Service)

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithPage overrides the article and section the species tables are read from
func WithPage(page string, section int) Option {
	return func(s *Service) {
		s.page = page
		s.section = section
	}
}

// NewService creates a Service reading the ursids article from source
func NewService(source ContentSource, opts ...Option) *Service {
	s := &Service{
		source:  source,
		logger:  slog.Default(),
		page:    wikipedia.UrsidsPage,
		section: wikipedia.UrsidsSection,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListBears fetches the species tables and returns one Bear per complete row,
// in article order. An unreachable or malformed article yields an empty list.
// Images are resolved one at a time; the only error is a canceled context.
func (s *Service) ListBears(ctx context.Context) ([]Bear, error) {
	ctx, span := tracing.StartSpan(ctx, "bears.list")
	defer span.End()

	wikitext := s.source.FetchWikitext(ctx, s.page, s.section)
	extracted := ursids.Extract(wikitext)
	metrics.RecordExtraction(len(extracted.Species), extracted.Skipped)

	if extracted.Skipped > 0 {
		s.logger.Debug("Skipped incomplete species rows", "skipped", extracted.Skipped)
	}

	bears := make([]Bear, 0, len(extracted.Species))
	for _, sp := range extracted.Species {
		if err := ctx.Err(); err != nil {
			err = fmt.Errorf("listing interrupted after %d of %d species: %w", len(bears), len(extracted.Species), err)
			tracing.RecordError(span, err)
			return nil, err
		}
		bears = append(bears, Bear{
			Name:     sp.Name,
			Binomial: sp.Binomial,
			Image:    s.source.ResolveImageURL(ctx, sp.ImageFile),
			Range:    sp.Range,
		})
	}

	span.SetAttributes(
		attribute.Int("bears.records", len(bears)),
		attribute.Int("bears.rows_skipped", extracted.Skipped),
	)
	s.logger.Info("Listed bears", "records", len(bears), "skipped", extracted.Skipped)
	return bears, nil
}

// ListBearsMCP is the MCP wrapper for ListBears
func (s *Service) ListBearsMCP(ctx context.Context, _ ListBearsArgs) (ListBearsResult, error) {
	bears, err := s.ListBears(ctx)
	if err != nil {
		return ListBearsResult{}, err
	}
	return ListBearsResult{Bears: bears, Count: len(bears)}, nil
}
