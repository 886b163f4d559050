package jobs

import (
	"context"
	"time"

	apperrors "careers-api/internal/common/errors"
	"careers-api/internal/common/logger"
	"careers-api/internal/common/metrics"
)

type Service struct {
	source Source
	logger logger.Logger
}

func NewService(source Source, log logger.Logger) *Service {
	return &Service{
		source: source,
		logger: log.WithFields(map[string]interface{}{"component": "jobs"}),
	}
}

// List returns every job with its slug.
func (s *Service) List(ctx context.Context) ([]Listing, error) {
	jobs, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Listing, 0, len(jobs))
	for _, job := range jobs {
		out = append(out, Listing{Job: job, Slug: Slug(job.Title)})
	}
	return out, nil
}

// FindBySlug returns the first job whose title slug equals slug.
func (s *Service) FindBySlug(ctx context.Context, slug string) (*Detail, error) {
	jobs, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	for _, job := range jobs {
		if Slug(job.Title) == slug {
			return NewDetail(job), nil
		}
	}

	s.logger.Info("job not found", map[string]interface{}{
		"slug":      slug,
		"available": len(jobs),
	})
	return nil, apperrors.NewJobNotFoundError(slug)
}

func (s *Service) fetch(ctx context.Context) ([]Job, error) {
	start := time.Now()
	jobs, err := s.source.ListJobs(ctx)
	if err != nil {
		metrics.JobSourceRequests.WithLabelValues(s.source.Name(), "error").Inc()
		s.logger.Error("failed to fetch job listings", map[string]interface{}{
			"source": s.source.Name(),
			"error":  err.Error(),
		})
		return nil, apperrors.NewJobSourceFailedError(err)
	}

	metrics.JobSourceRequests.WithLabelValues(s.source.Name(), "success").Inc()
	s.logger.Debug("fetched job listings", map[string]interface{}{
		"source":   s.source.Name(),
		"count":    len(jobs),
		"duration": time.Since(start).Milliseconds(),
	})
	return jobs, nil
}
