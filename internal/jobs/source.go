package jobs

import (
	"context"
	"fmt"

	commonhttp "careers-api/internal/common/http"
)

// Source returns the full set of published jobs.
type Source interface {
	Name() string
	ListJobs(ctx context.Context) ([]Job, error)
}

// APISource reads the listing feed over HTTP.
type APISource struct {
	client *commonhttp.Client
	url    string
}

func NewAPISource(client *commonhttp.Client, url string) *APISource {
	return &APISource{client: client, url: url}
}

func (s *APISource) Name() string {
	return "api"
}

func (s *APISource) ListJobs(ctx context.Context) ([]Job, error) {
	var resp ListingsResponse
	if err := s.client.GetJSON(ctx, s.url, &resp); err != nil {
		return nil, fmt.Errorf("fetch job listings: %w", err)
	}
	return resp.JobListings, nil
}
