// internal/jobs/api.go
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	commonhttp "interview-portal/internal/common/http"
	"interview-portal/internal/common/observability"
	"interview-portal/internal/models"
)

// APIClient looks jobs up through the platform API.
type APIClient struct {
	client *commonhttp.Client
	path   string
	obs    *observability.Observability
}

func NewAPIClient(client *commonhttp.Client, path string, obs *observability.Observability) *APIClient {
	if path == "" {
		path = "/api/jobs"
	}
	return &APIClient{client: client, path: strings.TrimRight(path, "/"), obs: obs}
}

func (c *APIClient) GetByID(ctx context.Context, jobID string) (LookupResult, error) {
	if jobID == "" {
		return LookupResult{}, ErrJobIDRequired
	}

	env, _, err := c.client.DoJSON(ctx, commonhttp.Request{
		Method: http.MethodGet,
		Path:   c.path + "/" + url.PathEscape(jobID),
	})
	c.obs.RecordUpstreamCall(ctx, "get_job", err == nil)
	if err != nil {
		return LookupResult{}, fmt.Errorf("%w: %v", ErrJobLookupFailed, err)
	}
	if env.Error != "" {
		return LookupResult{Error: env.Error}, nil
	}
	if !env.HasData() {
		return LookupResult{Error: MessageJobNotFound}, nil
	}

	var job models.Job
	if err := json.Unmarshal(env.Data, &job); err != nil {
		return LookupResult{}, fmt.Errorf("%w: decode job: %v", ErrJobLookupFailed, err)
	}
	if job.Skills == nil {
		job.Skills = []string{}
	}
	return LookupResult{Data: &job}, nil
}
