// Package catalog adapts the portal API client to the domain-facing
// interfaces used by the search and navigator services.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/honeycarbs/empleos/internal/domain"
	"github.com/honeycarbs/empleos/pkg/portalapi"
)

// Catalog wraps a portal API client and maps wire records to domain records.
type Catalog struct {
	client *portalapi.Client
}

// New builds a Catalog over the given client.
func New(client *portalapi.Client) (*Catalog, error) {
	if client == nil {
		return nil, fmt.Errorf("catalog: client is required")
	}
	return &Catalog{client: client}, nil
}

// ListJobs fetches the unfiltered result set for the query's server-relevant
// fields. The title term is filtered locally by the caller and is never
// forwarded here.
func (c *Catalog) ListJobs(ctx context.Context, q domain.ListQuery) (domain.ListResult, error) {
	res, err := c.client.ListJobs(ctx, portalapi.ListParams{
		Page:      q.Page,
		Limit:     q.PageSize,
		CompanyID: q.Filters.CompanyID,
		SalaryMin: q.Filters.SalaryMin,
		SalaryMax: q.Filters.SalaryMax,
		SortBy:    string(q.Filters.SortBy),
		Order:     string(q.Filters.Order),
	})
	if err != nil {
		return domain.ListResult{}, err
	}

	jobs := make([]domain.JobRecord, 0, len(res.Jobs))
	for _, j := range res.Jobs {
		jobs = append(jobs, mapJob(j))
	}
	return domain.ListResult{Jobs: jobs}, nil
}

// GetJob fetches a single job by ID.
func (c *Catalog) GetJob(ctx context.Context, id int64) (domain.JobRecord, error) {
	j, err := c.client.GetJob(ctx, id)
	if err != nil {
		return domain.JobRecord{}, err
	}
	return mapJob(j), nil
}

// GetCompany fetches a single company by ID, with its (possibly partial)
// job listing.
func (c *Catalog) GetCompany(ctx context.Context, id int64) (domain.CompanyRecord, error) {
	comp, err := c.client.GetCompany(ctx, id)
	if err != nil {
		return domain.CompanyRecord{}, err
	}

	jobs := make([]domain.JobRecord, 0, len(comp.Jobs))
	for _, j := range comp.Jobs {
		jobs = append(jobs, mapJob(j))
	}

	return domain.CompanyRecord{
		ID:        comp.ID,
		Name:      comp.Name,
		FoundedAt: parseTime(comp.FoundedAt),
		Rating:    comp.Rating,
		Jobs:      jobs,
	}, nil
}

func mapJob(j portalapi.Job) domain.JobRecord {
	return domain.JobRecord{
		ID:           j.ID,
		Title:        j.Title,
		CompanyID:    j.CompanyID,
		CompanyName:  j.CompanyName,
		Salary:       j.Salary,
		Location:     j.Location,
		Description:  j.Description,
		Requirements: j.Requirements,
		Benefits:     j.Benefits,
		ContractType: j.ContractType,
		Modality:     j.Modality,
		PublishedAt:  parseTime(j.PublishedAt),
	}
}

// parseTime accepts the catalog's timestamp format; unparseable values map
// to the zero time rather than failing the whole record.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts
	}
	if ts, err := time.Parse("2006-01-02", s); err == nil {
		return ts
	}
	return time.Time{}
}
