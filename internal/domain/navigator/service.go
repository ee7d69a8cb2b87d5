// Package navigator orchestrates the job and company detail views: an
// explicit state machine covering the job modal, the company sub-view and
// the hop back from a company's listing to a (possibly partial) job.
package navigator

import (
	"context"
	"errors"
	"sync"

	"github.com/honeycarbs/empleos/internal/domain"
	"github.com/honeycarbs/empleos/pkg/logging"
)

// ErrNoCompany is the local precondition failure for opening the company
// view of a job that carries no company identifier. It never reaches the
// network.
var ErrNoCompany = errors.New("navigator: job has no company identifier")

// ErrCompanyOpen is returned when the company sub-view is already showing;
// the transition only exists from the plain job view.
var ErrCompanyOpen = errors.New("navigator: company view is already open")

// State is the navigator's current view.
type State int

const (
	StateClosed State = iota
	StateViewingJob
	StateViewingJobAndCompany
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateViewingJob:
		return "viewing-job"
	case StateViewingJobAndCompany:
		return "viewing-job-and-company"
	default:
		return "unknown"
	}
}

// Catalog is the slice of the remote catalog the navigator needs.
type Catalog interface {
	ListJobs(ctx context.Context, q domain.ListQuery) (domain.ListResult, error)
	GetJob(ctx context.Context, id int64) (domain.JobRecord, error)
	GetCompany(ctx context.Context, id int64) (domain.CompanyRecord, error)
}

// fallbackListLimit is the window scanned when the direct job fetch fails.
const fallbackListLimit = 100

// Option configures Navigator.
type Option func(*Navigator)

// WithLogger sets the logger.
func WithLogger(log *logging.Logger) Option {
	return func(n *Navigator) {
		n.log = log
	}
}

// Navigator owns the navigation context: the displayed job record and the
// company sub-view. The context is replaced wholesale on every transition.
type Navigator struct {
	catalog Catalog
	log     *logging.Logger

	mu         sync.Mutex
	state      State
	job        *domain.JobRecord
	company    *domain.CompanyRecord
	companyErr error
}

// New builds a closed navigator over the given catalog.
func New(catalog Catalog, opts ...Option) *Navigator {
	n := &Navigator{
		catalog: catalog,
		log:     logging.Nop(),
		state:   StateClosed,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// State returns the current view state.
func (n *Navigator) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// Job returns the displayed job record, if any.
func (n *Navigator) Job() (domain.JobRecord, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.job == nil {
		return domain.JobRecord{}, false
	}
	return *n.job, true
}

// Company returns the loaded company record, if any.
func (n *Navigator) Company() (domain.CompanyRecord, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.company == nil {
		return domain.CompanyRecord{}, false
	}
	return *n.company, true
}

// CompanyErr returns the error of the last company fetch, if it failed.
func (n *Navigator) CompanyErr() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.companyErr
}

// ActivateJob opens the job detail view. The displayed record always
// carries a company name: the record's own, the surrounding context's, or
// the locale fallback.
func (n *Navigator) ActivateJob(job domain.JobRecord) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.activateLocked(job)
}

func (n *Navigator) activateLocked(job domain.JobRecord) {
	if job.CompanyName == "" {
		job.CompanyName = n.inheritedCompanyNameLocked()
	}
	n.job = &job
	n.company = nil
	n.companyErr = nil
	n.state = StateViewingJob
	n.log.Debug("job view opened", "job_id", job.ID, "title", job.Title)
}

// inheritedCompanyNameLocked resolves a display name from the surrounding
// context; never empty.
func (n *Navigator) inheritedCompanyNameLocked() string {
	if n.company != nil && n.company.Name != "" {
		return n.company.Name
	}
	if n.job != nil && n.job.CompanyName != "" {
		return n.job.CompanyName
	}
	return domain.FallbackCompanyName
}

// OpenCompany opens the company sub-view for the displayed job and fetches
// the company. The transition only exists from the plain job view; a job
// without a company identifier fails locally with ErrNoCompany and the view
// does not open.
func (n *Navigator) OpenCompany(ctx context.Context) error {
	n.mu.Lock()
	if n.job == nil {
		n.mu.Unlock()
		return ErrNoCompany
	}
	if n.state != StateViewingJob {
		n.mu.Unlock()
		return ErrCompanyOpen
	}
	companyID := n.job.CompanyID
	if companyID == 0 {
		n.mu.Unlock()
		n.log.Warn("company view rejected: job has no company id")
		return ErrNoCompany
	}
	n.state = StateViewingJobAndCompany
	n.company = nil
	n.companyErr = nil
	n.mu.Unlock()

	company, err := n.catalog.GetCompany(ctx, companyID)

	n.mu.Lock()
	defer n.mu.Unlock()
	// The view may have been closed or replaced while fetching.
	if n.state != StateViewingJobAndCompany || n.job == nil || n.job.CompanyID != companyID {
		return nil
	}
	if err != nil {
		n.companyErr = err
		n.log.Warn("company fetch failed", "company_id", companyID, "err", err)
		return err
	}
	n.company = &company
	return nil
}

// SelectJobFromCompany reconstructs a complete job record for a (possibly
// partial) job picked from the open company's listing, then reopens the job
// view with it. The company sub-view is closed before the new job view
// opens. The fallback chain never surfaces a network error: direct fetch,
// then a bulk-list scan, then local synthesis from the partial record.
func (n *Navigator) SelectJobFromCompany(ctx context.Context, partial domain.JobRecord) domain.JobRecord {
	n.mu.Lock()
	companyName := n.inheritedCompanyNameLocked()
	n.mu.Unlock()

	complete := n.resolveCompleteJob(ctx, partial, companyName)

	n.mu.Lock()
	defer n.mu.Unlock()
	// Ordering contract: the company sub-view closes first, then the new
	// job view opens.
	n.company = nil
	n.companyErr = nil
	n.state = StateViewingJob
	n.log.Debug("company view closed", "job_id", partial.ID)
	n.activateLocked(complete)

	return complete
}

func (n *Navigator) resolveCompleteJob(ctx context.Context, partial domain.JobRecord, companyName string) domain.JobRecord {
	full, err := n.catalog.GetJob(ctx, partial.ID)
	if err == nil {
		if full.CompanyName == "" {
			full.CompanyName = companyName
		}
		return full
	}
	n.log.Debug("direct job fetch failed, scanning list", "job_id", partial.ID, "err", err)

	res, err := n.catalog.ListJobs(ctx, domain.ListQuery{Page: 1, PageSize: fallbackListLimit})
	if err == nil {
		for _, j := range res.Jobs {
			if j.ID == partial.ID {
				if j.CompanyName == "" {
					j.CompanyName = companyName
				}
				return j
			}
		}
	} else {
		n.log.Debug("list scan failed, synthesizing record", "job_id", partial.ID, "err", err)
	}

	// Terminal fallback: the partial record merged with the company name.
	// Absent optional fields stay absent; this step cannot fail.
	synthesized := partial
	synthesized.CompanyName = companyName
	return synthesized
}

// CloseAll closes every view and clears the navigation context.
func (n *Navigator) CloseAll() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.job = nil
	n.company = nil
	n.companyErr = nil
	n.state = StateClosed
	n.log.Debug("detail views closed")
}
