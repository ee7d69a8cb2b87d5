// Package session composes the filter controller, the query resolver and
// the detail navigator into one portal session: the single entry point the
// presentation layer talks to.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/honeycarbs/empleos/internal/domain"
	"github.com/honeycarbs/empleos/internal/domain/filter"
	"github.com/honeycarbs/empleos/internal/domain/navigator"
	"github.com/honeycarbs/empleos/internal/domain/search"
	"github.com/honeycarbs/empleos/pkg/logging"
)

// Catalog is the full remote catalog surface the session wires into its
// services.
type Catalog interface {
	ListJobs(ctx context.Context, q domain.ListQuery) (domain.ListResult, error)
	GetJob(ctx context.Context, id int64) (domain.JobRecord, error)
	GetCompany(ctx context.Context, id int64) (domain.CompanyRecord, error)
}

// Option configures Session.
type Option func(*settings)

type settings struct {
	pageSize      int
	log           *logging.Logger
	filterOptions []filter.Option
}

// WithPageSize sets the session page size.
func WithPageSize(size int) Option {
	return func(s *settings) {
		s.pageSize = size
	}
}

// WithLogger sets the logger.
func WithLogger(log *logging.Logger) Option {
	return func(s *settings) {
		s.log = log
	}
}

// WithFilterOptions forwards options to the filter controller (used by
// tests to shrink the debounce window).
func WithFilterOptions(opts ...filter.Option) Option {
	return func(s *settings) {
		s.filterOptions = append(s.filterOptions, opts...)
	}
}

// Session holds the page-level view state: the current page of jobs, its
// pagination, the loading flag and the last list error.
type Session struct {
	log      *logging.Logger
	pageSize int

	filters  *filter.Controller
	resolver *search.Service
	nav      *navigator.Navigator

	mu      sync.Mutex
	ctx     context.Context
	jobs    []domain.JobRecord
	page    domain.PaginationState
	loading bool
	lastErr error
	lastReq search.Request
	logged  bool
}

// New builds a session over the given catalog.
func New(catalog Catalog, opts ...Option) (*Session, error) {
	if catalog == nil {
		return nil, fmt.Errorf("session: catalog is required")
	}

	cfg := &settings{
		pageSize: domain.DefaultPageSize,
		log:      logging.Nop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.pageSize <= 0 {
		cfg.pageSize = domain.DefaultPageSize
	}

	resolver, err := search.NewService(catalog,
		search.WithPageSize(cfg.pageSize),
		search.WithLogger(cfg.log.Named("search")),
	)
	if err != nil {
		return nil, err
	}

	s := &Session{
		log:      cfg.log,
		pageSize: cfg.pageSize,
		resolver: resolver,
		nav: navigator.New(catalog,
			navigator.WithLogger(cfg.log.Named("navigator")),
		),
		ctx: context.Background(),
	}

	filterOpts := append([]filter.Option{
		filter.WithLogger(cfg.log.Named("filter")),
	}, cfg.filterOptions...)
	s.filters = filter.NewController(s.onCommit, filterOpts...)

	return s, nil
}

// NewWithDeps creates a Session with direct dependencies (Wire-compatible).
func NewWithDeps(catalog Catalog, log *logging.Logger, pageSize int) (*Session, error) {
	return New(catalog, WithLogger(log), WithPageSize(pageSize))
}

// Start performs the unconditional initial resolution: page 1, default
// page size, default sort. The context also serves debounce-driven commits
// for the rest of the session.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()

	s.log.Info("loading initial jobs", "page", 1, "limit", s.pageSize)
	return s.resolve(ctx, search.Request{
		Filters:  domain.DefaultFilters(),
		Page:     1,
		PageSize: s.pageSize,
	})
}

// onCommit is invoked by the filter controller whenever a search term or a
// manual search commits.
func (s *Session) onCommit(spec domain.FilterSpec) {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()

	_ = s.resolve(ctx, search.Request{Filters: spec, Page: 1, PageSize: s.pageSize})
}

// resolve runs one resolution and applies its outcome to the page state.
// The full loading flag only asserts when the resolver will consult the
// catalog; cache-served resolutions are covered by the lightweight
// local-search affordance instead. Superseded resolutions are dropped
// silently.
func (s *Session) resolve(ctx context.Context, req search.Request) error {
	fetching := s.resolver.NeedsFetch(req.Filters)

	s.mu.Lock()
	s.loading = fetching
	s.lastReq = req
	s.mu.Unlock()

	res, err := s.resolver.Resolve(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if errors.Is(err, search.ErrSuperseded) {
		return nil
	}
	s.loading = false
	if err != nil {
		s.lastErr = err
		s.log.Error("resolution failed", "err", err)
		return err
	}
	s.lastErr = nil
	s.jobs = res.Jobs
	s.page = res.Pagination
	return nil
}

// SetTitle forwards a title keystroke; resolution follows the debounce.
func (s *Session) SetTitle(title string) { s.filters.SetTitle(title) }

// SetCompanyID updates the company constraint; zero clears it.
func (s *Session) SetCompanyID(id int64) { s.filters.SetCompanyID(id) }

// SetSalaryMin updates the lower salary bound; zero clears it.
func (s *Session) SetSalaryMin(min float64) { s.filters.SetSalaryMin(min) }

// SetSalaryMax updates the upper salary bound; zero clears it.
func (s *Session) SetSalaryMax(max float64) { s.filters.SetSalaryMax(max) }

// SetSort updates the sort key and direction.
func (s *Session) SetSort(key domain.SortKey, order domain.SortDirection) {
	s.filters.SetSort(key, order)
}

// Search commits the full filter state immediately.
func (s *Session) Search() { s.filters.Search() }

// Clear resets all filters and reloads.
func (s *Session) Clear() { s.filters.Clear() }

// IsSearchingLocally mirrors the controller's lightweight-search flag.
func (s *Session) IsSearchingLocally() bool { return s.filters.IsSearchingLocally() }

// PageChange requests another page of the current result set. It carries
// the committed filters unchanged; page changes never alter filters.
func (s *Session) PageChange(ctx context.Context, page int) error {
	return s.resolve(ctx, search.Request{
		Filters:  s.filters.Committed(),
		Page:     page,
		PageSize: s.pageSize,
	})
}

// Retry re-invokes the last resolution, clearing a page-level error on
// success.
func (s *Session) Retry(ctx context.Context) error {
	s.mu.Lock()
	req := s.lastReq
	s.mu.Unlock()
	if req.PageSize == 0 {
		req = search.Request{Filters: domain.DefaultFilters(), Page: 1, PageSize: s.pageSize}
	}
	return s.resolve(ctx, req)
}

// Jobs returns the current page of jobs.
func (s *Session) Jobs() []domain.JobRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs
}

// Pagination returns the current pagination state.
func (s *Session) Pagination() domain.PaginationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// Loading reports whether a resolution is in flight.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the page-level error from the last failed resolution.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// OpenJob opens the detail view for a job on the current page.
func (s *Session) OpenJob(id int64) error {
	s.mu.Lock()
	jobs := s.jobs
	s.mu.Unlock()

	for _, j := range jobs {
		if j.ID == id {
			s.nav.ActivateJob(j)
			return nil
		}
	}
	return fmt.Errorf("session: job %d is not on the current page", id)
}

// OpenCompany opens the company sub-view for the displayed job.
func (s *Session) OpenCompany(ctx context.Context) error {
	return s.nav.OpenCompany(ctx)
}

// SelectJobFromCompany hops from the open company's listing back to a job
// view, reconstructing the record through the fallback chain.
func (s *Session) SelectJobFromCompany(ctx context.Context, jobID int64) (domain.JobRecord, error) {
	company, ok := s.nav.Company()
	if !ok {
		return domain.JobRecord{}, fmt.Errorf("session: no company view is open")
	}
	for _, j := range company.Jobs {
		if j.ID == jobID {
			return s.nav.SelectJobFromCompany(ctx, j), nil
		}
	}
	return domain.JobRecord{}, fmt.Errorf("session: job %d is not in the company listing", jobID)
}

// CloseDetails closes all detail views.
func (s *Session) CloseDetails() { s.nav.CloseAll() }

// Navigator exposes the detail navigator for read access.
func (s *Session) Navigator() *navigator.Navigator { return s.nav }

// ToggleLogin flips the mock login flag. It gates nothing; it exists so
// the chrome can render a logged-in affordance.
func (s *Session) ToggleLogin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logged = !s.logged
	return s.logged
}

// LoggedIn reports the mock login flag.
func (s *Session) LoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logged
}

// Shutdown stops the session's timers. It never blocks on in-flight
// requests; those abort on their own timeouts.
func (s *Session) Shutdown(ctx context.Context) error {
	s.filters.Close()
	s.log.Info("session closed")
	return nil
}
