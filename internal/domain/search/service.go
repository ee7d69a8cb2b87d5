// Package search is the central decision point of the portal: given a
// committed filter set it decides whether the remote catalog must be
// consulted or whether the cached snapshot can satisfy the request locally.
package search

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/honeycarbs/empleos/internal/domain"
	"github.com/honeycarbs/empleos/pkg/logging"
)

// ErrSuperseded is returned when a newer resolution was issued while this
// one was in flight; the caller should drop the result silently.
var ErrSuperseded = errors.New("search: resolution superseded by a newer request")

// Catalog is the slice of the remote catalog the resolver needs.
type Catalog interface {
	ListJobs(ctx context.Context, q domain.ListQuery) (domain.ListResult, error)
}

// Request is one resolution call: the committed filters (title included)
// plus the requested page window.
type Request struct {
	Filters  domain.FilterSpec
	Page     int
	PageSize int
}

// Result is the page-scoped outcome of a resolution.
type Result struct {
	Jobs       []domain.JobRecord
	Pagination domain.PaginationState
	FromCache  bool
}

// Option configures Service.
type Option func(*config)

type config struct {
	pageSize int
	log      *logging.Logger
}

// WithPageSize sets the default page size used when a request omits one.
func WithPageSize(size int) Option {
	return func(c *config) {
		c.pageSize = size
	}
}

// WithLogger sets the logger.
func WithLogger(log *logging.Logger) Option {
	return func(c *config) {
		c.log = log
	}
}

// Service owns the cache snapshot: the full unfiltered result set last
// fetched from the catalog together with the server-relevant key it was
// fetched under. The snapshot is replaced wholesale, never patched.
type Service struct {
	catalog  Catalog
	log      *logging.Logger
	pageSize int

	mu          sync.Mutex
	seq         uint64
	snapshot    []domain.JobRecord
	snapshotKey *domain.ServerKey
	filtered    []domain.JobRecord
	pagination  domain.PaginationState
}

// NewService builds a resolver over the given catalog.
func NewService(catalog Catalog, opts ...Option) (*Service, error) {
	if catalog == nil {
		return nil, fmt.Errorf("search.Service: catalog is required")
	}

	cfg := &config{
		pageSize: domain.DefaultPageSize,
		log:      logging.Nop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.pageSize <= 0 {
		cfg.pageSize = domain.DefaultPageSize
	}

	return &Service{
		catalog:  catalog,
		log:      cfg.log,
		pageSize: cfg.pageSize,
	}, nil
}

// Resolve satisfies one filter/page request. It issues at most one catalog
// call; a call is made only when the server-relevant filter fields differ
// from the snapshot's recorded key, or when no snapshot exists yet. The
// title term is always applied locally against the working set.
//
// Every call takes a monotonically increasing sequence number; if a newer
// call is issued while this one is waiting on the network, this one is
// discarded with ErrSuperseded and resolver state is left untouched.
func (s *Service) Resolve(ctx context.Context, req Request) (Result, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = s.pageSize
	}
	key := req.Filters.ServerKey()

	s.mu.Lock()
	s.seq++
	seq := s.seq
	needsServer := s.snapshotKey == nil || *s.snapshotKey != key
	snapshot := s.snapshot
	s.mu.Unlock()

	if !needsServer {
		s.log.Debug("resolving locally", "title", req.Filters.Title, "page", req.Page)
		s.mu.Lock()
		defer s.mu.Unlock()
		if seq != s.seq {
			return Result{}, ErrSuperseded
		}
		return s.applyLocked(snapshot, req, true), nil
	}

	s.log.Debug("consulting catalog", "page", req.Page, "limit", req.PageSize)

	query := domain.ListQuery{Filters: req.Filters, Page: req.Page, PageSize: req.PageSize}
	query.Filters.Title = "" // the catalog is never asked to filter by title
	res, err := s.catalog.ListJobs(ctx, query)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return Result{}, ErrSuperseded
	}
	if err != nil {
		// Stale-but-valid data beats a cleared screen: the snapshot and the
		// working set stay exactly as they were.
		return Result{}, fmt.Errorf("search: list fetch: %w", err)
	}

	s.snapshot = res.Jobs
	k := key
	s.snapshotKey = &k
	return s.applyLocked(res.Jobs, req, false), nil
}

// applyLocked filters the snapshot by title, recomputes pagination and
// stores the working set. Callers must hold s.mu.
func (s *Service) applyLocked(snapshot []domain.JobRecord, req Request, fromCache bool) Result {
	filtered := filterByTitle(snapshot, req.Filters.Title)
	s.filtered = filtered
	s.pagination = domain.NewPagination(len(filtered), req.Page, req.PageSize)

	return Result{
		Jobs:       domain.PageSlice(filtered, s.pagination.CurrentPage, req.PageSize),
		Pagination: s.pagination,
		FromCache:  fromCache,
	}
}

// NeedsFetch reports whether resolving the given filters would consult the
// catalog rather than serve from the snapshot. Callers use it to pick
// between the full loading state and the lightweight local-search one.
func (s *Service) NeedsFetch(filters domain.FilterSpec) bool {
	key := filters.ServerKey()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotKey == nil || *s.snapshotKey != key
}

// Current returns the last successfully resolved working set and its
// pagination.
func (s *Service) Current() ([]domain.JobRecord, domain.PaginationState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filtered, s.pagination
}

func filterByTitle(set []domain.JobRecord, term string) []domain.JobRecord {
	filtered := make([]domain.JobRecord, 0, len(set))
	for _, j := range set {
		if j.MatchesTitle(term) {
			filtered = append(filtered, j)
		}
	}
	return filtered
}
