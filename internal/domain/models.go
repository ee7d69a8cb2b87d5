package domain

import (
	"strings"
	"time"
)

// DefaultPageSize is the page size used when a request does not specify one.
const DefaultPageSize = 10

// FallbackCompanyName is displayed when no company name is known for a job.
// The remote catalog speaks Spanish, so the literal matches its locale.
const FallbackCompanyName = "Empresa no especificada"

// SortKey selects the field the remote catalog orders results by.
type SortKey string

const (
	SortByPublished SortKey = "fecha_publicacion"
	SortBySalary    SortKey = "salario"
	SortByTitle     SortKey = "titulo"
)

// SortDirection is the order of the sorted result set.
type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// JobRecord is a job posting as shown to the user. A record may be partial
// (missing optional fields) when it was synthesized from a company listing
// instead of a full fetch.
type JobRecord struct {
	ID           int64
	Title        string
	CompanyID    int64
	CompanyName  string
	Salary       *float64
	Location     string
	Description  string
	Requirements string
	Benefits     string
	ContractType string
	Modality     string
	PublishedAt  time.Time
}

// MatchesTitle reports whether the record's title contains the term,
// case-insensitively. An empty or whitespace-only term matches everything.
func (j JobRecord) MatchesTitle(term string) bool {
	term = strings.TrimSpace(term)
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(j.Title), strings.ToLower(term))
}

// CompanyRecord is a company together with its published jobs. The jobs in
// the listing may be partial records.
type CompanyRecord struct {
	ID        int64
	Name      string
	FoundedAt time.Time
	Rating    *float64
	Jobs      []JobRecord
}

// FilterSpec is the full set of user-controlled search filters. Numeric
// zero values mean "no constraint"; the catalog drops them from queries, so
// a true zero bound is not expressible.
type FilterSpec struct {
	Title     string
	CompanyID int64
	SalaryMin float64
	SalaryMax float64
	SortBy    SortKey
	Order     SortDirection
}

// DefaultFilters returns the initial filter state: no constraints, newest
// postings first.
func DefaultFilters() FilterSpec {
	return FilterSpec{
		SortBy: SortByPublished,
		Order:  SortDesc,
	}
}

// ServerKey is the server-relevant subset of a FilterSpec. Two specs with
// equal keys can be served from the same cached result set; the title term
// is always filtered locally and is deliberately absent.
type ServerKey struct {
	CompanyID int64
	SalaryMin float64
	SalaryMax float64
	SortBy    SortKey
	Order     SortDirection
}

// ServerKey extracts the server-relevant fields of the filter set.
func (f FilterSpec) ServerKey() ServerKey {
	return ServerKey{
		CompanyID: f.CompanyID,
		SalaryMin: f.SalaryMin,
		SalaryMax: f.SalaryMax,
		SortBy:    f.SortBy,
		Order:     f.Order,
	}
}

// ListQuery is a catalog list request: filters plus the requested window.
type ListQuery struct {
	Filters  FilterSpec
	Page     int
	PageSize int
}

// ListResult is the unfiltered result set returned by the catalog for a
// ListQuery.
type ListResult struct {
	Jobs []JobRecord
}

// PaginationState describes the current page window over a filtered result
// set. It is always derived from the set's length, never set directly.
type PaginationState struct {
	Total       int
	TotalPages  int
	CurrentPage int
	PageSize    int
}

// NewPagination derives pagination for a filtered set of total records.
// TotalPages is zero only for an empty set, and CurrentPage is clamped into
// [1, max(1, TotalPages)].
func NewPagination(total, page, pageSize int) PaginationState {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	totalPages := 0
	if total > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}
	if totalPages == 0 {
		page = 1
	}
	return PaginationState{
		Total:       total,
		TotalPages:  totalPages,
		CurrentPage: page,
		PageSize:    pageSize,
	}
}

// PageSlice returns the records of the given 1-based page, clamped to the
// set's bounds. A page past the end yields an empty slice.
func PageSlice(set []JobRecord, page, pageSize int) []JobRecord {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(set) {
		return nil
	}
	end := start + pageSize
	if end > len(set) {
		end = len(set)
	}
	return set[start:end]
}
