package portalapi

import (
	"net/http"
	"time"

	"github.com/honeycarbs/empleos/pkg/logging"
)

const (
	defaultListTimeout   = 10 * time.Second
	defaultEntityTimeout = 8 * time.Second
	defaultMaxRetries    = 2
	defaultRetryBackoff  = time.Second
)

// Config defines portal API client settings.
type Config struct {
	// BaseURL is the catalog root, e.g. "http://localhost:5000/api". Required.
	BaseURL string

	HTTPClient *http.Client
	Logger     *logging.Logger

	// ListTimeout bounds a single /jobs list attempt (default 10s).
	ListTimeout time.Duration
	// EntityTimeout bounds a single-entity attempt (default 8s).
	EntityTimeout time.Duration

	// MaxRetries is the number of retries after the first attempt
	// (default 2, i.e. 3 attempts total). Negative disables retries.
	MaxRetries int
	// RetryBackoff is the linear backoff unit between attempts: the n-th
	// retry waits n*RetryBackoff (default 1s).
	RetryBackoff time.Duration
}

// Client queries the remote job catalog.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	log           *logging.Logger
	listTimeout   time.Duration
	entityTimeout time.Duration
	maxRetries    int
	retryBackoff  time.Duration
}

// ListParams describe a /jobs list request. Zero-valued fields are dropped
// from the query string, so a numeric 0 is indistinguishable from "unset".
type ListParams struct {
	Page      int
	Limit     int
	Title     string
	CompanyID int64
	SalaryMin float64
	SalaryMax float64
	SortBy    string // fecha_publicacion | salario | titulo
	Order     string // ASC | DESC
}

// Job mirrors a catalog job posting. Optional text fields decode to empty
// strings when the catalog sends null.
type Job struct {
	ID           int64    `json:"id"`
	Title        string   `json:"titulo"`
	CompanyID    int64    `json:"empresa_id"`
	CompanyName  string   `json:"nombre_empresa"`
	Salary       *float64 `json:"salario"`
	Location     string   `json:"ubicacion"`
	Description  string   `json:"descripcion"`
	Requirements string   `json:"requisitos"`
	Benefits     string   `json:"beneficios"`
	ContractType string   `json:"tipo_contrato"`
	Modality     string   `json:"modalidad"`
	PublishedAt  string   `json:"fecha_publicacion"`
}

// Company mirrors a catalog company, including its job listing.
type Company struct {
	ID        int64    `json:"id"`
	Name      string   `json:"nombre"`
	FoundedAt string   `json:"fecha_creacion"`
	Rating    *float64 `json:"calificacion"`
	Jobs      []Job    `json:"empleos"`
}

// Pagination is the list metadata reported by the catalog.
type Pagination struct {
	Total       int `json:"total"`
	TotalPages  int `json:"totalPages"`
	CurrentPage int `json:"currentPage"`
	Limit       int `json:"limit"`
}

// ListResult is the /jobs response envelope.
type ListResult struct {
	Jobs       []Job      `json:"empleos"`
	Pagination Pagination `json:"pagination"`
}
