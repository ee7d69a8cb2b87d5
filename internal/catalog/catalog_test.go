package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/empleos/internal/domain"
	"github.com/honeycarbs/empleos/pkg/portalapi"
)

func newCatalog(t *testing.T, handler http.HandlerFunc) *Catalog {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := portalapi.NewClient(portalapi.Config{
		BaseURL:      srv.URL,
		RetryBackoff: time.Millisecond,
	})
	require.NoError(t, err)

	cat, err := New(client)
	require.NoError(t, err)
	return cat
}

func TestNew_RequiresClient(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
}

func TestListJobs_NeverForwardsTitle(t *testing.T) {
	var gotQuery url.Values
	cat := newCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"empleos":[],"pagination":{"total":0}}`))
	})

	filters := domain.DefaultFilters()
	filters.Title = "engineer"
	filters.SalaryMin = 30000

	_, err := cat.ListJobs(context.Background(), domain.ListQuery{Filters: filters, Page: 1, PageSize: 10})
	require.NoError(t, err)

	assert.False(t, gotQuery.Has("titulo"), "title term is resolved locally, never sent")
	assert.Equal(t, "30000", gotQuery.Get("salario_min"))
	assert.Equal(t, "fecha_publicacion", gotQuery.Get("ordenar_por"))
	assert.Equal(t, "DESC", gotQuery.Get("orden"))
}

func TestGetJob_MapsWireRecord(t *testing.T) {
	cat := newCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/jobs/12", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"id": 12,
			"titulo": "QA Analyst",
			"empresa_id": 4,
			"nombre_empresa": "Globex",
			"salario": 42000,
			"ubicacion": "Bogotá",
			"tipo_contrato": "Indefinido",
			"modalidad": "Remoto",
			"fecha_publicacion": "2025-08-20T12:00:00Z"
		}`))
	})

	job, err := cat.GetJob(context.Background(), 12)
	require.NoError(t, err)
	assert.Equal(t, int64(12), job.ID)
	assert.Equal(t, "QA Analyst", job.Title)
	assert.Equal(t, "Globex", job.CompanyName)
	require.NotNil(t, job.Salary)
	assert.InDelta(t, 42000, *job.Salary, 0.001)
	assert.Equal(t, time.Date(2025, 8, 20, 12, 0, 0, 0, time.UTC), job.PublishedAt)
}

func TestGetJob_ToleratesMissingOptionalFields(t *testing.T) {
	cat := newCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":9,"titulo":"Intern","salario":null,"fecha_publicacion":"not-a-date"}`))
	})

	job, err := cat.GetJob(context.Background(), 9)
	require.NoError(t, err)
	assert.Nil(t, job.Salary)
	assert.True(t, job.PublishedAt.IsZero())
	assert.Empty(t, job.Requirements)
}

func TestGetCompany_MapsListing(t *testing.T) {
	cat := newCatalog(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"id": 4,
			"nombre": "Globex",
			"fecha_creacion": "1998-03-01",
			"calificacion": 4.1,
			"empleos": [{"id": 12, "titulo": "QA Analyst", "empresa_id": 4}]
		}`))
	})

	company, err := cat.GetCompany(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, "Globex", company.Name)
	assert.Equal(t, 1998, company.FoundedAt.Year())
	require.Len(t, company.Jobs, 1)
	assert.Equal(t, int64(12), company.Jobs[0].ID)
}
