package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination_Derivation(t *testing.T) {
	cases := []struct {
		name      string
		total     int
		page      int
		pageSize  int
		wantPages int
		wantPage  int
	}{
		{name: "empty set", total: 0, page: 1, pageSize: 10, wantPages: 0, wantPage: 1},
		{name: "exact multiple", total: 20, page: 1, pageSize: 10, wantPages: 2, wantPage: 1},
		{name: "partial last page", total: 21, page: 3, pageSize: 10, wantPages: 3, wantPage: 3},
		{name: "single record", total: 1, page: 1, pageSize: 10, wantPages: 1, wantPage: 1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := NewPagination(c.total, c.page, c.pageSize)
			assert.Equal(t, c.wantPages, p.TotalPages)
			assert.Equal(t, c.wantPage, p.CurrentPage)
			assert.Equal(t, c.total, p.Total)
		})
	}
}

func TestNewPagination_ClampsPageIntoRange(t *testing.T) {
	p := NewPagination(25, 9, 10)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 3, p.CurrentPage)

	p = NewPagination(25, 0, 10)
	assert.Equal(t, 1, p.CurrentPage)

	p = NewPagination(25, -4, 10)
	assert.Equal(t, 1, p.CurrentPage)
}

func TestNewPagination_DefaultsPageSize(t *testing.T) {
	p := NewPagination(15, 1, 0)
	assert.Equal(t, DefaultPageSize, p.PageSize)
	assert.Equal(t, 2, p.TotalPages)
}

func TestPageSlice(t *testing.T) {
	set := make([]JobRecord, 25)
	for i := range set {
		set[i].ID = int64(i + 1)
	}

	first := PageSlice(set, 1, 10)
	assert.Len(t, first, 10)
	assert.Equal(t, int64(1), first[0].ID)

	last := PageSlice(set, 3, 10)
	assert.Len(t, last, 5)
	assert.Equal(t, int64(21), last[0].ID)

	assert.Empty(t, PageSlice(set, 4, 10))
	assert.Empty(t, PageSlice(nil, 1, 10))
}

func TestMatchesTitle(t *testing.T) {
	job := JobRecord{Title: "Senior Software Engineer"}

	assert.True(t, job.MatchesTitle("engineer"))
	assert.True(t, job.MatchesTitle("ENGINEER"))
	assert.True(t, job.MatchesTitle("  software  "))
	assert.True(t, job.MatchesTitle(""))
	assert.True(t, job.MatchesTitle("   "))
	assert.False(t, job.MatchesTitle("designer"))
}

func TestServerKey_IgnoresTitle(t *testing.T) {
	a := DefaultFilters()
	b := DefaultFilters()
	b.Title = "backend"

	assert.Equal(t, a.ServerKey(), b.ServerKey())

	b.SalaryMin = 50000
	assert.NotEqual(t, a.ServerKey(), b.ServerKey())
}
