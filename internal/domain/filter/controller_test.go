package filter

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/empleos/internal/domain"
)

const (
	testDebounce = 60 * time.Millisecond
	testGrace    = 40 * time.Millisecond
	keyInterval  = 10 * time.Millisecond
)

type commitRecorder struct {
	mu      sync.Mutex
	commits []domain.FilterSpec
}

func (r *commitRecorder) record(spec domain.FilterSpec) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commits = append(r.commits, spec)
}

func (r *commitRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.commits)
}

func (r *commitRecorder) last() domain.FilterSpec {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.commits[len(r.commits)-1]
}

func newTestController(rec *commitRecorder) *Controller {
	return NewController(rec.record, WithDebounce(testDebounce), WithGrace(testGrace))
}

func TestDebounce_OnlyFinalValueCommitsOnce(t *testing.T) {
	rec := &commitRecorder{}
	c := newTestController(rec)
	defer c.Close()

	// Keystrokes inside the quiet window: e, en, eng, engineer.
	for _, v := range []string{"e", "en", "eng", "engineer"} {
		c.SetTitle(v)
		time.Sleep(keyInterval)
	}

	// Before the last keystroke's window elapses: no commit yet.
	assert.Equal(t, 0, rec.count())

	require.Eventually(t, func() bool { return rec.count() == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, "engineer", rec.last().Title)

	// Nothing further fires.
	time.Sleep(2 * testDebounce)
	assert.Equal(t, 1, rec.count())
}

func TestDebounce_SearchingLocallyLifecycle(t *testing.T) {
	rec := &commitRecorder{}
	c := newTestController(rec)
	defer c.Close()

	c.SetTitle("go")
	assert.True(t, c.IsSearchingLocally(), "flag asserts while the timer pends")

	require.Eventually(t, func() bool { return rec.count() == 1 }, time.Second, time.Millisecond)
	assert.True(t, c.IsSearchingLocally(), "flag persists through the grace period")

	require.Eventually(t, func() bool { return !c.IsSearchingLocally() }, time.Second, time.Millisecond)
}

func TestSearch_BypassesDebounce(t *testing.T) {
	rec := &commitRecorder{}
	c := newTestController(rec)
	defer c.Close()

	c.SetTitle("architect")
	c.SetSalaryMin(80000)
	c.Search()

	require.Equal(t, 1, rec.count())
	assert.Equal(t, "architect", rec.last().Title)
	assert.Equal(t, float64(80000), rec.last().SalaryMin)

	// The pending debounce commit was superseded; it must not double-fire.
	time.Sleep(2 * testDebounce)
	assert.Equal(t, 1, rec.count())
}

func TestSearch_ClearsSearchingFlagAfterGrace(t *testing.T) {
	rec := &commitRecorder{}
	c := newTestController(rec)
	defer c.Close()

	// A manual search supersedes the pending debounce; the flag it raised
	// must still clear once the grace period elapses.
	c.SetTitle("engineer")
	require.True(t, c.IsSearchingLocally())
	c.Search()

	require.Equal(t, 1, rec.count())
	require.Eventually(t, func() bool { return !c.IsSearchingLocally() }, time.Second, time.Millisecond)

	// A search with no pending title change leaves the flag down.
	c.Search()
	assert.False(t, c.IsSearchingLocally())
}

func TestNonTitleFieldsDoNotCommit(t *testing.T) {
	rec := &commitRecorder{}
	c := newTestController(rec)
	defer c.Close()

	c.SetCompanyID(7)
	c.SetSalaryMin(10000)
	c.SetSalaryMax(90000)
	c.SetSort(domain.SortBySalary, domain.SortAsc)

	time.Sleep(2 * testDebounce)
	assert.Equal(t, 0, rec.count(), "non-title fields wait for an explicit search")

	spec := c.Filters()
	assert.Equal(t, int64(7), spec.CompanyID)
	assert.Equal(t, domain.SortBySalary, spec.SortBy)
	assert.Equal(t, domain.SortAsc, spec.Order)
}

func TestClear_ResetsAndPropagatesImmediately(t *testing.T) {
	rec := &commitRecorder{}
	c := newTestController(rec)
	defer c.Close()

	c.SetTitle("engineer")
	c.SetSalaryMin(50000)
	c.Clear()

	require.Equal(t, 1, rec.count())
	assert.Equal(t, domain.DefaultFilters(), rec.last())
	assert.False(t, c.IsSearchingLocally())

	// The debounce pending from SetTitle must not fire after Clear.
	time.Sleep(2 * testDebounce)
	assert.Equal(t, 1, rec.count())
}

func TestCommitted_TracksDebouncedTitleOnly(t *testing.T) {
	rec := &commitRecorder{}
	c := newTestController(rec)
	defer c.Close()

	c.SetTitle("data")
	assert.Empty(t, c.Committed().Title, "typed but uncommitted")
	assert.Equal(t, "data", c.Filters().Title)

	require.Eventually(t, func() bool { return rec.count() == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, "data", c.Committed().Title)
}

func TestClose_StopsPendingCommits(t *testing.T) {
	rec := &commitRecorder{}
	c := newTestController(rec)

	c.SetTitle("engineer")
	c.Close()

	time.Sleep(2 * testDebounce)
	assert.Equal(t, 0, rec.count())
}
