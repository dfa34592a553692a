package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"corrplot/domain/core"
	"corrplot/domain/dataset"
	"corrplot/internal/analysis"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestStore(ttl time.Duration) (*Store, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	s := NewStore(ttl)
	s.now = clock.Now
	return s, clock
}

func testDataset(t *testing.T, name string) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New(name, dataset.FormatCSV, core.NewHash([]byte(name)), []*dataset.Column{
		{Name: "x", Kind: dataset.KindNumeric, Raw: []string{"1", "2", "3"}, Values: []float64{1, 2, 3}},
		{Name: "y", Kind: dataset.KindNumeric, Raw: []string{"2", "4", "7"}, Values: []float64{2, 4, 7}},
	})
	require.NoError(t, err)
	return ds
}

func testResult(t *testing.T, ds *dataset.Dataset) *analysis.Summary {
	t.Helper()
	summary, err := analysis.NewSummarizer().Summarize(context.Background(), ds, dataset.Selection{X: "x", Y: "y"})
	require.NoError(t, err)
	return summary
}

func TestTouchCreatesAndReuses(t *testing.T) {
	s, _ := newTestStore(time.Minute)

	st := s.Touch("")
	require.NotNil(t, st)
	assert.False(t, st.ID.String() == "")
	assert.False(t, st.HasDataset())
	assert.Equal(t, 1, s.Len())

	again := s.Touch(st.ID)
	assert.Equal(t, st.ID, again.ID)
	assert.Equal(t, 1, s.Len())

	other := s.Touch("not-a-session")
	assert.NotEqual(t, st.ID, other.ID)
	assert.Equal(t, 2, s.Len())
}

func TestDatasetAndResultLifecycle(t *testing.T) {
	s, _ := newTestStore(time.Minute)
	id := s.Touch("").ID

	first := testDataset(t, "first.csv")
	require.NoError(t, s.SetDataset(id, first))
	result := testResult(t, first)
	require.NoError(t, s.SetResult(id, first, result))

	st, err := s.Get(id)
	require.NoError(t, err)
	assert.Same(t, first, st.Dataset)
	assert.Same(t, result, st.Result)

	// a new upload drops the old result
	second := testDataset(t, "second.csv")
	require.NoError(t, s.SetDataset(id, second))
	st, err = s.Get(id)
	require.NoError(t, err)
	assert.Same(t, second, st.Dataset)
	assert.Nil(t, st.Result)

	// a result computed against the replaced dataset is refused
	err = s.SetResult(id, first, result)
	assert.True(t, errors.Is(err, core.ErrNoDataset))
	st, _ = s.Get(id)
	assert.Nil(t, st.Result)

	require.NoError(t, s.ClearDataset(id))
	st, _ = s.Get(id)
	assert.False(t, st.HasDataset())
	assert.Nil(t, st.Result)
}

func TestSnapshotsAreNotMutated(t *testing.T) {
	s, _ := newTestStore(time.Minute)
	id := s.Touch("").ID

	before, err := s.Get(id)
	require.NoError(t, err)
	require.NoError(t, s.SetDataset(id, testDataset(t, "a.csv")))

	assert.Nil(t, before.Dataset)
}

func TestUnknownSession(t *testing.T) {
	s, _ := newTestStore(time.Minute)

	_, err := s.Get("missing")
	assert.True(t, core.IsNotFoundError(err))
	assert.True(t, errors.Is(s.SetDataset("missing", testDataset(t, "a.csv")), core.ErrSessionNotFound))
	assert.True(t, errors.Is(s.ClearDataset("missing"), core.ErrSessionNotFound))
}

func TestSweepEvictsIdleSessions(t *testing.T) {
	s, clock := newTestStore(time.Minute)
	idle := s.Touch("").ID
	active := s.Touch("").ID

	clock.Advance(45 * time.Second)
	s.Touch(active)
	clock.Advance(30 * time.Second)

	assert.Equal(t, 1, s.Sweep())
	assert.Equal(t, 1, s.Len())

	_, err := s.Get(idle)
	assert.Error(t, err)
	_, err = s.Get(active)
	assert.NoError(t, err)
}

func TestExpiredSessionIsReplaced(t *testing.T) {
	s, clock := newTestStore(time.Minute)
	id := s.Touch("").ID
	require.NoError(t, s.SetDataset(id, testDataset(t, "a.csv")))

	clock.Advance(2 * time.Minute)
	st := s.Touch(id)
	assert.NotEqual(t, id, st.ID)
	assert.False(t, st.HasDataset())
}

func TestDelete(t *testing.T) {
	s, _ := newTestStore(time.Minute)
	id := s.Touch("").ID
	s.Delete(id)
	assert.Equal(t, 0, s.Len())
}

func TestRunStopsWithContext(t *testing.T) {
	s, _ := newTestStore(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, time.Millisecond) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}

func TestConcurrentAccess(t *testing.T) {
	s, _ := newTestStore(time.Minute)
	id := s.Touch("").ID
	ds := testDataset(t, "a.csv")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_ = s.SetDataset(id, ds)
			} else {
				_, _ = s.Get(id)
				s.Touch(id)
			}
		}(i)
	}
	wg.Wait()

	st, err := s.Get(id)
	require.NoError(t, err)
	assert.Same(t, ds, st.Dataset)
}
