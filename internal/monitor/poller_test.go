package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeQueueClient is a deterministic QueueClient for cycle-level tests.
type fakeQueueClient struct {
	queue       []QueueItem
	queueErr    error
	queueCalls  int
	units       map[int64]UnitDetail
	unitErr     error
	unitFetches []int64
}

func (f *fakeQueueClient) FetchQueue(ctx context.Context) ([]QueueItem, error) {
	f.queueCalls++
	if f.queueErr != nil {
		return nil, f.queueErr
	}
	return f.queue, nil
}

func (f *fakeQueueClient) FetchUnit(ctx context.Context, backendID int64) (UnitDetail, error) {
	f.unitFetches = append(f.unitFetches, backendID)
	if f.unitErr != nil {
		return UnitDetail{}, f.unitErr
	}
	return f.units[backendID], nil
}

func newTestPoller(reg *Registry, backends Backends, cfg PollerConfig) *Poller {
	return NewPoller(reg, backends, cfg, nil)
}

func TestPoller_Cycle_AppliesQueueStatus(t *testing.T) {
	reg := NewRegistry(time.Minute, nil)
	u := testUnit(550)
	reg.Add(u)

	client := &fakeQueueClient{
		queue: []QueueItem{{BackendID: u.BackendRef, Status: "downloading", Size: 1000, SizeLeft: 400}},
	}
	p := newTestPoller(reg, Backends{{KindMovie, TierStandard}: client}, PollerConfig{})

	require.True(t, p.cycle(context.Background()))

	got, _ := reg.Get(u.Identity)
	assert.Equal(t, StateDownloading, got.State)
	assert.Equal(t, 60, got.Progress)
}

func TestPoller_Cycle_OneFetchPerBackend(t *testing.T) {
	reg := NewRegistry(time.Minute, nil)
	std := &fakeQueueClient{}
	high := &fakeQueueClient{}

	for i := int64(1); i <= 5; i++ {
		reg.Add(testUnit(i))
	}
	u4k := testUnit(100)
	u4k.Tier = TierHigh
	reg.Add(u4k)

	p := newTestPoller(reg, Backends{
		{KindMovie, TierStandard}: std,
		{KindMovie, TierHigh}:     high,
	}, PollerConfig{})

	p.cycle(context.Background())

	assert.Equal(t, 1, std.queueCalls, "five standard units share one queue fetch")
	assert.Equal(t, 1, high.queueCalls)
}

func TestPoller_Cycle_UnknownStatusKeepsState(t *testing.T) {
	reg := NewRegistry(time.Minute, nil)
	u := testUnit(550)
	reg.Add(u)
	reg.UpdateStatus(u.Identity, StateDownloading, 30)

	client := &fakeQueueClient{
		queue: []QueueItem{{BackendID: u.BackendRef, Status: "importBlocked"}},
	}
	p := newTestPoller(reg, Backends{{KindMovie, TierStandard}: client}, PollerConfig{})

	p.cycle(context.Background())

	got, _ := reg.Get(u.Identity)
	assert.Equal(t, StateDownloading, got.State)
	assert.Equal(t, 30, got.Progress)
}

func TestPoller_Cycle_AbsentWithFileBecomesAvailable(t *testing.T) {
	reg := NewRegistry(time.Hour, nil)
	u := testUnit(550)
	reg.Add(u)
	reg.UpdateStatus(u.Identity, StateDownloading, 80)

	client := &fakeQueueClient{units: map[int64]UnitDetail{u.BackendRef: {HasFile: true}}}
	p := newTestPoller(reg, Backends{{KindMovie, TierStandard}: client}, PollerConfig{})

	p.cycle(context.Background())

	got, _ := reg.Get(u.Identity)
	assert.Equal(t, StateAvailable, got.State)
	assert.Equal(t, 100, got.Progress)
	assert.Equal(t, []int64{u.BackendRef}, client.unitFetches)
}

func TestPoller_Cycle_AbsentTwiceBecomesRetrying(t *testing.T) {
	reg := NewRegistry(time.Minute, nil)
	u := testUnit(550)
	reg.Add(u)
	reg.UpdateStatus(u.Identity, StateDownloading, 80)

	client := &fakeQueueClient{units: map[int64]UnitDetail{}}
	p := newTestPoller(reg, Backends{{KindMovie, TierStandard}: client}, PollerConfig{})

	p.cycle(context.Background())
	got, _ := reg.Get(u.Identity)
	assert.Equal(t, StateDownloading, got.State, "one absent cycle is tolerated")

	p.cycle(context.Background())
	got, _ = reg.Get(u.Identity)
	assert.Equal(t, StateRetrying, got.State, "second absent cycle triggers retry")
	assert.True(t, got.Retrying)
}

func TestPoller_Cycle_ReappearanceResetsAbsentCount(t *testing.T) {
	reg := NewRegistry(time.Minute, nil)
	u := testUnit(550)
	reg.Add(u)
	reg.UpdateStatus(u.Identity, StateDownloading, 10)

	client := &fakeQueueClient{units: map[int64]UnitDetail{}}
	p := newTestPoller(reg, Backends{{KindMovie, TierStandard}: client}, PollerConfig{})

	p.cycle(context.Background()) // absent once

	client.queue = []QueueItem{{BackendID: u.BackendRef, Status: "downloading", Size: 100, SizeLeft: 50}}
	p.cycle(context.Background()) // back in queue

	client.queue = nil
	p.cycle(context.Background()) // absent once again

	got, _ := reg.Get(u.Identity)
	assert.Equal(t, StateDownloading, got.State, "absent streak restarted after reappearance")
}

func TestPoller_Cycle_SearchingAbsentIsExpected(t *testing.T) {
	reg := NewRegistry(time.Minute, nil)
	u := testUnit(550)
	reg.Add(u)

	client := &fakeQueueClient{}
	p := newTestPoller(reg, Backends{{KindMovie, TierStandard}: client}, PollerConfig{})

	p.cycle(context.Background())
	p.cycle(context.Background())

	got, _ := reg.Get(u.Identity)
	assert.Equal(t, StateSearching, got.State)
	assert.Empty(t, client.unitFetches, "searching units never trigger unit fetches")
}

func TestPoller_Cycle_FetchErrorRetainsStatus(t *testing.T) {
	reg := NewRegistry(time.Minute, nil)
	u := testUnit(550)
	reg.Add(u)
	reg.UpdateStatus(u.Identity, StateDownloading, 55)

	client := &fakeQueueClient{queueErr: errors.New("connection refused")}
	p := newTestPoller(reg, Backends{{KindMovie, TierStandard}: client}, PollerConfig{})

	require.True(t, p.cycle(context.Background()))

	got, _ := reg.Get(u.Identity)
	assert.Equal(t, StateDownloading, got.State)
	assert.Equal(t, 55, got.Progress)
	assert.Empty(t, client.unitFetches, "a failed queue fetch must not cascade into unit fetches")
}

func TestPoller_Cycle_TimeoutGivesUp(t *testing.T) {
	reg := NewRegistry(time.Minute, nil)
	u := testUnit(550)
	u.StartedAt = time.Now().Add(-2 * time.Hour)
	reg.Add(u)

	var last TransitionEvent
	reg.OnTransition(func(ev TransitionEvent) { last = ev })

	client := &fakeQueueClient{}
	p := newTestPoller(reg, Backends{{KindMovie, TierStandard}: client},
		PollerConfig{MaxMonitorTime: time.Hour})

	assert.False(t, p.cycle(context.Background()), "drained registry parks the poller")
	assert.Equal(t, 0, reg.Len())
	assert.Equal(t, StateNotFound, last.To)
	assert.Equal(t, 0, client.queueCalls, "timed out units never reach the network")
}

func TestPoller_Cycle_AttemptCeilingGivesUp(t *testing.T) {
	reg := NewRegistry(time.Minute, nil)
	u := testUnit(550)
	reg.Add(u)

	client := &fakeQueueClient{}
	p := newTestPoller(reg, Backends{{KindMovie, TierStandard}: client},
		PollerConfig{MaxAttempts: 2})

	require.True(t, p.cycle(context.Background()))
	require.True(t, p.cycle(context.Background()))
	assert.False(t, p.cycle(context.Background()), "third cycle crosses the ceiling")
	assert.Equal(t, 0, reg.Len())
}

func TestPoller_Cycle_EmptyRegistryParks(t *testing.T) {
	reg := NewRegistry(time.Minute, nil)
	p := newTestPoller(reg, Backends{}, PollerConfig{})
	assert.False(t, p.cycle(context.Background()))
}

func TestPoller_StartStop(t *testing.T) {
	reg := NewRegistry(time.Minute, nil)
	p := newTestPoller(reg, Backends{}, PollerConfig{Interval: 5 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Start(ctx) }()

	p.Wake()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop on cancel")
	}
}
