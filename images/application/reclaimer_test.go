package application

import (
	"errors"
	"testing"
	"time"

	"github.com/voxelkit/voxel/images/domain"
	"github.com/voxelkit/voxel/images/persistence"
)

// fakeClock reports a fixed time and exposes the waits requested through
// After so tests can fire boundary crossings on demand.
type fakeClock struct {
	now   time.Time
	waits chan time.Duration
	fire  chan time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{
		now:   now,
		waits: make(chan time.Duration),
		fire:  make(chan time.Time),
	}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	c.waits <- d
	return c.fire
}

func TestNextSweepTime(t *testing.T) {
	loc := time.FixedZone("test", 3600)

	cases := []struct {
		now  time.Time
		want time.Time
	}{
		{
			// Mid-afternoon: next midnight is tonight.
			time.Date(2026, 3, 14, 15, 9, 26, 0, loc),
			time.Date(2026, 3, 15, 0, 0, 0, 0, loc),
		},
		{
			// One minute before the boundary: reclaimed almost immediately.
			time.Date(2026, 3, 14, 23, 59, 0, 0, loc),
			time.Date(2026, 3, 15, 0, 0, 0, 0, loc),
		},
		{
			// Exactly at the boundary: schedule the following one, never a
			// zero-length wait.
			time.Date(2026, 3, 14, 0, 0, 0, 0, loc),
			time.Date(2026, 3, 15, 0, 0, 0, 0, loc),
		},
		{
			// Month rollover.
			time.Date(2026, 1, 31, 12, 0, 0, 0, loc),
			time.Date(2026, 2, 1, 0, 0, 0, 0, loc),
		},
	}

	for _, tc := range cases {
		if got := nextSweepTime(tc.now); !got.Equal(tc.want) {
			t.Errorf("nextSweepTime(%v) = %v, want %v", tc.now, got, tc.want)
		}
	}
}

func TestSweep_DeletesEverything(t *testing.T) {
	staging, err := persistence.NewFileStagingStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStagingStore failed: %v", err)
	}

	// Mixed population: full sets and a stray partial. The sweep does not
	// inspect promotion status or age; everything goes.
	stageAll(t, staging, "Vx_aaaaaa")
	stageAll(t, staging, "Vx_bbbbbb")
	if err := staging.Put("Vx_cccccc", domain.VariantOriginal, []byte("orphan")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	r := NewReclaimer(staging, SystemClock{})
	r.Sweep()

	files, err := staging.ListAll()
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("%d files survived the sweep: %v", len(files), files)
	}
}

func TestReclaimer_SweepsAtBoundary(t *testing.T) {
	staging, err := persistence.NewFileStagingStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStagingStore failed: %v", err)
	}
	stageAll(t, staging, "Vx_aaaaaa")

	clock := newFakeClock(time.Date(2026, 6, 1, 22, 0, 0, 0, time.UTC))
	r := NewReclaimer(staging, clock)
	r.Start()

	// The first wait is the distance to the next midnight.
	wait := <-clock.waits
	if wait != 2*time.Hour {
		t.Errorf("first wait = %v, want 2h", wait)
	}

	// Cross the boundary; the sweep runs and the loop schedules again.
	clock.fire <- clock.now.Add(wait)
	<-clock.waits

	files, err := staging.ListAll()
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("%d files survived the scheduled sweep", len(files))
	}

	if err := r.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
}

func TestReclaimer_CloseStopsLoop(t *testing.T) {
	staging, err := persistence.NewFileStagingStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStagingStore failed: %v", err)
	}

	clock := newFakeClock(time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC))
	r := NewReclaimer(staging, clock)
	r.Start()

	<-clock.waits

	done := make(chan error, 1)
	go func() { done <- r.Close() }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Close failed: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Close did not return; sweep loop not cancelled")
	}
}

// brokenStaging fails enumeration, which the sweep must log and absorb.
type brokenStaging struct {
	domain.StagingStore
}

func (brokenStaging) ListAll() ([]domain.StagedFile, error) {
	return nil, errors.New("permission denied")
}

func TestSweep_SurvivesListFailure(t *testing.T) {
	r := NewReclaimer(brokenStaging{}, SystemClock{})
	r.Sweep()
}
