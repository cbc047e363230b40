package application

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/voxelkit/voxel/images/domain"
)

// Clock abstracts wall-clock time so sweep scheduling can be driven
// deterministically in tests.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

// SystemClock is the real clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time                         { return time.Now() }
func (SystemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Reclaimer purges the staging store once per day at local midnight. Every
// staged file is deleted unconditionally, regardless of age: retention for an
// un-promoted upload is "time until the next boundary", not a fixed TTL.
//
// Each wait is recomputed from Now() after the previous sweep finishes, so
// sweep duration never accumulates drift and clock or timezone changes are
// picked up at the next cycle.
type Reclaimer struct {
	staging domain.StagingStore
	clock   Clock

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewReclaimer(staging domain.StagingStore, clock Clock) *Reclaimer {
	ctx, cancel := context.WithCancel(context.Background())
	return &Reclaimer{
		staging: staging,
		clock:   clock,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the background sweep loop.
func (r *Reclaimer) Start() {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		for {
			now := r.clock.Now()
			next := nextSweepTime(now)
			log.Info().Time("next_sweep", next).Msg("Scheduled staging sweep")

			select {
			case <-r.ctx.Done():
				return
			case <-r.clock.After(next.Sub(now)):
				r.Sweep()
			}
		}
	}()
}

// Close stops the sweep loop and waits for any in-flight sweep to finish.
func (r *Reclaimer) Close() error {
	r.cancel()
	r.wg.Wait()
	return nil
}

// Sweep deletes every file in every staging area. Individual failures are
// logged and the sweep continues; a file deleted concurrently by a promotion
// counts as already gone.
func (r *Reclaimer) Sweep() {
	log.Info().Msg("Starting staging sweep")

	files, err := r.staging.ListAll()
	if err != nil {
		log.Error().Err(err).Msg("Failed to enumerate staging areas")
		return
	}

	removed := 0
	for _, f := range files {
		if err := r.staging.Remove(f); err != nil {
			log.Warn().Err(err).Str("variant", string(f.Variant)).Str("file", f.Filename).
				Msg("Failed to remove staged file")
			continue
		}
		removed++
	}

	log.Info().Int("removed", removed).Int("total", len(files)).Msg("Staging sweep completed")
}

// nextSweepTime returns the next occurrence of local midnight strictly after
// now.
func nextSweepTime(now time.Time) time.Time {
	year, month, day := now.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
}
