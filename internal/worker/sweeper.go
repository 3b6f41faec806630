// Package worker holds batch jobs run from portalctl.
package worker

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"umrahportal/internal/config"
	"umrahportal/internal/model"
	"umrahportal/internal/repository"
	"umrahportal/internal/service"
)

// Upgrader runs the jamaah to alumni check for one user.
type Upgrader interface {
	AutoUpgradeAlumni(ctx context.Context, userID string) (*service.UpgradeResult, error)
}

// SweepResult counts the outcome of one sweep.
type SweepResult struct {
	Checked  int `json:"checked"`
	Upgraded int `json:"upgraded"`
	Failed   int `json:"failed"`
}

// AlumniSweeper checks every jamaah for a completed itinerary.
type AlumniSweeper struct {
	users    repository.UserRepository
	upgrader Upgrader
	workers  int
	pageSize int
	duration prometheus.Histogram
}

// NewAlumniSweeper constructs a sweeper. reg may be nil.
func NewAlumniSweeper(users repository.UserRepository, upgrader Upgrader, cfg config.WorkerConfig, reg prometheus.Registerer) (*AlumniSweeper, error) {
	s := &AlumniSweeper{
		users:    users,
		upgrader: upgrader,
		workers:  cfg.SweepWorkers,
		pageSize: cfg.SweepPageSize,
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "alumni_sweep_duration_seconds",
			Help:    "Duration of alumni sweeps.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
	}
	if s.workers <= 0 {
		s.workers = 4
	}
	if s.pageSize <= 0 {
		s.pageSize = 100
	}
	if reg != nil {
		if err := reg.Register(s.duration); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// WithWorkers overrides the configured concurrency.
func (s *AlumniSweeper) WithWorkers(n int) *AlumniSweeper {
	if n > 0 {
		s.workers = n
	}
	return s
}

// collect reads all jamaah IDs up front; upgrades change roles and would
// shift offsets under a paging loop.
func (s *AlumniSweeper) collect(ctx context.Context) ([]string, error) {
	var ids []string
	for offset := 0; ; offset += s.pageSize {
		res, err := s.users.ListByRole(ctx, model.RolePilgrim, repository.PageQuery{Limit: s.pageSize, Offset: offset})
		if err != nil {
			return nil, fmt.Errorf("list jamaah at offset %d: %w", offset, err)
		}
		for _, u := range res.Items {
			ids = append(ids, u.ID)
		}
		if len(res.Items) < s.pageSize || offset+len(res.Items) >= res.Total {
			return ids, nil
		}
	}
}

// Run sweeps all jamaah with bounded concurrency. On cancellation it waits
// for in-flight checks and returns the partial counts with the context error.
func (s *AlumniSweeper) Run(ctx context.Context) (SweepResult, error) {
	timer := prometheus.NewTimer(s.duration)
	defer timer.ObserveDuration()
	l := log.Ctx(ctx).With().Str("component", "alumni_sweeper").Logger()

	ids, err := s.collect(ctx)
	if err != nil {
		return SweepResult{}, err
	}
	l.Info().Int("jamaah", len(ids)).Int("workers", s.workers).Msg("sweep starting")

	var (
		checked, upgraded, failed atomic.Int64
		wg                        sync.WaitGroup
		runErr                    error
	)
	sem := semaphore.NewWeighted(int64(s.workers))
	for _, id := range ids {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			runErr = err
			break
		}
		wg.Add(1)
		go func(userID string) {
			defer wg.Done()
			defer sem.Release(1)

			checked.Add(1)
			res, err := s.upgrader.AutoUpgradeAlumni(ctx, userID)
			if err != nil {
				failed.Add(1)
				l.Warn().Err(err).Str("user_id", userID).Msg("upgrade check failed")
				return
			}
			if res.Upgraded {
				upgraded.Add(1)
			}
		}(id)
	}
	wg.Wait()

	out := SweepResult{Checked: int(checked.Load()), Upgraded: int(upgraded.Load()), Failed: int(failed.Load())}
	l.Info().
		Int("checked", out.Checked).
		Int("upgraded", out.Upgraded).
		Int("failed", out.Failed).
		Msg("sweep completed")
	return out, runErr
}
