package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"umrahportal/internal/config"
	"umrahportal/internal/model"
	"umrahportal/internal/repository"
	repoMocks "umrahportal/internal/repository/mocks"
	"umrahportal/internal/service"
)

type fakeUpgrader struct {
	mu       sync.Mutex
	seen     []string
	upgrade  map[string]bool
	fail     map[string]bool
	inFlight atomic.Int32
	peak     atomic.Int32
	delay    time.Duration
}

func (f *fakeUpgrader) AutoUpgradeAlumni(ctx context.Context, userID string) (*service.UpgradeResult, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(f.delay)

	f.mu.Lock()
	f.seen = append(f.seen, userID)
	f.mu.Unlock()

	if f.fail[userID] {
		return nil, errors.New("db timeout")
	}
	if f.upgrade[userID] {
		return &service.UpgradeResult{Upgraded: true, Role: model.RoleAlumni}, nil
	}
	return &service.UpgradeResult{Role: model.RolePilgrim}, nil
}

func users(from, to int) []model.User {
	out := make([]model.User, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, model.User{ID: fmt.Sprintf("u%d", i), Role: model.RolePilgrim})
	}
	return out
}

func TestAlumniSweeper_Run(t *testing.T) {
	ctx := context.Background()
	repo := new(repoMocks.MockUserRepository)
	repo.On("ListByRole", ctx, model.RolePilgrim, repository.PageQuery{Limit: 2, Offset: 0}).
		Return(&repository.PageResult[model.User]{Items: users(0, 2), Total: 5}, nil)
	repo.On("ListByRole", ctx, model.RolePilgrim, repository.PageQuery{Limit: 2, Offset: 2}).
		Return(&repository.PageResult[model.User]{Items: users(2, 4), Total: 5}, nil)
	repo.On("ListByRole", ctx, model.RolePilgrim, repository.PageQuery{Limit: 2, Offset: 4}).
		Return(&repository.PageResult[model.User]{Items: users(4, 5), Total: 5}, nil)

	up := &fakeUpgrader{
		upgrade: map[string]bool{"u1": true, "u3": true},
		fail:    map[string]bool{"u4": true},
		delay:   5 * time.Millisecond,
	}
	s, err := NewAlumniSweeper(repo, up, config.WorkerConfig{SweepWorkers: 2, SweepPageSize: 2}, prometheus.NewRegistry())
	require.NoError(t, err)

	res, err := s.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{Checked: 5, Upgraded: 2, Failed: 1}, res)
	assert.ElementsMatch(t, []string{"u0", "u1", "u2", "u3", "u4"}, up.seen)
	assert.LessOrEqual(t, up.peak.Load(), int32(2))
	assert.Equal(t, 1, testutil.CollectAndCount(s.duration))
	repo.AssertExpectations(t)
}

func TestAlumniSweeper_Empty(t *testing.T) {
	ctx := context.Background()
	repo := new(repoMocks.MockUserRepository)
	repo.On("ListByRole", ctx, model.RolePilgrim, repository.PageQuery{Limit: 100, Offset: 0}).
		Return(&repository.PageResult[model.User]{Items: []model.User{}, Total: 0}, nil)

	s, err := NewAlumniSweeper(repo, &fakeUpgrader{}, config.WorkerConfig{}, nil)
	require.NoError(t, err)

	res, err := s.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{}, res)
}

func TestAlumniSweeper_ListFails(t *testing.T) {
	ctx := context.Background()
	repo := new(repoMocks.MockUserRepository)
	repo.On("ListByRole", ctx, model.RolePilgrim, repository.PageQuery{Limit: 100, Offset: 0}).
		Return(nil, errors.New("conn refused"))

	s, err := NewAlumniSweeper(repo, &fakeUpgrader{}, config.WorkerConfig{}, nil)
	require.NoError(t, err)

	_, err = s.Run(ctx)
	assert.EqualError(t, err, "list jamaah at offset 0: conn refused")
}

func TestAlumniSweeper_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := new(repoMocks.MockUserRepository)
	repo.On("ListByRole", ctx, model.RolePilgrim, repository.PageQuery{Limit: 100, Offset: 0}).
		Return(&repository.PageResult[model.User]{Items: users(0, 3), Total: 3}, nil)

	up := &fakeUpgrader{}
	s, err := NewAlumniSweeper(repo, up, config.WorkerConfig{SweepWorkers: 1}, nil)
	require.NoError(t, err)

	_, err = s.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAlumniSweeper_WithWorkers(t *testing.T) {
	s, err := NewAlumniSweeper(nil, nil, config.WorkerConfig{SweepWorkers: 3}, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, s.workers)
	assert.Equal(t, 8, s.WithWorkers(8).workers)
	assert.Equal(t, 8, s.WithWorkers(0).workers)
}
