package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	name string
	runs atomic.Int64
	err  error
}

func (j *countingJob) Name() string        { return j.name }
func (j *countingJob) Description() string { return "counting test job" }
func (j *countingJob) Run(ctx context.Context) error {
	j.runs.Add(1)
	return j.err
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	s := NewScheduler(SchedulerConfig{})
	job := &countingJob{name: "daily"}

	require.NoError(t, s.Register(job, NewIntervalSchedule(time.Hour)))
	err := s.Register(job, NewIntervalSchedule(time.Hour))
	assert.ErrorIs(t, err, ErrJobAlreadyExists)
}

func TestRegisterNilGuards(t *testing.T) {
	s := NewScheduler(SchedulerConfig{})

	assert.ErrorIs(t, s.Register(nil, NewIntervalSchedule(time.Hour)), ErrNilJob)
	assert.ErrorIs(t, s.Register(&countingJob{name: "x"}, nil), ErrNilSchedule)
}

func TestRunNowExecutesAndRecords(t *testing.T) {
	s := NewScheduler(SchedulerConfig{})
	job := &countingJob{name: "daily"}
	require.NoError(t, s.Register(job, NewDailySchedule(12, 0, time.UTC)))

	result, err := s.RunNow(context.Background(), "daily")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, int64(1), job.runs.Load())

	snap := s.GetMetrics().Snapshot()
	assert.Equal(t, int64(1), snap.TotalExecutions)
	assert.Equal(t, int64(1), snap.TotalSuccesses)
}

func TestRunNowFailureIsRecordedNotFatal(t *testing.T) {
	s := NewScheduler(SchedulerConfig{})
	job := &countingJob{name: "daily", err: errors.New("cycle failed")}
	require.NoError(t, s.Register(job, NewDailySchedule(12, 0, time.UTC)))

	result, err := s.RunNow(context.Background(), "daily")
	require.Error(t, err)
	assert.False(t, result.Success)

	// The job stays registered and runnable after a failure.
	job.err = nil
	result, err = s.RunNow(context.Background(), "daily")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, int64(1), s.GetMetrics().Snapshot().TotalFailures)
}

func TestRunNowUnknownJob(t *testing.T) {
	s := NewScheduler(SchedulerConfig{})
	_, err := s.RunNow(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestStartStopLifecycle(t *testing.T) {
	s := NewScheduler(SchedulerConfig{})
	require.NoError(t, s.Register(&countingJob{name: "daily"}, NewIntervalSchedule(time.Hour)))

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())
	assert.ErrorIs(t, s.Start(context.Background()), ErrSchedulerAlreadyRunning)

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
	assert.ErrorIs(t, s.Stop(), ErrSchedulerNotRunning)
}

func TestListJobs(t *testing.T) {
	s := NewScheduler(SchedulerConfig{})
	require.NoError(t, s.Register(&countingJob{name: "daily"}, NewDailySchedule(12, 0, time.UTC)))

	infos := s.ListJobs()
	require.Len(t, infos, 1)
	assert.Equal(t, "daily", infos[0].Name)
	assert.False(t, infos[0].NextRun.IsZero())
}
