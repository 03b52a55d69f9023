package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/mcoot/memgame-go/internal/testutil"
	"github.com/stretchr/testify/suite"
)

type SchedulerSuite struct {
	suite.Suite
	sched *GocronScheduler
}

func TestSchedulerSuite(t *testing.T) {
	suite.Run(t, new(SchedulerSuite))
}

func (s *SchedulerSuite) SetupTest() {
	sched, err := New(testutil.NopLogger())
	s.Require().NoError(err)
	s.sched = sched
}

func (s *SchedulerSuite) TearDownTest() {
	s.NoError(s.sched.Shutdown())
}

func (s *SchedulerSuite) TestAfterRunsOnce() {
	fired := make(chan struct{}, 2)
	_, err := s.sched.After(20*time.Millisecond, func() { fired <- struct{}{} })
	s.Require().NoError(err)

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		s.FailNow("one-time job did not run")
	}

	select {
	case <-fired:
		s.Fail("one-time job ran twice")
	case <-time.After(100 * time.Millisecond):
	}
}

func (s *SchedulerSuite) TestAfterWithNoDelayRunsImmediately() {
	fired := make(chan struct{}, 1)
	_, err := s.sched.After(0, func() { fired <- struct{}{} })
	s.Require().NoError(err)

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		s.FailNow("immediate job did not run")
	}
}

func (s *SchedulerSuite) TestStopCancelsPendingJob() {
	var count atomic.Int32
	stop, err := s.sched.After(200*time.Millisecond, func() { count.Add(1) })
	s.Require().NoError(err)

	stop()
	stop()

	time.Sleep(400 * time.Millisecond)
	s.Zero(count.Load())
}

func (s *SchedulerSuite) TestEveryRepeatsUntilStopped() {
	var count atomic.Int32
	stop, err := s.sched.Every(20*time.Millisecond, func() { count.Add(1) })
	s.Require().NoError(err)

	s.Eventually(func() bool { return count.Load() >= 3 }, 2*time.Second, 10*time.Millisecond)

	stop()
	time.Sleep(50 * time.Millisecond)
	after := count.Load()
	time.Sleep(100 * time.Millisecond)
	s.Equal(after, count.Load())
}
