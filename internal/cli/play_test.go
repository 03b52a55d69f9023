package cli

import (
	"bytes"
	"context"
	"io"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/memgame-go/internal/dependencies/mocks"
	"github.com/mcoot/memgame-go/internal/factory"
	"github.com/mcoot/memgame-go/internal/model"
	"github.com/mcoot/memgame-go/internal/services/game"
	"github.com/mcoot/memgame-go/internal/testutil"
)

const waitFor = 2 * time.Second
const pollEvery = 5 * time.Millisecond

// syncBuffer is a bytes.Buffer safe to read while the loop writes to it
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type PlayLoopSuite struct {
	suite.Suite
	app    *factory.TestApp
	sched  *mocks.MockScheduler
	out    *syncBuffer
	ctx    context.Context
	cancel context.CancelFunc

	play  *game.Play
	loop  *playLoop
	input *io.PipeWriter
	done  chan error
}

func TestPlayLoopSuite(t *testing.T) {
	suite.Run(t, new(PlayLoopSuite))
}

func (s *PlayLoopSuite) SetupTest() {
	s.app = factory.NewTestApp()
	s.sched = mocks.NewMockScheduler()
	s.out = &syncBuffer{}
	s.ctx, s.cancel = context.WithCancel(context.Background())

	_, err := s.app.SettingsService.Update(s.ctx, model.Settings{TimeLimit: 10, Rows: 2, Columns: 2})
	s.Require().NoError(err)
	p, err := s.app.ProfileService.Create(s.ctx, "alice", "")
	s.Require().NoError(err)
	s.app.Session.SignIn(p)

	s.play, err = s.app.GameController.Begin(s.ctx, s.app.Session)
	s.Require().NoError(err)
}

func (s *PlayLoopSuite) TearDownTest() {
	s.cancel()
	if s.input != nil {
		_ = s.input.Close()
	}
}

func (s *PlayLoopSuite) start() {
	reader, writer := io.Pipe()
	s.input = writer
	s.loop = newPlayLoop(s.play, s.sched, NewOutput("text", s.out, s.out), testutil.NopLogger())
	s.done = make(chan error, 1)
	go func() {
		s.done <- s.loop.run(s.ctx, reader)
	}()
	s.Eventually(func() bool { return s.sched.Active() == 1 }, waitFor, pollEvery)
}

func (s *PlayLoopSuite) send(line string) {
	_, err := io.WriteString(s.input, line+"\n")
	s.Require().NoError(err)
}

func (s *PlayLoopSuite) wait() error {
	select {
	case err := <-s.done:
		return err
	case <-time.After(waitFor):
		s.FailNow("play loop did not finish")
		return nil
	}
}

// mismatchPositions returns 1-based positions of two different cards
func (s *PlayLoopSuite) mismatchPositions() (string, string) {
	cards := s.play.Round().Cards
	for i := 1; i < len(cards); i++ {
		if cards[i].ImagePath != cards[0].ImagePath {
			return "1", strconv.Itoa(i + 1)
		}
	}
	s.FailNow("no mismatching cards")
	return "", ""
}

func (s *PlayLoopSuite) renders() int {
	return strings.Count(s.out.String(), "Moves:")
}

func (s *PlayLoopSuite) TestMismatchTurnsBackAfterDelay() {
	first, second := s.mismatchPositions()
	s.start()

	s.send(first)
	s.send(second)
	s.Eventually(func() bool { return s.sched.Pending() == 1 }, waitFor, pollEvery)

	s.sched.FireAfter()
	// Initial board, two flips and the unflip
	s.Eventually(func() bool { return s.renders() == 4 }, waitFor, pollEvery)

	s.send("quit")
	s.Require().NoError(s.wait())

	s.Contains(s.out.String(), "No match.")
	s.Equal([]time.Duration{time.Second}, s.sched.Delays)
	s.Equal(1, s.play.Round().Moves)
	for _, c := range s.play.Round().Cards {
		s.False(c.IsFlipped)
		s.False(c.IsMatched)
	}
	s.Equal(0, s.sched.Active())
}

func (s *PlayLoopSuite) TestCountdownLosesRound() {
	s.start()

	for range 10 {
		s.Eventually(func() bool { return len(s.loop.ticks) == 0 }, waitFor, pollEvery)
		s.sched.Tick()
	}
	s.Require().NoError(s.wait())

	s.Contains(s.out.String(), "Time's up!")
	s.Contains(s.out.String(), "Games played: 1, won: 0")
	s.Equal(model.RoundStateLost, s.play.Round().State)
	s.Equal(0, s.play.Round().TimeRemaining)
	s.Equal(0, s.sched.Active())

	p, err := s.app.ProfileService.Get(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(1, p.GamesPlayed)
	s.Equal(0, p.GamesWon)
}

func (s *PlayLoopSuite) TestSaveStopsCountdownUntilContinue() {
	s.start()

	s.send("save")
	s.Eventually(func() bool { return s.sched.Active() == 0 }, waitFor, pollEvery)
	s.Contains(s.out.String(), "Game saved with 10s left")

	s.send("continue")
	s.Eventually(func() bool { return s.sched.Active() == 1 }, waitFor, pollEvery)

	s.send("menu")
	s.Require().NoError(s.wait())

	p, err := s.app.ProfileService.Get(s.ctx, "alice")
	s.Require().NoError(err)
	s.True(p.HasSavedGame())
	s.Equal(0, p.GamesPlayed)
}

func (s *PlayLoopSuite) TestEndOfInputLeavesRound() {
	s.start()

	s.Require().NoError(s.input.Close())
	s.Require().NoError(s.wait())
	s.True(s.play.Done())
	s.Equal(0, s.sched.Active())
}

func (s *PlayLoopSuite) TestCancelLeavesRound() {
	s.start()

	s.cancel()
	s.ErrorIs(s.wait(), context.Canceled)
	s.True(s.play.Done())
}

func (s *PlayLoopSuite) TestReaderStopsWhenLoopFinishes() {
	reader, writer := io.Pipe()
	defer writer.Close()
	done := make(chan struct{})
	lines := readLines(context.Background(), reader, done)

	s.Require().NoError(writeLine(writer, "1"))
	s.Equal("1", <-lines)

	close(done)
	// The next line is read but has nowhere to go
	s.Require().NoError(writeLine(writer, "2"))

	select {
	case _, ok := <-lines:
		s.False(ok, "reader should stop instead of delivering")
	case <-time.After(waitFor):
		s.FailNow("reader still blocked after the loop finished")
	}
}

func writeLine(w io.Writer, line string) error {
	_, err := io.WriteString(w, line+"\n")
	return err
}
