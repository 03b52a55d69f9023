package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcoot/memgame-go/internal/dependencies/scheduler"
	"github.com/mcoot/memgame-go/internal/services/game"
	"github.com/mcoot/memgame-go/internal/services/round"
)

// tickInterval is how often the countdown advances
const tickInterval = time.Second

// lowTimeWarning is the seconds remaining at which the player is warned
const lowTimeWarning = 10

const playHelp = `Commands:
  <n>, flip <n>  turn over the card at position n
  save           save the round and pause the clock
  continue       resume after saving
  board          show the board again
  quit, menu     leave the round`

func newPlayCmd() *cobra.Command {
	var resume bool

	cmd := &cobra.Command{
		Use:   "play NAME",
		Short: "Play a round as NAME",
		Long: `Sign in as NAME and play a round with the current settings.
With --resume the user's saved game is continued instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			p, err := app.ProfileService.Get(ctx, args[0])
			if err != nil {
				return err
			}
			app.Session.SignIn(p)
			defer app.Session.SignOut()
			app.Session.RequestResume(resume)

			play, err := app.GameController.Begin(ctx, app.Session)
			if err != nil {
				return err
			}

			sched, err := scheduler.New(app.Logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := sched.Shutdown(); err != nil {
					app.Logger.Warn("scheduler shutdown failed", slog.String("error", err.Error()))
				}
			}()

			return newPlayLoop(play, sched, newOutput(cmd), app.Logger).run(ctx, cmd.InOrStdin())
		},
	}

	cmd.Flags().BoolVar(&resume, "resume", false, "Continue the saved game")

	return cmd
}

// playLoop serializes input, countdown ticks and pair resolution onto one
// goroutine. Scheduler callbacks only post signals.
type playLoop struct {
	play   *game.Play
	sched  scheduler.Scheduler
	out    *Output
	logger *slog.Logger

	ticks    chan struct{}
	resolves chan struct{}

	stopTicks   scheduler.Stop
	stopResolve scheduler.Stop
}

func newPlayLoop(play *game.Play, sched scheduler.Scheduler, out *Output, logger *slog.Logger) *playLoop {
	return &playLoop{
		play:     play,
		sched:    sched,
		out:      out,
		logger:   logger,
		ticks:    make(chan struct{}, 1),
		resolves: make(chan struct{}, 1),
	}
}

// run drives the round until it ends, the player leaves or input is exhausted
func (l *playLoop) run(ctx context.Context, in io.Reader) error {
	play, out := l.play, l.out
	defer l.stopTimers()

	done := make(chan struct{})
	defer close(done)
	lines := readLines(ctx, in, done)

	if play.Resumed() {
		out.PrintMessage(fmt.Sprintf("Resuming saved game for %s.", play.Username()))
	}
	if w := play.Warning(); w != nil {
		out.PrintMessage("Warning: " + w.Error())
	}
	l.render()

	if err := l.startTicks(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			play.Leave()
			return ctx.Err()

		case line, ok := <-lines:
			if !ok {
				play.Leave()
				return nil
			}
			done, err := l.handle(ctx, line)
			if err != nil {
				return err
			}
			if done {
				return nil
			}

		case <-l.ticks:
			result, err := play.Tick(ctx)
			if result == round.ResultTicked && play.Round().TimeRemaining == lowTimeWarning {
				out.PrintMessage(fmt.Sprintf("%s left!", formatSeconds(lowTimeWarning)))
			}
			if done := l.after(result, err); done {
				return nil
			}

		case <-l.resolves:
			l.stopResolve = nil
			result, err := play.ResolvePending(ctx)
			if result.Changed() {
				l.render()
			}
			if done := l.after(result, err); done {
				return nil
			}
		}
	}
}

// readLines sends each input line until input ends, ctx is cancelled or done
// is closed. The channel is closed when the reader stops.
func readLines(ctx context.Context, in io.Reader, done <-chan struct{}) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			// Lines read after the loop has finished are dropped
			select {
			case <-done:
				return
			default:
			}
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

// handle processes one line of input and reports whether the loop should end
func (l *playLoop) handle(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return false, nil
	}

	switch fields[0] {
	case "quit", "menu", "exit":
		l.play.Leave()
		l.out.PrintMessage("Left the round.")
		return true, nil

	case "help", "?":
		l.out.PrintMessage(playHelp)
		return false, nil

	case "board":
		l.render()
		return false, nil

	case "save":
		state, err := l.play.Save(ctx)
		if err != nil {
			l.out.PrintError(err)
			return false, nil
		}
		l.haltTicks()
		l.out.PrintMessage(fmt.Sprintf("Game saved with %s left. Type 'continue' to keep playing or 'menu' to leave.",
			formatSeconds(state.TimeRemaining)))
		return false, nil

	case "continue", "resume":
		if !l.play.Paused() {
			return false, nil
		}
		l.play.Continue()
		if err := l.startTicks(); err != nil {
			return false, err
		}
		l.render()
		return false, nil

	case "flip":
		if len(fields) < 2 {
			l.out.PrintError(errors.New("flip needs a card number"))
			return false, nil
		}
		return l.flip(ctx, fields[1])

	default:
		if _, err := strconv.Atoi(fields[0]); err == nil {
			return l.flip(ctx, fields[0])
		}
		l.out.PrintError(fmt.Errorf("unknown command %q, type 'help' for commands", fields[0]))
		return false, nil
	}
}

func (l *playLoop) flip(ctx context.Context, arg string) (bool, error) {
	pos, err := strconv.Atoi(arg)
	if err != nil {
		l.out.PrintError(fmt.Errorf("%q is not a card number", arg))
		return false, nil
	}
	card := l.play.Round().CardAt(pos - 1)
	if card == nil {
		l.out.PrintError(fmt.Errorf("no card at position %d", pos))
		return false, nil
	}

	result, err := l.play.Flip(ctx, card.ID)
	if result.Changed() {
		l.render()
	}

	switch result {
	case round.ResultMismatched:
		l.out.PrintMessage("No match.")
		if err := l.scheduleResolve(l.play.MismatchDelay()); err != nil {
			return false, err
		}
	case round.ResultPairPending:
		if err := l.scheduleResolve(l.play.RevealDelay()); err != nil {
			return false, err
		}
	case round.ResultMatched:
		l.out.PrintMessage("Match!")
	case round.ResultIgnored:
		if l.play.Paused() {
			l.out.PrintMessage("The round is paused. Type 'continue' to keep playing.")
		}
	}

	return l.after(result, err), nil
}

// after reports a terminal result and any error from recording it. It
// returns true once the round is over.
func (l *playLoop) after(result round.Result, err error) bool {
	if err != nil {
		l.logger.Error("failed to record round result",
			slog.String("result", string(result)),
			slog.String("error", err.Error()),
		)
		l.out.PrintError(fmt.Errorf("could not record the result: %w", err))
	}
	if !result.IsTerminal() {
		return false
	}

	l.stopTimers()
	if result == round.ResultLost {
		l.render()
	}

	r := l.play.Round()
	outcome := Outcome{
		Result:        string(r.State),
		Moves:         r.Moves,
		TimeRemaining: r.TimeRemaining,
	}
	if p := l.play.Profile(); p != nil {
		outcome.GamesPlayed = p.GamesPlayed
		outcome.GamesWon = p.GamesWon
	}
	l.out.Print(outcome)
	return true
}

// scheduleResolve arranges for the pending pair to be resolved after delay.
// A zero delay resolves on the next loop iteration.
func (l *playLoop) scheduleResolve(delay time.Duration) error {
	if delay <= 0 {
		l.post(l.resolves)
		return nil
	}
	stop, err := l.sched.After(delay, func() { l.post(l.resolves) })
	if err != nil {
		return err
	}
	l.stopResolve = stop
	return nil
}

func (l *playLoop) startTicks() error {
	if l.stopTicks != nil {
		return nil
	}
	stop, err := l.sched.Every(tickInterval, func() { l.post(l.ticks) })
	if err != nil {
		return err
	}
	l.stopTicks = stop
	return nil
}

func (l *playLoop) haltTicks() {
	if l.stopTicks != nil {
		l.stopTicks()
		l.stopTicks = nil
	}
}

func (l *playLoop) stopTimers() {
	l.haltTicks()
	if l.stopResolve != nil {
		l.stopResolve()
		l.stopResolve = nil
	}
}

// post signals the loop without blocking; a signal already waiting is enough
func (l *playLoop) post(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

func (l *playLoop) render() {
	l.out.Print(toBoard(l.play.Round(), l.play.Paused() && !l.play.Done()))
}
