package game

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mcoot/memgame-go/internal/dependencies/clock"
	"github.com/mcoot/memgame-go/internal/model"
	"github.com/mcoot/memgame-go/internal/services/deck"
	"github.com/mcoot/memgame-go/internal/services/profile"
	"github.com/mcoot/memgame-go/internal/services/round"
	"github.com/mcoot/memgame-go/internal/services/session"
	"github.com/mcoot/memgame-go/internal/services/settings"
)

// ImageSource supplies the card image pool
type ImageSource interface {
	Images(ctx context.Context) ([]string, error)
}

// Controller starts rounds for the signed-in user and applies their
// outcome to the user's profile
type Controller struct {
	profiles *profile.Service
	settings *settings.Service
	images   ImageSource
	deck     *deck.Builder
	cfg      round.Config
	clock    clock.Clock
	logger   *slog.Logger
}

// NewController creates a new game Controller
func NewController(
	profiles *profile.Service,
	settings *settings.Service,
	images ImageSource,
	deck *deck.Builder,
	cfg round.Config,
	clock clock.Clock,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		profiles: profiles,
		settings: settings,
		images:   images,
		deck:     deck,
		cfg:      cfg,
		clock:    clock,
		logger:   logger,
	}
}

// Begin starts a round for the session's user. If a resume was requested
// and the user has a saved game it is continued; otherwise a fresh round is
// dealt from the current settings and any saved game is discarded.
func (c *Controller) Begin(ctx context.Context, sess *session.Context) (*Play, error) {
	current := sess.CurrentUser()
	if current == nil {
		return nil, model.ErrNoCurrentUser
	}
	resume := sess.ConsumeResume()

	p, err := c.profiles.Get(ctx, current.Username)
	if err != nil {
		return nil, err
	}
	sess.Replace(p)

	play := &Play{
		ctrl:     c,
		sess:     sess,
		username: p.Username,
		machine:  round.New(c.cfg, c.deck, c.logger),
	}
	id := model.RoundID(uuid.NewString())

	if resume {
		if !p.HasSavedGame() {
			c.logger.Info("no saved game to resume, dealing a new round", slog.String("username", p.Username))
		} else if err := play.machine.Resume(id, p.SavedGameState); err != nil {
			c.logger.Warn("saved game could not be resumed, dealing a new round",
				slog.String("username", p.Username),
				slog.String("error", err.Error()),
			)
		} else {
			play.resumed = true
			return play, nil
		}
	}

	if err := c.deal(ctx, play, id); err != nil {
		return nil, err
	}

	if p.HasSavedGame() {
		updated, err := c.profiles.ClearSnapshot(ctx, p.Username)
		if err != nil {
			return nil, err
		}
		sess.Replace(updated)
	}
	return play, nil
}

func (c *Controller) deal(ctx context.Context, play *Play, id model.RoundID) error {
	images, err := c.images.Images(ctx)
	if err != nil {
		return err
	}

	warning, err := play.machine.Start(id, c.settings.Current(ctx), images)
	if err != nil {
		return err
	}
	if warning != nil {
		c.logger.Warn("dealing with repeated images", slog.String("warning", warning.Error()))
		play.warning = warning
	}
	return nil
}

// Play is one round being played by the signed-in user. Calls must be
// serialized by the host.
type Play struct {
	ctrl     *Controller
	sess     *session.Context
	username string
	machine  *round.Machine

	resumed  bool
	paused   bool
	left     bool
	finished bool
	warning  error
}

// Round returns the round being played
func (p *Play) Round() *model.Round {
	return p.machine.Round()
}

// Username returns the player's username
func (p *Play) Username() string {
	return p.username
}

// Profile returns the player's profile as last stored by this round
func (p *Play) Profile() *model.Profile {
	return p.sess.CurrentUser()
}

// Resumed returns true if the round continues a saved game
func (p *Play) Resumed() bool {
	return p.resumed
}

// Warning returns the deck warning raised when the round was dealt, if any
func (p *Play) Warning() error {
	return p.warning
}

// MismatchDelay returns how long the host should wait before resolving a mismatch
func (p *Play) MismatchDelay() time.Duration {
	return p.machine.Config().MismatchDelay
}

// RevealDelay returns how long the host should wait before resolving a pending pair
func (p *Play) RevealDelay() time.Duration {
	return p.machine.Config().RevealDelay
}

// Selection returns the pending card IDs, -1 where none
func (p *Play) Selection() (first, second int) {
	return p.machine.Selection()
}

// Paused returns true while the countdown is stopped
func (p *Play) Paused() bool {
	return p.paused
}

// Done returns true once the round is finished or has been left
func (p *Play) Done() bool {
	return p.left || p.machine.State().IsTerminal()
}

// Flip turns the card with cardID face up
func (p *Play) Flip(ctx context.Context, cardID int) (round.Result, error) {
	if p.paused || p.left {
		return round.ResultIgnored, nil
	}
	return p.after(ctx, p.machine.Flip(cardID))
}

// Tick counts down one second of the round
func (p *Play) Tick(ctx context.Context) (round.Result, error) {
	if p.paused || p.left {
		return round.ResultIgnored, nil
	}
	return p.after(ctx, p.machine.Tick())
}

// AdvanceTime reports time elapsed since the pending pair was turned up
func (p *Play) AdvanceTime(ctx context.Context, elapsed time.Duration) (round.Result, error) {
	if p.left {
		return round.ResultIgnored, nil
	}
	return p.after(ctx, p.machine.AdvanceTime(elapsed))
}

// ResolvePending finishes the pending pair without waiting
func (p *Play) ResolvePending(ctx context.Context) (round.Result, error) {
	if p.left {
		return round.ResultIgnored, nil
	}
	return p.after(ctx, p.machine.ResolvePending())
}

// Save stores the round as the user's saved game and pauses the countdown
func (p *Play) Save(ctx context.Context) (*model.SavedGameState, error) {
	if p.left {
		return nil, model.ErrRoundNotStarted
	}

	state, err := p.machine.Snapshot(p.ctrl.clock.Now())
	if err != nil {
		return nil, err
	}

	updated, err := p.ctrl.profiles.SaveSnapshot(ctx, p.username, state)
	if err != nil {
		return nil, err
	}
	p.sess.Replace(updated)
	p.paused = true

	p.ctrl.logger.Info("round saved",
		slog.String("round_id", string(p.Round().ID)),
		slog.String("username", p.username),
		slog.Int("moves", state.Moves),
		slog.Int("time_remaining", state.TimeRemaining),
	)
	return state, nil
}

// Pause stops the countdown; flips are ignored until Continue
func (p *Play) Pause() {
	p.paused = true
}

// Continue restarts the countdown after Pause or Save
func (p *Play) Continue() {
	if !p.Done() {
		p.paused = false
	}
}

// Leave abandons the round without recording an outcome. A saved game, if
// any, is kept.
func (p *Play) Leave() {
	if p.left {
		return
	}
	p.left = true
	p.paused = true
	p.ctrl.logger.Info("round left",
		slog.String("round_id", string(p.Round().ID)),
		slog.String("username", p.username),
	)
}

// after applies the profile side effects of a terminal result, once
func (p *Play) after(ctx context.Context, result round.Result) (round.Result, error) {
	if !result.IsTerminal() || p.finished {
		return result, nil
	}
	p.finished = true
	p.paused = true

	updated, err := p.ctrl.profiles.RecordOutcome(ctx, p.username, result == round.ResultWon)
	if err != nil {
		if errors.Is(err, model.ErrProfileNotFound) {
			p.ctrl.logger.Warn("player profile is gone, outcome not recorded", slog.String("username", p.username))
		}
		return result, err
	}
	p.sess.Replace(updated)
	return result, nil
}
