package round

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/mcoot/memgame-go/internal/model"
	"github.com/mcoot/memgame-go/internal/services/deck"
)

const noCard = -1

// Config holds the timing contract between the machine and its host
type Config struct {
	// RevealDelay is how long a second card is shown before the pair is judged
	RevealDelay time.Duration

	// MismatchDelay is how long a mismatched pair stays face up
	MismatchDelay time.Duration
}

// DefaultConfig judges pairs immediately and shows a mismatch for one second
func DefaultConfig() Config {
	return Config{
		RevealDelay:   0,
		MismatchDelay: time.Second,
	}
}

// Machine drives a single round: flips, pair judging, countdown and the
// win/loss transition. It holds no timers; the host reports elapsed time
// through Tick and AdvanceTime. Not safe for concurrent use.
type Machine struct {
	cfg    Config
	deck   *deck.Builder
	logger *slog.Logger

	round *model.Round

	// Indices into round.Cards of the pending selection
	first  int
	second int

	judged  bool          // Pending pair has been judged a mismatch
	elapsed time.Duration // Time spent in the current resolving stage
}

// New creates a Machine with no round dealt
func New(cfg Config, deck *deck.Builder, logger *slog.Logger) *Machine {
	if cfg.RevealDelay < 0 {
		cfg.RevealDelay = 0
	}
	if cfg.MismatchDelay < 0 {
		cfg.MismatchDelay = 0
	}
	return &Machine{
		cfg:    cfg,
		deck:   deck,
		logger: logger,
		first:  noCard,
		second: noCard,
	}
}

// Round returns the current round, or nil before Start or Resume
func (m *Machine) Round() *model.Round {
	return m.round
}

// State returns the current round state, or empty before Start or Resume
func (m *Machine) State() model.RoundState {
	if m.round == nil {
		return ""
	}
	return m.round.State
}

// Config returns the timing configuration
func (m *Machine) Config() Config {
	return m.cfg
}

// Start deals a fresh round. The returned warning is non-nil when the asset
// pool was too small and some assets repeat across pairs.
func (m *Machine) Start(id model.RoundID, settings model.Settings, assets []string) (warning error, err error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	deal, err := m.deck.Build(settings.PairCount(), assets)
	if err != nil {
		return nil, err
	}

	m.round = &model.Round{
		ID:            id,
		State:         model.RoundStateActive,
		Cards:         deal.Cards,
		GridRows:      settings.Rows,
		GridColumns:   settings.Columns,
		Moves:         0,
		TimeRemaining: settings.TimeLimit,
	}
	m.clearSelection()

	m.logger.Info("round started",
		slog.String("round_id", string(id)),
		slog.Int("rows", settings.Rows),
		slog.Int("columns", settings.Columns),
		slog.Int("time_limit", settings.TimeLimit),
	)

	return deal.Warning, nil
}

// Resume restores a saved round exactly as it was dealt
func (m *Machine) Resume(id model.RoundID, saved *model.SavedGameState) error {
	if saved == nil || len(saved.Cards) == 0 {
		return fmt.Errorf("%w: no cards", model.ErrSnapshotInvalid)
	}

	if err := checkSavedPairs(saved.Cards); err != nil {
		return err
	}

	cards := make([]model.Card, len(saved.Cards))
	for i, sc := range saved.Cards {
		cards[i] = model.Card{
			ID:        sc.ID,
			ImagePath: sc.ImagePath,
			IsFlipped: sc.IsFlipped,
			IsMatched: sc.IsMatched,
		}
	}

	rows, cols := saved.GridRows, saved.GridColumns
	if rows <= 0 || cols <= 0 || rows*cols != len(cards) {
		rows, cols = FallbackGrid(len(cards))
	}

	m.round = &model.Round{
		ID:            id,
		State:         model.RoundStateActive,
		Cards:         cards,
		GridRows:      rows,
		GridColumns:   cols,
		Moves:         saved.Moves,
		TimeRemaining: max(saved.TimeRemaining, 0),
	}
	m.clearSelection()

	// A face-up unmatched card is the first half of a pair in progress.
	// Any more than one can only come from a damaged save.
	for i := range m.round.Cards {
		c := &m.round.Cards[i]
		if !c.IsFlipped || c.IsMatched {
			continue
		}
		if m.first == noCard {
			m.first = i
			continue
		}
		c.IsFlipped = false
		m.logger.Warn("turned down extra face-up card from saved game",
			slog.String("round_id", string(id)),
			slog.Int("card_id", c.ID),
		)
	}

	m.logger.Info("round resumed",
		slog.String("round_id", string(id)),
		slog.Int("cards", len(cards)),
		slog.Int("moves", saved.Moves),
		slog.Int("time_remaining", m.round.TimeRemaining),
	)

	return nil
}

// Flip turns a card face up. Flips are ignored unless the round is active
// and the card is face down.
func (m *Machine) Flip(cardID int) Result {
	if m.round == nil || m.round.State != model.RoundStateActive {
		return ResultIgnored
	}

	idx := m.indexOf(cardID)
	if idx == noCard {
		return ResultIgnored
	}
	card := &m.round.Cards[idx]
	if card.IsMatched || card.IsFlipped {
		return ResultIgnored
	}

	card.IsFlipped = true

	if m.first == noCard {
		m.first = idx
		return ResultFirstSelected
	}

	m.second = idx
	m.round.Moves++
	m.round.State = model.RoundStateResolving
	m.judged = false
	m.elapsed = 0

	if m.cfg.RevealDelay > 0 {
		return ResultPairPending
	}
	return m.judge()
}

// AdvanceTime reports elapsed time to the pending pair, judging it or
// turning a mismatch back down once the configured delay has passed
func (m *Machine) AdvanceTime(elapsed time.Duration) Result {
	if m.round == nil || m.round.State != model.RoundStateResolving {
		return ResultIgnored
	}

	m.elapsed += elapsed
	if !m.judged {
		if m.elapsed < m.cfg.RevealDelay {
			return ResultIgnored
		}
		return m.judge()
	}

	if m.elapsed < m.cfg.MismatchDelay {
		return ResultIgnored
	}
	return m.unflip()
}

// ResolvePending finishes the current resolving stage without waiting
func (m *Machine) ResolvePending() Result {
	if m.round == nil || m.round.State != model.RoundStateResolving {
		return ResultIgnored
	}
	if !m.judged {
		return m.judge()
	}
	return m.unflip()
}

// Tick counts down one second. Reaching zero loses the round even while a
// pair is being resolved.
func (m *Machine) Tick() Result {
	if m.round == nil {
		return ResultIgnored
	}
	if m.round.State != model.RoundStateActive && m.round.State != model.RoundStateResolving {
		return ResultIgnored
	}

	if m.round.TimeRemaining > 0 {
		m.round.TimeRemaining--
	}
	if m.round.TimeRemaining > 0 {
		return ResultTicked
	}

	m.round.State = model.RoundStateLost
	m.clearSelection()
	m.logger.Info("round lost",
		slog.String("round_id", string(m.round.ID)),
		slog.Int("moves", m.round.Moves),
		slog.Int("matched", m.round.MatchedCount()),
	)
	return ResultLost
}

// CheckWin returns true if every card is matched
func (m *Machine) CheckWin() bool {
	return m.round != nil && m.round.AllMatched()
}

// Snapshot captures the round for saving. A pair still being resolved is
// saved face down; its move stays counted.
func (m *Machine) Snapshot(now time.Time) (*model.SavedGameState, error) {
	if m.round == nil {
		return nil, model.ErrRoundNotStarted
	}
	if m.round.State.IsTerminal() {
		return nil, model.ErrRoundAlreadyTerminal
	}

	resolving := m.round.State == model.RoundStateResolving
	cards := make([]model.SavedCard, len(m.round.Cards))
	for i, c := range m.round.Cards {
		flipped := c.IsFlipped
		if resolving && !c.IsMatched && (i == m.first || i == m.second) {
			flipped = false
		}
		cards[i] = model.SavedCard{
			ID:        c.ID,
			ImagePath: c.ImagePath,
			IsMatched: c.IsMatched,
			IsFlipped: flipped,
		}
	}

	return &model.SavedGameState{
		Cards:         cards,
		TimeRemaining: m.round.TimeRemaining,
		Moves:         m.round.Moves,
		GridRows:      m.round.GridRows,
		GridColumns:   m.round.GridColumns,
		SavedDate:     now,
	}, nil
}

// Selection returns the IDs of the pending cards, or -1 where none is selected
func (m *Machine) Selection() (first, second int) {
	first, second = noCard, noCard
	if m.round == nil {
		return first, second
	}
	if m.first != noCard {
		first = m.round.Cards[m.first].ID
	}
	if m.second != noCard {
		second = m.round.Cards[m.second].ID
	}
	return first, second
}

// judge compares the pending pair
func (m *Machine) judge() Result {
	a := &m.round.Cards[m.first]
	b := &m.round.Cards[m.second]

	if !a.Matches(b) {
		m.judged = true
		m.elapsed = 0
		return ResultMismatched
	}

	a.IsMatched = true
	b.IsMatched = true
	m.clearSelection()
	m.round.State = model.RoundStateActive

	if m.CheckWin() {
		m.round.State = model.RoundStateWon
		m.logger.Info("round won",
			slog.String("round_id", string(m.round.ID)),
			slog.Int("moves", m.round.Moves),
			slog.Int("time_remaining", m.round.TimeRemaining),
		)
		return ResultWon
	}
	return ResultMatched
}

// unflip turns a mismatched pair back down
func (m *Machine) unflip() Result {
	m.round.Cards[m.first].IsFlipped = false
	m.round.Cards[m.second].IsFlipped = false
	m.clearSelection()
	m.round.State = model.RoundStateActive
	return ResultUnflipped
}

func (m *Machine) clearSelection() {
	m.first = noCard
	m.second = noCard
	m.judged = false
	m.elapsed = 0
}

func (m *Machine) indexOf(cardID int) int {
	for i := range m.round.Cards {
		if m.round.Cards[i].ID == cardID {
			return i
		}
	}
	return noCard
}

// checkSavedPairs rejects saves that could never be finished: every card
// already matched, or a matched card whose partner is not
func checkSavedPairs(cards []model.SavedCard) error {
	matched := make(map[string]int)
	total := 0
	for _, c := range cards {
		if c.IsMatched {
			matched[c.ImagePath]++
			total++
		}
	}
	if total == len(cards) {
		return fmt.Errorf("%w: every card is already matched", model.ErrSnapshotInvalid)
	}
	for image, n := range matched {
		if n%2 != 0 {
			return fmt.Errorf("%w: %s has a matched card without its partner", model.ErrSnapshotInvalid, image)
		}
	}
	return nil
}

// FallbackGrid picks the most square layout for n cards: rows is the largest
// divisor of n not above its square root
func FallbackGrid(n int) (rows, cols int) {
	if n <= 0 {
		return 0, 0
	}
	rows = int(math.Sqrt(float64(n)))
	for rows > 1 && n%rows != 0 {
		rows--
	}
	if rows < 1 {
		rows = 1
	}
	return rows, n / rows
}
