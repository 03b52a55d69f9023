package deck

import (
	"fmt"
	"log/slog"

	"github.com/mcoot/memgame-go/internal/dependencies/random"
	"github.com/mcoot/memgame-go/internal/model"
)

// Deal is a freshly shuffled deck
type Deal struct {
	Cards []model.Card

	// Warning is set when the pool was too small and assets had to repeat
	Warning error
}

// Builder deals shuffled decks of paired cards
type Builder struct {
	random random.Random
	logger *slog.Logger
}

// New creates a new deck Builder
func New(random random.Random, logger *slog.Logger) *Builder {
	return &Builder{
		random: random,
		logger: logger,
	}
}

// Build deals 2*pairCount cards from the asset pool in random board order
func (b *Builder) Build(pairCount int, assets []string) (*Deal, error) {
	if pairCount < 1 {
		return nil, fmt.Errorf("%w: %d pairs", model.ErrConfigurationInvalid, pairCount)
	}

	pool := distinct(assets)
	if len(pool) == 0 {
		return nil, model.ErrAssetPoolEmpty
	}

	deal := &Deal{}
	selected := b.sample(pool, pairCount)
	if len(pool) < pairCount {
		deal.Warning = fmt.Errorf("%w: found %d but need %d", model.ErrAssetPoolInsufficient, len(pool), pairCount)
		b.logger.Warn("asset pool too small, repeating assets",
			slog.Int("available", len(pool)),
			slog.Int("pairs", pairCount),
		)
	}

	cards := make([]model.Card, 0, pairCount*2)
	for i, asset := range selected {
		cards = append(cards,
			model.Card{ID: i * 2, ImagePath: asset},
			model.Card{ID: i*2 + 1, ImagePath: asset},
		)
	}

	random.Shuffle(b.random, len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	deal.Cards = cards

	return deal, nil
}

// sample picks count assets without replacement, padding with random repeats
// when the pool is smaller than count
func (b *Builder) sample(pool []string, count int) []string {
	selected := make([]string, len(pool))
	copy(selected, pool)

	if len(selected) >= count {
		// Partial Fisher-Yates: the first count slots end up a uniform sample
		for i := 0; i < count; i++ {
			j := i + b.random.Intn(len(selected)-i)
			selected[i], selected[j] = selected[j], selected[i]
		}
		return selected[:count]
	}

	for len(selected) < count {
		selected = append(selected, pool[b.random.Intn(len(pool))])
	}
	return selected
}

// distinct drops duplicate and empty assets, keeping first-seen order
func distinct(assets []string) []string {
	seen := make(map[string]struct{}, len(assets))
	result := make([]string, 0, len(assets))
	for _, a := range assets {
		if a == "" {
			continue
		}
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		result = append(result, a)
	}
	return result
}
