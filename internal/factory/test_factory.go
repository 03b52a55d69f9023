package factory

import (
	"io"
	"log/slog"
	"time"

	"github.com/mcoot/memgame-go/internal/dependencies/mocks"
	"github.com/mcoot/memgame-go/internal/services/assets"
	"github.com/mcoot/memgame-go/internal/services/round"
	"github.com/mcoot/memgame-go/internal/storage/memory"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies,
// in-memory storage and the built-in asset pools
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	app := newWithDependencies(store, mockClock, mockRandom, assets.Config{}, round.DefaultConfig(), logger)

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
