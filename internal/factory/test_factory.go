package factory

import (
	"time"

	"github.com/ChampneyBull/dubai-app/internal/dependencies/mocks"
	"github.com/ChampneyBull/dubai-app/internal/roster"
	"github.com/ChampneyBull/dubai-app/internal/services/session"
	"github.com/ChampneyBull/dubai-app/internal/storage/memory"
	"github.com/ChampneyBull/dubai-app/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock    *mocks.MockClock
	MockProvider *mocks.MockProvider
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockProvider := mocks.NewMockProvider()

	sessionCfg := session.DefaultConfig()
	sessionCfg.Fallback = roster.Fallback()

	app := newWithDependencies(
		store,
		mockClock,
		mockProvider,
		session.NewMemorySnapshot(),
		sessionCfg,
		testutil.NopLogger(),
	)

	return &TestApp{
		App:          app,
		MockClock:    mockClock,
		MockProvider: mockProvider,
	}
}
