package version

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EventScanner/internal/domain"
)

func TestParseUpdateAppliesMaintenanceOffset(t *testing.T) {
	t.Parallel()

	text := "Version 3.2 New Content Update. Begins at 2025/6/1 00:00:00 (server time)"

	info, ok := ParseUpdate(text)
	require.True(t, ok)

	assert.Equal(t, "3.2", info.Version)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), info.UpdateAnnouncedAt)
	assert.Equal(t, time.Date(2025, 6, 1, 5, 0, 0, 0, time.UTC), info.DerivedStart)
}

func TestParseUpdateHandlesSingleDigitDates(t *testing.T) {
	t.Parallel()

	info, ok := ParseUpdate("Version 2.7 maintenance. Begins at 2025/1/8 06:30:00")
	require.True(t, ok)

	assert.Equal(t, time.Date(2025, 1, 8, 11, 30, 0, 0, time.UTC), info.DerivedStart)
}

func TestParseUpdateRequiresBothPatterns(t *testing.T) {
	t.Parallel()

	_, ok := ParseUpdate("Version 3.2 update details coming soon")
	assert.False(t, ok)

	_, ok = ParseUpdate("Maintenance Begins at 2025/6/1 00:00:00")
	assert.False(t, ok)
}

func TestRegistryFirstObservationWins(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()

	first := domain.VersionInfo{Version: "3.2", DerivedStart: time.Date(2025, 6, 1, 5, 0, 0, 0, time.UTC)}
	second := domain.VersionInfo{Version: "3.2", DerivedStart: time.Date(2025, 7, 1, 5, 0, 0, 0, time.UTC)}

	assert.True(t, registry.Record(first))
	assert.False(t, registry.Record(second))

	got, ok := registry.Lookup("3.2")
	require.True(t, ok)
	assert.Equal(t, first.DerivedStart, got.DerivedStart)
	assert.Equal(t, 1, registry.Len())
}

func TestRegistryLookupMiss(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	_, ok := registry.Lookup("9.9")
	assert.False(t, ok)
}
