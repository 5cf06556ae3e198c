package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EventScanner/internal/domain"
	"EventScanner/internal/version"
)

func registryWith(t *testing.T, ver string, derivedStart time.Time) *version.Registry {
	t.Helper()
	registry := version.NewRegistry()
	require.True(t, registry.Record(domain.VersionInfo{Version: ver, DerivedStart: derivedStart}))
	return registry
}

func TestExtractExplicitRange(t *testing.T) {
	t.Parallel()

	text := "▌Event Period 2025/6/1 00:00:00 – 2025/6/18 12:00:00 (server time)"

	got, ok := Extract(text, version.NewRegistry())
	require.True(t, ok)

	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), got.Start)
	assert.Equal(t, time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC), got.End)
	assert.Empty(t, got.Version)
}

func TestExtractToleratesPlainHyphen(t *testing.T) {
	t.Parallel()

	text := "Event Period: 2025/6/1 00:00:00 - 2025/6/18 12:00:00"

	got, ok := Extract(text, version.NewRegistry())
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), got.Start)
}

func TestExtractFailsWithoutEndDate(t *testing.T) {
	t.Parallel()

	_, ok := Extract("Event Period: 2025/6/1 00:00:00 until further notice", version.NewRegistry())
	assert.False(t, ok)
}

func TestExtractFailsWithEndDateOnly(t *testing.T) {
	t.Parallel()

	// A lone dash-prefixed end date has no usable start candidate.
	_, ok := Extract("Ends – 2025/6/18 12:00:00", version.NewRegistry())
	assert.False(t, ok)
}

func TestExtractAnnotatedEndDate(t *testing.T) {
	t.Parallel()

	text := "Available from 2025/6/1 00:00:00 and ends 2025/6/18 12:00:00 (UTC+8)"

	got, ok := Extract(text, version.NewRegistry())
	require.True(t, ok)

	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), got.Start)
	assert.Equal(t, time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC), got.End)
}

func TestExtractVersionRelativeStart(t *testing.T) {
	t.Parallel()

	registry := registryWith(t, "3.2", time.Date(2025, 6, 1, 5, 0, 0, 0, time.UTC))
	text := "Available after the Version 3.2 update – 2025/6/18 12:00:00"

	got, ok := Extract(text, registry)
	require.True(t, ok)

	assert.Equal(t, time.Date(2025, 6, 1, 5, 0, 0, 0, time.UTC), got.Start)
	assert.Equal(t, time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC), got.End)
	assert.Equal(t, "3.2", got.Version)
}

func TestExtractVersionReferenceIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	registry := registryWith(t, "3.2", time.Date(2025, 6, 1, 5, 0, 0, 0, time.UTC))

	_, ok := Extract("after the version 3.2 update – 2025/6/18 12:00:00", registry)
	assert.True(t, ok)
}

func TestExtractRegistryMissFails(t *testing.T) {
	t.Parallel()

	// The version reference is authoritative: even with an explicit
	// start elsewhere in the text, a registry miss drops the article.
	text := "after the Version 9.9 update 2025/6/1 00:00:00 – 2025/6/18 12:00:00"

	_, ok := Extract(text, version.NewRegistry())
	assert.False(t, ok)
}

func TestExtractVersionStartAfterEndFails(t *testing.T) {
	t.Parallel()

	registry := registryWith(t, "3.2", time.Date(2025, 7, 1, 5, 0, 0, 0, time.UTC))

	_, ok := Extract("after the Version 3.2 update – 2025/6/18 12:00:00", registry)
	assert.False(t, ok)
}

func TestExtractRejectsInvertedExplicitRange(t *testing.T) {
	t.Parallel()

	_, ok := Extract("2025/6/20 00:00:00 – 2025/6/18 12:00:00", version.NewRegistry())
	assert.False(t, ok)
}

func TestExtractAllDatesFallback(t *testing.T) {
	t.Parallel()

	// No dash after the first token and no Period marker, so only the
	// all-dates fallback can find the start.
	text := "Starts at 2025/6/1 00:00:00 server time. Ends 2025/6/18 12:00:00 (server time)"

	got, ok := Extract(text, version.NewRegistry())
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), got.Start)
}

func TestStartFromFirstTokenRequiresTwoTokens(t *testing.T) {
	t.Parallel()

	end := time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC)

	_, ok := startFromFirstToken("only 2025/6/18 12:00:00 here", "2025/6/18 12:00:00", end)
	assert.False(t, ok)

	start, ok := startFromFirstToken("2025/6/1 00:00:00 and 2025/6/18 12:00:00", "2025/6/18 12:00:00", end)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), start)
}

func TestExtractIsDeterministic(t *testing.T) {
	t.Parallel()

	registry := registryWith(t, "3.2", time.Date(2025, 6, 1, 5, 0, 0, 0, time.UTC))
	text := "after the Version 3.2 update – 2025/6/18 12:00:00"

	first, ok1 := Extract(text, registry)
	second, ok2 := Extract(text, registry)

	assert.Equal(t, ok1, ok2)
	assert.Equal(t, first, second)
}
