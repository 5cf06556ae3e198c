// Package dates resolves an event's start and end timestamps from
// free-form announcement text. A fixed-order cascade of strategies
// runs until one yields a pair with start strictly before end; text
// that defeats every strategy is skipped, never guessed at.
package dates

import (
	"regexp"
	"time"

	"EventScanner/internal/domain"
)

const (
	tokenPattern = `\d{4}/\d{1,2}/\d{1,2} \d{2}:\d{2}:\d{2}`
	tokenLayout  = "2006/1/2 15:04:05"
)

var (
	tokenExpr = regexp.MustCompile(tokenPattern)

	// End-date locators, tried in order. The dash before the end date
	// appears as either an en-dash or a plain hyphen in source text.
	endDashExpr      = regexp.MustCompile(`[–-]\s*(` + tokenPattern + `)`)
	endAnnotatedExpr = regexp.MustCompile(`(` + tokenPattern + `)\s*\((?:server time|UTC\+8)\)`)
	endPeriodExpr    = regexp.MustCompile(`Period[^0-9]*` + tokenPattern + `\s*[–-]\s*(` + tokenPattern + `)`)

	versionRefExpr = regexp.MustCompile(`(?i)after the Version (\d+\.\d+) update`)

	startDashExpr        = regexp.MustCompile(`(` + tokenPattern + `)\s*[–-]`)
	startPeriodExpr      = regexp.MustCompile(`Period:?\s*(` + tokenPattern + `)`)
	startEventPeriodExpr = regexp.MustCompile(`Event Period:?\s*(` + tokenPattern + `)`)
)

// VersionLookup resolves version references against the registry built
// during the first pass.
type VersionLookup interface {
	Lookup(version string) (domain.VersionInfo, bool)
}

// startStrategy proposes a start candidate for an already-located end
// date. Candidates failing start < end are rejected, not clamped.
type startStrategy func(text, endToken string, end time.Time) (time.Time, bool)

var startStrategies = []startStrategy{
	startBeforeDash,
	startAfterPeriod,
	startAfterEventPeriod,
	startFromAllDates,
	startFromFirstToken,
}

// Extract runs the cascade over normalized text. The returned range
// carries the version string when the start came from a version
// reference. Same text and registry state always produce the same
// result.
func Extract(text string, versions VersionLookup) (domain.DateRange, bool) {
	endToken, end, ok := locateEnd(text)
	if !ok {
		return domain.DateRange{}, false
	}

	// A version reference is authoritative: when present it either
	// resolves against the registry or the article is dropped, without
	// falling through to the textual start patterns.
	if ref := versionRefExpr.FindStringSubmatch(text); ref != nil {
		if versions == nil {
			return domain.DateRange{}, false
		}
		info, found := versions.Lookup(ref[1])
		if !found || !info.DerivedStart.Before(end) {
			return domain.DateRange{}, false
		}
		return domain.DateRange{Start: info.DerivedStart, End: end, Version: ref[1]}, true
	}

	for _, strategy := range startStrategies {
		if start, found := strategy(text, endToken, end); found && start.Before(end) {
			return domain.DateRange{Start: start, End: end}, true
		}
	}

	return domain.DateRange{}, false
}

func locateEnd(text string) (string, time.Time, bool) {
	for _, expr := range []*regexp.Regexp{endDashExpr, endAnnotatedExpr, endPeriodExpr} {
		if m := expr.FindStringSubmatch(text); m != nil {
			if end, err := time.Parse(tokenLayout, m[1]); err == nil {
				return m[1], end, true
			}
		}
	}
	return "", time.Time{}, false
}

func startBeforeDash(text, _ string, _ time.Time) (time.Time, bool) {
	return parseFirstSubmatch(startDashExpr, text)
}

func startAfterPeriod(text, _ string, _ time.Time) (time.Time, bool) {
	return parseFirstSubmatch(startPeriodExpr, text)
}

func startAfterEventPeriod(text, _ string, _ time.Time) (time.Time, bool) {
	return parseFirstSubmatch(startEventPeriodExpr, text)
}

// startFromAllDates picks the first token in text order that differs
// from the end token and falls strictly before it.
func startFromAllDates(text, endToken string, end time.Time) (time.Time, bool) {
	tokens := tokenExpr.FindAllString(text, -1)
	if len(tokens) < 2 {
		return time.Time{}, false
	}

	for _, token := range tokens {
		if token == endToken {
			continue
		}
		start, err := time.Parse(tokenLayout, token)
		if err != nil {
			continue
		}
		if start.Before(end) {
			return start, true
		}
	}
	return time.Time{}, false
}

// startFromFirstToken is the last resort: with at least two tokens in
// the text, take the very first one.
func startFromFirstToken(text, _ string, end time.Time) (time.Time, bool) {
	tokens := tokenExpr.FindAllString(text, -1)
	if len(tokens) < 2 {
		return time.Time{}, false
	}

	start, err := time.Parse(tokenLayout, tokens[0])
	if err != nil {
		return time.Time{}, false
	}
	return start, true
}

func parseFirstSubmatch(expr *regexp.Regexp, text string) (time.Time, bool) {
	m := expr.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	t, err := time.Parse(tokenLayout, m[1])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
