// Package version extracts version start times from maintenance
// announcements and keeps a run-scoped registry of them.
package version

import (
	"regexp"
	"time"

	"EventScanner/internal/domain"
)

// MaintenanceDuration is the assumed gap between the announced
// maintenance begin time and the moment the version actually goes live.
// A hardcoded heuristic with no observed configurability.
const MaintenanceDuration = 5 * time.Hour

const beginLayout = "2006/1/2 15:04:05"

var (
	versionExpr = regexp.MustCompile(`Version (\d+\.\d+)`)
	beginExpr   = regexp.MustCompile(`Begins at (\d{4}/\d{1,2}/\d{1,2} \d{2}:\d{2}:\d{2})`)
)

// ParseUpdate scans normalized announcement text for a version number
// and its maintenance begin time. Both must be present.
func ParseUpdate(text string) (domain.VersionInfo, bool) {
	versionMatch := versionExpr.FindStringSubmatch(text)
	beginMatch := beginExpr.FindStringSubmatch(text)
	if versionMatch == nil || beginMatch == nil {
		return domain.VersionInfo{}, false
	}

	announced, err := time.Parse(beginLayout, beginMatch[1])
	if err != nil {
		return domain.VersionInfo{}, false
	}

	return domain.VersionInfo{
		Version:           versionMatch[1],
		UpdateAnnouncedAt: announced,
		DerivedStart:      announced.Add(MaintenanceDuration),
	}, true
}

// Registry maps version strings to their derived start times. It is
// populated during the orchestrator's first pass and read-only after.
type Registry struct {
	entries map[string]domain.VersionInfo
}

// NewRegistry builds an empty registry; one is constructed per run.
func NewRegistry() *Registry {
	return &Registry{entries: map[string]domain.VersionInfo{}}
}

// Record inserts a version entry. The first observation wins: duplicate
// maintenance posts for the same version are ignored, so the entry an
// event article resolves against never shifts mid-run.
func (r *Registry) Record(info domain.VersionInfo) bool {
	if _, exists := r.entries[info.Version]; exists {
		return false
	}
	r.entries[info.Version] = info
	return true
}

// Lookup returns the entry for a version; a miss is not an error.
func (r *Registry) Lookup(version string) (domain.VersionInfo, bool) {
	info, ok := r.entries[version]
	return info, ok
}

// Len reports how many versions have been recorded.
func (r *Registry) Len() int {
	return len(r.entries)
}
