// Package classify tags articles by keyword containment. Precision is
// deliberately sacrificed for recall; false positives are dropped later
// when date extraction fails.
package classify

import "strings"

// versionUpdatePhrases signal a maintenance announcement that begins a
// new product version.
var versionUpdatePhrases = []string{
	"version update",
	"version maintenance",
	"paean of era nova",
	"welcome to version",
}

// eventKeywords signal a time-bounded in-product activity.
var eventKeywords = []string{
	"event period",
	"period:",
	"▌event period",
	"limited-time event",
	"event details",
	"garden of plenty",
	"planar fissure",
	"warp",
}

// IsVersionUpdate reports whether the article announces a version
// update or maintenance window.
func IsVersionUpdate(title, description string) bool {
	return containsAny(title, description, versionUpdatePhrases)
}

// IsEvent reports whether the article describes a time-bounded event.
func IsEvent(title, description string) bool {
	return containsAny(title, description, eventKeywords)
}

func containsAny(title, description string, phrases []string) bool {
	title = strings.ToLower(title)
	description = strings.ToLower(description)

	for _, phrase := range phrases {
		if strings.Contains(title, phrase) || strings.Contains(description, phrase) {
			return true
		}
	}
	return false
}
