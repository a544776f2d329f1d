// Package filterset holds the pure filter predicates: inclusion/exclusion
// regex, applied to file paths (never directories) during directory
// enumeration, and newer-than/older-than age bounds, applied afterwards by
// the consumer of the metadata batches.
package filterset

import (
	"regexp"
	"time"
)

// Set bundles the four configured filters. A nil Set (or zero Set) passes
// everything.
type Set struct {
	Include   *regexp.Regexp
	Exclude   *regexp.Regexp
	NewerThan *time.Time
	OlderThan *time.Time
}

// PassesPath reports whether a file path survives the configured include/
// exclude regexes. Inclusion is evaluated before exclusion — if Include is
// set and does not match, the path is rejected without ever evaluating
// Exclude. This is the only gate a worker applies before admitting a file
// into its batch; directories are never subject to it.
//
// The age filters are deliberately NOT part of batch admission: per the
// "largest files" top-N heap ignoring age filters (a file can be excluded
// from the direct/recursive totals yet still rank among the largest files
// observed), a file's presence in a batch cannot depend on its age. Age is
// instead applied by the aggregator per field — see PassesAge.
func (s Set) PassesPath(path string) bool {
	if s.Include != nil && !s.Include.MatchString(path) {
		return false
	}
	if s.Exclude != nil && s.Exclude.MatchString(path) {
		return false
	}
	return true
}

// PassesAge reports whether mtime survives the configured newer-than/
// older-than bounds. Used by the aggregator to decide whether an entry
// counts toward direct/recursive totals.
func (s Set) PassesAge(mtime time.Time) bool {
	if s.NewerThan != nil && !mtime.After(*s.NewerThan) {
		return false
	}
	if s.OlderThan != nil && !mtime.Before(*s.OlderThan) {
		return false
	}
	return true
}
