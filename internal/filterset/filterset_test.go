package filterset

import (
	"regexp"
	"testing"
	"time"
)

func TestPassesPathZeroValuePassesEverything(t *testing.T) {
	var s Set
	if !s.PassesPath("/anything/at/all.txt") {
		t.Fatal("zero-value Set must pass every path")
	}
}

func TestPassesPathIncludeOnly(t *testing.T) {
	s := Set{Include: regexp.MustCompile(`\.log$`)}
	if !s.PassesPath("a/b.log") {
		t.Error("expected .log file to pass Include filter")
	}
	if s.PassesPath("a/b.txt") {
		t.Error("expected .txt file to fail Include filter")
	}
}

func TestPassesPathExcludeOnly(t *testing.T) {
	s := Set{Exclude: regexp.MustCompile(`/tmp/`)}
	if s.PassesPath("/tmp/scratch.txt") {
		t.Error("expected /tmp/ path to fail Exclude filter")
	}
	if !s.PassesPath("/data/scratch.txt") {
		t.Error("expected non-/tmp/ path to pass Exclude filter")
	}
}

func TestPassesPathIncludeEvaluatedBeforeExclude(t *testing.T) {
	s := Set{
		Include: regexp.MustCompile(`\.log$`),
		Exclude: regexp.MustCompile(`/tmp/`),
	}
	// Fails Include outright; Exclude would have passed it, but Include
	// rejection must short-circuit first.
	if s.PassesPath("/data/file.txt") {
		t.Error("expected rejection by Include before Exclude is considered")
	}
	if s.PassesPath("/tmp/file.log") {
		t.Error("expected rejection by Exclude even though Include matched")
	}
	if !s.PassesPath("/data/file.log") {
		t.Error("expected a path passing both Include and Exclude to pass")
	}
}

func TestPassesAgeZeroValuePassesEverything(t *testing.T) {
	var s Set
	if !s.PassesAge(time.Now()) {
		t.Fatal("zero-value Set must pass every mtime")
	}
}

func TestPassesAgeNewerThan(t *testing.T) {
	cutoff := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := Set{NewerThan: &cutoff}

	if !s.PassesAge(cutoff.Add(time.Hour)) {
		t.Error("expected mtime after cutoff to pass NewerThan")
	}
	if s.PassesAge(cutoff) {
		t.Error("expected mtime exactly at cutoff to fail NewerThan (strict After)")
	}
	if s.PassesAge(cutoff.Add(-time.Hour)) {
		t.Error("expected mtime before cutoff to fail NewerThan")
	}
}

func TestPassesAgeOlderThan(t *testing.T) {
	cutoff := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := Set{OlderThan: &cutoff}

	if !s.PassesAge(cutoff.Add(-time.Hour)) {
		t.Error("expected mtime before cutoff to pass OlderThan")
	}
	if s.PassesAge(cutoff) {
		t.Error("expected mtime exactly at cutoff to fail OlderThan (strict Before)")
	}
	if s.PassesAge(cutoff.Add(time.Hour)) {
		t.Error("expected mtime after cutoff to fail OlderThan")
	}
}

func TestPassesAgeBothBoundsFormARange(t *testing.T) {
	newer := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	older := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	s := Set{NewerThan: &newer, OlderThan: &older}

	mid := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	if !s.PassesAge(mid) {
		t.Error("expected mtime between the two bounds to pass")
	}
	if s.PassesAge(newer.Add(-time.Hour)) {
		t.Error("expected mtime before NewerThan to fail")
	}
	if s.PassesAge(older.Add(time.Hour)) {
		t.Error("expected mtime after OlderThan to fail")
	}
}
