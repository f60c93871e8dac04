package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff    Level = iota // no tracing
	LevelError               // nothing is recorded; only crash dumps of a ring
	LevelPhase               // driver work and passes
	LevelDetail              // plus one span per top-level declaration
	LevelDebug               // plus node-level events from the lowering core
)

var levelNames = [...]string{"off", "error", "phase", "detail", "debug"}

// finest is the finest scope recorded at each level.
var finest = [...]Scope{LevelPhase: ScopePass, LevelDetail: ScopeUnit, LevelDebug: ScopeNode}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel accepts a level name in any case; empty means off.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return LevelOff, nil
	}
	for i, name := range levelNames {
		if name == s {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level %q (expected %s)", s, strings.Join(levelNames[:], "|"))
}

// ShouldEmit reports whether events of scope are recorded at l.
func (l Level) ShouldEmit(scope Scope) bool {
	return int(l) < len(finest) && scope != 0 && scope <= finest[l]
}
