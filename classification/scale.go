// Package classification defines the ordered sensitivity scale used by
// every access decision: UNCLASSIFIED < CONFIDENTIAL < SECRET < TOP_SECRET.
//
// Unknown levels never map to a mid-scale rank. Rank returns a sentinel
// below every valid rank, so a subject with an unrecognized clearance can
// not see anything and a resource with an unrecognized classification is
// handled by the caller as requiring maximum clearance.
package classification

import "strings"

// Level is a named sensitivity level.
type Level string

const (
	Unclassified Level = "UNCLASSIFIED"
	Confidential Level = "CONFIDENTIAL"
	Secret       Level = "SECRET"
	TopSecret    Level = "TOP_SECRET"
)

// RankUnknown is returned for levels outside the scale. It is strictly
// lower than every valid rank.
const RankUnknown = -1

var ranks = map[Level]int{
	Unclassified: 0,
	Confidential: 1,
	Secret:       2,
	TopSecret:    3,
}

var ordered = []Level{Unclassified, Confidential, Secret, TopSecret}

// Rank returns the numeric rank of a level, or RankUnknown for any level
// outside the scale. It never panics; callers log a data-integrity
// warning for unknown levels.
func Rank(l Level) int {
	if r, ok := ranks[l]; ok {
		return r
	}
	return RankUnknown
}

// Known reports whether l is a valid level of the scale.
func Known(l Level) bool {
	_, ok := ranks[l]
	return ok
}

// Parse canonicalizes a raw level string. The second return value is
// false when the string is not on the scale.
func Parse(s string) (Level, bool) {
	l := Level(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := ranks[l]
	return l, ok
}

// Levels returns all levels in ascending rank order.
func Levels() []Level {
	out := make([]Level, len(ordered))
	copy(out, ordered)
	return out
}

// AtOrBelow returns every level with rank at or below l, in ascending
// order. For an unknown level the result is empty: a principal whose
// clearance is off the scale is allowed nothing.
func AtOrBelow(l Level) []Level {
	ceiling, ok := ranks[l]
	if !ok {
		return nil
	}
	out := make([]Level, 0, ceiling+1)
	for _, lvl := range ordered {
		if ranks[lvl] <= ceiling {
			out = append(out, lvl)
		}
	}
	return out
}

// Max returns the highest level of the scale.
func Max() Level { return TopSecret }
