// Package rules evaluates requirement predicates against game state.
package rules

import (
	"github.com/nathoo/wayfarer/engine/state"
	"github.com/nathoo/wayfarer/types"
)

// Eval evaluates a single condition against the current state.
func Eval(c types.Condition, s *types.State) bool {
	switch c.Kind {
	case types.CondFlagIs:
		// An absent flag reads as false, so requiring true fails and
		// requiring false passes.
		return state.GetFlag(s, c.Flag) == c.Value

	case types.CondHasItem:
		return state.HasItem(s, c.Item)

	case types.CondMinMoves:
		return s.MovesMade >= c.Moves

	default:
		return false
	}
}

// Met returns true if all conditions pass (AND logic).
// An empty condition list is vacuously true.
func Met(conditions []types.Condition, s *types.State) bool {
	for _, c := range conditions {
		if !Eval(c, s) {
			return false
		}
	}
	return true
}

// Eligible reports whether an ambient rule should fire this turn: the
// move-count threshold is reached and the requirement is met. Rules are
// never consumed; a satisfied rule fires every turn until its own flag
// guards stop matching.
func Eligible(r types.Rule, s *types.State) bool {
	if s.MovesMade < r.MinMoves {
		return false
	}
	return Met(r.Requires, s)
}
