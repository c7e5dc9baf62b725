// Package dialogue implements NPC line selection.
package dialogue

import (
	"github.com/nathoo/wayfarer/engine/rules"
	"github.com/nathoo/wayfarer/types"
)

// SelectLine scans the NPC's dialogue lines in authored order and returns
// the first whose requirement is satisfied. Lines are static and
// re-triggerable every turn. Returns (line, true) on a match, or
// (zero, false) when nothing applies.
func SelectLine(npc *types.NPC, s *types.State) (types.DialogueLine, bool) {
	for _, line := range npc.Lines {
		if rules.Met(line.Requires, s) {
			return line, true
		}
	}
	return types.DialogueLine{}, false
}
