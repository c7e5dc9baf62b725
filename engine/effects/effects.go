// Package effects implements centralized state mutation via the Apply
// function. Every effect is one atomic operation applied in list order;
// a later effect sees the state mutated by earlier ones.
package effects

import (
	"fmt"

	"github.com/nathoo/wayfarer/engine/state"
	"github.com/nathoo/wayfarer/types"
)

// Apply applies a list of effects to the game state, mutating it.
// Returns the output lines collected from print effects, in order.
func Apply(s *types.State, defs *state.Defs, effs []types.Effect) []string {
	var output []string

	for _, eff := range effs {
		switch eff.Kind {
		case types.EffectPrint:
			// Static text, never state-interpolated.
			output = append(output, eff.Message)

		case types.EffectSetFlag:
			s.Flags[eff.Flag] = eff.Value

		case types.EffectSpawnItem:
			loc := state.Location(defs, s.Location)
			item := mustItem(defs, eff.Item)
			// Dedupe by name: repeated rule firings must not pile up copies.
			if !state.LocationHasItem(loc, item.Name) {
				loc.Items = append(loc.Items, item.Name)
			}

		case types.EffectGiveItem:
			item := mustItem(defs, eff.Item)
			s.Score += state.AddToInventory(s, item, eff.Count)
		}
	}

	return output
}

// mustItem resolves an item reference that load-time validation has
// already guaranteed to exist.
func mustItem(defs *state.Defs, name string) *types.Item {
	item := state.ResolveItem(defs, name)
	if item == nil {
		panic(fmt.Sprintf("effects: unknown item %q", name))
	}
	return item
}
