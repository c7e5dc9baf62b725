package loader

import (
	"fmt"
	"os"
	"strings"

	"github.com/nathoo/wayfarer/engine/state"
	"github.com/nathoo/wayfarer/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// validate checks the compiled defs for referential integrity and
// consistency. Every id and name the engine can reach at runtime must
// resolve here — the engine panics on a miss instead of re-checking.
func validate(defs *state.Defs) error {
	ve := &ValidationError{}

	if len(defs.Locations) == 0 {
		ve.Errors = append(ve.Errors, "world defines no locations")
	}

	// Start location exists.
	if _, ok := defs.Locations[defs.Game.Start]; !ok && len(defs.Locations) > 0 {
		ve.Errors = append(ve.Errors, fmt.Sprintf(
			"start location %d not found in defined locations", defs.Game.Start))
	}

	// Movement destinations valid.
	for id, loc := range defs.Locations {
		for cmd, dest := range loc.Commands {
			if _, ok := defs.Locations[dest]; !ok {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"location %d command %q points to undefined location %d", id, cmd, dest))
			}
		}
	}

	// Item names unique under case folding — name resolution is
	// case-insensitive everywhere.
	folded := map[string]string{}
	for name := range defs.Items {
		key := strings.ToLower(name)
		if prev, dup := folded[key]; dup {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"item names %q and %q collide case-insensitively", prev, name))
		}
		folded[key] = name
	}

	// NPC names unique under case folding per home location, and homes exist.
	npcAt := map[string]string{}
	for _, npc := range defs.NPCs {
		if _, ok := defs.Locations[npc.Home]; !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"npc %q home %d does not match any defined location", npc.Name, npc.Home))
		}
		key := fmt.Sprintf("%d/%s", npc.Home, strings.ToLower(npc.Name))
		if prev, dup := npcAt[key]; dup {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"npc names %q and %q collide case-insensitively at location %d",
				prev, npc.Name, npc.Home))
		}
		npcAt[key] = npc.Name
		for i, line := range npc.Lines {
			ctx := fmt.Sprintf("npc %q line %d", npc.Name, i+1)
			validateConditions(line.Requires, defs, ctx, ve)
			validateEffects(line.Effects, defs, ctx, ve)
		}
	}

	// Rules.
	ruleNames := map[string]bool{}
	for _, rule := range defs.Rules {
		if ruleNames[rule.Name] {
			ve.Errors = append(ve.Errors, fmt.Sprintf("duplicate rule name %q", rule.Name))
		}
		ruleNames[rule.Name] = true
		ctx := fmt.Sprintf("rule %q", rule.Name)
		validateConditions(rule.Requires, defs, ctx, ve)
		validateEffects(rule.Effects, defs, ctx, ve)
	}

	// Interactions.
	for i, inter := range defs.Interactions {
		ctx := fmt.Sprintf("interaction %d (%q)", i+1, inter.Command)
		if inter.Command == "" {
			ve.Errors = append(ve.Errors, ctx+" has an empty command")
		}
		for _, locID := range inter.Locations {
			if _, ok := defs.Locations[locID]; !ok {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"%s references undefined location %d", ctx, locID))
			}
		}
		validateConditions(inter.Requires, defs, ctx, ve)
		validateEffects(inter.Effects, defs, ctx, ve)
	}

	// Win condition references.
	if win := defs.Game.Win; win != nil {
		if _, ok := defs.Locations[win.Location]; !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"win condition references undefined location %d", win.Location))
		}
		for _, name := range win.Items {
			if !itemDefined(defs, name) {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"win condition references undefined item %q", name))
			}
		}
	}

	// Item placement refs and pickup gates.
	for name, item := range defs.Items {
		validateConditions(item.PickupRequires, defs, fmt.Sprintf("item %q pickup", name), ve)
		if item.StartPosition >= 0 {
			if _, ok := defs.Locations[item.StartPosition]; !ok {
				ve.Warnings = append(ve.Warnings, fmt.Sprintf(
					"item %q start position %d does not match any defined location",
					name, item.StartPosition))
			}
		}
		if item.TargetPosition >= 0 {
			if _, ok := defs.Locations[item.TargetPosition]; !ok {
				ve.Warnings = append(ve.Warnings, fmt.Sprintf(
					"item %q target position %d does not match any defined location",
					name, item.TargetPosition))
			}
		}
	}

	for _, w := range ve.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateConditions(conditions []types.Condition, defs *state.Defs, ctx string, ve *ValidationError) {
	for _, cond := range conditions {
		switch cond.Kind {
		case types.CondFlagIs:
			if cond.Flag == "" {
				ve.Errors = append(ve.Errors, fmt.Sprintf("%s has a flag condition with no flag name", ctx))
			}
		case types.CondHasItem:
			if !itemDefined(defs, cond.Item) {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"%s condition references undefined item %q", ctx, cond.Item))
			}
		case types.CondMinMoves:
			if cond.Moves < 0 {
				ve.Errors = append(ve.Errors, fmt.Sprintf("%s has a negative min_moves", ctx))
			}
		}
	}
}

func validateEffects(effects []types.Effect, defs *state.Defs, ctx string, ve *ValidationError) {
	for _, eff := range effects {
		switch eff.Kind {
		case types.EffectSetFlag:
			if eff.Flag == "" {
				ve.Errors = append(ve.Errors, fmt.Sprintf("%s has a set_flag effect with no flag name", ctx))
			}
		case types.EffectSpawnItem:
			if !itemDefined(defs, eff.Item) {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"%s effect spawn_item references undefined item %q", ctx, eff.Item))
			}
		case types.EffectGiveItem:
			if !itemDefined(defs, eff.Item) {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"%s effect give_item references undefined item %q", ctx, eff.Item))
			}
			if eff.Count < 1 {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"%s effect give_item has a count below 1", ctx))
			}
		}
	}
}

// itemDefined reports whether name matches a defined item, case-insensitively.
func itemDefined(defs *state.Defs, name string) bool {
	return state.ResolveItem(defs, name) != nil
}
