package loader

import (
	"fmt"
	"strings"

	"github.com/nathoo/wayfarer/engine/state"
	"github.com/nathoo/wayfarer/types"
	lua "github.com/yuin/gopher-lua"
)

// rawLocation holds a location table before compilation.
type rawLocation struct {
	id    int
	table *lua.LTable
}

// rawItem holds an item table before compilation.
type rawItem struct {
	name  string
	table *lua.LTable
}

// rawNPC holds an NPC table before compilation.
type rawNPC struct {
	name  string
	table *lua.LTable
}

// rawRule holds a rule before compilation.
type rawRule struct {
	name  string
	table *lua.LTable
	order int
}

// rawInteraction holds an interaction table before compilation.
type rawInteraction struct {
	table *lua.LTable
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	v := tbl.RawGetString(key)
	if b, ok := v.(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getNumber returns a numeric field from a Lua table, or the default if missing.
func getNumber(tbl *lua.LTable, key string, def float64) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return def
}

// getInt returns an int field from a Lua table, or the default if missing.
func getInt(tbl *lua.LTable, key string, def int) int {
	return int(getNumber(tbl, key, float64(def)))
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// tableToStringSlice converts an array-style Lua table to []string.
func tableToStringSlice(tbl *lua.LTable) []string {
	if tbl == nil {
		return nil
	}
	var out []string
	tbl.ForEach(func(k, v lua.LValue) {
		if _, ok := k.(lua.LNumber); !ok {
			return
		}
		if s, ok := v.(lua.LString); ok {
			out = append(out, string(s))
		}
	})
	return out
}

// tableToIntSlice converts an array-style Lua table to []int.
func tableToIntSlice(tbl *lua.LTable) []int {
	if tbl == nil {
		return nil
	}
	var out []int
	tbl.ForEach(func(k, v lua.LValue) {
		if _, ok := k.(lua.LNumber); !ok {
			return
		}
		if n, ok := v.(lua.LNumber); ok {
			out = append(out, int(n))
		}
	})
	return out
}

// tableToIntPair converts a two-element Lua table to a [2]int range.
// Missing tables return the default.
func tableToIntPair(tbl *lua.LTable, def [2]int) [2]int {
	vals := tableToIntSlice(tbl)
	if len(vals) != 2 {
		return def
	}
	return [2]int{vals[0], vals[1]}
}

// defaultMenu is the command menu a world without Settings{menu=...}
// inherits.
var defaultMenu = []string{"look", "inventory", "score", "log", "search", "quit"}

// compile converts all collected Lua data into a Defs struct.
func compile(coll *collector) (*state.Defs, error) {
	defs := &state.Defs{
		Locations:    map[int]*types.Location{},
		Items:        map[string]*types.Item{},
		InitialFlags: map[string]bool{},
	}

	// Game metadata is optional; a world without Game{} starts at 0
	// with no win condition.
	if coll.game != nil {
		defs.Game = compileGame(coll.game)
	}

	defs.Settings = compileSettings(coll.settings)

	if coll.flags != nil {
		coll.flags.ForEach(func(k, v lua.LValue) {
			if ks, ok := k.(lua.LString); ok {
				if vb, ok := v.(lua.LBool); ok {
					defs.InitialFlags[string(ks)] = bool(vb)
				}
			}
		})
	}

	for _, raw := range coll.locations {
		if _, exists := defs.Locations[raw.id]; exists {
			return nil, fmt.Errorf("duplicate location id %d", raw.id)
		}
		defs.Locations[raw.id] = compileLocation(raw)
	}

	for _, raw := range coll.items {
		item := compileItem(raw)
		defs.Items[item.Name] = item
	}

	for _, raw := range coll.npcs {
		defs.NPCs = append(defs.NPCs, compileNPC(raw))
	}

	for _, raw := range coll.rules {
		defs.Rules = append(defs.Rules, compileRule(raw))
	}

	for _, raw := range coll.interactions {
		defs.Interactions = append(defs.Interactions, compileInteraction(raw))
	}

	// Seed each item's start position into its location's item list, in
	// authored order so co-located items always list identically.
	// Items with no start position (negative) enter the world only via
	// effects.
	for _, raw := range coll.items {
		item := defs.Items[raw.name]
		if item.StartPosition < 0 {
			continue
		}
		if loc, ok := defs.Locations[item.StartPosition]; ok {
			loc.Items = append(loc.Items, item.Name)
		}
	}

	return defs, nil
}

func compileGame(tbl *lua.LTable) types.GameDef {
	game := types.GameDef{
		Title:    getString(tbl, "title"),
		Author:   getString(tbl, "author"),
		Version:  getString(tbl, "version"),
		Start:    getInt(tbl, "start", 0),
		Intro:    getString(tbl, "intro"),
		LossText: getString(tbl, "loss"),
	}
	if winTbl := getTable(tbl, "win"); winTbl != nil {
		game.Win = &types.WinCondition{
			Location: getInt(winTbl, "location", 0),
			Items:    tableToStringSlice(getTable(winTbl, "items")),
			Text:     getString(winTbl, "text"),
		}
	}
	return game
}

func compileSettings(tbl *lua.LTable) types.Settings {
	if tbl == nil {
		tbl = &lua.LTable{}
	}
	settings := types.Settings{
		MovementTimerStart: getInt(tbl, "movement_timer_start", 120),
		HealthBarStart:     getInt(tbl, "health_bar_start", 5),
		HungryStart:        getBool(tbl, "hungry_start", false),
		TimerRange:         tableToIntPair(getTable(tbl, "timer_range"), [2]int{5, 8}),
		HungryTimerRange:   tableToIntPair(getTable(tbl, "hungry_timer_range"), [2]int{10, 16}),
		HealthPerMove:      getInt(tbl, "health_per_move", 1),
	}
	settings.Menu = tableToStringSlice(getTable(tbl, "menu"))
	if settings.Menu == nil {
		settings.Menu = append([]string{}, defaultMenu...)
	}
	for i, cmd := range settings.Menu {
		settings.Menu[i] = strings.ToLower(cmd)
	}
	return settings
}

func compileLocation(raw rawLocation) *types.Location {
	tbl := raw.table
	loc := &types.Location{
		ID:       raw.id,
		Name:     getString(tbl, "name"),
		Brief:    getString(tbl, "brief"),
		Long:     getString(tbl, "long"),
		Commands: map[string]int{},
	}
	if cmdTbl := getTable(tbl, "commands"); cmdTbl != nil {
		cmdTbl.ForEach(func(k, v lua.LValue) {
			ks, ok := k.(lua.LString)
			if !ok {
				return
			}
			if dest, ok := v.(lua.LNumber); ok {
				loc.Commands[strings.ToLower(string(ks))] = int(dest)
			}
		})
	}
	// A location without a short description falls back to the long one.
	if loc.Brief == "" {
		loc.Brief = loc.Long
	}
	return loc
}

func compileItem(raw rawItem) *types.Item {
	tbl := raw.table
	return &types.Item{
		Name:           raw.name,
		Description:    getString(tbl, "description"),
		StartPosition:  getInt(tbl, "start_position", -1),
		TargetPosition: getInt(tbl, "target_position", -1),
		TargetPoints:   getInt(tbl, "target_points", 0),
		Edible:         getBool(tbl, "edible", false),
		RestoreValue:   getInt(tbl, "restore_value", 0),
		SpecialEffect:  getString(tbl, "special_effect"),
		PickupRequires: compileConditions(getTable(tbl, "pickup_requires")),
		PickupBlocked:  getString(tbl, "pickup_blocked"),
	}
}

func compileNPC(raw rawNPC) types.NPC {
	tbl := raw.table
	npc := types.NPC{
		Name: raw.name,
		Home: getInt(tbl, "home", 0),
	}
	if linesTbl := getTable(tbl, "lines"); linesTbl != nil {
		linesTbl.ForEach(func(k, v lua.LValue) {
			if _, ok := k.(lua.LNumber); !ok {
				return
			}
			lineTbl, ok := v.(*lua.LTable)
			if !ok {
				return
			}
			npc.Lines = append(npc.Lines, types.DialogueLine{
				Text:     getString(lineTbl, "text"),
				Requires: compileConditions(getTable(lineTbl, "requires")),
				Effects:  compileEffects(getTable(lineTbl, "effects")),
			})
		})
	}
	return npc
}

func compileRule(raw rawRule) types.Rule {
	tbl := raw.table
	return types.Rule{
		Name:        raw.name,
		MinMoves:    getInt(tbl, "min_moves", 0),
		Requires:    compileConditions(getTable(tbl, "requires")),
		Effects:     compileEffects(getTable(tbl, "effects")),
		SourceOrder: raw.order,
	}
}

func compileInteraction(raw rawInteraction) types.Interaction {
	tbl := raw.table
	return types.Interaction{
		Command:   strings.ToLower(getString(tbl, "command")),
		Locations: tableToIntSlice(getTable(tbl, "locations")),
		Requires:  compileConditions(getTable(tbl, "requires")),
		Effects:   compileEffects(getTable(tbl, "effects")),
		Blocked:   getString(tbl, "blocked"),
	}
}

func compileConditions(tbl *lua.LTable) []types.Condition {
	if tbl == nil {
		return nil
	}
	var conditions []types.Condition
	tbl.ForEach(func(k, v lua.LValue) {
		if _, ok := k.(lua.LNumber); !ok {
			return
		}
		if condTbl, ok := v.(*lua.LTable); ok {
			conditions = append(conditions, compileCondition(condTbl))
		}
	})
	return conditions
}

func compileCondition(tbl *lua.LTable) types.Condition {
	switch getString(tbl, "kind") {
	case "has_item":
		return types.Condition{
			Kind: types.CondHasItem,
			Item: getString(tbl, "item"),
		}
	case "min_moves":
		return types.Condition{
			Kind:  types.CondMinMoves,
			Moves: getInt(tbl, "moves", 0),
		}
	default: // flag_is
		return types.Condition{
			Kind:  types.CondFlagIs,
			Flag:  getString(tbl, "flag"),
			Value: getBool(tbl, "value", true),
		}
	}
}

func compileEffects(tbl *lua.LTable) []types.Effect {
	if tbl == nil {
		return nil
	}
	var effects []types.Effect
	tbl.ForEach(func(k, v lua.LValue) {
		if _, ok := k.(lua.LNumber); !ok {
			return
		}
		if effTbl, ok := v.(*lua.LTable); ok {
			effects = append(effects, compileEffect(effTbl))
		}
	})
	return effects
}

func compileEffect(tbl *lua.LTable) types.Effect {
	switch getString(tbl, "kind") {
	case "set_flag":
		return types.Effect{
			Kind:  types.EffectSetFlag,
			Flag:  getString(tbl, "flag"),
			Value: getBool(tbl, "value", true),
		}
	case "spawn_item":
		return types.Effect{
			Kind: types.EffectSpawnItem,
			Item: getString(tbl, "item"),
		}
	case "give_item":
		return types.Effect{
			Kind:  types.EffectGiveItem,
			Item:  getString(tbl, "item"),
			Count: getInt(tbl, "count", 1),
		}
	default: // print
		return types.Effect{
			Kind:    types.EffectPrint,
			Message: getString(tbl, "message"),
		}
	}
}
