package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers the world-document constructors and the
// condition/effect helpers as Lua globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerConditionHelpers(L)
	registerEffectHelpers(L)
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Game { title = "...", start = 0, win = {...}, ... }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		coll.game = L.CheckTable(1)
		return 0
	}))

	// Settings { movement_timer_start = 120, timer_range = {5, 8}, ... }
	L.SetGlobal("Settings", L.NewFunction(func(L *lua.LState) int {
		coll.settings = L.CheckTable(1)
		return 0
	}))

	// Flags { locker_open = false, ... } — initial narrative flags.
	L.SetGlobal("Flags", L.NewFunction(func(L *lua.LState) int {
		coll.flags = L.CheckTable(1)
		return 0
	}))

	// Location(3) { ... } — curried: Location(id) returns a function
	// that takes the definition table.
	L.SetGlobal("Location", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckInt(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.locations = append(coll.locations, rawLocation{id: id, table: tbl})
			return 0
		}))
		return 1
	}))

	// Item "name" { ... } — curried.
	L.SetGlobal("Item", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.items = append(coll.items, rawItem{name: name, table: tbl})
			return 0
		}))
		return 1
	}))

	// NPC "name" { home = 2, lines = {...} } — curried.
	L.SetGlobal("NPC", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.npcs = append(coll.npcs, rawNPC{name: name, table: tbl})
			return 0
		}))
		return 1
	}))

	// Rule "name" { min_moves = 3, requires = {...}, effects = {...} } — curried.
	L.SetGlobal("Rule", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.rules = append(coll.rules, rawRule{
				name:  name,
				table: tbl,
				order: coll.nextSourceOrder(),
			})
			return 0
		}))
		return 1
	}))

	// Interaction { command = "open locker", locations = {8}, ... }
	L.SetGlobal("Interaction", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		coll.interactions = append(coll.interactions, rawInteraction{table: tbl})
		return 0
	}))
}

func registerConditionHelpers(L *lua.LState) {
	// FlagIs("flag", value)
	L.SetGlobal("FlagIs", L.NewFunction(func(L *lua.LState) int {
		flag := L.CheckString(1)
		value := L.CheckBool(2)
		tbl := L.NewTable()
		tbl.RawSetString("kind", lua.LString("flag_is"))
		tbl.RawSetString("flag", lua.LString(flag))
		tbl.RawSetString("value", lua.LBool(value))
		L.Push(tbl)
		return 1
	}))

	// HasItem("name")
	L.SetGlobal("HasItem", L.NewFunction(func(L *lua.LState) int {
		item := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("kind", lua.LString("has_item"))
		tbl.RawSetString("item", lua.LString(item))
		L.Push(tbl)
		return 1
	}))

	// MinMoves(n)
	L.SetGlobal("MinMoves", L.NewFunction(func(L *lua.LState) int {
		moves := L.CheckNumber(1)
		tbl := L.NewTable()
		tbl.RawSetString("kind", lua.LString("min_moves"))
		tbl.RawSetString("moves", moves)
		L.Push(tbl)
		return 1
	}))
}

func registerEffectHelpers(L *lua.LState) {
	// Print("message")
	L.SetGlobal("Print", L.NewFunction(func(L *lua.LState) int {
		message := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("kind", lua.LString("print"))
		tbl.RawSetString("message", lua.LString(message))
		L.Push(tbl)
		return 1
	}))

	// SetFlag("flag", value)
	L.SetGlobal("SetFlag", L.NewFunction(func(L *lua.LState) int {
		flag := L.CheckString(1)
		value := L.CheckBool(2)
		tbl := L.NewTable()
		tbl.RawSetString("kind", lua.LString("set_flag"))
		tbl.RawSetString("flag", lua.LString(flag))
		tbl.RawSetString("value", lua.LBool(value))
		L.Push(tbl)
		return 1
	}))

	// SpawnItem("name") — add to the current location, deduplicated.
	L.SetGlobal("SpawnItem", L.NewFunction(func(L *lua.LState) int {
		item := L.CheckString(1)
		tbl := L.NewTable()
		tbl.RawSetString("kind", lua.LString("spawn_item"))
		tbl.RawSetString("item", lua.LString(item))
		L.Push(tbl)
		return 1
	}))

	// GiveItem("name") or GiveItem("name", count)
	L.SetGlobal("GiveItem", L.NewFunction(func(L *lua.LState) int {
		item := L.CheckString(1)
		count := 1
		if L.GetTop() >= 2 {
			count = L.CheckInt(2)
		}
		tbl := L.NewTable()
		tbl.RawSetString("kind", lua.LString("give_item"))
		tbl.RawSetString("item", lua.LString(item))
		tbl.RawSetString("count", lua.LNumber(count))
		L.Push(tbl)
		return 1
	}))
}
