package loader

import (
	"testing"

	"github.com/nathoo/wayfarer/types"
	lua "github.com/yuin/gopher-lua"
)

// newTestVM creates a sandboxed Lua VM with the API registered and a fresh collector.
func newTestVM() (*lua.LState, *collector) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibs(L)
	sandbox(L)
	coll := &collector{}
	registerAPI(L, coll)
	return L, coll
}

func TestCompileGame(t *testing.T) {
	L, coll := newTestVM()
	defer L.Close()

	if err := L.DoString(`
		Game {
			title = "Test Game",
			author = "Author",
			version = "1.0",
			start = 2,
			intro = "Welcome!",
			win = { location = 5, items = { "lamp", "rope" }, text = "Done." },
			loss = "Out of time."
		}
	`); err != nil {
		t.Fatal(err)
	}

	game := compileGame(coll.game)

	if game.Title != "Test Game" {
		t.Errorf("Title = %q, want %q", game.Title, "Test Game")
	}
	if game.Author != "Author" {
		t.Errorf("Author = %q, want %q", game.Author, "Author")
	}
	if game.Start != 2 {
		t.Errorf("Start = %d, want 2", game.Start)
	}
	if game.LossText != "Out of time." {
		t.Errorf("LossText = %q", game.LossText)
	}
	if game.Win == nil {
		t.Fatal("Win is nil")
	}
	if game.Win.Location != 5 {
		t.Errorf("Win.Location = %d, want 5", game.Win.Location)
	}
	if len(game.Win.Items) != 2 || game.Win.Items[0] != "lamp" {
		t.Errorf("Win.Items = %v", game.Win.Items)
	}
}

func TestCompileSettings_Defaults(t *testing.T) {
	settings := compileSettings(nil)

	if settings.MovementTimerStart != 120 {
		t.Errorf("MovementTimerStart = %d, want 120", settings.MovementTimerStart)
	}
	if settings.HealthBarStart != 5 {
		t.Errorf("HealthBarStart = %d, want 5", settings.HealthBarStart)
	}
	if settings.TimerRange != [2]int{5, 8} {
		t.Errorf("TimerRange = %v, want [5 8]", settings.TimerRange)
	}
	if settings.HungryTimerRange != [2]int{10, 16} {
		t.Errorf("HungryTimerRange = %v, want [10 16]", settings.HungryTimerRange)
	}
	if settings.HealthPerMove != 1 {
		t.Errorf("HealthPerMove = %d, want 1", settings.HealthPerMove)
	}
	if len(settings.Menu) != 6 || settings.Menu[0] != "look" || settings.Menu[5] != "quit" {
		t.Errorf("Menu = %v", settings.Menu)
	}
}

func TestCompileSettings_Overrides(t *testing.T) {
	L, coll := newTestVM()
	defer L.Close()

	if err := L.DoString(`
		Settings {
			movement_timer_start = 40,
			timer_range = { 2, 3 },
			menu = { "LOOK", "Quit" }
		}
	`); err != nil {
		t.Fatal(err)
	}

	settings := compileSettings(coll.settings)

	if settings.MovementTimerStart != 40 {
		t.Errorf("MovementTimerStart = %d, want 40", settings.MovementTimerStart)
	}
	if settings.TimerRange != [2]int{2, 3} {
		t.Errorf("TimerRange = %v, want [2 3]", settings.TimerRange)
	}
	// Menu entries are lowercased.
	if len(settings.Menu) != 2 || settings.Menu[0] != "look" || settings.Menu[1] != "quit" {
		t.Errorf("Menu = %v", settings.Menu)
	}
	// Untouched fields keep their defaults.
	if settings.HealthBarStart != 5 {
		t.Errorf("HealthBarStart = %d, want 5", settings.HealthBarStart)
	}
}

func TestCompileLocation(t *testing.T) {
	L, coll := newTestVM()
	defer L.Close()

	if err := L.DoString(`
		Location(7) {
			name = "Cliff",
			brief = "The cliff edge.",
			long = "You stand at the edge of a windswept cliff.",
			commands = { NORTH = 2, ["climb down"] = 3 }
		}
	`); err != nil {
		t.Fatal(err)
	}

	if len(coll.locations) != 1 {
		t.Fatalf("expected 1 location, got %d", len(coll.locations))
	}
	loc := compileLocation(coll.locations[0])

	if loc.ID != 7 {
		t.Errorf("ID = %d, want 7", loc.ID)
	}
	if loc.Name != "Cliff" {
		t.Errorf("Name = %q", loc.Name)
	}
	// Command keys are lowercased.
	if loc.Commands["north"] != 2 {
		t.Errorf("Commands[north] = %d, want 2", loc.Commands["north"])
	}
	if loc.Commands["climb down"] != 3 {
		t.Errorf("Commands[climb down] = %d, want 3", loc.Commands["climb down"])
	}
}

func TestCompileLocation_BriefFallsBackToLong(t *testing.T) {
	L, coll := newTestVM()
	defer L.Close()

	if err := L.DoString(`
		Location(0) { name = "Spot", long = "A nondescript spot." }
	`); err != nil {
		t.Fatal(err)
	}

	loc := compileLocation(coll.locations[0])
	if loc.Brief != "A nondescript spot." {
		t.Errorf("Brief = %q, want the long description", loc.Brief)
	}
}

func TestCompileItem(t *testing.T) {
	L, coll := newTestVM()
	defer L.Close()

	if err := L.DoString(`
		Item "dried fish" {
			description = "Tough but filling.",
			start_position = 4,
			target_points = 10,
			edible = true,
			restore_value = 3,
			special_effect = "energized"
		}
	`); err != nil {
		t.Fatal(err)
	}

	item := compileItem(coll.items[0])

	if item.Name != "dried fish" {
		t.Errorf("Name = %q", item.Name)
	}
	if item.StartPosition != 4 {
		t.Errorf("StartPosition = %d, want 4", item.StartPosition)
	}
	if !item.Edible || item.RestoreValue != 3 {
		t.Errorf("Edible = %v, RestoreValue = %d", item.Edible, item.RestoreValue)
	}
	if item.SpecialEffect != "energized" {
		t.Errorf("SpecialEffect = %q", item.SpecialEffect)
	}
}

func TestCompileItem_DefaultsToUnplaced(t *testing.T) {
	L, coll := newTestVM()
	defer L.Close()

	if err := L.DoString(`Item "coin" { description = "A coin." }`); err != nil {
		t.Fatal(err)
	}

	item := compileItem(coll.items[0])
	if item.StartPosition != -1 {
		t.Errorf("StartPosition = %d, want -1 (unplaced)", item.StartPosition)
	}
	if item.TargetPosition != -1 {
		t.Errorf("TargetPosition = %d, want -1", item.TargetPosition)
	}
}

func TestCompileNPC(t *testing.T) {
	L, coll := newTestVM()
	defer L.Close()

	if err := L.DoString(`
		NPC "Warden" {
			home = 3,
			lines = {
				{ text = "Keys? Never seen any.", requires = { FlagIs("asked", false) },
				  effects = { SetFlag("asked", true) } },
				{ text = "Stop pestering me." }
			}
		}
	`); err != nil {
		t.Fatal(err)
	}

	npc := compileNPC(coll.npcs[0])

	if npc.Name != "Warden" || npc.Home != 3 {
		t.Errorf("Name = %q, Home = %d", npc.Name, npc.Home)
	}
	if len(npc.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(npc.Lines))
	}
	first := npc.Lines[0]
	if len(first.Requires) != 1 || first.Requires[0].Kind != types.CondFlagIs {
		t.Errorf("first line requires = %+v", first.Requires)
	}
	if first.Requires[0].Value {
		t.Error("FlagIs value = true, want false")
	}
	if len(first.Effects) != 1 || first.Effects[0].Kind != types.EffectSetFlag {
		t.Errorf("first line effects = %+v", first.Effects)
	}
	if len(npc.Lines[1].Requires) != 0 {
		t.Errorf("fallback line should have no requires, got %d", len(npc.Lines[1].Requires))
	}
}

func TestCompileRule_SourceOrder(t *testing.T) {
	L, coll := newTestVM()
	defer L.Close()

	if err := L.DoString(`
		Rule "first" { effects = { Print("a") } }
		Rule "second" { min_moves = 4, requires = { MinMoves(4) }, effects = { Print("b") } }
	`); err != nil {
		t.Fatal(err)
	}

	if len(coll.rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(coll.rules))
	}
	first := compileRule(coll.rules[0])
	second := compileRule(coll.rules[1])

	if first.SourceOrder >= second.SourceOrder {
		t.Errorf("source order not increasing: %d, %d", first.SourceOrder, second.SourceOrder)
	}
	if second.MinMoves != 4 {
		t.Errorf("MinMoves = %d, want 4", second.MinMoves)
	}
	if second.Requires[0].Kind != types.CondMinMoves || second.Requires[0].Moves != 4 {
		t.Errorf("requires = %+v", second.Requires)
	}
}

func TestCompileInteraction(t *testing.T) {
	L, coll := newTestVM()
	defer L.Close()

	if err := L.DoString(`
		Interaction {
			command = "Pull Lever",
			locations = { 1, 2 },
			requires = { HasItem("crowbar") },
			effects = { Print("Clank."), GiveItem("gear", 2) },
			blocked = "It will not budge."
		}
	`); err != nil {
		t.Fatal(err)
	}

	inter := compileInteraction(coll.interactions[0])

	if inter.Command != "pull lever" {
		t.Errorf("Command = %q, want lowercased", inter.Command)
	}
	if len(inter.Locations) != 2 || inter.Locations[1] != 2 {
		t.Errorf("Locations = %v", inter.Locations)
	}
	if inter.Requires[0].Kind != types.CondHasItem || inter.Requires[0].Item != "crowbar" {
		t.Errorf("Requires = %+v", inter.Requires)
	}
	if inter.Blocked != "It will not budge." {
		t.Errorf("Blocked = %q", inter.Blocked)
	}
	give := inter.Effects[1]
	if give.Kind != types.EffectGiveItem || give.Item != "gear" || give.Count != 2 {
		t.Errorf("give effect = %+v", give)
	}
}

func TestCompile_SeedsStartPositions(t *testing.T) {
	L, coll := newTestVM()
	defer L.Close()

	if err := L.DoString(`
		Location(0) { name = "A", long = "A." }
		Location(1) { name = "B", long = "B." }
		Item "lamp" { start_position = 1 }
		Item "ghost" { }
	`); err != nil {
		t.Fatal(err)
	}

	defs, err := compile(coll)
	if err != nil {
		t.Fatal(err)
	}

	if len(defs.Locations[1].Items) != 1 || defs.Locations[1].Items[0] != "lamp" {
		t.Errorf("location 1 items = %v, want [lamp]", defs.Locations[1].Items)
	}
	if len(defs.Locations[0].Items) != 0 {
		t.Errorf("location 0 items = %v, want empty", defs.Locations[0].Items)
	}
}

func TestCompile_SeedsCoLocatedItemsInAuthoredOrder(t *testing.T) {
	L, coll := newTestVM()
	defer L.Close()

	if err := L.DoString(`
		Location(0) { name = "Hoard", long = "A hoard." }
		Item "delta" { start_position = 0 }
		Item "alpha" { start_position = 0 }
		Item "beta" { start_position = 0 }
		Item "gamma" { start_position = 0 }
	`); err != nil {
		t.Fatal(err)
	}

	want := []string{"delta", "alpha", "beta", "gamma"}
	for run := 0; run < 5; run++ {
		defs, err := compile(coll)
		if err != nil {
			t.Fatal(err)
		}
		got := defs.Locations[0].Items
		if len(got) != len(want) {
			t.Fatalf("run %d: items = %v, want %v", run, got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("run %d: items = %v, want authored order %v", run, got, want)
			}
		}
	}
}

func TestCompileItem_PickupGate(t *testing.T) {
	L, coll := newTestVM()
	defer L.Close()

	if err := L.DoString(`
		Item "sword" {
			pickup_requires = { FlagIs("stone_lifted", true) },
			pickup_blocked = "It won't come free of the stone."
		}
	`); err != nil {
		t.Fatal(err)
	}

	item := compileItem(coll.items[0])

	if len(item.PickupRequires) != 1 {
		t.Fatalf("PickupRequires = %v, want one condition", item.PickupRequires)
	}
	cond := item.PickupRequires[0]
	if cond.Kind != types.CondFlagIs || cond.Flag != "stone_lifted" || cond.Value != true {
		t.Errorf("condition = %+v", cond)
	}
	if item.PickupBlocked != "It won't come free of the stone." {
		t.Errorf("PickupBlocked = %q", item.PickupBlocked)
	}
}

func TestCompile_DuplicateLocationID(t *testing.T) {
	L, coll := newTestVM()
	defer L.Close()

	if err := L.DoString(`
		Location(0) { name = "A", long = "A." }
		Location(0) { name = "B", long = "B." }
	`); err != nil {
		t.Fatal(err)
	}

	if _, err := compile(coll); err == nil {
		t.Fatal("expected error for duplicate location id")
	}
}
