package tui

import (
	"fmt"
	"strings"
	"testing"

	"github.com/nathoo/wayfarer/engine"
	"github.com/nathoo/wayfarer/engine/state"
	"github.com/nathoo/wayfarer/types"
)

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		line string
		want lineKind
	}{
		{"You found: brass key!", kindFound},
		{"You can: look, inventory, quit", kindCommands},
		{"You can go: east, north", kindCommands},
		{"At this location, you can also: talk dockhand", kindCommands},
		{"[Goodbye.]", kindSystem},
		{"[trace] moves=3 timer=80", kindTrace},
		{"You aren't carrying that.", kindError},
		{"You can't eat the lamp.", kindError},
		{"You don't have that item.", kindError},
		{"There is no one by that name here.", kindError},
		{"Dockhand: Check the crates in the warehouse.", kindDialogue},
		{"A weathered pier stretches out over gray water.", kindNarrative},
		{"Dropped bread.", kindNarrative},
		{"", kindNarrative},
	}
	for _, tt := range tests {
		got := classifyLine(tt.line)
		if got != tt.want {
			t.Errorf("classifyLine(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestIsDialogueLine(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"Warden: Keys? Never seen any.", true},
		{"Old Dockhand: Found the key yet?", true},
		{"No colon here at all.", false},
		{"A sentence. With: a colon mid-way.", false},
		{"This is a very long opening clause that eventually: speaks", false},
	}
	for _, tt := range tests {
		got := isDialogueLine(tt.line)
		if got != tt.want {
			t.Errorf("isDialogueLine(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestWordWrap(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  string
	}{
		{"short", 80, "short"},
		{"hello world", 5, "hello\nworld"},
		{"The weathered pier stretches before you into the cold fog.", 30,
			"The weathered pier stretches\nbefore you into the cold fog."},
		{"", 80, ""},
		{"one", 80, "one"},
		{"a b c d e", 3, "a b\nc d\ne"},
	}
	for _, tt := range tests {
		got := wordWrap(tt.text, tt.width)
		if got != tt.want {
			t.Errorf("wordWrap(%q, %d) =\n  %q\nwant:\n  %q", tt.text, tt.width, got, tt.want)
		}
	}
}

func TestRecall_WalkBack(t *testing.T) {
	r := &recall{}
	r.remember("look")
	r.remember("north")
	r.remember("search")

	for _, want := range []string{"search", "north", "look"} {
		got, ok := r.older()
		if !ok || got != want {
			t.Errorf("older() = %q (ok=%v), want %q", got, ok, want)
		}
	}

	// At the oldest command the walk stays put.
	got, ok := r.older()
	if !ok || got != "look" {
		t.Errorf("older() at boundary = %q (ok=%v), want %q", got, ok, "look")
	}
}

func TestRecall_WalkForward(t *testing.T) {
	r := &recall{}
	r.remember("look")
	r.remember("north")

	r.older() // "north"
	r.older() // "look"

	got, ok := r.newer()
	if !ok || got != "north" {
		t.Errorf("newer() = %q (ok=%v), want %q", got, ok, "north")
	}

	// Past the most recent command the line goes back to fresh input.
	if _, ok := r.newer(); ok {
		t.Error("expected false past the most recent command")
	}
}

func TestRecall_Empty(t *testing.T) {
	r := &recall{}
	if _, ok := r.older(); ok {
		t.Error("expected false with nothing recorded")
	}
	if _, ok := r.newer(); ok {
		t.Error("expected false with nothing recorded")
	}
}

func TestRecall_DropsOldestAtDepth(t *testing.T) {
	r := &recall{}
	r.remember("first")
	for i := 0; i < recallDepth; i++ {
		r.remember(fmt.Sprintf("cmd %d", i))
	}

	if len(r.cmds) != recallDepth {
		t.Fatalf("len = %d, want %d", len(r.cmds), recallDepth)
	}
	if r.cmds[0] == "first" {
		t.Error("oldest command must be dropped at depth")
	}
}

func TestRecall_SkipsRepeatedCommand(t *testing.T) {
	r := &recall{}
	r.remember("look")
	r.remember("look")
	r.remember("look")

	if len(r.cmds) != 1 {
		t.Errorf("len = %d, want 1", len(r.cmds))
	}
}

func TestRecall_Reset(t *testing.T) {
	r := &recall{}
	r.remember("look")
	r.remember("north")

	r.older() // "north"
	r.reset()

	// After reset the walk starts from the most recent command again.
	got, ok := r.older()
	if !ok || got != "north" {
		t.Errorf("older() after reset = %q (ok=%v), want %q", got, ok, "north")
	}
}

// testDefs returns minimal world definitions for TUI testing.
func testDefs() *state.Defs {
	return &state.Defs{
		Game: types.GameDef{
			Title:   "Test World",
			Author:  "Test",
			Version: "1.0",
			Start:   0,
			Intro:   "Welcome to the test.",
		},
		Settings: types.Settings{
			MovementTimerStart: 100,
			HealthBarStart:     5,
			TimerRange:         [2]int{5, 8},
			HungryTimerRange:   [2]int{10, 16},
			HealthPerMove:      1,
			Menu:               []string{"look", "inventory", "score", "log", "search", "quit"},
		},
		Locations: map[int]*types.Location{
			0: {
				ID:       0,
				Name:     "Hall",
				Brief:    "The hall.",
				Long:     "A grand hall.",
				Commands: map[string]int{"north": 1},
			},
			1: {
				ID:       1,
				Name:     "Garden",
				Brief:    "The garden.",
				Long:     "A peaceful garden.",
				Commands: map[string]int{"south": 0},
			},
		},
		Items:        map[string]*types.Item{},
		InitialFlags: map[string]bool{},
	}
}

func TestHandleMeta_Quit(t *testing.T) {
	defs := testDefs()
	m := New(engine.New(defs), defs)

	_, quit := m.handleMeta("/quit")
	if !quit {
		t.Error("expected quit=true for /quit")
	}

	_, quit = m.handleMeta("/exit")
	if !quit {
		t.Error("expected quit=true for /exit")
	}
}

func TestHandleMeta_Help(t *testing.T) {
	defs := testDefs()
	m := New(engine.New(defs), defs)

	output, quit := m.handleMeta("/help")
	if quit {
		t.Error("help should not quit")
	}

	joined := strings.Join(output, "\n")
	for _, expected := range []string{"/quit", "/state", "look", "inventory", "talk <name>"} {
		if !strings.Contains(joined, expected) {
			t.Errorf("expected %q in help output", expected)
		}
	}
}

func TestHandleMeta_Trace(t *testing.T) {
	defs := testDefs()
	m := New(engine.New(defs), defs)

	output, _ := m.handleMeta("/trace")
	if !m.trace {
		t.Error("expected trace to be enabled")
	}
	if len(output) == 0 || !strings.Contains(output[0], "enabled") {
		t.Errorf("expected enabled message, got %v", output)
	}

	output, _ = m.handleMeta("/trace")
	if m.trace {
		t.Error("expected trace to be disabled")
	}
	if len(output) == 0 || !strings.Contains(output[0], "disabled") {
		t.Errorf("expected disabled message, got %v", output)
	}
}

func TestHandleMeta_Unknown(t *testing.T) {
	defs := testDefs()
	m := New(engine.New(defs), defs)

	output, quit := m.handleMeta("/bogus")
	if quit {
		t.Error("unknown command should not quit")
	}
	if len(output) == 0 || !strings.Contains(output[0], "Unknown command") {
		t.Errorf("expected unknown command message, got %v", output)
	}
}

func TestHandleMeta_State(t *testing.T) {
	defs := testDefs()
	m := New(engine.New(defs), defs)

	output, quit := m.handleMeta("/state")
	if quit {
		t.Error("state should not quit")
	}

	joined := strings.Join(output, "\n")
	if !strings.Contains(joined, "Location: 0") {
		t.Error("expected location in state output")
	}
	if !strings.Contains(joined, "Timer: 100") {
		t.Error("expected timer in state output")
	}
}

func TestDescribeLocation_VisitedNarration(t *testing.T) {
	defs := testDefs()
	m := New(engine.New(defs), defs)

	first := m.describeLocation()
	if len(first) != 1 || first[0] != "A grand hall." {
		t.Errorf("first visit = %v, want long description", first)
	}

	second := m.describeLocation()
	if len(second) != 1 || second[0] != "The hall." {
		t.Errorf("revisit = %v, want brief description", second)
	}
}

func TestCommandHelp_ListsMovement(t *testing.T) {
	defs := testDefs()
	m := New(engine.New(defs), defs)

	joined := strings.Join(m.commandHelp(), "\n")
	if !strings.Contains(joined, "You can: look") {
		t.Error("expected menu listing")
	}
	if !strings.Contains(joined, "You can go: north") {
		t.Error("expected movement listing")
	}
}
