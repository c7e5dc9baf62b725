// Package types defines the shared data structures for the Wayfarer engine.
// This package contains only type definitions — no logic, no methods.
package types

// Item is a world object, created once at load time and referenced
// thereafter. Ownership moves between a location's item list and the
// player's inventory; items are never duplicated.
type Item struct {
	Name           string
	Description    string
	StartPosition  int
	TargetPosition int
	TargetPoints   int
	Edible         bool
	RestoreValue   int    // health restored when consumed
	SpecialEffect  string // status keyword, e.g. "energized"
	PickupRequires []Condition
	PickupBlocked  string // printed when PickupRequires is unmet
}

// Location is a place in the world. Commands maps a movement command
// string to the destination location id — the only way to move.
// Items and Visited are the only fields mutated after load.
type Location struct {
	ID       int
	Name     string
	Brief    string
	Long     string
	Commands map[string]int
	Items    []string // item names currently present (no counts)
	Visited  bool
}

// ConditionKind discriminates requirement predicate variants.
type ConditionKind int

const (
	CondFlagIs ConditionKind = iota // flag must equal Value (absent reads as no match)
	CondHasItem
	CondMinMoves
)

// Condition is a single requirement predicate. Only the fields relevant
// to its Kind are set.
type Condition struct {
	Kind  ConditionKind
	Flag  string
	Value bool
	Item  string
	Moves int
}

// EffectKind discriminates effect variants.
type EffectKind int

const (
	EffectPrint EffectKind = iota
	EffectSetFlag
	EffectSpawnItem // add item to the current location, deduplicated by name
	EffectGiveItem  // add item units to inventory, scoring target points per unit
)

// Effect is a single atomic state mutation or output instruction.
// Only the fields relevant to its Kind are set.
type Effect struct {
	Kind    EffectKind
	Message string
	Flag    string
	Value   bool
	Item    string
	Count   int
}

// Rule is an ambient requirement/effect pair re-evaluated every turn.
// It is never consumed; authored flag guards are the only way a rule
// stops firing.
type Rule struct {
	Name        string
	MinMoves    int
	Requires    []Condition
	Effects     []Effect
	SourceOrder int
}

// Interaction is a location-scoped, command-triggered requirement/effect
// pair. Blocked is printed when the requirement is unmet (the turn is
// still consumed).
type Interaction struct {
	Command   string
	Locations []int
	Requires  []Condition
	Effects   []Effect
	Blocked   string
}

// DialogueLine is one NPC utterance gated by a requirement.
type DialogueLine struct {
	Text     string
	Requires []Condition
	Effects  []Effect
}

// NPC lives at a home location; the first line whose requirement is
// satisfied executes when the player talks to it.
type NPC struct {
	Name  string
	Home  int
	Lines []DialogueLine
}

// WinCondition ends the game when the player stands at Location holding
// every item in Items.
type WinCondition struct {
	Location int
	Items    []string
	Text     string
}

// GameDef holds world metadata.
type GameDef struct {
	Title    string
	Author   string
	Version  string
	Start    int
	Intro    string
	Win      *WinCondition // nil if the world has no win condition
	LossText string
}

// Settings are the tunable numeric parameters of a world.
type Settings struct {
	MovementTimerStart int
	HealthBarStart     int
	HungryStart        bool
	TimerRange         [2]int // inclusive base move cost range
	HungryTimerRange   [2]int // inclusive move cost range while starving
	HealthPerMove      int
	Menu               []string
}

// InventoryEntry pairs an item reference with a unit count.
// Invariant: Count >= 1; an entry at zero is deleted from the map.
type InventoryEntry struct {
	Item  *Item
	Count int
}

// State is the complete mutable game state for one session.
type State struct {
	Location      int
	Inventory     map[string]*InventoryEntry // keyed by lower-cased item name
	Flags         map[string]bool
	Score         int
	MovementTimer int
	HealthBar     int
	Hungry        bool
	Energized     bool
	MovesMade     int
	Ongoing       bool
	RNGSeed       int64
	CommandLog    []string
}

// Result is the output of dispatching a single command.
type Result struct {
	Handled   bool // false means the command was rejected and must be re-prompted
	TurnTaken bool // true when the command consumed a turn (rules swept)
	Output    []string
	Won       bool
	Lost      bool
}
