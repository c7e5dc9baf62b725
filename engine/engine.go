// Package engine provides the turn-synchronous Session that wires
// together command classification, requirement evaluation, effects,
// meters, and the event journal.
package engine

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/nathoo/wayfarer/engine/dialogue"
	"github.com/nathoo/wayfarer/engine/effects"
	"github.com/nathoo/wayfarer/engine/journal"
	"github.com/nathoo/wayfarer/engine/rules"
	"github.com/nathoo/wayfarer/engine/state"
	"github.com/nathoo/wayfarer/types"
)

// Session holds the world definitions and all mutable per-playthrough
// state. It is single-threaded and strictly turn-synchronous; one
// session owns one State, one RNG, and one journal.
type Session struct {
	Defs    *state.Defs
	State   *types.State
	RNG     *RNG
	Journal *journal.Log

	log *zap.Logger
}

// Option configures a Session at construction time.
type Option func(*Session)

// WithSeed fixes the RNG seed so move-cost draws are reproducible.
func WithSeed(seed int64) Option {
	return func(s *Session) {
		s.State.RNGSeed = seed
		s.RNG = NewRNG(seed)
	}
}

// WithLogger attaches a structured logger for turn tracing.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		s.log = l
	}
}

// New creates a session from definitions and records the starting
// location as the journal's first event.
func New(defs *state.Defs, opts ...Option) *Session {
	s := &Session{
		Defs:    defs,
		State:   state.NewState(defs),
		Journal: journal.New(),
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.RNG == nil {
		s.RNG = NewRNG(s.State.RNGSeed)
	}

	start := state.Location(defs, s.State.Location)
	s.Journal.Append(start.ID, start.Long, "")
	return s
}

// HandleCommand classifies and executes one player command. The caller
// is expected to trim and case-fold input, but the session folds again
// defensively. Classification priority: menu commands, talk prefix,
// eat/drop prefixes, location interactions, movement. Anything else is
// rejected (Handled=false) with no state mutation and no journal entry.
func (s *Session) HandleCommand(input string) types.Result {
	cmd := strings.ToLower(strings.TrimSpace(input))
	if cmd == "" || !s.State.Ongoing {
		return types.Result{}
	}

	loc := state.Location(s.Defs, s.State.Location)

	var res types.Result
	switch {
	case s.isMenuCommand(cmd):
		res = s.runMenu(cmd, loc)

	case strings.HasPrefix(cmd, "talk "):
		name := strings.TrimSpace(strings.TrimPrefix(cmd, "talk "))
		npc := state.ResolveNPC(s.Defs, name, s.State.Location)
		if npc == nil {
			// Failed talk reports but consumes nothing and is not journaled.
			s.log.Debug("talk target not found", zap.String("name", name))
			return types.Result{Handled: true, Output: []string{"There is no one by that name here."}}
		}
		res = s.runTalk(npc)

	default:
		var ok bool
		if res, ok = s.tryItemOp(cmd, loc); ok {
			if !res.TurnTaken {
				// Failed item ops report but consume nothing and are not
				// journaled, same as a failed talk.
				return res
			}
			break
		}
		if res, ok = s.tryInteraction(cmd); ok {
			break
		}
		if dest, isMove := loc.Commands[cmd]; isMove {
			res = s.move(cmd, dest)
			break
		}
		s.log.Debug("command rejected", zap.String("command", cmd))
		return types.Result{}
	}

	s.State.CommandLog = append(s.State.CommandLog, cmd)

	// Post-turn rule sweep: only turn-consuming commands, and never on a
	// turn that already ended the game.
	if res.TurnTaken && s.State.Ongoing {
		res.Output = append(res.Output, s.sweepRules()...)
	}

	// The win check runs after every command, not only after movement.
	if s.State.Ongoing {
		if winOut, won := s.checkWin(); won {
			res.Won = true
			res.Output = append(res.Output, winOut...)
		}
	}

	current := state.Location(s.Defs, s.State.Location)
	s.Journal.Append(current.ID, current.Long, cmd)

	return res
}

// isMenuCommand reports whether cmd is one of the always-available menu
// commands for this world.
func (s *Session) isMenuCommand(cmd string) bool {
	for _, m := range s.Defs.Settings.Menu {
		if m == cmd {
			return true
		}
	}
	return false
}

// runMenu executes a menu command. Menu commands never consume movement
// cost or the move counter and never trigger the rule sweep.
func (s *Session) runMenu(cmd string, loc *types.Location) types.Result {
	res := types.Result{Handled: true}

	switch cmd {
	case "look":
		// "look" always shows the long description, visited or not.
		res.Output = append(res.Output, loc.Long)

	case "inventory":
		res.Output = append(res.Output, s.describeInventory()...)

	case "score":
		res.Output = append(res.Output, fmt.Sprintf("Your score is: %d", s.State.Score))

	case "log":
		for _, ev := range s.Journal.Events() {
			next := ev.NextCommand
			if next == "" {
				next = "none"
			}
			res.Output = append(res.Output, fmt.Sprintf("Location: %d, Command: %s", ev.LocationID, next))
		}

	case "search":
		res.Output = append(res.Output, s.runSearch(loc)...)

	case "quit":
		s.State.Ongoing = false
		res.Output = append(res.Output, "You stop for the day.")

	default:
		// Authored menu entry without built-in behavior.
		res.Output = append(res.Output, "Nothing happens.")
	}

	return res
}

// runSearch picks up every ungated item at the location, scoring target
// points per unit. Items with an unmet pickup gate stay on the ground;
// only an explicit "pick up" can claim them once the gate opens.
func (s *Session) runSearch(loc *types.Location) []string {
	var taken, left []string
	for _, name := range loc.Items {
		item := state.ResolveItem(s.Defs, name)
		if item == nil {
			panic(fmt.Sprintf("engine: location %d lists unknown item %q", loc.ID, name))
		}
		if !rules.Met(item.PickupRequires, s.State) {
			left = append(left, name)
			continue
		}
		s.State.Score += state.AddToInventory(s.State, item, 1)
		taken = append(taken, name)
	}
	loc.Items = left

	if len(taken) == 0 {
		return []string{"You turned up empty handed!"}
	}

	found := strings.Join(taken, ", ")
	s.log.Debug("search", zap.Int("location", loc.ID), zap.String("found", found))
	return []string{fmt.Sprintf("You found: %s!", found)}
}

// runTalk executes the first dialogue line whose requirement is met.
// An NPC with nothing to say still counts as a successful interaction.
func (s *Session) runTalk(npc *types.NPC) types.Result {
	res := types.Result{Handled: true, TurnTaken: true}

	line, ok := dialogue.SelectLine(npc, s.State)
	if !ok {
		res.Output = append(res.Output, fmt.Sprintf("%s has nothing new to say.", npc.Name))
		return res
	}

	res.Output = append(res.Output, effects.Apply(s.State, s.Defs, line.Effects)...)
	res.Output = append(res.Output, fmt.Sprintf("%s: %s", npc.Name, line.Text))
	s.log.Debug("talk", zap.String("npc", npc.Name))
	return res
}

// tryItemOp claims "pick up <item>", "eat <item>", and "drop <item>"
// only when the name resolves to a known item, so authored interaction
// commands that happen to start with these words still reach the
// interaction table.
func (s *Session) tryItemOp(cmd string, loc *types.Location) (types.Result, bool) {
	if name, ok := strings.CutPrefix(cmd, "pick up "); ok {
		if item := state.ResolveItem(s.Defs, name); item != nil {
			return s.pickUp(item, loc), true
		}
	}
	if name, ok := strings.CutPrefix(cmd, "eat "); ok {
		if state.ResolveItem(s.Defs, name) != nil {
			return s.consume(name), true
		}
	}
	if name, ok := strings.CutPrefix(cmd, "drop "); ok {
		if state.ResolveItem(s.Defs, name) != nil {
			return s.drop(name, loc), true
		}
	}
	return types.Result{}, false
}

// pickUp takes one named item from the current location, scoring its
// target points. An item-level pickup gate blocks with its authored
// message; a blocked or absent pickup consumes nothing.
func (s *Session) pickUp(item *types.Item, loc *types.Location) types.Result {
	if !state.LocationHasItem(loc, item.Name) {
		return types.Result{Handled: true, Output: []string{fmt.Sprintf("There is no %s here.", item.Name)}}
	}
	if !rules.Met(item.PickupRequires, s.State) {
		blocked := item.PickupBlocked
		if blocked == "" {
			blocked = fmt.Sprintf("You can't take the %s yet.", item.Name)
		}
		return types.Result{Handled: true, Output: []string{blocked}}
	}

	state.TakeItemFromLocation(loc, item.Name)
	s.State.Score += state.AddToInventory(s.State, item, 1)

	s.log.Debug("pick up", zap.String("item", item.Name), zap.Int("location", loc.ID))
	return types.Result{
		Handled:   true,
		TurnTaken: true,
		Output:    []string{fmt.Sprintf("You pick up the %s.", item.Name)},
	}
}

// consume eats one unit of an edible inventory item: health is restored
// by its restore value (capped at the starting health bar), starvation
// clears once health is above zero, and a special effect may set the
// energized status for the rest of the session.
func (s *Session) consume(name string) types.Result {
	key := strings.ToLower(strings.TrimSpace(name))
	entry, ok := s.State.Inventory[key]
	if !ok {
		return types.Result{Handled: true, Output: []string{"You aren't carrying that."}}
	}
	if !entry.Item.Edible {
		return types.Result{Handled: true, Output: []string{fmt.Sprintf("You can't eat the %s.", entry.Item.Name)}}
	}

	item, _ := state.RemoveFromInventory(s.State, key)

	s.State.HealthBar += item.RestoreValue
	if s.State.HealthBar > s.Defs.Settings.HealthBarStart {
		s.State.HealthBar = s.Defs.Settings.HealthBarStart
	}
	if s.State.HealthBar > 0 {
		s.State.Hungry = false
	}

	res := types.Result{Handled: true, TurnTaken: true}
	res.Output = append(res.Output, fmt.Sprintf("You eat the %s.", item.Name))
	if item.SpecialEffect == "energized" && !s.State.Energized {
		s.State.Energized = true
		res.Output = append(res.Output, "You feel energized!")
	}

	s.log.Debug("consume",
		zap.String("item", item.Name),
		zap.Int("health", s.State.HealthBar),
		zap.Bool("energized", s.State.Energized))
	return res
}

// drop moves one unit of an inventory item into the current location's
// item list.
func (s *Session) drop(name string, loc *types.Location) types.Result {
	item, ok := state.RemoveFromInventory(s.State, name)
	if !ok {
		return types.Result{Handled: true, Output: []string{"You don't have that item."}}
	}
	loc.Items = append(loc.Items, item.Name)
	return types.Result{
		Handled:   true,
		TurnTaken: true,
		Output:    []string{fmt.Sprintf("Dropped %s.", item.Name)},
	}
}

// tryInteraction dispatches an authored interaction valid at the current
// location. An unmet requirement still reports the interaction as found:
// the turn is consumed and a "not ready yet" message distinguishes it
// from an invalid command.
func (s *Session) tryInteraction(cmd string) (types.Result, bool) {
	for i := range s.Defs.Interactions {
		in := &s.Defs.Interactions[i]
		if in.Command != cmd || !containsID(in.Locations, s.State.Location) {
			continue
		}

		res := types.Result{Handled: true, TurnTaken: true}
		if !rules.Met(in.Requires, s.State) {
			blocked := in.Blocked
			if blocked == "" {
				blocked = "You can't do that yet."
			}
			res.Output = append(res.Output, blocked)
			s.log.Debug("interaction blocked", zap.String("command", cmd))
			return res, true
		}

		res.Output = append(res.Output, effects.Apply(s.State, s.Defs, in.Effects)...)
		s.log.Debug("interaction", zap.String("command", cmd))
		return res, true
	}
	return types.Result{}, false
}

// move resolves a movement command: relocate, draw and apply the time
// cost, decrement health, bump the move counter, and check for loss.
// The loss check runs before the rule sweep — HandleCommand skips the
// sweep once the session has ended.
func (s *Session) move(cmd string, dest int) types.Result {
	res := types.Result{Handled: true, TurnTaken: true}

	s.State.Location = dest

	cost := s.drawMoveCost()
	s.State.MovementTimer -= cost
	if s.State.MovementTimer < 0 {
		s.State.MovementTimer = 0
	}

	s.State.HealthBar -= s.Defs.Settings.HealthPerMove
	if s.State.HealthBar <= 0 {
		s.State.HealthBar = 0
		s.State.Hungry = true
	}

	s.State.MovesMade++

	s.log.Debug("move",
		zap.String("command", cmd),
		zap.Int("destination", dest),
		zap.Int("cost", cost),
		zap.Int("timer", s.State.MovementTimer),
		zap.Int("health", s.State.HealthBar))

	if s.State.MovementTimer == 0 {
		s.State.Ongoing = false
		res.Lost = true
		loss := s.Defs.Game.LossText
		if loss == "" {
			loss = "You have run out of time. Game over."
		}
		res.Output = append(res.Output, loss)
	}

	return res
}

// drawMoveCost draws the randomized time cost for one move: the hungry
// range while starving, halved (never below 1) while energized.
func (s *Session) drawMoveCost() int {
	r := s.Defs.Settings.TimerRange
	if s.State.Hungry {
		r = s.Defs.Settings.HungryTimerRange
	}
	cost := s.RNG.IntRange(r[0], r[1])
	if s.State.Energized {
		cost /= 2
		if cost < 1 {
			cost = 1
		}
	}
	return cost
}

// sweepRules applies every eligible ambient rule in authored order.
// Rules are not mutually exclusive and not consumed; later rules see the
// state mutated by earlier ones.
func (s *Session) sweepRules() []string {
	var out []string
	for _, r := range s.Defs.Rules {
		if !rules.Eligible(r, s.State) {
			continue
		}
		s.log.Debug("rule fired", zap.String("rule", r.Name), zap.Int("moves", s.State.MovesMade))
		out = append(out, effects.Apply(s.State, s.Defs, r.Effects)...)
	}
	return out
}

// checkWin tests the win condition: standing at the designated location
// holding every required item. On a win the remaining timer is added to
// the score and the session ends.
func (s *Session) checkWin() ([]string, bool) {
	win := s.Defs.Game.Win
	if win == nil || s.State.Location != win.Location {
		return nil, false
	}
	for _, name := range win.Items {
		if !state.HasItem(s.State, name) {
			return nil, false
		}
	}

	s.State.Score += s.State.MovementTimer
	s.State.Ongoing = false
	s.log.Debug("win", zap.Int("score", s.State.Score))

	text := win.Text
	if text == "" {
		text = "You made it. You win!"
	}
	return []string{text}, true
}

// describeInventory renders the inventory listing with unit counts.
func (s *Session) describeInventory() []string {
	if len(s.State.Inventory) == 0 {
		return []string{"Your inventory is empty!"}
	}

	keys := make([]string, 0, len(s.State.Inventory))
	for key := range s.State.Inventory {
		keys = append(keys, key)
	}
	sort.Strings(keys) // deterministic order

	out := []string{"--- Inventory ---"}
	for _, key := range keys {
		entry := s.State.Inventory[key]
		out = append(out, fmt.Sprintf("%s (x%d)", entry.Item.Name, entry.Count))
	}
	out = append(out, "-----------------")
	return out
}

// CurrentLocation returns the player's current location.
func (s *Session) CurrentLocation() *types.Location {
	return state.Location(s.Defs, s.State.Location)
}

// Menu returns the always-available menu commands.
func (s *Session) Menu() []string {
	out := make([]string, len(s.Defs.Settings.Menu))
	copy(out, s.Defs.Settings.Menu)
	return out
}

// SpecialCommands returns the talk-prefixed NPC commands and the
// interaction commands valid at the current location. Interactions are
// always listed even when their requirement is not yet satisfiable;
// gating happens at execution time.
func (s *Session) SpecialCommands() []string {
	var cmds []string
	for i := range s.Defs.NPCs {
		if s.Defs.NPCs[i].Home == s.State.Location {
			cmds = append(cmds, "talk "+strings.ToLower(s.Defs.NPCs[i].Name))
		}
	}
	for i := range s.Defs.Interactions {
		if containsID(s.Defs.Interactions[i].Locations, s.State.Location) {
			cmds = append(cmds, s.Defs.Interactions[i].Command)
		}
	}
	return cmds
}

// MovementCommands returns the current location's movement commands in
// sorted order, for prompt building.
func (s *Session) MovementCommands() []string {
	loc := state.Location(s.Defs, s.State.Location)
	cmds := make([]string, 0, len(loc.Commands))
	for cmd := range loc.Commands {
		cmds = append(cmds, cmd)
	}
	sort.Strings(cmds)
	return cmds
}

func containsID(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
