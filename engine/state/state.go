// Package state holds the immutable world definitions, the mutable game
// state, and the lookup helpers shared by the engine packages.
package state

import (
	"fmt"
	"strings"

	"github.com/nathoo/wayfarer/types"
)

// Defs holds the world definitions produced by the loader. Everything here
// is read-only for the rest of the session except each location's Visited
// flag and item membership list.
type Defs struct {
	Game         types.GameDef
	Settings     types.Settings
	Locations    map[int]*types.Location
	Items        map[string]*types.Item // keyed by canonical (authored) name
	Rules        []types.Rule
	NPCs         []types.NPC
	Interactions []types.Interaction
	InitialFlags map[string]bool
}

// NewState creates a fresh game state from definitions. Meters start at
// the values the world's settings dictate; initial flags are copied so
// effects never mutate the defs.
func NewState(defs *Defs) *types.State {
	flags := make(map[string]bool, len(defs.InitialFlags))
	for name, value := range defs.InitialFlags {
		flags[name] = value
	}
	return &types.State{
		Location:      defs.Game.Start,
		Inventory:     map[string]*types.InventoryEntry{},
		Flags:         flags,
		MovementTimer: defs.Settings.MovementTimerStart,
		HealthBar:     defs.Settings.HealthBarStart,
		Hungry:        defs.Settings.HungryStart,
		Ongoing:       true,
		CommandLog:    []string{},
	}
}

// GetFlag returns the value of a flag. Unset flags read as false.
func GetFlag(s *types.State, name string) bool {
	return s.Flags[name]
}

// HasItem reports whether the player holds at least one unit of the item.
func HasItem(s *types.State, name string) bool {
	_, ok := s.Inventory[strings.ToLower(name)]
	return ok
}

// Location returns the location with the given id. The loader guarantees
// every id the engine can reach exists, so a miss is a programming error.
func Location(defs *Defs, id int) *types.Location {
	loc, ok := defs.Locations[id]
	if !ok {
		panic(fmt.Sprintf("state: unknown location id %d", id))
	}
	return loc
}

// ResolveItem returns the item matching raw (case-insensitive), or nil.
func ResolveItem(defs *Defs, raw string) *types.Item {
	target := strings.ToLower(strings.TrimSpace(raw))
	for name, item := range defs.Items {
		if strings.ToLower(name) == target {
			return item
		}
	}
	return nil
}

// ResolveNPC returns the NPC matching raw (case-insensitive) whose home
// is the given location, or nil.
func ResolveNPC(defs *Defs, raw string, locationID int) *types.NPC {
	target := strings.ToLower(strings.TrimSpace(raw))
	for i := range defs.NPCs {
		npc := &defs.NPCs[i]
		if npc.Home == locationID && strings.ToLower(npc.Name) == target {
			return npc
		}
	}
	return nil
}

// AddToInventory adds count units of item to the inventory, creating the
// entry if absent. Returns the points scored (target points per unit).
func AddToInventory(s *types.State, item *types.Item, count int) int {
	if count < 1 {
		count = 1
	}
	key := strings.ToLower(item.Name)
	if entry, ok := s.Inventory[key]; ok {
		entry.Count += count
	} else {
		s.Inventory[key] = &types.InventoryEntry{Item: item, Count: count}
	}
	return item.TargetPoints * count
}

// RemoveFromInventory removes one unit of the named item. The entry is
// deleted when its count reaches zero. Returns the item and whether a
// unit was actually removed.
func RemoveFromInventory(s *types.State, name string) (*types.Item, bool) {
	key := strings.ToLower(name)
	entry, ok := s.Inventory[key]
	if !ok {
		return nil, false
	}
	entry.Count--
	if entry.Count <= 0 {
		delete(s.Inventory, key)
	}
	return entry.Item, true
}

// LocationHasItem reports whether the location's item list contains the
// named item (case-insensitive).
func LocationHasItem(loc *types.Location, name string) bool {
	target := strings.ToLower(name)
	for _, present := range loc.Items {
		if strings.ToLower(present) == target {
			return true
		}
	}
	return false
}

// TakeItemFromLocation removes the first occurrence of the named item
// from the location's list. Returns whether an occurrence was removed.
func TakeItemFromLocation(loc *types.Location, name string) bool {
	target := strings.ToLower(name)
	for i, present := range loc.Items {
		if strings.ToLower(present) == target {
			loc.Items = append(loc.Items[:i], loc.Items[i+1:]...)
			return true
		}
	}
	return false
}
