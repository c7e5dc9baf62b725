package engine

import (
	"fmt"

	"github.com/nathoo/wayfarer/engine/state"
)

// Simulate replays a command sequence against a fresh session with a
// fixed seed and returns the visited-location-id log, for walkthrough
// validation and demo runs. Replay stops early if a command ends the
// session; a rejected command is an error, since scripted sequences are
// expected to be valid end to end.
func Simulate(defs *state.Defs, seed int64, commands []string) ([]int, error) {
	sess := New(defs, WithSeed(seed))

	for _, cmd := range commands {
		res := sess.HandleCommand(cmd)
		if !res.Handled {
			return nil, fmt.Errorf("invalid command %q at location %d", cmd, sess.State.Location)
		}
		if !sess.State.Ongoing {
			break
		}
	}

	return sess.Journal.IDLog(), nil
}
