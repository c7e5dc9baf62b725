package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// randomWalk drives a session through up to steps valid commands drawn
// from whatever the current state offers, stopping early if the game
// ends. Every drawn command is guaranteed dispatchable, so the walk
// never exercises the rejection path.
func randomWalk(t *rapid.T, sess *Session, steps int) {
	for i := 0; i < steps && sess.State.Ongoing; i++ {
		options := append(sess.MovementCommands(), sess.SpecialCommands()...)
		options = append(options, "look", "inventory", "score", "log", "search")
		for key := range sess.State.Inventory {
			options = append(options, "drop "+key, "eat "+key)
		}

		cmd := rapid.SampledFrom(options).Draw(t, "cmd")
		res := sess.HandleCommand(cmd)
		require.True(t, res.Handled, "command %q must be handled", cmd)
	}
}

func TestRandomWalk_MeterInvariants(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.Int64().Draw(t, "seed")
		steps := rapid.IntRange(1, 60).Draw(t, "steps")

		sess := New(newTestDefs(), WithSeed(seed))
		prevScore := sess.State.Score

		for i := 0; i < steps && sess.State.Ongoing; i++ {
			options := append(sess.MovementCommands(), sess.SpecialCommands()...)
			options = append(options, "look", "inventory", "score", "log", "search")
			for key := range sess.State.Inventory {
				options = append(options, "drop "+key, "eat "+key)
			}
			cmd := rapid.SampledFrom(options).Draw(t, "cmd")
			sess.HandleCommand(cmd)

			require.GreaterOrEqual(t, sess.State.MovementTimer, 0, "timer after %q", cmd)
			require.GreaterOrEqual(t, sess.State.HealthBar, 0, "health after %q", cmd)
			require.LessOrEqual(t, sess.State.HealthBar, sess.Defs.Settings.HealthBarStart)
			require.GreaterOrEqual(t, sess.State.Score, prevScore, "score must never decrease")
			prevScore = sess.State.Score

			for name, entry := range sess.State.Inventory {
				require.GreaterOrEqual(t, entry.Count, 1, "inventory entry %q", name)
			}
		}
	})
}

func TestRandomWalk_JournalPairsWithCommandLog(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.Int64().Draw(t, "seed")
		steps := rapid.IntRange(1, 40).Draw(t, "steps")

		sess := New(newTestDefs(), WithSeed(seed))
		randomWalk(t, sess, steps)

		// One event per executed command plus the starting event, each
		// paired with the command that led out of it.
		require.Equal(t, len(sess.State.CommandLog)+1, sess.Journal.Len())
		for i, cmd := range sess.State.CommandLog {
			require.Equal(t, cmd, sess.Journal.At(i).NextCommand, "event %d", i)
		}
		last, ok := sess.Journal.Last()
		require.True(t, ok)
		require.Empty(t, last.NextCommand)
	})
}

func TestRandomWalk_ReplayIsDeterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.Int64().Draw(t, "seed")
		steps := rapid.IntRange(1, 40).Draw(t, "steps")

		sess := New(newTestDefs(), WithSeed(seed))
		randomWalk(t, sess, steps)
		script := sess.State.CommandLog

		first, err := Simulate(newTestDefs(), seed, script)
		require.NoError(t, err)
		second, err := Simulate(newTestDefs(), seed, script)
		require.NoError(t, err)

		require.Equal(t, first, second)
		require.Equal(t, sess.Journal.IDLog(), first)
	})
}

func TestRandomWalk_EndedSessionIgnoresInput(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.Int64().Draw(t, "seed")

		sess := New(newTestDefs(), WithSeed(seed))
		randomWalk(t, sess, 200)
		sess.HandleCommand("quit")
		require.False(t, sess.State.Ongoing)

		snapshot := *sess.State
		res := sess.HandleCommand("north")
		require.False(t, res.Handled)
		require.Equal(t, snapshot.MovesMade, sess.State.MovesMade)
		require.Equal(t, snapshot.MovementTimer, sess.State.MovementTimer)
	})
}
