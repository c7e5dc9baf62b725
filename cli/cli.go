// Package cli provides terminal I/O, prompt rendering, and meta-command
// dispatch for the Wayfarer game engine.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nathoo/wayfarer/engine"
	"github.com/nathoo/wayfarer/engine/state"
	"github.com/nathoo/wayfarer/types"
)

// CLI handles terminal interaction with the player.
type CLI struct {
	Session   *engine.Session
	Defs      *state.Defs
	In        io.Reader
	Out       io.Writer
	EchoInput bool             // echo each input line after the prompt (for script playback)
	Level     *zap.AtomicLevel // nil disables the /trace toggle
	lastCmd   string           // for "again"/"g" repeat
}

// New creates a CLI wired to the given session.
func New(sess *engine.Session, defs *state.Defs) *CLI {
	return &CLI{
		Session: sess,
		Defs:    defs,
		In:      os.Stdin,
		Out:     os.Stdout,
	}
}

// Run starts the game loop. It shows the intro, describes the starting
// location, then loops: prompt → input → dispatch → output. Rejected
// input is re-prompted without touching the session.
func (c *CLI) Run() {
	if c.Defs.Game.Intro != "" {
		c.printLine(c.Defs.Game.Intro)
		c.printLine("")
	}

	c.describeLocation(c.Session.CurrentLocation())
	c.printCommands()

	scanner := bufio.NewScanner(c.In)
	for c.Session.State.Ongoing {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		// Meta-commands start with '/'.
		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return // /quit
			}
			continue
		}

		// "again" / "g" repeats the last game command.
		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		before := c.Session.State.Location
		result := c.Session.HandleCommand(input)
		if !result.Handled {
			c.printLine("That's not something you can do here.")
			continue
		}

		c.printResult(result)
		if c.Session.State.Location != before {
			c.describeLocation(c.Session.CurrentLocation())
		}

		if !c.Session.State.Ongoing {
			break
		}
		c.printCommands()
	}

	c.printLine("")
	c.printLine(fmt.Sprintf("Final score: %d", c.Session.State.Score))
}

// describeLocation narrates a location: the long description on the
// first visit, the brief one after.
func (c *CLI) describeLocation(loc *types.Location) {
	if loc.Name != "" {
		c.printLine(fmt.Sprintf("-- %s --", loc.Name))
	}
	if loc.Visited {
		c.printLine(loc.Brief)
	} else {
		c.printLine(loc.Long)
		loc.Visited = true
	}
}

// printCommands renders the prompt help: the always-available menu, the
// location's special commands, and its movement commands.
func (c *CLI) printCommands() {
	c.printLine("You can: " + strings.Join(c.Session.Menu(), ", "))
	if special := c.Session.SpecialCommands(); len(special) > 0 {
		c.printLine("At this location, you can also: " + strings.Join(special, ", "))
	}
	if moves := c.Session.MovementCommands(); len(moves) > 0 {
		c.printLine("You can go: " + strings.Join(moves, ", "))
	}
}

// handleMeta dispatches meta-commands. Returns true if the game should exit.
func (c *CLI) handleMeta(input string) bool {
	switch strings.Fields(input)[0] {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/help":
		c.cmdHelp()

	case "/state":
		c.cmdState()

	case "/trace":
		c.cmdTrace()

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", input))
	}

	return false
}

func (c *CLI) cmdHelp() {
	help := []string{
		"System:",
		"  /quit   — Exit game",
		"  /help   — Show this help",
		"  /state  — Debug: dump current state",
		"  /trace  — Toggle debug trace output",
		"",
		"Game commands:",
		"  " + strings.Join(c.Session.Menu(), ", "),
		"  talk <name>  — Talk to someone here",
		"  eat <item>   — Eat something you carry",
		"  drop <item>  — Put something down",
		"  again (g)    — Repeat your last command",
		"",
		"Movement commands are listed under each location.",
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) cmdState() {
	s := c.Session.State
	c.printSystem(fmt.Sprintf("Location: %d", s.Location))
	c.printSystem(fmt.Sprintf("Moves: %d", s.MovesMade))
	c.printSystem(fmt.Sprintf("Timer: %d", s.MovementTimer))
	c.printSystem(fmt.Sprintf("Health: %d (hungry=%v, energized=%v)", s.HealthBar, s.Hungry, s.Energized))
	c.printSystem(fmt.Sprintf("Score: %d", s.Score))
	if len(s.Inventory) > 0 {
		var names []string
		for _, entry := range s.Inventory {
			names = append(names, fmt.Sprintf("%s x%d", entry.Item.Name, entry.Count))
		}
		c.printSystem("Inventory: " + strings.Join(names, ", "))
	}
	if len(s.Flags) > 0 {
		c.printSystem(fmt.Sprintf("Flags: %v", s.Flags))
	}
}

func (c *CLI) cmdTrace() {
	if c.Level == nil {
		c.printSystem("Trace output is not available.")
		return
	}
	if c.Level.Level() == zapcore.DebugLevel {
		c.Level.SetLevel(zapcore.InfoLevel)
		c.printSystem("Trace output disabled.")
	} else {
		c.Level.SetLevel(zapcore.DebugLevel)
		c.printSystem("Trace output enabled.")
	}
}

func (c *CLI) printResult(result types.Result) {
	for _, line := range result.Output {
		c.printLine(line)
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
