// Wayfarer is a deterministic, data-driven engine for turn-based survival
// adventures.
// Usage: wayfarer [--version] [--plain] [--script <file>] [--seed <n>] [--trace] <world_directory>
package main

import (
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nathoo/wayfarer/cli"
	"github.com/nathoo/wayfarer/engine"
	"github.com/nathoo/wayfarer/loader"
	"github.com/nathoo/wayfarer/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	plain := false
	trace := false
	var seed int64
	var worldDir string
	var scriptFile string

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("wayfarer %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			plain = true
		case "--trace":
			trace = true
		case "--seed":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--seed requires a number\n")
				os.Exit(1)
			}
			i++
			n, err := strconv.ParseInt(args[i], 10, 64)
			if err != nil {
				fmt.Fprintf(os.Stderr, "invalid seed %q: %v\n", args[i], err)
				os.Exit(1)
			}
			seed = n
		case "--script":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--script requires a file path\n")
				os.Exit(1)
			}
			i++
			scriptFile = args[i]
		default:
			if worldDir == "" {
				worldDir = args[i]
			}
		}
	}

	if worldDir == "" {
		fmt.Fprintf(os.Stderr, "Usage: wayfarer [--version] [--plain] [--script <file>] [--seed <n>] [--trace] <world_directory>\n")
		os.Exit(1)
	}

	// Load and compile Lua world content.
	defs, err := loader.Load(worldDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading world: %v\n", err)
		os.Exit(1)
	}

	// Turn tracing goes to stderr so it never interleaves with the
	// narrative on stdout.
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if trace {
		level.SetLevel(zapcore.DebugLevel)
	}
	logCfg := zap.NewDevelopmentConfig()
	logCfg.Level = level
	logCfg.OutputPaths = []string{"stderr"}
	logger, err := logCfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	sess := engine.New(defs, engine.WithSeed(seed), engine.WithLogger(logger))

	// Script mode: open file, force plain, echo commands.
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening script: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		printHeader(defs.Game.Title, defs.Game.Version, defs.Game.Author)
		c := cli.New(sess, defs)
		c.In = f
		c.EchoInput = true
		c.Level = &level
		c.Run()
		return
	}

	// Use plain CLI if --plain flag or stdout is not a terminal.
	if plain || !isTerminal() {
		printHeader(defs.Game.Title, defs.Game.Version, defs.Game.Author)
		c := cli.New(sess, defs)
		c.Level = &level
		c.Run()
		return
	}

	if err := tui.Run(sess, defs); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printHeader(title, version, author string) {
	if title == "" {
		return
	}
	line := title
	if version != "" {
		line += " v" + version
	}
	if author != "" {
		line += " by " + author
	}
	fmt.Println(line)
	fmt.Println()
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
