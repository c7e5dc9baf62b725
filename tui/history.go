// Package tui provides a Bubble Tea terminal UI for the Wayfarer game engine.
package tui

// recallDepth caps how many submitted commands the input line can step
// back through before the oldest are dropped.
const recallDepth = 100

// recall lets the input line walk back through previously submitted
// commands. back counts steps from fresh input: 0 means not recalling,
// len(cmds) is the oldest retained command.
type recall struct {
	cmds []string
	back int
}

// remember records a submitted command. Repeating the most recent
// command records nothing.
func (r *recall) remember(cmd string) {
	if n := len(r.cmds); n > 0 && r.cmds[n-1] == cmd {
		return
	}
	r.cmds = append(r.cmds, cmd)
	if len(r.cmds) > recallDepth {
		r.cmds = r.cmds[1:]
	}
}

// older steps one command further into the past. At the oldest command
// it stays put. Returns ("", false) when nothing has been recorded.
func (r *recall) older() (string, bool) {
	if len(r.cmds) == 0 {
		return "", false
	}
	if r.back < len(r.cmds) {
		r.back++
	}
	return r.cmds[len(r.cmds)-r.back], true
}

// newer steps one command toward the present. Stepping past the most
// recent command returns ("", false), handing the line back to fresh
// input.
func (r *recall) newer() (string, bool) {
	if r.back <= 1 {
		r.back = 0
		return "", false
	}
	r.back--
	return r.cmds[len(r.cmds)-r.back], true
}

// reset abandons the walk so the next older() starts from the most
// recent command again.
func (r *recall) reset() {
	r.back = 0
}
