package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderStatusBar produces a full-width inverted status line showing the
// current location and the survival meters.
func (m Model) renderStatusBar() string {
	s := m.session.State
	loc := m.session.CurrentLocation()

	name := loc.Name
	if name == "" {
		name = fmt.Sprintf("Location %d", loc.ID)
	}

	left := fmt.Sprintf(" %s", name)
	if moves := m.session.MovementCommands(); len(moves) > 0 {
		left += " | Go: " + strings.Join(moves, ",")
	}

	right := fmt.Sprintf("Time:%d | HP:%d | Score:%d | Moves:%d ",
		s.MovementTimer, s.HealthBar, s.Score, s.MovesMade)
	if s.Hungry {
		right = "STARVING | " + right
	}
	if s.Energized {
		right = "ENERGIZED | " + right
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
