package terminal

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/wricardo/dragons-dungeon/game/players"
)

var (
	logoStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 2)

	menuStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#874BFD")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87"))
	infoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#999999"))
	winStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575"))
	lossStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF5F87"))
)

const logo = `
 ___                                    ___
|   \ _  _ _ _  __ _ ___ ___ _ _    _  |   \ _ _ __ _ __ _ ___ _ _  ___
| |) | || | ' \/ _' / -_) _ \ ' \  | | | |) | '_/ _' / _' / _ \ ' \(_-<
|___/ \_,_|_||_\__, \___\___/_||_| |_| |___/|_| \__,_\__, \___/_||_/__/
               |___/          &                      |___/`

func renderLogo() string {
	return logoStyle.Render(logo)
}

func renderMenu(lines ...string) string {
	return menuStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// RenderLeaderboard draws the standings as a table
func RenderLeaderboard(standings []players.Standing) string {
	if len(standings) == 0 {
		return infoStyle.Render("No players registered yet.")
	}

	rows := make([][]string, 0, len(standings))
	for _, s := range standings {
		rows = append(rows, []string{
			strconv.Itoa(s.Rank),
			s.Username,
			strconv.Itoa(s.GamesWon),
			strconv.Itoa(s.GamesLost),
			fmt.Sprintf("%.1f%%", s.WinRatio),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#874BFD"))).
		Headers("#", "PLAYER", "WON", "LOST", "WIN RATIO").
		Rows(rows...)
	return t.String()
}
