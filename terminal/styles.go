package terminal

import (
	"github.com/charmbracelet/lipgloss"
	ai "github.com/spetersoncode/aiagent"
)

// Centralized style definitions for terminal output.
var (
	LabelStyle     = lipgloss.NewStyle().Bold(true)
	UserStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4")) // blue
	AssistantStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")) // cyan
	ToolStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))            // dim gray
	ErrorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))            // red
	DimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Faint(true)
)

// RoleLabel renders the conversation prefix for role.
func RoleLabel(role ai.Role) string {
	switch role {
	case ai.RoleUser:
		return UserStyle.Render("You")
	case ai.RoleAssistant:
		return AssistantStyle.Render("Assistant")
	case ai.RoleTool:
		return ToolStyle.Render("Tool")
	default:
		return DimStyle.Render(string(role))
	}
}
