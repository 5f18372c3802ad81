package ui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	PrimaryColor   = lipgloss.Color("205")
	SecondaryColor = lipgloss.Color("99")
	MutedColor     = lipgloss.Color("240")
	TextColor      = lipgloss.Color("252")
	ErrorColor     = lipgloss.Color("196")
	SuccessColor   = lipgloss.Color("82")
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			Padding(0, 1)

	StatusStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Padding(0, 1)

	SidebarStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(MutedColor).
			Padding(0, 1)

	ChatPaneStyle = lipgloss.NewStyle().
			Padding(0, 1)

	MutedTextStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	ActiveChatStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	ChatItemStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	ComposeChatStyle = lipgloss.NewStyle().
				Foreground(SecondaryColor).
				Italic(true)

	MessageOwnAuthorStyle = lipgloss.NewStyle().
				Foreground(SuccessColor).
				Bold(true)

	MessageAuthorStyle = lipgloss.NewStyle().
				Foreground(SecondaryColor)
)

// RenderError renders an error message for the footer
func RenderError(msg string) string {
	return ErrorStyle.Render("✗ " + msg)
}
