package ui

import (
	"fmt"
	"strings"

	"github.com/76creates/stickers/flexbox"
	"github.com/charmbracelet/lipgloss"

	"github.com/aeolun/ciphora/pkg/client/roster"
)

// View renders the current view
func (m Model) View() string {
	// Don't render until we have dimensions
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	baseView := m.renderMain()

	if active := m.modals.Active(); active != nil {
		return active.Render(m.width, m.height, m.modals.Message())
	}

	return baseView
}

// renderMain renders the chat screen using flexbox for stable layout
func (m Model) renderMain() string {
	layout := flexbox.New(m.width, m.height)

	// Row 1: Header (fixed height = 1)
	headerRow := layout.NewRow().AddCells(
		flexbox.NewCell(1, 1).SetContent(m.renderHeader()),
	)

	// Row 2: Sidebar + chat area (flexible = remaining height)
	contentHeight := m.height - 2 // Subtract header(1) + footer(1)
	contentRow := layout.NewRow().AddCells(
		flexbox.NewCell(1, contentHeight).SetContent(m.renderContent(contentHeight)),
	)

	// Row 3: Footer (fixed height = 1)
	footerRow := layout.NewRow().AddCells(
		flexbox.NewCell(1, 1).SetContent(m.renderFooter()),
	)

	layout.AddRows([]*flexbox.Row{headerRow, contentRow, footerRow})

	return layout.Render()
}

// renderContent renders the chat list sidebar next to the conversation pane
func (m Model) renderContent(contentHeight int) string {
	layout := flexbox.NewHorizontal(m.width, contentHeight)

	sidebarCol := layout.NewColumn().AddCells(
		flexbox.NewCell(1, 1).
			SetStyle(SidebarStyle.Width(m.sidebarWidth()).Height(contentHeight)).
			SetContent(m.buildSidebarContent()),
	)

	mainCol := layout.NewColumn().AddCells(
		flexbox.NewCell(3, 1).
			SetStyle(ChatPaneStyle).
			SetContent(m.renderConversation(contentHeight)),
	)

	layout.AddColumns([]*flexbox.Column{sidebarCol, mainCol})

	return layout.Render()
}

// renderConversation stacks the message viewport on top of the input field
func (m Model) renderConversation(contentHeight int) string {
	if m.roster.Len() == 0 {
		return MutedTextStyle.Render("\n  No chats yet. Press [Ctrl+T] to start one.")
	}

	layout := flexbox.New(m.width-m.sidebarWidth()-2, contentHeight)

	var messageContent string
	if m.ready {
		messageContent = m.chatViewport.View()
	} else {
		messageContent = m.buildChatMessages()
	}

	// The input field has fixed height of 5 lines (3 content + 2 border),
	// the message area takes the rest
	messageRow := layout.NewRow().AddCells(
		flexbox.NewCell(1, contentHeight-5).SetContent(messageContent),
	)
	inputRow := layout.NewRow().AddCells(
		flexbox.NewCell(1, 5).SetContent(m.messageInput.View()),
	)

	layout.AddRows([]*flexbox.Row{messageRow, inputRow})

	return layout.Render()
}

// sidebarWidth computes the chat list width
func (m Model) sidebarWidth() int {
	w := m.width/4 - 2
	if w < 20 {
		w = 20
	}
	return w
}

// buildSidebarContent builds the chat list
func (m Model) buildSidebarContent() string {
	chats := m.roster.Chats()
	if len(chats) == 0 {
		return MutedTextStyle.Render("(no chats)")
	}

	width := m.sidebarWidth() - 2

	var lines []string
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(SecondaryColor).Render("Chats"))
	lines = append(lines, "")

	for _, chat := range chats {
		name := truncateString(chat.Name, width-2)

		var line string
		switch {
		case chat.ID == roster.ComposeChatID:
			line = ComposeChatStyle.Render("+ " + name)
		case chat.ID == m.roster.ActiveID():
			line = ActiveChatStyle.Render("> " + name)
		default:
			line = ChatItemStyle.Render("  " + name)
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

// renderHeader renders the header
func (m Model) renderHeader() string {
	left := HeaderStyle.Render(fmt.Sprintf("Ciphora %s", m.currentVersion))

	status := "Disconnected"
	if m.host.IsConnected() {
		status = "Connected: " + m.host.GetAddress()
	}
	right := StatusStyle.Render(status)

	spacer := strings.Repeat(" ", max(0, m.width-lipgloss.Width(left)-lipgloss.Width(right)))

	return left + spacer + right
}

// renderFooter renders the footer
func (m Model) renderFooter() string {
	shortcuts := "[Ctrl+T] New chat  [Ctrl+P/N] Switch  [Ctrl+O] Info  [Ctrl+D] Delete  [Ctrl+C] Quit"

	footerContent := shortcuts
	if m.errorMessage != "" {
		footerContent += "  " + RenderError(m.errorMessage)
	}

	// Truncate if too long (FooterStyle has Padding(0, 1), 2 chars total)
	maxWidth := m.width - 2
	if lipgloss.Width(footerContent) > maxWidth {
		footerContent = truncateString(footerContent, maxWidth-1) + "…"
	}

	return FooterStyle.Render(footerContent)
}

// buildChatMessages builds the chat message list for the viewport
func (m Model) buildChatMessages() string {
	chat, ok := m.roster.Active()
	if !ok {
		return MutedTextStyle.Render("  (no chat selected)")
	}

	if chat.ID == roster.ComposeChatID {
		return MutedTextStyle.Render("  Paste a session ID or PGP public key to start the chat.")
	}

	if len(chat.Messages) == 0 {
		return MutedTextStyle.Render("  (no messages yet)")
	}

	var lines []string
	var prevDate string

	for _, msg := range chat.Messages {
		currentDate := msg.Timestamp.Format("2006-01-02")

		// Insert a date separator when the day changes
		if prevDate == "" || currentDate != prevDate {
			dateLabel := msg.Timestamp.Format("Monday, January 2, 2006")
			separator := MutedTextStyle.Render("─── " + dateLabel + " ───")
			lines = append(lines, separator)
		}
		prevDate = currentDate

		lines = append(lines, m.formatChatMessage(msg))
	}

	return strings.Join(lines, "\n")
}

// formatChatMessage formats a single chat message as: [time] sender message
func (m Model) formatChatMessage(msg roster.Message) string {
	timestamp := MutedTextStyle.Render("[" + msg.Timestamp.Format("15:04") + "]")

	senderStyle := MessageAuthorStyle
	if msg.Mine {
		senderStyle = MessageOwnAuthorStyle
	}
	prefix := timestamp + " " + senderStyle.Render(msg.Sender) + " "

	availableWidth := m.chatViewport.Width - 4
	if availableWidth < 20 {
		availableWidth = 20
	}
	prefixWidth := lipgloss.Width(prefix)
	wrappedLines := wrapText(msg.Content, availableWidth-prefixWidth)

	contentStyle := lipgloss.NewStyle().Foreground(TextColor)
	if len(wrappedLines) == 0 {
		return prefix
	}

	result := prefix + contentStyle.Render(wrappedLines[0])

	// Continuation lines align with the first line content
	indent := strings.Repeat(" ", prefixWidth)
	for i := 1; i < len(wrappedLines); i++ {
		result += "\n" + indent + contentStyle.Render(wrappedLines[i])
	}

	return result
}

// wrapText wraps text to fit within the specified width
func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	currentLine := ""
	for _, word := range words {
		// A word longer than the width just overflows on its own line
		if len(word) > width {
			if currentLine != "" {
				lines = append(lines, currentLine)
				currentLine = ""
			}
			lines = append(lines, word)
			continue
		}

		testLine := currentLine
		if testLine != "" {
			testLine += " "
		}
		testLine += word

		if len(testLine) > width {
			if currentLine != "" {
				lines = append(lines, currentLine)
			}
			currentLine = word
		} else {
			currentLine = testLine
		}
	}

	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return lines
}

// truncateString truncates a string to maxLen runes, accounting for ANSI codes
func truncateString(s string, maxLen int) string {
	if lipgloss.Width(s) <= maxLen {
		return s
	}

	var result strings.Builder
	currentWidth := 0
	inEscape := false

	for _, r := range s {
		if r == '\x1b' {
			inEscape = true
		}
		if inEscape {
			result.WriteRune(r)
			if r == 'm' {
				inEscape = false
			}
			continue
		}

		if currentWidth >= maxLen {
			break
		}
		result.WriteRune(r)
		currentWidth++
	}

	return result.String()
}
