package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/inkechoes/leaf/internal/paginate"
	"github.com/inkechoes/leaf/internal/session"
)

const (
	maxPageWidth = 104
	columnGap    = 6
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "\n  Opening book...\n"
	}
	if m.sess.Loading() {
		return fmt.Sprintf("\n  %s Opening %s...\n",
			m.spin.View(),
			m.styles.Title.Render(m.sess.Work().Title))
	}

	if m.sess.NoteOpen() {
		return m.noteView()
	}
	if m.showTOC {
		return m.tocView()
	}
	if m.showSettings {
		return m.settingsView()
	}
	return m.readerView()
}

func (m *Model) readerView() string {
	var b strings.Builder

	pageWidth := m.width - 4
	if pageWidth > maxPageWidth {
		pageWidth = maxPageWidth
	}
	if pageWidth < 20 {
		pageWidth = 20
	}

	if !m.fullscreen {
		b.WriteString(m.headerLine(pageWidth))
		b.WriteString("\n")
	}

	if m.sess.ChapterIndex() == -1 && m.sess.Page() == 0 {
		if cover := m.coverBlock(pageWidth); cover != "" {
			b.WriteString(cover)
			b.WriteString("\n")
		}
	}

	b.WriteString(m.pageBlock(pageWidth))
	b.WriteString("\n")
	b.WriteString(m.footerLines(pageWidth))

	return b.String()
}

// headerLine renders the chapter title with page numbers right-aligned.
func (m *Model) headerLine(width int) string {
	title := m.sess.ChapterTitle()
	pages := fmt.Sprintf("page %d of %d", m.sess.Page()+1, len(m.sess.Pages()))
	if m.sess.Bookmark() != nil {
		pages = "🔖 " + pages
	}

	gap := width - lipgloss.Width(title) - lipgloss.Width(pages)
	if gap < 1 {
		gap = 1
	}
	return m.styles.Header.Render(title) +
		strings.Repeat(" ", gap) +
		m.styles.Header.Render(pages)
}

// coverBlock renders the title page shown before the first flat-body page.
func (m *Model) coverBlock(width int) string {
	w := m.sess.Work()
	lines := []string{
		m.styles.Title.Width(width).Align(lipgloss.Center).Render(w.Title),
		m.styles.Author.Width(width).Align(lipgloss.Center).Render("by " + w.AuthorUsername),
	}
	if desc := w.Description(); desc != "" {
		lines = append(lines, m.styles.Muted.Width(width).Align(lipgloss.Center).Render(desc))
	}
	return strings.Join(lines, "\n")
}

// pageBlock renders the current page as a bordered, two-column spread.
// During a turn transition the text dims, matching the fade the turn
// delay exists for.
func (m *Model) pageBlock(width int) string {
	text := m.sess.PageText()

	style := m.styles.PageText
	if m.sess.Turn() == session.Turning {
		style = m.styles.Muted
	}

	inner := width - 8 // border and padding
	var body string
	if inner >= 40 {
		body = twoColumns(text, inner, style)
	} else {
		body = style.Width(inner).Render(text)
	}

	if errMsg := m.sess.LoadError(); errMsg != "" {
		body = m.styles.Error.Render(errMsg) + "\n\n" + body
	}

	return m.styles.Page.Width(width - 2).Render(body)
}

// twoColumns splits the page text at its word midpoint and lays the
// halves out side by side.
func twoColumns(text string, width int, style lipgloss.Style) string {
	colWidth := (width - columnGap) / 2
	words := strings.Fields(text)
	mid := (len(words) + 1) / 2

	left := style.Width(colWidth).Render(strings.Join(words[:mid], " "))
	right := style.Width(colWidth).Render(strings.Join(words[mid:], " "))
	gap := strings.Repeat(" ", columnGap)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, gap, right)
}

func (m *Model) footerLines(width int) string {
	var b strings.Builder

	if p := m.sess.Progress(); p != nil && !m.fullscreen {
		b.WriteString(m.bar.ViewAs(p.ProgressPercentage / 100))
		b.WriteString(m.styles.Muted.Render(fmt.Sprintf("  %.0f%%", p.ProgressPercentage)))
		b.WriteString("\n")
	}

	if m.fullscreen {
		return b.String()
	}

	help := "← → pages • t contents • b bookmark • s settings • ctrl+f fullscreen • q quit"
	b.WriteString(m.styles.Help.Render(help))
	return b.String()
}

func (m *Model) tocView() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Contents"))
	b.WriteString("\n\n")

	for i, ch := range m.sess.Chapters() {
		cursor := "  "
		line := fmt.Sprintf("%d. %s", ch.Order, ch.Title)
		if i == m.tocCursor {
			cursor = "> "
			line = m.styles.Selected.Render(line)
		} else if i == m.sess.ChapterIndex() {
			line = m.styles.PageText.Render(line)
		} else {
			line = m.styles.Muted.Render(line)
		}
		b.WriteString(cursor + line + "\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("↑/↓ move • enter open • esc close"))
	return b.String()
}

func (m *Model) settingsView() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Reading Settings"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("  Font size: %s\n",
		m.styles.Selected.Render(fmt.Sprintf("%dpx", m.sess.FontSize()))))
	b.WriteString(fmt.Sprintf("  Page length: %s\n",
		m.styles.Muted.Render(fmt.Sprintf("%d words", paginate.WordsPerPage(m.sess.FontSize())))))
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("+/- adjust • esc close"))
	return b.String()
}

func (m *Model) noteView() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Bookmark this page"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("  %s, page %d\n\n",
		m.sess.ChapterTitle(), m.sess.Page()+1))
	b.WriteString("  " + m.noteInput.View() + "\n\n")
	b.WriteString(m.styles.Help.Render("enter save • esc cancel"))
	return b.String()
}
