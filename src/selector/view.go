package selector

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/simivar/sprite-picker/src/app"
)

const (
	glyphWidth      = 2
	previewMaxRows  = 6
	previewMinWidth = 40
)

var (
	labelStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	highlightedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62"))
	normalStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	placeholderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("250")).Background(lipgloss.Color("238"))
	badgeStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	dimStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// View renders the text box and, while open, the dropdown below it.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.viewInput())

	if !m.isOpen {
		return b.String()
	}

	filtered := m.Filtered()
	switch {
	case len(filtered) > 0:
		b.WriteRune('\n')
		b.WriteString(m.viewDropdown(filtered))
	case m.input.Value() != "":
		b.WriteRune('\n')
		b.WriteString(dimStyle.Render(fmt.Sprintf("No sprites found matching %q", m.input.Value())))
	}
	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder
	if m.label != "" {
		b.WriteString(labelStyle.Render(m.label))
		b.WriteRune(' ')
	}
	if m.disabled {
		b.WriteString(dimStyle.Render(m.input.Value()))
		return b.String()
	}
	if m.input.Value() == "" {
		b.WriteString(dimStyle.Render(placeholder))
		return b.String()
	}
	b.WriteString(m.input.View())
	return b.String()
}

func (m Model) viewDropdown(filtered []app.SpriteRecord) string {
	rows := make([]string, 0, m.visibleItems()+1)
	width := m.listWidth()
	end := m.offset + m.visibleItems()
	for i := m.offset; i < end; i++ {
		rows = append(rows, m.viewItem(filtered[i], i == m.highlighted, width))
	}
	if len(filtered) > m.maxVisible {
		rows = append(rows, dimStyle.Render(fmt.Sprintf("  %d-%d of %d", m.offset+1, end, len(filtered))))
	}
	list := strings.Join(rows, "\n")

	if preview := m.viewPreview(filtered); preview != "" {
		return lipgloss.JoinHorizontal(lipgloss.Top, list, "  ", preview)
	}
	return list
}

func (m Model) viewItem(s app.SpriteRecord, highlighted bool, width int) string {
	marker := "  "
	if highlighted {
		marker = "> "
	}

	badge := ""
	if s.SDF {
		badge = " SDF"
	}

	name := s.ID
	if width > 0 {
		room := width - len(marker) - glyphWidth - 1 - len(badge)
		name = runewidth.Truncate(name, max(room, 1), "…")
	}

	style := normalStyle
	if highlighted {
		style = highlightedStyle
	}
	line := style.Render(marker) + m.glyph(s) + style.Render(" "+name)
	if badge != "" {
		line += badgeStyle.Render(badge)
	}
	return line
}

// glyph is a two-cell thumbnail, or the id's first letter for name-only sprites.
func (m Model) glyph(s app.SpriteRecord) string {
	if s.HasImage() {
		if thumb, ok := m.thumbs.render(s, glyphWidth, 1); ok {
			return thumb
		}
	}
	return placeholderStyle.Render(runewidth.FillRight(fallbackGlyph(s.ID), glyphWidth))
}

// viewPreview renders a larger thumbnail of the highlighted sprite when there is room.
func (m Model) viewPreview(filtered []app.SpriteRecord) string {
	if m.width < previewMinWidth || m.highlighted < 0 || m.highlighted >= len(filtered) {
		return ""
	}
	s := filtered[m.highlighted]
	rows := min(m.visibleItems(), previewMaxRows)
	if !s.HasImage() || rows < 2 {
		return ""
	}
	thumb, ok := m.thumbs.render(s, rows*2, rows)
	if !ok {
		return ""
	}
	return thumb
}

// fallbackGlyph is the first character of id, upper-cased.
func fallbackGlyph(id string) string {
	r, _ := utf8.DecodeRuneInString(id)
	if r == utf8.RuneError {
		return "?"
	}
	return string(unicode.ToUpper(r))
}

func (m Model) visibleItems() int {
	n := len(m.Filtered()) - m.offset
	return max(0, min(n, m.maxVisible))
}

// dropdownRows is the number of rows rendered below the text box.
func (m Model) dropdownRows() int {
	if !m.isOpen {
		return 0
	}
	n := len(m.Filtered())
	switch {
	case n > m.maxVisible:
		return m.visibleItems() + 1
	case n > 0:
		return m.visibleItems()
	case m.input.Value() != "":
		return 1
	default:
		return 0
	}
}

// listWidth is the width available to item rows; 0 means unbounded.
func (m Model) listWidth() int {
	if m.width <= 0 {
		return 0
	}
	filtered := m.Filtered()
	if m.viewPreview(filtered) == "" {
		return m.width
	}
	rows := min(m.visibleItems(), previewMaxRows)
	return m.width - rows*2 - 2
}

func (m *Model) resizeInput() {
	if m.width <= 0 {
		m.input.Width = 0
		return
	}
	w := m.width - 1
	if m.label != "" {
		w -= lipgloss.Width(m.label) + 1
	}
	m.input.Width = max(w, 1)
}
