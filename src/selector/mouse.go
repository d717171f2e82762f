package selector

import tea "github.com/charmbracelet/bubbletea"

// handleMouse hit-tests pointer events against the rendered layout: row 0 is
// the text box, the rows below it belong to the dropdown while it is open.
func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	row := msg.Y - m.originY
	col := msg.X - m.originX

	switch msg.Action {
	case tea.MouseActionMotion:
		if idx, ok := m.itemAt(row, col); ok {
			m.highlighted = idx
		}
		return m, nil

	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if idx, ok := m.itemAt(row, col); ok {
			return m.commit(m.Filtered()[idx])
		}
		if m.inInput(row, col) {
			cmd := m.Focus()
			return m, cmd
		}
		if !m.inDropdown(row, col) {
			m.close()
		}
	}
	return m, nil
}

func (m Model) inColumns(col int) bool {
	if col < 0 {
		return false
	}
	return m.width <= 0 || col < m.width
}

func (m Model) inInput(row, col int) bool {
	return row == 0 && m.inColumns(col)
}

func (m Model) inDropdown(row, col int) bool {
	return row >= 1 && row <= m.dropdownRows() && m.inColumns(col)
}

// itemAt maps a pointer position to an index into Filtered().
func (m Model) itemAt(row, col int) (int, bool) {
	if !m.isOpen || !m.inDropdown(row, col) {
		return 0, false
	}
	if w := m.listWidth(); w > 0 && col >= w {
		return 0, false
	}
	idx := m.offset + row - 1
	if row-1 >= m.visibleItems() || idx >= len(m.Filtered()) {
		return 0, false
	}
	return idx, true
}
