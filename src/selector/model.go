// Package selector implements the sprite picker: a text box over a filtered,
// keyboard- and mouse-navigable dropdown of sprites.
package selector

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/simivar/sprite-picker/src/app"
)

const (
	defaultMaxVisible = 8
	placeholder       = "Select or type sprite name..."
)

// ChangeMsg is emitted on every edit of the text box and on every commit.
// Set is false when the box was cleared.
type ChangeMsg struct {
	Value string
	Set   bool
}

// Option configures a Model.
type Option func(*Model)

// WithValue seeds the search term. It is read once; later host values are not
// synchronised into a mounted selector.
func WithValue(v string) Option {
	return func(m *Model) { m.input.SetValue(v) }
}

func WithDisabled(disabled bool) Option {
	return func(m *Model) { m.disabled = disabled }
}

// WithAriaLabel sets the accessible name, rendered as the input label.
func WithAriaLabel(label string) Option {
	return func(m *Model) { m.label = label }
}

func WithMaxVisible(n int) Option {
	return func(m *Model) {
		if n > 0 {
			m.maxVisible = n
		}
	}
}

// WithWidth bounds the rendered width; 0 means unbounded.
func WithWidth(w int) Option {
	return func(m *Model) { m.width = w }
}

// WithOrigin places the widget on screen so pointer events can be hit-tested.
func WithOrigin(x, y int) Option {
	return func(m *Model) { m.originX, m.originY = x, y }
}

// Model is the selector state machine. It is a value type like other
// bubbletea components; Update returns the next state.
type Model struct {
	sprites []app.SpriteRecord
	input   textinput.Model

	isOpen      bool
	highlighted int // index into Filtered(); -1 when nothing is highlighted
	offset      int // first visible row of the dropdown
	maxVisible  int

	disabled bool
	label    string
	width    int
	originX  int
	originY  int

	thumbs *thumbCache
}

// New builds a closed selector over sprites.
func New(sprites []app.SpriteRecord, opts ...Option) Model {
	ti := textinput.New()
	ti.Prompt = ""
	_ = ti.Cursor.SetMode(cursor.CursorStatic)

	m := Model{
		sprites:     sprites,
		input:       ti,
		highlighted: -1,
		maxVisible:  defaultMaxVisible,
		thumbs:      newThumbCache(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.input.CursorEnd()
	m.resizeInput()
	return m
}

// Init subscribes to pointer events for outside-click detection. Pair it with Unmount.
func (m Model) Init() tea.Cmd {
	return tea.EnableMouseCellMotion
}

// Unmount releases the pointer subscription acquired by Init.
func (m Model) Unmount() tea.Cmd {
	return tea.DisableMouse
}

// Value is the current text of the box (the search term).
func (m Model) Value() string {
	return m.input.Value()
}

func (m Model) IsOpen() bool {
	return m.isOpen
}

func (m Model) Highlighted() int {
	return m.highlighted
}

func (m Model) Disabled() bool {
	return m.disabled
}

func (m Model) Sprites() []app.SpriteRecord {
	return m.sprites
}

// Filtered returns the sprites whose id contains the search term, ignoring case.
func (m Model) Filtered() []app.SpriteRecord {
	term := m.input.Value()
	if term == "" {
		return m.sprites
	}
	term = strings.ToLower(term)
	out := make([]app.SpriteRecord, 0, len(m.sprites))
	for _, s := range m.sprites {
		if strings.Contains(strings.ToLower(s.ID), term) {
			out = append(out, s)
		}
	}
	return out
}

// Focus focuses the text box and opens the dropdown unless disabled.
func (m *Model) Focus() tea.Cmd {
	if m.disabled {
		return nil
	}
	m.isOpen = true
	return m.input.Focus()
}

// Blur unfocuses the text box and closes the dropdown.
func (m *Model) Blur() {
	m.input.Blur()
	m.close()
}

func (m Model) Focused() bool {
	return m.input.Focused()
}

// SetSprites replaces the list wholesale, keeping the highlight valid.
func (m *Model) SetSprites(sprites []app.SpriteRecord) {
	m.sprites = sprites
	m.thumbs = newThumbCache()
	m.clampHighlight()
}

// SetWidth resizes the widget.
func (m *Model) SetWidth(w int) {
	m.width = w
	m.resizeInput()
}

// SetOrigin moves the widget's on-screen position.
func (m *Model) SetOrigin(x, y int) {
	m.originX, m.originY = x, y
}

// Update handles keys, pointer events and text box housekeeping.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.disabled {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	filtered := m.Filtered()

	switch msg.Type {
	case tea.KeyDown:
		if !m.isOpen {
			m.isOpen = true
			return m, nil
		}
		if len(filtered) == 0 {
			return m, nil
		}
		if m.highlighted < len(filtered)-1 {
			m.highlighted++
		} else {
			m.highlighted = 0
		}
		m.scrollTo(m.highlighted)
		return m, nil

	case tea.KeyUp:
		if !m.isOpen || len(filtered) == 0 {
			return m, nil
		}
		if m.highlighted > 0 {
			m.highlighted--
		} else {
			m.highlighted = len(filtered) - 1
		}
		m.scrollTo(m.highlighted)
		return m, nil

	case tea.KeyEnter:
		if m.isOpen && m.highlighted >= 0 && m.highlighted < len(filtered) {
			return m.commit(filtered[m.highlighted])
		}
		return m, nil

	case tea.KeyEsc:
		m.close()
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return m, cmd
	}
	return m, tea.Batch(cmd, m.textChanged())
}

// textChanged applies an edit: open, drop the highlight, report the new value.
func (m *Model) textChanged() tea.Cmd {
	m.isOpen = true
	m.highlighted = -1
	m.offset = 0
	return changed(m.input.Value())
}

func (m Model) commit(s app.SpriteRecord) (Model, tea.Cmd) {
	m.input.SetValue(s.ID)
	m.input.CursorEnd()
	m.close()
	return m, changed(s.ID)
}

func (m *Model) close() {
	m.isOpen = false
	m.highlighted = -1
	m.offset = 0
}

func (m *Model) clampHighlight() {
	n := len(m.Filtered())
	if m.highlighted >= n {
		m.highlighted = -1
	}
	if m.offset > 0 && m.offset > n-m.maxVisible {
		m.offset = max(0, n-m.maxVisible)
	}
}

// scrollTo keeps row index inside the visible window.
func (m *Model) scrollTo(index int) {
	if index < m.offset {
		m.offset = index
	} else if index >= m.offset+m.maxVisible {
		m.offset = index - m.maxVisible + 1
	}
}

func changed(v string) tea.Cmd {
	return func() tea.Msg {
		return ChangeMsg{Value: v, Set: v != ""}
	}
}
