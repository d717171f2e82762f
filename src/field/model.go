// Package field hosts the sprite selector. It picks between the selector and
// a plain autocomplete input, owns the asynchronous sprite load and tracks
// the value the user settled on.
package field

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"github.com/simivar/sprite-picker/src/app"
	"github.com/simivar/sprite-picker/src/selector"
)

const maxSuggestions = 5

var (
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	spinnerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
)

// SpriteLoader resolves a sprite base URL into records. *app.Loader implements it.
type SpriteLoader interface {
	Load(ctx context.Context, baseURL string) []app.SpriteRecord
}

// SpritesLoadedMsg carries the result of a load started by Model.Load.
type SpritesLoadedMsg struct {
	Seq     int
	BaseURL string
	Sprites []app.SpriteRecord
}

type Options struct {
	Value           string
	Sprites         []app.SpriteRecord
	FallbackOptions []string
	Disabled        bool
	AriaLabel       string

	// Loader and BaseURL start a load from Init when both are set.
	Loader  SpriteLoader
	BaseURL string
}

// Model is a bubbletea model. It quits on ctrl+c, or on esc/enter while no
// dropdown is open, leaving the chosen value in Value.
type Model struct {
	value      string
	set        bool
	expression bool

	useSelector bool
	selector    selector.Model
	input       textinput.Model

	sprites  []app.SpriteRecord
	fallback []string
	disabled bool
	label    string
	width    int

	loader  SpriteLoader
	baseURL string
	seq     int
	loading bool
	cancel  context.CancelFunc
	pending tea.Cmd
	spinner spinner.Model

	quitting bool
}

// IsExpression reports whether v is a JSON array, the encoding used for
// style expressions. Expressions are never offered to the sprite selector.
func IsExpression(v string) bool {
	return gjson.Valid(v) && gjson.Parse(v).IsArray()
}

func New(opts Options) Model {
	m := Model{
		value:      opts.Value,
		set:        opts.Value != "",
		expression: IsExpression(opts.Value),
		sprites:    opts.Sprites,
		fallback:   opts.FallbackOptions,
		disabled:   opts.Disabled,
		label:      opts.AriaLabel,
		loader:     opts.Loader,
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle)),
	}
	if m.expression || len(m.sprites) == 0 {
		m.input = m.newInput()
	} else {
		m.useSelector = true
		m.selector = m.newSelector()
	}
	if opts.Loader != nil && opts.BaseURL != "" {
		m.pending = m.Load(opts.BaseURL)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.pending}
	if m.useSelector {
		cmds = append(cmds, m.selector.Init())
	}
	return tea.Batch(cmds...)
}

// Value returns the last value the user settled on; ok is false when it was cleared.
func (m Model) Value() (string, bool) {
	return m.value, m.set
}

func (m Model) Loading() bool {
	return m.loading
}

// UsesSelector reports whether the sprite selector is mounted.
func (m Model) UsesSelector() bool {
	return m.useSelector
}

func (m Model) Sprites() []app.SpriteRecord {
	return m.sprites
}

// Load starts fetching sprites for baseURL. Each call supersedes the previous
// one: its request is cancelled and its result dropped on arrival.
func (m *Model) Load(baseURL string) tea.Cmd {
	if m.loader == nil {
		return nil
	}
	if m.cancel != nil {
		m.cancel()
	}
	m.seq++
	m.baseURL = baseURL
	m.loading = true

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	seq, loader := m.seq, m.loader
	load := func() tea.Msg {
		defer cancel()
		return SpritesLoadedMsg{Seq: seq, BaseURL: baseURL, Sprites: loader.Load(ctx, baseURL)}
	}
	return tea.Batch(load, m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case SpritesLoadedMsg:
		if msg.Seq != m.seq {
			log.Debug().Int("seq", msg.Seq).Int("current", m.seq).Str("url", msg.BaseURL).Msg("dropping stale sprite load")
			return m, nil
		}
		m.loading = false
		m.cancel = nil
		return m, m.applySprites(msg.Sprites)

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case selector.ChangeMsg:
		m.value, m.set = msg.Value, msg.Set
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		if m.useSelector {
			m.selector.SetWidth(msg.Width)
		} else {
			m.input.Width = max(msg.Width-lipgloss.Width(m.label)-2, 1)
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m.quit()
		case "ctrl+r":
			if m.baseURL == "" {
				return m, nil
			}
			return m, m.Load(m.baseURL)
		case "esc", "enter":
			if !m.useSelector || !m.selector.IsOpen() {
				return m.quit()
			}
		}
	}

	if m.useSelector {
		var cmd tea.Cmd
		m.selector, cmd = m.selector.Update(msg)
		return m, cmd
	}
	return m.updateInput(msg)
}

func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.disabled {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != m.value {
		m.value, m.set = v, v != ""
	}
	return m, cmd
}

// applySprites swaps between the selector and the plain input as the sprite
// list becomes empty or non-empty. The current value carries over.
func (m *Model) applySprites(sprites []app.SpriteRecord) tea.Cmd {
	m.sprites = sprites
	switch {
	case m.expression:
		m.input.SetSuggestions(m.suggestions())
		return nil
	case len(sprites) == 0 && m.useSelector:
		unmount := m.selector.Unmount()
		m.useSelector = false
		m.input = m.newInput()
		return unmount
	case len(sprites) == 0:
		m.input.SetSuggestions(m.suggestions())
		return nil
	case m.useSelector:
		m.selector.SetSprites(sprites)
		return nil
	default:
		m.useSelector = true
		m.selector = m.newSelector()
		return m.selector.Init()
	}
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	if m.cancel != nil {
		m.cancel()
	}
	if m.useSelector {
		return m, tea.Batch(m.selector.Unmount(), tea.Quit)
	}
	return m, tea.Quit
}

func (m Model) newSelector() selector.Model {
	s := selector.New(m.sprites,
		selector.WithValue(m.value),
		selector.WithDisabled(m.disabled),
		selector.WithAriaLabel(m.label),
		selector.WithWidth(m.width),
		selector.WithOrigin(0, 1),
	)
	s.Focus()
	return s
}

func (m Model) newInput() textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.ShowSuggestions = true
	_ = ti.Cursor.SetMode(cursor.CursorStatic)
	ti.SetValue(m.value)
	ti.CursorEnd()
	ti.SetSuggestions(m.suggestions())
	if !m.disabled {
		ti.Focus()
	}
	return ti
}

// suggestions are the fallback options followed by any loaded sprite ids.
func (m Model) suggestions() []string {
	seen := make(map[string]bool, len(m.fallback)+len(m.sprites))
	out := make([]string, 0, len(m.fallback)+len(m.sprites))
	for _, o := range m.fallback {
		if !seen[o] {
			seen[o] = true
			out = append(out, o)
		}
	}
	for _, s := range m.sprites {
		if !seen[s.ID] {
			seen[s.ID] = true
			out = append(out, s.ID)
		}
	}
	return out
}

// matches lists suggestions starting with the typed text, ignoring case.
func (m Model) matches() []string {
	term := strings.ToLower(m.input.Value())
	var out []string
	for _, s := range m.suggestions() {
		if len(out) == maxSuggestions {
			break
		}
		if s != m.input.Value() && strings.HasPrefix(strings.ToLower(s), term) {
			out = append(out, s)
		}
	}
	return out
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.statusLine())
	b.WriteRune('\n')

	if m.useSelector {
		b.WriteString(m.selector.View())
		return b.String()
	}

	if m.label != "" {
		b.WriteString(m.label)
		b.WriteRune(' ')
	}
	if m.disabled {
		b.WriteString(statusStyle.Render(m.value))
		return b.String()
	}
	b.WriteString(m.input.View())
	if m.input.Value() != "" {
		for _, s := range m.matches() {
			b.WriteRune('\n')
			b.WriteString(suggestionStyle.Render("  " + s))
		}
	}
	return b.String()
}

func (m Model) statusLine() string {
	switch {
	case m.loading:
		return m.spinner.View() + " " + statusStyle.Render("Loading sprites from "+m.baseURL)
	case m.expression:
		return statusStyle.Render("expression value · esc to finish")
	case m.baseURL != "":
		return statusStyle.Render(fmt.Sprintf("%d sprites · ctrl+r reload · esc to finish", len(m.sprites)))
	default:
		return statusStyle.Render("esc to finish")
	}
}
