// Package keypad is a terminal gamepad: keys toggle buttons and the hat
// switch and nudge the axes of a report cell.
package keypad

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xaionaro-go/gattpad/hid"
)

// AxisStep is how much one key press moves an axis.
const AxisStep = 32

// Model is the Bubbletea model of the keypad.
type Model struct {
	cell *hid.Cell

	// Terminals report presses only, so directions are toggled.
	up, down, left, right bool

	title  string
	err    error
	width  int
	keys   KeyMap
	help   help.Model
	styles Styles
}

// New returns a keypad writing to cell.
func New(cell *hid.Cell, title string) Model {
	h := help.New()
	h.ShowAll = false
	return Model{
		cell:   cell,
		title:  title,
		keys:   DefaultKeyMap(),
		help:   h,
		styles: DefaultStyles(),
	}
}

// Run runs the keypad until the user quits or ctx is done.
func Run(ctx context.Context, cell *hid.Cell, title string) error {
	p := tea.NewProgram(New(cell, title), tea.WithContext(ctx), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("unable to run the keypad: %w", err)
	}
	return nil
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Center):
		m.up, m.down, m.left, m.right = false, false, false, false
		m.err = m.cell.Store(hid.Neutral())
		return m, nil
	case key.Matches(msg, m.keys.HatUp):
		m.up = !m.up
	case key.Matches(msg, m.keys.HatDown):
		m.down = !m.down
	case key.Matches(msg, m.keys.HatLeft):
		m.left = !m.left
	case key.Matches(msg, m.keys.HatRight):
		m.right = !m.right
	case key.Matches(msg, m.keys.StickLeft):
		return m.nudge(hid.AxisX, -AxisStep)
	case key.Matches(msg, m.keys.StickRight):
		return m.nudge(hid.AxisX, AxisStep)
	case key.Matches(msg, m.keys.StickUp):
		return m.nudge(hid.AxisY, -AxisStep)
	case key.Matches(msg, m.keys.StickDown):
		return m.nudge(hid.AxisY, AxisStep)
	case key.Matches(msg, m.keys.RStickLeft):
		return m.nudge(hid.AxisZ, -AxisStep)
	case key.Matches(msg, m.keys.RStickRight):
		return m.nudge(hid.AxisZ, AxisStep)
	case key.Matches(msg, m.keys.RStickUp):
		return m.nudge(hid.AxisRz, -AxisStep)
	case key.Matches(msg, m.keys.RStickDown):
		return m.nudge(hid.AxisRz, AxisStep)
	default:
		for i, b := range m.keys.Buttons {
			if key.Matches(msg, b) {
				n := i + 1
				m.err = m.cell.Update(func(r *hid.Report) { r.SetButton(n, !r.Pressed(n)) })
				return m, nil
			}
		}
		return m, nil
	}

	hat := hid.HatFromDirection(m.up, m.down, m.left, m.right)
	m.err = m.cell.Update(func(r *hid.Report) { r.Hat = hat })
	return m, nil
}

// nudge moves an axis, saturating at the ends of its range.
func (m Model) nudge(axis, delta int) (tea.Model, tea.Cmd) {
	m.err = m.cell.Update(func(r *hid.Report) {
		v := max(hid.AxisMin, min(hid.AxisMax, int(r.Axes[axis])+delta))
		r.Axes[axis] = int8(v)
	})
	return m, nil
}

func (m Model) View() string {
	r := m.cell.Load()
	s := m.styles

	var b strings.Builder
	b.WriteString(s.Title.Render(m.title))
	b.WriteString("\n")

	var row []string
	for n := 1; n <= hid.NumButtons; n++ {
		st := s.Button
		if r.Pressed(n) {
			st = s.Pressed
		}
		row = append(row, st.Render(fmt.Sprint(n)))
		if n%8 == 0 {
			b.WriteString(s.Label.Render("buttons") + lipgloss.JoinHorizontal(lipgloss.Top, row...) + "\n")
			row = nil
		}
	}

	b.WriteString(s.Label.Render("hat") + s.Value.Render(r.Hat.String()) + "\n")
	for i, name := range []string{"X", "Y", "Z", "Rz"} {
		b.WriteString(s.Label.Render(name) + s.Value.Render(axisBar(r.Axes[i])) + s.Muted.Render(fmt.Sprintf(" %4d", r.Axes[i])) + "\n")
	}

	if enc, err := hid.Encode(r); err == nil {
		b.WriteString(s.Label.Render("report") + s.Muted.Render(hex.EncodeToString(enc)) + "\n")
	}
	if m.err != nil {
		b.WriteString(s.Error.Render(m.err.Error()) + "\n")
	}

	b.WriteString(s.Help.Render(m.help.View(m.keys)))
	return s.App.Render(b.String())
}

const barHalfWidth = 16

func axisBar(v int8) string {
	pos := (int(v) + hid.AxisMax) * 2 * barHalfWidth / (2 * hid.AxisMax)
	bar := []rune(strings.Repeat("─", 2*barHalfWidth+1))
	bar[barHalfWidth] = '┼'
	bar[pos] = '●'
	return string(bar)
}
