// Package previewtui implements the terminal UI for live pattern
// preview: adjust PatternParams with the keyboard and watch the
// generated step grid and fitness report update immediately.
package previewtui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/duopulse/engine/internal/archetype"
	"github.com/duopulse/engine/internal/fitness"
	"github.com/duopulse/engine/internal/midiaudition"
	"github.com/duopulse/engine/internal/pattern"
	"github.com/duopulse/engine/internal/patternlen"
)

// Field identifies a Params knob the cursor can be sitting on.
type Field int

const (
	FieldEnergy Field = iota
	FieldShape
	FieldAxisX
	FieldAxisY
	FieldBuild
	FieldAccent
	FieldBalance
	FieldPhraseProgress
	fieldCount
)

func (f Field) String() string {
	switch f {
	case FieldEnergy:
		return "energy"
	case FieldShape:
		return "shape"
	case FieldAxisX:
		return "axisX"
	case FieldAxisY:
		return "axisY"
	case FieldBuild:
		return "build"
	case FieldAccent:
		return "accent"
	case FieldBalance:
		return "balance"
	case FieldPhraseProgress:
		return "phraseProgress"
	default:
		return "?"
	}
}

// Model is the bubbletea model backing patternpreview.
type Model struct {
	Params  pattern.Params
	Cursor  Field
	Player  *midiaudition.Player // nil disables audition
	Playing bool

	result pattern.Result
	report fitness.Report
}

// New builds a Model with sensible starting parameters and regenerates
// immediately so the first View() has something to show.
func New(player *midiaudition.Player) Model {
	m := Model{
		Params: pattern.Params{
			Energy: 0.6, Shape: 0.4, AxisX: 0.5, AxisY: 0.5,
			Accent: 0.5, Balance: 0.5, Swing: 0.5,
			Genre: archetype.Techno, PatternLength: 32, Seed: 0xDEADBEEF,
		},
		Player: player,
	}
	m.regenerate()
	return m
}

func (m *Model) regenerate() {
	m.result = pattern.Generate(m.Params)
	m.report = fitness.Evaluate(m.result, m.Params, fitness.DefaultTargets())
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.EnterAltScreen
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		if m.Player != nil {
			m.Player.Close()
		}
		return m, tea.Quit

	case "tab":
		m.Cursor = (m.Cursor + 1) % fieldCount
	case "shift+tab":
		m.Cursor--
		if m.Cursor < 0 {
			m.Cursor = fieldCount - 1
		}

	case "left", "h":
		m.nudge(-0.05)
		m.regenerate()
	case "right", "l":
		m.nudge(0.05)
		m.regenerate()

	case "n":
		m.Params.Seed++
		m.regenerate()
	case "p":
		m.Params.Seed--
		m.regenerate()

	case "g":
		m.Params.Genre = (m.Params.Genre + 1) % 3
		m.regenerate()

	case " ":
		if m.Player != nil {
			go m.Player.Play(m.result, 120, 4)
		}
	}
	return m, nil
}

func (m *Model) nudge(delta float32) {
	v := m.currentValue() + delta
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	m.setCurrentValue(v)
}

func (m *Model) currentValue() float32 {
	switch m.Cursor {
	case FieldEnergy:
		return m.Params.Energy
	case FieldShape:
		return m.Params.Shape
	case FieldAxisX:
		return m.Params.AxisX
	case FieldAxisY:
		return m.Params.AxisY
	case FieldBuild:
		return m.Params.Build
	case FieldAccent:
		return m.Params.Accent
	case FieldBalance:
		return m.Params.Balance
	case FieldPhraseProgress:
		return m.Params.PhraseProgress
	default:
		return 0
	}
}

func (m *Model) setCurrentValue(v float32) {
	switch m.Cursor {
	case FieldEnergy:
		m.Params.Energy = v
	case FieldShape:
		m.Params.Shape = v
	case FieldAxisX:
		m.Params.AxisX = v
	case FieldAxisY:
		m.Params.AxisY = v
	case FieldBuild:
		m.Params.Build = v
	case FieldAccent:
		m.Params.Accent = v
	case FieldBalance:
		m.Params.Balance = v
	case FieldPhraseProgress:
		m.Params.PhraseProgress = v
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")).Render("DUOPULSE PREVIEW")
	b.WriteString(title + fmt.Sprintf("  genre:%s  seed:0x%08X\n\n", m.Params.Genre, m.Params.Seed))

	b.WriteString(m.paramsView())
	b.WriteString("\n")
	b.WriteString(m.gridView("anchor ", m.result.AnchorMask, m.result.AnchorVel))
	b.WriteString(m.gridView("shimmer", m.result.ShimmerMask, m.result.ShimmerVel))
	b.WriteString(m.gridView("aux    ", m.result.AuxMask, m.result.AuxVel))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("composite %.3f  syncopation %.3f  density %.3f  velRange %.3f  voiceSep %.3f  regularity %.3f\n",
		m.report.Composite, m.report.Raw.Syncopation, m.report.Raw.Density,
		m.report.Raw.VelocityRange, m.report.Raw.VoiceSeparation, m.report.Raw.Regularity))

	b.WriteString("\n[tab] field  [←→] adjust  [n/p] seed  [g] genre  [space] audition  [q] quit\n")
	return b.String()
}

func (m Model) paramsView() string {
	fields := []Field{FieldEnergy, FieldShape, FieldAxisX, FieldAxisY, FieldBuild, FieldAccent, FieldBalance, FieldPhraseProgress}
	var parts []string
	for _, f := range fields {
		label := fmt.Sprintf("%s:%.2f", f, m.valueFor(f))
		if f == m.Cursor {
			label = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")).Render(label)
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, "  ") + "\n"
}

func (m Model) valueFor(f Field) float32 {
	save := m.Cursor
	m.Cursor = f
	v := m.currentValue()
	m.Cursor = save
	return v
}

func (m Model) gridView(label string, mask uint64, vel patternlen.FloatBuffer) string {
	var b strings.Builder
	b.WriteString(label + " │")
	for i := 0; i < m.result.PatternLength; i++ {
		if mask&(uint64(1)<<uint(i)) == 0 {
			b.WriteString(" ·")
			continue
		}
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(velocityColor(vel[i])))
		if i%8 == 0 {
			style = style.Bold(true)
		}
		b.WriteString(" " + style.Render("#"))
	}
	b.WriteString("│\n")
	return b.String()
}

func velocityColor(v float32) string {
	switch {
	case v > 0.8:
		return "9"
	case v > 0.5:
		return "11"
	default:
		return "8"
	}
}
