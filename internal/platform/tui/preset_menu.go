package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-snake/internal/config"
)

var presetChoices = []struct {
	preset config.DifficultyPreset
	label  string
}{
	{config.DifficultyEasy, "Easy (slow start)"},
	{config.DifficultyNormal, "Normal"},
	{config.DifficultyHard, "Hard (fast start)"},
	{config.DifficultyFixed, "Fixed speed"},
}

// PresetModel lets users choose a difficulty preset before playing.
type PresetModel struct {
	cursor    int
	width     int
	height    int
	keyMapper *KeyMapper
	selected  *config.DifficultyPreset
	quitting  bool
	back      bool
}

// NewPresetModel creates a preset picker with Normal highlighted.
func NewPresetModel(width, height int) PresetModel {
	return PresetModel{
		cursor:    1,
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the model.
func (m PresetModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m PresetModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.keyMapper.MapKeyToMenuAction(msg) {
		case MenuActionQuit:
			m.quitting = true
			return m, tea.Quit
		case MenuActionUp:
			if m.cursor > 0 {
				m.cursor--
			}
		case MenuActionDown:
			if m.cursor < len(presetChoices)-1 {
				m.cursor++
			}
		case MenuActionSelect:
			p := presetChoices[m.cursor].preset
			m.selected = &p
			return m, tea.Quit
		case MenuActionBack:
			m.back = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

// View renders the preset list.
func (m PresetModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText("D I F F I C U L T Y", m.width))
	b.WriteString("\n\n")

	for i, c := range presetChoices {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		b.WriteString(centerText(fmt.Sprintf("%s%s", cursor, c.label), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Enter: Select  |  Esc: Back  |  Q: Quit", m.width))
	return b.String()
}

// Selected returns the chosen preset, or nil if none was chosen.
func (m PresetModel) Selected() *config.DifficultyPreset {
	return m.selected
}

// IsQuitting returns true if user wants to quit.
func (m PresetModel) IsQuitting() bool {
	return m.quitting
}

// WantsBack returns true if user pressed back.
func (m PresetModel) WantsBack() bool {
	return m.back
}

// RunPresetSelector asks for a difficulty preset. It returns nil when the
// user backs out or quits.
func RunPresetSelector(width, height int) (*config.DifficultyPreset, error) {
	p := tea.NewProgram(NewPresetModel(width, height), tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}
	m, ok := finalModel.(PresetModel)
	if !ok {
		return nil, nil
	}
	return m.Selected(), nil
}
