package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-maze/internal/config"
	"github.com/vovakirdan/tui-maze/internal/maps"
	"github.com/vovakirdan/tui-maze/internal/storage"
)

// MenuItem represents a selectable map in the menu.
type MenuItem struct {
	MapID  string
	Title  string
	Width  int
	Height int
	Best   int // fewest moves to the exit, 0 if never finished
}

// MenuModel is the Bubble Tea model for the map picker menu.
type MenuModel struct {
	items          []MenuItem
	cursor         int
	paces          []config.PacePreset
	pace           int
	width          int
	height         int
	keys           MenuKeyMap
	help           help.Model
	quitting       bool
	selected       *MenuItem // Set when user selects a map
	openScoreboard bool      // True if user pressed Tab for scoreboard
}

// NewMenuModel creates a new menu model. stats may be nil.
func NewMenuModel(list []*maps.Map, stats map[string]*storage.MapStats, width, height int) MenuModel {
	items := make([]MenuItem, 0, len(list))
	for _, mp := range list {
		item := MenuItem{
			MapID:  mp.ID,
			Title:  mp.Title(),
			Width:  mp.Grid.Width(),
			Height: mp.Grid.Height(),
		}
		if st, ok := stats[mp.ID]; ok {
			item.Best = st.BestMoves
		}
		items = append(items, item)
	}

	paces := config.Paces()
	pace := 0
	for i, p := range paces {
		if p == config.PaceNormal {
			pace = i
		}
	}

	h := help.New()
	h.Width = width
	return MenuModel{
		items:  items,
		paces:  paces,
		pace:   pace,
		width:  width,
		height: height,
		keys:   DefaultMenuKeyMap(),
		help:   h,
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keys.MenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionLeft:
		if m.pace > 0 {
			m.pace--
		}

	case MenuActionRight:
		if m.pace < len(m.paces)-1 {
			m.pace++
		}

	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			return m, tea.Quit // Exit menu to start game
		}

	case MenuActionScoreboard:
		m.openScoreboard = true
		return m, tea.Quit // Exit menu to show scoreboard
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("  M A Z E  "), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Pick a map", m.width))
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString(centerText(helpStyle.Render("No maps found."), m.width))
		b.WriteString("\n")
	}

	for i, item := range m.items {
		best := "-"
		if item.Best > 0 {
			best = fmt.Sprintf("%d", item.Best)
		}
		line := fmt.Sprintf("%-16s %3dx%-3d best %4s", item.Title, item.Width, item.Height, best)
		if i == m.cursor {
			line = cursorStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(fmt.Sprintf("pace: < %s >", m.Pace()), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(helpStyle.Render(m.help.View(m.keys)), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// Pace returns the movement pace picked in the menu.
func (m MenuModel) Pace() config.PacePreset {
	return m.paces[m.pace]
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Size returns the last known terminal size.
func (m MenuModel) Size() (int, int) {
	return m.width, m.height
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	MapID           string
	Pace            config.PacePreset
	Width, Height   int
	WantsScoreboard bool
	Quit            bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(list []*maps.Map, stats map[string]*storage.MapStats, width, height int) (MenuResult, error) {
	model := NewMenuModel(list, stats, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Width: width, Height: height}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Width: width, Height: height, Quit: true}, nil
	}

	result := MenuResult{Pace: m.Pace()}
	result.Width, result.Height = m.Size()

	switch {
	case m.WantsScoreboard():
		result.WantsScoreboard = true
	case m.IsQuitting(), m.Selected() == nil:
		result.Quit = true
	default:
		result.MapID = m.Selected().MapID
	}
	return result, nil
}
