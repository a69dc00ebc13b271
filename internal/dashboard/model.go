package dashboard

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// helpBarHeight is the number of lines reserved for the help bar at the bottom.
const helpBarHeight = 1

// fullHelpRows is the height of the expanded help (the longest FullHelp column).
const fullHelpRows = 4

// borderChrome is the number of lines consumed by top + bottom borders.
const borderChrome = 2

// Model is the root Bubble Tea model for the contact browser.
type Model struct {
	lister  ContactLister
	browse  browseState
	focus   Focus
	width   int
	height  int
	help    help.Model
	spinner spinner.Model
}

// NewModel creates a Model that loads contacts from lister.
func NewModel(lister ContactLister) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return Model{
		lister:  lister,
		browse:  newBrowseState(),
		focus:   PaneLeft,
		help:    help.New(),
		spinner: s,
	}
}

// Init starts the spinner and the first load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, loadContacts(m.lister))
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case ContactListMsg:
		var cmd tea.Cmd
		m.browse, cmd = m.browse.Update(msg)
		return m, cmd

	case RefreshMsg:
		return m, tea.Batch(m.spinner.Tick, loadContacts(m.lister))

	case spinner.TickMsg:
		if !m.browse.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// handleKey processes global keys, then routes the rest to the list.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := BrowseKeyMap(m.browse.sortByLast)
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Tab):
		if m.focus == PaneLeft {
			m.focus = PaneRight
		} else {
			m.focus = PaneLeft
		}
		return m, nil
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if m.focus != PaneLeft {
		return m, nil
	}
	var cmd tea.Cmd
	m.browse, cmd = m.browse.Update(msg)
	return m, cmd
}

// contentHeight returns the usable height for pane content,
// accounting for border chrome and the help bar.
func (m Model) contentHeight() int {
	h := m.height - borderChrome - helpBarHeight
	if m.help.ShowAll {
		h -= fullHelpRows - helpBarHeight
	}
	if h < 1 {
		return 1
	}
	return h
}

// View renders the two-pane layout with help bar.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	leftWidth, rightWidth := PaneWidths(m.width)
	contentHeight := m.contentHeight()

	var leftStyle, rightStyle lipgloss.Style
	if m.focus == PaneLeft {
		leftStyle = FocusedBorder()
		rightStyle = UnfocusedBorder()
	} else {
		leftStyle = UnfocusedBorder()
		rightStyle = FocusedBorder()
	}

	leftStyle = leftStyle.
		Width(leftWidth - borderChrome).
		Height(contentHeight)
	rightStyle = rightStyle.
		Width(rightWidth - borderChrome).
		Height(contentHeight)

	leftPane := leftStyle.Render(m.browse.View(m.spinner.View()))
	rightPane := rightStyle.Render(renderDetail(m.browse.Selected()))
	panes := lipgloss.JoinHorizontal(lipgloss.Top, leftPane, rightPane)
	helpView := m.help.View(BrowseKeyMap(m.browse.sortByLast))

	return lipgloss.JoinVertical(lipgloss.Left, panes, helpView)
}
