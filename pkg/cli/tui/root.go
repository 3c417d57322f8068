package tui

import (
	"strings"

	"readstash-go/pkg/cli/client"

	tea "github.com/charmbracelet/bubbletea"
)

// rootModel is the Bubble Tea model that acts as an app shell for multiple flows.
// It presents a simple menu and then hands control to a specific flow model.
type rootModel struct {
	client *client.Client

	// Current active flow (when nil, we are in the main menu)
	current tea.Model
}

// NewRootModel constructs the root app-shell model that can launch multiple flows.
func NewRootModel(apiClient *client.Client) tea.Model {
	return &rootModel{
		client: apiClient,
	}
}

func (m *rootModel) Init() tea.Cmd {
	// No async work on start; just render the menu.
	return nil
}

func (m *rootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// If we have an active flow, delegate all messages to it.
	if m.current != nil {
		var cmd tea.Cmd
		m.current, cmd = m.current.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit

		case "1":
			// Bulk import flow with live progress.
			m.current = NewImportModel(m.client, nil)
			if initer, ok := m.current.(interface{ Init() tea.Cmd }); ok {
				return m, initer.Init()
			}
			return m, nil

		case "2":
			// Browse saved items.
			m.current = NewListItemsModel(m.client)
			if initer, ok := m.current.(interface{ Init() tea.Cmd }); ok {
				return m, initer.Init()
			}
			return m, nil
		}
	}

	return m, nil
}

func (m *rootModel) View() string {
	// When a flow is active, defer to its view.
	if m.current != nil {
		return m.current.View()
	}

	var b strings.Builder

	b.WriteString(renderTitle("ReadStash"))
	b.WriteString(renderDivider(60))
	b.WriteString("\n\n")
	b.WriteString(boldStyle.Render("Select an action:") + "\n\n")
	b.WriteString("  " + selectedMarkerStyle.Render("1)") + " Import URLs (bulk scrape)\n")
	b.WriteString("  " + selectedMarkerStyle.Render("2)") + " List saved items\n")
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("Press the number of an option, or 'q' / Esc to quit.") + "\n")

	return b.String()
}
