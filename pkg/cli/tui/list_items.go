package tui

import (
	"fmt"
	"strings"

	"readstash-go/pkg/cli/client"
	"readstash-go/pkg/models"

	tea "github.com/charmbracelet/bubbletea"
)

// listItemsModel loads and displays the user's saved items, newest first,
// with a selectable cursor and a simple detail view.
type listItemsModel struct {
	client *client.Client

	items    []models.SavedItem
	selected int
	showing  *models.SavedItem
	err      error
	ready    bool
}

// NewListItemsModel creates a new list-items flow.
func NewListItemsModel(c *client.Client) tea.Model {
	return &listItemsModel{
		client: c,
	}
}

// itemsLoadedMsg is emitted when items have been fetched.
type itemsLoadedMsg struct {
	items []models.SavedItem
	err   error
}

func (m *listItemsModel) Init() tea.Cmd {
	return func() tea.Msg {
		items, err := m.client.ListItems()
		return itemsLoadedMsg{items: items, err: err}
	}
}

func (m *listItemsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case itemsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.items = msg.items
		}
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			if m.showing != nil {
				m.showing = nil
				return m, nil
			}
			return m, tea.Quit
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
		case "down", "j":
			if m.selected < len(m.items)-1 {
				m.selected++
			}
		case "enter":
			if m.showing == nil && len(m.items) > 0 {
				m.showing = &m.items[m.selected]
			}
		}
	}

	return m, nil
}

func (m *listItemsModel) View() string {
	if !m.ready {
		return "\n" + infoStyle.Render("Loading items...") + "\n"
	}

	if m.err != nil {
		return "\n" + renderError(fmt.Sprintf("Error loading items: %v", m.err)) + "\n\n" +
			helpStyle.Render("Press q to exit") + "\n"
	}

	if m.showing != nil {
		return m.viewDetail(*m.showing)
	}

	if len(m.items) == 0 {
		return "\n" + mutedStyle.Render("No saved items yet.") + "\n\n" +
			helpStyle.Render("Press q to exit") + "\n"
	}

	var b strings.Builder
	b.WriteString(renderTitle("Saved items"))
	b.WriteString(renderDivider(60) + "\n\n")

	for i, item := range m.items {
		marker := " "
		if i == m.selected {
			marker = selectedMarkerStyle.Render("→")
		}

		title := "(untitled)"
		if item.Title != nil && *item.Title != "" {
			title = *item.Title
		}

		b.WriteString(fmt.Sprintf("%s %s  %s\n", marker, renderStatusBadge(string(item.Status)), itemTitleStyle.Render(title)))
		b.WriteString("    " + itemURLStyle.Render(item.URL) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("↑/↓ navigate · Enter to view · q to quit") + "\n")
	return b.String()
}

func (m *listItemsModel) viewDetail(item models.SavedItem) string {
	var b strings.Builder
	b.WriteString(renderTitle("Item details"))

	title := "(untitled)"
	if item.Title != nil {
		title = *item.Title
	}
	b.WriteString(boldStyle.Render(title) + "\n")
	b.WriteString(itemURLStyle.Render(item.URL) + "\n\n")
	b.WriteString("Status: " + renderStatusBadge(string(item.Status)) + "\n")

	if item.Author != nil {
		b.WriteString("Author: " + *item.Author + "\n")
	}
	if item.PublishedAt != nil {
		b.WriteString("Published: " + item.PublishedAt.Format("2006-01-02") + "\n")
	}
	if len(item.Tags) > 0 {
		b.WriteString("Tags: " + strings.Join(item.Tags, ", ") + "\n")
	}
	if item.Summary != nil {
		b.WriteString("\n" + mutedStyle.Render(*item.Summary) + "\n")
	}
	if len(item.Products) > 0 {
		b.WriteString("\nProducts:\n")
		for _, p := range item.Products {
			b.WriteString(fmt.Sprintf("  - %s (%s)\n", p.Title, p.Price))
		}
	}

	b.WriteString("\n" + helpStyle.Render("Esc to go back · q to quit") + "\n")
	return b.String()
}
