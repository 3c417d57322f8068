package tui

import (
	"fmt"
	"strings"

	"readstash-go/pkg/cli/client"
	"readstash-go/pkg/models"
	"readstash-go/pkg/utils"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

type importPhase int

const (
	phaseInput importPhase = iota
	phaseRunning
	phaseDone
)

// importModel drives a bulk import: collect URLs (one per line), submit the
// batch, then render the server's progress stream live until the final
// "N succeeded, M failed" summary.
type importModel struct {
	client *client.Client

	phase importPhase
	input textarea.Model
	bar   progress.Model
	spin  spinner.Model

	urls      []string
	last      *models.BulkScrapeProgress
	succeeded int
	failed    int
	err       error

	events <-chan models.BulkScrapeProgress
	errs   <-chan error
}

// NewImportModel creates the bulk import flow. When urls is non-empty the
// input phase is skipped and the batch starts immediately.
func NewImportModel(c *client.Client, urls []string) tea.Model {
	input := textarea.New()
	input.Placeholder = "https://example.com/article\nhttps://example.com/another"
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = infoStyle

	return &importModel{
		client: c,
		input:  input,
		bar:    progress.New(progress.WithDefaultGradient()),
		spin:   spin,
		urls:   urls,
	}
}

// Messages for the import flow.
type importStartedMsg struct {
	events <-chan models.BulkScrapeProgress
	errs   <-chan error
}

type importProgressMsg models.BulkScrapeProgress

type importDoneMsg struct{}

type importErrMsg struct{ err error }

func (m *importModel) Init() tea.Cmd {
	if len(m.urls) > 0 {
		m.phase = phaseRunning
		return tea.Batch(m.spin.Tick, m.startImport())
	}
	return textarea.Blink
}

// startImport submits the batch and hands back the progress channels.
func (m *importModel) startImport() tea.Cmd {
	urls := m.urls
	return func() tea.Msg {
		events, errs, err := m.client.BulkScrape(urls)
		if err != nil {
			return importErrMsg{err: err}
		}
		return importStartedMsg{events: events, errs: errs}
	}
}

// waitForEvent pulls the next progress event off the stream.
func waitForEvent(events <-chan models.BulkScrapeProgress, errs <-chan error) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			if err := <-errs; err != nil {
				return importErrMsg{err: err}
			}
			return importDoneMsg{}
		}
		return importProgressMsg(event)
	}
}

func (m *importModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.phase != phaseRunning {
				return m, tea.Quit
			}
		case "ctrl+s":
			if m.phase == phaseInput {
				urls, err := parseURLLines(m.input.Value())
				if err != nil {
					m.err = err
					return m, nil
				}
				m.err = nil
				m.urls = urls
				m.phase = phaseRunning
				return m, tea.Batch(m.spin.Tick, m.startImport())
			}
		case "enter", "q":
			if m.phase == phaseDone {
				return m, tea.Quit
			}
		}

	case importStartedMsg:
		m.events = msg.events
		m.errs = msg.errs
		return m, waitForEvent(m.events, m.errs)

	case importProgressMsg:
		event := models.BulkScrapeProgress(msg)
		m.last = &event
		if event.Status == models.ProgressSuccess {
			m.succeeded++
		} else {
			m.failed++
		}
		return m, waitForEvent(m.events, m.errs)

	case importDoneMsg:
		m.phase = phaseDone
		return m, nil

	case importErrMsg:
		m.err = msg.err
		m.phase = phaseDone
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	if m.phase == phaseInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *importModel) View() string {
	var b strings.Builder
	b.WriteString(renderTitle("Bulk import"))

	switch m.phase {
	case phaseInput:
		b.WriteString(boldStyle.Render("Enter URLs to import, one per line:") + "\n\n")
		b.WriteString(m.input.View() + "\n\n")
		if m.err != nil {
			b.WriteString(renderError(m.err.Error()) + "\n\n")
		}
		b.WriteString(helpStyle.Render("Ctrl+S to start · Esc to cancel") + "\n")

	case phaseRunning:
		total := len(m.urls)
		completed := m.succeeded + m.failed
		percent := float64(completed) / float64(total)

		b.WriteString(fmt.Sprintf("%s Importing %d of %d\n\n", m.spin.View(), completed, total))
		b.WriteString(m.bar.ViewAs(percent) + "\n\n")
		if m.last != nil {
			b.WriteString(itemURLStyle.Render(m.last.URL) + "  " + renderEventStatus(m.last.Status) + "\n")
		}
		b.WriteString("\n" + mutedStyle.Render(fmt.Sprintf("%d succeeded · %d failed", m.succeeded, m.failed)) + "\n")

	case phaseDone:
		if m.err != nil {
			b.WriteString(renderError(fmt.Sprintf("Import interrupted: %v", m.err)) + "\n\n")
		}
		summary := fmt.Sprintf("Imported %d URLs, %d failed", m.succeeded, m.failed)
		if m.failed > 0 {
			b.WriteString(errorStyle.Render(summary) + "\n\n")
		} else {
			b.WriteString(renderSuccess(fmt.Sprintf("Imported %d URLs successfully", m.succeeded)) + "\n\n")
		}
		b.WriteString(helpStyle.Render("Press Enter to exit") + "\n")
	}

	return b.String()
}

func renderEventStatus(status string) string {
	if status == models.ProgressSuccess {
		return successStyle.Render("ok")
	}
	return errorStyle.Render("failed")
}

// parseURLLines splits textarea content into validated URLs.
func parseURLLines(raw string) ([]string, error) {
	var urls []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		u, err := utils.ValidateAbsoluteURL(line)
		if err != nil {
			return nil, err
		}
		urls = append(urls, u)
	}
	if len(urls) == 0 {
		return nil, fmt.Errorf("enter at least one URL")
	}
	return urls, nil
}
