package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"readstash-go/pkg/cli/client"
	"readstash-go/pkg/cli/tui"
	"readstash-go/pkg/config"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pelletier/go-toml/v2"
)

type App struct {
	cfg    *config.Config
	client *client.Client
}

func NewApp(cfg *config.Config) *App {
	return &App{
		cfg: cfg,
	}
}

// getClient returns the HTTP client, creating it if necessary
func (a *App) getClient() (*client.Client, error) {
	if a.client != nil {
		return a.client, nil
	}

	if a.cfg.CLI.APIBaseURL == "" {
		return nil, fmt.Errorf("API base URL not configured")
	}
	if a.cfg.CLI.APIKey == "" {
		return nil, fmt.Errorf("API key not configured (run with -register <email> first)")
	}

	a.client = client.NewClient(a.cfg.CLI.APIBaseURL, a.cfg.CLI.APIKey)
	return a.client, nil
}

// getClientForRegistration returns an HTTP client without API key (for registration)
func (a *App) getClientForRegistration() (*client.Client, error) {
	if a.cfg.CLI.APIBaseURL == "" {
		return nil, fmt.Errorf("API base URL not configured")
	}
	// Registration endpoint doesn't require auth
	return client.NewClient(a.cfg.CLI.APIBaseURL, ""), nil
}

// ShowConfig displays the current configuration
func (a *App) ShowConfig() {
	data, err := toml.Marshal(a.cfg)
	if err != nil {
		fmt.Printf("Error marshaling config: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

// SetConfig sets a configuration value
// Format: section.key=value (e.g., "extractor.base_url=http://localhost:3002")
func (a *App) SetConfig(setStr string) error {
	parts := strings.SplitN(setStr, "=", 2)
	if len(parts) != 2 {
		return fmt.Errorf("invalid format: expected 'section.key=value'")
	}

	keyPath := strings.Split(parts[0], ".")
	value := parts[1]

	if len(keyPath) != 2 {
		return fmt.Errorf("invalid key format: expected 'section.key'")
	}

	section := keyPath[0]
	key := keyPath[1]

	switch section {
	case "database":
		switch key {
		case "url":
			a.cfg.Database.URL = value
		default:
			return fmt.Errorf("unknown database key: %s", key)
		}
	case "api":
		switch key {
		case "host":
			a.cfg.API.Host = value
		case "port":
			var port int
			if _, err := fmt.Sscanf(value, "%d", &port); err != nil {
				return fmt.Errorf("invalid port value: %s", value)
			}
			a.cfg.API.Port = port
		default:
			return fmt.Errorf("unknown api key: %s", key)
		}
	case "cli":
		switch key {
		case "api_base_url":
			a.cfg.CLI.APIBaseURL = value
		case "api_key":
			a.cfg.CLI.APIKey = value
		default:
			return fmt.Errorf("unknown cli key: %s", key)
		}
	case "extractor":
		switch key {
		case "base_url":
			a.cfg.Extractor.BaseURL = value
		case "schema":
			a.cfg.Extractor.Schema = value
		case "timeout_seconds":
			var secs int
			if _, err := fmt.Sscanf(value, "%d", &secs); err != nil {
				return fmt.Errorf("invalid timeout value: %s", value)
			}
			a.cfg.Extractor.TimeoutSeconds = secs
		default:
			return fmt.Errorf("unknown extractor key: %s", key)
		}
	case "llm":
		switch key {
		case "api_key":
			a.cfg.LLM.APIKey = value
		case "model":
			a.cfg.LLM.Model = value
		default:
			return fmt.Errorf("unknown llm key: %s", key)
		}
	default:
		return fmt.Errorf("unknown section: %s", section)
	}

	return config.Save(a.cfg)
}

// Run launches the interactive TUI shell.
func (a *App) Run() error {
	apiClient, err := a.getClient()
	if err != nil {
		return err
	}

	program := tea.NewProgram(tui.NewRootModel(apiClient))
	_, err = program.Run()
	return err
}

// ImportURLs runs the bulk import flow with a live progress view.
func (a *App) ImportURLs(urls []string) error {
	apiClient, err := a.getClient()
	if err != nil {
		return err
	}

	program := tea.NewProgram(tui.NewImportModel(apiClient, urls))
	_, err = program.Run()
	return err
}

// ListItems prints the user's saved items as a table.
func (a *App) ListItems() {
	apiClient, err := a.getClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	items, err := apiClient.ListItems()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching items: %v\n", err)
		os.Exit(1)
	}

	if len(items) == 0 {
		fmt.Println("No items found.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tStatus\tURL\tTitle\tCreated")
	fmt.Fprintln(w, "───\t───\t───\t───\t───")

	for _, item := range items {
		title := "(no title)"
		if item.Title != nil && *item.Title != "" {
			title = *item.Title
		}

		// Truncate URL if too long
		url := item.URL
		if len(url) > 50 {
			url = url[:47] + "..."
		}

		created := item.CreatedAt.Format("2006-01-02 15:04")

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			item.ID.String()[:8]+"...",
			item.Status,
			url,
			title,
			created,
		)
	}

	w.Flush()
	fmt.Printf("\nTotal: %d item(s)\n", len(items))
}

// ScrapeURL saves a single URL synchronously and prints the result.
func (a *App) ScrapeURL(url string) error {
	apiClient, err := a.getClient()
	if err != nil {
		return err
	}

	item, err := apiClient.ScrapeURL(url)
	if err != nil {
		return fmt.Errorf("failed to scrape URL: %w", err)
	}

	fmt.Printf("Saved %s\n", item.URL)
	fmt.Printf("  Status: %s\n", item.Status)
	if item.Title != nil && *item.Title != "" {
		fmt.Printf("  Title: %s\n", *item.Title)
	}
	fmt.Printf("  ID: %s\n", item.ID)
	return nil
}

// RegisterUser creates a new user account and saves the API key
func (a *App) RegisterUser(email string) error {
	apiClient, err := a.getClientForRegistration()
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	user, err := apiClient.CreateUser(email)
	if err != nil {
		if strings.Contains(err.Error(), "does not exist") {
			return fmt.Errorf("database table 'users' does not exist; create the schema before registering")
		}
		return err
	}

	// Save API key to config
	a.cfg.CLI.APIKey = user.APIKey
	if err := config.Save(a.cfg); err != nil {
		return fmt.Errorf("failed to save API key: %w", err)
	}

	// Update the client with the new API key
	a.client = client.NewClient(a.cfg.CLI.APIBaseURL, user.APIKey)

	fmt.Println("✓ User registered successfully!")
	fmt.Printf("  Email: %s\n", user.Email)
	fmt.Printf("  User ID: %s\n", user.ID.String())
	fmt.Printf("  API key saved to config automatically\n")
	fmt.Println("\n⚠️  Save this API key securely (it won't be shown again):")
	fmt.Printf("  %s\n", user.APIKey)

	return nil
}
