package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"readstash-go/pkg/cli"
	"readstash-go/pkg/config"
)

func main() {
	var (
		listMode   = flag.Bool("list", false, "List saved items")
		importMode = flag.Bool("import", false, "Bulk import URLs (pass them as arguments)")
		scrapeURL  = flag.String("scrape", "", "Save a single URL")
		register   = flag.String("register", "", "Register a new user with the given email")

		// Config commands
		configShow = flag.Bool("config-show", false, "Show current configuration")
		configSet  = flag.String("config-set", "", "Set a config value (format: section.key=value)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	app := cli.NewApp(cfg)

	// Handle config commands first (don't need the API)
	if *configShow {
		app.ShowConfig()
		return
	}
	if *configSet != "" {
		if err := app.SetConfig(*configSet); err != nil {
			log.Fatalf("failed to set config: %v", err)
		}
		fmt.Println("Configuration updated successfully")
		return
	}

	if *register != "" {
		if err := app.RegisterUser(*register); err != nil {
			log.Fatalf("registration failed: %v", err)
		}
		return
	}

	if *listMode {
		app.ListItems()
		return
	}

	if *scrapeURL != "" {
		if err := app.ScrapeURL(*scrapeURL); err != nil {
			log.Fatalf("scrape failed: %v", err)
		}
		return
	}

	if *importMode {
		if err := app.ImportURLs(flag.Args()); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Interactive TUI mode
	if err := app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
