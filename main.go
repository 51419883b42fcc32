package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/pathfinder/pathfinder/internal/app"
	"github.com/pathfinder/pathfinder/internal/config"
	"github.com/pathfinder/pathfinder/pkg/event"
	"github.com/pathfinder/pathfinder/pkg/feed"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func init() {
	// .env is optional; values already in the environment win.
	_ = godotenv.Load()

	level := os.Getenv("LOG_LEVEL")
	if level != "" {
		logrusLevel, err := log.ParseLevel(level)
		if err != nil {
			log.Fatal(err)
		}
		log.SetLevel(logrusLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

var configFlag = &cli.StringFlag{
	Name:  "config",
	Value: "./config/application.yaml",
	Usage: "Path to the YAML configuration file.",
}

func main() {
	cliApp := &cli.App{
		Name:   "pathfinder",
		Usage:  "Serve the Pathfinder event catalog.",
		Flags:  []cli.Flag{configFlag},
		Action: serve,
		Commands: []*cli.Command{
			serveCommand(),
			linksCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Run the HTTP API and the scheduled feed refresh.",
		Flags:  []cli.Flag{configFlag},
		Action: serve,
	}
}

func serve(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	application, err := app.NewApplication(c.Context, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return application.Run(c.Context)
}

func linksCommand() *cli.Command {
	return &cli.Command{
		Name:  "links",
		Usage: "Fetch the feed once and print a calendar link per event.",
		Flags: []cli.Flag{
			configFlag,
			&cli.StringFlag{Name: "type", Value: event.AllTypes, Usage: "Only print events of this type."},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}
			return printLinks(c.Context, feed.NewClient(cfg.Source.Url, cfg.Source.Timeout, cfg.Source.Retries), c.String("type"))
		},
	}
}

func printLinks(ctx context.Context, fetcher feed.Fetcher, selected string) error {
	records, err := fetcher.Fetch(ctx)
	if err != nil {
		return err
	}
	events, problems := event.ValidateAll(records)
	for _, problem := range problems {
		log.Warnf("Skipping feed record: %v", problem)
	}

	fmt.Printf("Types: %v\n", event.DistinctTypes(events))
	for _, e := range event.FilterByType(events, selected) {
		link, err := event.BuildCalendarURL(e)
		if err != nil {
			fmt.Printf("%s [%s]\n  calendar link unavailable: %v\n", e.Title, e.EventType, err)
			continue
		}
		fmt.Printf("%s [%s]\n  %s\n", e.Title, e.EventType, link)
	}
	return nil
}
