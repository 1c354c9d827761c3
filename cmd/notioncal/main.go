package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"notioncal/internal/cache"
	"notioncal/internal/config"
	"notioncal/internal/feed"
	"notioncal/internal/notion"
	"notioncal/internal/server"
)

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:                 "notioncal",
		Usage:                "serve a Notion database as an iCalendar feed",
		EnableBashCompletion: true,
		Suggest:              true,
		Flags: []cli.Flag{
			&cli.PathFlag{
				Name:    "config",
				Aliases: []string{"c"},
				EnvVars: []string{"NOTIONCAL_CONFIG"},
				Usage:   "path to the configuration file",
				Value:   "notioncal.yaml",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "serve calendar feeds over HTTP",
				Action: runServe,
			},
			{
				Name:  "save",
				Usage: "render one database's feed to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "database-id",
						Aliases:  []string{"d"},
						EnvVars:  []string{"NOTION_DATABASE_ID"},
						Usage:    "render the feed of this database ID",
						Required: true,
					},
					&cli.PathFlag{
						Name:     "output",
						Aliases:  []string{"o"},
						Usage:    "output iCal file path",
						Required: true,
					},
				},
				Action: runSave,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runServe(ctx *cli.Context) error {
	cfg, generator, err := setup(ctx)
	if err != nil {
		return err
	}

	generator.Fetcher = server.NewCachedFetcher(generator.Fetcher, cache.Policy{
		TTL:      cfg.Cache.FetchTTL,
		Capacity: cfg.Cache.Capacity,
	})

	srv := &http.Server{
		Handler: server.New(generator, server.Config{
			Tokens: cfg.Tokens,
			FeedCache: cache.Policy{
				TTL:      cfg.Cache.FeedTTL,
				Capacity: cfg.Cache.Capacity,
			},
		}).Router(),
		Addr:         cfg.Listen,
		WriteTimeout: 60 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Infof("Starting server on %s", cfg.Listen)
	return srv.ListenAndServe()
}

func runSave(ctx *cli.Context) error {
	_, generator, err := setup(ctx)
	if err != nil {
		return err
	}

	feedText, err := generator.Feed(ctx.Context, ctx.String("database-id"))
	if err != nil {
		return err
	}

	f, err := os.Create(ctx.Path("output"))
	if err != nil {
		return fmt.Errorf("unable to open output file: %w", err)
	}
	defer f.Close()

	_, err = f.WriteString(feedText)
	return err
}

func setup(ctx *cli.Context) (config.Application, *feed.Generator, error) {
	cfg, err := config.Load(ctx.Path("config"))
	if err != nil {
		return config.Application{}, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Application{}, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return config.Application{}, nil, fmt.Errorf("invalid log level: %w", err)
	}
	log.SetLevel(level)

	zone, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return config.Application{}, nil, fmt.Errorf("error loading timezone: %w", err)
	}

	client := notion.NewClient(notion.Config{
		APIKey:  cfg.Notion.APIKey,
		Version: cfg.Notion.Version,
		Timeout: cfg.Notion.Timeout,
		Retry: notion.RetryPolicy{
			Attempts: cfg.Notion.RetryAttempts,
			Delay:    cfg.Notion.RetryDelay,
		},
	})

	return cfg, &feed.Generator{Fetcher: client, Zone: zone}, nil
}
