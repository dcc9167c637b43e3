package main

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"

	"github.com/hinwong/salescast/internal/api"
	"github.com/hinwong/salescast/internal/inference"
	"github.com/hinwong/salescast/internal/logger"
	"github.com/hinwong/salescast/internal/persona"
	"github.com/hinwong/salescast/internal/toy"
)

func serveCmd() *cli.Command {
	var (
		addr        string
		dbPath      string
		logLevel    string
		logFormat   string
		readTimeout time.Duration

		temp, topP, repPenalty float64
		maxNewTokens, seed     int64
		greedy                 bool
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the selling-chat REST API and web UI",
		Flags: append(samplingFlags(&temp, &topP, &repPenalty, &maxNewTokens, &greedy, &seed),
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Value:       "127.0.0.1:7860",
				Destination: &addr,
			},
			&cli.StringFlag{
				Name:        "db",
				Usage:       "path to the streamer sqlite database",
				Destination: &dbPath,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "debug, info, warn or error",
				Value:       "info",
				Destination: &logLevel,
			},
			&cli.StringFlag{
				Name:        "log-format",
				Usage:       "text or json",
				Value:       "text",
				Destination: &logFormat,
			},
			&cli.DurationFlag{
				Name:        "read-timeout",
				Usage:       "read header timeout",
				Value:       30 * time.Second,
				Destination: &readTimeout,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := LoadConfig()

			log := buildLogger(cmd, cfg, logLevel, logFormat)
			defaults := samplingDefaults(cmd, cfg, temp, topP, repPenalty, maxNewTokens, greedy, seed)

			if !cmd.IsSet("addr") && cfg.ServerAddress != "" {
				addr = cfg.ServerAddress
			}
			if !cmd.IsSet("db") {
				dbPath = defaultDBPath(cfg)
			}
			if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
				return err
			}

			store, err := persona.Open(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()
			if err := seedStore(ctx, store); err != nil {
				return err
			}

			tok := toy.NewTokenizer()
			engine := inference.NewEngine(toy.NewModel(tok), tok, tok.EOSTokenIDs(), log)
			defer engine.Close()

			server := api.NewServer(api.ServerConfig{
				Engine:   engine,
				Store:    store,
				Defaults: defaults,
				Log:      log,
			})

			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			server.Register(e)

			log.Info("starting server", "address", addr, "db", dbPath)
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(srv *http.Server) error {
					srv.ReadHeaderTimeout = readTimeout
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}
}

func buildLogger(cmd *cli.Command, cfg Config, logLevel, logFormat string) logger.Logger {
	if !cmd.IsSet("log-level") && cfg.LogLevel != "" {
		logLevel = cfg.LogLevel
	}
	if !cmd.IsSet("log-format") && cfg.LogFormat != "" {
		logFormat = cfg.LogFormat
	}
	if logFormat == "json" {
		return logger.JSON(os.Stderr, logger.ParseLevel(logLevel))
	}
	return logger.Default()
}

// seedStore creates the built-in demo persona on first run so the UI has
// someone to talk to.
func seedStore(ctx context.Context, store *persona.Store) error {
	existing, err := store.List(ctx)
	if err != nil || len(existing) > 0 {
		return err
	}
	_, err = store.Create(ctx, persona.Streamer{
		Name: "Lele",
		Character: "You are Lele, a gold-medal live-commerce sales host. " +
			"You speak in a sweet, upbeat voice, call your viewers \"family\", " +
			"and you explain each product from its selling points while answering " +
			"questions strictly from the product information you were given.",
	})
	return err
}
