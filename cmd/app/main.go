package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/wunjo/internal"
	"github.com/starford/wunjo/internal/render"
	"github.com/starford/wunjo/internal/snippet"
	"github.com/starford/wunjo/internal/viewservice"
	pkgconfig "github.com/starford/wunjo/pkg/config"
)

var version = "dev"

// loadConfig reads the config file. The default path may be absent, in
// which case the built-in defaults apply.
func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	if cmd.IsSet("config") {
		if err := pkgconfig.Load(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
		return cfg, nil
	}
	if _, err := pkgconfig.LoadIfExists(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func options(cmd *cli.Command) ([]internal.Option, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if v := cmd.String("vault"); v != "" {
		cfg.Vault.Path = v
	}
	return []internal.Option{
		internal.WithConfig(cfg),
		internal.WithVersion(version),
	}, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	opts, err := options(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func renderView(ctx context.Context, cmd *cli.Command) error {
	opts, err := options(cmd)
	if err != nil {
		return err
	}
	format, err := render.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	if cmd.String("subject") == "" && cmd.String("current") == "" {
		return errors.New("render: --subject or --current is required")
	}

	req := viewservice.Request{
		Subject:  cmd.String("subject"),
		Current:  cmd.String("current"),
		Debug:    cmd.Bool("debug"),
		HideKeys: cmd.StringSlice("hide-key"),
		Format:   format,
	}
	// Unset list flags keep the configured defaults.
	if cmd.IsSet("column") {
		req.Columns = cmd.StringSlice("column")
	}
	if cmd.IsSet("exclude-folder") {
		req.ExcludeFolders = cmd.StringSlice("exclude-folder")
	}
	if cmd.IsSet("exclude-current") {
		v := cmd.Bool("exclude-current")
		req.ExcludeCurrent = &v
	}
	if req.Debug {
		opts = append(opts, internal.WithDebugLogging())
	}
	return internal.RenderView(ctx, req, opts...)
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	opts, err := options(cmd)
	if err != nil {
		return err
	}
	return internal.ServeMCP(ctx, opts...)
}

func parseSnippet(_ context.Context, cmd *cli.Command) error {
	msg := cmd.Args().First()
	if msg == "" {
		return errors.New("snippet: message argument is required")
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(snippet.Parse(msg, cmd.String("prefix")))
}

func main() {
	cmd := &cli.Command{
		Name:    "wunjo",
		Usage:   "Mentions tables for a Markdown vault: list items with inline fields, grouped by subject",
		Version: version,
		Action:  serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "vault",
				Usage:   "Vault directory (overrides the config file)",
				Sources: cli.EnvVars("WUNJO_VAULT"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Index the vault and serve the HTTP API with live events",
				Action: serve,
			},
			{
				Name:   "render",
				Usage:  "Render one mentions table to stdout",
				Action: renderView,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "subject", Aliases: []string{"s"}, Usage: "Document path or name, or a #tag"},
					&cli.StringFlag{Name: "current", Usage: "Path of the document the table is shown in"},
					&cli.StringSliceFlag{Name: "column", Usage: "Inline field promoted to its own column (repeatable)"},
					&cli.StringSliceFlag{Name: "exclude-folder", Usage: "Folder left out of the scan (repeatable)"},
					&cli.StringSliceFlag{Name: "hide-key", Usage: "Inline field never shown (repeatable)"},
					&cli.BoolFlag{Name: "exclude-current", Usage: "Leave the current document out"},
					&cli.BoolFlag{Name: "debug", Usage: "Trace the rendering pass to stderr"},
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: string(render.FormatAuto), Usage: "auto, markdown, text, pretty or json"},
				},
			},
			{
				Name:   "mcp",
				Usage:  "Serve MCP tools on stdio",
				Action: serveMCP,
			},
			{
				Name:      "snippet",
				Usage:     "Parse a note-title snippet and print it as JSON",
				ArgsUsage: "<msg>",
				Action:    parseSnippet,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "prefix", Usage: "Prefix for the full title"},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
