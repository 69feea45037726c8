package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/ansuz/internal"
	"github.com/starford/ansuz/internal/models"
	pkgconfig "github.com/starford/ansuz/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.ServeMCP(ctx, internal.WithConfig(cfg))
}

func captureNote(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.IsSet("open") {
		cfg.Capture.Open = cmd.Bool("open")
	}
	if cmd.IsSet("copy") {
		cfg.Capture.Copy = cmd.Bool("copy")
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
		internal.WithLogOutput(os.Stderr),
	}
	if cmd.Bool("dry-run") {
		opts = append(opts, internal.WithDispatcher(nil))
	}

	req := models.CaptureRequest{
		Title:     cmd.String("title"),
		Body:      cmd.String("body"),
		LinkURL:   cmd.String("link"),
		LinkLabel: cmd.String("label"),
		Highlight: cmd.String("highlight"),
		Vault:     cmd.String("vault"),
		Folder:    cmd.String("folder"),
	}
	res, err := internal.Capture(ctx, req, opts...)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, res.URI)
	return err
}

func resolveNote(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	res, err := internal.Resolve(ctx, cmd.String("vault"), cmd.String("title"), cmd.String("folder"),
		internal.WithConfig(cfg), internal.WithLogOutput(os.Stderr))
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func listVaults(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	vs, err := internal.Vaults(ctx, internal.WithConfig(cfg), internal.WithLogOutput(os.Stderr))
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPLUGIN\tPATH")
	for _, v := range vs {
		plugin := "no"
		if v.HasCapability {
			plugin = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", v.Name, plugin, v.Path)
	}
	return w.Flush()
}

func targetFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "title",
			Aliases:  []string{"t"},
			Usage:    "Note title (no extension)",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "vault",
			Usage: "Vault name (defaults to the last used vault)",
		},
		&cli.StringFlag{
			Name:    "folder",
			Aliases: []string{"f"},
			Usage:   "Folder for new notes (defaults to the last used folder)",
		},
	}
}

func main() {
	captureFlags := append(targetFlags(),
		&cli.StringFlag{
			Name:    "body",
			Aliases: []string{"b"},
			Usage:   "Text to capture",
		},
		&cli.StringFlag{
			Name:  "link",
			Usage: "Source URL",
		},
		&cli.StringFlag{
			Name:  "label",
			Usage: "Link text (defaults to the URL)",
		},
		&cli.StringFlag{
			Name:  "highlight",
			Usage: "Excerpt to quote",
		},
		&cli.BoolFlag{
			Name:  "open",
			Usage: "Open the generated link with the system URL handler",
		},
		&cli.BoolFlag{
			Name:  "copy",
			Usage: "Copy the generated link to the clipboard",
		},
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "Print the link without opening or copying it",
		},
	)

	cmd := &cli.Command{
		Name:  "ansuz",
		Usage: "Capture text into Obsidian notes through Advanced URI deep links",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "capture",
				Usage:  "Append to a note, or create it, and print the deep link",
				Flags:  captureFlags,
				Action: captureNote,
			},
			{
				Name:   "resolve",
				Usage:  "Show where a title would be written",
				Flags:  targetFlags(),
				Action: resolveNote,
			},
			{
				Name:   "vaults",
				Usage:  "List Obsidian vaults and their plugin status",
				Action: listVaults,
			},
			{
				Name:   "serve",
				Usage:  "Run the HTTP API",
				Action: serve,
			},
			{
				Name:   "mcp",
				Usage:  "Run the MCP server on stdio",
				Action: serveMCP,
			},
		},
		// Bare invocation runs the server.
		Action: serve,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
