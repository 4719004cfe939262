package cmd

import (
	"context"
	"os"
	"time"

	"github.com/olimci/hyoushi/pkg/version"
	"github.com/urfave/cli/v3"
)

var Version = version.String()

func Execute(ctx context.Context, args []string) error {
	app := &cli.Command{
		Name:  "hyoushi",
		Usage: "A small static blog generator",
		Commands: []*cli.Command{
			{
				Name:   "version",
				Usage:  "print version",
				Action: runVersion,
			},
			{
				Name:      "init",
				Usage:     "Scaffold a new site",
				ArgsUsage: "[directory]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Value: "", Usage: "Site title (defaults to directory name)"},
					&cli.StringFlag{Name: "author", Aliases: []string{"a"}, Value: "", Usage: "Author name"},
					&cli.StringFlag{Name: "url", Aliases: []string{"u"}, Value: "", Usage: "Absolute site URL"},
					&cli.BoolFlag{Name: "force", Aliases: []string{"f"}, Value: false, Usage: "Overwrite existing files"},
					&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Value: false, Usage: "Skip the interactive form"},
				},
				Action: Init,
			},
			{
				Name:  "build",
				Usage: "Build the site into a dist directory",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Value: ConfigFile, Usage: "config file path"},
					&cli.StringFlag{Name: "dist", Aliases: []string{"d"}, Value: "", Usage: "output directory (overrides config)"},
					&cli.BoolFlag{Name: "strict", Aliases: []string{"s"}, Value: false, Usage: "fail on warnings"},
					&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Value: false, Usage: "log debug events"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					logger := newLogger(os.Stderr, cmd.Bool("verbose"))
					return Build(ctx, logger, cmd.String("config"), cmd.String("dist"), cmd.Bool("strict"))
				},
			},
			{
				Name:  "dev",
				Usage: "Start development server with file watching and auto-rebuild",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Value: ConfigFile, Usage: "Config file path"},
					&cli.StringFlag{Name: "dist", Aliases: []string{"d"}, Value: "", Usage: "Directory to build into and serve (overrides config)"},
					&cli.StringFlag{Name: "host", Value: "127.0.0.1", Usage: "HTTP host"},
					&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: 6767, Usage: "HTTP port"},
					&cli.DurationFlag{Name: "debounce", Value: 250 * time.Millisecond, Usage: "Debounce window for rebuilds"},
					&cli.BoolFlag{Name: "no-ui", Value: false, Usage: "Disable interactive UI and log to stderr only"},
					&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Value: false, Usage: "log debug events"},
				},
				Action: RunDevServer,
			},
		},
	}

	return app.Run(ctx, args)
}
