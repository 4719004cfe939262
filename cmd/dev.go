package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/olimci/hyoushi/cmd/internal"
	"github.com/urfave/cli/v3"
)

// RunDevServer builds the site, serves the dist directory and rebuilds on
// changes until interrupted.
func RunDevServer(ctx context.Context, cmd *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	noUI := cmd.Bool("no-ui") || !isTerminal(os.Stdout)
	logger := newLogger(os.Stderr, cmd.Bool("verbose"))

	devServer, err := internal.NewDevServer(internal.DevServerConfig{
		ConfigPath: cmd.String("config"),
		DistDir:    cmd.String("dist"),
		Host:       cmd.String("host"),
		Port:       int(cmd.Int("port")),
		Debounce:   cmd.Duration("debounce"),
		NoUI:       noUI,
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	defer devServer.Close()

	return devServer.Run(ctx)
}
