package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/olimci/hyoushi/pkg/config"
	"github.com/olimci/hyoushi/pkg/scaffold"
	"github.com/olimci/hyoushi/pkg/version"
	"github.com/urfave/cli/v3"
)

// ConfigFile is the config written by init and read by default.
const ConfigFile = "hyoushi.toml"

type initAnswers struct {
	Name   string
	Author string
	URL    string
}

func Init(ctx context.Context, cmd *cli.Command) error {
	targetDir := "."
	if cmd.NArg() > 0 {
		targetDir = cmd.Args().First()
	}

	absTargetDir, err := filepath.Abs(targetDir)
	if err != nil {
		return fmt.Errorf("resolving target directory: %w", err)
	}

	answers := initAnswers{
		Name:   cmd.String("name"),
		Author: cmd.String("author"),
		URL:    cmd.String("url"),
	}
	if answers.Name == "" {
		answers.Name = scaffold.DeriveSiteName(absTargetDir)
	}

	if !cmd.Bool("yes") && isTerminal(os.Stdin) && isTerminal(os.Stdout) {
		if err := askInit(&answers); err != nil {
			return err
		}
	}

	force := cmd.Bool("force")
	configPath := filepath.Join(absTargetDir, ConfigFile)
	if !force {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("%w: %s", scaffold.ErrExists, configPath)
		}
	}

	vars := scaffold.NewVariables(scaffold.VariablesConfig{
		Directory: absTargetDir,
		SiteName:  answers.Name,
		Author:    answers.Author,
		Version:   version.String(),
	})

	result, err := scaffold.Build(ctx, absTargetDir, vars, scaffold.WithForce(force))
	if err != nil {
		return err
	}

	cfg := config.DefaultConfig()
	cfg.Site.Title = vars.SiteName
	cfg.Site.Author.Name = vars.Author
	if answers.URL != "" {
		cfg.Site.URL = answers.URL
	}
	if err := config.Save(configPath, cfg); err != nil {
		return fmt.Errorf("writing %s: %w", ConfigFile, err)
	}

	out := cmd.Root().Writer
	fmt.Fprintf(out, "Created %s with %d files.\n\n", vars.SiteName, len(result.FilesCreated)+1)
	fmt.Fprintln(out, "Next steps:")
	if targetDir != "." {
		fmt.Fprintf(out, "  cd %s\n", targetDir)
	}
	fmt.Fprintln(out, "  hyoushi dev     # start the development server")
	fmt.Fprintln(out, "  hyoushi build   # build for production")

	return nil
}

func askInit(answers *initAnswers) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Site title").
				Value(&answers.Name).
				Validate(required("site title")),
			huh.NewInput().
				Title("Author name").
				Placeholder("Anonymous").
				Value(&answers.Author),
			huh.NewInput().
				Title("Site URL").
				Placeholder("https://example.com").
				Value(&answers.URL).
				Validate(validURL),
		),
	)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return fmt.Errorf("init cancelled")
		}
		return err
	}
	return nil
}

func required(name string) func(string) error {
	return func(s string) error {
		if s == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}

func validURL(s string) error {
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%q is not an absolute URL", s)
	}
	return nil
}
