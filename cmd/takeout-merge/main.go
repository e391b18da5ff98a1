package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/rpaiva/takeout-merge/internal"
	"github.com/rpaiva/takeout-merge/internal/verify"

	"github.com/mitchellh/go-homedir"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf(err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	app := &cli.App{
		Name:  "takeout-merge",
		Usage: "merge Google Takeout sidecar metadata back into the exported media files",
		Commands: []*cli.Command{
			mergeCommand(logger),
			verifyCommand(logger),
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Fatal(err.Error())
	}
}

func mergeCommand(logger *zap.Logger) *cli.Command {
	return &cli.Command{
		Name:      "merge",
		Usage:     "apply sidecar metadata to the media files under a Takeout root",
		ArgsUsage: "<root>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "exiftool",
				Aliases: []string{"e"},
				Value:   "exiftool",
				Usage:   "exiftool executable path",
			},
			&cli.StringFlag{
				Name:    "move-to",
				Aliases: []string{"m"},
				Usage:   "directory to move sidecar files to, once they are processed",
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   "number of concurrent workers (defaults to the number of CPUs)",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "resolve and translate without invoking exiftool or moving files",
			},
		},
		Action: func(c *cli.Context) error {
			root, err := expandDir(c.Args().First())
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}

			moveTo := c.String("move-to")
			if moveTo != "" {
				if moveTo, err = expandDir(moveTo); err != nil {
					return cli.Exit(err.Error(), 1)
				}
			}

			runner := internal.NewRunner(logger, c.String("exiftool"), root, moveTo, c.Int("workers"), c.Bool("dry-run"))
			return runner.Run(c.Context)
		},
	}
}

func verifyCommand(logger *zap.Logger) *cli.Command {
	return &cli.Command{
		Name:      "verify",
		Usage:     "check that every file listed in the Takeout navigator manifest exists on disk",
		ArgsUsage: "<navigator.html>",
		Action: func(c *cli.Context) error {
			if c.Args().First() == "" {
				return cli.Exit("missing navigator.html argument", 1)
			}
			manifest, err := homedir.Expand(c.Args().First())
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			if info, err := os.Stat(manifest); err != nil || info.IsDir() {
				return cli.Exit(fmt.Sprintf("%v is not a file", manifest), 1)
			}

			rep, err := verify.Check(manifest, logger)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}

			logger.Info("Verification finished",
				zap.Int("checked", rep.Checked),
				zap.Int("missing", len(rep.Missing)))

			for _, m := range rep.Missing {
				logger.Warn("Missing entry", zap.String("path", m))
			}
			if len(rep.Missing) > 0 {
				return cli.Exit("some exported entries are missing", 1)
			}
			return nil
		},
	}
}

func expandDir(path string) (string, error) {
	if path == "" {
		return "", errors.New("missing directory argument")
	}

	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", err
	}

	if info, err := os.Stat(expanded); err != nil || !info.IsDir() {
		return "", fmt.Errorf("%v is not a directory", expanded)
	}

	return expanded, nil
}
