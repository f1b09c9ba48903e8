package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	b := &board{}

	app := &cli.App{
		Name:  "board",
		Usage: "KMB arrival board with favorite routes",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "path to .env file",
				Value:   ".env",
				EnvVars: []string{"BOARD_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "lang",
				Usage: "display language (tc, en)",
				Value: "tc",
			},
		},
		Before: b.open,
		After:  b.close,
		Commands: []*cli.Command{
			routesCommand(b),
			stopsCommand(b),
			etaCommand(b),
			favoriteCommand(b),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
