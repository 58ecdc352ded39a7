package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"github.com/wudi/shy/version"
)

func main() {
	app := &cli.Command{
		Name:  "shy",
		Usage: "Compile and evaluate rules and rulesets",
		Commands: []*cli.Command{
			runCommand,
			replCommand,
			storeCommand,
			statsCommand,
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "version",
				Usage: "Show version and exit",
				Action: func(ctx context.Context, cmd *cli.Command, v bool) error {
					if v {
						fmt.Println(version.Version())
						os.Exit(0)
					}
					return nil
				},
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runREPL(os.Stdin, os.Stdout)
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
