package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"github.com/wudi/shy/rule"
	"github.com/wudi/shy/store"
)

// dsnFlag returns a fresh --dsn flag definition; each store subcommand
// gets its own instance rather than sharing one, since cli.Command
// flags are not meant to be reused across sibling commands.
func dsnFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "dsn",
		Usage:    "RuleSet store DSN, e.g. sqlite:/var/lib/shy/rules.db",
		Required: true,
	}
}

var storeCommand = &cli.Command{
	Name:  "store",
	Usage: "Manage rulesets persisted in a SQL-backed store",
	Commands: []*cli.Command{
		storeAddCommand,
		storeGetCommand,
		storeListCommand,
		storeDeleteCommand,
	},
}

var storeAddCommand = &cli.Command{
	Name:      "add",
	Usage:     "Save a YAML ruleset manifest under a name",
	ArgsUsage: "<name> <manifest.yaml>",
	Flags:     []cli.Flag{dsnFlag()},
	Action: func(ctx context.Context, cmd *cli.Command) error {
		args := cmd.Args()
		name, path := args.Get(0), args.Get(1)
		if name == "" || path == "" {
			return fmt.Errorf("store add requires <name> <manifest.yaml>")
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rs, err := rule.ParseManifest(data)
		if err != nil {
			return err
		}

		s, err := store.Open(cmd.String("dsn"))
		if err != nil {
			return err
		}
		defer s.Close()

		sources := make([]string, len(rs.Rules))
		for i, r := range rs.Rules {
			sources[i] = r.Source
		}

		return s.Save(ctx, store.Record{
			Name:        name,
			ContextName: rs.ContextName,
			Criteria:    rs.Criteria,
			Category:    rs.Category,
			RuleSource:  sources,
		})
	},
}

var storeGetCommand = &cli.Command{
	Name:      "get",
	Usage:     "Print a stored ruleset's metadata and rule sources",
	ArgsUsage: "<name>",
	Flags:     []cli.Flag{dsnFlag()},
	Action: func(ctx context.Context, cmd *cli.Command) error {
		name := cmd.Args().First()
		if name == "" {
			return fmt.Errorf("store get requires <name>")
		}

		s, err := store.Open(cmd.String("dsn"))
		if err != nil {
			return err
		}
		defer s.Close()

		rec, err := s.Get(ctx, name)
		if err != nil {
			return err
		}

		w := cmd.Root().Writer
		fmt.Fprintf(w, "name: %s\ncontext: %s\ncriteria: %s\ncategory: %s\ncreated: %s\n",
			rec.Name, rec.ContextName, rec.Criteria, rec.Category, rec.CreatedAt.Format("2006-01-02T15:04:05Z"))
		fmt.Fprintln(w, strings.Repeat("-", 40))
		for _, source := range rec.RuleSource {
			fmt.Fprintln(w, source)
		}
		return nil
	},
}

var storeListCommand = &cli.Command{
	Name:  "list",
	Usage: "List stored ruleset names, optionally filtered by category",
	Flags: []cli.Flag{
		dsnFlag(),
		&cli.StringFlag{Name: "category", Value: "*", Usage: "Category to filter by, \"*\" for all"},
	},
	Action: func(ctx context.Context, cmd *cli.Command) error {
		s, err := store.Open(cmd.String("dsn"))
		if err != nil {
			return err
		}
		defer s.Close()

		names, err := s.List(ctx, cmd.String("category"))
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Fprintln(cmd.Root().Writer, name)
		}
		return nil
	},
}

var storeDeleteCommand = &cli.Command{
	Name:      "delete",
	Usage:     "Delete a stored ruleset",
	ArgsUsage: "<name>",
	Flags:     []cli.Flag{dsnFlag()},
	Action: func(ctx context.Context, cmd *cli.Command) error {
		name := cmd.Args().First()
		if name == "" {
			return fmt.Errorf("store delete requires <name>")
		}

		s, err := store.Open(cmd.String("dsn"))
		if err != nil {
			return err
		}
		defer s.Close()

		return s.Delete(ctx, name)
	},
}
