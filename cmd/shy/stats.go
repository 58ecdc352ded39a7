package main

import (
	"context"
	"fmt"

	humanize "github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"
	"github.com/wudi/shy/cache"
	"github.com/wudi/shy/rule"
)

var statsCommand = &cli.Command{
	Name:      "stats",
	Usage:     "Load ruleset manifests into an in-memory cache and report hit/miss ratios and entry ages",
	ArgsUsage: "<manifest.yaml>...",
	Action: func(ctx context.Context, cmd *cli.Command) error {
		paths := cmd.Args().Slice()
		if len(paths) == 0 {
			return fmt.Errorf("stats requires at least one manifest path")
		}

		rulesets := cache.New[string, *rule.RuleSet](len(paths))

		// Load each manifest twice: the first GetOrAdd per path is a
		// miss that compiles and caches it, the second is a hit that
		// exercises the same path a host's repeated lookups would.
		for _, path := range paths {
			for i := 0; i < 2; i++ {
				if _, ok := rulesets.GetOrAdd(path, func(p string) (*rule.RuleSet, bool) {
					rs, err := rule.LoadManifest(p)
					if err != nil {
						fmt.Fprintf(cmd.Root().Writer, "skipping %s: %v\n", p, err)
						return nil, false
					}
					return rs, true
				}); !ok {
					break
				}
			}
		}

		w := cmd.Root().Writer
		fmt.Fprintln(w, rulesets.Info())

		for _, path := range paths {
			rs, created, ok := rulesets.Get(path)
			if !ok {
				continue
			}
			fmt.Fprintf(w, "  %s: %q, %d rule(s), cached %s\n",
				path, rs.Name, len(rs.Rules), humanize.Time(created))
		}

		return nil
	},
}
