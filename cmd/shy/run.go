package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"
	"github.com/wudi/shy/engine"
	"github.com/wudi/shy/rule"
	"github.com/wudi/shy/values"
)

var runCommand = &cli.Command{
	Name:      "run",
	Usage:     "Load a YAML ruleset manifest and execute it once",
	ArgsUsage: "<manifest.yaml>",
	Flags: []cli.Flag{
		&cli.StringSliceFlag{
			Name:  "set",
			Usage: "Set a context property before execution, e.g. --set car.age=10",
		},
		&cli.BoolFlag{
			Name:  "trace",
			Usage: "Record one line of trace output per rule",
		},
	},
	Action: func(ctx context.Context, cmd *cli.Command) error {
		path := cmd.Args().First()
		if path == "" {
			return fmt.Errorf("run requires a manifest path")
		}

		rs, err := rule.LoadManifest(path)
		if err != nil {
			return err
		}

		rctx := engine.NewContext()
		for _, assignment := range cmd.StringSlice("set") {
			if err := applyAssignment(rctx, assignment); err != nil {
				return err
			}
		}

		result := rs.Exec(rctx, cmd.Bool("trace"))
		printResult(cmd.Root().Writer, result)
		return nil
	},
}

// applyAssignment parses a "dotted.path=value" string, inferring
// value's scalar type (boolean, integer, rational, else string), and
// stores it into ctx under the dotted path.
func applyAssignment(ctx *engine.Context, assignment string) error {
	parts := strings.SplitN(assignment, "=", 2)
	if len(parts) != 2 {
		return fmt.Errorf("invalid --set value %q (want path=value)", assignment)
	}
	path := strings.Split(parts[0], ".")
	return ctx.StoreChain(path, inferScalar(parts[1]))
}

func inferScalar(raw string) *values.Value {
	switch raw {
	case "true":
		return values.Boolean(true)
	case "false":
		return values.Boolean(false)
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return values.Integer(i)
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return values.Rational(f)
	}
	return values.String(raw)
}

func printResult(w io.Writer, result *rule.RuleSetResult) {
	status := "FAIL"
	if result.DidRulesetPass {
		status = "PASS"
	}
	fmt.Fprintf(w, "%s: %s (%d/%d applicable rules passed, %d inapplicable, %d errors)\n",
		result.Name, status, result.PassingApplicableRuleCount, result.ApplicableRuleCount,
		result.InapplicableRuleCount, result.RulesWithErrorsCount)
	for _, line := range result.Trace {
		fmt.Fprintf(w, "  %s\n", line)
	}
	for _, e := range result.Errors {
		fmt.Fprintf(w, "  error: %s\n", e)
	}
}
