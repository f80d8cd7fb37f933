// Command ctax computes crypto asset taxes from a JSONL transaction history.
package main

import (
	"context"
	"flag"
	"maps"
	"os"
	"path"

	"github.com/etnz/cryptotax/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// completion describes the command line for shell completion.
func completion() *complete.Command {
	methods := predict.Set{"fifo", "lifo", "hifo", "specific-id"}
	jsonl := predict.Files("*.jsonl")
	input := map[string]complete.Predictor{
		"t":      jsonl,
		"prices": jsonl,
		"year":   predict.Something,
		"o":      predict.Files("*.json"),
		"q":      predict.Something,
	}
	with := func(extra map[string]complete.Predictor) map[string]complete.Predictor {
		flags := maps.Clone(input)
		maps.Copy(flags, extra)
		return flags
	}
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"config":   predict.Files("*.yaml"),
			"env-file": predict.Files("*"),
			"v":        predict.Nothing,
		},
		Sub: map[string]*complete.Command{
			"calc":     {Flags: with(map[string]complete.Predictor{"method": methods, "selections": jsonl})},
			"compare":  {Flags: with(map[string]complete.Predictor{"methods": predict.Something})},
			"income":   {Flags: with(nil)},
			"lots":     {Flags: with(map[string]complete.Predictor{"method": methods, "selections": jsonl, "asset": predict.Something, "open": predict.Nothing})},
			"topic":    {Flags: map[string]complete.Predictor{"raw": predict.Nothing}, Args: predict.Set{"transactions", "prices", "methods", "selections", "configuration", "*"}},
			"help":     {},
			"flags":    {},
			"commands": {},
		},
	}
}

func main() {
	name := path.Base(os.Args[0])
	// answers shell completion requests, and exits, when COMP_LINE is set.
	completion().Complete(name)

	commander := subcommands.NewCommander(flag.CommandLine, name)
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
