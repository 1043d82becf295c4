package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"pipelined.dev/flock/ugen"
)

type listCommand struct {
	verbose bool
}

func (cmd *listCommand) Name() string {
	return "list"
}

func (cmd *listCommand) Help() string {
	return "Show the list of available unit generators"
}

func (cmd *listCommand) Register(fs *flag.FlagSet) {
	fs.BoolVar(&cmd.verbose, "v", false, "show inputs of unit generators")
}

func (cmd *listCommand) Run(stdout io.Writer) error {
	r := ugen.Default()
	for _, typ := range r.Types() {
		spec, _ := r.Lookup(typ)
		if !cmd.verbose {
			fmt.Fprintln(stdout, typ)
			continue
		}
		inputs := make([]string, 0, len(spec.Inputs))
		for _, in := range spec.Inputs {
			if in.Required {
				inputs = append(inputs, fmt.Sprintf("%s %v (required)", in.Name, in.Kind))
				continue
			}
			inputs = append(inputs, fmt.Sprintf("%s %v = %v", in.Name, in.Kind, in.Default))
		}
		fmt.Fprintf(stdout, "%s\t%v\t%s\n", typ, spec.Rate, strings.Join(inputs, ", "))
	}
	return nil
}
