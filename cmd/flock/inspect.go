package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"

	"pipelined.dev/flock"
	"pipelined.dev/flock/synthdef"
)

type inspectCommand struct {
	synthFlags
	dump bool
}

// node is a printable summary of unit generator.
type node struct {
	ID     string
	Type   string
	Rate   string
	Inputs []string
}

func (cmd *inspectCommand) Name() string {
	return "inspect"
}

func (cmd *inspectCommand) Help() string {
	return "Parse synth definition and print its graph"
}

func (cmd *inspectCommand) Register(fs *flag.FlagSet) {
	cmd.synthFlags.register(fs)
	fs.BoolVar(&cmd.dump, "dump", false, "dump evaluation order")
}

func (cmd *inspectCommand) Run(stdout io.Writer) error {
	def, err := cmd.load()
	if err != nil {
		return err
	}
	e, err := flock.NewEvaluator(cmd.settings())
	if err != nil {
		return err
	}
	s, err := flock.NewSynth(def, e.UGenContext())
	if err != nil {
		return err
	}
	if err := cmd.sets.apply(s); err != nil {
		return err
	}

	b, err := synthdef.Marshal(s.Def())
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s", b)
	if !cmd.dump {
		return nil
	}

	g, err := flock.Parse(s.Def(), e.UGenContext())
	if err != nil {
		return err
	}
	nodes := make([]node, 0, len(g.Order))
	for _, u := range g.Order {
		nodes = append(nodes, node{
			ID:     u.ID(),
			Type:   u.Type(),
			Rate:   u.Rate().String(),
			Inputs: u.Inputs().Names(),
		})
	}
	cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true}
	cfg.Fdump(stdout, nodes)
	return nil
}
