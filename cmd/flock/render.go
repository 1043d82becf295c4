package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"pipelined.dev/flock/log"
	"pipelined.dev/flock/signal"
	"pipelined.dev/flock/wav"
)

type renderCommand struct {
	synthFlags
	out      string
	duration time.Duration
	bitDepth int
}

func (cmd *renderCommand) Name() string {
	return "render"
}

func (cmd *renderCommand) Help() string {
	return "Render synth definition into wav file"
}

func (cmd *renderCommand) Register(fs *flag.FlagSet) {
	cmd.synthFlags.register(fs)
	fs.StringVar(&cmd.out, "out", "", "output wav file (required)")
	fs.DurationVar(&cmd.duration, "duration", 5*time.Second, "duration of rendered signal")
	fs.IntVar(&cmd.bitDepth, "bitdepth", 16, "bit depth, 16 or 32")
}

func (cmd *renderCommand) Run(stdout io.Writer) error {
	if cmd.out == "" {
		return errors.New("missing -out required flag")
	}
	// offline rendering has no latency constraints.
	s, synth, err := cmd.strategy(cmd.blockSize * 16)
	if err != nil {
		return err
	}
	logger := log.GetLogger()
	logger.Debugf("render %s: synth %s", cmd.out, synth.Name())
	start := time.Now()
	if err := wav.Render(cmd.out, s, signal.BitDepth(cmd.bitDepth), cmd.duration); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Rendered %v to %s in %v\n", cmd.duration, cmd.out, time.Since(start))
	return nil
}
