package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"pipelined.dev/flock/log"
	"pipelined.dev/flock/portaudio"
	"pipelined.dev/flock/strategy"
)

type playCommand struct {
	synthFlags
	duration time.Duration
	latency  time.Duration
}

func (cmd *playCommand) Name() string {
	return "play"
}

func (cmd *playCommand) Help() string {
	return "Play synth definition on the default audio device"
}

func (cmd *playCommand) Register(fs *flag.FlagSet) {
	cmd.synthFlags.register(fs)
	fs.DurationVar(&cmd.duration, "duration", 0, "play duration, zero plays until interrupted")
	fs.DurationVar(&cmd.latency, "latency", 100*time.Millisecond, "output latency")
}

func (cmd *playCommand) Run(stdout io.Writer) error {
	if cmd.numOutputs < 1 {
		return fmt.Errorf("play needs at least one channel, got %d", cmd.numOutputs)
	}
	frames := strategy.MinBufferSize(cmd.sampleRate, cmd.numOutputs, cmd.latency) / cmd.numOutputs
	s, synth, err := cmd.strategy(frames)
	if err != nil {
		return err
	}
	logger := log.GetLogger()

	if err := portaudio.Initialize(); err != nil {
		return err
	}
	defer func() {
		if err := portaudio.Terminate(); err != nil {
			logger.Warnf("terminate portaudio: %v", err)
		}
	}()
	h, err := portaudio.Open(s)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := h.Start(cmd.duration); err != nil {
		h.Close()
		return err
	}
	fmt.Fprintf(stdout, "Playing synth %s, buffer size %d\n", synth.Name(), s.Settings().BufferSize)
	if err := h.Wait(ctx); err != nil && ctx.Err() == nil {
		h.Close()
		return err
	}
	return h.Close()
}
