package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"pipelined.dev/flock"
	"pipelined.dev/flock/strategy"
	"pipelined.dev/flock/synthdef"
)

// setList collects repeated -set path=value flags.
type setList []string

func (l *setList) String() string {
	return strings.Join(*l, ";")
}

func (l *setList) Set(v string) error {
	if !strings.Contains(v, "=") {
		return fmt.Errorf("expected path=value, got %q", v)
	}
	*l = append(*l, v)
	return nil
}

// apply sets the values in order.
func (l setList) apply(s *flock.Synth) error {
	for _, set := range l {
		i := strings.IndexByte(set, '=')
		v, err := synthdef.UnmarshalValue([]byte(set[i+1:]))
		if err != nil {
			return fmt.Errorf("set %s: %w", set[:i], err)
		}
		if err := s.Set(set[:i], v); err != nil {
			return err
		}
	}
	return nil
}

// synthFlags are shared by commands that instantiate a synth.
type synthFlags struct {
	def        string
	sampleRate int
	blockSize  int
	numOutputs int
	seed       int64
	sets       setList
}

func (f *synthFlags) register(fs *flag.FlagSet) {
	defaults := strategy.DefaultSettings()
	fs.StringVar(&f.def, "def", "", "synth definition file, - for stdin (required)")
	fs.IntVar(&f.sampleRate, "rate", defaults.SampleRate, "sample rate")
	fs.IntVar(&f.blockSize, "block", defaults.BlockSize, "block size")
	fs.IntVar(&f.numOutputs, "channels", defaults.NumOutputs, "number of output channels")
	fs.Int64Var(&f.seed, "seed", time.Now().UnixNano(), "seed for noise generators")
	fs.Var(&f.sets, "set", "path=value to set before start, can be repeated")
}

func (f *synthFlags) settings() flock.Settings {
	return flock.Settings{
		SampleRate: f.sampleRate,
		BlockSize:  f.blockSize,
		NumOutputs: f.numOutputs,
		Seed:       f.seed,
	}
}

func (f *synthFlags) load() (synthdef.Def, error) {
	if f.def == "" {
		return synthdef.Def{}, errors.New("missing -def required flag")
	}
	if f.def == "-" {
		return synthdef.Decode(os.Stdin)
	}
	file, err := os.Open(f.def)
	if err != nil {
		return synthdef.Def{}, err
	}
	defer file.Close()
	return synthdef.Decode(file)
}

// strategy creates strategy with the synth added to its evaluator.
func (f *synthFlags) strategy(bufferSize int) (*strategy.Strategy, *flock.Synth, error) {
	def, err := f.load()
	if err != nil {
		return nil, nil, err
	}
	s, err := strategy.New(strategy.Settings{
		Settings:   f.settings(),
		BufferSize: strategy.RoundToBlock(bufferSize, f.blockSize),
	}, nil)
	if err != nil {
		return nil, nil, err
	}
	synth, err := flock.NewSynth(def, s.Evaluator().UGenContext())
	if err != nil {
		return nil, nil, err
	}
	if err := f.sets.apply(synth); err != nil {
		return nil, nil, err
	}
	s.Evaluator().Add(synth)
	return s, synth, nil
}
