package flock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pipelined.dev/flock"
	"pipelined.dev/flock/synthdef"
	"pipelined.dev/flock/ugen"
)

const fmSynth = `
id: sine
ugen: sinOsc
freq:
  id: mod
  ugen: sinOsc
  freq: 2
  mul: 20
  add: 440
mul: 0.25
`

func newSynth(t *testing.T, doc string) *flock.Synth {
	t.Helper()
	s, err := flock.NewSynth(mustDef(t, doc), testContext, flock.WithName("test"))
	require.NoError(t, err)
	return s
}

func TestSynthSetValue(t *testing.T) {
	s := newSynth(t, `
id: sine
ugen: sinOsc
freq: 440
`)
	assert.Equal(t, "test", s.Name())

	require.NoError(t, s.Set("sine.freq", synthdef.NumberValue(220)))
	in, err := s.Get("sine.freq")
	require.NoError(t, err)
	v, ok := in.Value()
	assert.True(t, ok)
	assert.Equal(t, 220.0, v)
	for _, sample := range in.UGen.Output() {
		assert.Equal(t, 220.0, sample)
	}

	// omitted mul is a value holder too.
	require.NoError(t, s.Set("sine.mul", synthdef.NumberValue(0.5)))
	in, err = s.Get("sine.mul")
	require.NoError(t, err)
	v, _ = in.Value()
	assert.Equal(t, 0.5, v)
}

func TestSynthSetNested(t *testing.T) {
	s := newSynth(t, fmSynth)
	mod, ok := s.Node("mod")
	require.True(t, ok)

	require.NoError(t, s.Set("mod.freq", synthdef.NumberValue(5)))
	in, err := s.Get("mod.freq")
	require.NoError(t, err)
	v, _ := in.Value()
	assert.Equal(t, 5.0, v)

	// value update keeps the node.
	current, _ := s.Node("mod")
	assert.Same(t, mod, current)

	in, err = s.Get("sine.freq")
	require.NoError(t, err)
	assert.Same(t, mod, in.UGen)
	_, ok = in.Value()
	assert.False(t, ok)
}

func TestSynthSetNumberReplacesNode(t *testing.T) {
	s := newSynth(t, fmSynth)
	require.NoError(t, s.Set("sine.freq", synthdef.NumberValue(330)))

	_, ok := s.Node("mod")
	assert.False(t, ok)
	in, err := s.Get("sine.freq")
	require.NoError(t, err)
	v, ok := in.Value()
	assert.True(t, ok)
	assert.Equal(t, 330.0, v)
}

func TestSynthGetIdempotent(t *testing.T) {
	s := newSynth(t, fmSynth)
	first, err := s.Get("mod.add")
	require.NoError(t, err)
	second, err := s.Get("mod.add")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	node, err := s.Get("mod")
	require.NoError(t, err)
	assert.Equal(t, ugen.Signal, node.Kind)
	assert.Equal(t, "sinOsc", node.UGen.Type())
}

func TestSynthHotSwap(t *testing.T) {
	s := newSynth(t, `
id: noise
ugen: dust
density: 10
`)
	old, ok := s.Node("noise")
	require.True(t, ok)

	err := s.Set("noise", synthdef.NodeValue(synthdef.Def{
		ID:   "noise",
		UGen: "dust",
		Inputs: map[string]synthdef.Value{
			"density": synthdef.NumberValue(200),
		},
	}))
	require.NoError(t, err)

	current, ok := s.Node("noise")
	require.True(t, ok)
	assert.NotSame(t, old, current)
	in, err := s.Get("noise.density")
	require.NoError(t, err)
	v, _ := in.Value()
	assert.Equal(t, 200.0, v)

	err = s.Set(flock.OutputID+".sources", synthdef.NodesValue(
		synthdef.Def{ID: "saw", UGen: "lfSaw"},
		synthdef.Def{ID: "pulse", UGen: "lfPulse"},
	))
	require.NoError(t, err)
	sources, err := s.Get(flock.OutputID + ".sources")
	require.NoError(t, err)
	require.Len(t, sources.UGens, 2)
	assert.Equal(t, "lfSaw", sources.UGens[0].Type())
	assert.Equal(t, "lfPulse", sources.UGens[1].Type())
	_, ok = s.Node("noise")
	assert.False(t, ok)

	def := s.Def()
	assert.ElementsMatch(t, []string{flock.OutputID, "saw", "pulse"}, def.IDs())

	// replace a single source.
	require.NoError(t, s.Set("pulse", synthdef.NodeValue(synthdef.Def{ID: "tri", UGen: "triOsc"})))
	sources, err = s.Get(flock.OutputID + ".sources")
	require.NoError(t, err)
	require.Len(t, sources.UGens, 2)
	assert.Equal(t, "triOsc", sources.UGens[1].Type())
	_, ok = s.Node("tri")
	assert.True(t, ok)
}

func TestSynthSourceAlias(t *testing.T) {
	s := newSynth(t, `
ugen: stereoOut
source: {id: sine, ugen: sinOsc}
`)
	in, err := s.Get(flock.OutputID + ".source")
	require.NoError(t, err)
	require.Len(t, in.UGens, 1)
	assert.Equal(t, "sine", in.UGens[0].ID())

	require.NoError(t, s.Set(flock.OutputID+".source", synthdef.NodeValue(synthdef.Def{ID: "saw", UGen: "lfSaw"})))
	in, err = s.Get(flock.OutputID + ".sources")
	require.NoError(t, err)
	require.Len(t, in.UGens, 1)
	assert.Equal(t, "lfSaw", in.UGens[0].Type())
	_, ok := s.Node("saw")
	assert.True(t, ok)
	_, ok = s.Node("sine")
	assert.False(t, ok)
}

func TestSynthSetErrors(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		value synthdef.Value
		err   error
	}{
		{
			name:  "missing node",
			path:  "missing.freq",
			value: synthdef.NumberValue(1),
			err:   flock.ErrUnresolvedPath,
		},
		{
			name:  "missing input",
			path:  "sine.nope",
			value: synthdef.NumberValue(1),
			err:   flock.ErrUnresolvedPath,
		},
		{
			name:  "unknown type",
			path:  "mod",
			value: synthdef.NodeValue(synthdef.Def{UGen: "nope"}),
			err:   flock.ErrUnknownUGenType,
		},
		{
			name:  "duplicate id",
			path:  "mod.freq",
			value: synthdef.NodeValue(synthdef.Def{ID: "sine", UGen: "lfSaw"}),
			err:   flock.ErrDuplicateNodeID,
		},
		{
			name:  "array to signal",
			path:  "sine.freq",
			value: synthdef.NumbersValue(1, 2),
			err:   flock.ErrInvalidNodeSpec,
		},
		{
			name:  "out of domain",
			path:  flock.OutputID + ".expand",
			value: synthdef.NumberValue(0),
			err:   flock.ErrInvalidNodeSpec,
		},
		{
			name:  "head",
			path:  flock.OutputID,
			value: synthdef.NodeValue(synthdef.Def{UGen: "out"}),
			err:   flock.ErrInvalidNodeSpec,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s := newSynth(t, fmSynth)
			before := s.Def()
			mod, _ := s.Node("mod")

			err := s.Set(test.path, test.value)
			assert.ErrorIs(t, err, test.err)
			var pathErr *flock.PathError
			assert.ErrorAs(t, err, &pathErr)

			assert.Equal(t, before, s.Def())
			current, ok := s.Node("mod")
			assert.True(t, ok)
			assert.Same(t, mod, current)
		})
	}
}

func TestSynthGetErrors(t *testing.T) {
	s := newSynth(t, fmSynth)
	for _, path := range []string{"", "missing", "missing.freq", "sine.nope"} {
		_, err := s.Get(path)
		assert.ErrorIs(t, err, flock.ErrUnresolvedPath, path)
	}
}

func TestSynthDefaultName(t *testing.T) {
	a, err := flock.NewSynth(synthdef.Def{UGen: "sinOsc"}, testContext)
	require.NoError(t, err)
	b, err := flock.NewSynth(synthdef.Def{UGen: "sinOsc"}, testContext)
	require.NoError(t, err)
	assert.NotEmpty(t, a.Name())
	assert.NotEqual(t, a.Name(), b.Name())
}
