/*
Package flock is a block-based synthesis engine. Synths are graphs of unit
generators that are evaluated once per period and write multichannel
blocks of samples into the bus table.

Definitions

A synth is described with a definition tree:

    ugen: sinOsc
    id: carrier
    inputs:
      freq:
        ugen: sinOsc
        id: mod
        freq: 2
        mul: 20
        add: 440
      mul: 0.25

Inputs hold numbers, arrays of numbers, definitions or arrays of
definitions. Numbers bound to signal inputs become value holders. A
definition that doesn't end with an output is wrapped into an out unit
generator with the reserved OutputID, so every synth has exactly one head.

Evaluation

Evaluator owns the bus table and calls registered heads once per period:

    e, err := flock.NewEvaluator(flock.Settings{
        SampleRate: 44100,
        BlockSize:  64,
        NumOutputs: 2,
    })
    s, err := flock.NewSynth(def, e.UGenContext())
    e.Add(s)
    e.Gen()

Output buses are never cleared in advance: the first write in a period
overwrites the bus, later writes accumulate. Buses nobody wrote are
silenced at the end of the period.

Control

Synth inputs are addressed with "<nodeId>.<inputName>" paths. Set changes
held values in place or replaces whole subgraphs. Gen never waits for
control calls: if the graph is being mutated, the previous block is
written again and the change becomes audible on the next period.
*/
package flock
