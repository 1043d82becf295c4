package ugen

// TypeValue is the type name of the value holder. Parsers wrap scalar
// literals into it.
const TypeValue = "value"

// Value holds a constant. It fills the whole output with the value, so
// consumers read it as a signal.
type Value struct {
	Base
	value *Input
}

func newValue(b Base) UGen {
	v := &Value{
		Base:  b,
		value: b.slot("value"),
	}
	v.fill()
	return v
}

// NewValue returns value holder for the context.
func NewValue(ctx Context, v float64) *Value {
	inputs := NewInputs()
	inputs.Add("value", Input{Kind: Scalar, Number: v})
	return newValue(NewBase(ctx, "", TypeValue, Constant, inputs)).(*Value)
}

// Value returns held value.
func (v *Value) Value() float64 {
	return v.value.Number
}

// SetValue replaces held value. Output is updated immediately.
func (v *Value) SetValue(value float64) {
	v.value.Number = value
	v.fill()
}

// Gen fills output with held value.
func (v *Value) Gen(numSamples int) {
	v.fill()
}

func (v *Value) fill() {
	value := v.value.Number
	for i := range v.output {
		v.output[i] = value
	}
}
