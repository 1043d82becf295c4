package metric_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"pipelined.dev/flock/metric"
)

type (
	evaluatorMock struct{}
	strategyMock  struct{}
)

func TestMeter(t *testing.T) {
	sampleRate := 44100
	// test cases
	var tests = []struct {
		component          interface{}
		routines           int
		periods            int
		blockSize          int64
		expectedSamples    string
		expectedPeriods    string
		expectedComponents string
	}{
		{
			component:          &evaluatorMock{},
			routines:           2,
			periods:            10,
			blockSize:          100,
			expectedSamples:    "2000",
			expectedPeriods:    "20",
			expectedComponents: "2",
		},
		{
			component:          evaluatorMock{},
			routines:           2,
			periods:            10,
			blockSize:          100,
			expectedSamples:    "4000",
			expectedPeriods:    "40",
			expectedComponents: "4",
		},
		{
			component:          strategyMock{},
			routines:           1,
			periods:            10,
			blockSize:          4410,
			expectedSamples:    "44100",
			expectedPeriods:    "10",
			expectedComponents: "1",
		},
	}
	// function to test meter.
	testFn := func(fn metric.MeasureFunc, wg *sync.WaitGroup, periods int, blockSize int64) {
		for i := 0; i < periods; i++ {
			fn(blockSize)
		}
		wg.Done()
	}

	for _, c := range tests {
		wg := &sync.WaitGroup{}
		wg.Add(c.routines)
		for i := 0; i < c.routines; i++ {
			go testFn(metric.Meter(c.component, sampleRate), wg, c.periods, c.blockSize)
		}
		// check if no data race.
		wg.Wait()
		values := metric.Get(c.component)
		assert.Equal(t, c.expectedSamples, values[metric.SampleCounter])
		assert.Equal(t, c.expectedPeriods, values[metric.PeriodCounter])
		assert.Equal(t, c.expectedComponents, values[metric.ComponentCounter])
	}

	all := metric.GetAll()
	assert.Contains(t, all, "metric_test.strategyMock")
	assert.Equal(t, `"1s"`, all["metric_test.strategyMock"][metric.DurationCounter])
}
