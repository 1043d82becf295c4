// Package metric exposes evaluation counters of engine components via
// expvar.
package metric

import (
	"expvar"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"pipelined.dev/flock/signal"
)

const componentsLabel = "flock.components"

const (
	// PeriodCounter measures number of evaluation periods.
	PeriodCounter = "Periods"
	// SampleCounter measures number of generated samples per channel.
	SampleCounter = "Samples"
	// LatencyCounter measures time between two evaluation periods.
	LatencyCounter = "Latency"
	// DurationCounter counts what's the duration of generated signal.
	DurationCounter = "Duration"
	// ComponentCounter counts number of metered components.
	ComponentCounter = "Components"
)

var (
	components = metrics{
		m: make(map[string]metric),
	}

	counters = []string{
		PeriodCounter,
		SampleCounter,
		LatencyCounter,
		DurationCounter,
		ComponentCounter,
	}
)

// Get metrics values for provided component type.
func Get(component interface{}) map[string]string {
	return getCounters(getType(component))
}

// GetAll returns counters for all measured components.
func GetAll() map[string]map[string]string {
	m := make(map[string]map[string]string)
	components.Lock()
	defer components.Unlock()
	for component := range components.m {
		m[component] = getCounters(component)
	}
	return m
}

func getCounters(componentType string) map[string]string {
	m := make(map[string]string)
	for _, counter := range counters {
		v := expvar.Get(key(componentType, counter))
		if v != nil {
			m[counter] = v.String()
		}
	}
	return m
}

// MeasureFunc captures metrics when a period is generated. It doesn't
// allocate, so it's safe to call from the audio callback.
type MeasureFunc func(blockSize int64)

// Meter creates new meter closure to capture component counters.
func Meter(component interface{}, sampleRate int) MeasureFunc {
	t := getType(component)
	metric := components.get(t)
	metric.components.Add(1)
	var (
		calledAt      time.Time
		blockSize     int64
		blockDuration time.Duration
	)
	return func(s int64) {
		now := time.Now()
		if !calledAt.IsZero() {
			metric.latency.set(now.Sub(calledAt))
		}
		calledAt = now
		metric.periods.Add(1)
		metric.samples.Add(s)
		// recalculate block duration only when block size has changed
		if blockSize != s {
			blockSize = s
			blockDuration = signal.DurationOf(sampleRate, s)
		}
		metric.duration.add(blockDuration)
	}
}

type metrics struct {
	sync.Mutex
	m map[string]metric
}

func (m *metrics) get(componentType string) metric {
	m.Lock()
	defer m.Unlock()
	if metric, ok := m.m[componentType]; ok {
		return metric
	}
	metric := newMetric(componentType)
	m.m[componentType] = metric
	return metric
}

type metric struct {
	components *expvar.Int
	periods    *expvar.Int
	samples    *expvar.Int
	latency    *duration
	duration   *duration
}

func newMetric(componentType string) metric {
	m := metric{
		components: expvar.NewInt(key(componentType, ComponentCounter)),
		periods:    expvar.NewInt(key(componentType, PeriodCounter)),
		samples:    expvar.NewInt(key(componentType, SampleCounter)),
		latency:    &duration{},
		duration:   &duration{},
	}
	expvar.Publish(key(componentType, LatencyCounter), m.latency)
	expvar.Publish(key(componentType, DurationCounter), m.duration)
	return m
}

func key(componentType, counter string) string {
	return fmt.Sprintf("%s.%s.%s", componentsLabel, componentType, counter)
}

func getType(component interface{}) string {
	rv := reflect.ValueOf(component)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}
	return rv.Type().String()
}

// duration allows to format time.Duration metric values.
type duration struct {
	d int64
}

func (v *duration) String() string {
	return fmt.Sprintf("%q", time.Duration(atomic.LoadInt64(&v.d)).String())
}

func (v *duration) add(delta time.Duration) {
	atomic.AddInt64(&v.d, int64(delta))
}

func (v *duration) set(value time.Duration) {
	atomic.StoreInt64(&v.d, int64(value))
}
