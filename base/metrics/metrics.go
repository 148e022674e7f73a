/*
Package metrics records counters, gauges and timers to a dogstatsd agent.

Keys are prefixed with the name given to New, tags are "key:value" strings.
Naming convention:
  - internal process time: *.time
  - failures: *.err
*/
package metrics

import (
	"time"

	"github.com/spf13/viper"

	"github.com/x-xyz/marketclient/base/env"
	"github.com/x-xyz/marketclient/base/log"
)

// Ender stops a timer started by BumpTime
type Ender interface {
	End()
}

type Service interface {
	BumpAvg(key string, val float64, tags ...string)
	BumpSum(key string, val float64, tags ...string)
	BumpHistogram(key string, val float64, tags ...string)

	BumpTime(key string, tags ...string) Ender
}

type Option func(*Metrics)

// WithoutPodName drops the pod tag, use it for metrics that need no per instance breakdown
func WithoutPodName() Option {
	return func(m *Metrics) {
		m.podName = false
	}
}

// WithSink sends to s instead of the process wide statsd client
func WithSink(s Sink) Option {
	return func(m *Metrics) {
		m.sink = s
	}
}

type Metrics struct {
	prefix  string
	podName bool
	tags    []string
	sink    Sink
}

func New(name string, options ...Option) Service {
	m := &Metrics{
		prefix:  name + ".",
		podName: true,
	}
	for _, o := range options {
		o(m)
	}
	// an empty host tag detaches the metric from the agent's host tags
	m.tags = []string{"host:", "env:" + envName(), "app:" + appName()}
	if m.podName {
		m.tags = append(m.tags, "pod:"+env.PodName())
	}
	if m.sink == nil {
		m.sink = defaultSink()
	}
	return m
}

func envName() string {
	if name := viper.GetString("env_name"); name != "" {
		return name
	}
	return env.EnvName()
}

func appName() string {
	if name := viper.GetString("app_name"); name != "" {
		return name
	}
	return env.AppName()
}

func (m *Metrics) with(tags []string) []string {
	all := make([]string, 0, len(m.tags)+len(tags))
	all = append(all, m.tags...)
	return append(all, tags...)
}

func (m *Metrics) report(fn, key string, val interface{}, err error) {
	if err != nil {
		log.Log().WithFields(log.Fields{"err": err, "key": key, "val": val, "func": fn}).Error("bump failed")
	}
}

// BumpAvg sets a gauge, the agent averages it over the flush interval
func (m *Metrics) BumpAvg(key string, val float64, tags ...string) {
	key = m.prefix + key
	m.report("BumpAvg", key, val, m.sink.Gauge(key, val, m.with(tags), 1))
}

func (m *Metrics) BumpSum(key string, val float64, tags ...string) {
	key = m.prefix + key
	m.report("BumpSum", key, val, m.sink.Count(key, int64(val), m.with(tags), 1))
}

func (m *Metrics) BumpHistogram(key string, val float64, tags ...string) {
	key = m.prefix + key
	m.report("BumpHistogram", key, val, m.sink.Histogram(key, val, m.with(tags), 1))
}

// BumpTime starts a timer, typical use is
//
//	defer m.BumpTime("refresh.time").End()
func (m *Metrics) BumpTime(key string, tags ...string) Ender {
	return &timer{
		m:     m,
		key:   m.prefix + key,
		tags:  m.with(tags),
		start: time.Now(),
	}
}

type timer struct {
	m     *Metrics
	key   string
	tags  []string
	start time.Time
}

func (t *timer) End() {
	ms := float64(time.Since(t.start)) / float64(time.Millisecond)
	t.m.report("BumpTime", t.key, ms, t.m.sink.TimeInMilliseconds(t.key, ms, t.tags, 1))
}
