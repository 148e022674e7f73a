package metrics

import (
	"fmt"
	"sync"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/spf13/viper"

	"github.com/x-xyz/marketclient/base/log"
)

// DdPort is the dogstatsd port of the agent on datadog_host
var DdPort = 8125

// Sink is the subset of the statsd client the package writes to
type Sink interface {
	Gauge(name string, value float64, tags []string, rate float64) error
	Count(name string, value int64, tags []string, rate float64) error
	Histogram(name string, value float64, tags []string, rate float64) error
	TimeInMilliseconds(name string, value float64, tags []string, rate float64) error
}

var (
	sinkOnce sync.Once
	sink     Sink
)

// defaultSink connects to datadog_host on first use, without a host metrics go to debug logs
func defaultSink() Sink {
	sinkOnce.Do(func() {
		host := viper.GetString("datadog_host")
		if host == "" {
			sink = &LogClient{}
			return
		}
		addr := fmt.Sprintf("%s:%d", host, DdPort)
		client, err := statsd.New(addr)
		if err != nil {
			log.Log().WithFields(log.Fields{"addr": addr, "err": err}).Error("statsd.New failed, metrics go to logs")
			sink = &LogClient{}
			return
		}
		log.Log().WithField("addr", addr).Info("connected to datadog agent")
		sink = client
	})
	return sink
}

// LogClient writes every metric as a debug log line
type LogClient struct{}

func (lc *LogClient) Gauge(name string, value float64, tags []string, rate float64) error {
	log.Log().WithFields(log.Fields{"key": name, "val": value, "tags": tags}).Debug("metric gauge")
	return nil
}

func (lc *LogClient) Count(name string, value int64, tags []string, rate float64) error {
	log.Log().WithFields(log.Fields{"key": name, "val": value, "tags": tags}).Debug("metric count")
	return nil
}

func (lc *LogClient) Histogram(name string, value float64, tags []string, rate float64) error {
	log.Log().WithFields(log.Fields{"key": name, "val": value, "tags": tags}).Debug("metric histogram")
	return nil
}

func (lc *LogClient) TimeInMilliseconds(name string, value float64, tags []string, rate float64) error {
	log.Log().WithFields(log.Fields{"key": name, "time_ms": value, "tags": tags}).Debug("metric time")
	return nil
}
