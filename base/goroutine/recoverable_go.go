package goroutine

import (
	"runtime/debug"

	"github.com/x-xyz/marketclient/base/log"
)

type PanicEvent struct {
	Name  string
	Panic interface{}
	Stack []byte
}

type options struct {
	name    string
	logger  log.Logger
	onPanic func(*PanicEvent)
}

type Option func(*options)

// WithName tags the panic log with the goroutine's purpose
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithLogger logs a panic with the fields of l, typically the logger of the ctx that started the work
func WithLogger(l log.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithOnPanic runs f after a panic was recovered and logged
func WithOnPanic(f func(*PanicEvent)) Option {
	return func(o *options) {
		o.onPanic = f
	}
}

// RecoverableGo runs f on a new goroutine. The returned channel receives the panic if f panics,
// otherwise it is closed once f returns.
func RecoverableGo(f func(), opts ...Option) <-chan *PanicEvent {
	o := options{logger: log.Log()}
	for _, opt := range opts {
		opt(&o)
	}

	done := make(chan *PanicEvent, 1)
	go func() {
		defer func() {
			p := recover()
			if p == nil {
				close(done)
				return
			}
			ev := &PanicEvent{Name: o.name, Panic: p, Stack: debug.Stack()}
			o.logger.WithFields(log.Fields{
				"name":  o.name,
				"err":   p,
				"stack": string(ev.Stack),
			}).Error("panic")
			if o.onPanic != nil {
				o.onPanic(ev)
			}
			done <- ev
		}()
		f()
	}()
	return done
}
