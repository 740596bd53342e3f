// Package instrument provides loom.Observer implementations.
//
// Prometheus exports work-loop and commit metrics, Tracing records an
// OpenTelemetry span per commit, and Multi fans one runtime out to several
// observers:
//
//	obs := instrument.Multi{
//	    instrument.NewPrometheus(instrument.WithRegistry(reg)),
//	    instrument.NewTracing(),
//	}
//	rt := loom.New(backend, loom.WithObserver(obs))
//
// Observers are called on the runtime's goroutine.
package instrument
