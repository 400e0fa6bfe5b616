// Package sim provides the core discrete-event simulation engine for the
// workshop simulator.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - calendar.go: the event calendar, a time-ordered heap with FIFO tie-break, and the simulation clock
//   - controller.go: the run lifecycle (CREATED → RUNNING ⇄ PAUSED → STOPPED/FINISHED) and the replication loop
//   - pacing.go: execution modes and the time multipliers used to pace real-time runs
//
// # Architecture
//
// The sim package is model-agnostic; models and libraries live in
// sub-packages:
//   - sim/variate/: seeded random variate generators (uniform, exponential, triangular, empirical)
//   - sim/stats/: online statistics with 95% confidence intervals
//   - sim/workshop/: the furniture workshop process model
//   - sim/station/: a single-server queue model used as a reference check of the engine
//   - sim/trace/: per-order stage transition records
//
// # Key Interfaces
//
//   - Model: per-simulation and per-replication hooks plus the event handler a model plugs into a Controller
//   - Env: the view of the calendar a model sees while handling an event
//   - Sink: receives STATE, EXPERIMENT and EVENT notifications
//
// Runner wraps a Controller for front ends that drive the run from another
// goroutine.
package sim
