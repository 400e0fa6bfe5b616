// Package station is a single-server queue (M/M/1) built on the sim engine.
// Customers arrive with exponential inter-arrival times, wait in FIFO order
// and are served one at a time with exponential service times.
package station

import (
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/workshop-sim/sim"
	"github.com/inference-sim/workshop-sim/sim/stats"
	"github.com/inference-sim/workshop-sim/sim/variate"
)

var (
	// ErrServerBusy is returned when service starts while another customer is served.
	ErrServerBusy = errors.New("server already busy")
	// ErrServerIdle is returned when service ends while nobody is served.
	ErrServerIdle = errors.New("server is idle")
)

// Config holds the station rates.
type Config struct {
	ArrivalsPerHour    float64 `yaml:"arrivals_per_hour"`
	MeanServiceSeconds float64 `yaml:"mean_service_seconds"`
}

// DefaultConfig returns 12 arrivals per hour and a 4-minute mean service.
func DefaultConfig() Config {
	return Config{ArrivalsPerHour: 12, MeanServiceSeconds: 240}
}

// Validate rejects non-positive rates.
func (c Config) Validate() error {
	if !(c.ArrivalsPerHour > 0) || math.IsInf(c.ArrivalsPerHour, 0) {
		return fmt.Errorf("arrivals per hour must be positive and finite, got %v", c.ArrivalsPerHour)
	}
	if !(c.MeanServiceSeconds > 0) || math.IsInf(c.MeanServiceSeconds, 0) {
		return fmt.Errorf("mean service seconds must be positive and finite, got %v", c.MeanServiceSeconds)
	}
	return nil
}

// Utilization returns the offered load arrival rate / service rate.
func (c Config) Utilization() float64 {
	return c.ArrivalsPerHour / 3600 * c.MeanServiceSeconds
}

// EventKind tags the variant carried by an Event.
type EventKind int

const (
	Arrival EventKind = iota
	ServiceStart
	ServiceEnd
)

// Event is one scheduled station event. Arrived is the customer's arrival
// time for ServiceStart.
type Event struct {
	Kind    EventKind
	Arrived float64
}

// Results is the per-replication and cross-replication view of the station.
type Results struct {
	Replications int           `yaml:"replications"`
	WaitingTime  stats.Summary `yaml:"waiting_time"`
	QueueLength  stats.Summary `yaml:"queue_length"`
}

// Station implements sim.Model[Event].
type Station struct {
	cfg     Config
	arrival variate.Generator
	service variate.Generator

	waiting []float64 // arrival times of queued customers
	busy    bool
	served  int

	wait  *stats.Statistics // current replication
	queue *stats.Statistics // queue length seen by arriving customers

	meanWait  *stats.Statistics
	meanQueue *stats.Statistics
}

// New builds a station seeded from seeds.
func New(cfg Config, seeds *variate.SeedSource) (*Station, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid station config: %w", err)
	}
	arrival, err := variate.NewExponential(seeds.Stream("arrival"), cfg.ArrivalsPerHour/3600)
	if err != nil {
		return nil, err
	}
	service, err := variate.NewExponential(seeds.Stream("service"), 1/cfg.MeanServiceSeconds)
	if err != nil {
		return nil, err
	}
	return &Station{
		cfg:       cfg,
		arrival:   arrival,
		service:   service,
		wait:      stats.New(),
		queue:     stats.New(),
		meanWait:  stats.New(),
		meanQueue: stats.New(),
	}, nil
}

// Served returns the number of customers whose service started in the current replication.
func (s *Station) Served() int { return s.served }

// BeforeSimulation is a no-op.
func (s *Station) BeforeSimulation(sim.Env[Event]) error { return nil }

// BeforeReplication empties the station and schedules the first arrival.
func (s *Station) BeforeReplication(env sim.Env[Event], _ int) error {
	s.waiting = s.waiting[:0]
	s.busy = false
	s.served = 0
	s.wait.Reset()
	s.queue.Reset()
	return env.Schedule(env.Now()+s.arrival.Float64(), Event{Kind: Arrival})
}

// Execute dispatches one event.
func (s *Station) Execute(env sim.Env[Event], ev Event) error {
	now := env.Now()
	switch ev.Kind {
	case Arrival:
		s.queue.Add(float64(len(s.waiting)))
		if s.busy {
			s.waiting = append(s.waiting, now)
		} else {
			s.busy = true
			if err := env.Schedule(now, Event{Kind: ServiceStart, Arrived: now}); err != nil {
				return err
			}
		}
		return env.Schedule(now+s.arrival.Float64(), Event{Kind: Arrival})
	case ServiceStart:
		if !s.busy {
			return fmt.Errorf("%w: service start without a claimed server", ErrServerIdle)
		}
		s.served++
		s.wait.Add(now - ev.Arrived)
		return env.Schedule(now+s.service.Float64(), Event{Kind: ServiceEnd})
	case ServiceEnd:
		if !s.busy {
			return ErrServerIdle
		}
		if len(s.waiting) == 0 {
			s.busy = false
			return nil
		}
		next := s.waiting[0]
		s.waiting = s.waiting[1:]
		return env.Schedule(now, Event{Kind: ServiceStart, Arrived: next})
	default:
		return fmt.Errorf("unknown station event kind %d", int(ev.Kind))
	}
}

// AfterReplication folds the replication means once past warm-up.
func (s *Station) AfterReplication(env sim.Env[Event], rep int) error {
	logrus.Debugf("station: replication %d served=%d mean wait=%.1fs", rep, s.served, s.wait.Mean())
	if !env.PastWarmup(rep) {
		return nil
	}
	if s.wait.Count() > 0 {
		s.meanWait.Add(s.wait.Mean())
	}
	if s.queue.Count() > 0 {
		s.meanQueue.Add(s.queue.Mean())
	}
	return nil
}

// AfterSimulation logs the cross-replication waiting time.
func (s *Station) AfterSimulation(sim.Env[Event]) error {
	logrus.Infof("station: mean waiting time %.1fs over %d replications", s.meanWait.Mean(), s.meanWait.Count())
	return nil
}

// EventSnapshot reports the current replication's statistics.
func (s *Station) EventSnapshot(sim.Env[Event]) any {
	return Results{WaitingTime: s.wait.Summary(), QueueLength: s.queue.Summary()}
}

// ReplicationSnapshot reports the cross-replication statistics.
func (s *Station) ReplicationSnapshot(done int) any {
	return s.Results(done)
}

// Results returns the cross-replication statistics.
func (s *Station) Results(done int) Results {
	return Results{Replications: done, WaitingTime: s.meanWait.Summary(), QueueLength: s.meanQueue.Summary()}
}
