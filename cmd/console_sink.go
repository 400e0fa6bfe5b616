package cmd

import (
	"github.com/sirupsen/logrus"

	"github.com/inference-sim/workshop-sim/sim"
	"github.com/inference-sim/workshop-sim/sim/station"
	"github.com/inference-sim/workshop-sim/sim/workshop"
)

// consoleSink logs notifications through logrus. STATE and EXPERIMENT
// snapshots are logged at info level, EVENT snapshots at debug level.
type consoleSink struct {
	log logrus.FieldLogger
}

func newConsoleSink(log logrus.FieldLogger) *consoleSink {
	return &consoleSink{log: log}
}

// Accept implements sim.Sink.
func (s *consoleSink) Accept(n sim.Notification) {
	entry := s.log.WithFields(logrus.Fields{
		"run":          n.RunID.String(),
		"kind":         n.Kind.String(),
		"replications": n.Replications,
	})
	switch n.Kind {
	case sim.KindState:
		entry.WithField("state", n.State.String()).Info("state changed")
	case sim.KindExperiment:
		switch d := n.Data.(type) {
		case workshop.ReplicationData:
			fields := logrus.Fields{
				"order_time_mean":  d.OrderDuration.Mean,
				"order_time_lower": d.OrderDuration.Lower,
				"order_time_upper": d.OrderDuration.Upper,
				"not_started_mean": d.NotStarted.Mean,
			}
			for g, u := range d.GroupUtilization {
				fields["util_"+g] = u.Mean
			}
			entry.WithFields(fields).Info("replication done")
		case station.Results:
			entry.WithFields(logrus.Fields{
				"wait_mean":  d.WaitingTime.Mean,
				"queue_mean": d.QueueLength.Mean,
			}).Info("replication done")
		default:
			entry.Info("replication done")
		}
	case sim.KindEvent:
		fields := logrus.Fields{"clock": sim.FormatWorkdayClock(n.Time)}
		if d, ok := n.Data.(workshop.EventData); ok {
			fields["arrived"] = d.Arrived
			fields["done"] = d.Done
			fields["queues"] = d.Queues
		}
		entry.WithFields(fields).Debug("event")
	}
}
