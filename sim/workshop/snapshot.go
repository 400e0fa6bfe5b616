package workshop

import "github.com/inference-sim/workshop-sim/sim/stats"

// CarpenterData identifies a carpenter in snapshots.
type CarpenterData struct {
	ID        int    `yaml:"id"`
	Group     string `yaml:"group"`
	Status    string `yaml:"status"`
	Position  string `yaml:"position"`
	Workplace int    `yaml:"workplace,omitempty"`
}

// CarpenterUtilization is one carpenter's cross-replication utilization.
type CarpenterUtilization struct {
	Carpenter   CarpenterData `yaml:"carpenter"`
	Utilization stats.Summary `yaml:"utilization"`
}

// EventData is the live view published after each event in real-time mode.
type EventData struct {
	Time          float64        `yaml:"time"`
	Clock         string         `yaml:"clock"`
	Arrived       int            `yaml:"arrived"`
	Done          int            `yaml:"done"`
	Queues        map[string]int `yaml:"queues"`
	Workplaces    []string       `yaml:"workplaces"`
	Carpenters    []string       `yaml:"carpenters"`
	OrderDuration stats.Summary  `yaml:"order_duration"`
}

// ReplicationData is published after each replication with the
// cross-replication statistics collected so far.
type ReplicationData struct {
	Replications         int                      `yaml:"replications"`
	OrderDuration        stats.Summary            `yaml:"order_duration"`
	NotStarted           stats.Summary            `yaml:"not_started_orders"`
	GroupUtilization     map[string]stats.Summary `yaml:"group_utilization"`
	CarpenterUtilization []CarpenterUtilization   `yaml:"carpenter_utilization"`
}

func (c *Carpenter) data() CarpenterData {
	return CarpenterData{
		ID:        c.ID,
		Group:     c.Group.String(),
		Status:    c.Status.String(),
		Position:  c.Position.String(),
		Workplace: c.Workplace,
	}
}
