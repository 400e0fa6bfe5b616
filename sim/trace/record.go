// Package trace provides stage-transition recording for workshop runs.
// This package has no dependencies on sim/ or sim/workshop/; it stores pure data types.
package trace

// StageRecord captures a single order stage transition.
type StageRecord struct {
	Replication int
	OrderID     int
	OrderType   string
	Clock       float64
	From        string
	To          string
	Workplace   int // 0 while the order has no workplace
	Carpenter   int // carpenter that caused the transition, 0 for none
}
