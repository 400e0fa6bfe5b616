package trace

// TraceSummary aggregates statistics from a StageTrace.
type TraceSummary struct {
	TotalTransitions int            `yaml:"total_transitions"`
	TracedOrders     int            `yaml:"traced_orders"`
	CompletedOrders  int            `yaml:"completed_orders"`
	StageVisits      map[string]int `yaml:"stage_visits"`    // stage name → number of transitions into it
	MeanCompletion   float64        `yaml:"mean_completion"` // mean clock of transitions into the final stage
}

// Summarize computes aggregate statistics from a StageTrace.
// finalStage names the stage that marks a completed order.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *StageTrace, finalStage string) *TraceSummary {
	summary := &TraceSummary{
		StageVisits: make(map[string]int),
	}
	if st == nil {
		return summary
	}

	type key struct{ rep, order int }
	orders := make(map[key]bool)
	totalCompletion := 0.0
	for _, r := range st.Transitions {
		summary.TotalTransitions++
		summary.StageVisits[r.To]++
		orders[key{r.Replication, r.OrderID}] = true
		if r.To == finalStage {
			summary.CompletedOrders++
			totalCompletion += r.Clock
		}
	}
	summary.TracedOrders = len(orders)
	if summary.CompletedOrders > 0 {
		summary.MeanCompletion = totalCompletion / float64(summary.CompletedOrders)
	}

	return summary
}
