package trace

import "testing"

func TestSummarize_EmptyTrace_ZeroValues(t *testing.T) {
	// GIVEN an empty trace
	st := NewStageTrace(TraceConfig{Level: TraceLevelStages})

	// WHEN summarized
	summary := Summarize(st, "DONE")

	// THEN all counts are zero
	if summary.TotalTransitions != 0 || summary.TracedOrders != 0 || summary.CompletedOrders != 0 {
		t.Errorf("expected zero counts, got %+v", summary)
	}
	if summary.MeanCompletion != 0 {
		t.Errorf("expected 0 mean completion, got %f", summary.MeanCompletion)
	}
	if len(summary.StageVisits) != 0 {
		t.Error("expected empty stage visits")
	}
}

func TestSummarize_NilTrace_ZeroValues(t *testing.T) {
	summary := Summarize(nil, "DONE")
	if summary.TotalTransitions != 0 || summary.StageVisits == nil {
		t.Errorf("expected zero summary with initialized map, got %+v", summary)
	}
}

func TestSummarize_PopulatedTrace_CorrectCounts(t *testing.T) {
	// GIVEN two orders, one of which completes at t=100 and another at t=300
	st := NewStageTrace(TraceConfig{Level: TraceLevelStages})
	st.RecordTransition(StageRecord{Replication: 1, OrderID: 1, From: "NEW", To: "SAWING"})
	st.RecordTransition(StageRecord{Replication: 1, OrderID: 1, Clock: 100, From: "ASSEMBLED", To: "DONE"})
	st.RecordTransition(StageRecord{Replication: 1, OrderID: 2, From: "NEW", To: "SAWING"})
	st.RecordTransition(StageRecord{Replication: 2, OrderID: 1, Clock: 300, From: "FITTINGS", To: "DONE"})

	// WHEN summarized
	summary := Summarize(st, "DONE")

	// THEN counts and mean completion clock match
	if summary.TotalTransitions != 4 {
		t.Errorf("expected 4 transitions, got %d", summary.TotalTransitions)
	}
	if summary.TracedOrders != 3 {
		t.Errorf("expected 3 traced orders, got %d", summary.TracedOrders)
	}
	if summary.CompletedOrders != 2 {
		t.Errorf("expected 2 completed, got %d", summary.CompletedOrders)
	}
	if summary.StageVisits["SAWING"] != 2 || summary.StageVisits["DONE"] != 2 {
		t.Errorf("unexpected stage visits %v", summary.StageVisits)
	}
	if summary.MeanCompletion != 200 {
		t.Errorf("expected mean completion 200, got %f", summary.MeanCompletion)
	}
}
