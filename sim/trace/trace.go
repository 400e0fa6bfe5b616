package trace

// TraceLevel controls the verbosity of stage tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelStages captures every order stage transition.
	TraceLevelStages TraceLevel = "stages"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:   true,
	TraceLevelStages: true,
	"":               true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// Enabled reports whether records should be collected.
func (c TraceConfig) Enabled() bool {
	return c.Level == TraceLevelStages
}

// StageTrace collects stage-transition records across replications.
type StageTrace struct {
	Config      TraceConfig
	Transitions []StageRecord
}

// NewStageTrace creates a StageTrace ready for recording.
func NewStageTrace(config TraceConfig) *StageTrace {
	return &StageTrace{
		Config:      config,
		Transitions: make([]StageRecord, 0),
	}
}

// RecordTransition appends a record when tracing is enabled. Safe on a nil trace.
func (st *StageTrace) RecordTransition(record StageRecord) {
	if st == nil || !st.Config.Enabled() {
		return
	}
	st.Transitions = append(st.Transitions, record)
}

// Path returns the ordered stages visited by one order in one replication,
// starting with the stage it arrived in.
func (st *StageTrace) Path(replication, orderID int) []string {
	if st == nil {
		return nil
	}
	var path []string
	for _, r := range st.Transitions {
		if r.Replication != replication || r.OrderID != orderID {
			continue
		}
		if len(path) == 0 {
			path = append(path, r.From)
		}
		path = append(path, r.To)
	}
	return path
}
