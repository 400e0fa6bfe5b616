package workshop

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/workshop-sim/sim"
	"github.com/inference-sim/workshop-sim/sim/internal/testutil"
	"github.com/inference-sim/workshop-sim/sim/trace"
	"github.com/inference-sim/workshop-sim/sim/variate"
)

// fakeEnv records scheduled events without executing them.
type fakeEnv struct {
	now       float64
	scheduled []sim.Entry[Event]
}

func (f *fakeEnv) Now() float64 { return f.now }

func (f *fakeEnv) Schedule(at float64, ev Event) error {
	f.scheduled = append(f.scheduled, sim.Entry[Event]{Time: at, Seq: uint64(len(f.scheduled) + 1), Event: ev})
	return nil
}

func (f *fakeEnv) Horizon() float64 { return 1e9 }

func (f *fakeEnv) PastWarmup(int) bool { return true }

func (f *fakeEnv) Pending() []sim.Entry[Event] { return f.scheduled }

func singleTypeConfig(t OrderType) Config {
	cfg := DefaultConfig()
	cfg.GroupA, cfg.GroupB, cfg.GroupC = 1, 1, 1
	cfg.OrderMix = OrderMix{}
	switch t {
	case Table:
		cfg.OrderMix.Table = 1
	case Chair:
		cfg.OrderMix.Chair = 1
	case Wardrobe:
		cfg.OrderMix.Wardrobe = 1
	}
	cfg.MaxArrivals = 1
	cfg.Trace = trace.TraceLevelStages
	return cfg
}

func runWorkshop(t *testing.T, cfg Config, run sim.RunConfig, seed int64) (*Workshop, *testutil.RecordingSink) {
	t.Helper()
	w, err := New(cfg, variate.NewSeedSource(seed))
	require.NoError(t, err)
	sink := &testutil.RecordingSink{}
	ctl, err := sim.NewController[Event](run, w, sink)
	require.NoError(t, err)
	require.NoError(t, ctl.Run(context.Background()))
	return w, sink
}

func oneReplication(horizon float64) sim.RunConfig {
	return sim.RunConfig{Replications: 1, Horizon: horizon, Multiplier: sim.Speed1x}
}

func assertAllReleased(t *testing.T, w *Workshop) {
	t.Helper()
	for _, c := range w.Carpenters() {
		assert.Equal(t, Free, c.Status, "carpenter %d", c.ID)
		assert.Zero(t, c.Assigned, "carpenter %d", c.ID)
	}
	for _, wp := range w.Workplaces() {
		assert.Nil(t, wp.Order, "workplace %d", wp.ID)
		assert.Nil(t, wp.Carpenter, "workplace %d", wp.ID)
	}
}

func TestWorkshop_SingleChair_VisitsEveryStageExceptFittings(t *testing.T) {
	// GIVEN one carpenter per group and exactly one chair order
	cfg := singleTypeConfig(Chair)

	// WHEN one replication runs until the calendar is empty
	w, _ := runWorkshop(t, cfg, oneReplication(1e7), 42)

	// THEN the chair went NEW to DONE without fittings
	want := []string{"NEW", "SAWING", "SAWED", "SOAKING", "SOAKED", "ASSEMBLING", "ASSEMBLED", "DONE"}
	assert.Equal(t, want, w.Trace().Path(1, 1))
	assert.Equal(t, 1, w.Arrived())
	assert.Equal(t, 1, w.Done())
	// AND every carpenter and workplace is released
	assertAllReleased(t, w)
	require.Len(t, w.Workplaces(), 1)
}

func TestWorkshop_SingleWardrobe_InstallsFittings(t *testing.T) {
	w, _ := runWorkshop(t, singleTypeConfig(Wardrobe), oneReplication(1e7), 7)

	want := []string{"NEW", "SAWING", "SAWED", "SOAKING", "SOAKED", "ASSEMBLING", "ASSEMBLED", "FITTINGS", "DONE"}
	assert.Equal(t, want, w.Trace().Path(1, 1))
	assert.Equal(t, 1, w.Done())
	assertAllReleased(t, w)
}

func TestWorkshop_SingleOrder_DurationCoversStageMinimums(t *testing.T) {
	// GIVEN one table order
	w, sink := runWorkshop(t, singleTypeConfig(Table), oneReplication(1e7), 3)

	// THEN its recorded duration is at least the sum of the minimum stage and
	// sawing-trip times, and the replication reported it
	minimum := 10*60.0 + 200*60.0 + 30*60.0 + materialPrep[0] + warehouseTrip[0]
	exps := sink.OfKind(sim.KindExperiment)
	require.Len(t, exps, 1)
	data := exps[0].Data.(ReplicationData)
	assert.Equal(t, 1, data.OrderDuration.Count)
	assert.GreaterOrEqual(t, data.OrderDuration.Mean, minimum)
	assert.Equal(t, 1, w.Done())
}

func TestWorkshop_NoSawingCarpenters_OnlyArrivalsPending(t *testing.T) {
	// GIVEN a workshop without group A carpenters
	cfg := DefaultConfig()
	cfg.GroupA = 0
	w, err := New(cfg, variate.NewSeedSource(1))
	require.NoError(t, err)
	env := &fakeEnv{}
	require.NoError(t, w.BeforeSimulation(env))
	require.NoError(t, w.BeforeReplication(env, 1))

	// WHEN several arrivals execute
	for i := 0; i < 5; i++ {
		next := env.scheduled[len(env.scheduled)-1]
		env.now = next.Time
		require.NoError(t, w.Execute(env, next.Event))
	}

	// THEN every order waits as NEW, nothing completes, and only arrivals were scheduled
	assert.Equal(t, 5, w.QueueLen(StageNew))
	assert.Equal(t, 0, w.Done())
	for _, e := range env.scheduled {
		assert.Equal(t, Arrival, e.Event.Kind)
	}
	assert.Empty(t, w.Workplaces())
}

func TestWorkshop_NoSawingCarpenters_FullRunCompletesNothing(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GroupA = 0
	w, sink := runWorkshop(t, cfg, oneReplication(2*sim.WorkdaySeconds), 11)

	assert.Equal(t, 0, w.Done())
	assert.Equal(t, w.Arrived(), w.QueueLen(StageNew))
	data := sink.OfKind(sim.KindExperiment)[0].Data.(ReplicationData)
	assert.Equal(t, 0, data.OrderDuration.Count)
	assert.Equal(t, float64(w.Arrived()), data.NotStarted.Mean)
}

func TestWorkshop_SoakingEnd_PrefersFittingsOverSoaking(t *testing.T) {
	// GIVEN one group C carpenter finishing soaking at workplace 1, while an
	// assembled wardrobe (workplace 2) and a sawed chair (workplace 3) both wait for group C
	cfg := DefaultConfig()
	cfg.GroupA, cfg.GroupB, cfg.GroupC = 1, 0, 1
	w, err := New(cfg, variate.NewSeedSource(5))
	require.NoError(t, err)
	env := &fakeEnv{}
	require.NoError(t, w.BeforeSimulation(env))
	require.NoError(t, w.BeforeReplication(env, 1))
	env.scheduled = nil

	soaking := &Order{ID: 1, Type: Table, Stage: StageSoaking}
	wp1 := w.freeWorkplace()
	require.NoError(t, wp1.AssignOrder(soaking))
	c := w.groups[GroupC][0]
	require.NoError(t, wp1.AssignCarpenter(c))
	require.NoError(t, c.SetStatus(Working, 0))
	c.MoveTo(wp1.ID)

	wardrobe := &Order{ID: 2, Type: Wardrobe, Stage: StageAssembled}
	require.NoError(t, w.freeWorkplace().AssignOrder(wardrobe))
	w.queues[StageAssembled].Enqueue(wardrobe)

	chair := &Order{ID: 3, Type: Chair, Stage: StageSawed}
	require.NoError(t, w.freeWorkplace().AssignOrder(chair))
	w.queues[StageSawed].Enqueue(chair)

	// WHEN soaking ends at t=100
	env.now = 100
	require.NoError(t, w.endStage(env, StageSoaking, wp1.ID))

	// THEN the carpenter is sent to the wardrobe's fittings, the chair keeps waiting
	require.Len(t, env.scheduled, 1)
	assert.Equal(t, startEvent(StageFittings, wardrobe.Workplace), env.scheduled[0].Event)
	assert.Equal(t, 100.0, env.scheduled[0].Time)
	assert.Equal(t, 1, w.QueueLen(StageSawed))
	assert.Equal(t, 0, w.QueueLen(StageAssembled))
	// AND the finished order waits for group B, which has nobody
	assert.Equal(t, StageSoaked, soaking.Stage)
	assert.Equal(t, 1, w.QueueLen(StageSoaked))
	assert.Equal(t, wardrobe.Workplace, c.Assigned)
}

func TestWorkshop_SoakingEnd_FallsBackToSoakingWhenNoFittingsWait(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GroupA, cfg.GroupB, cfg.GroupC = 1, 1, 1
	w, err := New(cfg, variate.NewSeedSource(5))
	require.NoError(t, err)
	env := &fakeEnv{}
	require.NoError(t, w.BeforeSimulation(env))
	require.NoError(t, w.BeforeReplication(env, 1))
	env.scheduled = nil

	soaking := &Order{ID: 1, Type: Chair, Stage: StageSoaking}
	wp1 := w.freeWorkplace()
	require.NoError(t, wp1.AssignOrder(soaking))
	c := w.groups[GroupC][0]
	require.NoError(t, wp1.AssignCarpenter(c))
	require.NoError(t, c.SetStatus(Working, 0))

	sawed := &Order{ID: 2, Type: Table, Stage: StageSawed}
	require.NoError(t, w.freeWorkplace().AssignOrder(sawed))
	w.queues[StageSawed].Enqueue(sawed)

	env.now = 50
	require.NoError(t, w.endStage(env, StageSoaking, wp1.ID))

	// the soaked chair goes straight to assembling, the sawed table to soaking
	require.Len(t, env.scheduled, 2)
	assert.Equal(t, startEvent(StageAssembling, wp1.ID), env.scheduled[0].Event)
	assert.Equal(t, startEvent(StageSoaking, sawed.Workplace), env.scheduled[1].Event)
}

func TestWorkshop_StartStage_ChargesTravelOnlyWhenMoving(t *testing.T) {
	// GIVEN a group C carpenter already standing at the workplace of a sawed chair
	cfg := DefaultConfig()
	w, err := New(cfg, variate.NewSeedSource(9))
	require.NoError(t, err)
	env := &fakeEnv{}
	require.NoError(t, w.BeforeSimulation(env))
	require.NoError(t, w.BeforeReplication(env, 1))
	env.scheduled = nil

	o := &Order{ID: 1, Type: Chair, Stage: StageSawed}
	wp := w.freeWorkplace()
	require.NoError(t, wp.AssignOrder(o))
	c := w.groups[GroupC][0]
	c.MoveTo(wp.ID)
	require.NoError(t, wp.AssignCarpenter(c))

	// WHEN soaking starts at t=1000
	env.now = 1000
	require.NoError(t, w.startStage(env, StageSoaking, wp.ID))

	// THEN the end lies within the chair soaking range with no travel added
	require.Len(t, env.scheduled, 1)
	end := env.scheduled[0].Time
	assert.GreaterOrEqual(t, end, 1000+210*60.0)
	assert.Less(t, end, 1000+540*60.0)
	assert.Equal(t, Working, c.Status)
	assert.Equal(t, StageSoaking, o.Stage)
}

func TestWorkshop_StartStage_WithoutCarpenter_Faults(t *testing.T) {
	w, err := New(DefaultConfig(), variate.NewSeedSource(9))
	require.NoError(t, err)
	env := &fakeEnv{}
	require.NoError(t, w.BeforeSimulation(env))
	require.NoError(t, w.BeforeReplication(env, 1))
	wp := w.freeWorkplace()
	require.NoError(t, wp.AssignOrder(&Order{ID: 1, Type: Chair}))

	assert.ErrorIs(t, w.startStage(env, StageSawing, wp.ID), ErrSlotEmpty)
	assert.Error(t, w.startStage(env, StageSawing, 99))
}

func TestWorkshop_ManyReplications_ConservesOrdersAndBoundsUtilization(t *testing.T) {
	// GIVEN the reference workshop over several work days
	run := sim.RunConfig{Replications: 4, Horizon: 20 * sim.WorkdaySeconds, Multiplier: sim.Speed1x}
	w, sink := runWorkshop(t, DefaultConfig(), run, 2024)

	// THEN every arrived order is either done or still in the system
	assert.Equal(t, w.Arrived(), w.Done()+len(w.orders))
	assert.Positive(t, w.Done())

	// AND utilizations are fractions
	exps := sink.OfKind(sim.KindExperiment)
	require.Len(t, exps, 4)
	last := exps[3].Data.(ReplicationData)
	assert.Equal(t, 4, last.Replications)
	assert.Equal(t, 4, last.OrderDuration.Count)
	for g, s := range last.GroupUtilization {
		assert.GreaterOrEqual(t, s.Min, 0.0, g)
		assert.LessOrEqual(t, s.Max, 1.0, g)
	}
	require.Len(t, last.CarpenterUtilization, 6)
	for _, cu := range last.CarpenterUtilization {
		assert.LessOrEqual(t, cu.Utilization.Max, 1.0)
	}
}

func TestWorkshop_SkipPercent_ExcludesWarmupReplications(t *testing.T) {
	run := sim.RunConfig{Replications: 4, SkipPercent: 50, Horizon: 5 * sim.WorkdaySeconds, Multiplier: sim.Speed1x}
	_, sink := runWorkshop(t, DefaultConfig(), run, 8)

	exps := sink.OfKind(sim.KindExperiment)
	require.Len(t, exps, 4)
	assert.Equal(t, 0, exps[1].Data.(ReplicationData).OrderDuration.Count)
	assert.Equal(t, 2, exps[3].Data.(ReplicationData).OrderDuration.Count)
}

func TestWorkshop_SameSeed_SameResults(t *testing.T) {
	run := sim.RunConfig{Replications: 3, Horizon: 10 * sim.WorkdaySeconds, Multiplier: sim.Speed1x}

	_, a := runWorkshop(t, DefaultConfig(), run, 77)
	_, b := runWorkshop(t, DefaultConfig(), run, 77)

	ea, eb := a.OfKind(sim.KindExperiment), b.OfKind(sim.KindExperiment)
	require.Len(t, eb, len(ea))
	for i := range ea {
		ra, rb := ea[i].Data.(ReplicationData), eb[i].Data.(ReplicationData)
		assert.Equal(t, ra.OrderDuration.Mean, rb.OrderDuration.Mean)
		assert.Equal(t, ra.NotStarted.Mean, rb.NotStarted.Mean)
		assert.Equal(t, ra.GroupUtilization["A"].Mean, rb.GroupUtilization["A"].Mean)
	}
}

func TestWorkshop_RealTime_PublishesEventSnapshots(t *testing.T) {
	// GIVEN a single chair arriving almost at once, paced in real time
	cfg := singleTypeConfig(Chair)
	cfg.ArrivalsPerHour = 36000
	w, err := New(cfg, variate.NewSeedSource(4))
	require.NoError(t, err)
	sink := &testutil.RecordingSink{}
	run := sim.RunConfig{Replications: 1, Horizon: 1e5, Mode: sim.RealTime, Multiplier: sim.Speed100000x}
	ctl, err := sim.NewController[Event](run, w, sink)
	require.NoError(t, err)
	events := 0
	sink.OnAccept = func(n sim.Notification) {
		if n.Kind != sim.KindEvent {
			return
		}
		if events++; events == 2 {
			require.NoError(t, ctl.Stop())
		}
	}

	// WHEN the arrival and the start of sawing have executed
	require.NoError(t, ctl.Run(context.Background()))

	// THEN one EVENT snapshot was published per executed event
	notes := sink.OfKind(sim.KindEvent)
	require.Len(t, notes, 2)
	for _, n := range notes {
		data, ok := n.Data.(EventData)
		require.True(t, ok)
		assert.Equal(t, n.Time, data.Time)
		assert.Equal(t, sim.FormatWorkdayClock(n.Time), data.Clock)
		assert.Equal(t, 1, data.Arrived)
		assert.Equal(t, 0, data.Done)
		assert.Equal(t, map[string]int{"NEW": 0, "SAWED": 0, "SOAKED": 0, "ASSEMBLED": 0}, data.Queues)
		assert.Len(t, data.Carpenters, 3)
		require.Len(t, data.Workplaces, 1)
		assert.Equal(t, 0, data.OrderDuration.Count)
	}
	// AND the second snapshot shows the chair being sawed by carpenter 1
	last := notes[1].Data.(EventData)
	assert.Equal(t, "ID: 1, order: Order(type: CHAIR, stage: SAWING), carpenterID: 1", last.Workplaces[0])
	assert.Contains(t, last.Carpenters[0], "ID: 1, status: WORKING, workplaceID: 1")
	assert.Equal(t, sim.StateStopped, ctl.State())
}

func TestWorkshop_EventSnapshot_AfterOrderCompleted(t *testing.T) {
	// GIVEN a replication in which the single chair was finished
	w, _ := runWorkshop(t, singleTypeConfig(Chair), oneReplication(1e7), 4)
	require.Equal(t, 1, w.Done())

	// WHEN the live view is built
	data := w.EventSnapshot(&fakeEnv{now: 90000})

	// THEN it reports the completed order and the released workplace
	assert.Equal(t, 90000.0, data.(EventData).Time)
	assert.Equal(t, "day 4 07:00:00", data.(EventData).Clock)
	assert.Equal(t, 1, data.(EventData).Arrived)
	assert.Equal(t, 1, data.(EventData).Done)
	assert.Equal(t, 1, data.(EventData).OrderDuration.Count)
	assert.Positive(t, data.(EventData).OrderDuration.Mean)
	assert.Equal(t, []string{"ID: 1, order: NONE"}, data.(EventData).Workplaces)
	assert.Len(t, data.(EventData).Queues, 4)
}

func TestNewRunner_StartsFreshWorkshop(t *testing.T) {
	sink := &testutil.RecordingSink{}
	r := NewRunner(singleTypeConfig(Chair), 1, sink)

	require.NoError(t, r.Start(context.Background(), oneReplication(1e7)))
	require.NoError(t, r.Wait())

	exps := sink.OfKind(sim.KindExperiment)
	require.Len(t, exps, 1)
	assert.Equal(t, 1, exps[0].Data.(ReplicationData).OrderDuration.Count)
}
