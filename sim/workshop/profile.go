package workshop

import (
	"fmt"

	"github.com/inference-sim/workshop-sim/sim/variate"
)

// Travel and preparation times, seconds (min, max, mode).
var (
	warehouseTrip = [3]float64{60, 480, 120}
	materialPrep  = [3]float64{300, 900, 500}
	benchTrip     = [3]float64{120, 500, 150}
)

// durationSpec describes one stage duration distribution.
type durationSpec struct {
	uniform   [2]float64
	empirical []variate.Interval
}

// durationProfile holds the stage durations per order type, seconds.
var durationProfile = map[OrderType]map[Stage]durationSpec{
	Table: {
		StageSawing: {empirical: []variate.Interval{
			{Low: 10 * 60, High: 25 * 60, P: 0.6},
			{Low: 25 * 60, High: 50 * 60, P: 0.4},
		}},
		StageSoaking:    {uniform: [2]float64{200 * 60, 610 * 60}},
		StageAssembling: {uniform: [2]float64{30 * 60, 60 * 60}},
	},
	Chair: {
		StageSawing:     {uniform: [2]float64{12 * 60, 16 * 60}},
		StageSoaking:    {uniform: [2]float64{210 * 60, 540 * 60}},
		StageAssembling: {uniform: [2]float64{14 * 60, 24 * 60}},
	},
	Wardrobe: {
		StageSawing:     {uniform: [2]float64{15 * 60, 80 * 60}},
		StageSoaking:    {uniform: [2]float64{600 * 60, 700 * 60}},
		StageAssembling: {uniform: [2]float64{35 * 60, 75 * 60}},
		StageFittings:   {uniform: [2]float64{15 * 60, 25 * 60}},
	},
}

// workStages are the stages that consume a carpenter's time, in path order.
var workStages = []Stage{StageSawing, StageSoaking, StageAssembling, StageFittings}

// generators bundles every random stream the workshop draws from.
type generators struct {
	arrival       variate.Generator
	orderType     variate.Generator
	warehouseTrip variate.Generator
	materialPrep  variate.Generator
	benchTrip     variate.Generator
	durations     map[OrderType]map[Stage]variate.Generator
}

// newGenerators builds each generator from its own named child of seeds, so
// equal seeds reproduce equal runs and adding a generator leaves the others'
// sequences unchanged.
func newGenerators(cfg Config, seeds *variate.SeedSource) (*generators, error) {
	g := &generators{durations: make(map[OrderType]map[Stage]variate.Generator)}
	var err error
	if g.arrival, err = variate.NewExponential(seeds.Stream("arrival"), cfg.ArrivalsPerHour/3600); err != nil {
		return nil, fmt.Errorf("arrival generator: %w", err)
	}
	if g.orderType, err = variate.NewUniform(seeds.Stream("order-type"), 0, 1, variate.Continuous); err != nil {
		return nil, fmt.Errorf("order type generator: %w", err)
	}
	if g.warehouseTrip, err = variate.NewTriangular(seeds.Stream("warehouse-trip"), warehouseTrip[0], warehouseTrip[1], warehouseTrip[2]); err != nil {
		return nil, fmt.Errorf("warehouse trip generator: %w", err)
	}
	if g.materialPrep, err = variate.NewTriangular(seeds.Stream("material-prep"), materialPrep[0], materialPrep[1], materialPrep[2]); err != nil {
		return nil, fmt.Errorf("material preparation generator: %w", err)
	}
	if g.benchTrip, err = variate.NewTriangular(seeds.Stream("bench-trip"), benchTrip[0], benchTrip[1], benchTrip[2]); err != nil {
		return nil, fmt.Errorf("workplace trip generator: %w", err)
	}
	for _, t := range OrderTypes {
		g.durations[t] = make(map[Stage]variate.Generator)
		for _, s := range workStages {
			spec, ok := durationProfile[t][s]
			if !ok {
				continue
			}
			var gen variate.Generator
			stream := seeds.Stream(t.String() + "/" + s.String())
			if spec.empirical != nil {
				gen, err = variate.NewEmpirical(stream, spec.empirical, variate.Continuous)
			} else {
				gen, err = variate.NewUniform(stream, spec.uniform[0], spec.uniform[1], variate.Continuous)
			}
			if err != nil {
				return nil, fmt.Errorf("%s %s duration generator: %w", t, s, err)
			}
			g.durations[t][s] = gen
		}
	}
	return g, nil
}

// duration draws the processing time of stage s for an order of type t.
func (g *generators) duration(t OrderType, s Stage) (float64, error) {
	gen, ok := g.durations[t][s]
	if !ok {
		return 0, fmt.Errorf("%w: %s orders have no %s stage", ErrStageOrder, t, s)
	}
	return gen.Float64(), nil
}
