package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/workshop-sim/sim"
	"github.com/inference-sim/workshop-sim/sim/workshop"
)

// runOptions is everything the run command needs. It is filled from flag
// defaults, then from the optional --config file, then from flags the user
// set explicitly.
type runOptions struct {
	Seed         int64           `yaml:"seed"`
	Replications int             `yaml:"replications"`
	SkipPercent  float64         `yaml:"skip_percent"`
	Workdays     float64         `yaml:"workdays"`
	Mode         string          `yaml:"mode"`
	Speed        string          `yaml:"speed"`
	Workshop     workshop.Config `yaml:"workshop"`
}

// loadRunOptions decodes the YAML file at path on top of base. Unknown keys
// are rejected.
func loadRunOptions(path string, base runOptions) (runOptions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("reading run config: %w", err)
	}
	opts := base
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&opts); err != nil {
		return base, fmt.Errorf("parsing run config %s: %w", path, err)
	}
	return opts, nil
}

// overrideChanged copies into opts every value whose flag was set on the
// command line.
func overrideChanged(flags *pflag.FlagSet, opts *runOptions, from runOptions) {
	setters := map[string]func(){
		"seed":              func() { opts.Seed = from.Seed },
		"replications":      func() { opts.Replications = from.Replications },
		"skip":              func() { opts.SkipPercent = from.SkipPercent },
		"workdays":          func() { opts.Workdays = from.Workdays },
		"mode":              func() { opts.Mode = from.Mode },
		"speed":             func() { opts.Speed = from.Speed },
		"group-a":           func() { opts.Workshop.GroupA = from.Workshop.GroupA },
		"group-b":           func() { opts.Workshop.GroupB = from.Workshop.GroupB },
		"group-c":           func() { opts.Workshop.GroupC = from.Workshop.GroupC },
		"arrivals-per-hour": func() { opts.Workshop.ArrivalsPerHour = from.Workshop.ArrivalsPerHour },
		"max-arrivals":      func() { opts.Workshop.MaxArrivals = from.Workshop.MaxArrivals },
		"trace":             func() { opts.Workshop.Trace = from.Workshop.Trace },
	}
	flags.Visit(func(f *pflag.Flag) {
		if set, ok := setters[f.Name]; ok {
			set()
		}
	})
}

// build converts the options into validated engine and model configs.
func (o runOptions) build() (sim.RunConfig, workshop.Config, error) {
	mode, err := sim.ParseExecutionMode(o.Mode)
	if err != nil {
		return sim.RunConfig{}, workshop.Config{}, err
	}
	speed, err := sim.ParseTimeMultiplier(o.Speed)
	if err != nil {
		return sim.RunConfig{}, workshop.Config{}, err
	}
	rc := sim.RunConfig{
		Replications: o.Replications,
		SkipPercent:  o.SkipPercent,
		Horizon:      o.Workdays * sim.WorkdaySeconds,
		Mode:         mode,
		Multiplier:   speed,
	}
	if err := rc.Validate(); err != nil {
		return sim.RunConfig{}, workshop.Config{}, err
	}
	if err := o.Workshop.Validate(); err != nil {
		return sim.RunConfig{}, workshop.Config{}, err
	}
	return rc, o.Workshop, nil
}
