package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/workshop-sim/sim"
	"github.com/inference-sim/workshop-sim/sim/trace"
	"github.com/inference-sim/workshop-sim/sim/workshop"
)

func baseOptions() runOptions {
	return runOptions{
		Seed:         42,
		Replications: 10,
		Workdays:     249,
		Mode:         "virtual",
		Speed:        "1x",
		Workshop:     workshop.DefaultConfig(),
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadRunOptions_FileValues_OverrideDefaults(t *testing.T) {
	// GIVEN a file that sets a few run and workshop fields
	path := writeConfig(t, `
replications: 3
skip_percent: 20
workshop:
  group_a: 4
  trace: stages
`)

	// WHEN loaded on top of the flag defaults
	opts, err := loadRunOptions(path, baseOptions())

	// THEN file values win and the rest keep their defaults
	require.NoError(t, err)
	assert.Equal(t, 3, opts.Replications)
	assert.Equal(t, 20.0, opts.SkipPercent)
	assert.Equal(t, 4, opts.Workshop.GroupA)
	assert.Equal(t, 2, opts.Workshop.GroupB)
	assert.Equal(t, trace.TraceLevelStages, opts.Workshop.Trace)
	assert.Equal(t, int64(42), opts.Seed)
	assert.Equal(t, 0.35, opts.Workshop.OrderMix.Wardrobe)
}

func TestLoadRunOptions_UnknownKey_Rejected(t *testing.T) {
	// GIVEN a file with a misspelled key
	path := writeConfig(t, "replicatons: 3\n")

	// WHEN loaded
	_, err := loadRunOptions(path, baseOptions())

	// THEN strict decoding rejects it
	require.Error(t, err)
	assert.Contains(t, err.Error(), "replicatons")
}

func TestLoadRunOptions_BlankMode_RejectedOnBuild(t *testing.T) {
	// GIVEN a file that clears the execution mode
	path := writeConfig(t, "mode: \"\"\n")

	// WHEN loaded and built
	opts, err := loadRunOptions(path, baseOptions())
	require.NoError(t, err)
	_, _, err = opts.build()

	// THEN the blank mode is an error, not a silent virtual run
	require.Error(t, err)
	assert.Contains(t, err.Error(), "execution mode")
}

func TestLoadRunOptions_MissingFile_ReturnsError(t *testing.T) {
	_, err := loadRunOptions(filepath.Join(t.TempDir(), "absent.yaml"), baseOptions())
	assert.Error(t, err)
}

func TestOverrideChanged_OnlyExplicitFlagsWin(t *testing.T) {
	// GIVEN a flag set where only --group-a and --seed are given
	var seedFlag int64
	var a, b int
	flags := pflag.NewFlagSet("run", pflag.ContinueOnError)
	flags.Int64Var(&seedFlag, "seed", 42, "")
	flags.IntVar(&a, "group-a", 2, "")
	flags.IntVar(&b, "group-b", 2, "")
	require.NoError(t, flags.Parse([]string{"--group-a=7", "--seed=9"}))

	fromFlags := baseOptions()
	fromFlags.Seed = seedFlag
	fromFlags.Workshop.GroupA = a
	fromFlags.Workshop.GroupB = b

	fromFile := baseOptions()
	fromFile.Seed = 1
	fromFile.Workshop.GroupA = 3
	fromFile.Workshop.GroupB = 5

	// WHEN the explicit flags are applied on top of the file
	overrideChanged(flags, &fromFile, fromFlags)

	// THEN the set flags override and the untouched one keeps the file value
	assert.Equal(t, int64(9), fromFile.Seed)
	assert.Equal(t, 7, fromFile.Workshop.GroupA)
	assert.Equal(t, 5, fromFile.Workshop.GroupB)
}

func TestRunOptionsBuild_Defaults_ProduceValidConfigs(t *testing.T) {
	rc, wc, err := baseOptions().build()

	require.NoError(t, err)
	assert.Equal(t, 249.0*sim.WorkdaySeconds, rc.Horizon)
	assert.Equal(t, sim.VirtualTime, rc.Mode)
	assert.Equal(t, sim.Speed1x, rc.Multiplier)
	assert.Equal(t, workshop.DefaultConfig(), wc)
}

func TestRunOptionsBuild_InvalidValues_ReturnError(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*runOptions)
	}{
		{"unknown mode", func(o *runOptions) { o.Mode = "warp" }},
		{"unknown speed", func(o *runOptions) { o.Speed = "3x" }},
		{"zero replications", func(o *runOptions) { o.Replications = 0 }},
		{"skip of 100", func(o *runOptions) { o.SkipPercent = 100 }},
		{"zero workdays", func(o *runOptions) { o.Workdays = 0 }},
		{"negative group", func(o *runOptions) { o.Workshop.GroupC = -1 }},
		{"unknown trace level", func(o *runOptions) { o.Workshop.Trace = "verbose" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := baseOptions()
			tt.mutate(&opts)
			_, _, err := opts.build()
			assert.Error(t, err)
		})
	}
}
