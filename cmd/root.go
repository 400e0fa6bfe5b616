package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/workshop-sim/sim"
	"github.com/inference-sim/workshop-sim/sim/station"
	"github.com/inference-sim/workshop-sim/sim/trace"
	"github.com/inference-sim/workshop-sim/sim/variate"
	"github.com/inference-sim/workshop-sim/sim/workshop"
)

var (
	// CLI flags for the replication run
	seed         int64   // Master seed for every random stream
	replications int     // Number of independent replications
	skipPercent  float64 // Leading share of replications excluded from statistics
	workdays     float64 // Horizon of one replication, in 8-hour work days
	mode         string  // Execution mode (virtual or real)
	speed        string  // Time multiplier for real-time mode
	logLevel     string  // Log verbosity level
	configPath   string  // Optional YAML run config
	interactive  bool    // Read control commands from stdin

	// CLI flags for the workshop model
	groupA          int     // Carpenters in group A (sawing)
	groupB          int     // Carpenters in group B (assembling)
	groupC          int     // Carpenters in group C (soaking, fittings)
	arrivalsPerHour float64 // Order arrivals per hour
	maxArrivals     int     // Arrivals per replication, 0 = unbounded
	traceLevel      string  // Stage trace level

	// CLI flags for the station demo
	stationArrivals float64 // Customer arrivals per hour
	stationService  float64 // Mean service time in seconds
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "workshop-sim",
	Short: "Discrete-event simulator for a furniture workshop",
}

// setLogLevel applies --log to the global logger.
func setLogLevel() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// flagOptions returns the run options as given by flags and their defaults.
func flagOptions() runOptions {
	return runOptions{
		Seed:         seed,
		Replications: replications,
		SkipPercent:  skipPercent,
		Workdays:     workdays,
		Mode:         mode,
		Speed:        speed,
		Workshop: workshop.Config{
			GroupA:          groupA,
			GroupB:          groupB,
			GroupC:          groupC,
			ArrivalsPerHour: arrivalsPerHour,
			OrderMix:        workshop.DefaultConfig().OrderMix,
			MaxArrivals:     maxArrivals,
			Trace:           trace.TraceLevel(traceLevel),
		},
	}
}

// runReport is the YAML document printed when a workshop run ends.
type runReport struct {
	Seed    int64                    `yaml:"seed"`
	State   string                   `yaml:"state"`
	Elapsed string                   `yaml:"elapsed"`
	Results workshop.ReplicationData `yaml:"results"`
	Trace   *trace.TraceSummary      `yaml:"trace,omitempty"`
}

func printYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// runCmd executes the workshop replications using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the workshop simulation",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()

		opts := flagOptions()
		if configPath != "" {
			fileOpts, err := loadRunOptions(configPath, opts)
			if err != nil {
				logrus.Fatalf("%v", err)
			}
			overrideChanged(cmd.Flags(), &fileOpts, opts)
			opts = fileOpts
		}
		runCfg, wsCfg, err := opts.build()
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}

		logrus.Infof("Starting simulation: %d replications, skip=%.1f%%, horizon=%.0fs, mode=%s, speed=%s",
			runCfg.Replications, runCfg.SkipPercent, runCfg.Horizon, runCfg.Mode, runCfg.Multiplier)

		var model *workshop.Workshop
		runner := sim.NewRunner[workshop.Event](func() (sim.Model[workshop.Event], error) {
			w, err := workshop.New(wsCfg, variate.NewSeedSource(opts.Seed))
			model = w
			return w, err
		}, newConsoleSink(logrus.StandardLogger()))

		sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		startTime := time.Now()
		if err := runner.Start(context.Background(), runCfg); err != nil {
			logrus.Fatalf("Unable to start simulation: %v", err)
		}
		finished := make(chan struct{})
		go stopOnDone(sigCtx, finished, runner)
		if interactive {
			fmt.Fprintln(os.Stderr, controlHelp)
			go readCommands(sigCtx, os.Stdin, runner)
		}
		runErr := runner.Wait()
		close(finished)
		if runErr != nil {
			logrus.Errorf("Simulation aborted: %v", runErr)
		}

		state, _ := runner.State()
		done, _ := runner.DoneReplications()
		report := runReport{
			Seed:    opts.Seed,
			State:   state.String(),
			Elapsed: time.Since(startTime).Round(time.Millisecond).String(),
			Results: model.Results(done),
		}
		if model.Trace().Config.Enabled() {
			report.Trace = trace.Summarize(model.Trace(), workshop.StageDone.String())
		}
		if err := printYAML(os.Stdout, report); err != nil {
			logrus.Fatalf("Unable to print results: %v", err)
		}
		if runErr != nil {
			os.Exit(1)
		}
		logrus.Info("Simulation complete.")
	},
}

// stationCmd runs the single-server queue demo on the same engine
var stationCmd = &cobra.Command{
	Use:   "station",
	Short: "Run the single-server queue demo",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()

		cfg := station.Config{ArrivalsPerHour: stationArrivals, MeanServiceSeconds: stationService}
		model, err := station.New(cfg, variate.NewSeedSource(seed))
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}
		runCfg := sim.RunConfig{
			Replications: replications,
			SkipPercent:  skipPercent,
			Horizon:      workdays * sim.WorkdaySeconds,
			Mode:         sim.VirtualTime,
			Multiplier:   sim.Speed1x,
		}
		ctl, err := sim.NewController[station.Event](runCfg, model, newConsoleSink(logrus.StandardLogger()))
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}
		logrus.Infof("Starting station: utilization %.2f, %d replications", cfg.Utilization(), runCfg.Replications)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		runErr := ctl.Run(ctx)
		if runErr != nil {
			logrus.Errorf("Station aborted: %v", runErr)
		}
		if err := printYAML(os.Stdout, model.Results(ctl.DoneReplications())); err != nil {
			logrus.Fatalf("Unable to print results: %v", err)
		}
		if runErr != nil {
			os.Exit(1)
		}
	},
}

// multipliersCmd lists the accepted time multipliers
var multipliersCmd = &cobra.Command{
	Use:   "multipliers",
	Short: "List the real-time speed multipliers",
	Run: func(cmd *cobra.Command, args []string) {
		writeMultipliers(cmd.OutOrStdout())
	},
}

func writeMultipliers(w io.Writer) {
	for _, m := range sim.TimeMultipliers() {
		fmt.Fprintf(w, "%-8s one simulated second every %v\n", m, m.TickInterval())
	}
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	for _, c := range []*cobra.Command{runCmd, stationCmd} {
		c.Flags().Int64Var(&seed, "seed", 42, "Master seed for random streams")
		c.Flags().IntVar(&replications, "replications", 10, "Number of replications")
		c.Flags().Float64Var(&skipPercent, "skip", 0, "Percentage of leading replications excluded from statistics")
		c.Flags().Float64Var(&workdays, "workdays", 249, "Replication horizon in 8-hour work days")
		c.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	}

	// Run control
	runCmd.Flags().StringVar(&mode, "mode", sim.VirtualTime.String(), "Execution mode (virtual, real)")
	runCmd.Flags().StringVar(&speed, "speed", sim.Speed1x.String(), "Real-time speed multiplier (see the multipliers command)")
	runCmd.Flags().StringVar(&configPath, "config", "", "YAML run config; explicitly set flags override it")
	runCmd.Flags().BoolVar(&interactive, "interactive", false, "Read p/r/s/speed/mode commands from stdin")

	// Workshop model
	defaults := workshop.DefaultConfig()
	runCmd.Flags().IntVar(&groupA, "group-a", defaults.GroupA, "Carpenters in group A (sawing)")
	runCmd.Flags().IntVar(&groupB, "group-b", defaults.GroupB, "Carpenters in group B (assembling)")
	runCmd.Flags().IntVar(&groupC, "group-c", defaults.GroupC, "Carpenters in group C (soaking, fittings)")
	runCmd.Flags().Float64Var(&arrivalsPerHour, "arrivals-per-hour", defaults.ArrivalsPerHour, "Order arrivals per hour")
	runCmd.Flags().IntVar(&maxArrivals, "max-arrivals", 0, "Arrivals per replication (0 = unbounded)")
	runCmd.Flags().StringVar(&traceLevel, "trace", string(trace.TraceLevelNone), "Stage trace level (none, stages)")

	// Station demo
	stationDefaults := station.DefaultConfig()
	stationCmd.Flags().Float64Var(&stationArrivals, "arrivals-per-hour", stationDefaults.ArrivalsPerHour, "Customer arrivals per hour")
	stationCmd.Flags().Float64Var(&stationService, "mean-service", stationDefaults.MeanServiceSeconds, "Mean service time in seconds")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(stationCmd)
	rootCmd.AddCommand(multipliersCmd)
}
