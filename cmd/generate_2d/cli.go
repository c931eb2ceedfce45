package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/galaxygarden/nbody-datagen/internal/config"
	"github.com/galaxygarden/nbody-datagen/internal/database"
	"github.com/galaxygarden/nbody-datagen/internal/generator"
	"github.com/galaxygarden/nbody-datagen/internal/influx"
	"github.com/galaxygarden/nbody-datagen/internal/logging"
	"github.com/galaxygarden/nbody-datagen/internal/otel"
	"github.com/galaxygarden/nbody-datagen/internal/scenario"
	"github.com/galaxygarden/nbody-datagen/internal/storage"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// app carries the process-wide services built in PersistentPreRunE.
type app struct {
	configDir string
	registry  *scenario.Registry
	started   time.Time

	logs      *logging.SlogManager
	log       *slog.Logger
	telemetry *otel.Provider
	closers   []func()
}

func newApp() *app {
	return &app{
		registry: scenario.Builtin(),
		started:  time.Now(),
		logs:     logging.NewSlogManager(),
		log:      slog.Default(),
	}
}

// close releases services in reverse order of creation.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   BinaryName + " <body_count> [scenario]",
		Short: "Generate 2D N-body initial-condition datasets",
		Long: "Samples <body_count> bodies from the named scenario and writes them to\n" +
			"<output-dir>/<scenario>_<compact count>.data, one body per line:\n" +
			"mass radius x y vx vy",
		Version:           fmt.Sprintf("%s (built %s)", Version, BuildDate),
		Args:              usageArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE:              a.runGenerate,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configDir, "config-dir", ".", "directory holding "+config.ConfigFileName)
	pf.String("log-level", "info", "log level: debug, info, warn, error")

	f := root.Flags()
	f.Uint64("seed", 0, "random seed, 0 draws one from system entropy")
	f.String("output-dir", "2d", "directory the dataset is written to (must exist)")
	f.Bool("compress", false, "gzip the dataset and append .gz to its name")
	f.Bool("dry-run", false, "sample and summarise without writing a file")
	f.Bool("catalog", false, "record the run in the catalog database")

	mustBind("logLevel", pf.Lookup("log-level"))
	mustBind("seed", f.Lookup("seed"))
	mustBind("output.dir", f.Lookup("output-dir"))
	mustBind("output.compress", f.Lookup("compress"))
	mustBind("catalog.enabled", f.Lookup("catalog"))

	// "-5" reaches pflag as a shorthand, so flag errors are usage errors too
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", generator.ErrUsage, err)
	})

	root.AddCommand(a.scenariosCmd(), a.historyCmd())
	return root
}

func mustBind(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(err)
	}
}

func usageArgs(_ *cobra.Command, args []string) error {
	if len(args) > 2 {
		return fmt.Errorf("%w: expected at most 2 arguments, got %d", generator.ErrUsage, len(args))
	}
	return nil
}

// usage lists the supported scenarios the way --help does not.
func (a *app) usage(w io.Writer) {
	fmt.Fprintf(w, "Usage: %s <body_count> [scenario (default: %s)]\n\n", BinaryName, scenario.Default)
	fmt.Fprintln(w, "Scenarios:")
	fmt.Fprintln(w, "-------------------")
	for i, id := range a.usageOrder() {
		fmt.Fprintf(w, "%d. %s\n", i+1, id)
	}
}

// usageOrder puts the default scenario first, the rest sorted.
func (a *app) usageOrder() []scenario.ID {
	ids := a.registry.IDs()
	order := make([]scenario.ID, 0, len(ids))
	if slices.Contains(ids, scenario.Default) {
		order = append(order, scenario.Default)
	}
	for _, id := range ids {
		if id != scenario.Default {
			order = append(order, id)
		}
	}
	return order
}

// setup loads configuration and builds the logger for every subcommand.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := config.Load(a.configDir); err != nil {
		return err
	}

	opts := logging.Options{
		Console: cmd.ErrOrStderr(),
		Level:   config.GetString("logLevel"),
		Started: a.started,
	}

	if config.GetBool("logToFile") {
		f, err := logging.OpenLogFile(config.GetString("logsDir"), BinaryName, a.started)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, func() { _ = f.Close() })
		opts.File = f
	}

	if gc := config.GetGraylogConfig(); gc.Enabled {
		w, err := logging.OpenGraylog(gc.Address, BinaryName)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, func() { _ = w.Close() })
		opts.Graylog = w
	}

	// telemetry comes up before the logger so records can be bridged into it
	var otelErr error
	if oc := config.GetOTelConfig(); oc.Enabled {
		a.telemetry, otelErr = a.startTelemetry(oc)
		if a.telemetry != nil {
			opts.OTel = a.telemetry.LoggerProvider()
		}
	}

	a.logs.Setup(opts)
	a.log = a.logs.Logger()
	if otelErr != nil {
		a.log.Warn("OpenTelemetry unavailable", "error", otelErr)
	}
	return nil
}

func (a *app) startTelemetry(oc config.OTelConfig) (*otel.Provider, error) {
	w, err := a.telemetryWriter()
	if err != nil {
		return nil, err
	}
	provider, err := otel.New(otel.Config{
		Enabled:     true,
		ServiceName: oc.ServiceName,
		Writer:      w,
		Endpoint:    oc.Endpoint,
		Insecure:    oc.Insecure,
	})
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "%s: OpenTelemetry shutdown failed: %v\n", BinaryName, err)
		}
	})
	return provider, nil
}

// telemetryWriter is a session file next to the logs when file logging is
// on. Otherwise local export is discarded: stderr already carries the logs.
func (a *app) telemetryWriter() (io.Writer, error) {
	if !config.GetBool("logToFile") {
		return io.Discard, nil
	}
	f, err := logging.OpenLogFile(config.GetString("logsDir"), BinaryName+".otel", a.started)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() { _ = f.Close() })
	return f, nil
}

func (a *app) runGenerate(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		a.usage(cmd.OutOrStdout())
		return nil
	}

	count, err := generator.ParseBodyCount(args[0])
	if err != nil {
		return err
	}
	name := string(scenario.Default)
	if len(args) > 1 {
		name = args[1]
	}

	out := config.GetOutputConfig()
	dry, _ := cmd.Flags().GetBool("dry-run")
	if dry {
		out.Type = "discard"
	}
	backend, err := storage.NewBackend(out)
	if err != nil {
		return err
	}

	deps := generator.Dependencies{
		Registry: a.registry,
		Backend:  backend,
		Logger:   a.log,
	}
	a.attachSinks(cmd.Context(), &deps)

	res, err := generator.New(deps).Run(cmd.Context(), generator.Request{
		BodyCount: count,
		Scenario:  name,
		Seed:      config.GetSeed(),
		Compress:  out.Compress,
	})
	if err != nil {
		if errors.Is(err, generator.ErrUnknownScenario) {
			return fmt.Errorf("%w (supported: %s)", err, a.supported())
		}
		return err
	}

	if dry {
		fmt.Fprintf(cmd.OutOrStdout(), "dry run, not written: %s (%d bodies, %d bytes)\n",
			res.Written.Path, res.Written.Bodies, res.Written.Bytes)
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.Written.Path)
	return nil
}

// attachSinks wires the optional run sinks. A sink that cannot start is
// logged and skipped; it never blocks generation.
func (a *app) attachSinks(ctx context.Context, deps *generator.Dependencies) {
	if cc := config.GetCatalogConfig(); cc.Enabled {
		catalog := database.NewManager(cc, a.log)
		if err := catalog.Connect(); err != nil {
			a.log.Warn("Catalog unavailable, run will not be recorded", "error", err)
			_ = catalog.Close()
		} else if err := catalog.Setup(); err != nil {
			a.log.Warn("Catalog setup failed, run will not be recorded", "error", err)
			_ = catalog.Close()
		} else {
			a.closers = append(a.closers, func() { _ = catalog.Close() })
			deps.Catalog = catalog
		}
	}

	if ic := config.GetInfluxConfig(); ic.Enabled {
		im := influx.NewManager(ic, a.log)
		if err := im.Connect(ctx); err != nil {
			a.log.Warn("InfluxDB unavailable, run metrics will not be sent", "error", err)
		} else {
			a.closers = append(a.closers, im.Close)
			deps.Influx = im
		}
	}

	if a.telemetry != nil {
		inst, err := otel.NewInstruments(a.telemetry.Meter())
		if err != nil {
			a.log.Warn("OpenTelemetry instruments unavailable", "error", err)
			return
		}
		deps.Instruments = inst
	}
}

func (a *app) supported() string {
	ids := a.registry.IDs()
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = string(id)
	}
	return strings.Join(names, ", ")
}

func (a *app) scenariosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenarios",
		Short: "List the supported scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SCENARIO\tMASS\tLENGTH\tTIME\tDESCRIPTION")
			for _, s := range a.registry.All() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", s.ID, s.Units.Mass, s.Units.Length, s.Units.Time, s.Description)
			}
			return tw.Flush()
		},
	}
}

func (a *app) historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [scenario]",
		Short: "Show recent runs recorded in the catalog",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			filter := ""
			if len(args) == 1 {
				filter = args[0]
			}

			catalog := database.NewManager(config.GetCatalogConfig(), a.log)
			defer func() { _ = catalog.Close() }()
			if err := catalog.Connect(); err != nil {
				return err
			}
			if err := catalog.Setup(); err != nil {
				return err
			}

			runs, err := catalog.RecentRuns(cmd.Context(), filter, limit)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCREATED\tSCENARIO\tBODIES\tSEED\tPATH")
			for _, r := range runs {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\n",
					r.ID, r.CreatedAt.UTC().Format(time.RFC3339), r.Scenario, r.BodyCount, r.Seed, r.OutputPath)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().Int("limit", 20, "maximum number of runs to show")
	return cmd
}
