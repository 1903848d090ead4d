package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sarchlab/hbsim/config"
	"github.com/sarchlab/hbsim/datarecording"
	"github.com/sarchlab/hbsim/energy"
	"github.com/sarchlab/hbsim/engine"
	"github.com/sarchlab/hbsim/monitoring"
	"github.com/sarchlab/hbsim/report"
	"github.com/sarchlab/hbsim/trace"
)

var (
	runCfg  = config.Default()
	envFile string
)

var runCmd = &cobra.Command{
	Use:   "run [trace]",
	Short: "Replay a memory access trace and write the report.",
	Long: `Replay a memory access trace and write the report. The trace is ` +
		`read from standard input if no file is given or the file is "-". ` +
		`Options can also be set with ` + config.EnvPrefix + `* environment ` +
		`variables, or in the file given by --env-file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		err := config.ApplyEnv(&runCfg, envFile, cmd.Flags().Changed)
		if err != nil {
			return err
		}

		err = runCfg.Validate()
		if err != nil {
			return err
		}

		tracePath := "-"
		if len(args) > 0 {
			tracePath = args[0]
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		return simulate(ctx, runCfg, tracePath)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	f := runCmd.Flags()
	f.StringVarP(&runCfg.Output, "output", "o", runCfg.Output,
		"The file to write the report to.")
	f.Uint64Var(&runCfg.Reference.SizeKB, "ref-size", runCfg.Reference.SizeKB,
		"Reference cache size in KB.")
	f.Uint64Var(&runCfg.Reference.LineSize, "ref-line", runCfg.Reference.LineSize,
		"Reference cache line size in bytes.")
	f.IntVar(&runCfg.Reference.Assoc, "ref-assoc", runCfg.Reference.Assoc,
		"Reference cache associativity.")
	f.Uint64VarP(&runCfg.Target.SizeKB, "cache-size", "c", runCfg.Target.SizeKB,
		"Target cache size in KB.")
	f.Uint64VarP(&runCfg.Target.LineSize, "line-size", "b", runCfg.Target.LineSize,
		"Target cache line size in bytes.")
	f.IntVarP(&runCfg.Target.Assoc, "assoc", "a", runCfg.Target.Assoc,
		"Target cache associativity.")
	f.BoolVar(&runCfg.Unbounded, "infinite", runCfg.Unbounded,
		"Let the sets of the target cache grow without limit.")
	f.StringVar(&runCfg.ReplaceStrategy, "replace", runCfg.ReplaceStrategy,
		"Replacement policy of both caches, roundRobin or lru.")
	f.BoolVar(&runCfg.NoWriteAllocate, "no-write-allocate", runCfg.NoWriteAllocate,
		"Do not bring lines into the caches on store misses.")
	f.BoolVar(&runCfg.ColdMissOnly, "co", runCfg.ColdMissOnly,
		"Only count misses to lines that were never touched.")
	f.BoolVar(&runCfg.TrackLoads, "tl", runCfg.TrackLoads,
		"Track loads per instruction.")
	f.BoolVar(&runCfg.TrackStores, "ts", runCfg.TrackStores,
		"Track stores per instruction.")
	f.Uint64Var(&runCfg.HitThreshold, "rh", runCfg.HitThreshold,
		"Report instructions with at least this many hits.")
	f.Uint64Var(&runCfg.MissThreshold, "rm", runCfg.MissThreshold,
		"Report instructions with at least this many misses.")
	f.StringVar(&runCfg.EpochMarker, "epoch-marker", runCfg.EpochMarker,
		"The routine that starts a new epoch with a cold target cache.")
	f.StringVar(&runCfg.EnergyModel, "energy-model", runCfg.EnergyModel,
		"The energy model, one of "+strings.Join(energy.ModelNames(), ", ")+".")
	f.StringVar(&runCfg.TablesFile, "tables", runCfg.TablesFile,
		"A YAML file with the power and latency tables and energy parameters.")
	f.StringVar(&runCfg.DBPath, "db", runCfg.DBPath,
		"Record the results into this SQLite database.")
	f.BoolVar(&runCfg.Monitor, "monitor", runCfg.Monitor,
		"Serve the live counters over HTTP.")
	f.IntVar(&runCfg.MonitorPort, "monitor-port", runCfg.MonitorPort,
		"The port of the monitoring server. 0 picks a random port.")
	f.BoolVar(&runCfg.OpenBrowser, "open-browser", runCfg.OpenBrowser,
		"Open the monitoring page in a browser.")
	f.BoolVarP(&runCfg.Verbose, "verbose", "v", runCfg.Verbose,
		"Log every epoch reset.")
	f.StringVar(&envFile, "env-file", "",
		"A file of "+config.EnvPrefix+"* variables.")
}

func openTrace(path string) (io.ReadCloser, uint64, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), 0, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}

	return f, uint64(info.Size()), nil
}

func simulate(ctx context.Context, cfg config.Config, tracePath string) error {
	tables, err := cfg.Tables()
	if err != nil {
		return err
	}

	e, err := engine.New(cfg, tables)
	if err != nil {
		return err
	}

	if cfg.Verbose {
		e.AcceptHook(report.NewLogHook(log.New(os.Stderr, "", log.LstdFlags), false))
	}

	in, size, err := openTrace(tracePath)
	if err != nil {
		return err
	}
	defer in.Close()

	var handler trace.Handler = e
	opts := trace.ReplayOptions{}

	if cfg.Monitor {
		locked := engine.NewLocked(e)
		handler = locked

		m := monitoring.NewMonitor(locked).
			WithPortNumber(cfg.MonitorPort).
			WithBrowser(cfg.OpenBrowser)

		err = m.StartServer()
		if err != nil {
			return err
		}
		defer m.StopServer(context.Background())

		bar := m.CreateProgressBar("trace", size)
		defer m.CompleteProgressBar(bar)

		opts.OnProgress = func(p trace.Progress) { bar.SetFinished(p.BytesRead) }
	}

	progress, err := trace.Replay(ctx, in, handler, opts)
	if errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr,
			"Interrupted after %d events, reporting partial results.\n",
			progress.Events)
	} else if err != nil {
		return err
	}

	return finalize(cfg, e)
}

func finalize(cfg config.Config, e *engine.Engine) error {
	out, err := os.Create(cfg.Output)
	if err != nil {
		return err
	}

	err = report.Write(out, e)
	if err != nil {
		out.Close()
		return err
	}

	err = out.Close()
	if err != nil {
		return err
	}

	if cfg.DBPath == "" {
		return nil
	}

	rec, err := datarecording.New(cfg.DBPath)
	if err != nil {
		return err
	}

	report.Record(rec, e)

	return rec.Close()
}
