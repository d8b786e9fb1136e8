package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joshharrison/steploom/internal/config"
	"github.com/joshharrison/steploom/internal/cpm"
	"github.com/joshharrison/steploom/internal/graph"
	"github.com/joshharrison/steploom/internal/logging"
	"github.com/joshharrison/steploom/internal/parse"
	"github.com/joshharrison/steploom/internal/planner"
	"github.com/joshharrison/steploom/internal/report"
	"github.com/joshharrison/steploom/internal/reporter"
	"github.com/joshharrison/steploom/internal/resolve"
	"github.com/joshharrison/steploom/internal/sim"
	"github.com/joshharrison/steploom/internal/step"
	"github.com/joshharrison/steploom/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// options holds the persistent flag values of one command tree.
type options struct {
	configPath string
	input      string
	format     string
	strict     bool
	workers    int
	baseOffset int
	rank       string
	resolver   string
	steps      []string
	targets    []string
	json       bool
	quiet      bool
	logLevel   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	defaults := config.Default()

	rootCmd := &cobra.Command{
		Use:   "steploom",
		Short: "Schedule dependency-ordered steps across a fixed pool of workers",
		Long: `Steploom reads "Step X must be finished before step Y can begin." statements,
computes the order in which steps complete with a single worker and the total
time a pool of workers needs when every step takes its own duration.`,
		SilenceUsage: true,
	}

	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "TOML config file")
	pf.StringVarP(&opts.input, "input", "i", "-", "Input file (- for stdin)")
	pf.StringVar(&opts.format, "format", string(defaults.Input.Format), "Input format (auto, text, json)")
	pf.BoolVar(&opts.strict, "strict", defaults.Input.Strict, "Reject repeated prerequisite statements")
	pf.IntVarP(&opts.workers, "workers", "w", defaults.Scheduler.Workers, "Number of workers")
	pf.IntVar(&opts.baseOffset, "base-offset", defaults.Scheduler.BaseOffset, "Constant added to every step duration")
	pf.StringVar(&opts.rank, "rank", string(defaults.Scheduler.Rank), "Duration rank policy (alphabet, ordinal)")
	pf.StringVar(&opts.resolver, "resolver", string(defaults.Scheduler.Resolver), "Ready-set resolver (frontier, scan)")
	pf.StringSliceVar(&opts.steps, "step", nil, "Extra step with no prerequisites (repeatable)")
	pf.StringSliceVar(&opts.targets, "target", nil, "Only schedule these steps and their prerequisites")
	pf.BoolVar(&opts.json, "json", false, "Machine-readable JSON output")
	pf.BoolVarP(&opts.quiet, "quiet", "q", false, "Suppress the logo")
	pf.StringVar(&opts.logLevel, "log-level", defaults.Log.Level, "Diagnostic log level (off, debug, info, warn, error)")

	rootCmd.AddCommand(orderCmd(opts))
	rootCmd.AddCommand(timeCmd(opts))
	rootCmd.AddCommand(solveCmd(opts))
	rootCmd.AddCommand(planCmd(opts))
	rootCmd.AddCommand(timelineCmd(opts))
	rootCmd.AddCommand(vizCmd(opts))
	rootCmd.AddCommand(showCmd(opts))
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

// session is everything a command needs after flags, config and input are
// resolved.
type session struct {
	cfg      *config.Config
	log      *zap.Logger
	graph    *graph.Graph
	duration step.DurationFunc
	input    string
}

// resolveConfig applies the config file and then any flag the user set.
func (o *options) resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("workers") {
		cfg.Scheduler.Workers = o.workers
	}
	if flags.Changed("base-offset") {
		cfg.Scheduler.BaseOffset = o.baseOffset
	}
	if flags.Changed("rank") {
		cfg.Scheduler.Rank = step.Rank(o.rank)
	}
	if flags.Changed("resolver") {
		cfg.Scheduler.Resolver = resolve.Kind(o.resolver)
	}
	if flags.Changed("format") {
		cfg.Input.Format = parse.Format(o.format)
	}
	if flags.Changed("strict") {
		cfg.Input.Strict = o.strict
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// load resolves configuration and builds the graph from the input.
func (o *options) load(cmd *cobra.Command) (*session, error) {
	cfg, err := o.resolveConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	var r io.Reader = cmd.InOrStdin()
	if o.input != "" && o.input != "-" {
		f, err := os.Open(o.input)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	in, err := parse.Parse(r, cfg.Input.Format, parse.Options{Strict: cfg.Input.Strict})
	if err != nil {
		return nil, fmt.Errorf("parse input: %w", err)
	}

	isolated := append([]step.Step(nil), in.Steps...)
	for _, s := range o.steps {
		isolated = append(isolated, step.Step(strings.TrimSpace(s)))
	}

	g, err := graph.BuildFromPairs(in.Pairs, isolated...)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	if len(o.targets) > 0 {
		targets := make([]step.Step, len(o.targets))
		for i, t := range o.targets {
			targets[i] = step.Step(strings.TrimSpace(t))
		}
		g, err = g.Closure(targets...)
		if err != nil {
			return nil, fmt.Errorf("apply target: %w", err)
		}
	}

	d, err := step.NewDuration(cfg.Scheduler.Rank, cfg.Scheduler.BaseOffset, g.Steps())
	if err != nil {
		return nil, fmt.Errorf("durations: %w", err)
	}

	logger.Debug("graph loaded",
		zap.String("input", o.input),
		zap.Int("steps", g.Len()),
		zap.Int("edges", len(g.Edges())),
		zap.Int("workers", cfg.Scheduler.Workers),
		zap.Int("base_offset", cfg.Scheduler.BaseOffset))

	return &session{cfg: cfg, log: logger, graph: g, duration: d, input: o.input}, nil
}

func (s *session) schedule() (*sim.Result, error) {
	return sim.Schedule(s.graph, sim.Config{
		Workers:  s.cfg.Scheduler.Workers,
		Duration: s.duration,
		Resolver: s.cfg.Scheduler.Resolver,
		Logger:   s.log,
	})
}

// buildPlan is shared logic for the plan, timeline and viz commands.
func (s *session) buildPlan() (*planner.ExecutionPlan, *cpm.CPMResult, error) {
	result, err := cpm.Analyze(s.graph, s.duration)
	if err != nil {
		return nil, nil, fmt.Errorf("CPM analysis: %w", err)
	}

	order, err := sim.Order(s.graph, s.log)
	if err != nil {
		return nil, nil, fmt.Errorf("order: %w", err)
	}

	run, err := s.schedule()
	if err != nil {
		return nil, nil, fmt.Errorf("schedule: %w", err)
	}

	plan, err := planner.Generate(s.graph, result, order, run, planner.PlanConfig{
		Workers:    s.cfg.Scheduler.Workers,
		BaseOffset: s.cfg.Scheduler.BaseOffset,
		Rank:       s.cfg.Scheduler.Rank,
		Resolver:   s.cfg.Scheduler.Resolver,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("generate plan: %w", err)
	}

	return plan, result, nil
}

func orderCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "order",
		Short: "Print the order steps complete in with a single worker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.load(cmd)
			if err != nil {
				return err
			}
			defer s.log.Sync()

			order, err := sim.Order(s.graph, s.log)
			if err != nil {
				return err
			}

			if opts.json {
				return outputJSON(cmd.OutOrStdout(), map[string]interface{}{"order": order})
			}
			fmt.Fprintln(cmd.OutOrStdout(), step.Join(order, " "))
			return nil
		},
	}
}

func timeCmd(opts *options) *cobra.Command {
	var events bool

	cmd := &cobra.Command{
		Use:   "time",
		Short: "Print the ticks the worker pool needs to finish every step",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.load(cmd)
			if err != nil {
				return err
			}
			defer s.log.Sync()

			res, err := s.schedule()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.json {
				return outputJSON(out, res)
			}
			if events {
				if err := ui.WriteEvents(out, res.Events); err != nil {
					return err
				}
			}
			fmt.Fprintln(out, res.Elapsed)
			return nil
		},
	}

	cmd.Flags().BoolVar(&events, "events", false, "Print every start and finish event")

	return cmd
}

func solveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "solve",
		Short: "Print both the single-worker order and the pool's elapsed ticks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.load(cmd)
			if err != nil {
				return err
			}
			defer s.log.Sync()

			order, err := sim.Order(s.graph, s.log)
			if err != nil {
				return err
			}
			res, err := s.schedule()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.json {
				return outputJSON(out, map[string]interface{}{
					"order":   order,
					"elapsed": res.Elapsed,
					"workers": res.Workers,
				})
			}
			fmt.Fprintf(out, "Part1: %s\n", step.Join(order, " "))
			fmt.Fprintf(out, "Part2: %d\n", res.Elapsed)
			return nil
		},
	}
}

func planCmd(opts *options) *cobra.Command {
	var (
		output       string
		templatePath string
		archive      bool
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Analyze the step graph and print the full execution plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.load(cmd)
			if err != nil {
				return err
			}
			defer s.log.Sync()

			plan, _, err := s.buildPlan()
			if err != nil {
				return err
			}

			if output != "" || archive {
				rec := report.NewRecord(plan, s.input)
				if output != "" {
					if err := report.Save(output, rec); err != nil {
						return fmt.Errorf("save record: %w", err)
					}
				}
				if archive {
					path, err := report.Archive("", rec)
					if err != nil {
						return fmt.Errorf("archive record: %w", err)
					}
					s.log.Info("record archived", zap.String("path", path), zap.Stringer("id", rec.ID))
				}
			}

			out := cmd.OutOrStdout()
			rpt := reporter.New(plan)
			switch {
			case opts.json:
				data, err := rpt.JSON()
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
			case templatePath != "":
				text, err := planner.RenderSummary(plan, templatePath)
				if err != nil {
					return err
				}
				fmt.Fprint(out, text)
			default:
				if !opts.quiet {
					ui.PrintLogo()
				}
				rpt.PrintSummary(out)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&output, "output", "", "Save the run record to file")
	cmd.Flags().StringVar(&templatePath, "template", "", "Custom summary template path")
	cmd.Flags().BoolVar(&archive, "archive", false, "Archive the run record under "+report.DefaultDir)

	return cmd
}

func timelineCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "timeline",
		Short: "Print the tick-by-tick worker table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.load(cmd)
			if err != nil {
				return err
			}
			defer s.log.Sync()

			plan, _, err := s.buildPlan()
			if err != nil {
				return err
			}
			reporter.New(plan).PrintTimeline(cmd.OutOrStdout())
			return nil
		},
	}
}

func vizCmd(opts *options) *cobra.Command {
	var formatOut string

	cmd := &cobra.Command{
		Use:   "viz",
		Short: "Print the step graph as an ASCII DAG or Graphviz DOT",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.load(cmd)
			if err != nil {
				return err
			}
			defer s.log.Sync()

			plan, result, err := s.buildPlan()
			if err != nil {
				return err
			}

			switch formatOut {
			case "dot":
				printDOT(cmd.OutOrStdout(), s.graph, result)
			case "ascii":
				printASCIIDAG(cmd.OutOrStdout(), plan, s.graph)
			default:
				return fmt.Errorf("unknown output format %q (want ascii or dot)", formatOut)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&formatOut, "format-out", "ascii", "Output format (ascii, dot)")

	return cmd
}

func showCmd(opts *options) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "show [record.json]",
		Short: "Re-render a saved run record (the latest archived one by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				rec *report.Record
				err error
			)
			if len(args) == 1 {
				rec, err = report.Load(args[0])
			} else {
				rec, err = report.LoadLatest(dir)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.json {
				return outputJSON(out, rec)
			}
			fmt.Fprintf(out, "%s %s  %s\n", ui.Dim("record"), rec.ID, ui.Dim(rec.CreatedAt.Format("2006-01-02 15:04:05")))
			reporter.New(rec.Plan).PrintSummary(out)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", report.DefaultDir, "Archive directory")

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the steploom version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "steploom %s\n", version)
		},
	}
}

func outputJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(data))
	return nil
}
