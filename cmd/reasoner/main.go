package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/wbrown/janus-reasoner/reasoner/annotations"
	"github.com/wbrown/janus-reasoner/reasoner/config"
	"github.com/wbrown/janus-reasoner/reasoner/format"
	"go.uber.org/zap"
)

// env is what every scenario runs against
type env struct {
	cfg     *config.Config
	logger  *zap.Logger
	handler annotations.Handler
	out     io.Writer
	tables  *format.TableFormatter
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var (
		configPath    string
		storeKind     string
		maxIterations int
		verbose       bool
	)
	e := &env{out: stdout, tables: format.NewTableFormatter()}

	root := &cobra.Command{
		Use:   "reasoner",
		Short: "Forward-chaining reasoner demos",
		Long: `reasoner runs built-in scenarios through the first-order and
propositional engines and prints the derived facts as markdown tables.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("store") {
				cfg.Store = storeKind
			}
			if flags.Changed("max-iterations") {
				cfg.MaxIterations = maxIterations
			}
			if flags.Changed("verbose") {
				cfg.Verbose = verbose
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := cfg.NewLogger()
			if err != nil {
				return err
			}
			e.cfg = cfg
			e.logger = logger

			var console annotations.Handler
			if cfg.Verbose {
				console = annotations.NewOutputFormatter(stderr).Handle
			}
			e.handler = annotations.Multi(annotations.ZapHandler(logger), console)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if e.logger != nil {
				_ = e.logger.Sync()
			}
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&configPath, "config", "reasoner.yaml", "configuration file (missing file means defaults)")
	pf.StringVar(&storeKind, "store", "memory", "fact store for the first-order engine (memory, badger)")
	pf.IntVar(&maxIterations, "max-iterations", 0, "forward chaining bound (0 uses the engine default)")
	pf.BoolVar(&verbose, "verbose", false, "print reasoning annotations to stderr")

	for _, s := range scenarios {
		root.AddCommand(scenarioCmd(e, s))
	}
	root.AddCommand(&cobra.Command{
		Use:   "all",
		Short: "Run every scenario in turn",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, s := range scenarios {
				if err := runScenario(e, s); err != nil {
					return err
				}
			}
			return nil
		},
	})
	return root
}

func scenarioCmd(e *env, s scenario) *cobra.Command {
	return &cobra.Command{
		Use:   s.name,
		Short: s.short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(e, s)
		},
	}
}

func runScenario(e *env, s scenario) error {
	fmt.Fprintf(e.out, "## %s\n\n", s.title)
	if err := s.run(e); err != nil {
		e.logger.Error("scenario failed", zap.String("scenario", s.name), zap.Error(err))
		return fmt.Errorf("%s: %w", s.name, err)
	}
	fmt.Fprintln(e.out)
	return nil
}
