// Command clonebench drives a simulation-stepping workload and reports how
// much keeping a snapshot in step with live state allocates.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose bool
	steps   int
	size    int
	mode    string
	verify  bool

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "clonebench",
	Short: "Measure snapshot sync cost for a stepping simulation",
	Long: `clonebench advances a World of particles step by step and keeps a
snapshot equal to it after every step.

Modes:
  - sync:  deepclone.CloneFrom, reusing the snapshot's storage
  - clone: deepclone.Clone, building a fresh snapshot every step

Allocation counts and bytes are read from runtime.MemStats.

Example:
  clonebench --steps 1000 --size 256 --mode sync --verify`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runBench,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Flags().IntVar(&steps, "steps", 1000, "Number of simulation steps")
	rootCmd.Flags().IntVar(&size, "size", 128, "Number of particles in the world")
	rootCmd.Flags().StringVar(&mode, "mode", modeSync, "Snapshot strategy: sync or clone")
	rootCmd.Flags().BoolVar(&verify, "verify", false, "Check snapshot digests against the live state")
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg := benchConfig{Steps: steps, Size: size, Mode: mode, Verify: verify}
	rep, err := run(cfg, logger)
	if err != nil {
		return err
	}

	logger.Info("benchmark complete",
		zap.String("mode", cfg.Mode),
		zap.Int("steps", cfg.Steps),
		zap.Int("size", cfg.Size),
		zap.Uint64("allocs", rep.Allocs),
		zap.Uint64("bytes", rep.Bytes),
		zap.Float64("allocs_per_step", rep.AllocsPerStep()),
		zap.Duration("elapsed", rep.Elapsed),
		zap.Bool("verified", rep.Verified),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d steps, %d allocs (%.1f/step), %d bytes, %s\n",
		cfg.Mode, cfg.Steps, rep.Allocs, rep.AllocsPerStep(), rep.Bytes, rep.Elapsed)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
