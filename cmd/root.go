// Package cmd provides the command-line interface for the cache-coherence simulator.
package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/arch-sim/mesicache/config"
	"github.com/arch-sim/mesicache/hooks"
	"github.com/arch-sim/mesicache/logging"
	"github.com/arch-sim/mesicache/protocol"
	"github.com/arch-sim/mesicache/report"
	"github.com/arch-sim/mesicache/simulation"
	"github.com/arch-sim/mesicache/trace"
)

var cfg config.Config
var debug bool
var describeProtocol bool

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "mesicache",
	Short: "Simulate a MESI-coherent 4-core cache hierarchy over recorded memory traces.",
	Long: `mesicache replays per-core memory reference traces against a simulated snooping bus ` +
		`and four private, set-associative L1 caches kept coherent by the MESI protocol, then ` +
		`reports per-core and bus statistics.`,
	RunE: runSimulation,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&cfg.TracePrefix, "trace", "t", "sample", "trace file prefix")
	flags.IntVarP(&cfg.SetIndexBits, "set-bits", "s", 6, "set-index bits")
	flags.IntVarP(&cfg.Associativity, "assoc", "E", 2, "associativity")
	flags.IntVarP(&cfg.BlockOffsetBits, "block-bits", "b", 5, "block-offset bits")
	flags.StringVarP(&cfg.OutputPath, "out", "o", "", "optional CSV output path")
	flags.BoolVar(&debug, "debug", false, "enable per-cycle coherence tracing")
	flags.BoolVar(&describeProtocol, "describe-protocol", false, "print the MESI protocol table and exit")
}

// Execute adds all child commands to the root command and runs it, exiting the process
// with code 1 on any error the way this codebase's other CLI entrypoints do.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	logger := logging.GetLogger()
	if debug {
		logger.SetLevel(logging.LogLevelDebug)
	}

	if describeProtocol {
		cmd.Println(protocol.Spec.Describe())
		return nil
	}

	cfg.Debug = debug
	if err := config.Validate(cfg); err != nil {
		logger.Errorf("%v", err)
		return err
	}

	refs, err := trace.Load(cfg.TracePrefix)
	if err != nil {
		logger.Errorf("%v", err)
		return err
	}

	broker := hooks.NewBroker()
	if debug {
		broker.OnDispatch(func(ev hooks.DispatchEvent) {
			logger.Debugf("[cycle %6d] core %d dispatches %s at 0x%x", ev.Cycle, ev.CoreID, ev.Op, ev.Address)
		})
		broker.OnComplete(func(ev hooks.CompleteEvent) {
			logger.Debugf("[cycle %6d] core %d completes %s at 0x%x -> %s", ev.Cycle, ev.CoreID, ev.Op, ev.Address, ev.NewState)
		})
		broker.OnInvalidate(func(ev hooks.InvalidateEvent) {
			logger.Debugf("[cycle %6d] core %d invalidated at 0x%x", ev.Cycle, ev.CoreID, ev.Address)
		})
		broker.OnEvict(func(ev hooks.EvictEvent) {
			logger.Debugf("[cycle %6d] core %d evicts 0x%x (modified=%v)", ev.Cycle, ev.CoreID, ev.Address, ev.WasModified)
		})
		broker.OnWriteback(func(ev hooks.WritebackEvent) {
			logger.Debugf("[cycle %6d] core %d writes back 0x%x", ev.Cycle, ev.CoreID, ev.Address)
		})
	}

	sim := simulation.New(cfg, refs, broker)
	coreCounters, busCounters, err := sim.Run(context.Background())
	if err != nil {
		logger.Errorf("%v", err)
		return err
	}

	writer := report.New(cfg, coreCounters, busCounters)
	if err := writer.WriteStdout(cmd.OutOrStdout()); err != nil {
		return err
	}

	if cfg.OutputPath != "" {
		f, err := os.Create(cfg.OutputPath)
		if err != nil {
			logger.Errorf("%v", err)
			return err
		}
		defer f.Close()
		if err := writer.WriteCSV(f); err != nil {
			return err
		}
	}

	return nil
}
