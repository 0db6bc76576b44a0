package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/comalice/markovx"
	"github.com/comalice/markovx/internal/primitives"
	"github.com/comalice/markovx/internal/production"
)

var (
	simChain      string
	simChainsFile string
	simIterations int
	simSeed       uint64
	simWorkers    int
	simTrace      int
)

// simulateCmd runs random walks from every state of a chain
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Simulate random walks over a Markov chain",
	Long: `Walks the chain from every state and reports the fraction of steps spent in
each state, next to the stationary distribution of the chain.`,
	RunE: runSimulate,
}

func init() {
	addChainFlags(simulateCmd, &simChain, &simChainsFile)
	simulateCmd.Flags().IntVarP(&simIterations, "iterations", "n", 10000, "Steps per walk")
	simulateCmd.Flags().Uint64Var(&simSeed, "seed", 1, "Random seed")
	simulateCmd.Flags().IntVar(&simWorkers, "workers", 0, "Concurrent walks (0 = one per start)")
	simulateCmd.Flags().IntVar(&simTrace, "trace", 0, "Print up to this many steps of the walks")
}

func addChainFlags(cmd *cobra.Command, chain, file *string) {
	cmd.Flags().StringVar(chain, "chain", "a", "Chain ID")
	cmd.Flags().StringVar(file, "chains", "", "Chains YAML (default: built-in chains)")
}

// resolveChain applies the chain flags to the config and loads the chain.
func resolveChain(cmd *cobra.Command, chain, file string) (*markovx.Chain, error) {
	if cmd.Flags().Changed("chain") {
		cfg.Simulation.Chain = chain
	}
	if cmd.Flags().Changed("chains") {
		cfg.Simulation.ChainsFile = file
	}

	if cfg.Simulation.ChainsFile == "" {
		chains := markovx.DefaultChains()
		c, ok := chains[cfg.Simulation.Chain]
		if !ok {
			return nil, fmt.Errorf("unknown chain %q (available: %v)", cfg.Simulation.Chain, chainIDs(chains))
		}
		return c, nil
	}

	configs, err := primitives.LoadChains(cfg.Simulation.ChainsFile)
	if err != nil {
		return nil, err
	}
	cc, ok := configs[cfg.Simulation.Chain]
	if !ok {
		return nil, fmt.Errorf("chain %q not found in %s", cfg.Simulation.Chain, cfg.Simulation.ChainsFile)
	}
	return markovx.FromConfig(cc)
}

func chainIDs(chains map[string]*markovx.Chain) []string {
	ids := make([]string, 0, len(chains))
	for id := range chains {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func runSimulate(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	chain, err := resolveChain(cmd, simChain, simChainsFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("iterations") {
		cfg.Simulation.Iterations = simIterations
	}
	if cmd.Flags().Changed("seed") {
		cfg.Simulation.Seed = simSeed
	}
	if cmd.Flags().Changed("workers") {
		cfg.Simulation.Workers = simWorkers
	}

	opts := []markovx.Option{
		markovx.WithSeed(cfg.Simulation.Seed),
		markovx.WithWorkers(cfg.Simulation.Workers),
		markovx.WithLogger(logger),
	}
	var trace chan markovx.StepEvent
	var pub *production.ChannelPublisher
	if simTrace > 0 {
		trace = make(chan markovx.StepEvent, simTrace)
		pub = production.NewChannelPublisher(trace)
		opts = append(opts, markovx.WithPublisher(pub))
	}

	res, err := markovx.NewSimulator(chain, opts...).Run(ctx, cfg.Simulation.Iterations)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if pub != nil {
		pub.Close()
		for evt := range trace {
			fmt.Fprintf(out, "start %s step %d: %s -> %s\n",
				chain.Name(evt.Start), evt.Step, chain.Name(evt.From), chain.Name(evt.To))
		}
		logger.Debug("trace truncated", zap.Int64("dropped", pub.Dropped()))
	}

	report := res.Report(chain)
	report.Version = primitives.ComputeVersion("", cfg.Simulation)

	rows := append([]string(nil), report.Rows...)
	data := append([][]float64(nil), report.Matrix...)
	pi, err := chain.Stationary(cfg.Simulation.Tolerance, 100000)
	if err != nil {
		logger.Warn("no stationary distribution", zap.Error(err))
	} else {
		rows = append(rows, "stationary")
		data = append(data, pi)
		for i, p := range pi {
			report.Values["stationary "+chain.Name(markovx.StateID(i))] = p
		}
	}
	renderMatrix(out, fmt.Sprintf("Occupancy of chain %s (%d steps per walk)", chain.ID(), cfg.Simulation.Iterations),
		"", rows, chain.Names(), data, "%.4f")

	return record(ctx, report)
}
