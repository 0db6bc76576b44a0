package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/comalice/markovx"
	"github.com/comalice/markovx/dice"
	"github.com/comalice/markovx/internal/primitives"
)

var (
	diceMax   int
	diceFaces int
)

// diceCmd prints win and tie tables for attacker vs defender dice counts
var diceCmd = &cobra.Command{
	Use:   "dice",
	Short: "Print win and tie probabilities for dice combat",
	Long: `Prints two tables indexed by attacking dice (rows) and defending dice
(columns): the probability that the attacker's total strictly exceeds the
defender's, and the probability that the totals are equal.`,
	RunE: runDice,
}

func init() {
	diceCmd.Flags().IntVar(&diceMax, "max", 8, "Largest number of dice on either side")
	diceCmd.Flags().IntVar(&diceFaces, "faces", 6, "Sides per die")
}

func runDice(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	if cmd.Flags().Changed("max") {
		cfg.Dice.MaxDice = diceMax
	}
	if cmd.Flags().Changed("faces") {
		cfg.Dice.Faces = diceFaces
	}

	d := dice.New(cfg.Dice.Faces, dice.WithLogger(logger))
	tables, err := d.Tables(ctx, cfg.Dice.MaxDice)
	if err != nil {
		return err
	}
	logger.Info("dice tables computed", zap.Int("faces", d.Faces()), zap.Int("max", cfg.Dice.MaxDice))

	out := cmd.OutOrStdout()
	names := labels(1, cfg.Dice.MaxDice)
	renderMatrix(out, "P(attacker wins)", "m\\k", names, names, rowsOf(tables.Win), "%.4f")
	renderMatrix(out, "P(tie)", "m\\k", names, names, rowsOf(tables.Tie), "%.4f")

	version := primitives.ComputeVersion("", cfg.Dice)
	suffix := fmt.Sprintf("%dd%d", cfg.Dice.MaxDice, d.Faces())
	win := markovx.MatrixReport(markovx.KindDiceWin, "dice-win-"+suffix, names, names, tables.Win)
	win.Version = version
	tie := markovx.MatrixReport(markovx.KindDiceTie, "dice-tie-"+suffix, names, names, tables.Tie)
	tie.Version = version
	if err := record(ctx, win); err != nil {
		return err
	}
	return record(ctx, tie)
}
