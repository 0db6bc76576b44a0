package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/comalice/markovx"
	"github.com/comalice/markovx/board"
	"github.com/comalice/markovx/internal/primitives"
	"github.com/comalice/markovx/internal/production"
)

var (
	boardFile  string
	boardCSV   string
	boardTurns int
)

// boardCmd builds the chutes and ladders transition matrix
var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Build the chutes and ladders transition matrix",
	Long: `Builds the column-stochastic transition matrix of the board, reports the
expected number of turns to finish and the chance of having finished after a
number of turns, and optionally dumps the matrix as CSV.`,
	RunE: runBoard,
}

func init() {
	boardCmd.Flags().StringVar(&boardFile, "board", "", "Board layout YAML (default: standard board)")
	boardCmd.Flags().StringVar(&boardCSV, "csv", "", "Write the transition matrix to this CSV file")
	boardCmd.Flags().IntVar(&boardTurns, "turns", 50, "Turns for the finishing probability")
}

func loadBoard(path string) (*board.Board, error) {
	if path == "" {
		return board.Default(), nil
	}
	bc, err := primitives.LoadYAML[primitives.BoardConfig](path)
	if err != nil {
		return nil, err
	}
	return board.New(bc)
}

func runBoard(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	if cmd.Flags().Changed("board") {
		cfg.Board.File = boardFile
	}
	if cmd.Flags().Changed("csv") {
		cfg.Board.CSV = boardCSV
	}
	if cmd.Flags().Changed("turns") {
		cfg.Board.Turns = boardTurns
	}

	b, err := loadBoard(cfg.Board.File)
	if err != nil {
		return err
	}
	m := b.Matrix()

	if cfg.Board.CSV != "" {
		if err := writeCSV(cfg.Board.CSV, m); err != nil {
			return err
		}
		logger.Info("matrix written", zap.String("path", cfg.Board.CSV), zap.Int("size", b.Size()))
	}

	expected, err := b.ExpectedTurns()
	if err != nil {
		return err
	}
	finished := b.Distribution(cfg.Board.Turns)[b.Final()]

	renderPairs(cmd.OutOrStdout(), "Board",
		[]string{"squares", "jumps", "expected turns", fmt.Sprintf("P(finished by turn %d)", cfg.Board.Turns)},
		[]string{
			fmt.Sprint(b.Size()),
			fmt.Sprint(len(b.Config().Jumps)),
			fmt.Sprintf("%.4f", expected),
			fmt.Sprintf("%.4f", finished),
		})

	squares := labels(0, b.Final())
	report := markovx.MatrixReport(markovx.KindBoard, "board", squares, squares, m)
	report.Version = primitives.ComputeVersion("", b.Config())
	report.Values = map[string]float64{
		"expected_turns": expected,
		"finished":       finished,
		"turns":          float64(cfg.Board.Turns),
	}
	return record(ctx, report)
}

func writeCSV(path string, m mat.Matrix) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := production.WriteMatrixCSV(f, m); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
