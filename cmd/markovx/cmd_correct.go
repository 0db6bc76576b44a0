package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/comalice/markovx"
	"github.com/comalice/markovx/hmm"
	"github.com/comalice/markovx/internal/primitives"
)

var (
	correctCorpus    string
	correctInput     string
	correctActual    string
	correctOrder     int
	correctConfusion string
	correctTable     string
)

// correctCmd fixes OCR errors in a text file
var correctCmd = &cobra.Command{
	Use:   "correct",
	Short: "Correct OCR errors with a Viterbi decoder",
	Long: `Trains a character n-gram model (n = 1 or 2) on a corpus and decodes each
word of the input with the Viterbi algorithm, using letter confusion groups
as the emission model. With --actual, reports how many words differ from the
reference text before and after correction.`,
	RunE: runCorrect,
}

func init() {
	correctCmd.Flags().StringVar(&correctCorpus, "corpus", "", "Training corpus text file")
	correctCmd.Flags().StringVar(&correctInput, "input", "", "OCR output to correct")
	correctCmd.Flags().StringVar(&correctActual, "actual", "", "Reference text for difference counts")
	correctCmd.Flags().IntVarP(&correctOrder, "order", "n", 1, "N-gram order (1 or 2)")
	correctCmd.Flags().StringVar(&correctConfusion, "confusion", "", "Confusion groups YAML (default: built-in groups)")
	correctCmd.Flags().StringVar(&correctTable, "table", "", "Print the Viterbi trellis for this word")
	_ = correctCmd.MarkFlagRequired("corpus")
	_ = correctCmd.MarkFlagRequired("input")
}

func loadConfusion(path string) (*hmm.Confusion, error) {
	if path == "" {
		return hmm.DefaultConfusion(), nil
	}
	cc, err := primitives.LoadYAML[primitives.ConfusionConfig](path)
	if err != nil {
		return nil, err
	}
	return hmm.NewConfusion(cc)
}

func readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

func runCorrect(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	if cmd.Flags().Changed("order") {
		cfg.Correction.Order = correctOrder
	}
	if cmd.Flags().Changed("confusion") {
		cfg.Correction.ConfusionFile = correctConfusion
	}

	confusion, err := loadConfusion(cfg.Correction.ConfusionFile)
	if err != nil {
		return err
	}
	corpus, err := readText(correctCorpus)
	if err != nil {
		return err
	}
	input, err := readText(correctInput)
	if err != nil {
		return err
	}

	corrector, err := hmm.NewCorrector(corpus, cfg.Correction.Order, confusion, hmm.WithLogger(logger))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if correctTable != "" {
		obs := make([]string, 0, len(correctTable))
		for _, r := range correctTable {
			obs = append(obs, string(r))
		}
		tr, err := corrector.Decoder().Table(obs)
		if err != nil {
			return err
		}
		fmt.Fprint(out, tr.String())
	}

	corrected, err := corrector.Correct(ctx, input)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, corrected)

	report := markovx.Report{
		Kind:    markovx.KindCorrection,
		Name:    fmt.Sprintf("correction-n%d", cfg.Correction.Order),
		Version: primitives.ComputeVersion("", cfg.Correction),
		Text:    corrected,
		Values:  map[string]float64{"order": float64(cfg.Correction.Order)},
	}

	if correctActual != "" {
		actual, err := readText(correctActual)
		if err != nil {
			return err
		}
		before := hmm.CountDifferences(actual, strings.TrimSpace(input))
		after := hmm.CountDifferences(actual, corrected)
		renderPairs(out, "Differences from reference",
			[]string{"OCR text", "corrected text"},
			[]string{fmt.Sprint(before), fmt.Sprint(after)})
		report.Values["differences_before"] = float64(before)
		report.Values["differences_after"] = float64(after)
		logger.Info("correction scored", zap.Int("before", before), zap.Int("after", after))
	}

	report.Timestamp = time.Now().UTC()
	return record(ctx, report)
}
