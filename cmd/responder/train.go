package main

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// #region train-command
var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the classifier on the corpus and record the run",
	RunE:  runTrain,
}

func init() {
	trainCmd.Flags().Int("runs", 0, "also list the N most recent training runs")
	trainCmd.Flags().Bool("json", false, "output as JSON instead of text")
}

type trainOutput struct {
	RunID       string   `json:"run_id"`
	Fingerprint string   `json:"corpus_fingerprint"`
	Samples     int      `json:"samples"`
	Classes     []string `json:"classes"`
	Vocabulary  int      `json:"vocabulary"`
	Iterations  int      `json:"iterations"`
	Converged   bool     `json:"converged"`
}

func runTrain(cmd *cobra.Command, args []string) error {
	runs, _ := cmd.Flags().GetInt("runs")
	jsonOut, _ := cmd.Flags().GetBool("json")

	bar := progressbar.NewOptions(cfg.Trainer.MaxIter,
		progressbar.OptionSetDescription("training"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	a, err := buildApp(cfg, logger, func(iter, _ int) { _ = bar.Set(iter) })
	if err != nil {
		return err
	}
	defer a.Close()
	_ = bar.Finish()

	stats := a.classifier.Stats()
	out := trainOutput{
		RunID:       a.run.RunID,
		Fingerprint: a.run.CorpusFingerprint,
		Samples:     stats.Samples,
		Classes:     a.classifier.Model().Classes(),
		Vocabulary:  stats.Vocabulary,
		Iterations:  stats.Iterations,
		Converged:   stats.Converged,
	}
	if jsonOut {
		return printJSON(cmd.OutOrStdout(), out)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Run:         %s\n", out.RunID)
	fmt.Fprintf(w, "Corpus:      %s (%s)\n", cfg.CorpusPath, shortID(out.Fingerprint))
	fmt.Fprintf(w, "Samples:     %d\n", out.Samples)
	fmt.Fprintf(w, "Classes:     %d %v\n", len(out.Classes), out.Classes)
	fmt.Fprintf(w, "Vocabulary:  %d\n", out.Vocabulary)
	fmt.Fprintf(w, "Iterations:  %d (converged=%t)\n", out.Iterations, out.Converged)

	if runs <= 0 {
		return nil
	}
	recent, err := a.db.ListTrainingRuns(runs)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\n%-12s  %-12s  %7s  %7s  %5s  %-9s  %s\n", "Run", "Corpus", "Samples", "Classes", "Iters", "Converged", "Time")
	fmt.Fprintf(w, "%-12s+-%-12s+-%7s+-%7s+-%5s+-%-9s+-%s\n", "------------", "------------", "-------", "-------", "-----", "---------", "--------------------")
	for _, r := range recent {
		fmt.Fprintf(w, "%-12s  %-12s  %7d  %7d  %5d  %-9t  %s\n",
			shortID(r.RunID), shortID(r.CorpusFingerprint), r.Samples, r.Classes, r.Iterations, r.Converged,
			r.CreatedAt.Format("2006-01-02T15:04:05Z"))
	}
	return nil
}

// #endregion train-command
