package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/intent-responder/internal/replay"
	"github.com/danielpatrickdp/intent-responder/internal/resolver"
)

// #region replay-command
var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a scripted conversation fixture and check its expectations",
	RunE:  runReplay,
}

func init() {
	replayCmd.Flags().String("fixture", "", "path to a replay fixture JSON file")
	replayCmd.Flags().Bool("json", false, "output per-turn results as JSON")
	_ = replayCmd.MarkFlagRequired("fixture")
}

func runReplay(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("fixture")
	jsonOut, _ := cmd.Flags().GetBool("json")

	f, err := replay.LoadFixture(path)
	if err != nil {
		return err
	}
	results, err := replay.Replay(f, cfg.TrainOptions()...)
	if err != nil {
		return err
	}
	mismatches := replay.Check(f, results)

	w := cmd.OutOrStdout()
	if jsonOut {
		if err := printJSON(w, results); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(w, "%s\n\n", f.Description)
		fmt.Fprintf(w, "%-6s  %-6s  %-10s  %-12s  %5s  %s\n", "Turn", "Kind", "Source", "Tag", "Conf", "Reply")
		fmt.Fprintf(w, "%-6s+-%-6s+-%-10s+-%-12s+-%5s+-%s\n", "------", "------", "----------", "------------", "-----", "--------------------")
		for _, r := range results {
			reply := r.Text
			if r.Error != "" {
				reply = "error: " + r.Error
			}
			fmt.Fprintf(w, "%-6s  %-6s  %-10s  %-12s  %5.2f  %s\n",
				r.TurnID, r.Kind, dash(string(r.Source)), dash(r.Tag), r.Confidence, truncate(reply, 60))
		}

		s := replay.Summarize(results)
		sources := make([]string, 0, len(s.BySource))
		for src := range s.BySource {
			sources = append(sources, string(src))
		}
		sort.Strings(sources)
		fmt.Fprintf(w, "\n%d turns, %d taught, %d teach errors\n", s.TotalTurns, s.Taught, s.Errors)
		for _, src := range sources {
			fmt.Fprintf(w, "  %-10s %d\n", src, s.BySource[resolver.Source(src)])
		}
	}

	if len(mismatches) > 0 {
		for _, m := range mismatches {
			fmt.Fprintf(cmd.ErrOrStderr(), "MISMATCH %s\n", m)
		}
		return fmt.Errorf("%d expectation(s) failed", len(mismatches))
	}
	return nil
}

// #endregion replay-command
