package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/intent-responder/internal/logging"
	"github.com/danielpatrickdp/intent-responder/internal/storage"
)

// #region history-command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or export the conversation log",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "show N most recent exchanges (0 for all)")
	historyCmd.Flags().String("csv", "", "export the full log as CSV to a file, or - for stdout")
	historyCmd.Flags().Bool("json", false, "output as JSON instead of a table")
}

type historyRow struct {
	SessionID  string  `json:"session_id,omitempty"`
	User       string  `json:"user"`
	Bot        string  `json:"bot"`
	Source     string  `json:"source"`
	Tag        string  `json:"tag,omitempty"`
	Confidence float64 `json:"confidence"`
	Time       string  `json:"time"`
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	csvPath, _ := cmd.Flags().GetString("csv")
	jsonOut, _ := cmd.Flags().GetBool("json")

	db, err := storage.NewStore(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()
	if _, err := logging.NewConversationLog(db.DB()); err != nil {
		return err
	}

	if csvPath != "" {
		return exportHistory(cmd, db, csvPath)
	}

	exchanges, err := logging.History(db.DB(), limit)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	if len(exchanges) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "no exchanges recorded")
		return nil
	}

	rows := make([]historyRow, len(exchanges))
	for i, ex := range exchanges {
		rows[i] = historyRow{
			SessionID:  ex.SessionID,
			User:       ex.Input,
			Bot:        ex.Response,
			Source:     ex.Source,
			Tag:        ex.Tag,
			Confidence: ex.Confidence,
			Time:       ex.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
	}
	if jsonOut {
		return printJSON(w, rows)
	}

	fmt.Fprintf(w, "%-20s  %-9s  %-12s  %5s  %-30s  %s\n", "Time", "Source", "Tag", "Conf", "User", "Bot")
	fmt.Fprintf(w, "%-20s+-%-9s+-%-12s+-%5s+-%-30s+-%s\n", "--------------------", "---------", "------------", "-----", "------------------------------", "--------------------")
	for _, r := range rows {
		fmt.Fprintf(w, "%-20s  %-9s  %-12s  %5.2f  %-30s  %s\n",
			r.Time, r.Source, truncate(r.Tag, 12), r.Confidence, truncate(r.User, 30), truncate(r.Bot, 60))
	}
	return nil
}

func exportHistory(cmd *cobra.Command, db *storage.Store, path string) error {
	var w io.Writer = cmd.OutOrStdout()
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		defer f.Close()
		w = f
	}
	n, err := logging.ExportCSV(db.DB(), w)
	if err != nil {
		return err
	}
	if path != "-" {
		fmt.Fprintf(cmd.ErrOrStderr(), "exported %d exchanges to %s\n", n, path)
	}
	return nil
}

// #endregion history-command
