package main

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/intent-responder/internal/learned"
)

// #region teach-command
var teachCmd = &cobra.Command{
	Use:   "teach <question> <answer>",
	Short: "Store an answer for a question without chatting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := learned.Normalize(args[0])
		answer := strings.TrimSpace(args[1])
		if answer == "" {
			return fmt.Errorf("answer is empty")
		}
		return withStore(func(store learned.Store) error {
			if err := store.Put(key, answer); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "learned %q\n", key)
			return nil
		})
	},
}

var forgetCmd = &cobra.Command{
	Use:   "forget <question>",
	Short: "Remove a learned answer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := learned.Normalize(args[0])
		return withStore(func(store learned.Store) error {
			removed, err := store.Delete(key)
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("nothing learned for %q", key)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "forgot %q\n", key)
			return nil
		})
	},
}

// #endregion teach-command

// #region learned-command
var learnedCmd = &cobra.Command{
	Use:   "learned",
	Short: "List learned answers",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, _ := cmd.Flags().GetString("filter")
		jsonOut, _ := cmd.Flags().GetBool("json")

		return withStore(func(store learned.Store) error {
			entries, err := store.List()
			if err != nil {
				return err
			}
			entries = filterEntries(entries, filter)
			if jsonOut {
				return printJSON(cmd.OutOrStdout(), entries)
			}
			w := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(w, "no learned answers")
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(w, "%-40s  %s\n", truncate(e.Key, 40), e.Value)
			}
			return nil
		})
	},
}

func init() {
	learnedCmd.Flags().String("filter", "", "fuzzy filter on the question")
	learnedCmd.Flags().Bool("json", false, "output as JSON instead of a table")
}

// filterEntries keeps entries whose key fuzzy-matches pattern, best first.
func filterEntries(entries []learned.Entry, pattern string) []learned.Entry {
	if pattern == "" {
		return entries
	}
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	matches := fuzzy.Find(learned.Normalize(pattern), keys)
	out := make([]learned.Entry, 0, len(matches))
	for _, m := range matches {
		out = append(out, entries[m.Index])
	}
	return out
}

func withStore(fn func(learned.Store) error) error {
	db, store, err := openStorage(cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(store)
}

// #endregion learned-command
