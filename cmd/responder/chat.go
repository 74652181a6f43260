package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/intent-responder/internal/session"
)

// #region chat-command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat on stdin/stdout",
	Long: `Chat with the responder. When it is unsure it enters learning mode
and waits for a correction. Any other line is a new question.

  /teach <answer>   store the answer for the pending question
  /skip             leave learning mode without teaching
  /reset            same as /skip
  quit              exit`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd)
	},
}

func runChat(cmd *cobra.Command) error {
	a, err := buildApp(cfg, logger, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Smart farming responder ready.")
	fmt.Fprintf(out, "  Corpus: %s | Intents: %d | Threshold: %.2f\n", cfg.CorpusPath, len(a.intents), cfg.Threshold)
	fmt.Fprintln(out, "Type a message (or 'quit' to exit):")

	return chatLoop(cmd.InOrStdin(), out, a.newSession(uuid.New().String()))
}

// #endregion chat-command

// #region chat-loop
const teachPrefix = "/teach"

// chatLoop reads one message per line. Corrections are only taken from
// "/teach <answer>", so a follow-up question is never stored as an answer.
func chatLoop(in io.Reader, out io.Writer, s *session.Session) error {
	scanner := bufio.NewScanner(in)
	for {
		if _, pending := s.Pending(); pending {
			fmt.Fprint(out, "learning> ")
		} else {
			fmt.Fprint(out, "> ")
		}
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "":
			continue
		case "quit", "exit":
			return nil
		case "/skip", "/reset":
			s.Reset()
			fmt.Fprintln(out, "(learning mode off)")
			continue
		}

		if answer, ok := teachArgument(line); ok {
			text, err := s.Teach(answer)
			if err != nil {
				fmt.Fprintf(out, "(could not save: %v)\n", err)
				continue
			}
			fmt.Fprintf(out, "\n%s\n\n", text)
			continue
		}

		res := s.Submit(line)
		fmt.Fprintf(out, "\n%s\n\n", res.Text)
		if res.LearningRequested {
			fmt.Fprintln(out, "(learning mode: /teach <correct answer>, or /skip)")
		}
	}
}

// teachArgument splits "/teach <answer>". A bare "/teach" yields an empty answer.
func teachArgument(line string) (string, bool) {
	rest, ok := strings.CutPrefix(line, teachPrefix)
	if !ok || (rest != "" && rest[0] != ' ' && rest[0] != '\t') {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

// #endregion chat-loop
